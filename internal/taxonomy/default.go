// default.go serves the embedded default catalog. Shipping the data inside
// the binary means revdrill works with zero setup; config can point at an
// external document which is loaded instead.

package taxonomy

import (
	"embed"
	"sync"
)

//go:embed data/java_errors.json
var defaultFS embed.FS

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsed once per process.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		data, err := defaultFS.ReadFile("data/java_errors.json")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCat, defaultErr = ParseBytes(data)
	})
	return defaultCat, defaultErr
}
