// errors.go defines sentinel errors for catalog failures.
//
// Design: Sentinel errors (not error types) because callers only branch on
// the failure class. Detailed messages are provided by wrapping these with
// fmt.Errorf at the point of failure, so errors.Is works while the message
// still names the offending category or definition.

package taxonomy

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema indicates a structurally invalid catalog document: malformed
	// JSON, a category mapped to anything but an array of definition objects,
	// a definition field missing, empty or non-string, or a category with no
	// definitions at all.
	ErrSchema = errors.New("invalid catalog schema")

	// ErrDuplicate indicates two definitions sharing an error_name within
	// the same category. The same name may recur across categories.
	ErrDuplicate = errors.New("duplicate error definition")

	// ErrNotFound indicates a lookup miss by category or by name.
	ErrNotFound = errors.New("error definition not found")
)

func notFoundCategory(category string) error {
	return fmt.Errorf("%w: unknown category %q", ErrNotFound, category)
}

func notFoundName(category, name string) error {
	return fmt.Errorf("%w: no %q in category %q", ErrNotFound, name, category)
}

func notFoundAnywhere(name string) error {
	return fmt.Errorf("%w: no %q in any category", ErrNotFound, name)
}
