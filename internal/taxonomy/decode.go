// decode.go parses catalog documents. A catalog is one JSON object mapping
// category names to arrays of definition objects. Go maps do not preserve
// key order, so parsing walks the token stream instead of unmarshalling
// into a map; the resulting category order is the document's own.

package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Parse decodes a catalog document from r. Schema violations surface as
// ErrSchema, duplicate names within a category as ErrDuplicate; nothing is
// silently recovered.
func Parse(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)

	t, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if d, ok := t.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top level must be an object of categories", ErrSchema)
	}

	c := &Catalog{index: make(map[string]int)}
	for dec.More() {
		t, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
		name := t.(string) // object keys are always strings
		if _, exists := c.index[name]; exists {
			return nil, fmt.Errorf("%w: category %q appears twice", ErrSchema, name)
		}
		defs, err := parseDefinitions(dec, name)
		if err != nil {
			return nil, err
		}
		c.index[name] = len(c.categories)
		c.categories = append(c.categories, Category{Name: name, Definitions: defs})
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if len(c.categories) == 0 {
		return nil, fmt.Errorf("%w: document has no categories", ErrSchema)
	}
	return c, nil
}

// parseDefinitions consumes one category's array, enforcing the three
// non-empty string fields and per-category name uniqueness.
func parseDefinitions(dec *json.Decoder, category string) ([]Definition, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: category %q: %v", ErrSchema, category, err)
	}
	if d, ok := t.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("%w: category %q must map to an array of definitions", ErrSchema, category)
	}

	var defs []Definition
	seen := make(map[string]bool)
	for dec.More() {
		var def Definition
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("%w: category %q: %v", ErrSchema, category, err)
		}
		if def.Name == "" || def.Description == "" || def.Guide == "" {
			return nil, fmt.Errorf("%w: category %q definition %d: error_name, description and implementation_guide are all required",
				ErrSchema, category, len(defs))
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("%w: %q appears twice in category %q", ErrDuplicate, def.Name, category)
		}
		seen[def.Name] = true
		defs = append(defs, def)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, fmt.Errorf("%w: category %q: %v", ErrSchema, category, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: category %q has no definitions", ErrSchema, category)
	}
	return defs, nil
}

// ParseBytes decodes a catalog document held in memory.
func ParseBytes(data []byte) (*Catalog, error) {
	return Parse(bytes.NewReader(data))
}

// LoadFile reads and parses a catalog document from disk. Used when config
// points at an external catalog instead of the embedded default.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}
