// encode.go writes a catalog back to its document form. The stock map
// encoder sorts keys alphabetically; order is part of the catalog contract,
// so the object is assembled by hand, category by category.

package taxonomy

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON encodes the catalog as the same JSON shape it was parsed
// from, preserving category order and per-category definition order.
// Parse(MarshalJSON(c)) yields a structurally identical catalog.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		defs, err := json.Marshal(cat.Definitions)
		if err != nil {
			return nil, err
		}
		buf.Write(defs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode returns the catalog document indented for files and human eyes.
func (c *Catalog) Encode() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
