// Package taxonomy defines the Java code-review error catalog: named
// categories of error definitions loaded from one JSON document. The catalog
// is immutable after load and held for the life of the process; accessors
// return copies so callers cannot corrupt shared state. Category order and
// per-category definition order follow the source document exactly.
package taxonomy

import "strings"

// Definition describes one reviewable Java error: what it is called, what it
// looks like in code, and how to plant it when generating exercise code.
type Definition struct {
	Name        string `json:"error_name"`
	Description string `json:"description"`
	Guide       string `json:"implementation_guide"`
}

// Category is a named group of definitions in document order. Names are
// unique within a category but may recur across categories.
type Category struct {
	Name        string       `json:"category"`
	Definitions []Definition `json:"errors"`
}

// Match pairs a definition with the category it was found under, for lookups
// that span the whole catalog.
type Match struct {
	Category string `json:"category"`
	Definition
}

// Catalog is an ordered, read-only collection of categories.
type Catalog struct {
	categories []Category
	index      map[string]int // category name -> position in categories
}

// Categories returns the category names in document order.
func (c *Catalog) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// Len returns the total number of definitions across all categories.
func (c *Catalog) Len() int {
	n := 0
	for _, cat := range c.categories {
		n += len(cat.Definitions)
	}
	return n
}

// CategoryErrors returns the definitions of one category in document order.
// Returns ErrNotFound for an unknown category.
func (c *Catalog) CategoryErrors(category string) ([]Definition, error) {
	i, ok := c.index[category]
	if !ok {
		return nil, notFoundCategory(category)
	}
	defs := make([]Definition, len(c.categories[i].Definitions))
	copy(defs, c.categories[i].Definitions)
	return defs, nil
}

// Lookup returns a single definition by category and error name. Returns
// ErrNotFound when either the category or the name misses.
func (c *Catalog) Lookup(category, name string) (Definition, error) {
	i, ok := c.index[category]
	if !ok {
		return Definition{}, notFoundCategory(category)
	}
	for _, def := range c.categories[i].Definitions {
		if def.Name == name {
			return def, nil
		}
	}
	return Definition{}, notFoundName(category, name)
}

// FindByName returns the first definition with the given name, scanning
// categories in document order. Names are only unique within a category, so
// the first hit wins; use Search to see every occurrence.
func (c *Catalog) FindByName(name string) (Match, error) {
	for _, cat := range c.categories {
		for _, def := range cat.Definitions {
			if def.Name == name {
				return Match{Category: cat.Name, Definition: def}, nil
			}
		}
	}
	return Match{}, notFoundAnywhere(name)
}

// Search returns every definition whose name or description contains term,
// case-insensitively, in document order. An empty result is not an error.
func (c *Catalog) Search(term string) []Match {
	term = strings.ToLower(term)
	var matches []Match
	for _, cat := range c.categories {
		for _, def := range cat.Definitions {
			if strings.Contains(strings.ToLower(def.Name), term) ||
				strings.Contains(strings.ToLower(def.Description), term) {
				matches = append(matches, Match{Category: cat.Name, Definition: def})
			}
		}
	}
	return matches
}
