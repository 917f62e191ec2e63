// select.go chooses which errors an exercise will plant: one or two random
// definitions per requested category, pooled and capped at a count adjusted
// for difficulty. Callers supply the rand source so selection stays
// deterministic under test.

package taxonomy

import (
	"fmt"
	"math/rand"
	"strings"
)

// Selected pairs a chosen definition with its category for exercise
// generation.
type Selected struct {
	Category string `json:"category"`
	Definition
}

// Problem renders the selected error as the one-line problem description the
// generation and grading prompts share.
func (s Selected) Problem() string {
	return fmt.Sprintf("Java Error - %s: %s (Category: %s)", s.Name, s.Description, s.Category)
}

// Problems renders problem descriptions for a whole selection.
func Problems(sel []Selected) []string {
	out := make([]string, len(sel))
	for i, s := range sel {
		out[i] = s.Problem()
	}
	return out
}

// AdjustCount scales a requested error count for difficulty: easy drops two
// but never goes below two, hard adds two, anything else keeps the count.
func AdjustCount(count int, difficulty string) int {
	switch strings.ToLower(difficulty) {
	case "easy":
		if count-2 < 2 {
			return 2
		}
		return count - 2
	case "hard":
		return count + 2
	default:
		return count
	}
}

// RandomByCategories pools every definition of the given categories and
// returns count of them at random, or the whole pool when it is smaller than
// count. Unknown categories are skipped rather than rejected so a stale
// category list degrades instead of failing.
func (c *Catalog) RandomByCategories(rng *rand.Rand, categories []string, count int) []Selected {
	var pool []Selected
	for _, name := range categories {
		i, ok := c.index[name]
		if !ok {
			continue
		}
		for _, def := range c.categories[i].Definitions {
			pool = append(pool, Selected{Category: name, Definition: def})
		}
	}
	if len(pool) <= count {
		return pool
	}
	return sample(rng, pool, count)
}

// ForExercise selects the errors to plant in generated code: one or two
// random definitions per requested category, then a random cut down to the
// difficulty-adjusted count when the pool overshoots it.
func (c *Catalog) ForExercise(rng *rand.Rand, categories []string, count int, difficulty string) []Selected {
	adjusted := AdjustCount(count, difficulty)

	var pool []Selected
	for _, name := range categories {
		i, ok := c.index[name]
		if !ok {
			continue
		}
		defs := c.categories[i].Definitions
		n := 1 + rng.Intn(2)
		if n > len(defs) {
			n = len(defs)
		}
		for _, j := range rng.Perm(len(defs))[:n] {
			pool = append(pool, Selected{Category: name, Definition: defs[j]})
		}
	}
	if len(pool) > adjusted {
		return sample(rng, pool, adjusted)
	}
	return pool
}

// Ref names one definition, optionally qualified by category.
type Ref struct {
	Category string
	Name     string
}

// Resolve returns full definitions for explicitly chosen errors, bypassing
// random selection. Unqualified refs match the first category containing the
// name. The difficulty cap does not apply; callers get exactly what they
// asked for, with implementation guides restored from the catalog.
func (c *Catalog) Resolve(refs []Ref) ([]Selected, error) {
	out := make([]Selected, 0, len(refs))
	for _, r := range refs {
		if r.Category != "" {
			def, err := c.Lookup(r.Category, r.Name)
			if err != nil {
				return nil, err
			}
			out = append(out, Selected{Category: r.Category, Definition: def})
			continue
		}
		m, err := c.FindByName(r.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, Selected{Category: m.Category, Definition: m.Definition})
	}
	return out, nil
}

// sample returns n elements of pool in random order without replacement.
func sample(rng *rand.Rand, pool []Selected, n int) []Selected {
	out := make([]Selected, 0, n)
	for _, j := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[j])
	}
	return out
}
