package taxonomy_test

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/jpl-au/revdrill/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleDoc uses category names whose document order differs from their
// sorted order, so any accidental re-sorting shows up in order assertions.
const sampleDoc = `{
  "Runtime": [
    {"error_name": "Null dereference", "description": "Using a reference that may be null.", "implementation_guide": "Call a method on a possibly-null value."},
    {"error_name": "Division by zero", "description": "Dividing by a value that can be zero.", "implementation_guide": "Divide by a variable that is zero on some path."}
  ],
  "Compile": [
    {"error_name": "Missing brace", "description": "A block is never closed.", "implementation_guide": "Delete a closing brace."}
  ],
  "Style": [
    {"error_name": "Null dereference", "description": "Shadows the Runtime name on purpose.", "implementation_guide": "Same name, different category."},
    {"error_name": "Tab indentation", "description": "Mixing tabs and spaces.", "implementation_guide": "Indent one line with a tab."}
  ]
}`

func mustParse(t *testing.T, doc string) *taxonomy.Catalog {
	t.Helper()
	c, err := taxonomy.ParseBytes([]byte(doc))
	require.NoError(t, err)
	return c
}

// --- Parse Tests ---

func TestParse_PreservesDocumentOrder(t *testing.T) {
	c := mustParse(t, sampleDoc)

	assert.Equal(t, []string{"Runtime", "Compile", "Style"}, c.Categories())

	defs, err := c.CategoryErrors("Runtime")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "Null dereference", defs[0].Name)
	assert.Equal(t, "Division by zero", defs[1].Name)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed json", `{"A": [`},
		{"top level array", `[{"error_name": "x", "description": "y", "implementation_guide": "z"}]`},
		{"top level string", `"catalog"`},
		{"category not array", `{"A": {"error_name": "x"}}`},
		{"category string value", `{"A": "oops"}`},
		{"definition not object", `{"A": ["oops"]}`},
		{"non-string field", `{"A": [{"error_name": 7, "description": "d", "implementation_guide": "g"}]}`},
		{"missing field", `{"A": [{"error_name": "x", "description": "d"}]}`},
		{"empty field", `{"A": [{"error_name": "x", "description": "", "implementation_guide": "g"}]}`},
		{"empty category list", `{"A": []}`},
		{"empty document", `{}`},
		{"repeated category", `{"A": [{"error_name": "x", "description": "d", "implementation_guide": "g"}], "A": [{"error_name": "y", "description": "d", "implementation_guide": "g"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := taxonomy.ParseBytes([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, taxonomy.ErrSchema)
		})
	}
}

func TestParse_DuplicateNameWithinCategory(t *testing.T) {
	doc := `{"A": [
		{"error_name": "x", "description": "d1", "implementation_guide": "g1"},
		{"error_name": "x", "description": "d2", "implementation_guide": "g2"}
	]}`
	_, err := taxonomy.ParseBytes([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, taxonomy.ErrDuplicate)
	assert.NotErrorIs(t, err, taxonomy.ErrSchema)
}

func TestParse_SameNameAcrossCategoriesAllowed(t *testing.T) {
	c := mustParse(t, sampleDoc)

	runtime, err := c.Lookup("Runtime", "Null dereference")
	require.NoError(t, err)
	style, err := c.Lookup("Style", "Null dereference")
	require.NoError(t, err)
	assert.NotEqual(t, runtime.Description, style.Description)
}

// --- Accessor Tests ---

func TestLookup_NotFound(t *testing.T) {
	c := mustParse(t, sampleDoc)

	_, err := c.Lookup("Nope", "Missing brace")
	assert.ErrorIs(t, err, taxonomy.ErrNotFound)

	_, err = c.Lookup("Compile", "No such error")
	assert.ErrorIs(t, err, taxonomy.ErrNotFound)

	_, err = c.CategoryErrors("Nope")
	assert.ErrorIs(t, err, taxonomy.ErrNotFound)
}

func TestFindByName_FirstCategoryWins(t *testing.T) {
	c := mustParse(t, sampleDoc)

	m, err := c.FindByName("Null dereference")
	require.NoError(t, err)
	assert.Equal(t, "Runtime", m.Category)

	_, err = c.FindByName("No such error")
	assert.ErrorIs(t, err, taxonomy.ErrNotFound)
}

func TestSearch_CaseInsensitiveNameAndDescription(t *testing.T) {
	c := mustParse(t, sampleDoc)

	// Name match across two categories.
	matches := c.Search("NULL DEREF")
	require.Len(t, matches, 2)
	assert.Equal(t, "Runtime", matches[0].Category)
	assert.Equal(t, "Style", matches[1].Category)

	// Description-only match.
	matches = c.Search("never closed")
	require.Len(t, matches, 1)
	assert.Equal(t, "Missing brace", matches[0].Name)

	assert.Empty(t, c.Search("quantum"))
}

func TestCategoryErrors_ReturnsCopy(t *testing.T) {
	c := mustParse(t, sampleDoc)

	defs, err := c.CategoryErrors("Compile")
	require.NoError(t, err)
	defs[0].Name = "mutated"

	again, err := c.CategoryErrors("Compile")
	require.NoError(t, err)
	assert.Equal(t, "Missing brace", again[0].Name)
}

// --- Round-Trip Tests ---

func TestRoundTrip_PreservesStructureAndOrder(t *testing.T) {
	c := mustParse(t, sampleDoc)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	again, err := taxonomy.ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, c.Categories(), again.Categories())

	for _, name := range c.Categories() {
		want, err := c.CategoryErrors(name)
		require.NoError(t, err)
		got, err := again.CategoryErrors(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEncode_IndentedOutputParses(t *testing.T) {
	c := mustParse(t, sampleDoc)

	data, err := c.Encode()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n"))

	again, err := taxonomy.ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, c.Categories(), again.Categories())
}

// --- Default Catalog Tests ---

func TestDefault_CatalogInvariants(t *testing.T) {
	c, err := taxonomy.Default()
	require.NoError(t, err)

	names := c.Categories()
	assert.Equal(t, []string{"Logical", "Syntax", "Code Quality", "Standard Violation", "Java Specific"}, names)

	for _, name := range names {
		defs, err := c.CategoryErrors(name)
		require.NoError(t, err)
		require.NotEmpty(t, defs, "category %s", name)
		for _, def := range defs {
			assert.NotEmpty(t, def.Name)
			assert.NotEmpty(t, def.Description)
			assert.NotEmpty(t, def.Guide)
		}
	}
}

func TestDefault_OffByOneMentionsLoopBoundaries(t *testing.T) {
	c, err := taxonomy.Default()
	require.NoError(t, err)

	def, err := c.Lookup("Logical", "Off-by-one error")
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(def.Description), "loop boundar")
}

// --- Selection Tests ---

func TestAdjustCount(t *testing.T) {
	tests := []struct {
		difficulty string
		count      int
		want       int
	}{
		{"easy", 4, 2},
		{"easy", 3, 2},
		{"easy", 6, 4},
		{"Easy", 4, 2},
		{"medium", 4, 4},
		{"hard", 4, 6},
		{"HARD", 2, 4},
		{"unknown", 4, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, taxonomy.AdjustCount(tt.count, tt.difficulty), "%s/%d", tt.difficulty, tt.count)
	}
}

func TestForExercise_SelectionBounds(t *testing.T) {
	c, err := taxonomy.Default()
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))

	categories := []string{"Logical", "Syntax", "Java Specific"}
	sel := c.ForExercise(rng, categories, 4, "medium")

	require.NotEmpty(t, sel)
	assert.LessOrEqual(t, len(sel), 4)

	seen := make(map[string]bool)
	for _, s := range sel {
		assert.Contains(t, categories, s.Category)
		assert.NotEmpty(t, s.Guide)
		key := s.Category + "/" + s.Name
		assert.False(t, seen[key], "duplicate selection %s", key)
		seen[key] = true
	}
}

func TestForExercise_HardRaisesCap(t *testing.T) {
	c, err := taxonomy.Default()
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))

	sel := c.ForExercise(rng, c.Categories(), 4, "hard")
	assert.LessOrEqual(t, len(sel), 6)

	sel = c.ForExercise(rng, c.Categories(), 4, "easy")
	assert.LessOrEqual(t, len(sel), 2)
}

func TestForExercise_UnknownCategorySkipped(t *testing.T) {
	c := mustParse(t, sampleDoc)
	rng := rand.New(rand.NewSource(3))

	sel := c.ForExercise(rng, []string{"Compile", "Nope"}, 4, "medium")
	require.NotEmpty(t, sel)
	for _, s := range sel {
		assert.Equal(t, "Compile", s.Category)
	}
}

func TestProblemDescriptionFormat(t *testing.T) {
	s := taxonomy.Selected{
		Category: "Logical",
		Definition: taxonomy.Definition{
			Name:        "Off-by-one error",
			Description: "Loop boundaries are off by one.",
			Guide:       "Use <= instead of <.",
		},
	}
	want := "Java Error - Off-by-one error: Loop boundaries are off by one. (Category: Logical)"
	assert.Equal(t, want, s.Problem())

	probs := taxonomy.Problems([]taxonomy.Selected{s})
	require.Len(t, probs, 1)
	assert.Equal(t, want, probs[0])
}

func TestRandomByCategories(t *testing.T) {
	c := mustParse(t, sampleDoc)
	rng := rand.New(rand.NewSource(11))

	// Pool smaller than count returns the whole pool.
	all := c.RandomByCategories(rng, []string{"Compile"}, 4)
	require.Len(t, all, 1)
	assert.Equal(t, "Missing brace", all[0].Name)

	// Pool larger than count samples down without replacement.
	some := c.RandomByCategories(rng, []string{"Runtime", "Style"}, 2)
	require.Len(t, some, 2)
	assert.NotEqual(t, some[0], some[1])

	// Unknown categories contribute nothing.
	assert.Empty(t, c.RandomByCategories(rng, []string{"Nope"}, 4))
}

func TestResolve(t *testing.T) {
	c := mustParse(t, sampleDoc)

	sel, err := c.Resolve([]taxonomy.Ref{
		{Category: "Style", Name: "Null dereference"},
		{Name: "Missing brace"},
	})
	require.NoError(t, err)
	require.Len(t, sel, 2)
	assert.Equal(t, "Style", sel[0].Category)
	assert.Equal(t, "Compile", sel[1].Category)

	_, err = c.Resolve([]taxonomy.Ref{{Name: "No such error"}})
	assert.True(t, errors.Is(err, taxonomy.ErrNotFound))
}
