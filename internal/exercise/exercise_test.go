package exercise_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/jpl-au/revdrill/internal/exercise"
	"github.com/jpl-au/revdrill/internal/prompt"
	"github.com/jpl-au/revdrill/internal/review"
	"github.com/jpl-au/revdrill/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
  "Logical": [
    {"error_name": "Off-by-one error", "description": "Loop bound iterates one past the end", "implementation_guide": "Use <= where < is correct"},
    {"error_name": "Null pointer dereference", "description": "Method call on a possibly null reference", "implementation_guide": "Call a method on a field before checking null"}
  ],
  "Syntax": [
    {"error_name": "Missing semicolon", "description": "Statement lacks its terminating semicolon", "implementation_guide": "Drop the semicolon from a declaration"}
  ]
}`

const genCompletion = "Here are both versions:\n" +
	"```java-annotated\n" +
	"class Account {\n    int balance = 0 // ERROR: SYNTAX - Missing semicolon - unterminated\n}\n" +
	"```\n\n" +
	"```java-clean\n" +
	"class Account {\n    int balance = 0\n}\n" +
	"```"

const regenCompletion = "Revised:\n" +
	"```java-annotated\n" +
	"class Account {\n    int balance = 0 // ERROR: SYNTAX - Missing semicolon - unterminated\n    // ERROR: LOGICAL - Off-by-one error - bound\n    int last = items.length;\n}\n" +
	"```\n\n" +
	"```java-clean\n" +
	"class Account {\n    int balance = 0\n    int last = items.length;\n}\n" +
	"```"

const validEval = `{"found_errors": [{"error_type": "SYNTAX", "error_name": "Missing semicolon", "line_number": 2, "explanation": "declaration unterminated"}], "missing_errors": [], "valid": true, "feedback": "all present"}`

const missingEval = `{"found_errors": [{"error_type": "LOGICAL", "error_name": "Off-by-one error", "explanation": "bound found"}], "missing_errors": [{"error_type": "SYNTAX", "error_name": "Missing semicolon", "explanation": "every statement is terminated"}], "valid": false, "feedback": "one absent"}`

// scriptClient returns canned completions in order and records prompts.
type scriptClient struct {
	prompts []string
	replies []string
	err     error
}

func (s *scriptClient) Complete(ctx context.Context, p string) (string, error) {
	s.prompts = append(s.prompts, p)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	i := len(s.prompts) - 1
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i], nil
}

func (s *scriptClient) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	return s.Complete(ctx, user)
}

func (s *scriptClient) Model() string { return "script" }

// clients bundles the stubs behind one engine.
type clients struct {
	generator  *scriptClient
	evaluator  *scriptClient
	reviewer   *scriptClient
	summary    *scriptClient
	comparison *scriptClient
}

func newEngine(t *testing.T, c *clients, opts exercise.Options) *exercise.Engine {
	t.Helper()
	cat, err := taxonomy.ParseBytes([]byte(catalogJSON))
	require.NoError(t, err)
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	grader := review.New(c.reviewer, c.summary, c.comparison)
	return exercise.New(cat, c.generator, c.evaluator, grader, opts)
}

func stubs() *clients {
	return &clients{
		generator:  &scriptClient{},
		evaluator:  &scriptClient{},
		reviewer:   &scriptClient{},
		summary:    &scriptClient{},
		comparison: &scriptClient{},
	}
}

// --- Generate Tests ---

func TestGenerate(t *testing.T) {
	c := stubs()
	c.generator.replies = []string{genCompletion}
	c.evaluator.replies = []string{validEval}
	e := newEngine(t, c, exercise.Options{})

	gen, err := e.Generate(context.Background(), exercise.Params{
		Difficulty: "medium",
		Length:     "short",
		Domain:     "banking",
		Categories: []string{"Logical"},
		Count:      2,
	})
	require.NoError(t, err)

	assert.Equal(t, "banking", gen.Domain)
	assert.Equal(t, 1, gen.Attempts)
	assert.True(t, gen.Evaluation.Valid)
	assert.Contains(t, gen.Annotated, "// ERROR:")
	assert.NotContains(t, gen.Clean, "// ERROR:")
	require.NotEmpty(t, gen.Selected)
	for _, s := range gen.Selected {
		assert.Equal(t, "Logical", s.Category)
	}

	require.Len(t, c.generator.prompts, 1)
	assert.Contains(t, c.generator.prompts[0], "Java program for a banking system")
	require.Len(t, c.evaluator.prompts, 1)
	assert.Contains(t, c.evaluator.prompts[0], "// ERROR:")
}

func TestGenerate_RandomDomain(t *testing.T) {
	c := stubs()
	c.generator.replies = []string{genCompletion}
	c.evaluator.replies = []string{validEval}
	e := newEngine(t, c, exercise.Options{})

	gen, err := e.Generate(context.Background(), exercise.Params{Difficulty: "medium", Length: "short"})
	require.NoError(t, err)
	assert.Contains(t, exercise.Domains, gen.Domain)
}

func TestGenerate_RegeneratesOnMissing(t *testing.T) {
	c := stubs()
	c.generator.replies = []string{genCompletion, regenCompletion}
	c.evaluator.replies = []string{missingEval, validEval}
	e := newEngine(t, c, exercise.Options{})

	gen, err := e.Generate(context.Background(), exercise.Params{
		Difficulty: "medium",
		Length:     "short",
		Domain:     "banking",
		Specific: []taxonomy.Ref{
			{Name: "Off-by-one error"},
			{Name: "Missing semicolon"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, gen.Attempts)
	assert.True(t, gen.Evaluation.Valid)
	assert.Contains(t, gen.Annotated, "items.length", "regenerated code replaced the original")
	assert.Len(t, gen.Selected, 2, "a passing final check keeps the full selection")

	// The regeneration prompt names what to add and what to keep.
	require.Len(t, c.generator.prompts, 2)
	assert.Contains(t, c.generator.prompts[1], "SYNTAX - Missing semicolon: every statement is terminated")
	assert.Contains(t, c.generator.prompts[1], "LOGICAL - Off-by-one error: bound found")
	require.Len(t, c.evaluator.prompts, 2)
}

func TestGenerate_MaxAttemptsBestEffort(t *testing.T) {
	c := stubs()
	c.generator.replies = []string{genCompletion}
	c.evaluator.replies = []string{missingEval}
	e := newEngine(t, c, exercise.Options{})

	gen, err := e.Generate(context.Background(), exercise.Params{
		Difficulty: "medium",
		Length:     "short",
		Domain:     "banking",
		Specific: []taxonomy.Ref{
			{Name: "Off-by-one error"},
			{Name: "Missing semicolon"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, gen.Attempts)
	assert.False(t, gen.Evaluation.Valid)
	assert.Len(t, c.generator.prompts, 3, "one generation plus two regenerations")

	// The selection is trimmed to what the code actually contains.
	require.Len(t, gen.Selected, 1)
	assert.Equal(t, "Off-by-one error", gen.Selected[0].Name)
	assert.Equal(t, []string{"Java Error - Off-by-one error: Loop bound iterates one past the end (Category: Logical)"}, gen.Problems())
}

func TestGenerate_SpecificModeResolves(t *testing.T) {
	c := stubs()
	c.generator.replies = []string{genCompletion}
	c.evaluator.replies = []string{validEval}
	e := newEngine(t, c, exercise.Options{})

	// Count and difficulty adjustment do not apply to explicit picks.
	gen, err := e.Generate(context.Background(), exercise.Params{
		Difficulty: "easy",
		Length:     "short",
		Domain:     "logging",
		Count:      5,
		Specific: []taxonomy.Ref{
			{Category: "Syntax", Name: "Missing semicolon"},
			{Name: "Null pointer dereference"},
		},
	})
	require.NoError(t, err)

	require.Len(t, gen.Selected, 2)
	assert.Equal(t, "Syntax", gen.Selected[0].Category)
	assert.Equal(t, "Missing semicolon", gen.Selected[0].Name)
	assert.Equal(t, "Logical", gen.Selected[1].Category)
	assert.Equal(t, "Null pointer dereference", gen.Selected[1].Name)
}

func TestGenerate_UnknownSpecificError(t *testing.T) {
	e := newEngine(t, stubs(), exercise.Options{})

	_, err := e.Generate(context.Background(), exercise.Params{
		Difficulty: "medium",
		Specific:   []taxonomy.Ref{{Name: "Nonexistent"}},
	})
	assert.ErrorIs(t, err, taxonomy.ErrNotFound)
}

func TestGenerate_NoSelection(t *testing.T) {
	e := newEngine(t, stubs(), exercise.Options{})

	_, err := e.Generate(context.Background(), exercise.Params{
		Difficulty: "medium",
		Categories: []string{"Unknown Category"},
	})
	assert.ErrorIs(t, err, exercise.ErrNoSelection)
}

func TestGenerate_NoCode(t *testing.T) {
	c := stubs()
	c.generator.replies = []string{"I would rather not write Java today."}
	e := newEngine(t, c, exercise.Options{})

	_, err := e.Generate(context.Background(), exercise.Params{Difficulty: "medium"})
	assert.ErrorIs(t, err, exercise.ErrNoCode)
}

func TestGenerate_UnusableCheckVerdict(t *testing.T) {
	c := stubs()
	c.generator.replies = []string{genCompletion}
	c.evaluator.replies = []string{"the code seems fine to me"}
	e := newEngine(t, c, exercise.Options{MaxAttempts: 1})

	gen, err := e.Generate(context.Background(), exercise.Params{
		Difficulty: "medium",
		Length:     "short",
		Domain:     "banking",
		Specific: []taxonomy.Ref{
			{Name: "Off-by-one error"},
			{Name: "Missing semicolon"},
		},
	})
	require.NoError(t, err)

	assert.False(t, gen.Evaluation.Valid)
	assert.Equal(t, "implementation check returned no usable verdict", gen.Evaluation.Feedback)
	// Everything reported missing would empty the selection; the original stands.
	assert.Len(t, gen.Selected, 2)
}

func TestEvaluate_RecomputesValid(t *testing.T) {
	c := stubs()
	// The model contradicts itself: valid true with a non-empty missing list.
	c.evaluator.replies = []string{`{"found_errors": [], "missing_errors": [{"error_name": "Missing semicolon"}], "valid": true}`}
	e := newEngine(t, c, exercise.Options{})

	sel := []taxonomy.Selected{{Category: "Syntax", Definition: taxonomy.Definition{Name: "Missing semicolon"}}}
	ev, err := e.Evaluate(context.Background(), "class A {}", sel)
	require.NoError(t, err)
	assert.False(t, ev.Valid)
}

// --- SubmitReview Tests ---

var submitProblems = []string{
	"Java Error - Off-by-one error: Loop bound iterates one past the end (Category: Logical)",
	"Java Error - Missing semicolon: Statement lacks its terminating semicolon (Category: Syntax)",
}

func TestSubmitReview_SufficientFinishes(t *testing.T) {
	c := stubs()
	c.reviewer.replies = []string{`{
  "identified_problems": [{"problem": "off-by-one"}, {"problem": "missing semicolon"}],
  "missed_problems": []
}`}
	c.comparison.replies = []string{"# Review Feedback\n\nFull marks."}
	e := newEngine(t, c, exercise.Options{})

	res, err := e.SubmitReview(context.Background(), exercise.ReviewRequest{
		Code:      "class A {}",
		Problems:  submitProblems,
		Review:    "loop goes too far and a semicolon is missing",
		Iteration: 1,
	})
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.True(t, res.Analysis.Sufficient)
	assert.Equal(t, "# Review Feedback\n\nFull marks.", res.Report)
	assert.Empty(t, res.Guidance)
	assert.Empty(t, c.summary.prompts, "a finished exercise asks for no guidance")
}

func TestSubmitReview_InsufficientGetsGuidance(t *testing.T) {
	c := stubs()
	c.reviewer.replies = []string{`{
  "identified_problems": [],
  "missed_problems": [{"problem": "off-by-one"}, {"problem": "missing semicolon"}]
}`}
	c.summary.replies = []string{"Check loop bounds and statement terminators."}
	e := newEngine(t, c, exercise.Options{})

	res, err := e.SubmitReview(context.Background(), exercise.ReviewRequest{
		Code:      "class A {}",
		Problems:  submitProblems,
		Review:    "looks fine",
		Iteration: 1,
	})
	require.NoError(t, err)

	assert.False(t, res.Finished)
	assert.Equal(t, "Check loop bounds and statement terminators.", res.Guidance)
	assert.Empty(t, res.Report)
	assert.Empty(t, c.comparison.prompts, "an unfinished exercise gets no report")
	assert.Equal(t, prompt.Attempt{Found: 0, Accuracy: 0}, res.Attempt())
}

func TestSubmitReview_LastIterationFinishes(t *testing.T) {
	c := stubs()
	c.reviewer.replies = []string{`{
  "identified_problems": [{"problem": "off-by-one"}],
  "missed_problems": [{"problem": "missing semicolon"}]
}`}
	c.comparison.replies = []string{"# Review Feedback\n\nOut of attempts."}
	e := newEngine(t, c, exercise.Options{})

	res, err := e.SubmitReview(context.Background(), exercise.ReviewRequest{
		Code:      "class A {}",
		Problems:  submitProblems,
		Review:    "the loop goes too far",
		Iteration: 3,
		History: []prompt.Attempt{
			{Found: 0, Accuracy: 0},
			{Found: 0, Accuracy: 0},
		},
	})
	require.NoError(t, err)

	assert.True(t, res.Finished, "iteration cap finishes the exercise even when insufficient")
	assert.False(t, res.Analysis.Sufficient)
	assert.Equal(t, "# Review Feedback\n\nOut of attempts.", res.Report)
	assert.Empty(t, res.Guidance)

	// The report prompt saw the whole attempt history.
	require.Len(t, c.comparison.prompts, 1)
	assert.Contains(t, c.comparison.prompts[0], "Progress Across Attempts")
	assert.Contains(t, c.comparison.prompts[0], "Attempt 3: Found 1/2 issues")
}

func TestSubmitReview_GuidanceFailureDegrades(t *testing.T) {
	c := stubs()
	c.reviewer.replies = []string{`{"identified_problems": [], "missed_problems": [{"problem": "x"}]}`}
	c.summary.err = errors.New("summary model offline")
	e := newEngine(t, c, exercise.Options{})

	res, err := e.SubmitReview(context.Background(), exercise.ReviewRequest{
		Code:      "class A {}",
		Problems:  submitProblems,
		Review:    "nothing wrong here",
		Iteration: 1,
	})
	require.NoError(t, err)
	assert.False(t, res.Finished)
	assert.Empty(t, res.Guidance)
}

// --- LevelDefaults Tests ---

func TestLevelDefaults(t *testing.T) {
	tests := []struct {
		level      string
		difficulty string
		length     string
	}{
		{"basic", "easy", "short"},
		{"medium", "medium", "medium"},
		{"senior", "hard", "long"},
		{"", "easy", "short"},
	}
	for _, tt := range tests {
		difficulty, length := exercise.LevelDefaults(tt.level)
		assert.Equal(t, tt.difficulty, difficulty, "level %q", tt.level)
		assert.Equal(t, tt.length, length, "level %q", tt.level)
	}
}
