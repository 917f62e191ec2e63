// generate.go is the generation half of the workflow: select errors,
// produce code, check the implementation, and regenerate until the check
// passes or the attempt budget runs out.

package exercise

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jpl-au/revdrill/internal/llmjson"
	"github.com/jpl-au/revdrill/internal/prompt"
	"github.com/jpl-au/revdrill/internal/snippet"
	"github.com/jpl-au/revdrill/internal/taxonomy"
)

// Params configures one generation run.
type Params struct {
	Difficulty string
	Length     string
	// Domain frames the generated program. Empty draws from Domains.
	Domain string
	// Categories restricts random selection. Empty means every catalog
	// category.
	Categories []string
	// Specific names exact errors to plant, bypassing random selection
	// and the difficulty count adjustment.
	Specific []taxonomy.Ref
	// Count is the base number of errors before difficulty adjustment.
	// Zero means the difficulty default. Ignored in specific mode.
	Count int
}

// EvalError is one error the implementation check confirmed present or
// flagged missing.
type EvalError struct {
	Type        string `json:"error_type"`
	Name        string `json:"error_name"`
	Line        int    `json:"line_number,omitempty"`
	Segment     string `json:"code_segment,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// Problem renders the error as a one-line problem description.
func (e EvalError) Problem() string {
	return fmt.Sprintf("%s - %s: %s", e.Type, e.Name, e.Explanation)
}

// Evaluation is the implementation check's verdict on generated code.
type Evaluation struct {
	Found    []EvalError `json:"found_errors"`
	Missing  []EvalError `json:"missing_errors"`
	Valid    bool        `json:"valid"`
	Feedback string      `json:"feedback,omitempty"`
}

// FoundProblems renders the confirmed errors as problem descriptions.
func (ev Evaluation) FoundProblems() []string {
	out := make([]string, len(ev.Found))
	for i, e := range ev.Found {
		out[i] = e.Problem()
	}
	return out
}

// MissingProblems renders the absent errors as problem descriptions.
func (ev Evaluation) MissingProblems() []string {
	out := make([]string, len(ev.Missing))
	for i, e := range ev.Missing {
		out[i] = e.Problem()
	}
	return out
}

// Generated is the outcome of one generation run, ready to persist.
type Generated struct {
	Domain     string
	Difficulty string
	Length     string
	Annotated  string
	Clean      string
	// Selected lists the planted errors. After a failed final check it
	// holds only the errors the checker confirmed, so grading never asks
	// students to find what is not there.
	Selected []taxonomy.Selected
	// Attempts counts implementation checks consumed.
	Attempts int
	// Evaluation is the final check's verdict.
	Evaluation Evaluation
}

// Problems returns the grading key: one description per planted error.
func (g *Generated) Problems() []string {
	return taxonomy.Problems(g.Selected)
}

// Generate runs the full generation loop: pick a domain, select errors,
// produce code, and regenerate on implementation-check feedback until the
// check passes or MaxAttempts is spent. An exhausted budget is not an
// error; the result carries the last verdict and a selection trimmed to
// what the code actually contains.
func (e *Engine) Generate(ctx context.Context, p Params) (*Generated, error) {
	if p.Domain == "" {
		p.Domain = Domains[e.rng.Intn(len(Domains))]
	}

	sel, err := e.selectErrors(p)
	if err != nil {
		return nil, err
	}

	gen := &Generated{
		Domain:     p.Domain,
		Difficulty: p.Difficulty,
		Length:     p.Length,
		Selected:   sel,
	}

	completion, err := e.generator.Complete(ctx, prompt.Generation(p.Length, p.Difficulty, p.Domain, sel))
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	gen.Annotated, gen.Clean = snippet.ExtractVersions(completion)
	if gen.Annotated == "" {
		return nil, ErrNoCode
	}

	for {
		ev, err := e.Evaluate(ctx, gen.Annotated, sel)
		if err != nil {
			return nil, err
		}
		gen.Attempts++
		gen.Evaluation = ev

		if ev.Valid || gen.Attempts >= e.maxAttempts {
			break
		}

		regen := prompt.Regeneration(gen.Annotated, p.Domain, ev.MissingProblems(), ev.FoundProblems(), len(sel))
		completion, err := e.generator.Complete(ctx, regen)
		if err != nil {
			return nil, fmt.Errorf("regenerate code: %w", err)
		}
		// A codeless regeneration keeps the previous version and burns
		// the attempt.
		if annotated, clean := snippet.ExtractVersions(completion); annotated != "" {
			gen.Annotated, gen.Clean = annotated, clean
		}
	}

	if !gen.Evaluation.Valid {
		gen.Selected = pruneMissing(sel, gen.Evaluation.Missing)
	}
	return gen, nil
}

// selectErrors resolves the errors to plant for the run's mode.
func (e *Engine) selectErrors(p Params) ([]taxonomy.Selected, error) {
	if len(p.Specific) > 0 {
		return e.catalog.Resolve(p.Specific)
	}

	cats := p.Categories
	if len(cats) == 0 {
		cats = e.catalog.Categories()
	}
	count := p.Count
	if count <= 0 {
		count = snippet.ErrorCountForDifficulty(p.Difficulty)
	}

	sel := e.catalog.ForExercise(e.rng, cats, count, p.Difficulty)
	if len(sel) == 0 {
		return nil, ErrNoSelection
	}
	return sel, nil
}

// Evaluate checks generated code for the requested errors. The verdict's
// validity is recomputed from the missing list rather than trusted from
// the model. A completion with no usable JSON degrades to a fully missing
// verdict so the caller regenerates instead of shipping unverified code.
func (e *Engine) Evaluate(ctx context.Context, code string, sel []taxonomy.Selected) (Evaluation, error) {
	completion, err := e.evaluator.Complete(ctx, prompt.Evaluation(code, sel))
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluate code: %w", err)
	}

	ev, ok := parseEvaluation(completion)
	if !ok {
		ev = Evaluation{
			Missing:  make([]EvalError, len(sel)),
			Feedback: "implementation check returned no usable verdict",
		}
		for i, s := range sel {
			ev.Missing[i] = EvalError{
				Type:        strings.ToUpper(s.Category),
				Name:        s.Name,
				Explanation: s.Description,
			}
		}
	}
	ev.Valid = len(ev.Missing) == 0
	return ev, nil
}

// parseEvaluation decodes a check completion, rescuing the error lists
// individually when the object as a whole does not parse.
func parseEvaluation(completion string) (Evaluation, bool) {
	var ev Evaluation
	if err := llmjson.Unmarshal(completion, &ev); err == nil {
		return ev, true
	}

	var any bool
	if raw, ok := llmjson.Array(completion, "found_errors"); ok {
		if json.Unmarshal(raw, &ev.Found) == nil {
			any = true
		}
	}
	if raw, ok := llmjson.Array(completion, "missing_errors"); ok {
		if json.Unmarshal(raw, &ev.Missing) == nil {
			any = true
		}
	}
	if s, ok := llmjson.String(completion, "feedback"); ok {
		ev.Feedback = s
	}
	return ev, any
}

// pruneMissing drops selected errors the checker reported absent,
// matching by error name. When that would empty the selection entirely
// the original stands, since an exercise has to grade against something.
func pruneMissing(sel []taxonomy.Selected, missing []EvalError) []taxonomy.Selected {
	if len(missing) == 0 {
		return sel
	}
	absent := make(map[string]bool, len(missing))
	for _, m := range missing {
		absent[strings.ToLower(m.Name)] = true
	}

	kept := make([]taxonomy.Selected, 0, len(sel))
	for _, s := range sel {
		if !absent[strings.ToLower(s.Name)] {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return sel
	}
	return kept
}
