// Package review grades student code reviews and produces the feedback
// that moves an exercise forward: a scored analysis per attempt, targeted
// guidance between attempts, and the final comparison report.
//
// Grading runs on the review model, guidance on the summary model, and
// the report on the comparison model. Scoring never trusts the model's
// arithmetic: counts and percentages are recomputed from the known
// problem list, and sufficiency follows from the percentage alone.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jpl-au/revdrill/internal/llm"
	"github.com/jpl-au/revdrill/internal/llmjson"
	"github.com/jpl-au/revdrill/internal/prompt"
	"github.com/jpl-au/revdrill/internal/snippet"
)

// MinIdentifiedPercent is the share of known problems a review must
// identify to count as sufficient.
const MinIdentifiedPercent = 60.0

const (
	maxGuidanceWords  = 100
	guidanceSentences = 4
)

// Finding is one known problem the student correctly identified.
type Finding struct {
	Problem  string  `json:"problem"`
	Comment  string  `json:"student_comment,omitempty"`
	Accuracy float64 `json:"accuracy,omitempty"`
	Feedback string  `json:"feedback,omitempty"`
}

// Miss is one known problem the student did not mention.
type Miss struct {
	Problem string `json:"problem"`
	Hint    string `json:"hint,omitempty"`
}

// FalsePositive is a student comment that flagged a non-issue.
type FalsePositive struct {
	Comment     string `json:"student_comment"`
	Explanation string `json:"explanation,omitempty"`
}

// Analysis is the graded result of one review attempt.
type Analysis struct {
	Identified        []Finding       `json:"identified_problems"`
	Missed            []Miss          `json:"missed_problems"`
	FalsePositives    []FalsePositive `json:"false_positives,omitempty"`
	IdentifiedCount   int             `json:"identified_count"`
	TotalProblems     int             `json:"total_problems"`
	IdentifiedPercent float64         `json:"identified_percentage"`
	QualityScore      float64         `json:"review_quality_score,omitempty"`
	Sufficient        bool            `json:"review_sufficient"`
	Feedback          string          `json:"feedback,omitempty"`
}

// UnmarshalJSON accepts either the documented object shape or a bare
// string, which smaller models emit for list entries.
func (f *Finding) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &f.Problem)
	}
	type finding Finding
	var v finding
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Finding(v)
	return nil
}

func (m *Miss) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &m.Problem)
	}
	type miss Miss
	var v miss
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Miss(v)
	return nil
}

func (p *FalsePositive) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.Comment)
	}
	type falsePositive FalsePositive
	var v falsePositive
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = FalsePositive(v)
	return nil
}

// IdentifiedTexts returns the problem strings of correctly identified
// issues.
func (a Analysis) IdentifiedTexts() []string {
	out := make([]string, len(a.Identified))
	for i, f := range a.Identified {
		out[i] = f.Problem
	}
	return out
}

// MissedTexts returns the problem strings of missed issues.
func (a Analysis) MissedTexts() []string {
	out := make([]string, len(a.Missed))
	for i, m := range a.Missed {
		out[i] = m.Problem
	}
	return out
}

// FalsePositiveTexts returns the student comments that flagged non-issues.
func (a Analysis) FalsePositiveTexts() []string {
	out := make([]string, len(a.FalsePositives))
	for i, p := range a.FalsePositives {
		out[i] = p.Comment
	}
	return out
}

// Grader scores reviews and writes the feedback around them.
type Grader struct {
	review     llm.Client
	summary    llm.Client
	comparison llm.Client
}

// New returns a Grader over the three model roles it drives.
func New(review, summary, comparison llm.Client) *Grader {
	return &Grader{review: review, summary: summary, comparison: comparison}
}

// Grade scores a student review against the known problems in the code.
// The code is line-numbered before grading so "Line X" comments in the
// review can be matched to positions.
func (g *Grader) Grade(ctx context.Context, code string, problems []string, reviewText string) (Analysis, error) {
	p := prompt.ReviewAnalysis(snippet.AddLineNumbers(code), problems, reviewText)
	completion, err := g.review.Complete(ctx, p)
	if err != nil {
		return Analysis{}, fmt.Errorf("grade review: %w", err)
	}

	a, err := parseAnalysis(completion)
	if err != nil {
		return Analysis{}, err
	}
	finalize(&a, len(problems))
	return a, nil
}

// parseAnalysis decodes a grading completion, rescuing individual fields
// when the object as a whole does not parse.
func parseAnalysis(completion string) (Analysis, error) {
	var a Analysis
	if err := llmjson.Unmarshal(completion, &a); err == nil {
		return a, nil
	}

	var any bool
	if raw, ok := llmjson.Array(completion, "identified_problems"); ok {
		if json.Unmarshal(raw, &a.Identified) == nil {
			any = true
		}
	}
	if raw, ok := llmjson.Array(completion, "missed_problems"); ok {
		if json.Unmarshal(raw, &a.Missed) == nil {
			any = true
		}
	}
	if raw, ok := llmjson.Array(completion, "false_positives"); ok {
		if json.Unmarshal(raw, &a.FalsePositives) == nil {
			any = true
		}
	}
	if n, ok := llmjson.Int(completion, "identified_count"); ok {
		a.IdentifiedCount = n
		any = true
	}
	if f, ok := llmjson.Float(completion, "review_quality_score"); ok {
		a.QualityScore = f
	}
	if s, ok := llmjson.String(completion, "feedback"); ok {
		a.Feedback = s
	}

	if !any {
		return Analysis{}, fmt.Errorf("review analysis: %w", llmjson.ErrNoJSON)
	}
	return a, nil
}

// finalize recomputes the derived fields against the known problem count.
// The identified list is the source of truth when present; the count is
// clamped to the total; percentage and sufficiency follow from those. A
// zero-problem exercise grades as fully identified.
func finalize(a *Analysis, known int) {
	if len(a.Identified) > 0 {
		a.IdentifiedCount = len(a.Identified)
	}
	a.TotalProblems = known
	if a.IdentifiedCount > known {
		a.IdentifiedCount = known
	}
	if a.IdentifiedCount < 0 {
		a.IdentifiedCount = 0
	}

	if known > 0 {
		a.IdentifiedPercent = float64(a.IdentifiedCount) / float64(known) * 100
	} else {
		a.IdentifiedPercent = 100.0
	}
	a.Sufficient = a.IdentifiedPercent >= MinIdentifiedPercent
}

// Guidance produces short targeted advice for the next attempt. The
// summary model is asked for 3-4 sentences; completions that ramble past
// the word cap are cut down to their leading sentences.
func (g *Grader) Guidance(ctx context.Context, a Analysis, iteration, maxIterations int) (string, error) {
	p := prompt.Guidance(iteration, maxIterations, a.IdentifiedCount, a.TotalProblems,
		a.IdentifiedPercent, a.IdentifiedTexts(), a.MissedTexts())
	completion, err := g.summary.Complete(ctx, p)
	if err != nil {
		return "", fmt.Errorf("generate guidance: %w", err)
	}
	return trimGuidance(strings.TrimSpace(completion)), nil
}

// trimGuidance enforces the brevity the prompt asks for.
func trimGuidance(s string) string {
	if len(strings.Fields(s)) <= maxGuidanceWords {
		return s
	}
	sentences := splitSentences(s)
	if len(sentences) <= guidanceSentences {
		return s
	}
	return strings.Join(sentences[:guidanceSentences], " ")
}

// splitSentences splits text on terminal punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '.', '!', '?':
			switch s[i+1] {
			case ' ', '\n', '\t':
				out = append(out, strings.TrimSpace(s[start:i+1]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// Report produces the final feedback report for a finished exercise.
// history covers every attempt including the last, oldest first. When the
// comparison model fails or answers with nothing, the report is built
// locally so a finished exercise always ends with feedback.
func (g *Grader) Report(ctx context.Context, a Analysis, history []prompt.Attempt) string {
	p := prompt.Report(a.TotalProblems, a.IdentifiedTexts(), a.MissedTexts(), a.FalsePositiveTexts(), history)
	completion, err := g.comparison.Complete(ctx, p)
	if err != nil || strings.TrimSpace(completion) == "" {
		return FallbackReport(a, history)
	}
	return strings.TrimSpace(completion)
}

// FallbackReport builds the feedback report without a model: metrics,
// per-attempt progress, and the graded issue lists as markdown.
func FallbackReport(a Analysis, history []prompt.Attempt) string {
	var b strings.Builder
	b.WriteString("# Code Review Assessment\n\n")

	if len(history) > 1 {
		b.WriteString("## Progress Across Attempts\n\n")
		b.WriteString("| Attempt | Issues Found | Accuracy |\n")
		b.WriteString("|---------|--------------|----------|\n")
		for i, at := range history {
			fmt.Fprintf(&b, "| %d | %d/%d | %.1f%% |\n", i+1, at.Found, a.TotalProblems, at.Accuracy)
		}
		if first := history[0]; a.IdentifiedPercent > first.Accuracy {
			fmt.Fprintf(&b, "\n📈 **Improvement**: +%.1f%% from first attempt\n", a.IdentifiedPercent-first.Accuracy)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Final Review Performance\n\n**Score:** %d/%d issues identified (%.1f%%)\n\n",
		a.IdentifiedCount, a.TotalProblems, a.IdentifiedPercent)

	if texts := a.IdentifiedTexts(); len(texts) > 0 {
		b.WriteString("## Issues Correctly Identified\n\n")
		for i, t := range texts {
			fmt.Fprintf(&b, "✅ **%d.** %s\n\n", i+1, t)
		}
	}
	if texts := a.MissedTexts(); len(texts) > 0 {
		b.WriteString("## Issues Missed\n\n")
		for i, t := range texts {
			fmt.Fprintf(&b, "❌ **%d.** %s\n\n", i+1, t)
			if tip := missTip(t); tip != "" {
				fmt.Fprintf(&b, "*Tip: %s*\n\n", tip)
			}
		}
	}
	if texts := a.FalsePositiveTexts(); len(texts) > 0 {
		b.WriteString("## False Positives\n\n")
		for i, t := range texts {
			fmt.Fprintf(&b, "⚠️ **%d.** %s\n\n", i+1, t)
		}
	}

	b.WriteString("\n**Tip for next time:** Use format `Line X: [Error Type] - Description` in your reviews.\n")
	return b.String()
}

// missTip pairs common miss patterns with a pointer for finding them.
func missTip(problem string) string {
	p := strings.ToLower(problem)
	switch {
	case strings.Contains(p, "null"):
		return "Check for null pointer handling before method calls"
	case strings.Contains(p, "name"), strings.Contains(p, "convention"):
		return "Verify variable/class naming conventions (camelCase, PascalCase)"
	case strings.Contains(p, "equals"), strings.Contains(p, "=="):
		return "Look for object equality issues (.equals() vs ==)"
	}
	return ""
}
