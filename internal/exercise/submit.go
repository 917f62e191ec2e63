// submit.go is the review half of the workflow: grade a submission,
// decide whether the exercise continues, and attach guidance or the
// final report accordingly.

package exercise

import (
	"context"

	"github.com/jpl-au/revdrill/internal/prompt"
	"github.com/jpl-au/revdrill/internal/review"
)

// ReviewRequest carries one submission and the exercise state it is
// graded against.
type ReviewRequest struct {
	// Code is the clean version the student reviewed.
	Code string
	// Problems is the grading key, one description per planted error.
	Problems []string
	// Review is the student's submission text.
	Review string
	// Iteration is the 1-based submission number.
	Iteration int
	// MaxIterations caps submissions. Zero means DefaultMaxIterations.
	MaxIterations int
	// History holds earlier attempts, oldest first, for the report.
	History []prompt.Attempt
}

// ReviewResult is the graded outcome of one submission.
type ReviewResult struct {
	Analysis review.Analysis
	// Finished means no further submissions: the review was sufficient
	// or the attempt budget is spent.
	Finished bool
	// Guidance is set on an unfinished, insufficient attempt.
	Guidance string
	// Report is set when the exercise finished.
	Report string
}

// Attempt summarises this submission for the history the next call
// passes back in.
func (r *ReviewResult) Attempt() prompt.Attempt {
	return prompt.Attempt{Found: r.Analysis.IdentifiedCount, Accuracy: r.Analysis.IdentifiedPercent}
}

// SubmitReview grades one submission. A sufficient review or an
// exhausted budget finishes the exercise with a report; otherwise the
// student gets targeted guidance and another attempt. Guidance is
// advisory, so a failed summary call degrades to none rather than
// voiding a graded submission.
func (e *Engine) SubmitReview(ctx context.Context, req ReviewRequest) (*ReviewResult, error) {
	max := req.MaxIterations
	if max <= 0 {
		max = DefaultMaxIterations
	}

	analysis, err := e.grader.Grade(ctx, req.Code, req.Problems, req.Review)
	if err != nil {
		return nil, err
	}

	res := &ReviewResult{Analysis: analysis}
	res.Finished = analysis.Sufficient || req.Iteration >= max

	if res.Finished {
		history := append(append([]prompt.Attempt{}, req.History...), res.Attempt())
		res.Report = e.grader.Report(ctx, analysis, history)
		return res, nil
	}

	guidance, err := e.grader.Guidance(ctx, analysis, req.Iteration, max)
	if err != nil {
		guidance = ""
	}
	res.Guidance = guidance
	return res, nil
}
