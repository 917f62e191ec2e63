// exercises.go carries the training workflow: generate an exercise, grade
// review submissions against it, and close it out with points, streaks and
// badges when the loop finishes.

package trainer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/badge"
	"github.com/jpl-au/revdrill/internal/exercise"
	"github.com/jpl-au/revdrill/internal/prompt"
	"github.com/jpl-au/revdrill/internal/review"
	"github.com/jpl-au/revdrill/internal/service"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/jpl-au/revdrill/internal/taxonomy"
)

// StartExercise generates a new exercise for the current user and stores it.
// Unset parameters fall back to config, then to defaults derived from the
// user's level, so a bare "revdrill generate" scales with progression.
func (s *Service) StartExercise(ctx context.Context, p exercise.Params) (*store.Exercise, error) {
	u, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.applyDefaults(&p, u)

	if err := s.initLLM(); err != nil {
		return nil, err
	}

	gen, err := s.eng.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	if max := s.cfg.MaxCode(); int64(len(gen.Annotated)) > max {
		return nil, fmt.Errorf("generated code is %d bytes, over the %d byte limit (limits.max_code)", len(gen.Annotated), max)
	}

	errorsJSON, err := json.Marshal(gen.Selected)
	if err != nil {
		return nil, fmt.Errorf("encode planted errors: %w", err)
	}

	ex, err := s.store.CreateExercise(ctx, store.Exercise{
		UserID:     u.UID,
		Difficulty: gen.Difficulty,
		Length:     gen.Length,
		Domain:     gen.Domain,
		Annotated:  gen.Annotated,
		Clean:      gen.Clean,
		Errors:     string(errorsJSON),
		Attempts:   gen.Attempts,
	})
	if err != nil {
		return nil, err
	}

	s.fireEvent(extension.ExerciseGeneratedEvent{
		Key:        ex.Key,
		UserID:     u.UID,
		Domain:     ex.Domain,
		Difficulty: ex.Difficulty,
		Errors:     len(gen.Selected),
	})
	return ex, nil
}

// applyDefaults fills unset generation parameters. Explicit values win, then
// config, then the level the account has reached. Count is left at zero when
// config has no error_count so selection applies the difficulty default.
func (s *Service) applyDefaults(p *exercise.Params, u *store.User) {
	levelDifficulty, levelLength := exercise.LevelDefaults(u.Level)

	if p.Difficulty == "" {
		p.Difficulty = s.cfg.Exercise.Difficulty
	}
	if p.Difficulty == "" {
		p.Difficulty = levelDifficulty
	}
	if p.Length == "" {
		p.Length = s.cfg.Exercise.Length
	}
	if p.Length == "" {
		p.Length = levelLength
	}
	if len(p.Categories) == 0 {
		p.Categories = s.cfg.Categories()
	}
	if p.Count <= 0 && s.cfg.Exercise.ErrorCount != nil {
		p.Count = *s.cfg.Exercise.ErrorCount
	}
}

// resolve finds the exercise a command refers to. An explicit key looks it
// up directly; an empty key falls back to the current user's most recent
// exercise. includeDeleted only applies to explicit keys, so history stays
// inspectable after an abandon without soft-deleted rows hijacking the
// latest-exercise shorthand.
func (s *Service) resolve(ctx context.Context, key string, includeDeleted bool) (*store.Exercise, error) {
	if key != "" {
		return s.store.ExerciseByKey(ctx, key, includeDeleted)
	}
	u, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.LatestExercise(ctx, u.UID)
}

// Exercise returns one exercise. An empty key means the current user's most
// recent one.
func (s *Service) Exercise(ctx context.Context, key string) (*store.Exercise, error) {
	return s.resolve(ctx, key, false)
}

// PlantedErrors decodes the error list stored with an exercise.
func (s *Service) PlantedErrors(e *store.Exercise) ([]taxonomy.Selected, error) {
	var sel []taxonomy.Selected
	if err := json.Unmarshal([]byte(e.Errors), &sel); err != nil {
		return nil, fmt.Errorf("decode planted errors for %s: %w", e.Key, err)
	}
	return sel, nil
}

// Reviews returns every submission for an exercise in iteration order.
func (s *Service) Reviews(ctx context.Context, key string) ([]store.Review, error) {
	ex, err := s.resolve(ctx, key, true)
	if err != nil {
		return nil, err
	}
	return s.store.ReviewsFor(ctx, ex.Key)
}

// ListExercises returns exercises matching the filter, newest first.
func (s *Service) ListExercises(ctx context.Context, f store.ExerciseFilter) ([]store.Exercise, error) {
	return s.store.ListExercises(ctx, f)
}

// SubmitReview grades one review submission against the exercise's planted
// errors. A sufficient review, or the final permitted iteration, finishes
// the exercise: the outcome then carries the report, points and any badges.
// Otherwise the outcome carries guidance for the next attempt.
//
// Grading runs before any state change, so a failed LLM call leaves the
// exercise untouched and the submission can simply be retried.
func (s *Service) SubmitReview(ctx context.Context, key, reviewText string) (*service.ReviewOutcome, error) {
	reviewText = strings.TrimSpace(reviewText)
	if reviewText == "" {
		return nil, ErrEmptyReview
	}
	if max := s.cfg.MaxReview(); int64(len(reviewText)) > max {
		return nil, fmt.Errorf("review is %d bytes, over the %d byte limit (limits.max_review)", len(reviewText), max)
	}

	u, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	ex, err := s.resolve(ctx, key, false)
	if err != nil {
		return nil, err
	}
	if ex.Status == store.StatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyFinished, ex.Key)
	}
	if ex.UserID != u.UID {
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, ex.Key)
	}

	sel, err := s.PlantedErrors(ex)
	if err != nil {
		return nil, err
	}
	prior, err := s.store.ReviewsFor(ctx, ex.Key)
	if err != nil {
		return nil, err
	}

	if err := s.initLLM(); err != nil {
		return nil, err
	}

	iteration := ex.Iteration + 1
	res, err := s.eng.SubmitReview(ctx, exercise.ReviewRequest{
		Code:          ex.Clean,
		Problems:      taxonomy.Problems(sel),
		Review:        reviewText,
		Iteration:     iteration,
		MaxIterations: exercise.DefaultMaxIterations,
		History:       attemptsFrom(prior),
	})
	if err != nil {
		return nil, err
	}

	// The submission graded, so it counts. Record it before progression
	// bookkeeping so a later failure never loses the review itself.
	if _, err := s.store.BumpIteration(ctx, ex.Key); err != nil {
		return nil, err
	}
	analysisJSON, err := json.Marshal(res.Analysis)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	if _, err := s.store.AddReview(ctx, store.Review{
		ExerciseKey: ex.Key,
		Iteration:   iteration,
		Text:        reviewText,
		Analysis:    string(analysisJSON),
		Identified:  res.Analysis.IdentifiedCount,
		Total:       res.Analysis.TotalProblems,
		Sufficient:  res.Analysis.Sufficient,
	}); err != nil {
		return nil, err
	}

	ex.Iteration = iteration
	ex.Status = store.StatusInReview

	out := &service.ReviewOutcome{
		Exercise:      ex,
		Analysis:      res.Analysis,
		Iteration:     iteration,
		MaxIterations: exercise.DefaultMaxIterations,
		Finished:      res.Finished,
		Guidance:      res.Guidance,
		Report:        res.Report,
	}

	s.fireEvent(extension.ReviewSubmittedEvent{
		Key:        ex.Key,
		UserID:     u.UID,
		Iteration:  iteration,
		Identified: res.Analysis.IdentifiedCount,
		Total:      res.Analysis.TotalProblems,
		Sufficient: res.Analysis.Sufficient,
		Finished:   res.Finished,
	})

	if !res.Finished {
		return out, nil
	}
	if err := s.finishExercise(ctx, out, u, sel); err != nil {
		return nil, err
	}
	return out, nil
}

// finishExercise closes out a completed review loop: marks the exercise
// done, grants points, advances the streak, and runs the award rules.
func (s *Service) finishExercise(ctx context.Context, out *service.ReviewOutcome, u *store.User, sel []taxonomy.Selected) error {
	ex := out.Exercise
	if err := s.store.SetExerciseStatus(ctx, ex.Key, store.StatusCompleted); err != nil {
		return err
	}
	now := time.Now().Unix()
	ex.Status = store.StatusCompleted
	ex.CompletedAt = &now

	a := out.Analysis
	out.Points = a.IdentifiedCount * PointsPerError

	updated, err := s.auth.RecordReview(ctx, u.UID, a.IdentifiedCount)
	if err != nil {
		return err
	}
	days, err := s.auth.Streak(ctx, u.UID, time.Now())
	if err != nil {
		return err
	}

	awarded, err := s.badges.ProcessReview(ctx, badge.Outcome{
		UserID:          u.UID,
		ExerciseKey:     ex.Key,
		Perfect:         a.TotalProblems > 0 && a.IdentifiedCount >= a.TotalProblems,
		Points:          out.Points,
		ReviewsDone:     updated.ReviewsDone,
		ConsecutiveDays: days,
		Categories:      categoryResults(sel, a),
	})
	if err != nil {
		return err
	}
	out.Awarded = awarded

	for _, b := range awarded {
		s.fireEvent(extension.BadgeAwardedEvent{
			UserID:  u.UID,
			BadgeID: b.ID,
			Name:    b.Name,
			Points:  b.Points,
		})
	}

	// Re-read after points and badge credits so the caller shows final totals.
	final, err := s.store.UserByUID(ctx, u.UID)
	if err != nil {
		return err
	}
	out.User = final
	return nil
}

// Report regenerates the final report for a completed exercise. Without a
// working LLM configuration it degrades to the static summary, so reports
// stay readable offline.
func (s *Service) Report(ctx context.Context, key string) (string, error) {
	ex, err := s.resolve(ctx, key, true)
	if err != nil {
		return "", err
	}
	if ex.Status != store.StatusCompleted {
		return "", fmt.Errorf("%w: %s", ErrNotFinished, ex.Key)
	}

	revs, err := s.store.ReviewsFor(ctx, ex.Key)
	if err != nil {
		return "", err
	}
	if len(revs) == 0 {
		return "", fmt.Errorf("exercise %s has no reviews", ex.Key)
	}

	var a review.Analysis
	if err := json.Unmarshal([]byte(revs[len(revs)-1].Analysis), &a); err != nil {
		return "", fmt.Errorf("decode stored analysis for %s: %w", ex.Key, err)
	}

	history := attemptsFrom(revs)
	if s.initLLM() == nil {
		return s.grader.Report(ctx, a, history), nil
	}
	return review.FallbackReport(a, history), nil
}

// Solution returns a finished exercise with its annotated code. Open
// exercises stay hidden; abandon one to peek at its answers.
func (s *Service) Solution(ctx context.Context, key string) (*store.Exercise, error) {
	ex, err := s.resolve(ctx, key, true)
	if err != nil {
		return nil, err
	}
	if ex.Status != store.StatusCompleted && ex.Status != store.StatusAbandoned {
		return nil, fmt.Errorf("%w: %s", ErrNotFinished, ex.Key)
	}
	return ex, nil
}

// AbandonExercise soft deletes an open exercise owned by the current user.
// Abandoned exercises keep their reviews and stay visible to Solution and
// vacuum, but no longer accept submissions.
func (s *Service) AbandonExercise(ctx context.Context, key string) error {
	u, err := s.CurrentUser(ctx)
	if err != nil {
		return err
	}
	ex, err := s.resolve(ctx, key, false)
	if err != nil {
		return err
	}
	if ex.UserID != u.UID {
		return fmt.Errorf("%w: %s", ErrNotOwner, ex.Key)
	}
	if ex.Status == store.StatusCompleted {
		return fmt.Errorf("%w: %s", ErrAlreadyFinished, ex.Key)
	}
	return s.store.DeleteExercise(ctx, ex.Key)
}

// attemptsFrom converts stored reviews to report history entries, oldest
// first. Accuracy is recomputed from the stored counts.
func attemptsFrom(revs []store.Review) []prompt.Attempt {
	out := make([]prompt.Attempt, len(revs))
	for i, r := range revs {
		a := prompt.Attempt{Found: r.Identified, Accuracy: 100}
		if r.Total > 0 {
			a.Accuracy = float64(r.Identified) / float64(r.Total) * 100
		}
		out[i] = a
	}
	return out
}

// categoryResults folds the planted errors and the graded analysis into
// per-category tallies for the award rules. A planted error counts as
// identified when any graded finding mentions it by name.
func categoryResults(sel []taxonomy.Selected, a review.Analysis) []badge.CategoryResult {
	found := a.IdentifiedTexts()

	var order []string
	tally := map[string]*badge.CategoryResult{}
	for _, s := range sel {
		r, ok := tally[s.Category]
		if !ok {
			r = &badge.CategoryResult{Category: s.Category}
			tally[s.Category] = r
			order = append(order, s.Category)
		}
		r.Encountered++
		if mentions(found, s.Name) {
			r.Identified++
		}
	}

	out := make([]badge.CategoryResult, len(order))
	for i, c := range order {
		out[i] = *tally[c]
	}
	return out
}

// mentions reports whether any finding names the error, case-insensitively.
func mentions(texts []string, name string) bool {
	name = strings.ToLower(name)
	for _, t := range texts {
		if strings.Contains(strings.ToLower(t), name) {
			return true
		}
	}
	return false
}
