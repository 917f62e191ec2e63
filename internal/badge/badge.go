// Package badge implements the award engine that runs after every
// completed exercise.
//
// The engine is deliberately re-entrant: every rule is checked on every
// completed review and AwardBadge is idempotent, so there is no separate
// bookkeeping of which rules already fired. A badge award grants its
// points, writes a ledger row, and can itself trigger the rising-star
// rule, which is why awards recurse through the same helper.
package badge

import (
	"context"
	"fmt"
	"time"

	"github.com/jpl-au/revdrill/internal/store"
)

// Store is the subset of store capabilities the engine needs.
type Store interface {
	store.Accounts
	store.Awards
	store.Ledger
}

// Award rule constants.
const (
	masteryThreshold   = 0.85 // category mastery ratio required
	masteryMinSeen     = 10   // minimum encounters before mastery counts
	perfectStreakLen   = 3    // consecutive perfect reviews for perfectionist
	bugHunterPerfects  = 5    // perfect reviews for bug-hunter
	streakDays         = 5    // consecutive days for consistency-champ
	spectrumCategories = 5    // distinct categories for full-spectrum
	risingStarPoints   = 500  // points within the first week for rising-star
	risingStarWindow   = 7 * 24 * time.Hour
)

// Review-count thresholds for the progression badges, checked lowest first
// so a backlog of milestones awards in order.
var progressionTiers = []struct {
	reviews int
	badgeID string
}{
	{5, "reviewer-novice"},
	{25, "reviewer-adept"},
	{50, "reviewer-master"},
}

// categoryBadges maps taxonomy categories to their mastery badge.
var categoryBadges = map[string]string{
	"Logical":            "logic-guru",
	"Syntax":             "syntax-specialist",
	"Code Quality":       "quality-inspector",
	"Standard Violation": "standards-expert",
	"Java Specific":      "java-maven",
}

// CategoryResult is the per-category outcome of one graded review.
type CategoryResult struct {
	Category    string
	Encountered int // errors of this category planted in the exercise
	Identified  int // of those, how many the student found
}

// Outcome describes one completed exercise for award processing. The caller
// (the trainer service) computes the counters; the engine only applies
// rules.
type Outcome struct {
	UserID          string
	ExerciseKey     string
	Perfect         bool // every planted error identified
	Points          int  // points granted for the review itself
	ReviewsDone     int  // completed reviews including this one
	ConsecutiveDays int  // daily streak including this review
	Categories      []CategoryResult
}

// Engine applies award rules against the store.
type Engine struct {
	store Store
}

// New creates an Engine over the given store.
func New(s Store) *Engine {
	return &Engine{store: s}
}

// ProcessReview records the review outcome in the ledger and applies every
// award rule. Returns the badges newly awarded by this review, in award
// order, for the CLI to announce.
func (e *Engine) ProcessReview(ctx context.Context, o Outcome) ([]store.Badge, error) {
	var awarded []store.Badge

	// The outcome row goes in first: bug-hunter and perfectionist read the
	// ledger including the review being processed.
	activityType := store.ActivityReviewCompleted
	details := fmt.Sprintf("Completed review of exercise %s", o.ExerciseKey)
	if o.Perfect {
		activityType = store.ActivityPerfectReview
		details = fmt.Sprintf("Found every error in exercise %s", o.ExerciseKey)
	}
	if o.Points > 0 {
		if _, err := e.store.AddPoints(ctx, o.UserID, o.Points); err != nil {
			return nil, err
		}
	}
	if err := e.store.LogActivity(ctx, o.UserID, activityType, o.Points, details); err != nil {
		return nil, err
	}
	if err := e.checkRisingStar(ctx, o.UserID, &awarded); err != nil {
		return nil, err
	}

	// Category mastery
	for _, c := range o.Categories {
		stat, err := e.store.BumpCategoryStats(ctx, o.UserID, c.Category, c.Encountered, c.Identified)
		if err != nil {
			return nil, err
		}
		badgeID, ok := categoryBadges[c.Category]
		if !ok {
			continue
		}
		if stat.Mastery >= masteryThreshold && stat.Encountered >= masteryMinSeen {
			if err := e.award(ctx, o.UserID, badgeID, &awarded); err != nil {
				return nil, err
			}
		}
	}

	// Progression milestones
	for _, tier := range progressionTiers {
		if o.ReviewsDone >= tier.reviews {
			if err := e.award(ctx, o.UserID, tier.badgeID, &awarded); err != nil {
				return nil, err
			}
		}
	}

	// Bug-hunter: five perfect reviews, counting this one
	if o.Perfect {
		perfects, err := e.store.CountActivities(ctx, o.UserID, store.ActivityPerfectReview)
		if err != nil {
			return nil, err
		}
		if perfects >= bugHunterPerfects {
			if err := e.award(ctx, o.UserID, "bug-hunter", &awarded); err != nil {
				return nil, err
			}
		}
	}

	// Perfectionist: last three review outcomes all perfect
	if o.Perfect {
		outcomes, err := e.store.LastReviewOutcomes(ctx, o.UserID, perfectStreakLen)
		if err != nil {
			return nil, err
		}
		if len(outcomes) == perfectStreakLen && allPerfect(outcomes) {
			if err := e.award(ctx, o.UserID, "perfectionist", &awarded); err != nil {
				return nil, err
			}
		}
	}

	// Full spectrum: at least one identification in every category
	identified, err := e.store.CategoriesIdentified(ctx, o.UserID)
	if err != nil {
		return nil, err
	}
	if identified >= spectrumCategories {
		if err := e.award(ctx, o.UserID, "full-spectrum", &awarded); err != nil {
			return nil, err
		}
	}

	// Consistency champion: five consecutive days
	if o.ConsecutiveDays >= streakDays {
		if err := e.award(ctx, o.UserID, "consistency-champ", &awarded); err != nil {
			return nil, err
		}
	}

	return awarded, nil
}

// award grants a badge if not already held, credits its points, writes the
// ledger row, and re-checks rising-star because the badge points may have
// crossed its threshold. Newly awarded badges are appended to out.
func (e *Engine) award(ctx context.Context, userID, badgeID string, out *[]store.Badge) error {
	newly, err := e.store.AwardBadge(ctx, userID, badgeID)
	if err != nil || !newly {
		return err
	}

	b, err := e.store.Badge(ctx, badgeID)
	if err != nil {
		return err
	}
	*out = append(*out, *b)

	if b.Points > 0 {
		if _, err := e.store.AddPoints(ctx, userID, b.Points); err != nil {
			return err
		}
		if err := e.store.LogActivity(ctx, userID, store.ActivityBadgeEarned, b.Points, "Earned badge: "+b.Name); err != nil {
			return err
		}
		// Badge points can cross the rising-star threshold. The recursion
		// terminates because a held badge is never awarded twice.
		if err := e.checkRisingStar(ctx, userID, out); err != nil {
			return err
		}
	}
	return nil
}

// checkRisingStar awards rising-star when the user has reached the points
// threshold within a week of registering.
func (e *Engine) checkRisingStar(ctx context.Context, userID string, out *[]store.Badge) error {
	u, err := e.store.UserByUID(ctx, userID)
	if err != nil {
		return err
	}
	if u.TotalPoints < risingStarPoints {
		return nil
	}
	if time.Since(time.Unix(u.CreatedAt, 0)) > risingStarWindow {
		return nil
	}
	return e.award(ctx, userID, "rising-star", out)
}

func allPerfect(outcomes []string) bool {
	for _, o := range outcomes {
		if o != store.ActivityPerfectReview {
			return false
		}
	}
	return true
}
