// interfaces.go defines the storage abstraction for training persistence.
//
// Separated from the SQLite implementation to enable testing and potential
// alternative backends. The interfaces are intentionally granular (Accounts,
// Exercises, Awards, etc.) to support interface segregation - consumers only
// depend on the capabilities they need.
//
// Design: Exercises use soft-delete semantics. Abandoning marks the row
// deleted rather than removing it, so an accidental abandon can be inspected
// until Vacuum permanently purges it. Users, reviews, badges and the
// activity ledger are never deleted.

package store

import (
	"context"
	"database/sql"
	"time"
)

// Accounts defines operations on user records.
type Accounts interface {
	// CreateUser registers a new user. The UID and CreatedAt fields are
	// assigned by the store. Returns ErrAlreadyExists when the username
	// is taken.
	CreateUser(ctx context.Context, u User) (*User, error)

	// UserByName retrieves a user by login name. Returns ErrNotFound if
	// no such user exists.
	UserByName(ctx context.Context, username string) (*User, error)

	// UserByUID retrieves a user by their stable UUID.
	UserByUID(ctx context.Context, uid string) (*User, error)

	// ListUsers returns all users ordered by registration time.
	ListUsers(ctx context.Context) ([]User, error)

	// UpdateProfile changes the mutable profile fields. Empty strings leave
	// the current value in place.
	UpdateProfile(ctx context.Context, uid, displayName, email string) error

	// UpdateReviewStats persists the progression counters after a completed
	// review: review count, cumulative score, and the (possibly promoted)
	// level. The caller computes the new values.
	UpdateReviewStats(ctx context.Context, uid string, reviewsDone, score int, level string) error

	// AddPoints adds badge currency to a user and returns the new total.
	AddPoints(ctx context.Context, uid string, points int) (int, error)

	// UpdateStreak records the daily streak state after an activity.
	// lastActivity is a YYYY-MM-DD date string.
	UpdateStreak(ctx context.Context, uid, lastActivity string, consecutiveDays int) error
}

// Exercises defines operations on generated exercises.
type Exercises interface {
	// CreateExercise stores a freshly generated exercise. The Key, Status
	// and CreatedAt fields are assigned by the store.
	CreateExercise(ctx context.Context, e Exercise) (*Exercise, error)

	// ExerciseByKey retrieves an exercise by its unique 8-char key. Use
	// includeDeleted to access soft-deleted exercises for inspection.
	ExerciseByKey(ctx context.Context, key string, includeDeleted bool) (*Exercise, error)

	// LatestExercise returns the user's most recent active exercise, the
	// one `exercise status` and `exercise review` operate on when no key
	// is given.
	LatestExercise(ctx context.Context, userID string) (*Exercise, error)

	// ListExercises returns exercises matching the filter, newest first.
	ListExercises(ctx context.Context, f ExerciseFilter) ([]Exercise, error)

	// ReplaceExerciseCode swaps in regenerated code and the revised error
	// plan, recording the extra generation attempt.
	ReplaceExerciseCode(ctx context.Context, key, annotated, clean, errors string, attempts int) error

	// SetExerciseStatus moves an exercise through its lifecycle. Completing
	// stamps completed_at.
	SetExerciseStatus(ctx context.Context, key, status string) error

	// BumpIteration increments the review iteration counter and marks the
	// exercise in_review. Returns the new iteration number.
	BumpIteration(ctx context.Context, key string) (int, error)

	// DeleteExercise abandons an exercise: status becomes abandoned and the
	// row is soft deleted pending vacuum.
	DeleteExercise(ctx context.Context, key string) error
}

// Reviews defines operations on graded review submissions.
type Reviews interface {
	// AddReview stores one graded submission. The CreatedAt field is
	// assigned by the store.
	AddReview(ctx context.Context, r Review) (*Review, error)

	// ReviewsFor returns all submissions for an exercise in iteration order.
	ReviewsFor(ctx context.Context, exerciseKey string) ([]Review, error)

	// LatestReviewFor returns the most recent submission for an exercise.
	LatestReviewFor(ctx context.Context, exerciseKey string) (*Review, error)
}

// Awards defines operations on badges and category mastery.
type Awards interface {
	// Badges returns the full badge catalog in seed order.
	Badges(ctx context.Context) ([]Badge, error)

	// Badge retrieves one catalog entry by slug.
	Badge(ctx context.Context, badgeID string) (*Badge, error)

	// AwardBadge grants a badge to a user. Returns false without error when
	// the user already holds it.
	AwardBadge(ctx context.Context, userID, badgeID string) (bool, error)

	// HasBadge reports whether a user holds a badge.
	HasBadge(ctx context.Context, userID, badgeID string) (bool, error)

	// UserBadges returns a user's earned badges, most recent first.
	UserBadges(ctx context.Context, userID string) ([]UserBadge, error)

	// BumpCategoryStats adds encounter and identification counts for one
	// taxonomy category and returns the updated row with recomputed mastery.
	BumpCategoryStats(ctx context.Context, userID, category string, encountered, identified int) (*CategoryStat, error)

	// CategoryStats returns a user's per-category counters, highest
	// mastery first.
	CategoryStats(ctx context.Context, userID string) ([]CategoryStat, error)

	// CategoriesIdentified counts the distinct categories in which the user
	// has identified at least one error.
	CategoriesIdentified(ctx context.Context, userID string) (int64, error)
}

// Ledger defines operations on the append-only activity log.
type Ledger interface {
	// LogActivity appends one ledger row.
	LogActivity(ctx context.Context, userID, activityType string, points int, details string) error

	// Activities returns a user's recent ledger rows, newest first.
	Activities(ctx context.Context, userID string, limit int) ([]Activity, error)

	// CountActivities counts a user's ledger rows of one type.
	CountActivities(ctx context.Context, userID, activityType string) (int64, error)

	// LastReviewOutcomes returns the types of the user's n most recent
	// review outcome rows (perfect_review or review_completed), newest
	// first. Used by the consecutive-perfect-review badge rule.
	LastReviewOutcomes(ctx context.Context, userID string, n int) ([]string, error)
}

// Reporter defines aggregate reporting operations.
type Reporter interface {
	// Leaderboard returns the top users by total points.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// UserRank returns one user's leaderboard position.
	UserRank(ctx context.Context, userID string) (*Rank, error)

	// Stats returns aggregate database statistics for operational
	// dashboards.
	Stats(ctx context.Context) (*Stats, error)
}

// Maintainer defines operations for database maintenance and lifecycle.
type Maintainer interface {
	// Close releases the database connection.
	Close() error

	// DB exposes the underlying connection for extensions needing custom tables.
	DB() *sql.DB

	// Checkpoint flushes WAL to the main database file.
	Checkpoint(ctx context.Context) error

	// Vacuum permanently removes soft-deleted exercises and their reviews.
	Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error)
}

// Store defines the persistence interface for the trainer. Exercise
// operations are designed for soft-delete semantics, enabling recovery
// until vacuum.
type Store interface {
	Accounts
	Exercises
	Reviews
	Awards
	Ledger
	Reporter
	Maintainer
}
