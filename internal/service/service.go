// Package service defines the shared interface for trainer operations.
// Commands and extensions depend on this interface rather than concrete
// implementations, enabling testing with mocks and future backend changes.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jpl-au/revdrill/internal/exercise"
	"github.com/jpl-au/revdrill/internal/review"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/jpl-au/revdrill/internal/taxonomy"
)

// ReviewOutcome aggregates everything one review submission produced: the
// grading verdict, what the student should do next, and any progression the
// submission triggered. Guidance and Report are mutually exclusive; exactly
// one is set depending on whether the exercise finished.
type ReviewOutcome struct {
	// Exercise is the reviewed exercise with its updated iteration and status.
	Exercise *store.Exercise

	// Analysis is the grading verdict for this submission.
	Analysis review.Analysis

	// Iteration is the 1-based number of this submission.
	Iteration int

	// MaxIterations is the submission cap for the exercise.
	MaxIterations int

	// Finished reports whether the review loop ended, either because the
	// review was sufficient or because the iteration cap was reached.
	Finished bool

	// Guidance holds targeted hints for the next attempt. Set only on an
	// unfinished, insufficient submission; empty when the hint call failed.
	Guidance string

	// Report holds the final markdown teaching report. Set only when the
	// exercise finished.
	Report string

	// Points is the badge currency granted for this submission. Zero until
	// the exercise finishes.
	Points int

	// User carries the progression counters after the review was recorded.
	// Nil until the exercise finishes.
	User *store.User

	// Awarded lists badges newly earned by this submission, in award order.
	Awarded []store.Badge
}

// Service defines all trainer operations.
//
// Extensions should use trainer.New() to obtain a Service implementation.
// Always call Close() when done (use defer).
//
// Example:
//
//	svc, err := trainer.New("")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	ex, err := svc.Exercise(ctx, "a1b2c3d4")
type Service interface {
	// Close checkpoints the WAL and releases database resources.
	// Always defer this after New().
	Close() error

	// Catalog returns the loaded error taxonomy. The catalog comes from
	// the exercise.taxonomy file when configured, otherwise the embedded
	// default.
	Catalog() *taxonomy.Catalog

	// Register creates a new student account. Usernames are lowercased;
	// returns store.ErrAlreadyExists when the name is taken.
	Register(ctx context.Context, username, displayName, email, password string) (*store.User, error)

	// Login verifies credentials. Unknown usernames and wrong passwords both
	// return auth.ErrInvalidCredentials. Which account stays logged in is the
	// CLI's concern (config user.name); Login only checks.
	Login(ctx context.Context, username, password string) (*store.User, error)

	// Profile returns the account for a username.
	// Returns store.ErrNotFound if no such user exists.
	Profile(ctx context.Context, username string) (*store.User, error)

	// UpdateProfile changes display name and/or email for a user and
	// returns the updated account. Empty strings leave the current value
	// in place.
	UpdateProfile(ctx context.Context, uid, displayName, email string) (*store.User, error)

	// CurrentUser resolves the logged-in account from config user.name.
	// Returns trainer.ErrNotLoggedIn when no account is configured.
	CurrentUser(ctx context.Context) (*store.User, error)

	// Users returns all registered accounts ordered by registration time.
	Users(ctx context.Context) ([]store.User, error)

	// StartExercise generates a fresh exercise for the current user and
	// persists it. Zero fields in p default from config and the user's level
	// (basic: easy/short, medium: medium/medium, senior: hard/long). The
	// returned exercise is in awaiting_review state.
	StartExercise(ctx context.Context, p exercise.Params) (*store.Exercise, error)

	// Exercise retrieves an exercise by key. An empty key resolves to the
	// current user's most recent active exercise, so `revdrill status` works
	// without arguments. Returns store.ErrNotFound when neither exists.
	Exercise(ctx context.Context, key string) (*store.Exercise, error)

	// SubmitReview grades a review against an exercise and advances its
	// lifecycle. An empty key resolves like Exercise. Sufficient reviews and
	// reviews on the final iteration finish the exercise: progression, streak
	// and badge rules run, and the outcome carries the final report.
	// Unfinished submissions carry guidance instead.
	SubmitReview(ctx context.Context, key, reviewText string) (*ReviewOutcome, error)

	// Report rebuilds the final teaching report for a completed exercise
	// from its stored reviews. Returns trainer.ErrNotFinished for open
	// exercises.
	Report(ctx context.Context, key string) (string, error)

	// Solution returns a finished exercise including its annotated code and
	// error plan. Open exercises return trainer.ErrNotFinished so the markers
	// stay hidden while a review loop is running; abandon first to peek.
	Solution(ctx context.Context, key string) (*store.Exercise, error)

	// PlantedErrors decodes an exercise's stored error plan.
	PlantedErrors(e *store.Exercise) ([]taxonomy.Selected, error)

	// Reviews returns all graded submissions for an exercise in iteration
	// order.
	Reviews(ctx context.Context, key string) ([]store.Review, error)

	// AbandonExercise soft-deletes an exercise. An empty key resolves like
	// Exercise. Abandoned exercises stay inspectable until Vacuum.
	AbandonExercise(ctx context.Context, key string) error

	// ListExercises returns exercises matching the filter, newest first.
	ListExercises(ctx context.Context, f store.ExerciseFilter) ([]store.Exercise, error)

	// Leaderboard returns the top users by total points. A limit of 0 uses
	// the configured leaderboard size.
	Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error)

	// UserRank returns one user's leaderboard position.
	UserRank(ctx context.Context, uid string) (*store.Rank, error)

	// AllBadges returns the badge catalog in seed order.
	AllBadges(ctx context.Context) ([]store.Badge, error)

	// UserBadges returns a user's earned badges, most recent first.
	UserBadges(ctx context.Context, uid string) ([]store.UserBadge, error)

	// CategoryStats returns a user's per-category mastery counters, highest
	// mastery first.
	CategoryStats(ctx context.Context, uid string) ([]store.CategoryStat, error)

	// Activities returns a user's recent activity ledger rows, newest first.
	// Set limit to 0 for all rows.
	Activities(ctx context.Context, uid string, limit int) ([]store.Activity, error)

	// Stats returns aggregate database statistics for capacity planning
	// and operational visibility.
	Stats(ctx context.Context) (*store.Stats, error)

	// Vacuum permanently deletes soft-deleted exercises and their reviews.
	// If olderThan is set, only exercises abandoned before that duration ago
	// are removed. Returns the count of exercises purged.
	Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error)

	// DB returns the underlying SQLite connection.
	// Extensions use this to create custom tables.
	// Do not close this connection directly; use Service.Close().
	DB() *sql.DB

	// Tx runs a function within a database transaction.
	// If fn returns nil, the transaction is committed.
	// If fn returns an error, the transaction is rolled back.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// DBPath returns the path to the database file.
	DBPath() string

	// Checkpoint flushes the WAL to the main database file, removing
	// the -wal and -shm files. Useful before backup or distribution.
	Checkpoint(ctx context.Context) error
}
