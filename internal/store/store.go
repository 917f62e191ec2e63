// Package store provides SQLite-backed persistence for revdrill.
//
// It holds everything the trainer accumulates between sessions: user
// accounts and their progression, generated exercises with their planted
// errors, submitted reviews with grading results, the badge catalog and
// awards, per-category mastery counters, and the activity ledger that
// badge rules read. Implementations handle the actual database operations
// while consumers depend only on the Store interface, enabling testing
// and alternative backends.
package store

import (
	"encoding/json"
	"time"
)

// User levels in ascending order of seniority. A user's level selects the
// default exercise difficulty and is promoted as their score grows.
const (
	LevelBasic  = "basic"
	LevelMedium = "medium"
	LevelSenior = "senior"
)

// Exercise lifecycle states.
const (
	StatusAwaitingReview = "awaiting_review" // generated, no review submitted yet
	StatusInReview       = "in_review"       // at least one insufficient review submitted
	StatusCompleted      = "completed"       // review loop finished
	StatusAbandoned      = "abandoned"       // soft deleted by the user
)

// Activity types recorded in the ledger. Badge rules match on these strings,
// so they are part of the schema contract.
const (
	ActivityReviewCompleted = "review_completed" // exercise finished, some errors missed
	ActivityPerfectReview   = "perfect_review"   // exercise finished, every error found
	ActivityBadgeEarned     = "badge_earned"     // bonus points from a badge award
)

// User is a registered student account. The password hash stays inside the
// store and auth packages; the JSON form omits it entirely.
type User struct {
	UID             string // UUID, stable across display name changes
	Username        string // unique login name
	DisplayName     string
	Email           string
	PasswordHash    string // bcrypt
	Level           string // basic, medium, senior
	ReviewsDone     int    // completed exercises
	Score           int    // cumulative grading score, drives level promotion
	TotalPoints     int    // badge currency
	ConsecutiveDays int    // current daily streak
	LastActivity    string // YYYY-MM-DD of most recent completed review, empty if none
	CreatedAt       int64  // Unix timestamp of registration
}

// UserJSON is the API-friendly representation of a User.
type UserJSON struct {
	UID             string `json:"uid"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	Email           string `json:"email,omitempty"`
	Level           string `json:"level"`
	ReviewsDone     int    `json:"reviews_completed"`
	Score           int    `json:"score"`
	TotalPoints     int    `json:"total_points"`
	ConsecutiveDays int    `json:"consecutive_days"`
	LastActivity    string `json:"last_activity,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// ToJSON converts a User to its API representation. The password hash is
// never included.
func (u *User) ToJSON() UserJSON {
	return UserJSON{
		UID:             u.UID,
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		Email:           u.Email,
		Level:           u.Level,
		ReviewsDone:     u.ReviewsDone,
		Score:           u.Score,
		TotalPoints:     u.TotalPoints,
		ConsecutiveDays: u.ConsecutiveDays,
		LastActivity:    u.LastActivity,
		CreatedAt:       time.Unix(u.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// Badge is a catalog entry. The catalog is seeded by the schema files and
// read-only at runtime.
type Badge struct {
	ID          string // slug, e.g. "bug-hunter"
	Name        string
	Description string
	Icon        string // emoji shown in listings
	Category    string // achievement, progression, category, special
	Difficulty  string // easy, medium, hard
	Points      int    // added to total_points when earned
}

// BadgeJSON is the API-friendly representation of a Badge.
type BadgeJSON struct {
	ID          string `json:"badge_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	Points      int    `json:"points"`
}

// ToJSON converts a Badge to its API representation.
func (b *Badge) ToJSON() BadgeJSON {
	return BadgeJSON{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		Category:    b.Category,
		Difficulty:  b.Difficulty,
		Points:      b.Points,
	}
}

// UserBadge is a badge a user has earned, with the award time.
type UserBadge struct {
	Badge
	AwardedAt int64 // Unix timestamp of the award
}

// UserBadgeJSON is the API-friendly representation of a UserBadge.
type UserBadgeJSON struct {
	BadgeJSON
	AwardedAt string `json:"awarded_at"`
}

// ToJSON converts a UserBadge to its API representation.
func (b *UserBadge) ToJSON() UserBadgeJSON {
	return UserBadgeJSON{
		BadgeJSON: b.Badge.ToJSON(),
		AwardedAt: time.Unix(b.AwardedAt, 0).UTC().Format(time.RFC3339),
	}
}

// CategoryStat tracks how often a user has encountered errors of one
// taxonomy category and how often they identified them. Mastery is the
// ratio of the two and feeds the category badge rules.
type CategoryStat struct {
	Category    string
	Encountered int
	Identified  int
	Mastery     float64 // identified / encountered, 0 when nothing encountered
	UpdatedAt   int64   // Unix timestamp of last change
}

// CategoryStatJSON is the API-friendly representation of a CategoryStat.
type CategoryStatJSON struct {
	Category    string  `json:"category"`
	Encountered int     `json:"encountered"`
	Identified  int     `json:"identified"`
	Mastery     float64 `json:"mastery_level"`
	UpdatedAt   string  `json:"last_updated"`
}

// ToJSON converts a CategoryStat to its API representation.
func (c *CategoryStat) ToJSON() CategoryStatJSON {
	return CategoryStatJSON{
		Category:    c.Category,
		Encountered: c.Encountered,
		Identified:  c.Identified,
		Mastery:     c.Mastery,
		UpdatedAt:   time.Unix(c.UpdatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// Activity is one row of the activity ledger.
type Activity struct {
	ID        int64  // Database primary key (internal)
	UserID    string // User UID
	Type      string // review_completed, perfect_review, badge_earned
	Points    int    // points granted by this activity
	Details   string // human-readable description
	CreatedAt int64  // Unix timestamp
}

// ActivityJSON is the API-friendly representation of an Activity.
type ActivityJSON struct {
	Type      string `json:"activity_type"`
	Points    int    `json:"points"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ToJSON converts an Activity to its API representation.
func (a *Activity) ToJSON() ActivityJSON {
	return ActivityJSON{
		Type:      a.Type,
		Points:    a.Points,
		Details:   a.Details,
		CreatedAt: time.Unix(a.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// Exercise is a generated code-review exercise. The annotated source
// carries error markers for the solution view; the clean source is what
// the student reviews. Errors holds the planted error plan as JSON text,
// which the store treats as opaque.
type Exercise struct {
	ID          int64  // Database primary key (internal)
	Key         string // Unique 8-char identifier
	UserID      string // owning user UID
	Difficulty  string // easy, medium, hard
	Length      string // short, medium, long
	Domain      string // business domain the snippet models
	Annotated   string // Java source with error markers
	Clean       string // Java source without markers, shown to the student
	Errors      string // JSON array of planted errors
	Status      string // lifecycle state
	Attempts    int    // generation attempts consumed (initial plus regenerations)
	Iteration   int    // review iterations consumed
	CreatedAt   int64  // Unix timestamp of generation
	CompletedAt *int64 // Unix timestamp of completion, nil while open
	DeletedAt   *int64 // Unix timestamp of abandonment, nil if active
}

// ExerciseJSON is the API-friendly representation of an Exercise. The
// annotated parameter controls whether the marked-up solution and the
// error plan are included, so listings can stay spoiler-free.
type ExerciseJSON struct {
	Key         string          `json:"key"`
	UserID      string          `json:"user_id"`
	Difficulty  string          `json:"difficulty"`
	Length      string          `json:"length"`
	Domain      string          `json:"domain"`
	Clean       string          `json:"code,omitempty"`
	Annotated   string          `json:"annotated_code,omitempty"`
	Errors      json.RawMessage `json:"errors,omitempty"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	Iteration   int             `json:"iteration"`
	CreatedAt   string          `json:"created_at"`
	CompletedAt string          `json:"completed_at,omitempty"`
	Deleted     bool            `json:"deleted,omitempty"`
}

// ToJSON converts an Exercise to its API representation. The annotated
// parameter controls whether the solution markup and error plan appear.
func (e *Exercise) ToJSON(annotated bool) ExerciseJSON {
	j := ExerciseJSON{
		Key:        e.Key,
		UserID:     e.UserID,
		Difficulty: e.Difficulty,
		Length:     e.Length,
		Domain:     e.Domain,
		Clean:      e.Clean,
		Status:     e.Status,
		Attempts:   e.Attempts,
		Iteration:  e.Iteration,
		CreatedAt:  time.Unix(e.CreatedAt, 0).UTC().Format(time.RFC3339),
		Deleted:    e.DeletedAt != nil,
	}
	if annotated {
		j.Annotated = e.Annotated
		j.Errors = json.RawMessage(e.Errors)
	}
	if e.CompletedAt != nil {
		j.CompletedAt = time.Unix(*e.CompletedAt, 0).UTC().Format(time.RFC3339)
	}
	return j
}

// Review is one graded review submission against an exercise.
type Review struct {
	ID          int64  // Database primary key (internal)
	ExerciseKey string // key of the reviewed exercise
	Iteration   int    // 1-based position in the review loop
	Text        string // the student's submitted review
	Analysis    string // JSON grading payload from the review package
	Identified  int    // errors correctly identified
	Total       int    // errors planted
	Sufficient  bool   // grading met the pass threshold
	CreatedAt   int64  // Unix timestamp of submission
}

// ReviewJSON is the API-friendly representation of a Review.
type ReviewJSON struct {
	ExerciseKey string          `json:"exercise_key"`
	Iteration   int             `json:"iteration"`
	Text        string          `json:"review_text"`
	Analysis    json.RawMessage `json:"analysis,omitempty"`
	Identified  int             `json:"identified"`
	Total       int             `json:"total"`
	Sufficient  bool            `json:"sufficient"`
	CreatedAt   string          `json:"created_at"`
}

// ToJSON converts a Review to its API representation.
func (r *Review) ToJSON() ReviewJSON {
	return ReviewJSON{
		ExerciseKey: r.ExerciseKey,
		Iteration:   r.Iteration,
		Text:        r.Text,
		Analysis:    json.RawMessage(r.Analysis),
		Identified:  r.Identified,
		Total:       r.Total,
		Sufficient:  r.Sufficient,
		CreatedAt:   time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UID         string `json:"uid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"`
	TotalPoints int    `json:"total_points"`
	BadgeCount  int    `json:"badge_count"`
}

// Rank is a single user's leaderboard position.
type Rank struct {
	Position   int `json:"position"` // 1-based
	TotalUsers int `json:"total_users"`
}

// ExerciseFilter narrows ListExercises results. Zero values mean no filter.
type ExerciseFilter struct {
	UserID         string // only this user's exercises
	Status         string // only this lifecycle state
	IncludeDeleted bool   // include soft-deleted exercises
	Limit          int    // 0 means no limit
}

// Stats provides aggregate database statistics for operational visibility.
// Enables developers to understand store utilisation without querying
// individual tables.
type Stats struct {
	Users          int64 // Registered user count
	Exercises      int64 // Active (non-deleted) exercise count
	Completed      int64 // Completed exercises
	Deleted        int64 // Soft-deleted exercises pending vacuum
	Reviews        int64 // Review submissions across all exercises
	BadgesAwarded  int64 // Badge awards across all users
	Activities     int64 // Activity ledger rows
	OldestExercise int64 // Unix timestamp of earliest exercise (0 if none)
	NewestExercise int64 // Unix timestamp of most recent exercise (0 if none)
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
// Use this instead of json.Marshal when the output will be displayed to users.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
