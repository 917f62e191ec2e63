// Package auth implements account registration, login and progression.
//
// A Manager wraps the accounts portion of the store and owns the domain
// rules the store deliberately does not: password hashing, credential
// checks, level promotion thresholds, and the daily streak calculation.
// Which account is "logged in" lives in the config file, not here; the CLI
// sets user.username after a successful Login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jpl-au/revdrill/internal/store"
	"github.com/jpl-au/revdrill/internal/validate"
)

// ErrInvalidCredentials is returned by Login for a wrong username or
// password. The two cases are indistinguishable on purpose: a login prompt
// should not reveal which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Score thresholds for level promotion. Crossing 100 promotes basic to
// medium, crossing 200 promotes anyone to senior. Promotion is one-way.
const (
	mediumScore = 100
	seniorScore = 200
)

const dateLayout = "2006-01-02"

// Manager provides account operations backed by the store's Accounts
// interface.
type Manager struct {
	store store.Accounts
}

// New creates a Manager over the given account store.
func New(s store.Accounts) *Manager {
	return &Manager{store: s}
}

// Register creates a new account. The username is lowercased before
// validation so "Alice" and "alice" are the same account. An empty display
// name defaults to the username. Returns store.ErrAlreadyExists when the
// username is taken.
func (m *Manager) Register(ctx context.Context, username, displayName, email, password string) (*store.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := validate.Username(username); err != nil {
		return nil, err
	}
	if err := validate.Password(password); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validate.Email(email); err != nil {
			return nil, err
		}
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return m.store.CreateUser(ctx, store.User{
		Username:     username,
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: string(hash),
	})
}

// Login verifies credentials and returns the account. Unknown usernames and
// wrong passwords both return ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, username, password string) (*store.User, error) {
	u, err := m.store.UserByName(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Profile returns the account for a username.
func (m *Manager) Profile(ctx context.Context, username string) (*store.User, error) {
	return m.store.UserByName(ctx, username)
}

// UpdateProfile changes display name and/or email. Empty strings leave the
// current value in place.
func (m *Manager) UpdateProfile(ctx context.Context, uid, displayName, email string) error {
	if email != "" {
		if err := validate.Email(email); err != nil {
			return err
		}
	}
	return m.store.UpdateProfile(ctx, uid, displayName, email)
}

// RecordReview applies a completed review to the user's progression:
// increments the review count, adds the score, and promotes the level when
// a threshold is crossed. Returns the user with the updated counters.
func (m *Manager) RecordReview(ctx context.Context, uid string, score int) (*store.User, error) {
	u, err := m.store.UserByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	u.ReviewsDone++
	u.Score += score
	u.Level = promote(u.Score, u.Level)

	if err := m.store.UpdateReviewStats(ctx, u.UID, u.ReviewsDone, u.Score, u.Level); err != nil {
		return nil, err
	}
	return u, nil
}

// promote returns the level held after reaching score. A basic user passing
// 100 becomes medium; anyone passing 200 becomes senior; levels never drop.
func promote(score int, level string) string {
	switch {
	case score > seniorScore && level != store.LevelSenior:
		return store.LevelSenior
	case score > mediumScore && score <= seniorScore && level == store.LevelBasic:
		return store.LevelMedium
	}
	return level
}

// Streak updates the daily activity streak after a completed review and
// returns the consecutive-day count. A second review on the same day leaves
// the streak untouched; a review on the day after the last one extends it;
// any gap resets it to one.
func (m *Manager) Streak(ctx context.Context, uid string, now time.Time) (int, error) {
	u, err := m.store.UserByUID(ctx, uid)
	if err != nil {
		return 0, err
	}

	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	days := 1
	switch u.LastActivity {
	case today:
		return u.ConsecutiveDays, nil
	case yesterday:
		days = u.ConsecutiveDays + 1
	}

	if err := m.store.UpdateStreak(ctx, uid, today, days); err != nil {
		return 0, err
	}
	return days, nil
}
