package auth_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpl-au/revdrill/internal/auth"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/jpl-au/revdrill/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAuth creates a Manager over a temporary SQLite store.
func setupAuth(t *testing.T) (*auth.Manager, *store.SQLiteStore, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "revdrill-auth-test-*")
	require.NoError(t, err)

	s, err := store.Open(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Init())

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return auth.New(s), s, cleanup
}

func TestRegister(t *testing.T) {
	m, _, cleanup := setupAuth(t)
	defer cleanup()
	ctx := context.Background()

	u, err := m.Register(ctx, "  Alice ", "", "alice@example.com", "correct horse battery")
	require.NoError(t, err)

	assert.Equal(t, "alice", u.Username, "username is trimmed and lowercased")
	assert.Equal(t, "alice", u.DisplayName, "display name defaults to username")
	assert.Equal(t, store.LevelBasic, u.Level)
	assert.NotEmpty(t, u.UID)
	assert.NotEqual(t, "correct horse battery", u.PasswordHash, "password is stored hashed")
}

func TestRegister_Validation(t *testing.T) {
	m, _, cleanup := setupAuth(t)
	defer cleanup()
	ctx := context.Background()

	_, err := m.Register(ctx, "9starts-with-digit", "", "", "long enough pw")
	assert.ErrorIs(t, err, validate.ErrInvalidUsername)

	_, err = m.Register(ctx, "bob", "", "", "short")
	assert.ErrorIs(t, err, validate.ErrInvalidPassword)

	_, err = m.Register(ctx, "bob", "", "not-an-email", "long enough pw")
	assert.ErrorIs(t, err, validate.ErrInvalidEmail)

	// Email is optional
	_, err = m.Register(ctx, "bob", "Bob", "", "long enough pw")
	assert.NoError(t, err)
}

func TestRegister_Duplicate(t *testing.T) {
	m, _, cleanup := setupAuth(t)
	defer cleanup()
	ctx := context.Background()

	_, err := m.Register(ctx, "carol", "", "", "long enough pw")
	require.NoError(t, err)

	_, err = m.Register(ctx, "Carol", "", "", "another long pw")
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	m, _, cleanup := setupAuth(t)
	defer cleanup()
	ctx := context.Background()

	_, err := m.Register(ctx, "dave", "Dave", "", "long enough pw")
	require.NoError(t, err)

	u, err := m.Login(ctx, "dave", "long enough pw")
	require.NoError(t, err)
	assert.Equal(t, "dave", u.Username)

	// Wrong password and unknown user are indistinguishable
	_, err = m.Login(ctx, "dave", "wrong password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = m.Login(ctx, "nobody", "long enough pw")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRecordReview_Promotion(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		score     int
		delta     int
		wantLevel string
	}{
		{"basic stays below threshold", store.LevelBasic, 0, 95, store.LevelBasic},
		{"basic at exactly 100 stays", store.LevelBasic, 50, 50, store.LevelBasic},
		{"basic past 100 becomes medium", store.LevelBasic, 95, 10, store.LevelMedium},
		{"basic at exactly 200 becomes medium", store.LevelBasic, 150, 50, store.LevelMedium},
		{"medium past 200 becomes senior", store.LevelMedium, 150, 100, store.LevelSenior},
		{"basic past 200 jumps to senior", store.LevelBasic, 150, 100, store.LevelSenior},
		{"senior stays senior", store.LevelSenior, 300, 50, store.LevelSenior},
		{"medium below 200 stays medium", store.LevelMedium, 120, 30, store.LevelMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, s, cleanup := setupAuth(t)
			defer cleanup()
			ctx := context.Background()

			u, err := m.Register(ctx, "erin", "", "", "long enough pw")
			require.NoError(t, err)
			require.NoError(t, s.UpdateReviewStats(ctx, u.UID, 3, tt.score, tt.level))

			got, err := m.RecordReview(ctx, u.UID, tt.delta)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, 4, got.ReviewsDone)
			assert.Equal(t, tt.score+tt.delta, got.Score)

			// Persisted, not just returned
			stored, err := s.UserByUID(ctx, u.UID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, stored.Level)
		})
	}
}

func TestStreak(t *testing.T) {
	m, s, cleanup := setupAuth(t)
	defer cleanup()
	ctx := context.Background()

	u, err := m.Register(ctx, "frank", "", "", "long enough pw")
	require.NoError(t, err)

	day1 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	// First activity starts the streak
	days, err := m.Streak(ctx, u.UID, day1)
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	// Second review the same day changes nothing
	days, err = m.Streak(ctx, u.UID, day1.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	// Next day extends
	days, err = m.Streak(ctx, u.UID, day1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, days)

	days, err = m.Streak(ctx, u.UID, day1.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	// A gap resets to one
	days, err = m.Streak(ctx, u.UID, day1.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	stored, err := s.UserByUID(ctx, u.UID)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-27", stored.LastActivity)
	assert.Equal(t, 1, stored.ConsecutiveDays)
}

func TestUpdateProfile(t *testing.T) {
	m, s, cleanup := setupAuth(t)
	defer cleanup()
	ctx := context.Background()

	u, err := m.Register(ctx, "grace", "", "", "long enough pw")
	require.NoError(t, err)

	require.NoError(t, m.UpdateProfile(ctx, u.UID, "Grace H", "grace@example.com"))

	got, err := s.UserByUID(ctx, u.UID)
	require.NoError(t, err)
	assert.Equal(t, "Grace H", got.DisplayName)
	assert.Equal(t, "grace@example.com", got.Email)

	err = m.UpdateProfile(ctx, u.UID, "", "not-an-email")
	assert.ErrorIs(t, err, validate.ErrInvalidEmail)
}
