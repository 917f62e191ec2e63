package badge_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpl-au/revdrill/internal/badge"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEngine creates an Engine and a registered user over a temporary store.
func setupEngine(t *testing.T) (*badge.Engine, *store.SQLiteStore, *store.User, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "revdrill-badge-test-*")
	require.NoError(t, err)

	s, err := store.Open(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Init())

	u, err := s.CreateUser(context.Background(), store.User{
		Username:     "tester",
		DisplayName:  "Tester",
		PasswordHash: "x",
	})
	require.NoError(t, err)

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return badge.New(s), s, u, cleanup
}

// badgeIDs extracts the slugs from awarded badges for set assertions.
func badgeIDs(badges []store.Badge) []string {
	ids := make([]string, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestProcessReview_LedgerAndPoints(t *testing.T) {
	e, s, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	awarded, err := e.ProcessReview(ctx, badge.Outcome{
		UserID:      u.UID,
		ExerciseKey: "abcd1234",
		Perfect:     false,
		Points:      20,
		ReviewsDone: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, awarded, "one imperfect review earns nothing")

	got, err := s.UserByUID(ctx, u.UID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.TotalPoints)

	activities, err := s.Activities(ctx, u.UID, 0)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, store.ActivityReviewCompleted, activities[0].Type)
	assert.Equal(t, 20, activities[0].Points)
	assert.Contains(t, activities[0].Details, "abcd1234")
}

func TestProcessReview_PerfectOutcomeRow(t *testing.T) {
	e, s, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	_, err := e.ProcessReview(ctx, badge.Outcome{
		UserID:      u.UID,
		ExerciseKey: "abcd1234",
		Perfect:     true,
		Points:      40,
		ReviewsDone: 1,
	})
	require.NoError(t, err)

	activities, err := s.Activities(ctx, u.UID, 1)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, store.ActivityPerfectReview, activities[0].Type)
}

func TestProcessReview_ProgressionBadges(t *testing.T) {
	e, s, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	awarded, err := e.ProcessReview(ctx, badge.Outcome{UserID: u.UID, Points: 20, ReviewsDone: 4})
	require.NoError(t, err)
	assert.Empty(t, awarded)

	awarded, err = e.ProcessReview(ctx, badge.Outcome{UserID: u.UID, Points: 20, ReviewsDone: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"reviewer-novice"}, badgeIDs(awarded))

	// Already held: no re-award
	awarded, err = e.ProcessReview(ctx, badge.Outcome{UserID: u.UID, Points: 20, ReviewsDone: 6})
	require.NoError(t, err)
	assert.Empty(t, awarded)

	// Badge points and ledger row landed
	got, err := s.UserByUID(ctx, u.UID)
	require.NoError(t, err)
	assert.Equal(t, 70, got.TotalPoints, "three reviews at 20 plus the 10-point badge")

	count, err := s.CountActivities(ctx, u.UID, store.ActivityBadgeEarned)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A returning user past several milestones collects them all at once
	awarded, err = e.ProcessReview(ctx, badge.Outcome{UserID: u.UID, Points: 0, ReviewsDone: 60})
	require.NoError(t, err)
	assert.Equal(t, []string{"reviewer-adept", "reviewer-master"}, badgeIDs(awarded))
}

func TestProcessReview_CategoryMastery(t *testing.T) {
	e, _, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	logical := func(encountered, identified int) badge.Outcome {
		return badge.Outcome{
			UserID: u.UID,
			Categories: []badge.CategoryResult{
				{Category: "Logical", Encountered: encountered, Identified: identified},
			},
		}
	}

	// Perfect ratio but too few encounters
	awarded, err := e.ProcessReview(ctx, logical(4, 4))
	require.NoError(t, err)
	assert.Empty(t, awarded)

	awarded, err = e.ProcessReview(ctx, logical(4, 4))
	require.NoError(t, err)
	assert.Empty(t, awarded, "eight encounters is still below the mastery minimum")

	// Crosses ten encounters at mastery 11/12
	awarded, err = e.ProcessReview(ctx, logical(4, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"logic-guru"}, badgeIDs(awarded))
}

func TestProcessReview_MasteryRatioTooLow(t *testing.T) {
	e, _, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	// 12 encountered, 8 identified: 0.67 mastery never qualifies
	for i := 0; i < 3; i++ {
		awarded, err := e.ProcessReview(ctx, badge.Outcome{
			UserID: u.UID,
			Categories: []badge.CategoryResult{
				{Category: "Syntax", Encountered: 4, Identified: 2},
			},
		})
		require.NoError(t, err)
		assert.Empty(t, awarded)
	}
}

func TestProcessReview_BugHunter(t *testing.T) {
	e, _, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	var lastAwarded []store.Badge
	for i := 1; i <= 5; i++ {
		awarded, err := e.ProcessReview(ctx, badge.Outcome{
			UserID:      u.UID,
			Perfect:     true,
			ReviewsDone: i,
		})
		require.NoError(t, err)
		if i < 5 {
			assert.NotContains(t, badgeIDs(awarded), "bug-hunter", "review %d", i)
		}
		lastAwarded = awarded
	}

	// The fifth perfect review triggers it, alongside the 5-review milestone
	assert.Contains(t, badgeIDs(lastAwarded), "bug-hunter")
	assert.Contains(t, badgeIDs(lastAwarded), "reviewer-novice")
}

func TestProcessReview_Perfectionist(t *testing.T) {
	e, _, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	submit := func(perfect bool, n int) []store.Badge {
		awarded, err := e.ProcessReview(ctx, badge.Outcome{
			UserID:      u.UID,
			Perfect:     perfect,
			ReviewsDone: n,
		})
		require.NoError(t, err)
		return awarded
	}

	// An imperfect review in the window blocks the streak
	submit(true, 1)
	submit(false, 2)
	submit(true, 3)
	awarded := submit(true, 4)
	assert.NotContains(t, badgeIDs(awarded), "perfectionist")

	// Third consecutive perfect completes the streak
	awarded = submit(true, 5)
	assert.Contains(t, badgeIDs(awarded), "perfectionist")
}

func TestProcessReview_FullSpectrum(t *testing.T) {
	e, _, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	awarded, err := e.ProcessReview(ctx, badge.Outcome{
		UserID: u.UID,
		Categories: []badge.CategoryResult{
			{Category: "Logical", Encountered: 1, Identified: 1},
			{Category: "Syntax", Encountered: 1, Identified: 1},
			{Category: "Code Quality", Encountered: 1, Identified: 1},
			{Category: "Standard Violation", Encountered: 1, Identified: 1},
			{Category: "Java Specific", Encountered: 1, Identified: 0},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, awarded, "one category still has no identifications")

	awarded, err = e.ProcessReview(ctx, badge.Outcome{
		UserID: u.UID,
		Categories: []badge.CategoryResult{
			{Category: "Java Specific", Encountered: 1, Identified: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"full-spectrum"}, badgeIDs(awarded))
}

func TestProcessReview_ConsistencyChamp(t *testing.T) {
	e, _, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	awarded, err := e.ProcessReview(ctx, badge.Outcome{UserID: u.UID, ConsecutiveDays: 4})
	require.NoError(t, err)
	assert.Empty(t, awarded)

	awarded, err = e.ProcessReview(ctx, badge.Outcome{UserID: u.UID, ConsecutiveDays: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"consistency-champ"}, badgeIDs(awarded))
}

func TestProcessReview_RisingStar(t *testing.T) {
	e, s, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.AddPoints(ctx, u.UID, 480)
	require.NoError(t, err)

	awarded, err := e.ProcessReview(ctx, badge.Outcome{UserID: u.UID, Points: 30, ReviewsDone: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"rising-star"}, badgeIDs(awarded))

	got, err := s.UserByUID(ctx, u.UID)
	require.NoError(t, err)
	assert.Equal(t, 610, got.TotalPoints, "480 + 30 review + 100 badge")
}

func TestProcessReview_RisingStarExpired(t *testing.T) {
	e, s, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	// Backdate the account past the one-week window
	eightDaysAgo := time.Now().AddDate(0, 0, -8).Unix()
	_, err := s.DB().ExecContext(ctx, `UPDATE users SET created_at = ? WHERE uid = ?`, eightDaysAgo, u.UID)
	require.NoError(t, err)

	_, err = s.AddPoints(ctx, u.UID, 480)
	require.NoError(t, err)

	awarded, err := e.ProcessReview(ctx, badge.Outcome{UserID: u.UID, Points: 30, ReviewsDone: 1})
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestProcessReview_BadgePointsCanTriggerRisingStar(t *testing.T) {
	e, s, u, cleanup := setupEngine(t)
	defer cleanup()
	ctx := context.Background()

	// 470 + 20 review = 490: below threshold until the 10-point badge lands
	_, err := s.AddPoints(ctx, u.UID, 470)
	require.NoError(t, err)

	awarded, err := e.ProcessReview(ctx, badge.Outcome{UserID: u.UID, Points: 20, ReviewsDone: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"reviewer-novice", "rising-star"}, badgeIDs(awarded))
}
