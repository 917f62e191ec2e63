// stats.go implements leaderboard, rank and aggregate statistics queries.
//
// Separated to collect "read-only, aggregate" operations distinct from CRUD.
// These queries power the leaderboard command, the db command, and vacuum
// planning without modifying data.

package store

import (
	"context"
)

// Leaderboard returns the top users by total points. Badge counts come from
// a correlated subquery so a user with zero badges still appears.
func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.uid, u.username, u.display_name, u.level, u.total_points,
			(SELECT COUNT(*) FROM user_badges ub WHERE ub.user_id = u.uid) AS badge_count
		FROM users u
		ORDER BY u.total_points DESC, u.created_at
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UID, &e.Username, &e.DisplayName, &e.Level, &e.TotalPoints, &e.BadgeCount); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UserRank returns one user's leaderboard position: the count of users with
// strictly more points, plus one. Ties share a position.
func (s *SQLiteStore) UserRank(ctx context.Context, userID string) (*Rank, error) {
	u, err := s.UserByUID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var r Rank
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) + 1 FROM users WHERE total_points > ?`, u.TotalPoints).Scan(&r.Position)
	if err != nil {
		return nil, err
	}
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&r.TotalUsers)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Stats returns aggregate database statistics. Provides operational visibility
// into store utilisation for the db command and vacuum planning.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats

	// Registered users
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&st.Users)
	if err != nil {
		return nil, err
	}

	// Active exercises (not soft-deleted)
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises WHERE deleted_at IS NULL`).Scan(&st.Exercises)
	if err != nil {
		return nil, err
	}

	// Completed exercises
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises WHERE status = ? AND deleted_at IS NULL`, StatusCompleted).Scan(&st.Completed)
	if err != nil {
		return nil, err
	}

	// Soft-deleted exercises pending vacuum
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises WHERE deleted_at IS NOT NULL`).Scan(&st.Deleted)
	if err != nil {
		return nil, err
	}

	// Review submissions
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&st.Reviews)
	if err != nil {
		return nil, err
	}

	// Badge awards
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_badges`).Scan(&st.BadgesAwarded)
	if err != nil {
		return nil, err
	}

	// Activity ledger rows
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_log`).Scan(&st.Activities)
	if err != nil {
		return nil, err
	}

	// Oldest and newest exercise timestamps
	err = s.db.QueryRowContext(ctx, `SELECT COALESCE(MIN(created_at), 0), COALESCE(MAX(created_at), 0) FROM exercises`).Scan(&st.OldestExercise, &st.NewestExercise)
	if err != nil {
		return nil, err
	}

	return &st, nil
}
