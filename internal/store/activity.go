// activity.go implements the append-only activity ledger.
//
// Design: Rows are never updated or deleted. Badge rules read recent rows
// (perfectionist looks at the last three review outcomes, bug-hunter counts
// perfect reviews), so the ledger doubles as the authoritative event history
// shown by `stats activity`.

package store

import (
	"context"
	"fmt"
	"time"
)

// LogActivity appends one ledger row.
func (s *SQLiteStore) LogActivity(ctx context.Context, userID, activityType string, points int, details string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_log (user_id, activity_type, points, details, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		userID, activityType, points, details, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}

// Activities returns a user's recent ledger rows, newest first.
func (s *SQLiteStore) Activities(ctx context.Context, userID string, limit int) ([]Activity, error) {
	query := `SELECT id, user_id, activity_type, points, details, created_at
		FROM activity_log WHERE user_id = ? ORDER BY id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Points, &a.Details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// CountActivities counts a user's ledger rows of one type.
func (s *SQLiteStore) CountActivities(ctx context.Context, userID, activityType string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM activity_log WHERE user_id = ? AND activity_type = ?`,
		userID, activityType).Scan(&count)
	return count, err
}

// LastReviewOutcomes returns the types of the user's n most recent review
// outcome rows, newest first. Only review_completed and perfect_review rows
// count; badge awards interleaved in the ledger are skipped.
func (s *SQLiteStore) LastReviewOutcomes(ctx context.Context, userID string, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT activity_type FROM activity_log
		WHERE user_id = ? AND activity_type IN (?, ?)
		ORDER BY id DESC LIMIT ?`,
		userID, ActivityReviewCompleted, ActivityPerfectReview, n)
	if err != nil {
		return nil, fmt.Errorf("list review outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan review outcome: %w", err)
		}
		outcomes = append(outcomes, t)
	}
	return outcomes, rows.Err()
}
