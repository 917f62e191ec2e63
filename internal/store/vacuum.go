// vacuum.go implements permanent deletion of soft-deleted data.
//
// Separated because vacuum is a destructive, irreversible operation with
// different semantics than soft-delete. Vacuum should be called deliberately,
// not as part of normal operations.
//
// Design: Abandoning an exercise soft-deletes it; vacuum removes that safety
// net. The olderThan parameter allows keeping recent abandonments inspectable
// while cleaning up old trash. Reviews belonging to purged exercises go with
// them so no orphaned submissions remain.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Vacuum permanently removes soft-deleted exercises and their reviews.
// If olderThan is non-nil, only exercises abandoned before that duration ago
// are purged. Returns the total number of rows deleted across both tables.
func (s *SQLiteStore) Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error) {
	var totalDeleted int64

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var cutoff int64
		if olderThan != nil {
			cutoff = time.Now().Add(-*olderThan).Unix()
		}

		// Reviews first, while the exercise rows still identify the keys.
		reviewQuery := `DELETE FROM reviews WHERE exercise_key IN
			(SELECT key FROM exercises WHERE deleted_at IS NOT NULL`
		var args []any
		if olderThan != nil {
			reviewQuery += ` AND deleted_at < ?`
			args = append(args, cutoff)
		}
		reviewQuery += `)`

		result, err := tx.ExecContext(ctx, reviewQuery, args...)
		if err != nil {
			return fmt.Errorf("vacuum reviews: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil {
			totalDeleted += n
		}

		// Then the exercises themselves.
		exerciseQuery := `DELETE FROM exercises WHERE deleted_at IS NOT NULL`
		var exerciseArgs []any
		if olderThan != nil {
			exerciseQuery += ` AND deleted_at < ?`
			exerciseArgs = append(exerciseArgs, cutoff)
		}

		result, err = tx.ExecContext(ctx, exerciseQuery, exerciseArgs...)
		if err != nil {
			return fmt.Errorf("vacuum exercises: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil {
			totalDeleted += n
		}

		// Clean up reviews orphaned by any earlier manual deletion.
		result, err = tx.ExecContext(ctx, `DELETE FROM reviews WHERE exercise_key NOT IN (SELECT key FROM exercises)`)
		if err != nil {
			return fmt.Errorf("vacuum orphan reviews: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil {
			totalDeleted += n
		}

		return nil
	})

	if err != nil {
		return 0, err
	}
	return totalDeleted, nil
}
