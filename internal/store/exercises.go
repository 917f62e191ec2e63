// exercises.go implements exercise lifecycle operations for the SQLite store.
//
// Design: An exercise moves awaiting_review -> in_review -> completed, or is
// abandoned at any point. Abandoning soft-deletes the row (status abandoned,
// deleted_at stamped) so it stays inspectable until vacuum purges it. The
// 8-char key is the only identifier users ever see.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const exerciseColumns = `id, key, user_id, difficulty, length, domain, annotated_code,
	clean_code, errors, status, attempts, iteration, created_at, completed_at, deleted_at`

// scanExercise extracts an Exercise from a database row, handling nullable fields.
func scanExercise(sc scanner) (Exercise, error) {
	var e Exercise
	var completed, deleted sql.NullInt64

	err := sc.Scan(&e.ID, &e.Key, &e.UserID, &e.Difficulty, &e.Length, &e.Domain, &e.Annotated,
		&e.Clean, &e.Errors, &e.Status, &e.Attempts, &e.Iteration, &e.CreatedAt, &completed, &deleted)
	if err != nil {
		return e, err
	}

	if completed.Valid {
		e.CompletedAt = &completed.Int64
	}
	if deleted.Valid {
		e.DeletedAt = &deleted.Int64
	}
	return e, nil
}

// scanExerciseRow converts sql.ErrNoRows to ErrNotFound for consistent error handling.
func (s *SQLiteStore) scanExerciseRow(row *sql.Row) (*Exercise, error) {
	e, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan exercise: %w", err)
	}
	return &e, nil
}

// scanExercises iterates over query results, collecting exercises into a slice.
func (s *SQLiteStore) scanExercises(rows *sql.Rows) ([]Exercise, error) {
	var exercises []Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// CreateExercise stores a freshly generated exercise. The Key, Status and
// CreatedAt fields are assigned here; Attempts defaults to 1 when unset.
func (s *SQLiteStore) CreateExercise(ctx context.Context, e Exercise) (*Exercise, error) {
	key, err := genID()
	if err != nil {
		return nil, err
	}
	e.Key = key
	e.Status = StatusAwaitingReview
	e.Iteration = 0
	if e.Attempts < 1 {
		e.Attempts = 1
	}
	e.CreatedAt = time.Now().Unix()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO exercises (key, user_id, difficulty, length, domain, annotated_code,
			clean_code, errors, status, attempts, iteration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Key, e.UserID, e.Difficulty, e.Length, e.Domain, e.Annotated,
		e.Clean, e.Errors, e.Status, e.Attempts, e.Iteration, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}
	e.ID, _ = result.LastInsertId()
	return &e, nil
}

// ExerciseByKey retrieves an exercise by its unique 8-char key.
func (s *SQLiteStore) ExerciseByKey(ctx context.Context, key string, includeDeleted bool) (*Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE key = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	return s.scanExerciseRow(s.db.QueryRowContext(ctx, query, key))
}

// LatestExercise returns the user's most recent active exercise. Completed
// exercises still count as "latest" so a report can be requested right after
// finishing; abandoned ones do not.
func (s *SQLiteStore) LatestExercise(ctx context.Context, userID string) (*Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC LIMIT 1`
	return s.scanExerciseRow(s.db.QueryRowContext(ctx, query, userID))
}

// ListExercises returns exercises matching the filter, newest first.
func (s *SQLiteStore) ListExercises(ctx context.Context, f ExerciseFilter) ([]Exercise, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + exerciseColumns + ` FROM exercises`)

	var args []any
	var conditions []string

	if f.UserID != "" {
		conditions = append(conditions, `user_id = ?`)
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		conditions = append(conditions, `status = ?`)
		args = append(args, f.Status)
	}
	if !f.IncludeDeleted {
		conditions = append(conditions, `deleted_at IS NULL`)
	}

	if len(conditions) > 0 {
		b.WriteString(` WHERE `)
		b.WriteString(strings.Join(conditions, ` AND `))
	}
	b.WriteString(` ORDER BY created_at DESC, id DESC`)
	if f.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	return s.scanExercises(rows)
}

// ReplaceExerciseCode swaps in regenerated code and the revised error plan,
// recording the new generation attempt count. Regeneration resets the
// exercise to awaiting_review because any prior reviews targeted old code.
func (s *SQLiteStore) ReplaceExerciseCode(ctx context.Context, key, annotated, clean, errorsJSON string, attempts int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE exercises SET annotated_code = ?, clean_code = ?, errors = ?, attempts = ?,
			status = ?
		WHERE key = ? AND deleted_at IS NULL`,
		annotated, clean, errorsJSON, attempts, StatusAwaitingReview, key)
	if err != nil {
		return fmt.Errorf("replace exercise code: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace exercise code: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetExerciseStatus moves an exercise through its lifecycle. Completing
// stamps completed_at; other transitions leave it untouched.
func (s *SQLiteStore) SetExerciseStatus(ctx context.Context, key, status string) error {
	query := `UPDATE exercises SET status = ? WHERE key = ? AND deleted_at IS NULL`
	args := []any{status, key}
	if status == StatusCompleted {
		query = `UPDATE exercises SET status = ?, completed_at = ? WHERE key = ? AND deleted_at IS NULL`
		args = []any{status, time.Now().Unix(), key}
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set exercise status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set exercise status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// BumpIteration increments the review iteration counter, marks the exercise
// in_review, and returns the new iteration number. Runs in a transaction so
// concurrent submissions cannot claim the same iteration.
func (s *SQLiteStore) BumpIteration(ctx context.Context, key string) (int, error) {
	var iteration int
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE exercises SET iteration = iteration + 1, status = ?
			WHERE key = ? AND deleted_at IS NULL`,
			StatusInReview, key)
		if err != nil {
			return fmt.Errorf("bump iteration: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("bump iteration: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.QueryRowContext(ctx, `SELECT iteration FROM exercises WHERE key = ?`, key).Scan(&iteration)
	})
	return iteration, err
}

// DeleteExercise abandons an exercise: status becomes abandoned and the row
// is soft deleted pending vacuum.
func (s *SQLiteStore) DeleteExercise(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE exercises SET status = ?, deleted_at = ?
		WHERE key = ? AND deleted_at IS NULL`,
		StatusAbandoned, time.Now().Unix(), key)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
