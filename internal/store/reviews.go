// reviews.go implements review submission storage for the SQLite store.
//
// Every graded submission is kept, one row per iteration, so a report can
// show progress across attempts and audits can reconstruct a session.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const reviewColumns = `id, exercise_key, iteration, review_text, analysis,
	identified, total, sufficient, created_at`

// scanReview extracts a Review from a database row.
func scanReview(sc scanner) (Review, error) {
	var r Review
	var sufficient int

	err := sc.Scan(&r.ID, &r.ExerciseKey, &r.Iteration, &r.Text, &r.Analysis,
		&r.Identified, &r.Total, &sufficient, &r.CreatedAt)
	if err != nil {
		return r, err
	}

	r.Sufficient = sufficient != 0
	return r, nil
}

// AddReview stores one graded submission. The CreatedAt field is assigned here.
func (s *SQLiteStore) AddReview(ctx context.Context, r Review) (*Review, error) {
	r.CreatedAt = time.Now().Unix()
	if r.Analysis == "" {
		r.Analysis = "{}"
	}

	sufficient := 0
	if r.Sufficient {
		sufficient = 1
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (exercise_key, iteration, review_text, analysis,
			identified, total, sufficient, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ExerciseKey, r.Iteration, r.Text, r.Analysis,
		r.Identified, r.Total, sufficient, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	r.ID, _ = result.LastInsertId()
	return &r, nil
}

// ReviewsFor returns all submissions for an exercise in iteration order.
func (s *SQLiteStore) ReviewsFor(ctx context.Context, exerciseKey string) ([]Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE exercise_key = ? ORDER BY iteration`
	rows, err := s.db.QueryContext(ctx, query, exerciseKey)
	if err != nil {
		return nil, fmt.Errorf("list reviews for %s: %w", exerciseKey, err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// LatestReviewFor returns the most recent submission for an exercise.
func (s *SQLiteStore) LatestReviewFor(ctx context.Context, exerciseKey string) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE exercise_key = ? ORDER BY iteration DESC LIMIT 1`
	r, err := scanReview(s.db.QueryRowContext(ctx, query, exerciseKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &r, nil
}
