// users.go implements user account operations for the SQLite store.
//
// Separated from other operations because accounts have their own lifecycle:
// they are created once, mutated by progression updates, and never deleted.
//
// Design: Usernames are normalised to lowercase on create and lookup so
// logins are case-insensitive. The UID is a UUID assigned at registration
// and used as the foreign key everywhere else; renaming the display name
// never touches other tables.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const userColumns = `uid, username, display_name, email, password_hash, level,
	reviews_completed, score, total_points, consecutive_days, last_activity, created_at`

// scanUser extracts a User from a database row, handling nullable fields.
func scanUser(sc scanner) (User, error) {
	var u User
	var last sql.NullString

	err := sc.Scan(&u.UID, &u.Username, &u.DisplayName, &u.Email, &u.PasswordHash, &u.Level,
		&u.ReviewsDone, &u.Score, &u.TotalPoints, &u.ConsecutiveDays, &last, &u.CreatedAt)
	if err != nil {
		return u, err
	}

	if last.Valid {
		u.LastActivity = last.String
	}
	return u, nil
}

// scanUserRow converts sql.ErrNoRows to ErrNotFound for consistent error handling.
func (s *SQLiteStore) scanUserRow(row *sql.Row) (*User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// CreateUser registers a new account. The UID, Level (when empty) and
// CreatedAt fields are assigned here; the caller supplies the bcrypt hash.
// Returns ErrAlreadyExists when the username is taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, u User) (*User, error) {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.UID = uuid.NewString()
	if u.Level == "" {
		u.Level = LevelBasic
	}
	u.CreatedAt = time.Now().Unix()

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var n int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ? LIMIT 1`, u.Username).Scan(&n)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check username %s: %w", u.Username, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (uid, username, display_name, email, password_hash, level,
				reviews_completed, score, total_points, consecutive_days, last_activity, created_at)
			VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, 0, NULL, ?)`,
			u.UID, u.Username, u.DisplayName, u.Email, u.PasswordHash, u.Level, u.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.Username, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.ReviewsDone = 0
	u.Score = 0
	u.TotalPoints = 0
	u.ConsecutiveDays = 0
	u.LastActivity = ""
	return &u, nil
}

// UserByName retrieves a user by login name, case-insensitively.
func (s *SQLiteStore) UserByName(ctx context.Context, username string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return s.scanUserRow(s.db.QueryRowContext(ctx, query, username))
}

// UserByUID retrieves a user by their stable UUID.
func (s *SQLiteStore) UserByUID(ctx context.Context, uid string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = ?`
	return s.scanUserRow(s.db.QueryRowContext(ctx, query, uid))
}

// ListUsers returns all users ordered by registration time.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, username`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile changes the mutable profile fields. Empty strings leave the
// current value in place, so callers can update one field without reading
// the other first.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, uid, displayName, email string) error {
	var sets []string
	var args []any

	if displayName != "" {
		sets = append(sets, `display_name = ?`)
		args = append(args, displayName)
	}
	if email != "" {
		sets = append(sets, `email = ?`)
		args = append(args, email)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, uid)

	result, err := s.db.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, `, `)+` WHERE uid = ?`, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateReviewStats persists the progression counters after a completed
// review. The caller computes the new values, including any level promotion.
func (s *SQLiteStore) UpdateReviewStats(ctx context.Context, uid string, reviewsDone, score int, level string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET reviews_completed = ?, score = ?, level = ? WHERE uid = ?`,
		reviewsDone, score, level, uid)
	if err != nil {
		return fmt.Errorf("update review stats: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update review stats: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddPoints adds badge currency to a user and returns the new total.
// Runs in a transaction so the returned total reflects this update alone.
func (s *SQLiteStore) AddPoints(ctx context.Context, uid string, points int) (int, error) {
	var total int
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `UPDATE users SET total_points = total_points + ? WHERE uid = ?`, points, uid)
		if err != nil {
			return fmt.Errorf("add points: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("add points: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.QueryRowContext(ctx, `SELECT total_points FROM users WHERE uid = ?`, uid).Scan(&total)
	})
	return total, err
}

// UpdateStreak records the daily streak state after an activity.
func (s *SQLiteStore) UpdateStreak(ctx context.Context, uid, lastActivity string, consecutiveDays int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_activity = ?, consecutive_days = ? WHERE uid = ?`,
		lastActivity, consecutiveDays, uid)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
