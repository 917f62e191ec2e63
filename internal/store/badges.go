// badges.go implements badge catalog, award, and category mastery operations.
//
// The catalog is seeded by the schema and treated as read-only here. Awards
// are idempotent: granting a badge the user already holds is a no-op, which
// lets the badge engine re-check every rule after each review without
// tracking what it already awarded.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const badgeColumns = `badge_id, name, description, icon, category, difficulty, points`

// scanBadge extracts a Badge from a database row.
func scanBadge(sc scanner) (Badge, error) {
	var b Badge
	err := sc.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category, &b.Difficulty, &b.Points)
	return b, err
}

// Badges returns the full badge catalog in seed order.
func (s *SQLiteStore) Badges(ctx context.Context) ([]Badge, error) {
	query := `SELECT ` + badgeColumns + ` FROM badges ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var badges []Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// Badge retrieves one catalog entry by slug.
func (s *SQLiteStore) Badge(ctx context.Context, badgeID string) (*Badge, error) {
	query := `SELECT ` + badgeColumns + ` FROM badges WHERE badge_id = ?`
	b, err := scanBadge(s.db.QueryRowContext(ctx, query, badgeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan badge: %w", err)
	}
	return &b, nil
}

// AwardBadge grants a badge to a user. Returns true when the badge was newly
// awarded, false when the user already held it. The UNIQUE constraint on
// user_badges makes this race-safe.
func (s *SQLiteStore) AwardBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_badges (user_id, badge_id, awarded_at) VALUES (?, ?, ?)`,
		userID, badgeID, time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("award badge %s: %w", badgeID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("award badge %s: %w", badgeID, err)
	}
	return n > 0, nil
}

// HasBadge reports whether a user holds a badge.
func (s *SQLiteStore) HasBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM user_badges WHERE user_id = ? AND badge_id = ? LIMIT 1`,
		userID, badgeID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check badge %s: %w", badgeID, err)
	}
	return true, nil
}

// UserBadges returns a user's earned badges, most recent first.
func (s *SQLiteStore) UserBadges(ctx context.Context, userID string) ([]UserBadge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.badge_id, b.name, b.description, b.icon, b.category, b.difficulty, b.points, ub.awarded_at
		FROM user_badges ub
		INNER JOIN badges b ON b.badge_id = ub.badge_id
		WHERE ub.user_id = ?
		ORDER BY ub.awarded_at DESC, ub.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	defer rows.Close()

	var badges []UserBadge
	for rows.Next() {
		var ub UserBadge
		err := rows.Scan(&ub.ID, &ub.Name, &ub.Description, &ub.Icon, &ub.Category,
			&ub.Difficulty, &ub.Points, &ub.AwardedAt)
		if err != nil {
			return nil, fmt.Errorf("scan user badge: %w", err)
		}
		badges = append(badges, ub)
	}
	return badges, rows.Err()
}

// BumpCategoryStats adds encounter and identification counts for one taxonomy
// category and returns the updated row. Mastery is recomputed inside the
// upsert so the stored ratio always matches the counters.
func (s *SQLiteStore) BumpCategoryStats(ctx context.Context, userID, category string, encountered, identified int) (*CategoryStat, error) {
	now := time.Now().Unix()

	// Mastery for the insert branch; the update branch recomputes in SQL
	// because it needs the existing counters.
	mastery := 0.0
	if encountered > 0 {
		mastery = float64(identified) / float64(encountered)
	}

	var stat CategoryStat
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO error_category_stats (user_id, category, encountered, identified, mastery_level, last_updated)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id, category) DO UPDATE SET
				encountered = encountered + excluded.encountered,
				identified = identified + excluded.identified,
				mastery_level = CASE WHEN encountered + excluded.encountered > 0
					THEN CAST(identified + excluded.identified AS REAL) / (encountered + excluded.encountered)
					ELSE 0 END,
				last_updated = excluded.last_updated`,
			userID, category, encountered, identified, mastery, now)
		if err != nil {
			return fmt.Errorf("upsert category stats: %w", err)
		}

		return tx.QueryRowContext(ctx, `
			SELECT category, encountered, identified, mastery_level, last_updated
			FROM error_category_stats WHERE user_id = ? AND category = ?`,
			userID, category).Scan(&stat.Category, &stat.Encountered, &stat.Identified, &stat.Mastery, &stat.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// CategoryStats returns a user's per-category counters, highest mastery first.
func (s *SQLiteStore) CategoryStats(ctx context.Context, userID string) ([]CategoryStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, encountered, identified, mastery_level, last_updated
		FROM error_category_stats WHERE user_id = ?
		ORDER BY mastery_level DESC, category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list category stats: %w", err)
	}
	defer rows.Close()

	var stats []CategoryStat
	for rows.Next() {
		var c CategoryStat
		if err := rows.Scan(&c.Category, &c.Encountered, &c.Identified, &c.Mastery, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		stats = append(stats, c)
	}
	return stats, rows.Err()
}

// CategoriesIdentified counts the distinct categories in which the user has
// identified at least one error. Feeds the full-spectrum badge rule.
func (s *SQLiteStore) CategoriesIdentified(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT category) FROM error_category_stats
		WHERE user_id = ? AND identified > 0`, userID).Scan(&count)
	return count, err
}
