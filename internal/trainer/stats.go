package trainer

import (
	"context"

	"github.com/jpl-au/revdrill/internal/store"
)

// Leaderboard returns the top users by total points. A non-positive limit
// falls back to the configured size.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = s.cfg.LeaderboardSize()
	}
	return s.store.Leaderboard(ctx, limit)
}

// UserRank returns one user's leaderboard position and totals.
func (s *Service) UserRank(ctx context.Context, uid string) (*store.Rank, error) {
	return s.store.UserRank(ctx, uid)
}

// AllBadges returns the badge catalog.
func (s *Service) AllBadges(ctx context.Context) ([]store.Badge, error) {
	return s.store.Badges(ctx)
}

// UserBadges returns the badges a user has earned, newest first.
func (s *Service) UserBadges(ctx context.Context, uid string) ([]store.UserBadge, error) {
	return s.store.UserBadges(ctx, uid)
}

// CategoryStats returns a user's per-category mastery counters.
func (s *Service) CategoryStats(ctx context.Context, uid string) ([]store.CategoryStat, error) {
	return s.store.CategoryStats(ctx, uid)
}

// Activities returns a user's point ledger, newest first.
func (s *Service) Activities(ctx context.Context, uid string, limit int) ([]store.Activity, error) {
	return s.store.Activities(ctx, uid, limit)
}
