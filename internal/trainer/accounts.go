package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/store"
)

// Register creates a new account and fires a user:register event.
// The username is lowercased; validation rules live in internal/validate.
func (s *Service) Register(ctx context.Context, username, displayName, email, password string) (*store.User, error) {
	u, err := s.auth.Register(ctx, username, displayName, email, password)
	if err != nil {
		return nil, err
	}

	s.fireEvent(extension.UserRegisteredEvent{
		UID:      u.UID,
		Username: u.Username,
	})
	return u, nil
}

// Login verifies credentials and returns the account on success.
// It does not persist the session; the login command writes
// user.name to config, which CurrentUser reads back.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, error) {
	return s.auth.Login(ctx, username, password)
}

// Profile returns the account for the given username.
func (s *Service) Profile(ctx context.Context, username string) (*store.User, error) {
	return s.auth.Profile(ctx, username)
}

// UpdateProfile changes the display name and email of an account and
// returns the updated record. Empty fields are left unchanged.
func (s *Service) UpdateProfile(ctx context.Context, uid, displayName, email string) (*store.User, error) {
	if err := s.auth.UpdateProfile(ctx, uid, displayName, email); err != nil {
		return nil, err
	}
	return s.store.UserByUID(ctx, uid)
}

// CurrentUser resolves the logged-in account from config user.name.
// Returns ErrNotLoggedIn when no username is configured.
func (s *Service) CurrentUser(ctx context.Context) (*store.User, error) {
	name := s.cfg.Username()
	if name == "" {
		return nil, ErrNotLoggedIn
	}

	u, err := s.store.UserByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		// Config points at an account this database doesn't have, e.g. after
		// switching projects. Keep ErrNotFound matchable for callers.
		return nil, fmt.Errorf("configured user %q not found in this database (re-run 'revdrill login'): %w", name, err)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Users lists all accounts, oldest registration first.
func (s *Service) Users(ctx context.Context) ([]store.User, error) {
	return s.store.ListUsers(ctx)
}
