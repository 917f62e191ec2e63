// Package trainer provides higher-level training operations backed by a
// Store implementation. It exposes a `Service` which wraps a `store.Store`
// together with the loaded taxonomy, the LLM-backed exercise engine and the
// progression rules, and implements the service.Service interface the CLI
// commands and the MCP server consume.
package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/auth"
	"github.com/jpl-au/revdrill/internal/badge"
	"github.com/jpl-au/revdrill/internal/config"
	"github.com/jpl-au/revdrill/internal/exercise"
	"github.com/jpl-au/revdrill/internal/llm"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/repo"
	"github.com/jpl-au/revdrill/internal/review"
	"github.com/jpl-au/revdrill/internal/service"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/jpl-au/revdrill/internal/taxonomy"
)

// Points granted per correctly identified error when a review finishes.
const PointsPerError = 10

var (
	// ErrNotLoggedIn is returned when an operation needs an account and
	// config user.name is empty.
	ErrNotLoggedIn = errors.New("not logged in (run 'revdrill login' or 'revdrill register')")

	// ErrNotFinished is returned by Report and Solution for exercises whose
	// review loop is still running.
	ErrNotFinished = errors.New("exercise not finished (submit a review or abandon it first)")

	// ErrAlreadyFinished is returned when submitting to or abandoning a
	// completed exercise.
	ErrAlreadyFinished = errors.New("exercise already completed")

	// ErrNotOwner is returned when mutating an exercise that belongs to a
	// different account.
	ErrNotOwner = errors.New("exercise belongs to another user")

	// ErrEmptyReview is returned for a blank review submission.
	ErrEmptyReview = errors.New("review text is empty")
)

// Service provides higher-level training operations backed by a Store.
type Service struct {
	store   *store.SQLiteStore
	dbPath  string
	cfg     *config.Config
	catalog *taxonomy.Catalog
	auth    *auth.Manager
	badges  *badge.Engine

	// Built on first LLM use so store-only commands work without an API key.
	eng    *exercise.Engine
	grader *review.Grader

	extCtx extension.Context // for firing events to extensions
}

var _ service.Service = (*Service)(nil)

// New creates a new Service, discovering the DB by walking up the directory
// tree. The db parameter specifies which database to use (empty for default).
// Returns ErrNotInitialised if no matching database is found.
func New(db string) (*Service, error) {
	dbPath, err := repo.Discover(db)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		_ = s.Close()
		return nil, err // config.Load provides detailed, actionable error messages
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	return &Service{
		store:   s,
		dbPath:  dbPath,
		cfg:     cfg,
		catalog: catalog,
		auth:    auth.New(s),
		badges:  badge.New(s),
	}, nil
}

// Init initialises a new revdrill store.
// If dir is empty, uses current directory; otherwise uses dir.
// The db parameter specifies which database to create (empty for default).
// If local is true, the database is added to .gitignore (not committed).
//
// Note: Init does not write config. Config is managed separately via
// "revdrill config".
func Init(force bool, db string, local bool, dir string) error {
	return repo.Init(force, db, local, dir)
}

// loadCatalog parses the configured external taxonomy file, or falls back to
// the embedded catalog.
func loadCatalog(cfg *config.Config) (*taxonomy.Catalog, error) {
	if f := cfg.TaxonomyFile(); f != "" {
		return taxonomy.LoadFile(f)
	}
	return taxonomy.Default()
}

// initLLM builds the exercise engine and grader from the configured provider.
// Idempotent after the first success. Kept out of New so commands that never
// touch a model (status, leaderboard, taxonomy) work without an API key.
func (s *Service) initLLM() error {
	if s.eng != nil {
		return nil
	}

	generative, err := llm.ForRole(s.cfg, llm.RoleGenerative)
	if err != nil {
		return err
	}
	reviewer, err := llm.ForRole(s.cfg, llm.RoleReview)
	if err != nil {
		return err
	}
	summary, err := llm.ForRole(s.cfg, llm.RoleSummary)
	if err != nil {
		return err
	}
	comparison, err := llm.ForRole(s.cfg, llm.RoleComparison)
	if err != nil {
		return err
	}

	s.grader = review.New(reviewer, summary, comparison)
	s.eng = exercise.New(s.catalog, generative, reviewer, s.grader, exercise.Options{
		MaxAttempts: s.cfg.MaxAttempts(),
	})
	return nil
}

// Close checkpoints the WAL and closes the database connection.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").
			Detail("error", err.Error()).
			Write(err)
	}
	return s.store.Close()
}

// ReloadConfig reloads configuration from disk, reloads the taxonomy, and
// drops the cached LLM clients so the next call picks up new settings.
// Call this after modifying config to ensure the service uses them.
func (s *Service) ReloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.catalog = catalog
	s.eng = nil
	s.grader = nil
	return nil
}

// SetExtensionContext sets the extension context for firing events.
// Called from cmd/root.go after creating the context.
func (s *Service) SetExtensionContext(ctx extension.Context) {
	s.extCtx = ctx
}

// Catalog returns the loaded error taxonomy.
func (s *Service) Catalog() *taxonomy.Catalog {
	return s.catalog
}

// fireEvent notifies all registered extension event handlers.
//
// Design: Event handler errors are logged but not propagated. This is intentional:
// events are notifications, not veto points. Extensions observe operations but
// cannot block them. If critical operations need extension approval, use a
// different mechanism (e.g., pre-operation hooks that can return errors).
//
// Thread-safe: extension.All() returns a snapshot copy under read lock,
// and extensions are only registered during init() (never removed).
func (s *Service) fireEvent(e extension.Event) {
	if s.extCtx == nil {
		return
	}
	for _, ext := range extension.All() {
		if h, ok := ext.(extension.EventHandler); ok {
			if err := h.HandleEvent(s.extCtx, e); err != nil {
				log.Event("event:error", "error").
					Detail("ext", ext.Name()).
					Detail("event", string(e.EventType())).
					Write(err)
			}
		}
	}
}

// DB returns the underlying database connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// DBPath returns the path to the database file.
func (s *Service) DBPath() string {
	return s.dbPath
}

// Checkpoint flushes the WAL to the main database file.
func (s *Service) Checkpoint(ctx context.Context) error {
	return s.store.Checkpoint(ctx)
}

// Vacuum permanently removes soft-deleted exercises and their reviews.
func (s *Service) Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error) {
	return s.store.Vacuum(ctx, olderThan)
}

// Stats returns aggregate database statistics.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.Stats(ctx)
}

// Tx runs a function within a database transaction.
//
// The defer Rollback pattern: We always defer Rollback(), then call Commit()
// at the end. This is safe because Rollback() on a committed transaction is
// a no-op. The pattern guarantees cleanup in all cases:
// - fn() returns error → Rollback() runs, undoing partial changes
// - fn() panics → Rollback() runs via defer
// - Commit() fails → Rollback() runs (already committed portions are safe)
// - Commit() succeeds → Rollback() is a no-op
//
// Why expose raw *sql.Tx: Extensions may need complex operations not covered
// by the Service API. Raw transactions let them do multi-step atomic operations
// while still benefiting from the service's connection management.
func (s *Service) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction rolled back: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
