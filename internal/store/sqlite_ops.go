// sqlite_ops.go provides SQLite connection management and low-level operations.
//
// Separated to isolate SQLite-specific concerns (pragmas, connection pooling,
// driver registration) from business logic. This is the only file that imports
// the SQLite driver, making it easier to swap implementations if needed.
//
// Design: WAL mode with busy timeout balances concurrency and durability.
// WAL allows concurrent readers during writes (critical for MCP scenarios).
// The 5-second busy timeout prevents "database is locked" errors without
// waiting forever on stuck connections.

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"fmt"
	"strings"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite with WAL mode for concurrent access.
// It persists users, exercises, reviews, badges and the activity ledger.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time interface compliance check. This ensures SQLiteStore implements
// the full Store interface. If a method is missing or has the wrong signature,
// the build fails immediately with a clear error, rather than failing at runtime
// when the method is called. This is especially valuable when interfaces change.
var _ Store = (*SQLiteStore)(nil)

// Open opens the SQLite database file at `path` and returns a configured
// SQLiteStore. The caller should call Close on the returned store.
//
// The pragma configuration balances durability, performance, and concurrency
// for revdrill's usage pattern (bursts of small writes when a review is
// graded, read-heavy MCP sessions while an exercise is open).
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// WAL mode: Allows concurrent readers while writing. Without this, readers
	// block writers and vice versa. Critical for MCP server scenarios where
	// an LLM might read the taxonomy while a review is being graded. Trade-off:
	// Creates -wal and -shm files alongside the database.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Busy timeout: How long to wait when another connection holds a lock.
	// 5 seconds is generous - most operations complete in milliseconds. This
	// prevents "database is locked" errors during concurrent access without
	// waiting forever on a stuck connection.
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Synchronous NORMAL: With WAL mode, NORMAL is safe against corruption
	// (WAL provides the durability guarantee). FULL would fsync on every
	// commit, which is ~10x slower. The only risk with NORMAL is losing the
	// last transaction on OS crash - acceptable for a trainer where the
	// user can resubmit the review.
	if _, err := db.Exec(`PRAGMA synchronous=NORMAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting synchronous mode: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Init creates tables and indexes if they don't exist and seeds the badge
// catalog. Safe to call multiple times; the schema files use IF NOT EXISTS
// and INSERT OR IGNORE to stay idempotent.
func (s *SQLiteStore) Init() error {
	return execSchema(s.db)
}

// Close releases the database connection. Call before program exit to ensure
// all pending writes are flushed.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for extensions that need custom tables.
// Extensions should not modify core tables directly.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// scanner abstracts sql.Row and sql.Rows, enabling a single scan function
// to handle both single-row and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// Tx executes fn within a database transaction, handling Begin/Commit/Rollback
// automatically. This eliminates a class of bugs where callers forget to commit,
// forget to rollback on error, or fail to check commit errors.
//
// The transaction lifecycle:
//  1. BeginTx is called to start the transaction with context
//  2. fn executes with the transaction
//  3. If fn returns an error, the transaction is rolled back
//  4. If fn succeeds, the transaction is committed
//  5. Rollback is deferred to handle panics and early returns
//
// Context cancellation will abort the transaction at the next database call.
//
// Callers focus on business logic; Tx handles the ceremony:
//
//	err := s.Tx(ctx, func(tx *sql.Tx) error {
//	    if _, err := tx.ExecContext(ctx, `UPDATE ...`); err != nil {
//	        return err  // triggers rollback
//	    }
//	    return nil  // triggers commit
//	})
//
// For functions that need to return values, use a closure variable:
//
//	var count int64
//	err := s.Tx(ctx, func(tx *sql.Tx) error {
//	    result, err := tx.ExecContext(ctx, `DELETE ...`)
//	    if err != nil {
//	        return err
//	    }
//	    count, _ = result.RowsAffected()
//	    return nil
//	})
//	return count, err
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// genID creates a unique 8-character identifier using crypto/rand for security.
// Used for exercise keys to enable short, typeable lookups.
func genID() (string, error) {
	b := make([]byte, 5) // 5 bytes = 8 base32 chars
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b)), nil
}
