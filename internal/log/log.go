// Package log provides centralised audit logging for revdrill operations.
// Logs are stored in ~/.revdrill/log/revdrill-log.db and track all CLI
// commands and MCP tool invocations across projects.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("exercise:generate", "generate").
//		User(cmd.User()).
//		Exercise(key).
//		Detail("difficulty", difficulty).
//		Write(err)
//
//	log.Event("taxonomy:search", "search").
//		User(cmd.User()).
//		Detail("term", term).
//		Detail("count", len(matches)).
//		Write(err)
//
// The source parameter follows the format "{extension}:{command}" for CLI
// commands or "mcp:{tool}" for MCP tools. Examples: "exercise:review",
// "stats:leaderboard", "mcp:taxonomy_search".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source    string // e.g., "exercise:generate", "mcp:taxonomy_show"
	User      string // who performed the action
	Action    string // verb: generate, review, login, read, etc.
	Exercise  string // input: exercise key the operation targets
	Iteration int    // input: review iteration within the exercise

	// Output fields - populated after operation succeeds
	Points int // output: points awarded by the operation

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated:
//   - CLI commands: "{extension}:{command}" (e.g., "exercise:review", "user:login")
//   - MCP tools: "mcp:{tool}" (e.g., "mcp:taxonomy_search", "mcp:leaderboard_get")
//
// The action describes what operation was performed:
//   - "generate", "review", "read", "list", "search", "login", "award", etc.
//
// Example:
//
//	log.Event("exercise:review", "review").
//		User(cmd.User()).
//		Exercise(key).
//		Write(err)
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// User sets who performed the operation.
//
// For CLI commands, use cmd.User() which returns the logged-in username.
// For MCP tools, use "mcp" as the user.
//
// Example:
//
//	log.Event("exercise:status", "read").User(cmd.User())
func (b *Builder) User(user string) *Builder {
	b.entry.User = user
	return b
}

// Exercise sets the exercise key this operation affects.
//
// Use for operations that target a specific exercise. Leave unset for
// operations that don't (e.g., config, leaderboard).
//
// Example:
//
//	log.Event("exercise:report", "read").Exercise("k7m2p4qa")
func (b *Builder) Exercise(key string) *Builder {
	b.entry.Exercise = key
	return b
}

// Iteration sets the review iteration this operation belongs to.
//
// Example:
//
//	log.Event("exercise:review", "review").Exercise(key).Iteration(2)
func (b *Builder) Iteration(n int) *Builder {
	b.entry.Iteration = n
	return b
}

// Points sets the points the operation awarded (output).
//
// Example:
//
//	l.Points(analysis.IdentifiedCount)  // After confirming success
func (b *Builder) Points(n int) *Builder {
	b.entry.Points = n
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
//
// Use for operation-specific data that doesn't fit standard fields:
// search terms, result counts, difficulty settings, badge ids, etc.
// Can be called multiple times to add multiple details.
//
// Example:
//
//	log.Event("taxonomy:search", "search").
//		Detail("term", term).
//		Detail("count", len(matches))
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure from err.
//
// If err is nil, the entry is logged as successful.
// If err is non-nil, the entry is logged as failed with the error message.
//
// This is the standard way to complete a log entry after an operation.
//
// Example:
//
//	ex, err := svc.Generate(ctx, opts)
//	log.Event("exercise:generate", "generate").User(u).Write(err)
//	if err != nil {
//		return err
//	}
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent log entries.
// The dir should be the absolute path to the .revdrill directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
