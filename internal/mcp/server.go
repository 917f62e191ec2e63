// Package mcp implements the Model Context Protocol server, exposing the
// error taxonomy and training progress to LLMs. This lets AI assistants
// browse the catalog, check the leaderboard and inspect exercise state
// through a standardised protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jpl-au/revdrill/internal/config"
	"github.com/jpl-au/revdrill/internal/repo"
	"github.com/jpl-au/revdrill/internal/taxonomy"
	"github.com/jpl-au/revdrill/internal/trainer"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is returned by the training tools when no store exists.
// The taxonomy tools keep working; only progress data needs a store.
const ErrNotInitialised = "store not initialised - run 'revdrill init' first"

// Serve starts the MCP server over stdio, enabling LLM integration.
// Uses stdio transport for compatibility with Claude Desktop and other MCP clients.
//
// Design: The server starts successfully even if no store exists. The
// taxonomy is loadable without one, so an assistant can browse the catalog
// in a directory that was never initialised; the leaderboard and exercise
// tools return ErrNotInitialised with clear guidance instead.
func Serve(db string) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{}

	svc, err := trainer.New(db)
	switch {
	case err == nil:
		h.svc = svc
		h.catalog = svc.Catalog()
		defer svc.Close()
	case errors.Is(err, repo.ErrNotInitialised):
		slog.Info("revdrill not initialised, serving taxonomy only - run 'revdrill init' to enable training tools")
		catalog, cerr := standaloneCatalog()
		if cerr != nil {
			return cerr
		}
		h.catalog = catalog
	default:
		slog.Error("failed to open store", "error", err)
		return err
	}

	s := server.NewMCPServer(
		"revdrill",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	registerResources(s, h)
	registerTools(s, h)

	slog.Info("revdrill MCP server ready", "version", Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// standaloneCatalog loads the catalog without a store: the configured
// external file when one is set, the embedded catalog otherwise.
func standaloneCatalog() (*taxonomy.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f := cfg.TaxonomyFile(); f != "" {
		return taxonomy.LoadFile(f)
	}
	return taxonomy.Default()
}

// handlers provides MCP request handlers. The svc field is nil when no
// store has been initialised; catalog is always set.
type handlers struct {
	svc     *trainer.Service
	catalog *taxonomy.Catalog
}

// requireInit returns an error result if the store is not initialised.
// The training tools call this first.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

// registerResources adds URI-based access to the catalog document.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResource(
		mcp.NewResource(
			"taxonomy://catalog",
			"Error Taxonomy",
			mcp.WithResourceDescription("The full Java review error catalog as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		h.readCatalog,
	)
}

// registerTools exposes taxonomy and progress lookups as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	// Taxonomy - works without a store
	s.AddTool(
		mcp.NewTool("taxonomy_categories",
			mcp.WithDescription("List the error categories in the review taxonomy"),
		),
		h.taxonomyCategories,
	)

	s.AddTool(
		mcp.NewTool("taxonomy_errors",
			mcp.WithDescription("List the error definitions of one category"),
			mcp.WithString("category", mcp.Required(), mcp.Description("Category name, e.g. 'Logical'")),
		),
		h.taxonomyErrors,
	)

	s.AddTool(
		mcp.NewTool("taxonomy_show",
			mcp.WithDescription("Show one error definition. Omit category to search every category for the name."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Error name, e.g. 'Off-by-one error'")),
			mcp.WithString("category", mcp.Description("Category to look in")),
		),
		h.taxonomyShow,
	)

	s.AddTool(
		mcp.NewTool("taxonomy_search",
			mcp.WithDescription("Search error names and descriptions, case-insensitively"),
			mcp.WithString("term", mcp.Required(), mcp.Description("Search term")),
		),
		h.taxonomySearch,
	)

	s.AddTool(
		mcp.NewTool("taxonomy_export",
			mcp.WithDescription("Export the full catalog as indented JSON"),
		),
		h.taxonomyExport,
	)

	// Training progress - needs an initialised store
	s.AddTool(
		mcp.NewTool("leaderboard_get",
			mcp.WithDescription("Get the points leaderboard"),
			mcp.WithNumber("limit", mcp.Description("Number of rows (default: configured size)")),
		),
		h.leaderboardGet,
	)

	s.AddTool(
		mcp.NewTool("exercise_status",
			mcp.WithDescription("Get the state of an exercise: status, iteration and review history. Without a key, the configured user's most recent exercise."),
			mcp.WithString("key", mcp.Description("Exercise key")),
		),
		h.exerciseStatus,
	)
}
