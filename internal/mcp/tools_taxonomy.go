// tools_taxonomy.go implements the MCP tools over the error catalog. They
// work in catalog-only mode, so an assistant can browse the taxonomy before
// any store exists.
//
// Design: Errors return MCP tool error results rather than Go errors. This
// ensures the LLM receives actionable feedback it can parse and potentially
// retry, rather than causing the entire tool call to fail at the protocol
// level.

package mcp

import (
	"context"

	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/taxonomy"
	"github.com/mark3labs/mcp-go/mcp"
)

// readCatalog handles taxonomy://catalog resource requests.
func (h *handlers) readCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := h.catalog.Encode()
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// taxonomyCategories handles taxonomy_categories tool calls.
func (h *handlers) taxonomyCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	log.Event("mcp:taxonomy", "categories").User("mcp").Write(nil)

	return jsonResult(map[string]any{
		"categories":   h.catalog.Categories(),
		"total_errors": h.catalog.Len(),
	})
}

// taxonomyErrors handles taxonomy_errors tool calls.
func (h *handlers) taxonomyErrors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("category is required"), nil //nolint:nilerr
	}

	defs, err := h.catalog.CategoryErrors(category)

	log.Event("mcp:taxonomy", "errors").User("mcp").Detail("category", category).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"category": category,
		"errors":   defs,
	})
}

// taxonomyShow handles taxonomy_show tool calls. With a category the lookup
// is exact; without one the first name match across the catalog wins.
func (h *handlers) taxonomyShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}
	category := getString(req, "category", "")

	var match taxonomy.Match
	if category == "" {
		match, err = h.catalog.FindByName(name)
	} else {
		var def taxonomy.Definition
		def, err = h.catalog.Lookup(category, name)
		match = taxonomy.Match{Category: category, Definition: def}
	}

	log.Event("mcp:taxonomy", "show").User("mcp").Detail("name", name).Detail("category", category).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(match)
}

// taxonomySearch handles taxonomy_search tool calls.
func (h *handlers) taxonomySearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	term, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError("term is required"), nil //nolint:nilerr
	}

	matches := h.catalog.Search(term)

	log.Event("mcp:taxonomy", "search").User("mcp").Detail("term", term).Detail("count", len(matches)).Write(nil)

	return jsonResult(map[string]any{
		"term":    term,
		"count":   len(matches),
		"matches": matches,
	})
}

// taxonomyExport handles taxonomy_export tool calls. The output is the
// same document taxonomy.LoadFile accepts, so an exported catalog can be
// edited and configured back in.
func (h *handlers) taxonomyExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	data, err := h.catalog.Encode()

	log.Event("mcp:taxonomy", "export").User("mcp").Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
