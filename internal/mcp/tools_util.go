// tools_util.go provides helper functions for MCP tool parameter extraction.
//
// Design: We use permissive extraction (return default on error) rather than
// strict validation because MCP tools should be forgiving - an LLM omitting
// an optional parameter shouldn't cause cryptic errors. LLMs frequently omit
// optional parameters or provide them in unexpected formats; returning
// sensible defaults keeps the tool usable rather than failing with type
// errors the LLM may struggle to interpret.

package mcp

import (
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// getString extracts a string parameter, returning the provided default if
// the parameter is missing or cannot be parsed as a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getInt extracts an integer parameter from the MCP request arguments.
//
// JSON numbers decode as float64 in Go's encoding/json, so we type assert
// to float64 first and then convert. Returns the default if the parameter
// is missing or not a number.
func getInt(req mcp.CallToolRequest, name string, def int) int { //nolint:unparam
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// jsonResult serialises any value as pretty-printed JSON and wraps it in an
// MCP text result for return to the LLM client.
//
// We use store.MarshalJSON (which pretty-prints with indentation) rather
// than compact JSON because LLMs parse structured output more reliably when
// it's formatted for readability. Marshalling errors become MCP error
// results rather than Go errors, keeping the tool response pattern
// consistent: all failures are communicated via MCP's error result
// mechanism.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
