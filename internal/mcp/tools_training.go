// tools_training.go implements the MCP tools that read training progress.
// Both need an initialised store; they are read-only so an assistant can
// report standings without being able to submit reviews on a user's behalf.

package mcp

import (
	"context"

	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// leaderboardGet handles leaderboard_get tool calls.
func (h *handlers) leaderboardGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	limit := getInt(req, "limit", 0)

	entries, err := h.svc.Leaderboard(ctx, limit)

	log.Event("mcp:leaderboard", "get").User("mcp").Detail("limit", limit).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entries)
}

// exerciseStatus handles exercise_status tool calls. The response carries
// the clean code only; the annotated version would leak the answers to an
// assistant that may be helping with the review.
func (h *handlers) exerciseStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	key := getString(req, "key", "")

	ex, err := h.svc.Exercise(ctx, key)
	if err != nil {
		log.Event("mcp:exercise", "status").User("mcp").Exercise(key).Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	revs, err := h.svc.Reviews(ctx, ex.Key)

	log.Event("mcp:exercise", "status").User("mcp").Exercise(ex.Key).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reviews := make([]store.ReviewJSON, len(revs))
	for i := range revs {
		reviews[i] = revs[i].ToJSON()
	}

	return jsonResult(map[string]any{
		"exercise": ex.ToJSON(false),
		"reviews":  reviews,
	})
}
