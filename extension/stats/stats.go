// Package stats provides the stats extension for progress visibility.
// Registers commands: leaderboard, badges, mastery, activity.
//
// These commands read the gamification tables the trainer maintains as
// reviews complete. Each command file is separated to isolate its output
// formatting.

package stats

import (
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/config"
	"github.com/jpl-au/revdrill/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the stats extension.
type Extension struct {
	svc service.Service
	cfg *config.Config
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "stats" - this extension handles progress and gamification views.
func (e *Extension) Name() string { return "stats" }

// Init connects to the shared service for stats queries.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	return nil
}

// Commands returns the progress visibility commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newLeaderboardCmd(),
		e.newBadgesCmd(),
		e.newMasteryCmd(),
		e.newActivityCmd(),
	}
}

// MCPTools returns nil - stats MCP tools are provided by internal/mcp package.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
