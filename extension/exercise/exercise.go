// Package exercise provides the exercise extension for the training workflow.
// Registers commands: generate, review, status, report, solution, list, abandon.
//
// These commands cover the full exercise lifecycle from generation through
// graded review to the revealed solution. Each command file is separated to
// isolate its specific flag handling and output formatting logic.

package exercise

import (
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/config"
	"github.com/jpl-au/revdrill/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the exercise extension.
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

// Name returns "exercise" - this extension handles the training workflow.
func (e *Extension) Name() string { return "exercise" }

// Init connects to the shared service for exercise operations.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	return nil
}

// Commands returns the exercise lifecycle commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newGenerateCmd(),
		e.newReviewCmd(),
		e.newStatusCmd(),
		e.newReportCmd(),
		e.newSolutionCmd(),
		e.newListCmd(),
		e.newAbandonCmd(),
	}
}

// MCPTools returns nil - exercise MCP tools are provided by internal/mcp package.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
