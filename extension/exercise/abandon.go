// abandon.go implements the "revdrill abandon" command for giving up on an
// exercise.
//
// Separated from exercise.go to isolate key resolution and messaging.
//
// Design: Abandoning is a soft delete. The exercise stops accepting reviews
// but keeps its history, can still show its solution, and is purged later by
// vacuum. Completed exercises cannot be abandoned.

package exercise

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/spf13/cobra"
)

// abandonResult contains the outcome of an abandon operation.
type abandonResult struct {
	Key    string `json:"key"`
	Status string `json:"status"`
}

func (e *Extension) newAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon [key]",
		Short: "Abandon an exercise",
		Long: `Stop working on an exercise without finishing it. Without a key,
abandons your most recent active exercise. The solution becomes visible
once abandoned.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runAbandon,
	}
}

func (e *Extension) runAbandon(c *cobra.Command, args []string) error {
	ctx := c.Context()
	key := ""
	if len(args) > 0 {
		key = args[0]
	}

	l := log.Event("exercise:abandon", "abandon").User(cmd.User())

	// Resolve first so the empty-key case reports which exercise went away.
	ex, err := e.svc.Exercise(ctx, key)
	if err != nil {
		l.Exercise(key).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("abandon: %w", err))
	}

	err = e.svc.AbandonExercise(ctx, ex.Key)
	l.Exercise(ex.Key).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("abandon %q: %w", ex.Key, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Abandoned %s - see the solution with: revdrill solution %s\n", ex.Key, ex.Key)
	}
	return cmd.PrintJSON(abandonResult{Key: ex.Key, Status: store.StatusAbandoned})
}
