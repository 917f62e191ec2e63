// status.go implements the "revdrill status" command for exercise progress.
//
// Separated from exercise.go to isolate the status presentation including
// the review history table.

package exercise

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/internal/format"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/spf13/cobra"
)

// statusResponse is the JSON payload for exercise status.
type statusResponse struct {
	Exercise store.ExerciseJSON `json:"exercise"`
	Reviews  []store.ReviewJSON `json:"reviews,omitempty"`
}

func (e *Extension) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [key]",
		Short: "Show exercise progress",
		Long: `Show the lifecycle state and review history of an exercise. Without a
key, shows your most recent active exercise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runStatus,
	}
}

func (e *Extension) runStatus(c *cobra.Command, args []string) error {
	ctx := c.Context()
	key := ""
	if len(args) > 0 {
		key = args[0]
	}

	l := log.Event("exercise:status", "read").User(cmd.User())

	ex, err := e.svc.Exercise(ctx, key)
	if err != nil {
		l.Exercise(key).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("status: %w", err))
	}

	revs, err := e.svc.Reviews(ctx, ex.Key)
	l.Exercise(ex.Key).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("status: %w", err))
	}

	if cmd.JSON() {
		resp := statusResponse{Exercise: ex.ToJSON(false)}
		for i := range revs {
			resp.Reviews = append(resp.Reviews, revs[i].ToJSON())
		}
		return cmd.PrintJSON(resp)
	}

	return format.ExerciseStatus(cmd.Out(), ex, revs)
}
