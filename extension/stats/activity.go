// activity.go implements the "revdrill activity" command.
//
// Separated from stats.go to isolate the activity ledger layout.

package stats

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/format"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newActivityCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "activity",
		Short: "Show recent activity",
		Long: `Show your recent point-earning activity, newest first: completed
reviews, perfect reviews and badge awards.`,
		Args: cobra.NoArgs,
		RunE: e.runActivity,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 20, "Number of rows (0 for all)")
	return c
}

func (e *Extension) runActivity(c *cobra.Command, args []string) error {
	ctx := c.Context()
	limit, _ := c.Flags().GetInt(extension.FlagLimit)

	l := log.Event("stats:activity", "read").User(cmd.User())

	u, err := e.svc.CurrentUser(ctx)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("activity: %w", err))
	}

	acts, err := e.svc.Activities(ctx, u.UID, limit)
	l.Detail("count", len(acts)).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("activity: %w", err))
	}

	if cmd.JSON() {
		rows := make([]store.ActivityJSON, 0, len(acts))
		for i := range acts {
			rows = append(rows, acts[i].ToJSON())
		}
		return cmd.PrintJSON(rows)
	}
	return format.Activities(cmd.Out(), acts)
}
