// mastery.go implements the "revdrill mastery" command.
//
// Separated from stats.go to isolate the per-category counters table.

package stats

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/internal/format"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newMasteryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mastery",
		Short: "Show per-category mastery",
		Long: `Show how often you have encountered and identified each taxonomy
category, highest mastery first.`,
		Args: cobra.NoArgs,
		RunE: e.runMastery,
	}
}

func (e *Extension) runMastery(c *cobra.Command, args []string) error {
	ctx := c.Context()

	l := log.Event("stats:mastery", "read").User(cmd.User())

	u, err := e.svc.CurrentUser(ctx)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("mastery: %w", err))
	}

	stats, err := e.svc.CategoryStats(ctx, u.UID)
	l.Detail("count", len(stats)).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("mastery: %w", err))
	}

	if cmd.JSON() {
		rows := make([]store.CategoryStatJSON, 0, len(stats))
		for i := range stats {
			rows = append(rows, stats[i].ToJSON())
		}
		return cmd.PrintJSON(rows)
	}
	return format.Mastery(cmd.Out(), stats)
}
