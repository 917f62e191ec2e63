// leaderboard.go implements the "revdrill leaderboard" command.
//
// Separated from stats.go to isolate the points table layout.

package stats

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/format"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newLeaderboardCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the points leaderboard",
		Long:  `Show the top accounts by total points. Ties share a rank.`,
		Args:  cobra.NoArgs,
		RunE:  e.runLeaderboard,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Number of rows (0 uses limits.leaderboard_size)")
	return c
}

func (e *Extension) runLeaderboard(c *cobra.Command, args []string) error {
	ctx := c.Context()
	limit, _ := c.Flags().GetInt(extension.FlagLimit)

	entries, err := e.svc.Leaderboard(ctx, limit)

	log.Event("stats:leaderboard", "read").
		User(cmd.User()).
		Detail("count", len(entries)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("leaderboard: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(entries)
	}

	w := cmd.Out()
	if err := format.Leaderboard(w, entries); err != nil {
		return err
	}

	// Best-effort footer with the caller's own position when off-table.
	u, uerr := e.svc.CurrentUser(ctx)
	if uerr != nil {
		return nil
	}
	for _, en := range entries {
		if en.UID == u.UID {
			return nil
		}
	}
	if rank, rerr := e.svc.UserRank(ctx, u.UID); rerr == nil {
		fmt.Fprintf(w, "\nYou are ranked %d of %d\n", rank.Position, rank.TotalUsers)
	}
	return nil
}
