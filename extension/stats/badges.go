// badges.go implements the "revdrill badges" command.
//
// Separated from stats.go to isolate the badge listing layouts.
//
// Design: The default view is what you have earned; -A shows the whole
// catalog with earned badges marked, which doubles as the roadmap of what
// is left to chase. The catalog view works without a login.

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

// badgeCatalogResponse is the JSON payload for the full catalog view.
type badgeCatalogResponse struct {
	Badges []store.BadgeJSON     `json:"badges"`
	Earned []store.UserBadgeJSON `json:"earned,omitempty"`
}

func (e *Extension) newBadgesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "badges",
		Short: "Show earned badges",
		Long:  `Show the badges you have earned. -A lists the full catalog with yours marked.`,
		Args:  cobra.NoArgs,
		RunE:  e.runBadges,
	}
	c.Flags().BoolP(extension.FlagAll, "A", false, "Show the full badge catalog")
	return c
}

func (e *Extension) runBadges(c *cobra.Command, args []string) error {
	ctx := c.Context()
	all, _ := c.Flags().GetBool(extension.FlagAll)

	l := log.Event("stats:badges", "read").User(cmd.User()).Detail("all", all)

	// Earned badges need an account; the catalog view degrades to unmarked.
	var earned []store.UserBadge
	u, uerr := e.svc.CurrentUser(ctx)
	if uerr == nil {
		var err error
		earned, err = e.svc.UserBadges(ctx, u.UID)
		if err != nil {
			l.Write(err)
			return cmd.PrintJSONError(fmt.Errorf("badges: %w", err))
		}
	} else if !all {
		l.Write(uerr)
		return cmd.PrintJSONError(fmt.Errorf("badges: %w", uerr))
	}

	if !all {
		l.Detail("count", len(earned)).Write(nil)
		if cmd.JSON() {
			rows := make([]store.UserBadgeJSON, 0, len(earned))
			for i := range earned {
				rows = append(rows, earned[i].ToJSON())
			}
			return cmd.PrintJSON(rows)
		}
		return format.Badges(cmd.Out(), earned)
	}

	catalog, err := e.svc.AllBadges(ctx)
	l.Detail("count", len(catalog)).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("badges: %w", err))
	}

	if cmd.JSON() {
		resp := badgeCatalogResponse{Badges: make([]store.BadgeJSON, 0, len(catalog))}
		for i := range catalog {
			resp.Badges = append(resp.Badges, catalog[i].ToJSON())
		}
		for i := range earned {
			resp.Earned = append(resp.Earned, earned[i].ToJSON())
		}
		return cmd.PrintJSON(resp)
	}
	return format.BadgeCatalog(cmd.Out(), catalog, earned)
}
