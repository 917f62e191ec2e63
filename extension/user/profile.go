// profile.go implements the "revdrill profile" command for account details.
//
// Separated from user.go to isolate the profile presentation and the
// self-service update flags.
//
// Design: Without arguments the profile is the logged-in account; any
// username can be viewed read-only. --display and --email mutate and apply
// only to the logged-in account.

package user

import (
	"errors"
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/format"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/spf13/cobra"
)

// profileResponse is the JSON payload for a profile lookup.
type profileResponse struct {
	User   store.UserJSON `json:"user"`
	Rank   *store.Rank    `json:"rank,omitempty"`
	Badges int            `json:"badge_count"`
}

func (e *Extension) newProfileCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "profile [username]",
		Short: "Show or update an account profile",
		Long: `Show an account profile with rank and badge count. Without a username,
shows the logged-in account. --display and --email update the logged-in
account's profile.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runProfile,
	}
	c.Flags().String(extension.FlagDisplay, "", "Set a new display name")
	c.Flags().String(extension.FlagEmail, "", "Set a new contact email")
	return c
}

func (e *Extension) runProfile(c *cobra.Command, args []string) error {
	ctx := c.Context()
	display, _ := c.Flags().GetString(extension.FlagDisplay)
	email, _ := c.Flags().GetString(extension.FlagEmail)
	updating := display != "" || email != ""

	action := "read"
	if updating {
		action = "update"
	}
	l := log.Event("user:profile", action).User(cmd.User())

	var u *store.User
	var err error
	if len(args) > 0 {
		if updating {
			return cmd.PrintJSONError(errors.New("--display and --email update the logged-in account; drop the username argument"))
		}
		u, err = e.svc.Profile(ctx, args[0])
	} else {
		u, err = e.svc.CurrentUser(ctx)
	}
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("profile: %w", err))
	}

	if updating {
		u, err = e.svc.UpdateProfile(ctx, u.UID, display, email)
		if err != nil {
			l.Write(err)
			return cmd.PrintJSONError(fmt.Errorf("profile: %w", err))
		}
	}

	rank, err := e.svc.UserRank(ctx, u.UID)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("profile: %w", err))
	}
	badges, err := e.svc.UserBadges(ctx, u.UID)
	l.Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("profile: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(profileResponse{User: u.ToJSON(), Rank: rank, Badges: len(badges)})
	}
	return format.Profile(cmd.Out(), u, rank, len(badges))
}
