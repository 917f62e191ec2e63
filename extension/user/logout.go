// logout.go implements the "revdrill logout" command.
//
// Separated from user.go to isolate the config-only session handling.
// Logout never opens the store: it clears config user.name and nothing
// else, so it works even before init.

package user

import (
	"errors"
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/internal/config"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
)

// logoutResult contains the outcome of a logout operation.
type logoutResult struct {
	Username string `json:"username"`
}

func (e *Extension) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the current account",
		Long:  `Clear config user.name. The account and its history stay in the store.`,
		Args:  cobra.NoArgs,
		RunE:  e.runLogout,
	}
}

func (e *Extension) runLogout(c *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("load config: %w", err))
	}

	name := cfg.Username()
	if name == "" {
		return cmd.PrintJSONError(errors.New("not logged in"))
	}

	if err := cfg.Set("user.name", ""); err != nil {
		return cmd.PrintJSONError(err)
	}
	if err := cfg.Save(); err != nil {
		return cmd.PrintJSONError(fmt.Errorf("save config: %w", err))
	}

	log.Event("user:logout", "logout").User(name).Write(nil)

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Logged out %s\n", name)
	}
	return cmd.PrintJSON(logoutResult{Username: name})
}
