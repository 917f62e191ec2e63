// login.go implements the "revdrill login" command for switching accounts.
//
// Separated from user.go to isolate credential handling.

package user

import (
	"errors"
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newLoginCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "login",
		Short: "Log in as a registered account",
		Long: `Verify credentials and record the account in config user.name. The
password is prompted for (hidden) on a terminal, or read from stdin when
piped.`,
		Args: cobra.NoArgs,
		RunE: e.runLogin,
	}
	c.Flags().StringP(extension.FlagUsername, "u", "", "Login name")
	return c
}

func (e *Extension) runLogin(c *cobra.Command, args []string) error {
	ctx := c.Context()
	username, _ := c.Flags().GetString(extension.FlagUsername)
	if username == "" {
		return cmd.PrintJSONError(errors.New("requires --username"))
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	u, err := e.svc.Login(ctx, username, password)

	log.Event("user:login", "login").User(username).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("login %q: %w", username, err))
	}

	if err := rememberLogin(u.Username); err != nil {
		return cmd.PrintJSONError(err)
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Logged in as %s\n", u.Username)
	}
	return cmd.PrintJSON(u.ToJSON())
}
