// register.go implements the "revdrill register" command for new accounts.
//
// Separated from user.go to isolate password confirmation and the
// registration flags.
//
// Design: Registration logs the terminal in as the new account, matching
// what a new student wants next. The password confirmation prompt only runs
// on a TTY; piped input carries one password line and no typos to catch.

package user

import (
	"errors"
	"fmt"
	"os"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newRegisterCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "register",
		Short: "Create a student account",
		Long: `Create a student account and log this terminal in as it.

The password is prompted for (hidden) on a terminal, or read from stdin
when piped. The display name defaults to config user.display, then to
the username.`,
		Args: cobra.NoArgs,
		RunE: e.runRegister,
	}
	c.Flags().StringP(extension.FlagUsername, "u", "", "Login name (lowercased, unique)")
	c.Flags().String(extension.FlagDisplay, "", "Display name shown on the leaderboard")
	c.Flags().String(extension.FlagEmail, "", "Contact email (optional)")
	return c
}

func (e *Extension) runRegister(c *cobra.Command, args []string) error {
	ctx := c.Context()
	username, _ := c.Flags().GetString(extension.FlagUsername)
	display, _ := c.Flags().GetString(extension.FlagDisplay)
	email, _ := c.Flags().GetString(extension.FlagEmail)

	if username == "" {
		return cmd.PrintJSONError(errors.New("requires --username"))
	}
	if display == "" {
		display = e.cfg.User.Display
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		if password != confirm {
			return cmd.PrintJSONError(errors.New("passwords do not match"))
		}
	}

	u, err := e.svc.Register(ctx, username, display, email, password)

	l := log.Event("user:register", "register").User(username)
	if u != nil {
		l = l.Detail("uid", u.UID)
	}
	l.Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("register %q: %w", username, err))
	}

	if err := rememberLogin(u.Username); err != nil {
		return cmd.PrintJSONError(err)
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Registered %s - you are now logged in\n", u.Username)
	}
	return cmd.PrintJSON(u.ToJSON())
}
