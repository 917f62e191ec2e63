// whoami.go implements the "revdrill whoami" command.
//
// Separated from user.go to keep the identity check trivial to read.

package user

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Long:  `Print the username of the logged-in account.`,
		Args:  cobra.NoArgs,
		RunE:  e.runWhoami,
	}
}

func (e *Extension) runWhoami(c *cobra.Command, args []string) error {
	ctx := c.Context()

	u, err := e.svc.CurrentUser(ctx)

	log.Event("user:whoami", "read").User(cmd.User()).Write(err)

	if err != nil {
		return cmd.PrintJSONError(err)
	}

	if !cmd.JSON() {
		fmt.Fprintln(cmd.Out(), u.Username)
	}
	return cmd.PrintJSON(u.ToJSON())
}
