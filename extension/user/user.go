// Package user provides the user extension for account management.
// Registers commands: register, login, logout, whoami, profile.
//
// Accounts live in the training database; which account a terminal acts as
// comes from config user.name. Login and logout only edit config, so
// switching accounts never touches training data.

package user

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/config"
	"github.com/jpl-au/revdrill/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the user extension.
type Extension struct {
	svc service.Service
	cfg *config.Config
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.Storeless     = (*Extension)(nil)
)

// Name returns "user" - this extension handles account management.
func (e *Extension) Name() string { return "user" }

// Init connects to the shared service for account operations.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	return nil
}

// Commands returns the account management commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newRegisterCmd(),
		e.newLoginCmd(),
		e.newLogoutCmd(),
		e.newWhoamiCmd(),
		e.newProfileCmd(),
	}
}

// NoStoreCommands returns commands that work without a store.
// Logout only clears config user.name.
func (e *Extension) NoStoreCommands() []string {
	return []string{"logout"}
}

// MCPTools returns nil - the MCP server is read-only and has no account tools.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// stdin is shared across password reads so piped input survives buffering.
var stdin = bufio.NewReader(os.Stdin)

// readPassword reads a password without echo when stdin is a terminal,
// otherwise reads one line so scripts can pipe credentials in.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// rememberLogin records the account in config user.name. The write follows
// the usual scope cascade: the local config when one exists, otherwise
// global.
func rememberLogin(username string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Set("user.name", username); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
