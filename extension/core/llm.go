// llm.go implements the "revdrill llm" command group for LLM integration.
//
// Separated from extension.go to isolate provider plumbing. The bare command
// shows onboarding documentation for AI assistants; "llm check" verifies the
// configured provider actually answers before an exercise burns a real
// generation call.
//
// Design: The guide content lives in guide/llm.md to avoid duplicating it
// here. Check pings each distinct configured model once - roles often share
// a model, and pinging the same endpoint four times wastes quota.

package core

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/guide"
	"github.com/jpl-au/revdrill/internal/config"
	"github.com/jpl-au/revdrill/internal/llm"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLlmCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "llm",
		Short: "LLM provider setup and connectivity",
		Long:  `Quick reference for LLM provider setup, plus a connectivity check.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			content, err := guide.Get("llm")
			if err != nil {
				return cmd.PrintJSONError(err)
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				rendered, err := glamour.Render(content, "dark")
				if err == nil {
					fmt.Fprint(cmd.Out(), rendered)
					return nil
				}
			}

			fmt.Fprint(cmd.Out(), content)
			return nil
		},
	}
	c.AddCommand(newLlmCheckCmd())
	return c
}

func newLlmCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify LLM provider connectivity",
		Long: `Send a minimal completion to every configured model and report the result.

Verifies the provider, API key and model names before you start an exercise:
  revdrill config llm.provider groq
  revdrill config llm.api_key gsk_...
  revdrill llm check`,
		RunE: runLlmCheck,
	}
}

func runLlmCheck(c *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	roles := []llm.Role{llm.RoleGenerative, llm.RoleReview, llm.RoleSummary, llm.RoleComparison}

	// Ping each distinct model once. Roles typically share one model, so
	// checked is keyed by model name rather than role.
	checked := make(map[string]error)
	var order []string
	for _, role := range roles {
		client, err := llm.ForRole(cfg, role)
		if err != nil {
			log.Event("core:llm", "check").User(cmd.User()).Detail("provider", cfg.Provider()).Write(err)
			return cmd.PrintJSONError(fmt.Errorf("llm check: %w", err))
		}
		if _, done := checked[client.Model()]; done {
			continue
		}
		checked[client.Model()] = llm.Ping(c.Context(), client)
		order = append(order, client.Model())
	}

	var failed int
	results := make(map[string]string, len(order))
	for _, model := range order {
		status := "ok"
		if pingErr := checked[model]; pingErr != nil {
			status = pingErr.Error()
			failed++
		}
		results[model] = status
	}

	var checkErr error
	if failed > 0 {
		checkErr = fmt.Errorf("%d of %d model(s) unreachable", failed, len(order))
	}

	log.Event("core:llm", "check").
		User(cmd.User()).
		Detail("provider", cfg.Provider()).
		Detail("models", len(order)).
		Write(checkErr)

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{
			"provider": cfg.Provider(),
			"models":   results,
		})
	}

	fmt.Fprintf(cmd.Out(), "provider: %s\n", cfg.Provider())
	for _, model := range order {
		fmt.Fprintf(cmd.Out(), "%s: %s\n", model, results[model])
	}

	if checkErr != nil {
		return cmd.PrintJSONError(checkErr)
	}
	return nil
}
