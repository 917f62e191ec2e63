// report.go implements the "revdrill report" command for finished exercises.
//
// Separated from exercise.go to isolate markdown rendering of the teaching
// report.
//
// Design: The report is rebuilt from stored reviews on every call rather
// than persisted, so a completed exercise can be revisited at any time
// without holding LLM output in the store. Only completed exercises have
// reports; abandoned ones expose their answers through solution instead.

package exercise

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/progress"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// reportResponse is the JSON payload for a rebuilt teaching report.
type reportResponse struct {
	Key    string `json:"key"`
	Report string `json:"report"`
}

func (e *Extension) newReportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "report <key>",
		Short: "Show the teaching report for a finished exercise",
		Long:  `Rebuild and display the final teaching report for a completed exercise.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runReport,
	}
	c.Flags().Bool(extension.FlagRaw, false, "Output raw markdown without rendering")
	return c
}

func (e *Extension) runReport(c *cobra.Command, args []string) error {
	ctx := c.Context()
	key := args[0]
	raw, _ := c.Flags().GetBool(extension.FlagRaw)

	sp := progress.NewSpinner("Building report")
	sp.Start()
	report, err := e.svc.Report(ctx, key)
	sp.Stop()

	log.Event("exercise:report", "read").
		User(cmd.User()).
		Exercise(key).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("report %q: %w", key, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(reportResponse{Key: key, Report: report})
	}

	w := cmd.Out()
	if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
		if rendered, renderErr := glamour.Render(report, "dark"); renderErr == nil {
			fmt.Fprint(w, rendered)
			return nil
		}
	}
	fmt.Fprintln(w, report)
	return nil
}
