// solution.go implements the "revdrill solution" command for revealing answers.
//
// Separated from exercise.go to isolate diff presentation of the planted
// error markers.
//
// Design: The default view is a diff between the clean code the student
// reviewed and the annotated solution, so the markers stand out instead of
// being buried in source the student has already read. --annotated prints
// the full marked-up file. Colour follows the usual rules: TTY gets ANSI
// colours unless --raw.

package exercise

import (
	"fmt"
	"os"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/diff"
	"github.com/jpl-au/revdrill/internal/format"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newSolutionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "solution <key>",
		Short: "Show the annotated solution",
		Long: `Show where the errors were planted in a finished exercise. Open
exercises keep their answers hidden; abandon one to peek.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runSolution,
	}
	c.Flags().Bool(extension.FlagAnnotated, false, "Print the full annotated source instead of a diff")
	c.Flags().Bool(extension.FlagRaw, false, "Disable diff colouring")
	return c
}

func (e *Extension) runSolution(c *cobra.Command, args []string) error {
	ctx := c.Context()
	key := args[0]
	annotated, _ := c.Flags().GetBool(extension.FlagAnnotated)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)

	l := log.Event("exercise:solution", "read").User(cmd.User()).Exercise(key)

	ex, err := e.svc.Solution(ctx, key)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("solution %q: %w", key, err))
	}

	sel, err := e.svc.PlantedErrors(ex)
	l.Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("solution %q: %w", key, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(ex.ToJSON(true))
	}

	w := cmd.Out()
	if annotated {
		fmt.Fprintln(w, ex.Annotated)
	} else {
		colour := !raw && term.IsTerminal(int(os.Stdout.Fd()))
		d := diff.Compute(ex.Clean, ex.Annotated, ex.Key+" (clean)", ex.Key+" (annotated)")
		fmt.Fprint(w, d.Format(colour))
	}

	if len(sel) > 0 {
		fmt.Fprintln(w, "\nPlanted errors:")
		format.PlantedErrors(w, sel)
	}
	return nil
}
