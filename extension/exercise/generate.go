// generate.go implements the "revdrill generate" command for creating exercises.
//
// Separated from exercise.go to isolate error-selection flag parsing and the
// generated-code presentation.
//
// Design: Generation is the slowest operation in the tool (two or three LLM
// round trips), so a spinner runs on stderr while stdout stays clean for
// piping the snippet. The --error flag uses slash syntax (Category/Name)
// matching the taxonomy export structure, so specific errors can be requested
// without positional ambiguity.

package exercise

import (
	"fmt"
	"strings"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/exercise"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/progress"
	"github.com/jpl-au/revdrill/internal/taxonomy"
	"github.com/spf13/cobra"
)

func (e *Extension) newGenerateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate a review exercise",
		Long: `Generate a Java snippet with planted errors for you to review.

Difficulty and length default to your current level. Use --error to plant
specific taxonomy errors (Category/Name), or --category to restrict random
selection to named categories.`,
		Args: cobra.NoArgs,
		RunE: e.runGenerate,
	}
	c.Flags().StringP(extension.FlagDifficulty, "d", "", "Difficulty: easy, medium, hard")
	c.Flags().StringP(extension.FlagLength, "l", "", "Length: short, medium, long")
	c.Flags().String(extension.FlagDomain, "", "Business domain for the snippet")
	c.Flags().StringSliceP(extension.FlagCategory, "c", nil, "Restrict random selection to a category (repeatable)")
	c.Flags().StringSliceP(extension.FlagError, "e", nil, "Plant a specific error as Category/Name (repeatable)")
	c.Flags().Int(extension.FlagCount, 0, "Base error count before difficulty adjustment")
	return c
}

func (e *Extension) runGenerate(c *cobra.Command, args []string) error {
	ctx := c.Context()

	p := exercise.Params{}
	p.Difficulty, _ = c.Flags().GetString(extension.FlagDifficulty)
	p.Length, _ = c.Flags().GetString(extension.FlagLength)
	p.Domain, _ = c.Flags().GetString(extension.FlagDomain)
	p.Categories, _ = c.Flags().GetStringSlice(extension.FlagCategory)
	p.Count, _ = c.Flags().GetInt(extension.FlagCount)

	specific, _ := c.Flags().GetStringSlice(extension.FlagError)
	refs, err := parseRefs(specific)
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	p.Specific = refs

	sp := progress.NewSpinner("Generating exercise")
	sp.Start()
	ex, err := e.svc.StartExercise(ctx, p)
	sp.Stop()

	l := log.Event("exercise:generate", "generate").
		User(cmd.User()).
		Detail("difficulty", p.Difficulty).
		Detail("domain", p.Domain)
	if ex != nil {
		l = l.Exercise(ex.Key)
	}
	l.Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("generate: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(ex.ToJSON(false))
	}

	w := cmd.Out()
	fmt.Fprintf(w, "Exercise %s (%s, %s/%s)\n\n", ex.Key, ex.Domain, ex.Difficulty, ex.Length)
	fmt.Fprintln(w, ex.Clean)
	fmt.Fprintf(w, "\nSubmit your review with: revdrill review %s\n", ex.Key)
	return nil
}

// parseRefs parses --error values in Category/Name form.
func parseRefs(vals []string) ([]taxonomy.Ref, error) {
	if len(vals) == 0 {
		return nil, nil
	}
	refs := make([]taxonomy.Ref, 0, len(vals))
	for _, v := range vals {
		cat, name, ok := strings.Cut(v, "/")
		if !ok || cat == "" || name == "" {
			return nil, fmt.Errorf("invalid error reference %q: expected Category/Name", v)
		}
		refs = append(refs, taxonomy.Ref{Category: cat, Name: name})
	}
	return refs, nil
}
