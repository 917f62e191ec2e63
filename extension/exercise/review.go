// review.go implements the "revdrill review" command for submitting reviews.
//
// Separated from exercise.go to isolate input handling (file, stdin) and the
// verdict presentation, which differs between mid-loop and final submissions.
//
// Design: Review accepts the submission from two sources in priority order:
// 1. File flag (for reviews drafted in an editor)
// 2. Stdin (for piping and heredocs)
// Mid-loop verdicts show counts and guidance but keep missed problems hidden;
// the full teaching report is rendered only when the exercise finishes.

package exercise

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/format"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/progress"
	"github.com/jpl-au/revdrill/internal/review"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// reviewResponse is the JSON payload for a graded submission.
type reviewResponse struct {
	Exercise      store.ExerciseJSON `json:"exercise"`
	Analysis      review.Analysis    `json:"analysis"`
	Iteration     int                `json:"iteration"`
	MaxIterations int                `json:"max_iterations"`
	Finished      bool               `json:"finished"`
	Guidance      string             `json:"guidance,omitempty"`
	Report        string             `json:"report,omitempty"`
	Points        int                `json:"points,omitempty"`
	User          *store.UserJSON    `json:"user,omitempty"`
	Badges        []store.BadgeJSON  `json:"badges_awarded,omitempty"`
}

func (e *Extension) newReviewCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "review [key]",
		Short: "Submit a review for grading",
		Long: `Submit your written review of an exercise. The review text is read from
stdin, or from a file with -f. Without a key the review is submitted against
your most recent active exercise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runReview,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Read review text from file")
	c.Flags().Bool(extension.FlagRaw, false, "Output the report without rendering")
	return c
}

func (e *Extension) runReview(c *cobra.Command, args []string) error {
	ctx := c.Context()
	key := ""
	if len(args) > 0 {
		key = args[0]
	}

	var text string
	file, _ := c.Flags().GetString(extension.FlagFile)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("read file %q: %w", file, err))
		}
		text = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("read stdin: %w", err))
		}
		text = string(data)
	}

	sp := progress.NewSpinner("Grading review")
	sp.Start()
	out, err := e.svc.SubmitReview(ctx, key, text)
	sp.Stop()

	l := log.Event("exercise:review", "submit").User(cmd.User())
	if out != nil {
		l = l.Exercise(out.Exercise.Key).
			Iteration(out.Iteration).
			Detail("identified", out.Analysis.IdentifiedCount).
			Detail("sufficient", out.Analysis.Sufficient).
			Detail("finished", out.Finished)
		if out.Points > 0 {
			l = l.Points(out.Points)
		}
	} else {
		l = l.Exercise(key)
	}
	l.Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("review: %w", err))
	}

	if cmd.JSON() {
		resp := reviewResponse{
			Exercise:      out.Exercise.ToJSON(false),
			Analysis:      out.Analysis,
			Iteration:     out.Iteration,
			MaxIterations: out.MaxIterations,
			Finished:      out.Finished,
			Guidance:      out.Guidance,
			Report:        out.Report,
			Points:        out.Points,
		}
		if out.User != nil {
			u := out.User.ToJSON()
			resp.User = &u
		}
		for i := range out.Awarded {
			resp.Badges = append(resp.Badges, out.Awarded[i].ToJSON())
		}
		return cmd.PrintJSON(resp)
	}

	w := cmd.Out()
	fmt.Fprintf(w, "Exercise %s - iteration %d/%d\n\n", out.Exercise.Key, out.Iteration, out.MaxIterations)
	format.Analysis(w, out.Analysis, out.Finished)

	if !out.Finished {
		if out.Guidance != "" {
			fmt.Fprintf(w, "\nGuidance:\n%s\n", out.Guidance)
		}
		fmt.Fprintf(w, "\nResubmit with: revdrill review %s\n", out.Exercise.Key)
		return nil
	}

	if out.Points > 0 {
		fmt.Fprintf(w, "\nPoints earned: %d\n", out.Points)
	}
	for _, b := range out.Awarded {
		fmt.Fprintf(w, "Badge earned: %s %s (+%d pts)\n", b.Icon, b.Name, b.Points)
	}
	if out.User != nil {
		fmt.Fprintf(w, "Level: %s  Total points: %d\n", out.User.Level, out.User.TotalPoints)
	}

	if out.Report != "" {
		raw, _ := c.Flags().GetBool(extension.FlagRaw)
		fmt.Fprintln(w)
		if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
			if rendered, renderErr := glamour.Render(out.Report, "dark"); renderErr == nil {
				fmt.Fprint(w, rendered)
			} else {
				fmt.Fprintln(w, out.Report)
			}
		} else {
			fmt.Fprintln(w, out.Report)
		}
	}
	fmt.Fprintf(w, "\nSee the annotated solution with: revdrill solution %s\n", out.Exercise.Key)
	return nil
}
