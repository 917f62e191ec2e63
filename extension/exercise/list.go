// list.go implements the "revdrill list" command for exercise listings.
//
// Separated from exercise.go to isolate filter flags and the table layout.
//
// Design: List is scoped to the logged-in account; abandoned exercises are
// hidden unless -A. JSON rows drop the source code - listings carry
// metadata, fetch the code with status or solution.

package exercise

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/format"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List your exercises",
		Long:  `List your exercises, newest first.`,
		Args:  cobra.NoArgs,
		RunE:  e.runList,
	}
	c.Flags().StringP(extension.FlagStatus, "s", "", "Filter by status: awaiting_review, in_review, completed, abandoned")
	c.Flags().BoolP(extension.FlagAll, "A", false, "Include abandoned exercises")
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Limit the number of rows")
	return c
}

func (e *Extension) runList(c *cobra.Command, args []string) error {
	ctx := c.Context()

	status, _ := c.Flags().GetString(extension.FlagStatus)
	switch status {
	case "", store.StatusAwaitingReview, store.StatusInReview, store.StatusCompleted, store.StatusAbandoned:
	default:
		return cmd.PrintJSONError(fmt.Errorf("invalid status %q", status))
	}

	f := store.ExerciseFilter{Status: status}
	f.IncludeDeleted, _ = c.Flags().GetBool(extension.FlagAll)
	if status == store.StatusAbandoned {
		// Abandoned exercises are soft-deleted; the filter must include them.
		f.IncludeDeleted = true
	}
	f.Limit, _ = c.Flags().GetInt(extension.FlagLimit)

	l := log.Event("exercise:list", "list").User(cmd.User()).Detail("status", status)

	u, err := e.svc.CurrentUser(ctx)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("list: %w", err))
	}
	f.UserID = u.UID

	exs, err := e.svc.ListExercises(ctx, f)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("list: %w", err))
	}
	l.Detail("count", len(exs)).Write(nil)

	if cmd.JSON() {
		rows := make([]store.ExerciseJSON, 0, len(exs))
		for i := range exs {
			j := exs[i].ToJSON(false)
			j.Clean = ""
			rows = append(rows, j)
		}
		return cmd.PrintJSON(rows)
	}

	return format.Exercises(cmd.Out(), exs)
}
