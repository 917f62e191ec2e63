// Package vacuum handles permanent deletion of abandoned exercises.
// Abandoning an exercise only soft-deletes it; the row and its review
// history remain until vacuum removes them, providing a recovery window
// for stats and post-mortems.
package vacuum

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jpl-au/revdrill/internal/progress"
	"github.com/jpl-au/revdrill/internal/service"
	"github.com/jpl-au/revdrill/internal/store"
)

// Options configures vacuum scope and safety checks.
type Options struct {
	OlderThan *time.Duration // Retain recent abandonments for recovery
	DryRun    bool           // Preview without deleting
}

// Result reports what was deleted, enabling confirmation and logging.
type Result struct {
	Deleted int      // Count of removed exercises
	Keys    []string // Affected exercise keys (populated in dry-run mode)
}

// Run permanently removes abandoned exercises and their reviews. This
// operation is irreversible; use DryRun first to preview what will be
// deleted.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	if opts.DryRun {
		return preview(ctx, w, svc, opts)
	}

	spin := progress.NewSpinner("Vacuuming")
	spin.Start()
	count, err := svc.Vacuum(ctx, opts.OlderThan)
	spin.Stop()

	if err != nil {
		return result, err
	}

	result.Deleted = int(count)
	if count == 0 {
		fmt.Fprintln(w, "No exercises to vacuum")
	} else {
		fmt.Fprintf(w, "Vacuumed %d exercise(s)\n", count)
	}

	return result, nil
}

// preview simulates vacuum to let users verify before permanent deletion.
func preview(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	exs, err := svc.ListExercises(ctx, store.ExerciseFilter{IncludeDeleted: true})
	if err != nil {
		return result, err
	}

	for _, ex := range exs {
		if ex.DeletedAt == nil {
			continue
		}

		// Skip recently abandoned exercises to give users time to recover
		if opts.OlderThan != nil {
			cutoff := time.Now().Add(-*opts.OlderThan).Unix()
			if *ex.DeletedAt >= cutoff {
				continue
			}
		}

		fmt.Fprintf(w, "Would delete: %s %s/%s (abandoned %s)\n",
			ex.Key, ex.Domain, ex.Difficulty,
			time.Unix(*ex.DeletedAt, 0).Format("2006-01-02 15:04"))
		result.Keys = append(result.Keys, ex.Key)
		result.Deleted++
	}

	if result.Deleted == 0 {
		fmt.Fprintln(w, "No exercises to vacuum")
	} else {
		fmt.Fprintf(w, "\nWould delete %d exercise(s)\n", result.Deleted)
	}

	return result, nil
}
