// Package format provides output formatting utilities for CLI display.
//
// Centralises formatting logic so that command implementations focus on
// business logic while this package handles presentation concerns like
// column alignment and table layout.
package format

import (
	"fmt"
	"io"
	"time"

	"github.com/jpl-au/revdrill/internal/review"
	"github.com/jpl-au/revdrill/internal/store"
	"github.com/jpl-au/revdrill/internal/taxonomy"
)

func day(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02")
}

func stamp(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02 15:04")
}

// Exercises prints exercises in long format with key, domain, difficulty,
// iteration, status, and creation date.
func Exercises(w io.Writer, exs []store.Exercise) error {
	if len(exs) == 0 {
		fmt.Fprintln(w, "No exercises found")
		return nil
	}

	// Find max domain length for alignment
	maxDomain := 6 // minimum "DOMAIN"
	for _, ex := range exs {
		if len(ex.Domain) > maxDomain {
			maxDomain = len(ex.Domain)
		}
	}

	// Print header
	fmt.Fprintf(w, "%-8s  %-*s  %-12s  %4s  %-15s  %s\n", "KEY", maxDomain, "DOMAIN", "DIFFICULTY", "ITER", "STATUS", "CREATED")

	for _, ex := range exs {
		difficulty := ex.Difficulty + "/" + ex.Length
		deleted := ""
		if ex.DeletedAt != nil {
			deleted = " [deleted]"
		}
		fmt.Fprintf(w, "%s  %-*s  %-12s  %4d  %-15s  %s%s\n",
			ex.Key, maxDomain, ex.Domain, difficulty, ex.Iteration, ex.Status, day(ex.CreatedAt), deleted)
	}
	return nil
}

// ExerciseStatus prints one exercise with its review history.
func ExerciseStatus(w io.Writer, ex *store.Exercise, revs []store.Review) error {
	fmt.Fprintf(w, "Exercise:    %s\n", ex.Key)
	fmt.Fprintf(w, "Domain:      %s\n", ex.Domain)
	fmt.Fprintf(w, "Difficulty:  %s (%s)\n", ex.Difficulty, ex.Length)
	fmt.Fprintf(w, "Status:      %s\n", ex.Status)
	fmt.Fprintf(w, "Iteration:   %d\n", ex.Iteration)
	fmt.Fprintf(w, "Created:     %s\n", stamp(ex.CreatedAt))
	if ex.CompletedAt != nil {
		fmt.Fprintf(w, "Completed:   %s\n", stamp(*ex.CompletedAt))
	}
	if ex.DeletedAt != nil {
		fmt.Fprintf(w, "Abandoned:   %s\n", stamp(*ex.DeletedAt))
	}

	if len(revs) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nReviews:")
	for _, r := range revs {
		verdict := "insufficient"
		if r.Sufficient {
			verdict = "sufficient"
		}
		fmt.Fprintf(w, "  #%d  %s  %d/%d identified  %s\n",
			r.Iteration, stamp(r.CreatedAt), r.Identified, r.Total, verdict)
	}
	return nil
}

// Analysis prints a grading verdict. Missed problems are listed only for a
// final verdict; mid-loop they stay hidden so the next attempt is still a
// genuine review rather than a transcription.
func Analysis(w io.Writer, a review.Analysis, final bool) error {
	verdict := "insufficient"
	if a.Sufficient {
		verdict = "sufficient"
	}
	fmt.Fprintf(w, "Identified %d of %d problems (%.1f%%) - %s\n",
		a.IdentifiedCount, a.TotalProblems, a.IdentifiedPercent, verdict)
	if a.QualityScore > 0 {
		fmt.Fprintf(w, "Review quality: %.1f/100\n", a.QualityScore)
	}

	if texts := a.IdentifiedTexts(); len(texts) > 0 {
		fmt.Fprintln(w, "\nFound:")
		for _, t := range texts {
			fmt.Fprintf(w, "  + %s\n", t)
		}
	}

	if len(a.Missed) > 0 {
		if final {
			fmt.Fprintln(w, "\nMissed:")
			for _, t := range a.MissedTexts() {
				fmt.Fprintf(w, "  - %s\n", t)
			}
		} else {
			fmt.Fprintf(w, "\n%d problem(s) not yet found\n", len(a.Missed))
		}
	}

	if texts := a.FalsePositiveTexts(); len(texts) > 0 {
		fmt.Fprintln(w, "\nFalse positives:")
		for _, t := range texts {
			fmt.Fprintf(w, "  ! %s\n", t)
		}
	}

	if a.Feedback != "" {
		fmt.Fprintf(w, "\n%s\n", a.Feedback)
	}
	return nil
}

// PlantedErrors prints an exercise's error plan with descriptions.
func PlantedErrors(w io.Writer, sel []taxonomy.Selected) error {
	for i, s := range sel {
		fmt.Fprintf(w, "  %d. [%s] %s\n     %s\n", i+1, s.Category, s.Name, s.Description)
	}
	return nil
}

// Leaderboard prints the points table.
func Leaderboard(w io.Writer, entries []store.LeaderboardEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No users on the leaderboard yet")
		return nil
	}

	// Find max username length for alignment
	maxUser := 4 // minimum "USER"
	for _, en := range entries {
		if len(en.Username) > maxUser {
			maxUser = len(en.Username)
		}
	}

	fmt.Fprintf(w, "%4s  %-*s  %-6s  %6s  %6s\n", "RANK", maxUser, "USER", "LEVEL", "POINTS", "BADGES")
	for _, en := range entries {
		fmt.Fprintf(w, "%4d  %-*s  %-6s  %6d  %6d\n",
			en.Rank, maxUser, en.Username, en.Level, en.TotalPoints, en.BadgeCount)
	}
	return nil
}

// Badges prints earned badges with award dates, most recent first.
func Badges(w io.Writer, earned []store.UserBadge) error {
	if len(earned) == 0 {
		fmt.Fprintln(w, "No badges earned yet")
		return nil
	}
	for _, b := range earned {
		fmt.Fprintf(w, "%s %s (%s, %d pts)  earned %s\n    %s\n",
			b.Icon, b.Name, b.Difficulty, b.Points, day(b.AwardedAt), b.Description)
	}
	return nil
}

// BadgeCatalog prints the full badge catalog, marking earned badges.
func BadgeCatalog(w io.Writer, all []store.Badge, earned []store.UserBadge) error {
	have := make(map[string]bool, len(earned))
	for _, b := range earned {
		have[b.ID] = true
	}

	for _, b := range all {
		mark := " "
		if have[b.ID] {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s %s (%s, %s, %d pts)\n      %s\n",
			mark, b.Icon, b.Name, b.Category, b.Difficulty, b.Points, b.Description)
	}
	fmt.Fprintf(w, "\n%d of %d badges earned\n", len(earned), len(all))
	return nil
}

// Mastery prints per-category mastery counters.
func Mastery(w io.Writer, stats []store.CategoryStat) error {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No category stats yet - complete an exercise first")
		return nil
	}

	maxCat := 8 // minimum "CATEGORY"
	for _, s := range stats {
		if len(s.Category) > maxCat {
			maxCat = len(s.Category)
		}
	}

	fmt.Fprintf(w, "%-*s  %11s  %10s  %7s\n", maxCat, "CATEGORY", "ENCOUNTERED", "IDENTIFIED", "MASTERY")
	for _, s := range stats {
		fmt.Fprintf(w, "%-*s  %11d  %10d  %6.1f%%\n",
			maxCat, s.Category, s.Encountered, s.Identified, s.Mastery*100)
	}
	return nil
}

// Activities prints activity ledger rows, newest first.
func Activities(w io.Writer, acts []store.Activity) error {
	if len(acts) == 0 {
		fmt.Fprintln(w, "No activity recorded yet")
		return nil
	}

	maxType := 4 // minimum "TYPE"
	for _, a := range acts {
		if len(a.Type) > maxType {
			maxType = len(a.Type)
		}
	}

	for _, a := range acts {
		fmt.Fprintf(w, "%s  %-*s  %+5d  %s\n", stamp(a.CreatedAt), maxType, a.Type, a.Points, a.Details)
	}
	return nil
}

// Profile prints an account summary. rank may be nil when the user has no
// completed reviews yet.
func Profile(w io.Writer, u *store.User, rank *store.Rank, badges int) error {
	fmt.Fprintf(w, "Username:      %s\n", u.Username)
	if u.DisplayName != "" && u.DisplayName != u.Username {
		fmt.Fprintf(w, "Display name:  %s\n", u.DisplayName)
	}
	if u.Email != "" {
		fmt.Fprintf(w, "Email:         %s\n", u.Email)
	}
	fmt.Fprintf(w, "Level:         %s\n", u.Level)
	fmt.Fprintf(w, "Reviews:       %d\n", u.ReviewsDone)
	fmt.Fprintf(w, "Score:         %d\n", u.Score)
	fmt.Fprintf(w, "Points:        %d\n", u.TotalPoints)
	if u.ConsecutiveDays > 0 {
		fmt.Fprintf(w, "Streak:        %d day(s)\n", u.ConsecutiveDays)
	}
	fmt.Fprintf(w, "Badges:        %d\n", badges)
	if rank != nil {
		fmt.Fprintf(w, "Rank:          %d of %d\n", rank.Position, rank.TotalUsers)
	}
	fmt.Fprintf(w, "Member since:  %s\n", day(u.CreatedAt))
	return nil
}
