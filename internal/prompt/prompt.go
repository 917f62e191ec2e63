// Package prompt builds the instruction text sent to LLM providers.
//
// Each builder fills one fixed template with exercise data: code
// generation, implementation checking, regeneration after a failed check,
// review analysis, per-attempt guidance, and the final report. Templates
// spell out an exact output contract (fenced code versions, JSON shapes)
// so the rest of the pipeline can parse completions mechanically.
package prompt

import (
	"fmt"
	"strings"

	"github.com/jpl-au/revdrill/internal/snippet"
	"github.com/jpl-au/revdrill/internal/taxonomy"
)

// Attempt is one scored review attempt, oldest first, used for progress
// tracking in the final report.
type Attempt struct {
	Found    int
	Accuracy float64
}

// Generation builds the prompt that produces a Java program with the
// selected errors planted in it.
func Generation(length, difficulty, domain string, selected []taxonomy.Selected) string {
	if domain == "" {
		domain = "general"
	}
	return fmt.Sprintf(generationTemplate,
		length,
		domain,
		len(selected),
		snippet.Complexity(length),
		difficultyInstructions(difficulty),
		strings.Join(instructionList(selected, true), "\n\n"),
		difficulty,
	)
}

// Evaluation builds the prompt that checks generated code for the
// requested errors and reports findings as JSON.
func Evaluation(code string, selected []taxonomy.Selected) string {
	return fmt.Sprintf(evaluationTemplate,
		code,
		len(selected),
		strings.Join(instructionList(selected, false), "\n"),
	)
}

// Regeneration builds the prompt that revises code which failed the
// implementation check. missing and found are the evaluation's
// descriptions of absent and correctly planted errors; total is the
// number of errors the revised code must contain.
func Regeneration(code, domain string, missing, found []string, total int) string {
	missingText := bullets(missing, "No missing errors - all requested errors are already implemented.")
	foundText := bullets(found, "No correctly implemented errors found.")
	return fmt.Sprintf(regenerationTemplate, total, domain, code, missingText, foundText)
}

// ReviewAnalysis builds the prompt that scores a student review against
// the known problems and reports the analysis as JSON.
func ReviewAnalysis(code string, problems []string, review string) string {
	return fmt.Sprintf(reviewAnalysisTemplate,
		code,
		len(problems),
		bullets(problems, ""),
		review,
	)
}

// Guidance builds the prompt that produces short targeted advice between
// review attempts.
func Guidance(iteration, maxIterations, identified, total int, accuracy float64, found, missed []string) string {
	remaining := maxIterations - iteration
	return fmt.Sprintf(guidanceTemplate,
		iteration,
		maxIterations,
		identified,
		total,
		percent(accuracy),
		remaining,
		bullets(found, "None"),
		bullets(missed, "None - great job!"),
	)
}

// Report builds the prompt that produces the final markdown feedback
// report for a completed exercise.
func Report(total int, identified, missed, falsePositives []string, attempts []Attempt) string {
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(len(identified)) / float64(total) * 100
	}
	return fmt.Sprintf(reportTemplate,
		total,
		len(identified),
		percent(accuracy),
		len(missed),
		len(falsePositives),
		bullets(identified, "None - the student didn't identify any correct issues."),
		bullets(missed, "None - the student identified all issues correctly!"),
		bullets(falsePositives, "None - the student didn't identify any false issues."),
		progressInfo(attempts, total),
	)
}

func difficultyInstructions(difficulty string) string {
	switch strings.ToLower(difficulty) {
	case "easy":
		return beginnerInstructions
	case "medium":
		return intermediateInstructions
	default:
		return advancedInstructions
	}
}

// instructionList formats selected errors as a numbered list. withGuide
// appends each definition's implementation guide on its own line.
func instructionList(selected []taxonomy.Selected, withGuide bool) []string {
	entries := make([]string, 0, len(selected))
	for i, s := range selected {
		entry := fmt.Sprintf("%d. %s - %s: %s", i+1, strings.ToUpper(s.Category), s.Name, s.Description)
		if withGuide && s.Guide != "" {
			entry += fmt.Sprintf("\nImplementation: %s", s.Guide)
		}
		entries = append(entries, entry)
	}
	return entries
}

// bullets formats items as a dash list, or returns empty when there are
// no items.
func bullets(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

// progressInfo summarises accuracy across attempts. Empty unless there
// was more than one attempt.
func progressInfo(attempts []Attempt, total int) string {
	if len(attempts) < 2 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Progress Across Attempts\n\n")
	for i, a := range attempts {
		fmt.Fprintf(&b, "Attempt %d: Found %d/%d issues (%s%%)\n", i+1, a.Found, total, percent(a.Accuracy))
	}
	first := attempts[0]
	last := attempts[len(attempts)-1]
	if last.Accuracy > first.Accuracy {
		fmt.Fprintf(&b, "\nImprovement: +%s%% from first attempt\n", percent(last.Accuracy-first.Accuracy))
	}
	return b.String()
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f", f)
}
