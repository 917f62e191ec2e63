package prompt_test

import (
	"strings"
	"testing"

	"github.com/jpl-au/revdrill/internal/prompt"
	"github.com/jpl-au/revdrill/internal/taxonomy"
	"github.com/stretchr/testify/assert"
)

func sampleSelection() []taxonomy.Selected {
	return []taxonomy.Selected{
		{
			Category: "Logical",
			Definition: taxonomy.Definition{
				Name:        "Off-by-one error",
				Description: "Loop boundaries that are off by one",
				Guide:       "Use <= where < is correct in a loop condition",
			},
		},
		{
			Category: "Code Quality",
			Definition: taxonomy.Definition{
				Name:        "Magic numbers",
				Description: "Unexplained numeric literals",
				Guide:       "Use a bare literal like 86400 instead of a named constant",
			},
		},
	}
}

func TestGeneration(t *testing.T) {
	p := prompt.Generation("short", "easy", "banking", sampleSelection())

	assert.Contains(t, p, "Generate a short Java program for a banking system")
	assert.Contains(t, p, "EXACTLY 2 intentional errors")
	assert.Contains(t, p, "1 simple class with 1-2 basic methods (15-30 lines total)")
	assert.Contains(t, p, "BEGINNER-FRIENDLY CODE REQUIREMENTS")
	assert.Contains(t, p, "1. LOGICAL - Off-by-one error: Loop boundaries that are off by one")
	assert.Contains(t, p, "Implementation: Use <= where < is correct in a loop condition")
	assert.Contains(t, p, "2. CODE QUALITY - Magic numbers")
	assert.Contains(t, p, "```java-annotated")
	assert.Contains(t, p, "```java-clean")
	assert.Contains(t, p, "the short/easy complexity requirements")
}

func TestGeneration_DefaultsDomain(t *testing.T) {
	p := prompt.Generation("medium", "hard", "", sampleSelection())

	assert.Contains(t, p, "for a general system")
	assert.Contains(t, p, "ADVANCED-LEVEL CODE REQUIREMENTS")
	assert.Contains(t, p, "1 class with 3-5 methods of moderate complexity (40-80 lines total)")
}

func TestEvaluation(t *testing.T) {
	p := prompt.Evaluation("class Account {}", sampleSelection())

	assert.Contains(t, p, "EXACTLY 2 specific errors")
	assert.Contains(t, p, "```java\nclass Account {}\n```")
	assert.Contains(t, p, "THE 2 SPECIFIC ERRORS THAT SHOULD BE PRESENT:")
	assert.Contains(t, p, "1. LOGICAL - Off-by-one error: Loop boundaries that are off by one")
	// The evaluation list is compact: no implementation guides.
	assert.NotContains(t, p, "Implementation: Use <=")
	assert.Contains(t, p, `"found_errors"`)
	assert.Contains(t, p, `"missing_errors"`)
}

func TestRegeneration(t *testing.T) {
	missing := []string{"LOGICAL - Off-by-one error"}
	found := []string{"CODE QUALITY - Magic numbers"}

	p := prompt.Regeneration("class A {}", "banking", missing, found, 2)

	assert.Contains(t, p, "EXACTLY 2 intentional errors")
	assert.Contains(t, p, "for a banking application")
	assert.Contains(t, p, "- LOGICAL - Off-by-one error")
	assert.Contains(t, p, "- CODE QUALITY - Magic numbers")
	assert.Contains(t, p, "```java\nclass A {}\n```")
	assert.Contains(t, p, "```java-annotated")
}

func TestRegeneration_EmptyLists(t *testing.T) {
	p := prompt.Regeneration("class A {}", "logging", nil, nil, 4)

	assert.Contains(t, p, "No missing errors - all requested errors are already implemented.")
	assert.Contains(t, p, "No correctly implemented errors found.")
}

func TestReviewAnalysis(t *testing.T) {
	problems := []string{
		"Java Error - Off-by-one error: Loop boundaries that are off by one (Category: Logical)",
		"Java Error - Magic numbers: Unexplained numeric literals (Category: Code Quality)",
	}

	p := prompt.ReviewAnalysis("class A {}", problems, "Line 3 loops one past the end.")

	assert.Contains(t, p, "2 KNOWN ISSUES IN THE CODE:")
	assert.Contains(t, p, "- Java Error - Off-by-one error")
	assert.Contains(t, p, "Line 3 loops one past the end.")
	assert.Contains(t, p, `"total_problems": 2,`)
	assert.Contains(t, p, `"identified_problems"`)
	assert.Contains(t, p, `"review_sufficient"`)
	assert.Contains(t, p, ">= 60% of issues")
}

func TestGuidance(t *testing.T) {
	found := []string{"Off-by-one error"}
	missed := []string{"Magic numbers", "Unclosed resource"}

	p := prompt.Guidance(1, 3, 1, 3, 33.3, found, missed)

	assert.Contains(t, p, "review attempt 1 of 3")
	assert.Contains(t, p, "Found 1/3 issues (33.3%)")
	assert.Contains(t, p, "2 review attempts remaining")
	assert.Contains(t, p, "- Off-by-one error")
	assert.Contains(t, p, "- Magic numbers\n- Unclosed resource")
}

func TestGuidance_NothingFound(t *testing.T) {
	p := prompt.Guidance(2, 3, 0, 4, 0, nil, []string{"Magic numbers"})

	assert.Contains(t, p, "Found 0/4 issues (0.0%)")
	assert.Contains(t, p, "CORRECTLY IDENTIFIED ISSUES:\nNone\n")
}

func TestReport(t *testing.T) {
	identified := []string{"Off-by-one error", "Magic numbers"}
	missed := []string{"Unclosed resource"}
	falsePositives := []string{"Claimed the constructor was missing"}
	attempts := []prompt.Attempt{
		{Found: 1, Accuracy: 33.3},
		{Found: 2, Accuracy: 66.7},
	}

	p := prompt.Report(3, identified, missed, falsePositives, attempts)

	assert.Contains(t, p, "Total issues in the code: 3")
	assert.Contains(t, p, "Issues correctly identified: 2 (66.7%)")
	assert.Contains(t, p, "Issues missed: 1")
	assert.Contains(t, p, "False positives (things incorrectly flagged as issues): 1")
	assert.Contains(t, p, "## Progress Across Attempts")
	assert.Contains(t, p, "Attempt 1: Found 1/3 issues (33.3%)")
	assert.Contains(t, p, "Attempt 2: Found 2/3 issues (66.7%)")
	assert.Contains(t, p, "Improvement: +33.4% from first attempt")
}

func TestReport_SingleAttemptHasNoProgress(t *testing.T) {
	p := prompt.Report(2, []string{"Off-by-one error"}, []string{"Magic numbers"}, nil,
		[]prompt.Attempt{{Found: 1, Accuracy: 50.0}})

	assert.False(t, strings.Contains(p, "Progress Across Attempts"))
	assert.Contains(t, p, "None - the student didn't identify any false issues.")
}
