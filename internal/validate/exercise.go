// exercise.go implements exercise setting validation.
//
// Difficulty and code length are closed enumerations shared by config,
// CLI flags and the store; validating here keeps the accepted sets in
// one place.

package validate

import (
	"fmt"
	"strings"
)

// Difficulties lists the accepted difficulty levels in ascending order.
var Difficulties = []string{"easy", "medium", "hard"}

// CodeLengths lists the accepted generated-code lengths in ascending order.
var CodeLengths = []string{"short", "medium", "long"}

// Difficulty validates a difficulty level, case-insensitively, and returns
// the canonical lowercase form.
func Difficulty(d string) (string, error) {
	low := strings.ToLower(d)
	for _, v := range Difficulties {
		if low == v {
			return low, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want easy, medium or hard)", ErrInvalidDifficulty, d)
}

// CodeLength validates a generated-code length, case-insensitively, and
// returns the canonical lowercase form.
func CodeLength(l string) (string, error) {
	low := strings.ToLower(l)
	for _, v := range CodeLengths {
		if low == v {
			return low, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want short, medium or long)", ErrInvalidLength, l)
}

// CategoryName validates a category label. Existence in the catalog is the
// caller's concern; this only rejects clearly dangerous input.
//
// Validation rules:
//   - Empty names rejected (meaningless selection)
//   - Null bytes rejected (security: prevents injection in queries/storage)
func CategoryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty category name", ErrInvalidCategory)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: null byte in category name", ErrInvalidCategory)
	}
	return nil
}

// ReviewText validates submitted review size.
//
// Validation rules:
//   - Whitespace-only reviews rejected (nothing to grade)
//   - Max length enforced if maxLen > 0 (0 means no limit)
func ReviewText(text string, maxLen int64) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyReview
	}
	if maxLen > 0 && int64(len(text)) > maxLen {
		return ErrReviewTooLarge
	}
	return nil
}
