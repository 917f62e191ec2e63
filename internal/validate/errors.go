// errors.go defines sentinel errors for validation failures.
//
// Separated to centralise error definitions. These errors are used with
// errors.Is() for type-safe error checking. Each error represents a
// distinct validation failure category.
//
// Design: Sentinel errors (not error types) because validation failures
// don't carry additional context beyond the category. Detailed messages
// are provided by wrapping these with fmt.Errorf in the validation functions.

package validate

import "errors"

var (
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidLength     = errors.New("invalid code length")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrEmptyReview       = errors.New("empty review")
	ErrReviewTooLarge    = errors.New("review too large")
)
