// Package validate provides input validation for revdrill's domain types.
//
// This package enforces security and data integrity rules at the boundary
// between user input and the storage layer. Each validation function returns
// nil on success or a descriptive error on failure.
//
// # Design Philosophy
//
// Validation is minimal by design. We reject clearly dangerous inputs (null
// bytes, excessive sizes) and values outside closed enumerations, but avoid
// overly restrictive rules that would limit legitimate use cases.
//
// # Validation Functions
//
// Username, Email and Password validate account inputs before hashing and
// storage. Difficulty and CodeLength validate the closed exercise settings.
// CategoryName validates category labels (existence is the catalog's job).
// ReviewText validates submitted review size.
//
// # Error Handling
//
// All validation errors wrap one of the sentinel errors defined in errors.go
// (ErrInvalidUsername, ErrInvalidDifficulty, etc.). Use errors.Is() for
// type-safe error checking:
//
//	if errors.Is(err, validate.ErrInvalidUsername) {
//	    // handle invalid username
//	}
package validate
