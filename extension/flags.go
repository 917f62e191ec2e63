// flags.go defines constants for all CLI flag names.
//
// Using constants instead of string literals prevents typos and enables
// compile-time checking when flag names are used in both Flags().Type()
// definitions and GetType() calls.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "dry-run" -> FlagDryRun).

package extension

// Flag name constants for CLI commands.
// These are used with cobra's Flags().Type() and GetType() methods.
const (
	// Boolean flags

	FlagAll       = "all"       // Include all items (every user, full catalog, abandoned exercises)
	FlagAnnotated = "annotated" // Show annotated code instead of a diff
	FlagDiff      = "diff"      // Show diff output
	FlagDryRun    = "dry-run"   // Preview without making changes
	FlagLocal     = "local"     // Use local scope (gitignored / .revdrill config)
	FlagGlobal    = "global"    // Use global scope (~/.revdrill config)
	FlagRaw       = "raw"       // Raw output without markdown rendering
	FlagShare     = "share"     // Mark as shared (committed)

	// String flags

	FlagCategory   = "category"   // Taxonomy category filter/selection
	FlagDifficulty = "difficulty" // Exercise difficulty (easy, medium, hard)
	FlagDisplay    = "display"    // Display name for an account
	FlagDomain     = "domain"     // Business domain for generated code
	FlagEmail      = "email"      // Account email address
	FlagError      = "error"      // Specific taxonomy error to plant
	FlagFile       = "file"       // Read input from / write output to a file
	FlagLength     = "length"     // Exercise length (short, medium, long)
	FlagOlderThan  = "older-than" // Duration threshold
	FlagStatus     = "status"     // Exercise lifecycle state filter
	FlagUsername   = "username"   // Account login name

	// Integer flags

	FlagCount = "count" // Number of errors to plant
	FlagLimit = "limit" // Limit number of results
)
