// Package duration provides parsing for human-readable retention windows.
//
// Abandoned-exercise retention is specified as "7d" (days), "4w" (weeks) or
// "3m" (months) rather than Go's time.Duration format, which has no unit
// larger than hours.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var pattern = regexp.MustCompile(`^(\d+)([dwm])$`)

const day = 24 * time.Hour

// units maps a suffix to its span. A month is a fixed 30 days; retention
// cutoffs do not need calendar arithmetic.
var units = map[string]time.Duration{
	"d": day,
	"w": 7 * day,
	"m": 30 * day,
}

// Parse parses duration strings in the format: Nd (days), Nw (weeks), Nm (months).
// Examples: "7d" = 7 days, "4w" = 4 weeks, "3m" = 3 months (30 days).
func Parse(s string) (time.Duration, error) {
	matches := pattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid duration format: %s (use 7d, 4w, or 3m)", s)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		// Pattern ensures digits only, but handle error for correctness
		return 0, fmt.Errorf("invalid number: %w", err)
	}

	return time.Duration(num) * units[matches[2]], nil
}
