// user.go implements account input validation.
//
// Separated because account inputs have their own rules distinct from
// exercise settings. Usernames become part of stored records and CLI
// arguments, so the character set is deliberately narrow.
//
// Design: The email check is structural only (one @, non-empty local and
// domain parts). revdrill never sends mail; the address is profile data,
// so full RFC validation would be wasted strictness.

package validate

import (
	"fmt"
	"strings"
)

const (
	maxUsernameLen = 32
	minPasswordLen = 8
	maxPasswordLen = 128
)

// Username validates an account name.
//
// Validation rules:
//   - Empty names rejected
//   - Max 32 characters (keeps listings and log lines readable)
//   - Lowercase letters, digits, '-' and '_' only; must start with a letter
func Username(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty username", ErrInvalidUsername)
	}
	if len(name) > maxUsernameLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidUsername, maxUsernameLen)
	}
	if name[0] < 'a' || name[0] > 'z' {
		return fmt.Errorf("%w: must start with a lowercase letter", ErrInvalidUsername)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return fmt.Errorf("%w: character %q not allowed", ErrInvalidUsername, r)
		}
	}
	return nil
}

// Email validates the shape of an email address: exactly one @ with
// non-empty parts either side, no whitespace or null bytes.
func Email(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: empty email", ErrInvalidEmail)
	}
	if strings.ContainsAny(addr, " \t\n\x00") {
		return fmt.Errorf("%w: whitespace not allowed", ErrInvalidEmail)
	}
	at := strings.Count(addr, "@")
	if at != 1 {
		return fmt.Errorf("%w: expected exactly one @", ErrInvalidEmail)
	}
	parts := strings.SplitN(addr, "@", 2)
	if parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: missing local or domain part", ErrInvalidEmail)
	}
	if !strings.Contains(parts[1], ".") {
		return fmt.Errorf("%w: domain needs at least one dot", ErrInvalidEmail)
	}
	return nil
}

// Password validates password length bounds before hashing. Content is not
// restricted; any byte sequence within bounds is acceptable.
func Password(pw string) error {
	if len(pw) < minPasswordLen {
		return fmt.Errorf("%w: shorter than %d characters", ErrInvalidPassword, minPasswordLen)
	}
	if len(pw) > maxPasswordLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidPassword, maxPasswordLen)
	}
	return nil
}
