// Package llmjson extracts structured JSON from LLM completions.
//
// Models asked to answer in JSON rarely return only JSON. Payloads arrive
// wrapped in markdown fences, prefixed with prose, or carrying trailing
// commas that strict parsers reject. Extraction degrades through
// fallbacks instead of failing on the first malformed byte:
//
//  1. the whole completion, if it is a bare object
//  2. the body of a ```json fence
//  3. the body of any other fence that holds an object
//  4. any balanced {...} found by scanning the raw text
//
// Each candidate has trailing commas stripped before validation. When no
// candidate parses, callers can still rescue individual fields with the
// typed field helpers, which pattern-match one "key": value pair at a
// time.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoJSON indicates the completion contained no parseable JSON object.
var ErrNoJSON = errors.New("no JSON object in completion")

var (
	jsonFence = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFence  = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\\s*(.*?)\\s*```")

	trailingObjComma = regexp.MustCompile(`,\s*}`)
	trailingArrComma = regexp.MustCompile(`,\s*]`)
)

// Extract returns the first parseable JSON object found in the
// completion, or ErrNoJSON.
func Extract(completion string) (json.RawMessage, error) {
	var candidates []string

	if trimmed := strings.TrimSpace(completion); strings.HasPrefix(trimmed, "{") {
		candidates = append(candidates, trimmed)
	}
	for _, m := range jsonFence.FindAllStringSubmatch(completion, -1) {
		candidates = append(candidates, m[1])
	}
	for _, m := range anyFence.FindAllStringSubmatch(completion, -1) {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, objects(completion)...)

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if !strings.HasPrefix(c, "{") {
			continue
		}
		c = stripTrailingCommas(c)
		if json.Valid([]byte(c)) {
			return json.RawMessage(c), nil
		}
	}
	return nil, ErrNoJSON
}

// Unmarshal extracts the JSON object from the completion and decodes it
// into v.
func Unmarshal(completion string, v any) error {
	raw, err := Extract(completion)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding extracted JSON: %w", err)
	}
	return nil
}

// stripTrailingCommas removes commas directly before a closing brace or
// bracket. Not string-literal aware, which matches how tolerant this
// needs to be in practice.
func stripTrailingCommas(s string) string {
	s = trailingObjComma.ReplaceAllString(s, "}")
	s = trailingArrComma.ReplaceAllString(s, "]")
	return s
}

// objects returns every balanced top-level {...} span in the text, found
// by brace counting that skips string literals.
func objects(text string) []string {
	var out []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end := matchBrace(text, i)
		if end < 0 {
			continue
		}
		out = append(out, text[i:end+1])
		i = end
	}
	return out
}

// matchBrace returns the index of the brace closing the one at start, or
// -1 when the text ends first.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// keyPattern builds a regexp matching `"key": <value>` where value is
// captured by the given expression. Flags apply to the whole pattern.
func keyPattern(flags, key, value string) *regexp.Regexp {
	return regexp.MustCompile(flags + `"` + regexp.QuoteMeta(key) + `"\s*:\s*` + value)
}

// Array rescues a named array field from malformed JSON. The returned
// RawMessage is valid JSON ready to unmarshal.
func Array(completion, key string) (json.RawMessage, bool) {
	m := keyPattern(`(?s)`, key, `(\[.*?\])`).FindStringSubmatch(completion)
	if m == nil {
		return nil, false
	}
	raw := stripTrailingCommas(m[1])
	if !json.Valid([]byte(raw)) {
		return nil, false
	}
	return json.RawMessage(raw), true
}

// Int rescues a named integer field from malformed JSON.
func Int(completion, key string) (int, bool) {
	m := keyPattern(``, key, `(-?[0-9]+)`).FindStringSubmatch(completion)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float rescues a named number field from malformed JSON.
func Float(completion, key string) (float64, bool) {
	m := keyPattern(``, key, `(-?[0-9]+(?:\.[0-9]+)?)`).FindStringSubmatch(completion)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool rescues a named boolean field from malformed JSON.
func Bool(completion, key string) (bool, bool) {
	m := keyPattern(`(?i)`, key, `(true|false)`).FindStringSubmatch(completion)
	if m == nil {
		return false, false
	}
	return strings.EqualFold(m[1], "true"), true
}

// String rescues a named string field from malformed JSON. Escape
// sequences inside the value are decoded.
func String(completion, key string) (string, bool) {
	m := keyPattern(``, key, `("(?:[^"\\]|\\.)*")`).FindStringSubmatch(completion)
	if m == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal([]byte(m[1]), &s); err != nil {
		return "", false
	}
	return s, true
}
