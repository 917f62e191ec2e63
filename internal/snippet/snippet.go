// Package snippet handles the Java code blocks that travel between the
// LLM and the student: extracting fenced code from completions, deriving
// the clean version shown for review from the annotated version, and
// numbering lines for grading prompts.
//
// Generation completions carry two fences: a ```java-annotated block where
// every planted error is marked with an "// ERROR:" comment, and a
// ```java-clean block with the marks removed. Models don't always comply,
// so extraction degrades through fallbacks rather than failing.
package snippet

import (
	"fmt"
	"strings"
)

// ErrorMarker tags planted errors in annotated code. Lines containing it
// are dropped to derive the clean version.
const ErrorMarker = "// ERROR:"

// fence is one fenced code block: its info string and body.
type fence struct {
	info string
	body string
}

// fences scans text line by line and returns every fenced block in order.
// Scanning by line instead of regex keeps tag matching exact: a "java"
// fence never swallows a "java-annotated" one.
func fences(text string) []fence {
	var out []fence
	var body []string
	var info string
	open := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if open {
				out = append(out, fence{info: info, body: strings.Join(body, "\n")})
				body = nil
				open = false
				continue
			}
			info = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			open = true
			continue
		}
		if open {
			body = append(body, line)
		}
	}
	return out
}

// find returns the first fence with the given info string.
func find(blocks []fence, info string) (string, bool) {
	for _, b := range blocks {
		if b.info == info {
			return b.body, true
		}
	}
	return "", false
}

// ExtractVersions pulls the annotated and clean code versions out of a
// generation completion.
//
// Preference order for the annotated version: a ```java-annotated fence,
// then a plain ```java fence, then the largest fence of any kind. The
// clean version prefers the ```java-clean fence and otherwise derives from
// the annotated code by stripping marker lines. Both results are empty
// when the completion carries no code at all.
func ExtractVersions(completion string) (annotated, clean string) {
	blocks := fences(completion)
	if len(blocks) == 0 {
		return "", ""
	}

	annotated, _ = find(blocks, "java-annotated")
	clean, _ = find(blocks, "java-clean")

	if annotated == "" {
		if body, ok := find(blocks, "java"); ok {
			annotated = body
		} else {
			// Last resort: the largest block, whatever its tag.
			for _, b := range blocks {
				if len(b.body) > len(annotated) {
					annotated = b.body
				}
			}
		}
	}

	if clean == "" && annotated != "" {
		clean = Strip(annotated)
	}
	return annotated, clean
}

// Strip derives clean code from annotated code by dropping every line
// containing the error marker.
func Strip(annotated string) string {
	lines := strings.Split(annotated, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.Contains(line, ErrorMarker) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// AddLineNumbers prefixes each line with its right-aligned number and a
// separator, the format grading prompts reference line positions in:
//
//	 9 | int total = 0;
//	10 | for (int i = 0; i <= items.length; i++) {
func AddLineNumbers(code string) string {
	lines := strings.Split(code, "\n")
	width := len(fmt.Sprintf("%d", len(lines)))

	numbered := make([]string, len(lines))
	for i, line := range lines {
		numbered[i] = fmt.Sprintf("%*d | %s", width, i+1, line)
	}
	return strings.Join(numbered, "\n")
}

// Complexity describes the expected program structure for a code length,
// used verbatim in generation prompts.
func Complexity(length string) string {
	switch strings.ToLower(length) {
	case "short":
		return "1 simple class with 1-2 basic methods (15-30 lines total)"
	case "long":
		return "1-2 classes with 4-8 methods and clear relationships (100-150 lines total)"
	default:
		return "1 class with 3-5 methods of moderate complexity (40-80 lines total)"
	}
}

// ErrorCountForDifficulty returns the default number of planted errors for
// a difficulty level when config doesn't say otherwise.
func ErrorCountForDifficulty(difficulty string) int {
	switch strings.ToLower(difficulty) {
	case "easy":
		return 2
	case "hard":
		return 6
	default:
		return 4
	}
}
