package diff

import (
	"fmt"
	"strings"
	"testing"
)

func TestCompute_InsertedMarkers(t *testing.T) {
	clean := "public int total(int[] xs) {\n" +
		"    int sum = 0;\n" +
		"    for (int i = 0; i <= xs.length; i++) {\n" +
		"        sum += xs[i];\n" +
		"    }\n" +
		"    return sum;\n" +
		"}\n"
	annotated := strings.Replace(clean,
		"    for (int i",
		"    // ERROR: Off-by-one error\n    for (int i", 1)

	r := Compute(clean, annotated, "clean", "annotated")

	if r.Old != "clean" {
		t.Errorf("Old = %q, want %q", r.Old, "clean")
	}
	if r.New != "annotated" {
		t.Errorf("New = %q, want %q", r.New, "annotated")
	}
	if !strings.Contains(r.Diff, "+ ") {
		t.Errorf("Diff has no insertions:\n%s", r.Diff)
	}
	if !strings.Contains(r.Diff, "// ERROR: Off-by-one error") {
		t.Errorf("Diff missing the planted marker:\n%s", r.Diff)
	}
}

func TestCompute_Identical(t *testing.T) {
	src := "class Empty {}\n"
	r := Compute(src, src, "a", "b")
	if strings.Contains(r.Diff, "+ ") || strings.Contains(r.Diff, "- ") {
		t.Errorf("identical inputs produced changes:\n%s", r.Diff)
	}
}

func TestCompute_CollapsesLongEqualSections(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&body, "    int line%d = %d;\n", i, i)
	}
	clean := "void run() {\n" + body.String() + "}\n"
	annotated := clean + "// ERROR: trailing\n"

	r := Compute(clean, annotated, "clean", "annotated")
	if !strings.Contains(r.Diff, "  ...\n") {
		t.Errorf("long equal section not collapsed:\n%s", r.Diff)
	}
	if !strings.Contains(r.Diff, "// ERROR: trailing") {
		t.Errorf("Diff missing the appended marker:\n%s", r.Diff)
	}
}

func TestFormat_Header(t *testing.T) {
	r := Result{Old: "clean", New: "annotated", Diff: "+ // ERROR: x\n"}
	got := r.Format(false)
	want := "--- clean\n+++ annotated\n+ // ERROR: x\n"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestColourise(t *testing.T) {
	d := "- old line\n+ new line\n  same\n"
	got := Colourise(d)
	if !strings.Contains(got, "\033[31m- old line\033[0m") {
		t.Errorf("deletions not coloured red: %q", got)
	}
	if !strings.Contains(got, "\033[32m+ new line\033[0m") {
		t.Errorf("insertions not coloured green: %q", got)
	}
	if strings.Contains(got, "\033[31m  same") || strings.Contains(got, "\033[32m  same") {
		t.Errorf("context line coloured: %q", got)
	}
}
