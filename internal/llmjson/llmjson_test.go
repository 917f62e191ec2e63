package llmjson

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		want       string
		wantErr    bool
	}{
		{
			name:       "bare object",
			completion: `{"valid": true, "feedback": "ok"}`,
			want:       `{"valid": true, "feedback": "ok"}`,
		},
		{
			name:       "bare object with surrounding whitespace",
			completion: "\n\n  {\"valid\": false}\n",
			want:       `{"valid": false}`,
		},
		{
			name: "json fence",
			completion: "Here is my analysis:\n" +
				"```json\n{\"identified_count\": 3}\n```\n" +
				"Let me know if you need more.",
			want: `{"identified_count": 3}`,
		},
		{
			name:       "untagged fence",
			completion: "```\n{\"valid\": true}\n```",
			want:       `{"valid": true}`,
		},
		{
			name:       "object buried in prose",
			completion: `Sure! The result is {"found_errors": [], "valid": false} as requested.`,
			want:       `{"found_errors": [], "valid": false}`,
		},
		{
			name:       "trailing commas repaired",
			completion: "```json\n{\"missing_errors\": [\"a\", \"b\",], \"valid\": true,}\n```",
			want:       `{"missing_errors": ["a", "b"], "valid": true}`,
		},
		{
			name:       "braces inside strings do not break scanning",
			completion: `prefix {"feedback": "use braces { } carefully", "valid": true} suffix`,
			want:       `{"feedback": "use braces { } carefully", "valid": true}`,
		},
		{
			name:       "no json at all",
			completion: "I could not produce a structured answer.",
			wantErr:    true,
		},
		{
			name:       "empty completion",
			completion: "",
			wantErr:    true,
		},
		{
			name:       "unbalanced object rejected",
			completion: `{"valid": true`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Extract(tt.completion)

			if tt.wantErr {
				if !errors.Is(err, ErrNoJSON) {
					t.Errorf("Extract() error = %v, want ErrNoJSON", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if string(raw) != tt.want {
				t.Errorf("Extract() = %s, want %s", raw, tt.want)
			}
		})
	}
}

func TestUnmarshal(t *testing.T) {
	completion := "The evaluation follows.\n" +
		"```json\n" +
		`{"found_errors": [{"error_name": "Off-by-one error"}], "valid": true, "feedback": "all present"}` +
		"\n```"

	var result struct {
		FoundErrors []struct {
			ErrorName string `json:"error_name"`
		} `json:"found_errors"`
		Valid    bool   `json:"valid"`
		Feedback string `json:"feedback"`
	}
	if err := Unmarshal(completion, &result); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !result.Valid {
		t.Error("Valid = false, want true")
	}
	if len(result.FoundErrors) != 1 || result.FoundErrors[0].ErrorName != "Off-by-one error" {
		t.Errorf("FoundErrors = %+v, want one entry", result.FoundErrors)
	}
}

func TestFieldRescue(t *testing.T) {
	// A completion too mangled for Extract: unbalanced braces around
	// otherwise readable fields.
	mangled := `Analysis {{ "identified_count": 3, "total_problems": 6,
"identified_percentage": 50.0, "review_sufficient": false,
"missed_problems": ["Unclosed resource", "Off-by-one error"],
"feedback": "Check loop \"bounds\" next time"`

	if _, err := Extract(mangled); !errors.Is(err, ErrNoJSON) {
		t.Fatalf("Extract() error = %v, want ErrNoJSON for mangled input", err)
	}

	if n, ok := Int(mangled, "identified_count"); !ok || n != 3 {
		t.Errorf("Int(identified_count) = %d, %v", n, ok)
	}
	if n, ok := Int(mangled, "total_problems"); !ok || n != 6 {
		t.Errorf("Int(total_problems) = %d, %v", n, ok)
	}
	if f, ok := Float(mangled, "identified_percentage"); !ok || f != 50.0 {
		t.Errorf("Float(identified_percentage) = %v, %v", f, ok)
	}
	if b, ok := Bool(mangled, "review_sufficient"); !ok || b {
		t.Errorf("Bool(review_sufficient) = %v, %v", b, ok)
	}

	raw, ok := Array(mangled, "missed_problems")
	if !ok {
		t.Fatal("Array(missed_problems) not found")
	}
	var missed []string
	if err := json.Unmarshal(raw, &missed); err != nil {
		t.Fatalf("unmarshal rescued array: %v", err)
	}
	if len(missed) != 2 || missed[0] != "Unclosed resource" {
		t.Errorf("missed = %v", missed)
	}

	if s, ok := String(mangled, "feedback"); !ok || s != `Check loop "bounds" next time` {
		t.Errorf("String(feedback) = %q, %v", s, ok)
	}
}

func TestFieldRescueMissingKeys(t *testing.T) {
	text := `{"other": 1}`

	if _, ok := Int(text, "identified_count"); ok {
		t.Error("Int() found a missing key")
	}
	if _, ok := Array(text, "missed_problems"); ok {
		t.Error("Array() found a missing key")
	}
	if _, ok := Bool(text, "review_sufficient"); ok {
		t.Error("Bool() found a missing key")
	}
	if _, ok := String(text, "feedback"); ok {
		t.Error("String() found a missing key")
	}
}
