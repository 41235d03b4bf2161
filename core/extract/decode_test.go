package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "collapses whitespace", input: "{\n\t\"a\":   1\n}", want: `{ "a": 1 }`},
		{name: "trailing comma before brace", input: `{"a": 1,}`, want: `{"a": 1}`},
		{name: "trailing comma before bracket", input: `[1, 2, ]`, want: `[1, 2]`},
		{name: "trailing comma across newline", input: "{\"a\": [1,\n],\n}", want: `{"a": [1]}`},
		{name: "inner commas kept", input: `{"a": 1, "b": 2}`, want: `{"a": 1, "b": 2}`},
		{name: "trims ends", input: "  {}  ", want: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantStrategy string
		wantKeys     []string
	}{
		{
			name:         "valid object",
			input:        `{"questions": []}`,
			wantStrategy: StrategyStrict,
			wantKeys:     []string{"questions"},
		},
		{
			name:         "trailing comma in object",
			input:        `{"questions": [{"question":"2+2?","correct_answer":"4",}]}`,
			wantStrategy: StrategyStrict,
			wantKeys:     []string{"questions"},
		},
		{
			name:         "leading and trailing prose",
			input:        `Sure! {"questions":[{"question":"x","correct_answer":"y"}]} Hope that helps!`,
			wantStrategy: StrategySlice,
			wantKeys:     []string{"questions"},
		},
		{
			name:         "prose and trailing comma together",
			input:        "Output:\n{\"title\": \"Plants\", \"questions\": [],}\nEnd",
			wantStrategy: StrategySlice,
			wantKeys:     []string{"title", "questions"},
		},
		{
			name:         "raw newline inside a string value",
			input:        "{\"question\": \"line one\nline two\"}",
			wantStrategy: StrategyStrict,
			wantKeys:     []string{"question"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy, err := decodeCandidate(tt.input, nil)
			if err != nil {
				t.Fatalf("decodeCandidate() unexpected error: %v", err)
			}
			if strategy != tt.wantStrategy {
				t.Errorf("decodeCandidate() strategy = %q, want %q", strategy, tt.wantStrategy)
			}
			for _, key := range tt.wantKeys {
				if _, ok := got[key]; !ok {
					t.Errorf("decodeCandidate() result missing key %q: %v", key, got)
				}
			}

			public, err := Decode(tt.input)
			if err != nil || len(public) != len(got) {
				t.Errorf("Decode() = %v, %v; want %v", public, err, got)
			}
		})
	}
}

func TestDecode_Failure(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unquoted keys", input: `{questions: []}`},
		{name: "truncated output", input: `{"questions": [{"question": "x"`},
		{name: "top level array", input: `[1, 2, 3]`},
		{name: "null", input: `null`},
		{name: "braces in wrong order", input: `} nothing {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Decode(%q) error = %v, want decode failure", tt.input, err)
			}

			var failure *Failure
			errors.As(err, &failure)
			if failure.Reason == "" {
				t.Error("Decode() failure has no reason")
			}
			if failure.Diagnostic.ContentLength != len(tt.input) {
				t.Errorf("ContentLength = %d, want %d", failure.Diagnostic.ContentLength, len(tt.input))
			}
			if failure.Diagnostic.Preview != tt.input {
				t.Errorf("Preview = %q, want %q", failure.Diagnostic.Preview, tt.input)
			}
		})
	}
}

func TestDecode_FailurePreviewIsBounded(t *testing.T) {
	input := "{" + strings.Repeat("x", 500)

	_, err := Decode(input)

	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Decode() error = %T, want *Failure", err)
	}
	if len(failure.Diagnostic.Preview) != PreviewLength {
		t.Errorf("Preview length = %d, want %d", len(failure.Diagnostic.Preview), PreviewLength)
	}
	if failure.Diagnostic.ContentLength != len(input) {
		t.Errorf("ContentLength = %d, want %d", failure.Diagnostic.ContentLength, len(input))
	}
}

func TestDecodeWith_Repairers(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		repairers []Repairer
		wantName  string
	}{
		{
			name:      "jsonrepair fixes unquoted keys",
			input:     `{questions: [{question: 'x', correct_answer: 'y'}]}`,
			repairers: []Repairer{JSONRepair()},
			wantName:  "jsonrepair",
		},
		{
			name:      "json5 parses single quotes",
			input:     `{'questions': [{'question': 'x'}]}`,
			repairers: []Repairer{JSON5()},
			wantName:  "json5",
		},
		{
			name:      "first working repairer wins",
			input:     `Here: {questions: []} thanks`,
			repairers: []Repairer{JSON5(), JSONRepair()},
			wantName:  "json5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy, err := decodeCandidate(tt.input, tt.repairers)
			if err != nil {
				t.Fatalf("decodeCandidate() unexpected error: %v", err)
			}
			if strategy != tt.wantName {
				t.Errorf("decodeCandidate() strategy = %q, want %q", strategy, tt.wantName)
			}
			if _, ok := got["questions"].([]any); !ok {
				t.Errorf("decodeCandidate() questions = %T, want []any", got["questions"])
			}
		})
	}
}

func TestDecode_NoRepairByDefault(t *testing.T) {
	if _, err := Decode(`{questions: []}`); !errors.Is(err, ErrDecode) {
		t.Fatalf("Decode() error = %v, want decode failure without repairers", err)
	}
}

func TestRepairerNames(t *testing.T) {
	if JSONRepair().Name() != "jsonrepair" {
		t.Errorf("JSONRepair().Name() = %q", JSONRepair().Name())
	}
	if JSON5().Name() != "json5" {
		t.Errorf("JSON5().Name() = %q", JSON5().Name())
	}
}
