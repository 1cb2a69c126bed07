package generation

import (
	"errors"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		records int
		reason  string
	}{
		{"plain array", `[{"question":"a"},{"question":"b"}]`, 2, ""},
		{"json fence", "```json\n[{\"question\":\"a\"}]\n```", 1, ""},
		{"bare fence", "```\n[{\"question\":\"a\"}]\n```", 1, ""},
		{"prose around", "Here you go:\n[{\"question\":\"a\"}]\nGood luck!", 1, ""},
		{"wrapped object", `{"questions":[{"question":"a"},{"question":"b"}]}`, 2, ""},
		{"non-object elements skipped", `[1, "x", {"question":"a"}]`, 1, ""},
		{"empty", "   ", 0, "empty response"},
		{"no array", "I cannot help with that.", 0, "no JSON array in response"},
		{"malformed", `[{"question": "a",]`, 0, "malformed JSON array"},
		{"only scalars", `[1, 2, 3]`, 0, "no question objects in response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.raw)
			if tt.reason != "" {
				if got.OK() || got.Err.Reason != tt.reason {
					t.Fatalf("expected failure %q, got %+v", tt.reason, got)
				}
				if got.Records != nil {
					t.Error("failed decode should carry no records")
				}
				return
			}
			if !got.OK() {
				t.Fatalf("unexpected failure: %v", got.Err)
			}
			if len(got.Records) != tt.records {
				t.Errorf("records got %d want %d", len(got.Records), tt.records)
			}
		})
	}
}

func TestDecode_ParseErrorWrapsCause(t *testing.T) {
	got := Decode(`[{"a":}]`)
	if got.OK() {
		t.Fatal("expected failure")
	}
	var pe *ParseError
	if !errors.As(error(got.Err), &pe) || pe.Unwrap() == nil {
		t.Errorf("expected wrapped json error, got %v", got.Err)
	}
}

func TestDecode_PreviewIsBounded(t *testing.T) {
	got := Decode(strings.Repeat("é", 500))
	if got.OK() {
		t.Fatal("expected failure")
	}
	if len(got.Err.Raw) > rawPreviewLimit {
		t.Errorf("raw preview %d bytes", len(got.Err.Raw))
	}
}
