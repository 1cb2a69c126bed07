package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)```")

const rawPreviewLimit = 200

// ParseError describes backend output that could not be read as a list of
// question records.
type ParseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeResult holds either the decoded records or the reason decoding
// failed. Exactly one of Records and Err is set.
type DecodeResult struct {
	Records []map[string]any
	Err     *ParseError
}

func (r DecodeResult) OK() bool {
	return r.Err == nil
}

func parseFailure(reason, raw string, err error) DecodeResult {
	if len(raw) > rawPreviewLimit {
		raw = truncateRunes(raw, rawPreviewLimit)
	}
	return DecodeResult{Err: &ParseError{Reason: reason, Raw: raw, Err: err}}
}

// Decode extracts the JSON array of question records from raw model output.
// It accepts markdown fences, prose around the array, and an object with a
// "questions" field.
func Decode(raw string) DecodeResult {
	text := strings.TrimSpace(stripFences(raw))
	if text == "" {
		return parseFailure("empty response", raw, nil)
	}

	payload, ok := extractArray(text)
	if !ok {
		return parseFailure("no JSON array in response", raw, nil)
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return parseFailure("malformed JSON array", raw, err)
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		var rec map[string]any
		if err := json.Unmarshal(item, &rec); err != nil || rec == nil {
			// a non-object element is skipped, not fatal
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return parseFailure("no question objects in response", raw, nil)
	}
	return DecodeResult{Records: records}
}

func stripFences(raw string) string {
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

func extractArray(text string) (string, bool) {
	if strings.HasPrefix(text, "{") {
		var wrapper struct {
			Questions json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal([]byte(text), &wrapper); err == nil && len(wrapper.Questions) > 0 {
			return string(wrapper.Questions), true
		}
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
