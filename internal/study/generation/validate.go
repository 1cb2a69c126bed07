package generation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var letters = []string{"A", "B", "C", "D"}

var (
	optionPrefix  = regexp.MustCompile(`^\(?[A-Da-d][\).:]\s+`)
	answerLetter  = regexp.MustCompile(`(?i)^(?:option\s+|answer\s*:?\s*)?\(?([a-d])\)?[\).:]?$`)
	answerLeading = regexp.MustCompile(`(?i)^\(?([a-d])[\).:]\s`)
)

var fieldAliases = map[string][]string{
	"question":    {"question", "prompt", "stem", "q"},
	"options":     {"options", "choices", "answers"},
	"answer":      {"answer", "correct_answer", "correctAnswer", "correct"},
	"explanation": {"explanation", "rationale", "reason"},
}

func field(rec map[string]any, name string) (any, bool) {
	for _, key := range fieldAliases[name] {
		if v, ok := rec[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func cleanOption(s string) string {
	return strings.TrimSpace(optionPrefix.ReplaceAllString(strings.TrimSpace(s), ""))
}

// coerceOptions accepts a list or an object keyed by letter.
func coerceOptions(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, o := range t {
			out = append(out, cleanOption(asString(o)))
		}
		return out
	case map[string]any:
		byLetter := make(map[string]string, len(t))
		for k, o := range t {
			key := strings.ToUpper(strings.Trim(strings.TrimSpace(k), "().:"))
			byLetter[key] = cleanOption(asString(o))
		}
		out := make([]string, 0, len(letters))
		for _, l := range letters {
			o, ok := byLetter[l]
			if !ok {
				return nil
			}
			out = append(out, o)
		}
		if len(byLetter) != len(letters) {
			return nil
		}
		return out
	}
	return nil
}

func letterFor(index int) (string, bool) {
	if index < 0 || index >= len(letters) {
		return "", false
	}
	return letters[index], true
}

// indexAnswer reads a numeric answer. 0 can only be a 0-based index; 1..4 are
// read as 1-based positions.
func indexAnswer(n float64) (string, bool) {
	if n != math.Trunc(n) {
		return "", false
	}
	if n == 0 {
		return letters[0], true
	}
	return letterFor(int(n) - 1)
}

// coerceAnswer maps the many answer spellings models produce onto a letter.
func coerceAnswer(v any, options []string) (string, bool) {
	if n, ok := v.(float64); ok {
		return indexAnswer(n)
	}
	s := asString(v)
	if s == "" {
		return "", false
	}
	if m := answerLetter.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1]), true
	}
	// the option text itself wins over reading digits as a position
	text := cleanOption(s)
	for i, o := range options {
		if strings.EqualFold(o, text) {
			return letterFor(i)
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return indexAnswer(float64(n))
	}
	if m := answerLeading.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return "", false
}

// Coerce repairs a decoded record into a Question and validates it. Records
// that cannot be repaired are rejected.
func Coerce(rec map[string]any) (courseModel.Question, error) {
	var q courseModel.Question

	if v, ok := field(rec, "question"); ok {
		q.Question = asString(v)
	}
	if v, ok := field(rec, "options"); ok {
		q.Options = coerceOptions(v)
	}
	if v, ok := field(rec, "explanation"); ok {
		q.Explanation = asString(v)
	}
	if v, ok := field(rec, "answer"); ok {
		if letter, ok := coerceAnswer(v, q.Options); ok {
			q.Answer = letter
		}
	}

	if err := validate.Struct(q); err != nil {
		return courseModel.Question{}, err
	}
	return q, nil
}

// ValidQuestion reports whether q satisfies the question schema.
func ValidQuestion(q courseModel.Question) error {
	return validate.Struct(q)
}

// collect coerces every record and keeps the valid ones, up to requested.
func collect(records []map[string]any, requested int) ([]courseModel.Question, error) {
	valid := make([]courseModel.Question, 0, len(records))
	for _, rec := range records {
		q, err := Coerce(rec)
		if err != nil {
			continue
		}
		valid = append(valid, q)
	}

	minimum := min(config.MinAcceptableQuestions, requested)
	if len(valid) < minimum {
		return nil, fmt.Errorf("%w: %d valid of %d records, need %d", ErrSchemaViolation, len(valid), len(records), minimum)
	}
	if len(valid) > requested {
		valid = valid[:requested]
	}
	return valid, nil
}
