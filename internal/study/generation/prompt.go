package generation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/StudyAPI/internal/config"
)

const promptTemplate = `Write %d multiple-choice practice questions for unit %d (%q) of the course %q.

Base every question only on the unit content below.

Return a JSON array and nothing else. Each element must be an object with:
  "question": the question text,
  "options": an array of exactly 4 distinct answer options,
  "answer": the letter of the correct option, one of "A", "B", "C", "D",
  "explanation": one or two sentences explaining the correct answer.

Unit content:
%s`

// truncateRunes cuts s to at most limit bytes without splitting a rune.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func BuildPrompt(req Request) string {
	content := truncateRunes(strings.TrimSpace(req.Content), config.PromptContentLimit)
	title := req.Title
	if title == "" {
		title = fmt.Sprintf("Unit %d", req.Unit)
	}
	return fmt.Sprintf(promptTemplate, req.Count, req.Unit, title, courseName(req.CourseId), content)
}

// courseName turns a course id such as "intro_statistics" into display text.
func courseName(courseId string) string {
	name := strings.NewReplacer("_", " ", "-", " ").Replace(courseId)
	return strings.Join(strings.Fields(name), " ")
}
