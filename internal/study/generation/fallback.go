package generation

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"gopkg.in/yaml.v3"
)

//go:embed fallback_library.yaml
var fallbackYAML []byte

const (
	CategoryStatistics = "statistics"
	CategoryMath       = "math"
	CategoryGeneral    = "general"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryStatistics, []string{"stat", "probab", "regression", "econometric", "biometr", "data"}},
	{CategoryMath, []string{"math", "algebra", "calculus", "geometry", "trigonometry", "arithmetic", "linear"}},
}

// FallbackLibrary holds canned questions per category.
type FallbackLibrary struct {
	categories map[string][]courseModel.Question
}

func LoadFallbackLibrary(data []byte) (*FallbackLibrary, error) {
	var categories map[string][]courseModel.Question
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("parsing fallback library: %w", err)
	}
	general, ok := categories[CategoryGeneral]
	if !ok || len(general) == 0 {
		return nil, fmt.Errorf("fallback library has no %q questions", CategoryGeneral)
	}
	for name, qs := range categories {
		for i, q := range qs {
			if err := ValidQuestion(q); err != nil {
				return nil, fmt.Errorf("fallback question %s[%d]: %w", name, i, err)
			}
		}
	}
	return &FallbackLibrary{categories: categories}, nil
}

// DefaultFallbackLibrary parses the embedded library. It panics on a broken
// embed since that can only be a build mistake.
func DefaultFallbackLibrary() *FallbackLibrary {
	lib, err := LoadFallbackLibrary(fallbackYAML)
	if err != nil {
		panic(err)
	}
	return lib
}

func CategoryFor(courseId string) string {
	id := strings.ToLower(courseId)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(id, kw) {
				return c.category
			}
		}
	}
	return CategoryGeneral
}

// Questions returns count questions for the course, cycling through its
// category. The starting point depends on the unit so neighbouring units
// differ. The result is deterministic.
func (l *FallbackLibrary) Questions(courseId string, unit int, count int) []courseModel.Question {
	pool, ok := l.categories[CategoryFor(courseId)]
	if !ok || len(pool) == 0 {
		pool = l.categories[CategoryGeneral]
	}
	if count <= 0 {
		return nil
	}
	start := 0
	if unit > 0 {
		start = (unit - 1) % len(pool)
	}
	out := make([]courseModel.Question, count)
	for i := range out {
		q := pool[(start+i)%len(pool)]
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
