package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/study"
	"github.com/akolanti/StudyAPI/internal/study/study_test"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docs, 0750); err != nil {
		t.Fatal(err)
	}
	cfg := fmt.Sprintf(`[ingest]
documents_dir = %q
watch = false

[cache]
dir = %q

[generation]
provider = "none"
`, docs, filepath.Join(dir, "cache"))
	path := filepath.Join(dir, "study.toml")
	if err := os.WriteFile(path, []byte(cfg), 0640); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCmd executes the root command with fresh flag values and the given
// service standing in for app.New.
func runCmd(t *testing.T, svc study.Service, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STUDY_CONFIG", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("REDIS_ADDR", "")

	orig := newService
	t.Cleanup(func() { newService = orig })
	if svc != nil {
		newService = func(context.Context, config.Settings, bool) (study.Service, error) {
			return svc, nil
		}
	}

	outputJSON, regenerate, verbose = false, false, false
	searchLimit = config.SearchDefaultLimit
	configPath = ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestCoursesCommand(t *testing.T) {
	mock := &study_test.MockService{Courses: []courseModel.CourseSummary{
		{CourseId: "algebra", UnitCount: 3, ChunkCount: 7, Strategy: "marker"},
	}}
	out, err := runCmd(t, mock, "courses")
	if err != nil {
		t.Fatalf("courses failed: %v", err)
	}
	if !strings.Contains(out, "COURSE") || !strings.Contains(out, "algebra") || !strings.Contains(out, "marker") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runCmd(t, &study_test.MockService{}, "courses")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No courses found.") {
		t.Errorf("expected empty message, got %q", out)
	}
}

func TestUnitsCommand(t *testing.T) {
	mock := &study_test.MockService{
		OnListUnits: func(_ context.Context, courseId string) (courseModel.UnitListing, error) {
			if courseId != "algebra" {
				return courseModel.UnitListing{}, courseModel.NewError(courseModel.KindCourseNotFound, "course not found", nil)
			}
			return courseModel.UnitListing{CourseId: courseId, Units: []courseModel.UnitSummary{
				{Number: 1, Title: "Linear Equations", Cached: true},
				{Number: 2, Title: "Quadratics"},
			}}, nil
		},
	}

	out, err := runCmd(t, mock, "units", "algebra")
	if err != nil {
		t.Fatalf("units failed: %v", err)
	}
	if !strings.Contains(out, "Linear Equations") || !strings.Contains(out, "yes") || !strings.Contains(out, "no") {
		t.Errorf("unexpected output:\n%s", out)
	}

	_, err = runCmd(t, mock, "units", "biology")
	if courseModel.KindOf(err) != courseModel.KindCourseNotFound {
		t.Errorf("expected course_not_found, got %v", err)
	}

	if _, err := runCmd(t, mock, "units"); err == nil {
		t.Error("expected an argument error")
	}
}

func TestQuestionsCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCall string
		wantErr  bool
	}{
		{name: "cached", args: []string{"questions", "algebra", "2"}, wantCall: "GetQuestions"},
		{name: "regenerate", args: []string{"questions", "algebra", "2", "--regenerate"}, wantCall: "RegenerateQuestions"},
		{name: "bad unit", args: []string{"questions", "algebra", "two"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &study_test.MockService{}
			out, err := runCmd(t, mock, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if len(mock.Calls()) != 0 {
					t.Errorf("service should not be called, got %v", mock.Calls())
				}
				return
			}
			if err != nil {
				t.Fatalf("questions failed: %v", err)
			}
			if calls := mock.Calls(); len(calls) != 1 || calls[0] != tt.wantCall {
				t.Errorf("expected %s, got %v", tt.wantCall, calls)
			}
			if !strings.Contains(out, "algebra, unit 2: Unit 2") || !strings.Contains(out, "A) ") || !strings.Contains(out, "Answer: ") {
				t.Errorf("unexpected output:\n%s", out)
			}
		})
	}
}

func TestQuestionsCommand_JSON(t *testing.T) {
	out, err := runCmd(t, &study_test.MockService{}, "questions", "algebra", "1", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var res courseModel.QuestionSetResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res.CourseId != "algebra" || res.Unit != 1 || len(res.Questions) != 10 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSearchCommand(t *testing.T) {
	var gotLimit int
	mock := &study_test.MockService{
		OnSearch: func(_ context.Context, courseId, query string, limit int) ([]courseModel.SearchMatch, error) {
			gotLimit = limit
			if query == "broken" {
				return nil, courseModel.NewError(courseModel.KindInternal, "search unavailable", nil)
			}
			return []courseModel.SearchMatch{{CourseId: courseId, ChunkIndex: 4, Units: []int{2}, Score: 0.91, Snippet: "the quadratic formula"}}, nil
		},
	}

	out, err := runCmd(t, mock, "search", "algebra", "roots", "--limit", "3")
	if err != nil {
		t.Fatal(err)
	}
	if gotLimit != 3 {
		t.Errorf("expected limit 3, got %d", gotLimit)
	}
	if !strings.Contains(out, "chunk 4") || !strings.Contains(out, "the quadratic formula") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := runCmd(t, mock, "search", "algebra", "broken"); err == nil {
		t.Error("expected the service error")
	}
	if gotLimit != config.SearchDefaultLimit {
		t.Errorf("expected default limit, got %d", gotLimit)
	}
}

func TestWarmCommand(t *testing.T) {
	mock := &study_test.MockService{
		OnWarmCourse: func(_ context.Context, courseId string) (courseModel.WarmResult, error) {
			return courseModel.WarmResult{CourseId: courseId, Generated: []int{2}, Skipped: []int{1}}, nil
		},
	}
	out, err := runCmd(t, mock, "warm", "algebra")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "generated [2], already cached [1]") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestServiceErrorStopsCommand(t *testing.T) {
	orig := newService
	defer func() { newService = orig }()
	wantErr := errors.New("registry build failed")

	t.Setenv("STUDY_CONFIG", "")
	configPath = writeConfig(t)
	newService = func(context.Context, config.Settings, bool) (study.Service, error) {
		return nil, wantErr
	}
	rootCmd.SetArgs([]string{"--config", configPath, "courses"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	if err := rootCmd.ExecuteContext(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestQuestionsCommand_EndToEnd(t *testing.T) {
	path := writeConfig(t)
	docs := filepath.Join(filepath.Dir(path), "docs")
	doc := "# Unit 1: Cells\nCells are the basic unit of life.\n"
	if err := os.WriteFile(filepath.Join(docs, "Biology.md"), []byte(doc), 0640); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STUDY_CONFIG", path)
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("REDIS_ADDR", "")
	outputJSON, regenerate, configPath = false, false, ""
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"questions", "biology", "1", "--json"})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("questions failed: %v\n%s", err, buf.String())
	}

	var res courseModel.QuestionSetResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if res.Unit != 1 || res.Title == "" || res.Origin != courseModel.OriginFallback || res.Source != courseModel.SourceGenerated {
		t.Errorf("unexpected result %+v", res)
	}
}
