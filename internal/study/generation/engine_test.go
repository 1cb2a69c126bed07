package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
)

type mockProvider struct {
	mu           sync.Mutex
	calls        int
	generateFunc func(ctx context.Context, call int, prompt string) (string, error)
}

func (m *mockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	return m.generateFunc(ctx, call, prompt)
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func validJSON(n int) string {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{
			"question":    fmt.Sprintf("Question %d?", i+1),
			"options":     []string{"one", "two", "three", "four"},
			"answer":      "C",
			"explanation": "Because three.",
		}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func testPolicy() BackoffPolicy {
	return BackoffPolicy{MaxAttempts: 3, Base: time.Second, MaxDelay: 8 * time.Second, MaxTotalWait: 15 * time.Second}
}

func newTestEngine(p *mockProvider, s *recordingSleeper) *Engine {
	return NewEngine(p, WithBackoff(testPolicy()), WithSleeper(s.Sleep), WithCallTimeout(time.Second))
}

func assertAllValid(t *testing.T, qs []courseModel.Question) {
	t.Helper()
	for i, q := range qs {
		if err := ValidQuestion(q); err != nil {
			t.Errorf("question %d invalid: %v", i, err)
		}
	}
}

func TestGenerate_SuccessFirstAttempt(t *testing.T) {
	p := &mockProvider{generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("backend call should carry a deadline")
		}
		return "```json\n" + validJSON(5) + "\n```", nil
	}}
	s := &recordingSleeper{}

	res := newTestEngine(p, s).Generate(context.Background(), Request{CourseId: "statistics", Unit: 1, Title: "Unit 1", Content: "mean", Count: 5})

	if res.Origin != courseModel.OriginBackend || len(res.Questions) != 5 || res.Attempts != 1 {
		t.Fatalf("got origin=%s n=%d attempts=%d", res.Origin, len(res.Questions), res.Attempts)
	}
	if res.LastErr != nil {
		t.Errorf("unexpected error %v", res.LastErr)
	}
	if len(s.delays) != 0 {
		t.Errorf("no waiting expected, got %v", s.delays)
	}
	assertAllValid(t, res.Questions)
}

func TestGenerate_RetriesMalformedOutput(t *testing.T) {
	p := &mockProvider{generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
		if call == 1 {
			return "Sure! Here are some questions: not json", nil
		}
		return validJSON(4), nil
	}}
	s := &recordingSleeper{}

	res := newTestEngine(p, s).Generate(context.Background(), Request{CourseId: "statistics", Unit: 2, Count: 4})

	if res.Origin != courseModel.OriginBackend || res.Attempts != 2 {
		t.Fatalf("got origin=%s attempts=%d", res.Origin, res.Attempts)
	}
	if !reflect.DeepEqual(s.delays, []time.Duration{time.Second}) {
		t.Errorf("delays got %v", s.delays)
	}
}

func TestGenerate_ThreeFailuresFallBack(t *testing.T) {
	p := &mockProvider{generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
		return "", errors.New("connection refused")
	}}
	s := &recordingSleeper{}

	res := newTestEngine(p, s).Generate(context.Background(), Request{CourseId: "statistics", Unit: 3, Count: 10})

	if res.Origin != courseModel.OriginFallback {
		t.Fatalf("expected fallback, got %s", res.Origin)
	}
	if p.Calls() != 3 || res.Attempts != 3 {
		t.Errorf("calls=%d attempts=%d", p.Calls(), res.Attempts)
	}
	if !errors.Is(res.LastErr, ErrBackendFailure) {
		t.Errorf("last error should wrap ErrBackendFailure, got %v", res.LastErr)
	}
	if !reflect.DeepEqual(s.delays, []time.Duration{time.Second, 2 * time.Second}) {
		t.Errorf("delays got %v", s.delays)
	}
	if len(res.Questions) != 10 {
		t.Errorf("fallback should fill the requested count, got %d", len(res.Questions))
	}
	assertAllValid(t, res.Questions)
}

func TestGenerate_SchemaViolationExhausts(t *testing.T) {
	p := &mockProvider{generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
		return validJSON(2), nil
	}}
	res := newTestEngine(p, &recordingSleeper{}).Generate(context.Background(), Request{CourseId: "algebra", Unit: 1, Count: 10})

	if res.Origin != courseModel.OriginFallback || !errors.Is(res.LastErr, ErrSchemaViolation) {
		t.Fatalf("got origin=%s err=%v", res.Origin, res.LastErr)
	}
}

func TestGenerate_NoProvider(t *testing.T) {
	res := NewEngine(nil).Generate(context.Background(), Request{CourseId: "history", Unit: 1, Count: 3})

	if res.Origin != courseModel.OriginFallback || res.Attempts != 0 || len(res.Questions) != 3 {
		t.Fatalf("got %+v", res)
	}
	if !errors.Is(res.LastErr, ErrBackendUnavailable) {
		t.Errorf("got %v", res.LastErr)
	}
}

func TestGenerate_CancelledContextStillReturnsQuestions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &mockProvider{generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
		cancel()
		return "", ctx.Err()
	}}
	res := newTestEngine(p, &recordingSleeper{}).Generate(ctx, Request{CourseId: "statistics", Unit: 1, Count: 5})

	if res.Origin != courseModel.OriginFallback || len(res.Questions) != 5 {
		t.Fatalf("got %+v", res)
	}
	if p.Calls() != 1 {
		t.Errorf("no retries after cancellation, got %d calls", p.Calls())
	}
}

func TestGenerate_TotalWaitIsCapped(t *testing.T) {
	p := &mockProvider{generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
		return "", errors.New("503")
	}}
	s := &recordingSleeper{}
	policy := BackoffPolicy{MaxAttempts: 10, Base: time.Second, MaxDelay: 8 * time.Second, MaxTotalWait: 5 * time.Second}
	e := NewEngine(p, WithBackoff(policy), WithSleeper(s.Sleep))

	res := e.Generate(context.Background(), Request{CourseId: "statistics", Unit: 1, Count: 3})

	var total time.Duration
	for _, d := range s.delays {
		total += d
	}
	if total != 5*time.Second {
		t.Errorf("total wait %v, delays %v", total, s.delays)
	}
	if res.Origin != courseModel.OriginFallback {
		t.Errorf("got %s", res.Origin)
	}
}

func TestGenerate_TruncatesToRequested(t *testing.T) {
	p := &mockProvider{generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
		return validJSON(12), nil
	}}
	res := newTestEngine(p, &recordingSleeper{}).Generate(context.Background(), Request{CourseId: "statistics", Unit: 1, Count: 10})
	if len(res.Questions) != 10 {
		t.Errorf("got %d questions", len(res.Questions))
	}
}

func TestGenerate_PromptCarriesUnit(t *testing.T) {
	var seen string
	p := &mockProvider{generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
		seen = prompt
		return validJSON(3), nil
	}}
	newTestEngine(p, &recordingSleeper{}).Generate(context.Background(), Request{
		CourseId: "intro_statistics", Unit: 4, Title: "Chapter 4 Regression", Content: "least squares", Count: 3,
	})
	for _, want := range []string{"unit 4", "Chapter 4 Regression", "intro statistics", "least squares", "Write 3"} {
		if !strings.Contains(seen, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
