package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/internal/study/llm"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var logger = logger_i.NewLogger("generation")

type State string

const (
	StateRequesting State = "requesting"
	StateValidating State = "validating"
	StateRetrying   State = "retrying"
	StateSuccess    State = "success"
	StateExhausted  State = "exhausted"
	StateFallback   State = "fallback"
)

type Request struct {
	CourseId string
	Unit     int
	Title    string
	Content  string
	Count    int
}

type Result struct {
	Questions []courseModel.Question
	Origin    courseModel.QuestionOrigin
	Attempts  int
	// LastErr is the failure that sent the run to the fallback, nil on success.
	LastErr error
}

type Engine struct {
	provider    llm.Provider
	policy      BackoffPolicy
	sleep       Sleeper
	callTimeout time.Duration
	fallback    *FallbackLibrary
}

type Option func(*Engine)

func WithBackoff(p BackoffPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithSleeper(s Sleeper) Option {
	return func(e *Engine) { e.sleep = s }
}

func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) { e.callTimeout = d }
}

func WithFallbackLibrary(l *FallbackLibrary) Option {
	return func(e *Engine) { e.fallback = l }
}

// NewEngine builds an engine around provider. A nil provider sends every
// request straight to the fallback library.
func NewEngine(provider llm.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider:    provider,
		policy:      DefaultBackoffPolicy(),
		sleep:       ContextSleep,
		callTimeout: config.GenerationCallTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fallback == nil {
		e.fallback = DefaultFallbackLibrary()
	}
	if e.policy.MaxAttempts <= 0 {
		e.policy.MaxAttempts = 1
	}
	return e
}

func (e *Engine) providerName() string {
	if e.provider == nil {
		return "none"
	}
	return e.provider.Name()
}

// Generate always returns a usable question set. Backend and schema failures
// are retried with backoff and end in the fallback library once attempts or
// the wait budget run out.
func (e *Engine) Generate(ctx context.Context, req Request) Result {
	if req.Count <= 0 {
		req.Count = config.DefaultQuestionCount
	}
	log := logger.WithTrace(ctx).With("courseId", req.CourseId, "unit", req.Unit, "provider", e.providerName())

	var (
		state     = StateRequesting
		attempt   int
		waited    time.Duration
		raw       string
		questions []courseModel.Question
		lastErr   error
	)
	prompt := BuildPrompt(req)

	transition := func(next State) {
		log.Debug("generation state", "from", state, "to", next, "attempt", attempt)
		state = next
	}

	if e.provider == nil {
		lastErr = ErrBackendUnavailable
		transition(StateFallback)
	}

	for {
		switch state {
		case StateRequesting:
			attempt++
			out, err := e.request(ctx, prompt)
			if err != nil {
				lastErr = fmt.Errorf("%w: attempt %d: %v", ErrBackendFailure, attempt, err)
				metrics.RecordGenerationAttempt(e.providerName(), "backend_error")
				log.Warn("backend call failed", "attempt", attempt, "error", err)
				transition(StateRetrying)
				continue
			}
			raw = out
			transition(StateValidating)

		case StateValidating:
			qs, err := e.validate(raw, req.Count)
			if err != nil {
				lastErr = fmt.Errorf("attempt %d: %w", attempt, err)
				metrics.RecordGenerationAttempt(e.providerName(), "schema_violation")
				log.Warn("backend output rejected", "attempt", attempt, "error", err)
				transition(StateRetrying)
				continue
			}
			questions = qs
			metrics.RecordGenerationAttempt(e.providerName(), "ok")
			transition(StateSuccess)

		case StateRetrying:
			if attempt >= e.policy.MaxAttempts || ctx.Err() != nil {
				transition(StateExhausted)
				continue
			}
			delay, ok := e.policy.nextWait(attempt-1, waited)
			if !ok {
				transition(StateExhausted)
				continue
			}
			if err := e.sleep(ctx, delay); err != nil {
				lastErr = errors.Join(lastErr, err)
				transition(StateExhausted)
				continue
			}
			waited += delay
			transition(StateRequesting)

		case StateExhausted:
			log.Warn("generation exhausted, using fallback", "attempts", attempt, "waited", waited, "error", lastErr)
			transition(StateFallback)

		case StateFallback:
			metrics.RecordFallback()
			return Result{
				Questions: e.fallback.Questions(req.CourseId, req.Unit, req.Count),
				Origin:    courseModel.OriginFallback,
				Attempts:  attempt,
				LastErr:   lastErr,
			}

		case StateSuccess:
			log.Info("questions generated", "count", len(questions), "attempts", attempt)
			return Result{
				Questions: questions,
				Origin:    courseModel.OriginBackend,
				Attempts:  attempt,
			}
		}
	}
}

func (e *Engine) request(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if e.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics("llm_generate", time.Since(start))
	}()
	return e.provider.Generate(callCtx, prompt)
}

func (e *Engine) validate(raw string, requested int) ([]courseModel.Question, error) {
	decoded := Decode(raw)
	if !decoded.OK() {
		return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, decoded.Err)
	}
	return collect(decoded.Records, requested)
}
