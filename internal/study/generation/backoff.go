package generation

import (
	"context"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
)

// Sleeper waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
type Sleeper func(ctx context.Context, d time.Duration) error

func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type BackoffPolicy struct {
	MaxAttempts  int
	Base         time.Duration
	MaxDelay     time.Duration
	MaxTotalWait time.Duration
}

func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts:  config.GenerationMaxAttempts,
		Base:         config.GenerationBackoffBase,
		MaxDelay:     config.GenerationMaxBackoff,
		MaxTotalWait: config.GenerationMaxTotalWait,
	}
}

// Delay is Base * 2^n capped at MaxDelay, where n is the 0-based index of the
// attempt that just failed.
func (p BackoffPolicy) Delay(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	d := p.Base
	for i := 0; i < n; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// nextWait trims the delay so the total never exceeds MaxTotalWait. ok is
// false once the budget is spent.
func (p BackoffPolicy) nextWait(n int, waited time.Duration) (time.Duration, bool) {
	d := p.Delay(n)
	if p.MaxTotalWait <= 0 {
		return d, true
	}
	remaining := p.MaxTotalWait - waited
	if remaining <= 0 {
		return 0, false
	}
	if d > remaining {
		d = remaining
	}
	return d, true
}
