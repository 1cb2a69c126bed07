package generation

import (
	"context"
	"testing"
	"time"
)

func TestBackoffPolicy_Delay(t *testing.T) {
	p := BackoffPolicy{Base: time.Second, MaxDelay: 8 * time.Second}
	tests := []struct {
		n    int
		want time.Duration
	}{
		{-1, time.Second},
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 8 * time.Second},
		{40, 8 * time.Second},
	}
	for _, tt := range tests {
		if got := p.Delay(tt.n); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestBackoffPolicy_NextWait(t *testing.T) {
	p := BackoffPolicy{Base: time.Second, MaxDelay: 8 * time.Second, MaxTotalWait: 3 * time.Second}

	if d, ok := p.nextWait(2, 0); !ok || d != 3*time.Second {
		t.Errorf("capped to remaining budget, got %v %v", d, ok)
	}
	if _, ok := p.nextWait(0, 3*time.Second); ok {
		t.Error("spent budget should stop retries")
	}
	unbounded := BackoffPolicy{Base: time.Second, MaxDelay: 8 * time.Second}
	if d, ok := unbounded.nextWait(1, time.Hour); !ok || d != 2*time.Second {
		t.Errorf("no total cap, got %v %v", d, ok)
	}
}

func TestContextSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := ContextSleep(ctx, time.Minute); err == nil {
		t.Error("cancelled sleep should return the context error")
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled sleep should return immediately")
	}
	if err := ContextSleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("got %v", err)
	}
}
