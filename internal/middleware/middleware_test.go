package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
)

func okHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if trace, _ := r.Context().Value(config.TRACE_ID_KEY).(string); trace == "" {
			t.Error("handler should see a trace id")
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestWrap_Auth(t *testing.T) {
	tests := []struct {
		name     string
		settings config.ServerSettings
		header   string
		want     int
	}{
		{"no auth bypass", config.ServerSettings{NoAuth: true}, "", http.StatusOK},
		{"valid token", config.ServerSettings{AuthToken: "s3cret"}, "Bearer s3cret", http.StatusOK},
		{"missing header", config.ServerSettings{AuthToken: "s3cret"}, "", http.StatusUnauthorized},
		{"wrong token", config.ServerSettings{AuthToken: "s3cret"}, "Bearer nope", http.StatusUnauthorized},
		{"not a bearer header", config.ServerSettings{AuthToken: "s3cret"}, "s3cret", http.StatusUnauthorized},
		{"no token configured", config.ServerSettings{}, "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.settings)
			t.Cleanup(func() { Init(config.ServerSettings{}) })

			req := httptest.NewRequest(http.MethodGet, "/courses", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Wrap(okHandler(t))(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestWrap_TraceHeader(t *testing.T) {
	Init(config.ServerSettings{NoAuth: true})
	t.Cleanup(func() { Init(config.ServerSettings{}) })

	var seen string
	h := Wrap(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(config.TRACE_ID_KEY).(string)
	})
	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.Header.Set("X-Trace-Id", "trace-from-client")
	h(httptest.NewRecorder(), req)

	if seen != "trace-from-client" {
		t.Errorf("expected client trace id, got %q", seen)
	}
}

func TestWrap_RateLimit(t *testing.T) {
	Init(config.ServerSettings{NoAuth: true, RateLimit: true})
	t.Cleanup(func() { Init(config.ServerSettings{}) })

	h := Wrap(okHandler(t))
	limited := 0
	for i := 0; i < config.BURST_RATE_LIMIT_PER_SECOND+3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/courses", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		h(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited == 0 {
		t.Error("expected requests beyond the burst to be rejected")
	}

	// other clients have their own bucket
	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.RemoteAddr = "198.51.100.1:4444"
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("a different IP should not be limited, got %d", rec.Code)
	}
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	if l.GetLimiter("10.0.0.1") != l.GetLimiter("10.0.0.1") {
		t.Error("the same IP should get the same limiter")
	}
	if l.GetLimiter("10.0.0.1") == l.GetLimiter("10.0.0.2") {
		t.Error("different IPs should get different limiters")
	}
}

func TestIPRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.idleTTL = time.Minute
	l.now = func() time.Time { return now }

	first := l.GetLimiter("10.0.0.1")
	now = now.Add(30 * time.Second)
	l.GetLimiter("10.0.0.2")
	if l.size() != 2 {
		t.Fatalf("expected 2 limiters, got %d", l.size())
	}

	now = now.Add(45 * time.Second)
	l.GetLimiter("10.0.0.2")
	if l.size() != 1 {
		t.Errorf("idle client should be swept, %d limiters left", l.size())
	}
	if l.GetLimiter("10.0.0.1") == first {
		t.Error("a swept client should get a fresh limiter")
	}
}
