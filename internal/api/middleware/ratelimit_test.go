package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/config"
)

func newTestLimiter(t *testing.T, cfg config.RateLimitConfig) (*RateLimiter, http.Handler) {
	t.Helper()
	limiter := NewLoginRateLimiter(cfg)
	t.Cleanup(limiter.Stop)
	return limiter, limiter.Middleware(okHandler())
}

func loginPost(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestLoginRateLimit_AllowsInitialBurst(t *testing.T) {
	_, handler := newTestLimiter(t, config.RateLimitConfig{LoginPerMinute: 5})

	for i := 0; i < 5; i++ {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, loginPost("192.168.1.100:12345"))

		if res.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, res.Code)
		}
	}
}

func TestLoginRateLimit_BlocksAfterBurst(t *testing.T) {
	_, handler := newTestLimiter(t, config.RateLimitConfig{LoginPerMinute: 5})
	clientIP := "192.168.1.101:54321"

	for i := 0; i < 5; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), loginPost(clientIP))
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, loginPost(clientIP))

	if res.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", res.Code)
	}
	if retryAfter := res.Header().Get("Retry-After"); retryAfter != "12" {
		t.Errorf("expected Retry-After header to be 12, got %s", retryAfter)
	}
}

func TestLoginRateLimit_PerIPIsolation(t *testing.T) {
	_, handler := newTestLimiter(t, config.RateLimitConfig{LoginPerMinute: 2})

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), loginPost("10.0.0.1:1000"))
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, loginPost("10.0.0.2:1000"))
	if res.Code != http.StatusOK {
		t.Fatalf("a different client should not be limited, got %d", res.Code)
	}
}

func TestLoginRateLimit_GetIsNeverLimited(t *testing.T) {
	_, handler := newTestLimiter(t, config.RateLimitConfig{LoginPerMinute: 1})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "10.0.0.3:1000"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != http.StatusOK {
			t.Fatalf("GET %d: expected 200, got %d", i+1, res.Code)
		}
	}
}

func TestLoginRateLimit_DisabledWhenZero(t *testing.T) {
	_, handler := newTestLimiter(t, config.RateLimitConfig{LoginPerMinute: 0})

	for i := 0; i < 50; i++ {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, loginPost("10.0.0.4:1000"))
		if res.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 with limiting disabled, got %d", i+1, res.Code)
		}
	}
}

func TestLoginRateLimit_SpoofedForwardedForIgnored(t *testing.T) {
	_, handler := newTestLimiter(t, config.RateLimitConfig{LoginPerMinute: 1})

	for i, forwarded := range []string{"1.1.1.1", "2.2.2.2"} {
		req := loginPost("203.0.113.9:4000")
		req.Header.Set("X-Forwarded-For", forwarded)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		want := http.StatusOK
		if i == 1 {
			want = http.StatusTooManyRequests
		}
		if res.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i+1, want, res.Code)
		}
	}
}

func TestClientKey(t *testing.T) {
	trusted := []string{"10.0.0.0/8", "not-a-cidr"}

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{"direct connection", "198.51.100.7:5555", "", "", "198.51.100.7"},
		{"untrusted proxy header ignored", "198.51.100.7:5555", "1.2.3.4", "", "198.51.100.7"},
		{"trusted proxy first hop", "10.1.2.3:80", "1.2.3.4, 10.1.2.3", "", "1.2.3.4"},
		{"trusted proxy real ip", "10.1.2.3:80", "", "5.6.7.8", "5.6.7.8"},
		{"no port", "198.51.100.8", "", "", "198.51.100.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := clientKey(req, trusted); got != tt.want {
				t.Errorf("clientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLimiterStoreCleanup(t *testing.T) {
	store := newLimiterStore(5)
	defer store.Stop()

	store.limiter("a")
	store.limiter("b")
	if store.size() != 2 {
		t.Fatalf("expected 2 entries, got %d", store.size())
	}

	store.cleanup(time.Now().Add(limiterTTL + time.Minute))
	if store.size() != 0 {
		t.Errorf("expected stale entries to be removed, got %d", store.size())
	}

	// Stop is idempotent.
	store.Stop()
}
