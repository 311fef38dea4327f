package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/config"
	"golang.org/x/time/rate"
)

const (
	limiterTTL     = 15 * time.Minute
	limiterCleanup = 5 * time.Minute
)

// RateLimiter throttles credential submissions (login and registration
// posts) per client IP with a token bucket.
type RateLimiter struct {
	store     *limiterStore
	trusted   []string
	perMinute int
}

// NewLoginRateLimiter builds the limiter from cfg. A non-positive
// LoginPerMinute disables limiting.
func NewLoginRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		store:     newLimiterStore(cfg.LoginPerMinute),
		trusted:   cfg.TrustedProxyCIDRs,
		perMinute: cfg.LoginPerMinute,
	}
}

// Middleware only counts POSTs; rendering the forms is never limited.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		limiter := l.store.limiter(clientKey(r, l.trusted))
		if limiter == nil || limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}

		LoggerFromContext(r.Context()).Warn().
			Str("path", r.URL.Path).
			Msg("login rate limit exceeded")
		w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
		http.Error(w, "Too many attempts. Please wait a minute and try again.", http.StatusTooManyRequests)
	})
}

// Stop ends the background cleanup goroutine.
func (l *RateLimiter) Stop() {
	l.store.Stop()
}

func (l *RateLimiter) retryAfterSeconds() int {
	if l.perMinute <= 0 {
		return 60
	}
	seconds := 60 / l.perMinute
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

type limiterStore struct {
	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	perMinute   int
	stopOnce    sync.Once
	stopCleanup chan struct{}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(perMinute int) *limiterStore {
	store := &limiterStore{
		limiters:    make(map[string]*limiterEntry),
		perMinute:   perMinute,
		stopCleanup: make(chan struct{}),
	}

	// Removes entries not accessed within limiterTTL so memory stays bounded
	go store.cleanupLoop()

	return store
}

func (s *limiterStore) limiter(key string) *rate.Limiter {
	if s.perMinute <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.limiters[key]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	interval := time.Minute / time.Duration(s.perMinute)
	limiter := rate.NewLimiter(rate.Every(interval), s.perMinute)
	s.limiters[key] = &limiterEntry{
		limiter:  limiter,
		lastSeen: time.Now(),
	}
	return limiter
}

func (s *limiterStore) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup(time.Now())
		case <-s.stopCleanup:
			return
		}
	}
}

// cleanup removes limiter entries that haven't been accessed within limiterTTL
func (s *limiterStore) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(s.limiters, key)
		}
	}
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// Stop gracefully shuts down the cleanup goroutine
func (s *limiterStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
}

// clientKey extracts the client identifier for rate limiting. X-Forwarded-For
// and X-Real-IP are only believed when the connection comes from a trusted proxy.
func clientKey(r *http.Request, trustedProxyCIDRs []string) string {
	if r == nil {
		return ""
	}

	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remoteIP = host
	}

	if isTrustedProxy(remoteIP, trustedProxyCIDRs) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return strings.TrimSpace(realIP)
		}
	}

	return remoteIP
}

// isTrustedProxy checks if the given IP is within any of the trusted proxy CIDRs
func isTrustedProxy(ip string, trustedCIDRs []string) bool {
	if len(trustedCIDRs) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidrStr := range trustedCIDRs {
		_, cidr, err := net.ParseCIDR(cidrStr)
		if err != nil {
			continue
		}
		if cidr.Contains(parsedIP) {
			return true
		}
	}

	return false
}
