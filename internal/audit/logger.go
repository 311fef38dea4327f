// Package audit records account activity: logins, registrations, logouts
// and event sign-ups. Entries go to the structured log under "audit".
package audit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Actions recorded by the server.
const (
	ActionLogin         = "account.login"
	ActionRegister      = "account.register"
	ActionLogout        = "account.logout"
	ActionEventRegister = "event.register"
)

// Entry represents a single audit log entry with structured fields
type Entry struct {
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	Account   string            `json:"account,omitempty"`
	ProfileID string            `json:"profile_id,omitempty"`
	IPAddress string            `json:"ip_address"`
	Status    string            `json:"status"` // "success" or "failure"
	Details   map[string]string `json:"details,omitempty"`
}

// Logger provides structured audit logging for account operations
type Logger struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewLogger creates an audit logger writing through base.
func NewLogger(base zerolog.Logger) *Logger {
	return &Logger{
		logger: base.With().Str("component", "audit").Logger(),
		now:    time.Now,
	}
}

// Log writes an audit entry to the log output
func (l *Logger) Log(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now().UTC()
	}
	event := l.logger.Info()
	if entry.Status == "failure" {
		event = l.logger.Warn()
	}
	event.Interface("audit", entry).Msg(entry.Action)
}

// LogFromRequest records action for the visitor making r.
func (l *Logger) LogFromRequest(r *http.Request, action, profileID, account, status string, details map[string]string) {
	l.Log(Entry{
		Action:    action,
		Account:   account,
		ProfileID: profileID,
		IPAddress: extractClientIP(r),
		Status:    status,
		Details:   details,
	})
}

// extractClientIP gets the client IP from request headers or RemoteAddr.
// Only the first X-Forwarded-For hop is kept.
func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const auditLoggerKey contextKey = "auditLogger"

// WithLogger adds an audit logger to the request context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, auditLoggerKey, logger)
}

// FromContext retrieves the audit logger from the request context. Without
// one, entries are discarded.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(auditLoggerKey).(*Logger); ok && logger != nil {
		return logger
	}
	return NewLogger(zerolog.Nop())
}

// Middleware makes logger available to handlers through FromContext.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}
