package middleware

import (
	"net/http"
)

// MaxFormBodySize bounds every form post. The largest legitimate body is a
// contact message, which is well under this.
const MaxFormBodySize int64 = 64 << 10

// RequestSize limits the size of incoming request bodies.
//
// It wraps the request body with http.MaxBytesReader; handlers that call
// ParseForm on an oversized body get an error and should answer 413.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FormRequestSize limits request bodies to MaxFormBodySize.
func FormRequestSize() func(http.Handler) http.Handler {
	return RequestSize(MaxFormBodySize)
}
