package middleware

import (
	"context"
	"net/http"
)

// AuthChecker reports whether a profile holds the authenticated flag.
type AuthChecker interface {
	IsAuthenticated(ctx context.Context, profileID string) bool
}

// RequireAuth sends anonymous profiles to the login page.
func RequireAuth(checker AuthChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.IsAuthenticated(r.Context(), ProfileID(r.Context())) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GuestOnly sends authenticated profiles home. Only safe methods are
// redirected so a stale login form still gets a proper response.
func GuestOnly(checker AuthChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				if checker.IsAuthenticated(r.Context(), ProfileID(r.Context())) {
					http.Redirect(w, r, "/", http.StatusSeeOther)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares so the first one listed is the outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
