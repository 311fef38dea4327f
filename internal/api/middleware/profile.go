package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/domain/ids"
)

// ProfileCookieName holds the signed visitor profile token.
const ProfileCookieName = "campus_profile"

const profileIDKey contextKey = "profile_id"

var newProfileID = ids.NewULID

// ProfileTokens issues and verifies profile cookie values.
type ProfileTokens interface {
	Generate(profileID string) (string, error)
	Validate(token string) (string, error)
	Expiry() time.Duration
}

// Profile makes sure every request belongs to a visitor profile. A valid
// cookie keeps its profile; a missing, expired or tampered cookie starts a
// fresh anonymous profile and sets a new cookie.
func Profile(tokens ProfileTokens, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID := ""
			if cookie, err := r.Cookie(ProfileCookieName); err == nil && cookie.Value != "" {
				if id, err := tokens.Validate(cookie.Value); err == nil {
					profileID = id
				}
			}

			logger := LoggerFromContext(r.Context())
			if profileID == "" {
				id, err := newProfileID()
				if err != nil {
					logger.Error().Err(err).Msg("generate profile id")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				profileID = id
				token, err := tokens.Generate(profileID)
				if err != nil {
					logger.Error().Err(err).Msg("issue profile token")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     ProfileCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(tokens.Expiry().Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			reqLogger := logger.With().Str("profile_id", profileID).Logger()
			ctx := context.WithValue(r.Context(), profileIDKey, profileID)
			ctx = reqLogger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProfileID returns the visitor profile for the request, or "" outside the
// Profile middleware.
func ProfileID(ctx context.Context) string {
	if id, ok := ctx.Value(profileIDKey).(string); ok {
		return id
	}
	return ""
}

// WithProfileID attaches a profile id to ctx. Used by tests and CLI paths
// that call handlers without the cookie middleware.
func WithProfileID(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, profileIDKey, profileID)
}
