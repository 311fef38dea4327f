package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/auth"
	"github.com/Togather-Foundation/campus-events/internal/domain/ids"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testTokens() *auth.ProfileTokens {
	return auth.NewProfileTokens("test-secret-test-secret-test-secret", time.Hour, "campus-test")
}

func profileCookie(t *testing.T, res *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range res.Result().Cookies() {
		if c.Name == ProfileCookieName {
			return c
		}
	}
	return nil
}

func TestProfile_MintsProfileForNewVisitor(t *testing.T) {
	var seen string
	handler := Profile(testTokens(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ProfileID(r.Context())
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ids.IsULID(seen), "profile id should be a ULID, got %q", seen)
	cookie := profileCookie(t, res)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, 3600, cookie.MaxAge)

	got, err := testTokens().Validate(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, seen, got)
}

func TestProfile_KeepsValidCookie(t *testing.T) {
	tokens := testTokens()
	profileID, err := ids.NewULID()
	require.NoError(t, err)
	token, err := tokens.Generate(profileID)
	require.NoError(t, err)

	var seen string
	handler := Profile(tokens, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ProfileID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: ProfileCookieName, Value: token})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, profileID, seen)
	require.Nil(t, profileCookie(t, res), "a valid cookie should not be reissued")
}

func TestProfile_ReplacesTamperedCookie(t *testing.T) {
	var seen string
	handler := Profile(testTokens(), true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ProfileID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ProfileCookieName, Value: "not.a.token"})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.True(t, ids.IsULID(seen))
	cookie := profileCookie(t, res)
	require.NotNil(t, cookie)
	require.True(t, cookie.Secure)
}

type failingTokens struct{}

func (failingTokens) Generate(string) (string, error) { return "", errors.New("no key") }
func (failingTokens) Validate(string) (string, error) { return "", auth.ErrInvalidToken }
func (failingTokens) Expiry() time.Duration           { return time.Hour }

func TestProfile_TokenFailureIs500(t *testing.T) {
	called := false
	handler := Profile(failingTokens{}, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, res.Code)
	require.False(t, called)
}

func TestProfile_IDFailureIs500(t *testing.T) {
	orig := newProfileID
	newProfileID = func() (string, error) { return "", errors.New("entropy exhausted") }
	t.Cleanup(func() { newProfileID = orig })

	called := false
	handler := Profile(testTokens(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, res.Code)
	require.False(t, called)
	require.Nil(t, profileCookie(t, res))
}

func TestProfileID_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "", ProfileID(req.Context()))
	require.Equal(t, "p1", ProfileID(WithProfileID(req.Context(), "p1")))
}
