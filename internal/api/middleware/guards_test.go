package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeChecker map[string]bool

func (f fakeChecker) IsAuthenticated(_ context.Context, profileID string) bool {
	return f[profileID]
}

func guardedRequest(method, path, profileID string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(WithProfileID(req.Context(), profileID))
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(fakeChecker{"signed-in": true})(okHandler())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, guardedRequest(http.MethodGet, "/dashboard", "anonymous"))
	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/login", res.Header().Get("Location"))

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, guardedRequest(http.MethodGet, "/dashboard", "signed-in"))
	require.Equal(t, http.StatusOK, res.Code)
}

func TestGuestOnly(t *testing.T) {
	handler := GuestOnly(fakeChecker{"signed-in": true})(okHandler())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, guardedRequest(http.MethodGet, "/login", "signed-in"))
	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/", res.Header().Get("Location"))

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, guardedRequest(http.MethodGet, "/login", "anonymous"))
	require.Equal(t, http.StatusOK, res.Code)

	// Posts fall through so the handler can answer them.
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, guardedRequest(http.MethodPost, "/login", "signed-in"))
	require.Equal(t, http.StatusOK, res.Code)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(okHandler(), mark("outer"), mark("inner")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}
