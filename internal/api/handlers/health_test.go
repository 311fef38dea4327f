package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func readyz(t *testing.T, h *HealthChecker, ctx context.Context) (int, HealthCheck) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Readyz().ServeHTTP(rec, req)

	var body HealthCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestReadyzHealthy(t *testing.T) {
	h := NewHealthChecker(stubPinger{}, &stubCatalog{events: testEvents}, "1.2.3", "abc123", "2026-01-01")

	status, body := readyz(t, h, context.Background())
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "healthy", body.Status)
	require.Equal(t, "1.2.3", body.Version)
	require.Equal(t, "pass", body.Checks["storage"].Status)
	require.Equal(t, "pass", body.Checks["catalog"].Status)
	require.EqualValues(t, 3, body.Checks["catalog"].Details["events"])
}

func TestReadyzDegradedWhenCatalogFails(t *testing.T) {
	h := NewHealthChecker(stubPinger{}, &stubCatalog{err: catalog.ErrFetch}, "dev", "", "")

	status, body := readyz(t, h, context.Background())
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "degraded", body.Status)
	require.Equal(t, "warn", body.Checks["catalog"].Status)
}

func TestReadyzUnhealthyWhenStorageFails(t *testing.T) {
	h := NewHealthChecker(stubPinger{err: errors.New("connection refused")}, &stubCatalog{events: testEvents}, "dev", "", "")

	status, body := readyz(t, h, context.Background())
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Equal(t, "unhealthy", body.Status)
	require.Equal(t, "fail", body.Checks["storage"].Status)
}

func TestReadyzShuttingDown(t *testing.T) {
	h := NewHealthChecker(stubPinger{}, &stubCatalog{}, "dev", "", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, body := readyz(t, h, ctx)
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Equal(t, "shutting_down", body.Status)
}

func TestHealthzAndVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	h := NewHealthChecker(stubPinger{}, &stubCatalog{}, "1.2.3", "abc123", "2026-01-01")
	rec = httptest.NewRecorder()
	h.Version().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.JSONEq(t, `{"version":"1.2.3","git_commit":"abc123","build_date":"2026-01-01"}`, rec.Body.String())
}
