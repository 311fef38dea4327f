package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck represents the health status of the server
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Status    string                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	LatencyMs int64                  `json:"latency_ms,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Pinger is a storage backend that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker checks the storage backend and the event catalog.
type HealthChecker struct {
	store     Pinger
	catalog   CatalogLoader
	version   string
	gitCommit string
	buildDate string
}

// NewHealthChecker creates a new health checker with the given dependencies
func NewHealthChecker(store Pinger, catalogLoader CatalogLoader, version, gitCommit, buildDate string) *HealthChecker {
	return &HealthChecker{
		store:     store,
		catalog:   catalogLoader,
		version:   version,
		gitCommit: gitCommit,
		buildDate: buildDate,
	}
}

// Readyz reports whether the server can serve pages: storage answers and
// the catalog loads. A failing catalog degrades rather than fails, since
// pages still render with an inline error.
func (h *HealthChecker) Readyz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Context cancelled - server is shutting down
		select {
		case <-r.Context().Done():
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "shutting_down"})
			return
		default:
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]CheckResult{
			"storage": h.checkStorage(ctx),
			"catalog": h.checkCatalog(ctx),
		}

		overallStatus := "healthy"
		statusCode := http.StatusOK
		for _, check := range checks {
			if check.Status == "fail" {
				overallStatus = "unhealthy"
				statusCode = http.StatusServiceUnavailable
				break
			} else if check.Status == "warn" && overallStatus == "healthy" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, statusCode, HealthCheck{
			Status:    overallStatus,
			Version:   h.version,
			GitCommit: h.gitCommit,
			Checks:    checks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (h *HealthChecker) checkStorage(ctx context.Context) CheckResult {
	start := time.Now()
	if h.store == nil {
		return CheckResult{Status: "fail", Message: "Storage not initialized"}
	}

	// Per-check timeout so one slow dependency cannot starve the other
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.store.Ping(pingCtx); err != nil {
		return CheckResult{
			Status:    "fail",
			Message:   "Storage backend unreachable",
			LatencyMs: time.Since(start).Milliseconds(),
			Details: map[string]interface{}{
				"error":       err.Error(),
				"remediation": "Check STORAGE_URL and that the backend service is running",
			},
		}
	}
	return CheckResult{
		Status:    "pass",
		Message:   "Storage backend reachable",
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func (h *HealthChecker) checkCatalog(ctx context.Context) CheckResult {
	start := time.Now()
	if h.catalog == nil {
		return CheckResult{Status: "fail", Message: "Catalog loader not initialized"}
	}

	loadCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	events, err := h.catalog.Load(loadCtx)
	if err != nil {
		return CheckResult{
			Status:    "warn",
			Message:   "Event catalog could not be loaded",
			LatencyMs: time.Since(start).Milliseconds(),
			Details: map[string]interface{}{
				"error":       err.Error(),
				"remediation": "Check CATALOG_SOURCE points at a readable JSON or YAML list",
			},
		}
	}
	return CheckResult{
		Status:    "pass",
		Message:   "Event catalog loaded",
		LatencyMs: time.Since(start).Milliseconds(),
		Details:   map[string]interface{}{"events": len(events)},
	}
}

// Version returns build information.
func (h *HealthChecker) Version() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version":    h.version,
			"git_commit": h.gitCommit,
			"build_date": h.buildDate,
		})
	}
}

// Healthz returns a lightweight liveness response
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	})
}

type healthResponse struct {
	Status string `json:"status"`
}
