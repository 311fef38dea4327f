package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// errUnhealthy marks a reachable server that reported itself unhealthy.
var errUnhealthy = errors.New("server unhealthy")

func newHealthcheckCommand() *cobra.Command {
	var (
		timeout int
		url     string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check if the server is healthy",
		Long: `Performs a health check by calling the /readyz endpoint.

This command is used by Docker HEALTHCHECK to monitor container health.
A degraded server (catalog unreachable, storage fine) still passes unless
--strict is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				// Default to localhost with SERVER_PORT from environment
				port := os.Getenv("SERVER_PORT")
				if port == "" {
					port = "8080"
				}
				url = fmt.Sprintf("http://localhost:%s/readyz", port)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeout)*time.Second)
			defer cancel()

			resp, err := performHealthCheck(ctx, http.DefaultClient, url)
			if err != nil {
				return err
			}
			if resp.Status == "healthy" || (resp.Status == "degraded" && !strict) {
				fmt.Fprintf(cmd.OutOrStdout(), "Server status: %s\n", resp.Status)
				return nil
			}
			return fmt.Errorf("%w: status=%s", errUnhealthy, resp.Status)
		},
	}

	cmd.Flags().IntVar(&timeout, "timeout", 5, "timeout in seconds")
	cmd.Flags().StringVar(&url, "url", "", "health check URL (default: http://localhost:{SERVER_PORT}/readyz)")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat a degraded server as unhealthy")
	return cmd
}

// HealthResponse matches the response from internal/api/handlers/health.go
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is one dependency check in a HealthResponse.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func performHealthCheck(ctx context.Context, client *http.Client, url string) (HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return HealthResponse{}, fmt.Errorf("parse health check response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return health, fmt.Errorf("%w: status %d (%s)", errUnhealthy, resp.StatusCode, health.Status)
	}
	return health, nil
}
