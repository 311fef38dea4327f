package redis

import (
	"context"
	"os"
	"testing"

	"github.com/Togather-Foundation/campus-events/internal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

// Runs only against a live server: REDIS_ADDR=redis://localhost:6379/15 go test ./...
func TestRedisBackend(t *testing.T) {
	url := os.Getenv("REDIS_ADDR")
	if url == "" {
		t.Skip("REDIS_ADDR not set")
	}

	store, err := Open(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	storagetest.RunBackendSuite(t, store)
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), "not-a-redis-url")
	require.Error(t, err)
}
