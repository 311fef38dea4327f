// Package backend opens a storage.Backend from a STORAGE_URL value.
package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/Togather-Foundation/campus-events/internal/storage/memory"
	"github.com/Togather-Foundation/campus-events/internal/storage/postgres"
	"github.com/Togather-Foundation/campus-events/internal/storage/redis"
	"github.com/Togather-Foundation/campus-events/internal/storage/sqlite"
)

// Open selects a backend by URL scheme.
func Open(ctx context.Context, rawURL string) (storage.Backend, error) {
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return nil, fmt.Errorf("storage url %q has no scheme", Describe(rawURL))
	}

	switch strings.ToLower(scheme) {
	case "memory", "mem":
		return memory.New(), nil
	case "sqlite", "file":
		return sqlite.Open(rest)
	case "postgres", "postgresql":
		return postgres.Open(ctx, rawURL)
	case "redis", "rediss":
		return redis.Open(ctx, rawURL)
	default:
		return nil, fmt.Errorf("unsupported storage scheme %q", scheme)
	}
}

// Describe returns the URL with user info and password query parameters
// removed, for logs.
func Describe(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return "<unparseable storage url>"
	}
	if u.Host == "" && u.Path == "" {
		return u.Scheme + "://"
	}
	u.User = nil
	if q := u.Query(); q.Has("password") {
		q.Del("password")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
