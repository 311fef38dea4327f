package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a Backend when a key has no value.
	ErrNotFound = errors.New("storage: key not found")

	// ErrStorage marks serialization and backend failures surfaced by the Adapter.
	ErrStorage = errors.New("storage error")
)

// Backend persists raw values under fully qualified keys. Implementations
// must be safe for concurrent use; writes are last-write-wins per key.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Keys shared by every caller of the Adapter.
const (
	KeyUsers              = "users"
	KeyCurrentUser        = "currentUser"
	KeyIsAuthenticated    = "isAuthenticated"
	KeyUserInfo           = "userInfo"
	KeyContactSubmissions = "contactSubmissions"
)
