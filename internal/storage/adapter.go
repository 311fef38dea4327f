package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/campus-events/internal/metrics"
	"github.com/rs/zerolog"
)

// SchemaVersion is the envelope version written by Set.
const SchemaVersion = 1

type envelope struct {
	Schema int             `json:"schema"`
	Value  json.RawMessage `json:"value"`
}

// Adapter stores JSON-serializable values in a Backend under namespaced
// keys. Reads that fail for any reason degrade to "absent" and are logged.
type Adapter struct {
	backend Backend
	prefix  string
	logger  zerolog.Logger
}

// NewAdapter returns the root adapter for namespace. Use Global or Profile
// to obtain a scoped view before reading or writing keys.
func NewAdapter(backend Backend, namespace string, logger zerolog.Logger) *Adapter {
	if namespace == "" {
		namespace = "campus"
	}
	return &Adapter{
		backend: backend,
		prefix:  namespace,
		logger:  logger.With().Str("component", "storage").Logger(),
	}
}

// Global scopes keys shared by every profile (users, contactSubmissions).
func (a *Adapter) Global() *Adapter {
	return a.scoped("global")
}

// Profile scopes keys owned by a single visitor profile.
func (a *Adapter) Profile(profileID string) *Adapter {
	return a.scoped("profile:" + profileID)
}

func (a *Adapter) scoped(scope string) *Adapter {
	return &Adapter{
		backend: a.backend,
		prefix:  a.prefix + ":" + scope,
		logger:  a.logger,
	}
}

// Key returns the fully qualified backend key.
func (a *Adapter) Key(key string) string {
	return a.prefix + ":" + key
}

// Lookup decodes the value stored at key into dst. It reports false with a
// nil error when the key is absent, and an ErrStorage-wrapped error when the
// backend or the stored payload is unusable.
func (a *Adapter) Lookup(ctx context.Context, key string, dst any) (bool, error) {
	fullKey := a.Key(key)
	raw, err := a.backend.Load(ctx, fullKey)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: load %s: %v", ErrStorage, fullKey, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, fmt.Errorf("%w: decode envelope %s: %v", ErrStorage, fullKey, err)
	}
	if env.Schema != SchemaVersion {
		return false, fmt.Errorf("%w: %s has unsupported schema version %d", ErrStorage, fullKey, env.Schema)
	}
	if err := json.Unmarshal(env.Value, dst); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrStorage, fullKey, err)
	}
	return true, nil
}

// Get is Lookup with failures reported as absent. On false, dst may hold a
// partial decode and should be discarded.
func (a *Adapter) Get(ctx context.Context, key string, dst any) bool {
	found, err := a.Lookup(ctx, key, dst)
	if err != nil {
		a.diagnose("get", key, err)
		return false
	}
	return found
}

// Set serializes value and writes it under key.
func (a *Adapter) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("%w: encode %s: %v", ErrStorage, a.Key(key), err)
		a.diagnose("set", key, err)
		return err
	}
	raw, err := json.Marshal(envelope{Schema: SchemaVersion, Value: payload})
	if err != nil {
		err = fmt.Errorf("%w: encode envelope %s: %v", ErrStorage, a.Key(key), err)
		a.diagnose("set", key, err)
		return err
	}
	if err := a.backend.Save(ctx, a.Key(key), raw); err != nil {
		err = fmt.Errorf("%w: save %s: %v", ErrStorage, a.Key(key), err)
		a.diagnose("set", key, err)
		return err
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	err := a.backend.Delete(ctx, a.Key(key))
	if err != nil && !errors.Is(err, ErrNotFound) {
		err = fmt.Errorf("%w: delete %s: %v", ErrStorage, a.Key(key), err)
		a.diagnose("remove", key, err)
		return err
	}
	return nil
}

// Ping checks that the backend is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.backend.Ping(ctx)
}

func (a *Adapter) diagnose(op, key string, err error) {
	metrics.StorageErrors.WithLabelValues(op).Inc()
	a.logger.Warn().Err(err).Str("op", op).Str("key", a.Key(key)).Msg("storage operation failed")
}
