// Package storagetest holds the behavior every storage.Backend must share.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/stretchr/testify/require"
)

// RunBackendSuite exercises load/save/delete semantics against backend.
func RunBackendSuite(t *testing.T, backend storage.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := backend.Load(ctx, "suite:missing")
		require.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, backend.Save(ctx, "suite:a", []byte(`{"schema":1,"value":[1,2,3]}`)))
		got, err := backend.Load(ctx, "suite:a")
		require.NoError(t, err)
		require.JSONEq(t, `{"schema":1,"value":[1,2,3]}`, string(got))
	})

	t.Run("overwrite is last write wins", func(t *testing.T) {
		require.NoError(t, backend.Save(ctx, "suite:b", []byte(`{"schema":1,"value":"first"}`)))
		require.NoError(t, backend.Save(ctx, "suite:b", []byte(`{"schema":1,"value":"second"}`)))
		got, err := backend.Load(ctx, "suite:b")
		require.NoError(t, err)
		require.JSONEq(t, `{"schema":1,"value":"second"}`, string(got))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, backend.Save(ctx, "suite:c", []byte(`{"schema":1,"value":true}`)))
		require.NoError(t, backend.Delete(ctx, "suite:c"))
		_, err := backend.Load(ctx, "suite:c")
		require.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
		require.NoError(t, backend.Delete(ctx, "suite:never-set"))
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, backend.Ping(ctx))
	})
}
