// Tests for the SQLite key-value backend.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// setupBackend creates an attached Backend in a temp directory and detaches
// it when the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	require.NoError(t, b.Attach(config))

	_, err := os.Stat(filepath.Join(tmpDir, DBFileName))
	assert.NoError(t, err, "database file should be created")

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
	require.NoError(t, b.Detach())
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Get(types.KeyAccessToken)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, b.Set(types.KeyAccessToken, "x"), types.ErrStoreDetached)
	assert.ErrorIs(t, b.Delete(types.KeyAccessToken), types.ErrStoreDetached)
}

func TestBackend_GetSetDelete(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, b *Backend)
	}{
		{
			name: "missing key returns ErrNotFound",
			check: func(t *testing.T, b *Backend) {
				_, err := b.Get(types.KeyAccessToken)
				assert.ErrorIs(t, err, types.ErrNotFound)
			},
		},
		{
			name: "set then get returns the value",
			check: func(t *testing.T, b *Backend) {
				require.NoError(t, b.Set(types.KeyUsername, "researcher"))
				got, err := b.Get(types.KeyUsername)
				require.NoError(t, err)
				assert.Equal(t, "researcher", got)
			},
		},
		{
			name: "set overwrites the previous value",
			check: func(t *testing.T, b *Backend) {
				require.NoError(t, b.Set(types.KeyAccessToken, "a"))
				require.NoError(t, b.Set(types.KeyAccessToken, "b"))
				got, err := b.Get(types.KeyAccessToken)
				require.NoError(t, err)
				assert.Equal(t, "b", got)
			},
		},
		{
			name: "delete removes several keys and ignores missing ones",
			check: func(t *testing.T, b *Backend) {
				require.NoError(t, b.Set(types.KeyAccessToken, "a"))
				require.NoError(t, b.Set(types.KeyRefreshToken, "r"))
				require.NoError(t, b.Set(types.KeyFilters, "{}"))

				require.NoError(t, b.Delete(types.IdentityKeys...))

				_, err := b.Get(types.KeyAccessToken)
				assert.ErrorIs(t, err, types.ErrNotFound)
				_, err = b.Get(types.KeyRefreshToken)
				assert.ErrorIs(t, err, types.ErrNotFound)

				keys, err := b.Keys()
				require.NoError(t, err)
				assert.Equal(t, []string{types.KeyFilters}, keys)
			},
		},
		{
			name: "empty key is rejected",
			check: func(t *testing.T, b *Backend) {
				assert.ErrorIs(t, b.Set("", "x"), types.ErrInvalidKey)
				_, err := b.Get("")
				assert.ErrorIs(t, err, types.ErrInvalidKey)
			},
		},
		{
			name: "writes are recorded in history",
			check: func(t *testing.T, b *Backend) {
				require.NoError(t, b.Set(types.KeyAccessToken, "a"))
				require.NoError(t, b.Set(types.KeyAccessToken, "b"))
				require.NoError(t, b.Delete(types.KeyAccessToken))
				require.NoError(t, b.Delete(types.KeyAccessToken))

				n, err := b.HistoryCount(types.KeyAccessToken)
				require.NoError(t, err)
				assert.Equal(t, 3, n, "missing-key delete is not recorded")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, setupBackend(t))
		})
	}
}

func TestBackend_RecordsSurviveReattach(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	require.NoError(t, b.Set(types.KeyAccessToken, "token-1"))
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	t.Cleanup(func() { b2.Detach() })

	got, err := b2.Get(types.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "token-1", got)
}
