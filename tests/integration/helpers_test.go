package integration

import (
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/spectro/internal/sqlite"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// openStore attaches to the database a spectro run left in dataDir.
func openStore(t *testing.T, dataDir string) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b
}

// dbPath is where spectro keeps its database inside dataDir.
func dbPath(dataDir string) string {
	return filepath.Join(dataDir, sqlite.DBFileName)
}
