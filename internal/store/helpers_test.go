package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/spectro/internal/gateway"
	"github.com/mesh-intelligence/spectro/internal/gateway/gatewaytest"
	"github.com/mesh-intelligence/spectro/internal/sqlite"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// setupKV creates an attached SQLite key-value store in a temp directory.
func setupKV(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// setupApp wires an App to srv over a fresh key-value store.
func setupApp(t *testing.T, srv *gatewaytest.Server, opts Options) (*App, *sqlite.Backend) {
	t.Helper()
	kv := setupKV(t)
	client, err := gateway.New(srv.URL(), kv, gateway.Options{})
	require.NoError(t, err)
	return NewApp(kv, client, opts), kv
}

// loggedIn registers login on srv and signs the app in as it.
func loggedIn(t *testing.T, srv *gatewaytest.Server, login string, moderator bool) *App {
	t.Helper()
	srv.AddUser(login, "pw", moderator)
	app, _ := setupApp(t, srv, Options{})
	require.NoError(t, app.Session.Login(context.Background(), login, "pw"))
	return app
}

// callStrings renders srv's request log as "METHOD /path" lines.
func callStrings(srv *gatewaytest.Server) []string {
	calls := srv.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
