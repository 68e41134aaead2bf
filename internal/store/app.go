package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// Options configure the stores. Zero values select defaults.
type Options struct {
	// Language selects fallback error messages (ru or en).
	Language string
	Logger   *slog.Logger
	// Mock forces the catalog sample source for anonymous sessions when
	// non-nil.
	Mock *bool
	// Sample replaces the built-in sample catalog.
	Sample DataSource
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// App wires the four stores over one backend and one durable store.
type App struct {
	Session  *Session
	Catalog  *Catalog
	Draft    *Draft
	Analyses *Analyses
}

// NewApp builds the stores, restoring persisted state from kv.
func NewApp(kv types.KeyValueStore, api API, opts Options) *App {
	session := NewSession(kv, api, opts)
	return &App{
		Session:  session,
		Catalog:  NewCatalog(kv, NewRemoteSource(api), session, opts),
		Draft:    NewDraft(api, session, opts),
		Analyses: NewAnalyses(api, session, opts),
	}
}

// Logout signs out and resets every store tied to the identity. Local
// state is always cleared; the returned error reports what could not be
// done remotely or persisted.
func (a *App) Logout(ctx context.Context) error {
	err := a.Session.Logout(ctx)
	a.Draft.OnLogout()
	a.Analyses.OnLogout()
	return errors.Join(err, a.Catalog.OnLogout())
}
