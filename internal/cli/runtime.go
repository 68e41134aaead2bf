package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/spectro/internal/gateway"
	"github.com/mesh-intelligence/spectro/internal/sqlite"
	"github.com/mesh-intelligence/spectro/internal/store"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// runtime is everything a command needs: configuration, the attached
// key-value store, the backend client, and the stores built over them.
type runtime struct {
	cfg    types.Config
	logger *slog.Logger
	kv     *sqlite.Backend
	client *gateway.Client
	app    *store.App
}

// openRuntime resolves configuration and attaches local storage.
// The caller must Close the runtime.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	kv := sqlite.NewBackend()
	if err := kv.Attach(cfg); err != nil {
		return nil, systemError("attach storage: %w", err)
	}

	client, err := gateway.New(cfg.EffectiveAPIURL(), kv, gateway.Options{
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	if err != nil {
		kv.Detach()
		return nil, err
	}

	opts := store.Options{Language: cfg.Language, Logger: logger}
	if cfg.Mock {
		on := true
		opts.Mock = &on
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		kv:     kv,
		client: client,
		app:    store.NewApp(kv, client, opts),
	}, nil
}

// Close writes the metrics file when requested and detaches storage.
func (r *runtime) Close() error {
	var errs []error
	if flags.metricsFile != "" {
		if err := r.client.Metrics().WriteTextfile(flags.metricsFile); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.kv.Detach(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type runFunc func(cmd *cobra.Command, args []string, rt *runtime) error

// withRuntime adapts fn to a cobra RunE that opens and closes a runtime.
func withRuntime(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rt.Close(); cerr != nil && err == nil {
				err = systemError("close: %w", cerr)
			}
		}()
		return fn(cmd, args, rt)
	}
}

// newLogger builds a text logger at the named level; unknown levels mean
// warn.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
