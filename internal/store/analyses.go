package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mesh-intelligence/spectro/internal/i18n"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// AnalysesState is the last fetched analyses list.
type AnalysesState struct {
	Items   []types.Analysis `json:"items"`
	Loading bool             `json:"loading"`
	Error   string           `json:"error,omitempty"`
}

// Analyses is a read-through cache of the analyses visible to the current
// user. The backend decides visibility by role.
type Analyses struct {
	api      AnalysesAPI
	identity Identity
	lang     string
	logger   *slog.Logger

	mu    sync.Mutex
	state AnalysesState
	epoch uint64
}

// NewAnalyses creates an empty store.
func NewAnalyses(api AnalysesAPI, identity Identity, opts Options) *Analyses {
	return &Analyses{
		api:      api,
		identity: identity,
		lang:     i18n.Normalize(opts.Language),
		logger:   opts.logger(),
	}
}

// State returns a snapshot of the store.
func (a *Analyses) State() AnalysesState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.state
	st.Items = append([]types.Analysis{}, a.state.Items...)
	return st
}

// Fetch replaces the list with the analyses matching f.
func (a *Analyses) Fetch(ctx context.Context, f types.AnalysisFilter) error {
	a.mu.Lock()
	a.state.Loading = true
	a.state.Error = ""
	epoch := a.epoch
	a.mu.Unlock()

	items, err := a.fetch(ctx, f)

	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch {
		a.logger.Debug("discarding stale analyses list")
		return err
	}
	a.state.Loading = false
	if err != nil {
		a.state.Error = errorText(err, a.lang, i18n.AnalysesLoadFailed)
		return err
	}
	a.state.Items = items
	return nil
}

func (a *Analyses) fetch(ctx context.Context, f types.AnalysisFilter) ([]types.Analysis, error) {
	if a.identity == nil || !a.identity.IsAuthenticated() {
		return nil, types.ErrNotAuthenticated
	}
	if err := validateAnalysisFilter(f); err != nil {
		return nil, err
	}
	return a.api.ListAnalyses(ctx, f)
}

func validateAnalysisFilter(f types.AnalysisFilter) error {
	if f.Status != "" {
		if _, err := types.ParseStatus(string(f.Status)); err != nil {
			return fmt.Errorf("%w: %q", err, f.Status)
		}
	}
	for _, v := range []string{f.DateFrom, f.DateTo} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(types.DateLayout, v); err != nil {
			return types.ErrInvalidDate
		}
	}
	if f.Limit < 0 || f.Offset < 0 {
		return fmt.Errorf("%w: limit and offset must not be negative", types.ErrInvalidData)
	}
	return nil
}

// OnLogout clears the list.
func (a *Analyses) OnLogout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.epoch++
	a.state = AnalysesState{}
}
