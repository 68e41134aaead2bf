package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mesh-intelligence/spectro/internal/gateway"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// CatalogState is the filter criteria and the last fetched results.
// Pigments and Loading are never persisted.
type CatalogState struct {
	types.Filters
	LastUpdated time.Time       `json:"last_updated"`
	Pigments    []types.Pigment `json:"pigments"`
	Loading     bool            `json:"loading"`
	Origin      Origin          `json:"origin,omitempty"`
}

// filterRecord is the persisted form of the criteria. Open date bounds and
// an unset timestamp are stored as null.
type filterRecord struct {
	Search    string `json:"search"`
	Color     string `json:"color"`
	DateRange struct {
		From *string `json:"from"`
		To   *string `json:"to"`
	} `json:"dateRange"`
	LastUpdated *int64 `json:"lastUpdated"`
}

// Catalog is the catalog filter store. Every criteria change is persisted
// under types.KeyFilters.
type Catalog struct {
	kv       types.KeyValueStore
	remote   DataSource
	sample   DataSource
	identity Identity
	logger   *slog.Logger

	mu       sync.Mutex
	state    CatalogState
	mock     *bool
	epoch    uint64
	inflight int
}

// NewCatalog restores the criteria from kv. identity may be nil, in which
// case the session is treated as anonymous.
func NewCatalog(kv types.KeyValueStore, remote DataSource, identity Identity, opts Options) *Catalog {
	c := &Catalog{
		kv:       kv,
		remote:   remote,
		sample:   opts.Sample,
		identity: identity,
		logger:   opts.logger(),
		mock:     opts.Mock,
	}
	if c.sample == nil {
		c.sample = NewSampleSource(nil)
	}
	if st, ok := restoreFilters(kv); ok {
		c.state = st
	}
	return c
}

// restoreFilters parses the persisted criteria. Any missing or unreadable
// record yields ok=false and the caller keeps the defaults.
func restoreFilters(kv types.KeyValueStore) (CatalogState, bool) {
	raw, err := kv.Get(types.KeyFilters)
	if err != nil || raw == "" {
		return CatalogState{}, false
	}
	var rec filterRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return CatalogState{}, false
	}
	var st CatalogState
	st.Search = rec.Search
	st.Color = rec.Color
	if rec.DateRange.From != nil {
		st.DateRange.From = *rec.DateRange.From
	}
	if rec.DateRange.To != nil {
		st.DateRange.To = *rec.DateRange.To
	}
	if st.DateRange.Validate() != nil {
		return CatalogState{}, false
	}
	if rec.LastUpdated != nil {
		st.LastUpdated = time.UnixMilli(*rec.LastUpdated)
	}
	st.Pigments = []types.Pigment{}
	return st, true
}

// State returns a snapshot of the store.
func (c *Catalog) State() CatalogState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Pigments = append([]types.Pigment{}, c.state.Pigments...)
	return st
}

// SetSearch replaces the search text.
func (c *Catalog) SetSearch(search string) error {
	return c.update(func(st *CatalogState) { st.Search = search })
}

// SetColor replaces the color filter.
func (c *Catalog) SetColor(color string) error {
	return c.update(func(st *CatalogState) { st.Color = color })
}

// SetDateRange replaces the creation-date bounds. Bounds are YYYY-MM-DD or
// empty.
func (c *Catalog) SetDateRange(r types.DateRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return c.update(func(st *CatalogState) { st.DateRange = r })
}

// Reset restores the default criteria and clears results. Results of
// fetches still in flight are discarded.
func (c *Catalog) Reset() error {
	return c.update(func(st *CatalogState) {
		c.epoch++
		*st = CatalogState{Loading: c.inflight > 0}
	})
}

// OnLogout resets the criteria and discards results of fetches still in
// flight.
func (c *Catalog) OnLogout() error {
	return c.Reset()
}

// SetMockMode forces the local sample source on or off for anonymous
// sessions. The choice is persisted.
func (c *Catalog) SetMockMode(on bool) {
	c.mu.Lock()
	c.mock = &on
	c.mu.Unlock()
}

func (c *Catalog) update(fn func(*CatalogState)) error {
	c.mu.Lock()
	fn(&c.state)
	c.state.LastUpdated = time.Now()
	rec := c.recordLocked()
	c.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	if err := c.kv.Set(types.KeyFilters, string(data)); err != nil {
		return fmt.Errorf("persisting filters: %w", err)
	}
	return nil
}

func (c *Catalog) recordLocked() filterRecord {
	var rec filterRecord
	rec.Search = c.state.Search
	rec.Color = c.state.Color
	if c.state.DateRange.From != "" {
		from := c.state.DateRange.From
		rec.DateRange.From = &from
	}
	if c.state.DateRange.To != "" {
		to := c.state.DateRange.To
		rec.DateRange.To = &to
	}
	if !c.state.LastUpdated.IsZero() {
		ms := c.state.LastUpdated.UnixMilli()
		rec.LastUpdated = &ms
	}
	return rec
}

// useSample decides between the remote and the sample source. An
// authenticated session always reads the backend and drops any persisted
// mock mode; otherwise an explicit choice wins and is persisted, then the
// persisted choice applies.
func (c *Catalog) useSample() bool {
	if c.identity != nil && c.identity.IsAuthenticated() {
		if _, err := c.kv.Get(types.KeyMockMode); err == nil {
			if err := c.kv.Delete(types.KeyMockMode); err != nil {
				c.logger.Warn("clearing mock mode", "error", err)
			}
			c.logger.Info("mock mode disabled for authenticated session")
		}
		return false
	}

	c.mu.Lock()
	mock := c.mock
	c.mu.Unlock()
	if mock != nil {
		var err error
		if *mock {
			err = c.kv.Set(types.KeyMockMode, "1")
		} else {
			err = c.kv.Delete(types.KeyMockMode)
		}
		if err != nil {
			c.logger.Warn("persisting mock mode", "error", err)
		}
		return *mock
	}

	v, err := c.kv.Get(types.KeyMockMode)
	return err == nil && v == "1"
}

// Fetch queries the selected source with the current criteria. A failing
// backend degrades to the sample dataset; no error state is recorded.
func (c *Catalog) Fetch(ctx context.Context) {
	c.mu.Lock()
	c.inflight++
	c.state.Loading = true
	filters := c.state.Filters
	epoch := c.epoch
	c.mu.Unlock()

	pigments, origin := c.query(ctx, filters)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	c.state.Loading = c.inflight > 0
	if epoch != c.epoch {
		c.logger.Debug("discarding stale catalog results")
		return
	}
	c.state.Pigments = pigments
	c.state.Origin = origin
}

func (c *Catalog) query(ctx context.Context, f types.Filters) ([]types.Pigment, Origin) {
	if c.useSample() {
		pigments, _ := c.sample.Pigments(ctx, f)
		return nonNil(pigments), OriginSample
	}
	pigments, err := c.remote.Pigments(ctx, f)
	if err == nil {
		return nonNil(pigments), OriginRemote
	}
	c.logger.Warn("catalog unavailable, using sample data", "error", err)
	pigments, _ = c.sample.Pigments(ctx, f)
	return nonNil(pigments), OriginFallback
}

// Pigment looks up one catalog entry from the selected source. Only an
// unreachable backend falls back to the sample dataset; a backend 404 is
// returned as is.
func (c *Catalog) Pigment(ctx context.Context, id int64) (*types.Pigment, Origin, error) {
	if c.useSample() {
		p, err := c.sample.Pigment(ctx, id)
		return p, OriginSample, err
	}
	p, err := c.remote.Pigment(ctx, id)
	if err == nil {
		return p, OriginRemote, nil
	}
	if !gateway.IsUnavailable(err) {
		return nil, OriginRemote, err
	}
	c.logger.Warn("catalog unavailable, using sample data", "error", err)
	p, err = c.sample.Pigment(ctx, id)
	return p, OriginFallback, err
}

func nonNil(p []types.Pigment) []types.Pigment {
	if p == nil {
		return []types.Pigment{}
	}
	return p
}
