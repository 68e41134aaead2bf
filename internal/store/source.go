package store

import (
	"context"
	"slices"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// Origin names the data source that produced catalog results.
type Origin string

// Catalog origins.
const (
	// OriginRemote results came from the backend.
	OriginRemote Origin = "remote"
	// OriginSample results came from the local dataset because mock mode
	// was selected.
	OriginSample Origin = "sample"
	// OriginFallback results came from the local dataset because the
	// backend could not be reached.
	OriginFallback Origin = "fallback"
)

// DataSource answers catalog queries.
type DataSource interface {
	Pigments(ctx context.Context, f types.Filters) ([]types.Pigment, error)
	Pigment(ctx context.Context, id int64) (*types.Pigment, error)
}

// RemoteSource queries the backend catalog.
type RemoteSource struct {
	api CatalogAPI
}

// NewRemoteSource wraps api.
func NewRemoteSource(api CatalogAPI) *RemoteSource {
	return &RemoteSource{api: api}
}

func (r *RemoteSource) Pigments(ctx context.Context, f types.Filters) ([]types.Pigment, error) {
	return r.api.Pigments(ctx, f)
}

func (r *RemoteSource) Pigment(ctx context.Context, id int64) (*types.Pigment, error) {
	return r.api.Pigment(ctx, id)
}

// SampleSource filters a fixed dataset locally with the same predicate the
// backend applies.
type SampleSource struct {
	pigments []types.Pigment
}

// NewSampleSource returns a source over pigments, or over the built-in
// sample catalog when pigments is nil.
func NewSampleSource(pigments []types.Pigment) *SampleSource {
	if pigments == nil {
		pigments = samplePigments
	}
	return &SampleSource{pigments: slices.Clone(pigments)}
}

func (s *SampleSource) Pigments(_ context.Context, f types.Filters) ([]types.Pigment, error) {
	return types.FilterPigments(s.pigments, f), nil
}

func (s *SampleSource) Pigment(_ context.Context, id int64) (*types.Pigment, error) {
	for _, p := range s.pigments {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, types.ErrNotFound
}
