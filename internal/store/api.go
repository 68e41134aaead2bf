// Package store holds the client-side state of the application: the
// session, the catalog filters and results, the draft analysis ("cart"),
// and the analyses list. Each store is an explicit value constructed once
// and shared by the presentation layer; all remote calls go through the
// narrow API interfaces below, which *gateway.Client satisfies.
package store

import (
	"context"

	"github.com/mesh-intelligence/spectro/internal/gateway"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// AuthAPI is the identity half of the backend.
type AuthAPI interface {
	Login(ctx context.Context, creds types.Credentials) (*types.AuthResponse, error)
	Register(ctx context.Context, creds types.Credentials) (*types.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*types.AuthResponse, error)
	Profile(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, patch types.ProfilePatch) (*types.User, error)
}

// CatalogAPI queries the public pigment catalog.
type CatalogAPI interface {
	Pigments(ctx context.Context, f types.Filters) ([]types.Pigment, error)
	Pigment(ctx context.Context, id int64) (*types.Pigment, error)
}

// DraftAPI covers the cart, analysis detail, and every analysis mutation.
type DraftAPI interface {
	Cart(ctx context.Context) (types.Cart, error)
	Analysis(ctx context.Context, id string) (*types.Analysis, error)
	AddPigment(ctx context.Context, pigmentID int64) (gateway.AddResult, error)
	RemoveLineItem(ctx context.Context, analysisID string, pigmentID int64) error
	UpdateLineItem(ctx context.Context, analysisID string, pigmentID int64, patch types.LineItemPatch) error
	UpdateAnalysis(ctx context.Context, id string, patch types.AnalysisPatch) error
	FormAnalysis(ctx context.Context, id string) error
	DeleteAnalysis(ctx context.Context, id string) error
	CompleteAnalysis(ctx context.Context, id string, action types.CompleteAction) error
}

// AnalysesAPI lists analyses visible to the current user.
type AnalysesAPI interface {
	ListAnalyses(ctx context.Context, f types.AnalysisFilter) ([]types.Analysis, error)
}

// API is the full backend surface used by App.
type API interface {
	AuthAPI
	CatalogAPI
	DraftAPI
	AnalysesAPI
}

var _ API = (*gateway.Client)(nil)

// Identity answers the authorization questions the stores ask before
// issuing authenticated calls. Session implements it.
type Identity interface {
	IsAuthenticated() bool
	IsModerator() bool
}
