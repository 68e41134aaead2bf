package store

import (
	"slices"
	"time"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// Application is the loaded analysis metadata.
type Application struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Spectrum    string       `json:"spectrum"`
	Status      types.Status `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	FormedAt    *time.Time   `json:"formed_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatorID   uint         `json:"creator_id"`
}

// DraftState is the draft-application store state. The zero value is the
// empty-cart default.
type DraftState struct {
	AnalysisID    string           `json:"analysis_id"`
	ItemsCount    int              `json:"items_count"`
	HasActiveCart bool             `json:"has_active_cart"`
	Application   *Application     `json:"application,omitempty"`
	Pigments      []types.LineItem `json:"pigments"`
	IsDraft       bool             `json:"is_draft"`
	Loading       bool             `json:"loading"`
	Error         string           `json:"error,omitempty"`
}

// Phase derives the state-machine phase from the loaded application, or
// from the cart summary when nothing is loaded.
func (s DraftState) Phase() types.Phase {
	if s.Application != nil {
		return types.PhaseOf(s.Application.Status)
	}
	if s.HasActiveCart {
		return types.PhaseDraft
	}
	return types.PhaseNoCart
}

// draftModel is DraftState plus the count of operations in flight.
type draftModel struct {
	DraftState
	inflight int
}

// draftEvent is the closed set of inputs to reduceDraft.
type draftEvent interface {
	draftEvent()
}

type (
	// evBegin marks an operation start: loading on, error cleared.
	evBegin struct{}
	// evEnd marks an operation end.
	evEnd struct{}
	// evCartLoaded applies a cart summary.
	evCartLoaded struct{ cart types.Cart }
	// evCartCleared is an unauthorized cart refresh: no cart, no error.
	evCartCleared struct{}
	// evCartFailed zeroes the cart and records msg.
	evCartFailed struct{ msg string }
	// evDraftLoaded replaces the loaded application and its line items.
	evDraftLoaded struct{ analysis *types.Analysis }
	// evSubmitted marks the loaded application as no longer editable.
	evSubmitted struct{}
	// evFailed records msg and leaves everything else unchanged.
	evFailed struct{ msg string }
	// evCartReset restores the empty-cart data after a delete.
	evCartReset struct{}
	// evLogout restores the initial state, in-flight count included.
	evLogout struct{}
)

func (evBegin) draftEvent()       {}
func (evEnd) draftEvent()         {}
func (evCartLoaded) draftEvent()  {}
func (evCartCleared) draftEvent() {}
func (evCartFailed) draftEvent()  {}
func (evDraftLoaded) draftEvent() {}
func (evSubmitted) draftEvent()   {}
func (evFailed) draftEvent()      {}
func (evCartReset) draftEvent()   {}
func (evLogout) draftEvent()      {}

// reduceDraft is the only place draft state changes.
func reduceDraft(m draftModel, ev draftEvent) draftModel {
	switch ev := ev.(type) {
	case evBegin:
		m.inflight++
		m.Error = ""
	case evEnd:
		if m.inflight > 0 {
			m.inflight--
		}
	case evCartLoaded:
		// A new cart supersedes a loaded analysis that is no longer the draft.
		if ev.cart.HasActiveCart && m.Application != nil && m.Application.ID != ev.cart.AnalysisID {
			m.Application = nil
			m.Pigments = nil
			m.IsDraft = false
		}
		m.AnalysisID = ev.cart.AnalysisID
		m.ItemsCount = ev.cart.ItemsCount
		m.HasActiveCart = ev.cart.HasActiveCart
		m.Error = ""
	case evCartCleared:
		m.AnalysisID = ""
		m.ItemsCount = 0
		m.HasActiveCart = false
		m.Error = ""
	case evCartFailed:
		m.AnalysisID = ""
		m.ItemsCount = 0
		m.HasActiveCart = false
		m.Error = ev.msg
	case evDraftLoaded:
		a := ev.analysis
		m.Application = &Application{
			ID:          a.ID,
			Name:        a.Name,
			Spectrum:    a.Spectrum,
			Status:      a.Status,
			CreatedAt:   a.CreatedAt,
			FormedAt:    a.FormedAt,
			CompletedAt: a.CompletedAt,
			CreatorID:   a.CreatorID,
		}
		m.Pigments = slices.Clone(a.Pigments)
		if m.Pigments == nil {
			m.Pigments = []types.LineItem{}
		}
		m.IsDraft = a.Status == types.StatusDraft
		m.ItemsCount = len(m.Pigments)
		m.Error = ""
	case evSubmitted:
		m.IsDraft = false
	case evFailed:
		m.Error = ev.msg
	case evCartReset:
		m.DraftState = DraftState{Loading: m.Loading}
	case evLogout:
		m = draftModel{}
	}
	m.Loading = m.inflight > 0
	return m
}
