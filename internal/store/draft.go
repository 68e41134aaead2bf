package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/spectro/internal/gateway"
	"github.com/mesh-intelligence/spectro/internal/i18n"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// Draft is the draft-application store. Every mutation is a single backend
// request followed by a re-fetch of the authoritative state; nothing about
// cart contents or status is computed locally.
//
// Operations may run concurrently. Results are applied in completion order
// under a mutex, and results of operations started before OnLogout are
// dropped.
type Draft struct {
	api      DraftAPI
	identity Identity
	lang     string
	logger   *slog.Logger

	mu    sync.Mutex
	model draftModel
	epoch uint64
}

// NewDraft creates an empty store.
func NewDraft(api DraftAPI, identity Identity, opts Options) *Draft {
	return &Draft{
		api:      api,
		identity: identity,
		lang:     i18n.Normalize(opts.Language),
		logger:   opts.logger(),
	}
}

// State returns a snapshot of the store.
func (d *Draft) State() DraftState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.model.DraftState
	st.Pigments = append([]types.LineItem{}, st.Pigments...)
	if st.Application != nil {
		app := *st.Application
		st.Application = &app
	}
	return st
}

// begin starts an operation and returns its epoch.
func (d *Draft) begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.model = reduceDraft(d.model, evBegin{})
	return d.epoch
}

// apply reduces events unless the store was reset after epoch.
func (d *Draft) apply(epoch uint64, events ...draftEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if epoch != d.epoch {
		d.logger.Debug("discarding stale draft result", "events", len(events))
		return
	}
	for _, ev := range events {
		d.model = reduceDraft(d.model, ev)
	}
}

func (d *Draft) end(epoch uint64) {
	d.apply(epoch, evEnd{})
}

// fail records err under the fallback message code and returns it.
func (d *Draft) fail(epoch uint64, err error, code string) error {
	d.apply(epoch, evFailed{msg: errorText(err, d.lang, code)})
	return err
}

func (d *Draft) requireAuth() error {
	if d.identity == nil || !d.identity.IsAuthenticated() {
		return types.ErrNotAuthenticated
	}
	return nil
}

// RefreshCart fetches the cart summary. An anonymous session or a 401
// yields the empty cart without an error.
func (d *Draft) RefreshCart(ctx context.Context) error {
	epoch := d.begin()
	defer d.end(epoch)
	if d.requireAuth() != nil {
		d.apply(epoch, evCartCleared{})
		return nil
	}
	return d.refreshCart(ctx, epoch)
}

func (d *Draft) refreshCart(ctx context.Context, epoch uint64) error {
	cart, err := d.api.Cart(ctx)
	switch {
	case err == nil:
		d.apply(epoch, evCartLoaded{cart: cart})
		return nil
	case gateway.IsUnauthorized(err), errors.Is(err, gateway.ErrNoToken):
		d.apply(epoch, evCartCleared{})
		return nil
	default:
		d.apply(epoch, evCartFailed{msg: errorText(err, d.lang, i18n.CartLoadFailed)})
		return err
	}
}

// LoadDraft fetches the analysis with id, or the cart's analysis when id is
// empty.
func (d *Draft) LoadDraft(ctx context.Context, id string) error {
	epoch := d.begin()
	defer d.end(epoch)
	if err := d.requireAuth(); err != nil {
		return d.fail(epoch, err, i18n.AnalysisLoadFailed)
	}
	if id == "" {
		id = d.State().AnalysisID
	}
	if id == "" {
		return d.fail(epoch, types.ErrNoActiveCart, i18n.AnalysisLoadFailed)
	}
	return d.loadDraft(ctx, epoch, id)
}

func (d *Draft) loadDraft(ctx context.Context, epoch uint64, id string) error {
	a, err := d.api.Analysis(ctx, id)
	if err != nil {
		return d.fail(epoch, err, i18n.AnalysisLoadFailed)
	}
	d.apply(epoch, evDraftLoaded{analysis: a})
	return nil
}

// requireStatus checks that analysis id is in want, loading it first when
// it is not the loaded application.
func (d *Draft) requireStatus(ctx context.Context, epoch uint64, id string, want types.Status) error {
	if id == "" {
		return fmt.Errorf("%w: analysis id required", types.ErrInvalidData)
	}
	st := d.State()
	if st.Application == nil || st.Application.ID != id {
		if err := d.loadDraft(ctx, epoch, id); err != nil {
			return err
		}
		st = d.State()
	}
	if st.Application == nil || st.Application.ID != id {
		// A logout raced the load.
		return types.ErrNotAuthenticated
	}
	if st.Application.Status != want {
		return fmt.Errorf("%w: analysis %s is %s", types.ErrInvalidTransition, id, st.Application.Status)
	}
	return nil
}

// guardDraft runs the checks shared by every draft-only mutation.
func (d *Draft) guardDraft(ctx context.Context, epoch uint64, id, code string) error {
	if err := d.requireAuth(); err != nil {
		return d.fail(epoch, err, code)
	}
	if err := d.requireStatus(ctx, epoch, id, types.StatusDraft); err != nil {
		return d.fail(epoch, err, code)
	}
	return nil
}

// AddPigment adds a catalog pigment to the cart; the backend creates the
// draft when there is none. The cart summary is re-fetched on success.
func (d *Draft) AddPigment(ctx context.Context, pigmentID int64) error {
	epoch := d.begin()
	defer d.end(epoch)
	if err := d.requireAuth(); err != nil {
		return d.fail(epoch, err, i18n.PigmentAddFailed)
	}
	res, err := d.api.AddPigment(ctx, pigmentID)
	if err != nil {
		return d.fail(epoch, err, i18n.PigmentAddFailed)
	}
	d.logger.Debug("pigment added", "pigment_id", pigmentID, "analysis_id", res.AnalysisID)
	return d.refreshCart(ctx, epoch)
}

// RemovePigment removes a line item from a draft, then re-fetches the
// draft and the cart.
func (d *Draft) RemovePigment(ctx context.Context, analysisID string, pigmentID int64) error {
	epoch := d.begin()
	defer d.end(epoch)
	if err := d.guardDraft(ctx, epoch, analysisID, i18n.PigmentRemoveFailed); err != nil {
		return err
	}
	if err := d.api.RemoveLineItem(ctx, analysisID, pigmentID); err != nil {
		return d.fail(epoch, err, i18n.PigmentRemoveFailed)
	}
	if err := d.loadDraft(ctx, epoch, analysisID); err != nil {
		return err
	}
	return d.refreshCart(ctx, epoch)
}

// UpdateLineItem changes the comment and/or percent of a line item, then
// re-fetches the draft.
func (d *Draft) UpdateLineItem(ctx context.Context, analysisID string, pigmentID int64, patch types.LineItemPatch) error {
	epoch := d.begin()
	defer d.end(epoch)
	if err := patch.Validate(); err != nil {
		return d.fail(epoch, err, i18n.PigmentUpdateFailed)
	}
	if err := d.guardDraft(ctx, epoch, analysisID, i18n.PigmentUpdateFailed); err != nil {
		return err
	}
	if err := d.api.UpdateLineItem(ctx, analysisID, pigmentID, patch); err != nil {
		return d.fail(epoch, err, i18n.PigmentUpdateFailed)
	}
	return d.loadDraft(ctx, epoch, analysisID)
}

// UpdateMetadata changes name and/or spectrum, then re-fetches the draft.
func (d *Draft) UpdateMetadata(ctx context.Context, analysisID string, patch types.AnalysisPatch) error {
	epoch := d.begin()
	defer d.end(epoch)
	if err := patch.Validate(); err != nil {
		return d.fail(epoch, err, i18n.AnalysisUpdateFailed)
	}
	if err := d.guardDraft(ctx, epoch, analysisID, i18n.AnalysisUpdateFailed); err != nil {
		return err
	}
	if err := d.api.UpdateAnalysis(ctx, analysisID, patch); err != nil {
		return d.fail(epoch, err, i18n.AnalysisUpdateFailed)
	}
	return d.loadDraft(ctx, epoch, analysisID)
}

// SubmitDraft forms the draft (draft -> created), then re-fetches it.
func (d *Draft) SubmitDraft(ctx context.Context, analysisID string) error {
	epoch := d.begin()
	defer d.end(epoch)
	if err := d.guardDraft(ctx, epoch, analysisID, i18n.AnalysisFormFailed); err != nil {
		return err
	}
	if err := d.api.FormAnalysis(ctx, analysisID); err != nil {
		return d.fail(epoch, err, i18n.AnalysisFormFailed)
	}
	d.apply(epoch, evSubmitted{})
	return d.loadDraft(ctx, epoch, analysisID)
}

// DeleteDraft discards the draft, resets the store to the empty cart, and
// re-fetches the cart.
func (d *Draft) DeleteDraft(ctx context.Context, analysisID string) error {
	epoch := d.begin()
	defer d.end(epoch)
	if err := d.guardDraft(ctx, epoch, analysisID, i18n.AnalysisDeleteFailed); err != nil {
		return err
	}
	if err := d.api.DeleteAnalysis(ctx, analysisID); err != nil {
		return d.fail(epoch, err, i18n.AnalysisDeleteFailed)
	}
	d.apply(epoch, evCartReset{})
	return d.refreshCart(ctx, epoch)
}

// CompleteDraft moves a created analysis to completed or rejected, then
// re-fetches the analysis and the cart. Moderator only.
func (d *Draft) CompleteDraft(ctx context.Context, analysisID string, action types.CompleteAction) error {
	epoch := d.begin()
	defer d.end(epoch)
	if err := d.requireAuth(); err != nil {
		return d.fail(epoch, err, i18n.AnalysisCompleteFail)
	}
	if !d.identity.IsModerator() {
		return d.fail(epoch, types.ErrForbidden, i18n.AnalysisCompleteFail)
	}
	if err := action.Validate(); err != nil {
		return d.fail(epoch, err, i18n.AnalysisCompleteFail)
	}
	if err := d.requireStatus(ctx, epoch, analysisID, types.StatusCreated); err != nil {
		return d.fail(epoch, err, i18n.AnalysisCompleteFail)
	}
	if err := d.api.CompleteAnalysis(ctx, analysisID, action); err != nil {
		return d.fail(epoch, err, i18n.AnalysisCompleteFail)
	}
	if err := d.loadDraft(ctx, epoch, analysisID); err != nil {
		return err
	}
	return d.refreshCart(ctx, epoch)
}

// OnLogout resets the store to the empty cart unconditionally. Operations
// still in flight finish without touching the state.
func (d *Draft) OnLogout() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.epoch++
	d.model = reduceDraft(d.model, evLogout{})
}
