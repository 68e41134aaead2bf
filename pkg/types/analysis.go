// Spectrum analysis entity, line items, and lifecycle statuses.
package types

import (
	"fmt"
	"time"
)

// Status is the server-authoritative lifecycle stage of an analysis.
type Status string

// Analysis statuses. An analysis progresses draft -> created -> completed
// or rejected. Completed and rejected are terminal.
const (
	StatusDraft     Status = "draft"
	StatusCreated   Status = "created"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// validTransitions maps each status to the statuses it may move to.
var validTransitions = map[Status][]Status{
	StatusDraft:     {StatusCreated},
	StatusCreated:   {StatusCompleted, StatusRejected},
	StatusCompleted: nil,
	StatusRejected:  nil,
}

// ParseStatus returns the Status named by s.
// Returns ErrInvalidStatus if s is not a known status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := validTransitions[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// CanTransition reports whether s may move to next.
func (s Status) CanTransition(next Status) bool {
	for _, st := range validTransitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// Phase is the client-side state of the draft-application store.
type Phase string

// Draft-application phases. NoCart is initial.
const (
	PhaseNoCart    Phase = "NO_CART"
	PhaseDraft     Phase = "DRAFT"
	PhaseCreated   Phase = "CREATED"
	PhaseCompleted Phase = "COMPLETED"
	PhaseRejected  Phase = "REJECTED"
)

// PhaseOf maps a status to its phase. Unknown statuses map to PhaseNoCart.
func PhaseOf(s Status) Phase {
	switch s {
	case StatusDraft:
		return PhaseDraft
	case StatusCreated:
		return PhaseCreated
	case StatusCompleted:
		return PhaseCompleted
	case StatusRejected:
		return PhaseRejected
	}
	return PhaseNoCart
}

// LineItem is a pigment association within an analysis.
type LineItem struct {
	PigmentID int64   `json:"pigment_id"`
	Name      string  `json:"name"`
	Brief     string  `json:"brief"`
	ImageKey  string  `json:"image_key"`
	Comment   string  `json:"comment"`
	Percent   float64 `json:"percent"`
}

// Analysis is a spectrum-analysis request with its line items.
type Analysis struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	Spectrum    string     `json:"spectrum,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	FormedAt    *time.Time `json:"formed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatorID   uint       `json:"creator_id"`
	Pigments    []LineItem `json:"pigments,omitempty"`
}

// Cart is the server summary of the user's active draft.
type Cart struct {
	AnalysisID    string `json:"analysis_id"`
	ItemsCount    int    `json:"items_count"`
	HasActiveCart bool   `json:"has_active_cart"`
}

// AnalysisFilter narrows the analyses list. Zero values are omitted.
type AnalysisFilter struct {
	Status   Status
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}

// AnalysisPatch updates user-editable analysis metadata.
// Nil fields are left unchanged.
type AnalysisPatch struct {
	Name     *string `json:"name,omitempty"`
	Spectrum *string `json:"spectrum,omitempty"`
}

// Validate returns ErrInvalidData if the patch changes nothing.
func (p AnalysisPatch) Validate() error {
	if p.Name == nil && p.Spectrum == nil {
		return fmt.Errorf("%w: name or spectrum required", ErrInvalidData)
	}
	return nil
}

// LineItemPatch updates a line item annotation. Nil fields are left unchanged.
type LineItemPatch struct {
	Comment *string
	Percent *float64
}

// Validate returns ErrInvalidData if the patch changes nothing or the
// percent lies outside [0,100].
func (p LineItemPatch) Validate() error {
	if p.Comment == nil && p.Percent == nil {
		return fmt.Errorf("%w: comment or percent required", ErrInvalidData)
	}
	if p.Percent != nil && (*p.Percent < 0 || *p.Percent > 100) {
		return fmt.Errorf("%w: percent %v outside [0,100]", ErrInvalidData, *p.Percent)
	}
	return nil
}

// CompleteAction is the moderator decision on a created analysis.
type CompleteAction string

// Moderator actions.
const (
	ActionComplete CompleteAction = "complete"
	ActionReject   CompleteAction = "reject"
)

// Validate returns ErrInvalidAction for anything but complete or reject.
func (a CompleteAction) Validate() error {
	if a != ActionComplete && a != ActionReject {
		return ErrInvalidAction
	}
	return nil
}

// Target returns the status the action moves an analysis to.
func (a CompleteAction) Target() Status {
	if a == ActionReject {
		return StatusRejected
	}
	return StatusCompleted
}
