package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// AddResult is the backend reply to adding a pigment to the cart.
type AddResult struct {
	AnalysisID string
	ItemsCount int
}

// lineItemBody addresses a line item in /spectrumAnalysis-pigments.
type lineItemBody struct {
	AnalysisID string   `json:"spectrum_analysis_id"`
	PigmentID  int64    `json:"pigment_id"`
	Comment    *string  `json:"comment,omitempty"`
	Percent    *float64 `json:"percent,omitempty"`
}

// ListAnalyses returns the analyses visible to the current user. The
// backend filters by role.
func (c *Client) ListAnalyses(ctx context.Context, f types.AnalysisFilter) ([]types.Analysis, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	var out struct {
		Analyses []types.Analysis `json:"analyses"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/spectrum-analysis",
		path:   "/spectrum-analysis",
		query:  q,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Analyses == nil {
		out.Analyses = []types.Analysis{}
	}
	return out.Analyses, nil
}

// Cart returns the summary of the user's active draft.
func (c *Client) Cart(ctx context.Context) (types.Cart, error) {
	var out struct {
		AnalysisID    json.RawMessage `json:"analysis_id"`
		ItemsCount    int             `json:"items_count"`
		HasActiveCart bool            `json:"has_active_cart"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/spectrum-analysis/cart",
		path:   "/spectrum-analysis/cart",
		auth:   true,
	}, &out)
	if err != nil {
		return types.Cart{}, err
	}
	id, err := decodeID(out.AnalysisID)
	if err != nil {
		return types.Cart{}, err
	}
	return types.Cart{
		AnalysisID:    id,
		ItemsCount:    out.ItemsCount,
		HasActiveCart: out.HasActiveCart,
	}, nil
}

// Analysis returns the full analysis including its line items. Pigments is
// never nil.
func (c *Client) Analysis(ctx context.Context, id string) (*types.Analysis, error) {
	var raw json.RawMessage
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/spectrum-analysis/{id}",
		path:   "/spectrum-analysis/" + url.PathEscape(id),
		auth:   true,
	}, &raw)
	if err != nil {
		return nil, err
	}

	// The backend wraps the object as {"analysis": {...}}; accept a bare
	// object as well.
	var wrapped struct {
		Analysis *types.Analysis `json:"analysis"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	a := wrapped.Analysis
	if a == nil {
		a = &types.Analysis{}
		if err := json.Unmarshal(raw, a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}
	if a.Pigments == nil {
		a.Pigments = []types.LineItem{}
	}
	return a, nil
}

// UpdateAnalysis changes name and/or spectrum of a draft.
func (c *Client) UpdateAnalysis(ctx context.Context, id string, patch types.AnalysisPatch) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		route:  "/spectrum-analysis/{id}",
		path:   "/spectrum-analysis/" + url.PathEscape(id),
		body:   patch,
		auth:   true,
	}, nil)
}

// FormAnalysis submits a draft (draft -> created).
func (c *Client) FormAnalysis(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		route:  "/spectrum-analysis/{id}/form",
		path:   "/spectrum-analysis/" + url.PathEscape(id) + "/form",
		auth:   true,
	}, nil)
}

// CompleteAnalysis moves a created analysis to completed or rejected.
// Moderator only.
func (c *Client) CompleteAnalysis(ctx context.Context, id string, action types.CompleteAction) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		route:  "/spectrum-analysis/{id}/complete",
		path:   "/spectrum-analysis/" + url.PathEscape(id) + "/complete",
		body:   map[string]string{"action": string(action)},
		auth:   true,
	}, nil)
}

// DeleteAnalysis discards a draft.
func (c *Client) DeleteAnalysis(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/spectrum-analysis/{id}",
		path:   "/spectrum-analysis/" + url.PathEscape(id),
		auth:   true,
	}, nil)
}

// AddPigment adds a catalog pigment to the active draft, creating the draft
// when none exists.
func (c *Client) AddPigment(ctx context.Context, pigmentID int64) (AddResult, error) {
	var out struct {
		AnalysisID json.RawMessage `json:"analysis_id"`
		ItemsCount int             `json:"items_count"`
	}
	id := strconv.FormatInt(pigmentID, 10)
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/pigments/{id}/add-to-sa",
		path:   "/pigments/" + id + "/add-to-sa",
		auth:   true,
	}, &out)
	if err != nil {
		return AddResult{}, err
	}
	analysisID, err := decodeID(out.AnalysisID)
	if err != nil {
		return AddResult{}, err
	}
	return AddResult{AnalysisID: analysisID, ItemsCount: out.ItemsCount}, nil
}

// UpdateLineItem changes the comment and/or percent of a line item.
func (c *Client) UpdateLineItem(ctx context.Context, analysisID string, pigmentID int64, patch types.LineItemPatch) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		route:  "/spectrumAnalysis-pigments",
		path:   "/spectrumAnalysis-pigments",
		body: lineItemBody{
			AnalysisID: analysisID,
			PigmentID:  pigmentID,
			Comment:    patch.Comment,
			Percent:    patch.Percent,
		},
		auth: true,
	}, nil)
}

// RemoveLineItem removes a pigment from an analysis.
func (c *Client) RemoveLineItem(ctx context.Context, analysisID string, pigmentID int64) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/spectrumAnalysis-pigments",
		path:   "/spectrumAnalysis-pigments",
		body:   lineItemBody{AnalysisID: analysisID, PigmentID: pigmentID},
		auth:   true,
	}, nil)
}

// decodeID accepts a JSON string, number, or null identifier.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("%w: unexpected analysis_id %s", ErrMalformedResponse, raw)
}
