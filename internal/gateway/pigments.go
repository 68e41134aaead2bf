package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// Pigments queries the public catalog with the given filters.
func (c *Client) Pigments(ctx context.Context, f types.Filters) ([]types.Pigment, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Color != "" {
		q.Set("color", f.Color)
	}
	if f.DateRange.From != "" {
		q.Set("date_from", f.DateRange.From)
	}
	if f.DateRange.To != "" {
		q.Set("date_to", f.DateRange.To)
	}

	var out struct {
		Pigments []types.Pigment `json:"pigments"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/pigments",
		path:   "/pigments",
		query:  q,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Pigments == nil {
		out.Pigments = []types.Pigment{}
	}
	return out.Pigments, nil
}

// Pigment returns one catalog entry.
func (c *Client) Pigment(ctx context.Context, id int64) (*types.Pigment, error) {
	var out struct {
		Pigment *types.Pigment `json:"pigment"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/pigments/{id}",
		path:   "/pigments/" + strconv.FormatInt(id, 10),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Pigment == nil {
		return nil, &APIError{Status: http.StatusNotFound}
	}
	return out.Pigment, nil
}
