package gateway

import (
	"context"
	"net/http"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// Profile returns the current user.
func (c *Client) Profile(ctx context.Context) (*types.User, error) {
	var out types.User
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/users/profile",
		path:   "/users/profile",
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the current user's login and/or password.
func (c *Client) UpdateProfile(ctx context.Context, patch types.ProfilePatch) (*types.User, error) {
	var out types.User
	err := c.do(ctx, request{
		method: http.MethodPut,
		route:  "/users/profile",
		path:   "/users/profile",
		body:   patch,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
