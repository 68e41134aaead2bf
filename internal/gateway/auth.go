package gateway

import (
	"context"
	"net/http"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

type refreshTokenBody struct {
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (*types.AuthResponse, error) {
	body := types.Credentials{Login: creds.Login, Password: creds.Password}
	var out types.AuthResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/auth/login",
		path:   "/auth/login",
		body:   body,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a user and returns its token pair.
func (c *Client) Register(ctx context.Context, creds types.Credentials) (*types.AuthResponse, error) {
	var out types.AuthResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/auth/register",
		path:   "/auth/register",
		body:   creds,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates refreshToken on the server.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		route:  "/auth/logout",
		path:   "/auth/logout",
		body:   refreshTokenBody{RefreshToken: refreshToken},
	}, nil)
}

// Refresh exchanges refreshToken for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*types.AuthResponse, error) {
	var out types.AuthResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/auth/refresh",
		path:   "/auth/refresh",
		body:   refreshTokenBody{RefreshToken: refreshToken},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
