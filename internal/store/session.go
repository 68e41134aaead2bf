package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mesh-intelligence/spectro/internal/gateway"
	"github.com/mesh-intelligence/spectro/internal/i18n"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// SessionState is the authenticated identity.
type SessionState struct {
	Username        string `json:"username"`
	IsAuthenticated bool   `json:"is_authenticated"`
	IsModerator     bool   `json:"is_moderator"`
	Error           string `json:"error,omitempty"`
}

// Session holds the identity and keeps it in the durable key-value store.
// It is authenticated exactly when an access token record exists.
type Session struct {
	kv     types.KeyValueStore
	api    AuthAPI
	lang   string
	logger *slog.Logger

	mu    sync.RWMutex
	state SessionState
}

// NewSession restores the session from kv.
func NewSession(kv types.KeyValueStore, api AuthAPI, opts Options) *Session {
	s := &Session{
		kv:     kv,
		api:    api,
		lang:   i18n.Normalize(opts.Language),
		logger: opts.logger(),
	}
	s.state = s.restore()
	return s
}

func (s *Session) restore() SessionState {
	token, err := s.kv.Get(types.KeyAccessToken)
	if err != nil || token == "" {
		return SessionState{}
	}
	username, _ := s.kv.Get(types.KeyUsername)
	moderator, _ := s.kv.Get(types.KeyIsModerator)
	isModerator, _ := strconv.ParseBool(moderator)
	return SessionState{
		Username:        username,
		IsAuthenticated: true,
		IsModerator:     isModerator,
	}
}

// State returns a snapshot of the session.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether an access token is held.
func (s *Session) IsAuthenticated() bool {
	return s.State().IsAuthenticated
}

// IsModerator reports whether the current user has the moderator role.
func (s *Session) IsModerator() bool {
	st := s.State()
	return st.IsAuthenticated && st.IsModerator
}

// Login authenticates and persists the token pair and identity.
func (s *Session) Login(ctx context.Context, login, password string) error {
	resp, err := s.api.Login(ctx, types.Credentials{Login: login, Password: password})
	return s.establish(resp, err, i18n.LoginFailed)
}

// Register creates an account and signs in as it.
func (s *Session) Register(ctx context.Context, creds types.Credentials) error {
	resp, err := s.api.Register(ctx, creds)
	return s.establish(resp, err, i18n.RegisterFailed)
}

func (s *Session) establish(resp *types.AuthResponse, err error, code string) error {
	if err != nil {
		s.setState(SessionState{Error: errorText(err, s.lang, code)})
		return err
	}
	if err := s.persist(resp); err != nil {
		s.setState(SessionState{Error: err.Error()})
		return err
	}
	// An authenticated session always reads the live catalog.
	if err := s.kv.Delete(types.KeyMockMode); err != nil {
		s.logger.Warn("clearing mock mode", "error", err)
	}
	s.setState(SessionState{
		Username:        resp.User.Login,
		IsAuthenticated: true,
		IsModerator:     resp.User.IsModerator,
	})
	s.logger.Info("signed in", "login", resp.User.Login, "moderator", resp.User.IsModerator)
	return nil
}

func (s *Session) persist(resp *types.AuthResponse) error {
	records := []struct{ key, value string }{
		{types.KeyAccessToken, resp.AccessToken},
		{types.KeyRefreshToken, resp.RefreshToken},
		{types.KeyUsername, resp.User.Login},
		{types.KeyIsModerator, strconv.FormatBool(resp.User.IsModerator)},
	}
	for _, r := range records {
		if err := s.kv.Set(r.key, r.value); err != nil {
			return fmt.Errorf("persisting %s: %w", r.key, err)
		}
	}
	return nil
}

// Logout invalidates the refresh token on the server when one is held and
// clears the durable identity records. Local state is cleared even when the
// server call fails; that failure is returned for reporting.
func (s *Session) Logout(ctx context.Context) error {
	var remoteErr error
	if refresh, err := s.kv.Get(types.KeyRefreshToken); err == nil && refresh != "" {
		remoteErr = s.api.Logout(ctx, refresh)
		if remoteErr != nil {
			s.logger.Warn("server logout failed", "error", remoteErr)
			remoteErr = fmt.Errorf("%s: %w", i18n.T(s.lang, i18n.LogoutFailed), remoteErr)
		}
	}
	localErr := s.clear()
	s.setState(SessionState{})
	return errors.Join(remoteErr, localErr)
}

// Refresh exchanges the refresh token for a new pair. A rejected refresh
// token ends the session.
func (s *Session) Refresh(ctx context.Context) error {
	refresh, err := s.kv.Get(types.KeyRefreshToken)
	if err != nil || refresh == "" {
		return types.ErrNotAuthenticated
	}
	resp, err := s.api.Refresh(ctx, refresh)
	if err != nil {
		st := s.State()
		if gateway.IsUnauthorized(err) {
			if clearErr := s.clear(); clearErr != nil {
				s.logger.Warn("clearing session", "error", clearErr)
			}
			st = SessionState{}
		}
		st.Error = errorText(err, s.lang, i18n.RefreshFailed)
		s.setState(st)
		return err
	}
	if err := s.persist(resp); err != nil {
		return err
	}
	s.setState(SessionState{
		Username:        resp.User.Login,
		IsAuthenticated: true,
		IsModerator:     resp.User.IsModerator,
	})
	return nil
}

// Profile returns the current user from the server.
func (s *Session) Profile(ctx context.Context) (*types.User, error) {
	if !s.IsAuthenticated() {
		return nil, types.ErrNotAuthenticated
	}
	u, err := s.api.Profile(ctx)
	if err != nil {
		s.setError(errorText(err, s.lang, i18n.ProfileLoadFailed))
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes login and/or password. A changed login is persisted
// as the username.
func (s *Session) UpdateProfile(ctx context.Context, patch types.ProfilePatch) (*types.User, error) {
	if !s.IsAuthenticated() {
		return nil, types.ErrNotAuthenticated
	}
	if patch.Login == "" && patch.Password == "" {
		return nil, fmt.Errorf("%w: login or password required", types.ErrInvalidData)
	}
	u, err := s.api.UpdateProfile(ctx, patch)
	if err != nil {
		s.setError(errorText(err, s.lang, i18n.ProfileUpdateFailed))
		return nil, err
	}
	if err := s.kv.Set(types.KeyUsername, u.Login); err != nil {
		return nil, fmt.Errorf("persisting username: %w", err)
	}
	s.mu.Lock()
	s.state.Username = u.Login
	s.state.Error = ""
	s.mu.Unlock()
	return u, nil
}

func (s *Session) clear() error {
	if err := s.kv.Delete(types.IdentityKeys...); err != nil {
		return fmt.Errorf("clearing identity: %w", err)
	}
	return nil
}

func (s *Session) setState(st SessionState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	s.state.Error = msg
	s.mu.Unlock()
}
