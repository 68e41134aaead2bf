package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/spectro/internal/gateway/gatewaytest"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

func TestSession_RestoresFromDurableRecords(t *testing.T) {
	tests := []struct {
		name    string
		records map[string]string
		want    SessionState
	}{
		{
			name: "no token",
			records: map[string]string{
				types.KeyUsername: "alice",
			},
			want: SessionState{},
		},
		{
			name: "token and identity",
			records: map[string]string{
				types.KeyAccessToken: "t",
				types.KeyUsername:    "mod",
				types.KeyIsModerator: "true",
			},
			want: SessionState{Username: "mod", IsAuthenticated: true, IsModerator: true},
		},
		{
			name: "unreadable moderator flag",
			records: map[string]string{
				types.KeyAccessToken: "t",
				types.KeyIsModerator: "maybe",
			},
			want: SessionState{IsAuthenticated: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(gatewaytest.NewMemoryKV(tt.records), nil, Options{})
			assert.Equal(t, tt.want, s.State())
		})
	}
}

func TestSession_LoginPersistsIdentity(t *testing.T) {
	srv := gatewaytest.New(t)
	srv.AddUser("mod", "pw", true)
	app, kv := setupApp(t, srv, Options{})
	require.NoError(t, kv.Set(types.KeyMockMode, "1"))

	require.NoError(t, app.Session.Login(context.Background(), "mod", "pw"))
	assert.Equal(t, SessionState{Username: "mod", IsAuthenticated: true, IsModerator: true}, app.Session.State())

	for _, key := range types.IdentityKeys {
		v, err := kv.Get(key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, v, key)
	}
	moderator, _ := kv.Get(types.KeyIsModerator)
	assert.Equal(t, "true", moderator)

	_, err := kv.Get(types.KeyMockMode)
	assert.ErrorIs(t, err, types.ErrNotFound)

	reloaded := NewSession(kv, nil, Options{})
	assert.Equal(t, app.Session.State(), reloaded.State())
}

func TestSession_LoginFailure(t *testing.T) {
	srv := gatewaytest.New(t)
	srv.AddUser("alice", "pw", false)
	app, kv := setupApp(t, srv, Options{})

	err := app.Session.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	st := app.Session.State()
	assert.False(t, st.IsAuthenticated)
	assert.Equal(t, "Неверный логин или пароль", st.Error)
	_, err = kv.Get(types.KeyAccessToken)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSession_LoginTransportFailureUsesFallback(t *testing.T) {
	srv := gatewaytest.New(t)
	app, _ := setupApp(t, srv, Options{Language: "en"})
	srv.Close()

	require.Error(t, app.Session.Login(context.Background(), "alice", "pw"))
	assert.Equal(t, "Authorization failed", app.Session.State().Error)
}

func TestSession_Register(t *testing.T) {
	srv := gatewaytest.New(t)
	app, _ := setupApp(t, srv, Options{})
	ctx := context.Background()

	require.NoError(t, app.Session.Register(ctx, types.Credentials{Login: "new", Password: "pw"}))
	assert.True(t, app.Session.IsAuthenticated())
	assert.False(t, app.Session.IsModerator())

	other, _ := setupApp(t, srv, Options{})
	err := other.Session.Register(ctx, types.Credentials{Login: "new", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "Пользователь с таким логином уже существует", other.Session.State().Error)
}

func TestSession_LogoutClearsEvenWhenServerFails(t *testing.T) {
	srv := gatewaytest.New(t)
	app := loggedIn(t, srv, "alice", false)
	kv := app.Session.kv

	srv.FailNext(http.MethodPost, "/auth/logout", http.StatusInternalServerError, "")
	err := app.Session.Logout(context.Background())
	require.Error(t, err)

	assert.Equal(t, SessionState{}, app.Session.State())
	for _, key := range types.IdentityKeys {
		_, err := kv.Get(key)
		assert.ErrorIs(t, err, types.ErrNotFound, key)
	}
}

func TestSession_LogoutWithoutRefreshTokenSkipsServer(t *testing.T) {
	srv := gatewaytest.New(t)
	kv := gatewaytest.NewMemoryKV(map[string]string{types.KeyAccessToken: "t"})
	app, _ := setupApp(t, srv, Options{})
	app.Session = NewSession(kv, app.Session.api, Options{})

	require.NoError(t, app.Session.Logout(context.Background()))
	assert.Empty(t, srv.Calls())
	assert.False(t, app.Session.IsAuthenticated())
}

func TestSession_Refresh(t *testing.T) {
	srv := gatewaytest.New(t)
	app := loggedIn(t, srv, "alice", false)
	kv := app.Session.kv
	ctx := context.Background()

	before, _ := kv.Get(types.KeyRefreshToken)
	require.NoError(t, app.Session.Refresh(ctx))
	after, _ := kv.Get(types.KeyRefreshToken)
	assert.NotEqual(t, before, after)
	assert.True(t, app.Session.IsAuthenticated())

	srv.FailNext(http.MethodPost, "/auth/refresh", http.StatusUnauthorized, "Недействительный refresh токен")
	require.Error(t, app.Session.Refresh(ctx))
	assert.False(t, app.Session.IsAuthenticated())
	assert.Equal(t, "Недействительный refresh токен", app.Session.State().Error)
	_, err := kv.Get(types.KeyAccessToken)
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, app.Session.Refresh(ctx), types.ErrNotAuthenticated)
}

func TestSession_Profile(t *testing.T) {
	srv := gatewaytest.New(t)
	app := loggedIn(t, srv, "alice", false)
	ctx := context.Background()

	u, err := app.Session.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Login)

	_, err = app.Session.UpdateProfile(ctx, types.ProfilePatch{})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	u, err = app.Session.UpdateProfile(ctx, types.ProfilePatch{Login: "alicia"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", u.Login)
	assert.Equal(t, "alicia", app.Session.State().Username)
	name, _ := app.Session.kv.Get(types.KeyUsername)
	assert.Equal(t, "alicia", name)
}

func TestSession_ProfileRequiresLogin(t *testing.T) {
	s := NewSession(gatewaytest.NewMemoryKV(nil), nil, Options{})
	_, err := s.Profile(context.Background())
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
}
