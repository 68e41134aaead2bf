package store

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/spectro/internal/gateway/gatewaytest"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

func seedAnalyses(srv *gatewaytest.Server) {
	srv.AddUser("alice", "pw", false)
	srv.AddUser("bob", "pw", false)
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	srv.SeedAnalysis("alice", types.Analysis{Name: "a-draft", Status: types.StatusDraft, CreatedAt: day(1)})
	srv.SeedAnalysis("alice", types.Analysis{Name: "a-created", Status: types.StatusCreated, CreatedAt: day(2)})
	srv.SeedAnalysis("bob", types.Analysis{Name: "b-created", Status: types.StatusCreated, CreatedAt: day(3)})
	srv.SeedAnalysis("bob", types.Analysis{Name: "b-done", Status: types.StatusCompleted, CreatedAt: day(4)})
}

func names(items []types.Analysis) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.Name
	}
	return out
}

func TestAnalyses_VisibilityByRole(t *testing.T) {
	srv := gatewaytest.New(t)
	seedAnalyses(srv)
	ctx := context.Background()

	alice, _ := setupApp(t, srv, Options{})
	require.NoError(t, alice.Session.Login(ctx, "alice", "pw"))
	require.NoError(t, alice.Analyses.Fetch(ctx, types.AnalysisFilter{}))
	assert.Equal(t, []string{"a-created", "a-draft"}, names(alice.Analyses.State().Items))

	mod := loggedIn(t, srv, "mod", true)
	require.NoError(t, mod.Analyses.Fetch(ctx, types.AnalysisFilter{}))
	assert.Equal(t, []string{"b-created", "a-created"}, names(mod.Analyses.State().Items))

	require.NoError(t, mod.Analyses.Fetch(ctx, types.AnalysisFilter{Status: types.StatusCompleted}))
	assert.Equal(t, []string{"b-done"}, names(mod.Analyses.State().Items))
}

func TestAnalyses_FilterByDateAndPage(t *testing.T) {
	srv := gatewaytest.New(t)
	seedAnalyses(srv)
	mod := loggedIn(t, srv, "mod", true)
	ctx := context.Background()

	require.NoError(t, mod.Analyses.Fetch(ctx, types.AnalysisFilter{
		Status:   types.StatusCreated,
		DateFrom: "2024-03-03",
	}))
	assert.Equal(t, []string{"b-created"}, names(mod.Analyses.State().Items))

	require.NoError(t, mod.Analyses.Fetch(ctx, types.AnalysisFilter{Limit: 1, Offset: 1}))
	assert.Equal(t, []string{"a-created"}, names(mod.Analyses.State().Items))
}

func TestAnalyses_Errors(t *testing.T) {
	srv := gatewaytest.New(t)
	ctx := context.Background()

	anon, _ := setupApp(t, srv, Options{})
	assert.ErrorIs(t, anon.Analyses.Fetch(ctx, types.AnalysisFilter{}), types.ErrNotAuthenticated)
	assert.Empty(t, srv.Calls())

	app := loggedIn(t, srv, "alice", false)
	tests := []struct {
		name   string
		filter types.AnalysisFilter
		want   error
	}{
		{"unknown status", types.AnalysisFilter{Status: "archived"}, types.ErrInvalidStatus},
		{"bad date", types.AnalysisFilter{DateTo: "tomorrow"}, types.ErrInvalidDate},
		{"negative limit", types.AnalysisFilter{Limit: -1}, types.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := app.Analyses.Fetch(ctx, tt.filter)
			assert.ErrorIs(t, err, tt.want)
			assert.NotEmpty(t, app.Analyses.State().Error)
		})
	}

	srv.FailNext(http.MethodGet, "/spectrum-analysis", http.StatusInternalServerError, "")
	require.Error(t, app.Analyses.Fetch(ctx, types.AnalysisFilter{}))
	st := app.Analyses.State()
	assert.Equal(t, "Ошибка при загрузке заявок", st.Error)
	assert.False(t, st.Loading)
}
