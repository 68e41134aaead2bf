package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/spectro/internal/gateway/gatewaytest"
	"github.com/mesh-intelligence/spectro/internal/paths"
	"github.com/mesh-intelligence/spectro/internal/sqlite"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// cliEnv is one user's configuration and data directories pointed at a
// backend.
type cliEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
	apiURL    string
}

func newCLIEnv(t *testing.T, apiURL string) *cliEnv {
	t.Helper()
	for _, k := range []string{paths.EnvConfigDir, paths.EnvDataDir, "SPECTRO_API_URL", "SPECTRO_MOCK", "SPECTRO_LANGUAGE"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return &cliEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
		apiURL:    apiURL,
	}
}

// run executes the root command in-process and returns stdout, stderr, and
// the command error.
func (e *cliEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	flags = rootFlags{}
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{
		"--config-dir", e.configDir,
		"--data-dir", e.dataDir,
		"--api-url", e.apiURL,
	}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, stderr, err := e.run(args...)
	require.NoError(e.t, err, "spectro %v\nstderr: %s", args, stderr)
	return out
}

func (e *cliEnv) mustJSON(v any, args ...string) {
	e.t.Helper()
	out := e.mustRun(append([]string{"--json"}, args...)...)
	require.NoError(e.t, json.Unmarshal([]byte(out), v), out)
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t, types.DefaultAPIURL)
	out := env.mustRun("version")
	assert.Contains(t, out, "spectro v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	env := newCLIEnv(t, "http://analysis.example:9000/api")

	out := env.mustRun("init")
	assert.Contains(t, out, "Spectro initialized successfully")

	data, err := os.ReadFile(filepath.Join(env.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "api_url: http://analysis.example:9000/api")
	assert.FileExists(t, filepath.Join(env.dataDir, sqlite.DBFileName))

	t.Run("second run keeps existing config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte("backend: sqlite\nlanguage: en\n"), 0o644))
		env.mustRun("init")
		data, err := os.ReadFile(filepath.Join(env.configDir, configFileExt))
		require.NoError(t, err)
		assert.Equal(t, "backend: sqlite\nlanguage: en\n", string(data))
	})
}

func TestConfig_InvalidBackendIsUserError(t *testing.T) {
	env := newCLIEnv(t, types.DefaultAPIURL)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte("backend: dolt\n"), 0o644))

	_, _, err := env.run("whoami")
	require.ErrorIs(t, err, types.ErrBackendUnknown)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(errors.New("bad input")))
	assert.Equal(t, exitSysError, exitCode(systemError("disk: %w", os.ErrPermission)))
	assert.ErrorIs(t, systemError("disk: %w", os.ErrPermission), os.ErrPermission)
}

func TestPigments_ListRemote(t *testing.T) {
	srv := gatewaytest.New(t)
	env := newCLIEnv(t, srv.URL())

	out := env.mustRun("pigments", "list")
	assert.Contains(t, out, "Malachite")
	assert.Contains(t, out, "Smalt")

	var st struct {
		Search   string          `json:"search"`
		Origin   string          `json:"origin"`
		Pigments []types.Pigment `json:"pigments"`
	}
	env.mustJSON(&st, "pigments", "list", "--color", "blue")
	assert.Equal(t, "remote", st.Origin)
	require.Len(t, st.Pigments, 1)
	assert.Equal(t, int64(42), st.Pigments[0].ID)

	t.Run("criteria persist across runs", func(t *testing.T) {
		var f types.Filters
		env.mustJSON(&f, "filters", "show")
		assert.Equal(t, "blue", f.Color)

		env.mustJSON(&st, "pigments", "list")
		require.Len(t, st.Pigments, 1)

		env.mustJSON(&f, "filters", "reset")
		assert.Equal(t, types.Filters{}, f)
	})
}

func TestPigments_FallbackWhenUnreachable(t *testing.T) {
	srv := gatewaytest.New(t)
	srv.Close()
	env := newCLIEnv(t, srv.URL())

	out, stderr, err := env.run("pigments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ультрамарин")
	assert.Contains(t, stderr, "service unavailable")
}

func TestPigments_MockModeIsRemembered(t *testing.T) {
	srv := gatewaytest.New(t)
	env := newCLIEnv(t, srv.URL())

	var st struct {
		Origin string `json:"origin"`
	}
	env.mustJSON(&st, "pigments", "list", "--mock")
	assert.Equal(t, "sample", st.Origin)

	env.mustJSON(&st, "pigments", "list")
	assert.Equal(t, "sample", st.Origin)

	env.mustJSON(&st, "pigments", "list", "--mock=false")
	assert.Equal(t, "remote", st.Origin)
}

func TestPigments_Show(t *testing.T) {
	srv := gatewaytest.New(t)
	env := newCLIEnv(t, srv.URL())

	out := env.mustRun("pigments", "show", "7")
	assert.Contains(t, out, "Lead white")

	_, _, err := env.run("pigments", "show", "abc")
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestFilters_InvalidDate(t *testing.T) {
	env := newCLIEnv(t, types.DefaultAPIURL)
	_, _, err := env.run("filters", "set", "--from", "01.02.2024")
	assert.ErrorIs(t, err, types.ErrInvalidDate)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := gatewaytest.New(t)
	srv.AddUser("anna", "secret", false)
	env := newCLIEnv(t, srv.URL())

	_, _, err := env.run("login", "anna", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Неверный логин или пароль", err.Error())
	assert.Equal(t, exitUserError, exitCode(err))

	assert.Contains(t, env.mustRun("whoami"), "Not signed in")
}

func TestDraftLifecycle(t *testing.T) {
	srv := gatewaytest.New(t)
	srv.AddUser("anna", "secret", false)
	srv.AddUser("mod", "secret", true)
	user := newCLIEnv(t, srv.URL())

	assert.Contains(t, user.mustRun("login", "anna", "-p", "secret"), "Signed in as anna (user)")
	assert.Contains(t, user.mustRun("cart", "show"), "No active draft")

	var cart struct {
		AnalysisID string `json:"analysis_id"`
		ItemsCount int    `json:"items_count"`
		Phase      string `json:"phase"`
	}
	user.mustJSON(&cart, "cart", "add", "42")
	require.NotEmpty(t, cart.AnalysisID)
	assert.Equal(t, 1, cart.ItemsCount)
	assert.Equal(t, "DRAFT", cart.Phase)
	user.mustRun("cart", "add", "3")

	out := user.mustRun("draft", "item", "42", "--percent", "45.2", "--comment", "main layer")
	assert.Contains(t, out, "45.2")
	assert.Contains(t, out, "main layer")

	user.mustRun("draft", "remove", "3")
	a, ok := srv.Analysis(cart.AnalysisID)
	require.True(t, ok)
	require.Len(t, a.Pigments, 1)

	_, _, err := user.run("draft", "submit")
	require.Error(t, err)
	assert.Equal(t, "Спектр обязателен для формирования", err.Error())

	user.mustRun("draft", "edit", "--name", "Icon", "--spectrum", "400-700nm")
	out = user.mustRun("draft", "submit")
	assert.Contains(t, out, "Phase: CREATED")

	t.Run("submitted request is no longer editable", func(t *testing.T) {
		_, _, err := user.run("draft", "-a", cart.AnalysisID, "edit", "--name", "Other")
		assert.ErrorIs(t, err, types.ErrInvalidTransition)
	})

	t.Run("users cannot decide", func(t *testing.T) {
		_, _, err := user.run("analyses", "complete", cart.AnalysisID)
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	mod := newCLIEnv(t, srv.URL())
	mod.mustRun("login", "mod", "-p", "secret")

	var listed []types.Analysis
	mod.mustJSON(&listed, "analyses", "list")
	require.Len(t, listed, 1)
	assert.Equal(t, cart.AnalysisID, listed[0].ID)

	out = mod.mustRun("analyses", "complete", cart.AnalysisID)
	assert.Contains(t, out, "Phase: COMPLETED")
	a, _ = srv.Analysis(cart.AnalysisID)
	assert.Equal(t, types.StatusCompleted, a.Status)
}

func TestDraft_NoCart(t *testing.T) {
	srv := gatewaytest.New(t)
	srv.AddUser("anna", "secret", false)
	env := newCLIEnv(t, srv.URL())
	env.mustRun("login", "anna", "-p", "secret")

	_, _, err := env.run("draft", "submit")
	assert.ErrorIs(t, err, types.ErrNoActiveCart)
}

func TestLogout_ClearsSessionWhenServerFails(t *testing.T) {
	srv := gatewaytest.New(t)
	srv.AddUser("anna", "secret", false)
	env := newCLIEnv(t, srv.URL())
	env.mustRun("login", "anna", "-p", "secret")
	env.mustRun("filters", "set", "--search", "mala")

	srv.FailNext("POST", "/auth/logout", 500, "")
	out, stderr, err := env.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, stderr, "Warning:")

	assert.Contains(t, env.mustRun("whoami"), "Not signed in")
	var f types.Filters
	env.mustJSON(&f, "filters", "show")
	assert.Empty(t, f.Search)
}

func TestMetricsFile(t *testing.T) {
	srv := gatewaytest.New(t)
	env := newCLIEnv(t, srv.URL())
	metrics := filepath.Join(t.TempDir(), "spectro.prom")

	env.mustRun("--metrics-file", metrics, "pigments", "list")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "spectro_gateway_requests_total")
	assert.Contains(t, string(data), `route="/pigments"`)
}
