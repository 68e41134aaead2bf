// Package integration runs the spectro binary against a fake analysis
// service.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// spectroBin is the path to the built spectro binary.
	spectroBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetSpectroBin sets the path to the spectro binary (called from TestMain).
func SetSpectroBin(path string) {
	spectroBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv is one isolated spectro installation: its own working, config,
// and data directories, pointed at APIURL.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
	APIURL  string
}

// NewTestEnv creates an environment whose config.yaml names apiURL and a
// private data directory.
func NewTestEnv(t *testing.T, apiURL string) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build spectro: %v", buildErr)
	}
	if spectroBin == "" {
		t.Fatal("spectro binary not built (spectroBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\napi_url: " + apiURL + "\nlanguage: ru\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
		APIURL:  apiURL,
	}
}

// WriteDotEnv writes a .env file into the working directory of later runs.
func (e *TestEnv) WriteDotEnv(content string) {
	e.t.Helper()
	if err := os.WriteFile(filepath.Join(e.TempDir, ".env"), []byte(content), 0o644); err != nil {
		e.t.Fatalf("failed to write .env: %v", err)
	}
}

// CmdResult holds the result of a spectro command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunSpectro executes the spectro CLI with the given arguments from the
// environment's working directory. SPECTRO_* variables of the test process
// are not inherited.
func (e *TestEnv) RunSpectro(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config}, args...)
	cmd := exec.Command(spectroBin, allArgs...)
	cmd.Dir = e.TempDir
	cmd.Env = cleanEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run spectro: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunSpectro executes the spectro CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunSpectro(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunSpectro(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("spectro %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "SPECTRO_") {
			env = append(env, kv)
		}
	}
	return env
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Session is the JSON shape of whoami and login output.
type Session struct {
	Username        string `json:"username"`
	IsAuthenticated bool   `json:"is_authenticated"`
	IsModerator     bool   `json:"is_moderator"`
}

// Catalog is the JSON shape of pigments list output.
type Catalog struct {
	Search   string `json:"search"`
	Color    string `json:"color"`
	Origin   string `json:"origin"`
	Pigments []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"pigments"`
}

// Draft is the JSON shape of cart and draft output.
type Draft struct {
	AnalysisID    string `json:"analysis_id"`
	ItemsCount    int    `json:"items_count"`
	HasActiveCart bool   `json:"has_active_cart"`
	Phase         string `json:"phase"`
	Application   *struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"application"`
}
