// Package paths resolves where spectro keeps its configuration and its
// local database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName names the per-user directory under the platform config and
// data roots.
const appDirName = "spectro"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".spectro"
	DefaultDataDirName   = ".spectro-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SPECTRO_CONFIG_DIR"
	EnvDataDir   = "SPECTRO_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/spectro (fallback ~/.config/spectro)
// macOS:   ~/Library/Application Support/spectro
// Windows: %APPDATA%/spectro
func DefaultConfigDir() (string, error) {
	return platformRoot("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/spectro (fallback ~/.local/share/spectro)
// macOS:   ~/Library/Application Support/spectro
// Windows: %APPDATA%/spectro
func DefaultDataDir() (string, error) {
	return platformRoot("XDG_DATA_HOME", ".local", "share")
}

// platformRoot joins appDirName onto the XDG directory named by xdgVar, or
// onto home/linuxFallback when unset. Other platforms use os.UserConfigDir
// for both config and data.
func platformRoot(xdgVar string, linuxFallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, linuxFallback...)
	return filepath.Join(append(parts, appDirName)...), nil
}

// ResolveConfigDir returns the configuration directory: flag, then
// SPECTRO_CONFIG_DIR, then DefaultConfigDir(). Overrides are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory: flag, then SPECTRO_DATA_DIR,
// then the data_dir value from config.yaml, then $(CWD)/.spectro-db.
//
// The environment sits above the file so that it agrees with the SPECTRO_
// overrides applied to every other config.yaml key.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, dir := range []string{flag, os.Getenv(EnvDataDir), configYAMLValue} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
