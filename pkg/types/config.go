package types

import (
	"errors"
	"net/url"
	"time"
)

// Config holds backend selection and client parameters loaded from
// config.yaml, the environment, and flags.
type Config struct {
	Backend  string        `json:"backend" yaml:"backend"`
	DataDir  string        `json:"data_dir" yaml:"data_dir"`
	APIURL   string        `json:"api_url" yaml:"api_url"`
	Language string        `json:"language" yaml:"language"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
	Mock     bool          `json:"mock" yaml:"mock"`
	LogLevel string        `json:"log_level" yaml:"log_level"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultAPIURL is used when no api_url is configured.
const DefaultAPIURL = "http://localhost:8080/api"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrAPIURLInvalid  = errors.New("api_url must be an absolute http(s) URL")
	ErrTimeoutInvalid = errors.New("timeout must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. An empty APIURL is accepted and means
// DefaultAPIURL.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrAPIURLInvalid
		}
	}
	if c.Timeout < 0 {
		return ErrTimeoutInvalid
	}
	return nil
}

// EffectiveAPIURL returns APIURL or DefaultAPIURL when unset.
func (c Config) EffectiveAPIURL() string {
	if c.APIURL == "" {
		return DefaultAPIURL
	}
	return c.APIURL
}
