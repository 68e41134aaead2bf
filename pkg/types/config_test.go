package types

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "relative api_url is rejected",
			config:  Config{Backend: "sqlite", APIURL: "/api"},
			wantErr: ErrAPIURLInvalid,
		},
		{
			name:    "non-http scheme is rejected",
			config:  Config{Backend: "sqlite", APIURL: "ftp://example.com/api"},
			wantErr: ErrAPIURLInvalid,
		},
		{
			name:    "https api_url is valid",
			config:  Config{Backend: "sqlite", APIURL: "https://spectro.example.com/api"},
			wantErr: nil,
		},
		{
			name:    "negative timeout is rejected",
			config:  Config{Backend: "sqlite", Timeout: -time.Second},
			wantErr: ErrTimeoutInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEffectiveAPIURL(t *testing.T) {
	if got := (Config{}).EffectiveAPIURL(); got != DefaultAPIURL {
		t.Fatalf("expected %s, got %s", DefaultAPIURL, got)
	}
	if got := (Config{APIURL: "http://h:1/api"}).EffectiveAPIURL(); got != "http://h:1/api" {
		t.Fatalf("expected configured URL, got %s", got)
	}
}
