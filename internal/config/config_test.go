package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rtkit/nlmgr/internal/errors"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nlmgr.conf")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeTempConfig(t, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Netlink.ReceiveBuffer != 4096 {
		t.Errorf("ReceiveBuffer = %d, want 4096", cfg.Netlink.ReceiveBuffer)
	}
	if cfg.Netlink.ReceiveTimeoutSeconds != 1 {
		t.Errorf("ReceiveTimeoutSeconds = %d, want 1", cfg.Netlink.ReceiveTimeoutSeconds)
	}
	if cfg.Netlink.MaxIdlePolls != 30 {
		t.Errorf("MaxIdlePolls = %d, want 30", cfg.Netlink.MaxIdlePolls)
	}
	if cfg.Netlink.BatchBytes != 16384 {
		t.Errorf("BatchBytes = %d, want 16384", cfg.Netlink.BatchBytes)
	}
	if cfg.Trace.LineFormat != DefaultLineFormat {
		t.Errorf("LineFormat = %q, want default", cfg.Trace.LineFormat)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
[netlink]
receive_buffer = 8192
max_idle_polls = 5

[trace]
links = true
routes = true

[api]
enabled = true
listen = "0.0.0.0:9000"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Netlink.ReceiveBuffer != 8192 {
		t.Errorf("ReceiveBuffer = %d, want 8192", cfg.Netlink.ReceiveBuffer)
	}
	if cfg.Netlink.MaxIdlePolls != 5 {
		t.Errorf("MaxIdlePolls = %d, want 5", cfg.Netlink.MaxIdlePolls)
	}
	// Untouched fields keep defaults
	if cfg.Netlink.BatchBytes != 16384 {
		t.Errorf("BatchBytes = %d, want 16384", cfg.Netlink.BatchBytes)
	}
	if !cfg.Trace.Links || !cfg.Trace.Routes {
		t.Errorf("expected links and routes tracing enabled")
	}
	if cfg.Trace.Addresses || cfg.Trace.Neighbors {
		t.Errorf("expected addresses and neighbors tracing disabled")
	}
	if !cfg.API.Enabled || cfg.API.Listen != "0.0.0.0:9000" {
		t.Errorf("API config = %+v, want enabled on 0.0.0.0:9000", cfg.API)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	if err == nil {
		t.Fatalf("expected error for missing config file")
	}
	if !errors.HasCode(err, errors.ErrCodeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "receive buffer too small",
			mutate:  func(c *Config) { c.Netlink.ReceiveBuffer = 128 },
			wantErr: true,
		},
		{
			name:    "zero idle polls",
			mutate:  func(c *Config) { c.Netlink.MaxIdlePolls = 0 },
			wantErr: true,
		},
		{
			name:    "bad api listen address",
			mutate:  func(c *Config) { c.API.Listen = "not-a-hostport" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
