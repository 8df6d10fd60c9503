// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, overrides, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
propresenter:
  host: "10.0.0.5"
  port: 50002
  timeout: "10s"

server:
  transport: "http"
  http_addr: "0.0.0.0:9090"

auth:
  jwt_secret: "test-secret"
  require_auth: true

logging:
  level: "debug"
  format: "json"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ProPresenter.Host != "10.0.0.5" {
		t.Errorf("Host = %q, want %q", cfg.ProPresenter.Host, "10.0.0.5")
	}
	if cfg.ProPresenter.Port != 50002 {
		t.Errorf("Port = %d, want 50002", cfg.ProPresenter.Port)
	}
	if cfg.ProPresenter.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.ProPresenter.Timeout)
	}
	if cfg.Server.Transport != TransportHTTP {
		t.Errorf("Transport = %q, want %q", cfg.Server.Transport, TransportHTTP)
	}
	if cfg.Server.HTTPAddr != "0.0.0.0:9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:9090")
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "test-secret")
	}
	if !cfg.Auth.RequireAuth {
		t.Error("RequireAuth = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Missing file falls back to defaults.
	if cfg.ProPresenter.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.ProPresenter.Host, "localhost")
	}
	if cfg.ProPresenter.Port != 50001 {
		t.Errorf("Port = %d, want 50001", cfg.ProPresenter.Port)
	}
	if cfg.ProPresenter.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.ProPresenter.Timeout, DefaultTimeout)
	}
	if cfg.Server.Transport != TransportStdio {
		t.Errorf("Transport = %q, want %q", cfg.Server.Transport, TransportStdio)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "from-env")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
auth:
  jwt_secret: "${TEST_JWT_SECRET}"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "from-env")
	}
}

func TestLoad_EnvOverridesWin(t *testing.T) {
	t.Setenv("PROPRESENTER_HOST", "override.local")
	t.Setenv("PROPRESENTER_PORT", "60123")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
propresenter:
  host: "file.local"
  port: 50001
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ProPresenter.Host != "override.local" {
		t.Errorf("Host = %q, want env override %q", cfg.ProPresenter.Host, "override.local")
	}
	if cfg.ProPresenter.Port != 60123 {
		t.Errorf("Port = %d, want env override 60123", cfg.ProPresenter.Port)
	}
}

func TestLoad_AccessTokens(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
auth:
  access_tokens:
    - token: "tok-control"
      capabilities: ["control"]
    - token: "tok-readonly"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.Auth.AccessTokens) != 2 {
		t.Fatalf("got %d access tokens, want 2", len(cfg.Auth.AccessTokens))
	}
	if cfg.Auth.AccessTokens[0].Token != "tok-control" {
		t.Errorf("Token = %q, want tok-control", cfg.Auth.AccessTokens[0].Token)
	}
	if len(cfg.Auth.AccessTokens[0].Capabilities) != 1 || cfg.Auth.AccessTokens[0].Capabilities[0] != "control" {
		t.Errorf("Capabilities = %v, want [control]", cfg.Auth.AccessTokens[0].Capabilities)
	}
	if len(cfg.Auth.AccessTokens[1].Capabilities) != 0 {
		t.Errorf("Capabilities = %v, want empty", cfg.Auth.AccessTokens[1].Capabilities)
	}
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	t.Setenv("PROPRESENTER_PORT", "not-a-number")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for invalid PROPRESENTER_PORT")
	}
	if !strings.Contains(err.Error(), "PROPRESENTER_PORT") {
		t.Errorf("error %q should mention PROPRESENTER_PORT", err)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
propresenter:
  timeout: "not-a-duration"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.ProPresenter.Host = "" },
			wantErr: "propresenter.host",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.ProPresenter.Port = 0 },
			wantErr: "propresenter.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.ProPresenter.Port = 70000 },
			wantErr: "propresenter.port",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Server.Transport = "grpc" },
			wantErr: "server.transport",
		},
		{
			name: "http transport needs addr",
			mutate: func(c *Config) {
				c.Server.Transport = TransportHTTP
				c.Server.HTTPAddr = ""
			},
			wantErr: "server.http_addr",
		},
		{
			name: "require_auth needs secret",
			mutate: func(c *Config) {
				c.Auth.RequireAuth = true
				c.Auth.JWTSecret = ""
			},
			wantErr: "auth.jwt_secret",
		},
		{
			name: "require_auth satisfied by access tokens",
			mutate: func(c *Config) {
				c.Auth.RequireAuth = true
				c.Auth.AccessTokens = []AccessTokenConfig{
					{Token: "tok", Capabilities: []string{"control"}},
				}
			},
		},
		{
			name: "empty access token",
			mutate: func(c *Config) {
				c.Auth.AccessTokens = []AccessTokenConfig{{Token: ""}}
			},
			wantErr: "auth.access_tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}
