// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate keeps the loader away from any real config.yaml in the
// working directory and from ambient CONFIG_PATH.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("CHIMITHEQUE_KEYCLOAK__BASE_URL", "https://keycloak.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.ListenAddr != ":8083" {
		t.Errorf("ListenAddr = %q, want %q", cfg.Server.ListenAddr, ":8083")
	}
	if cfg.Server.RateLimit != 300 {
		t.Errorf("RateLimit = %d, want 300", cfg.Server.RateLimit)
	}
	if cfg.Database.Path != "/data/chimitheque.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Keycloak.KeyCacheTTL != 10*time.Minute {
		t.Errorf("KeyCacheTTL = %v, want 10m", cfg.Keycloak.KeyCacheTTL)
	}
	if len(cfg.Authz.EnforcedResources) != 7 {
		t.Errorf("EnforcedResources = %v, want all seven resources", cfg.Authz.EnforcedResources)
	}
	if len(cfg.Authz.BypassPaths) != 4 {
		t.Errorf("BypassPaths = %v, want four prefixes", cfg.Authz.BypassPaths)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("CHIMITHEQUE_KEYCLOAK__BASE_URL", "https://keycloak.example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  listen_addr: ":9000"
  read_timeout: 45s
logging:
  level: debug
  format: console
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want file value", cfg.Server.ListenAddr)
	}
	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("ReadTimeout = %v, want 45s", cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want debug/console", cfg.Logging)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.WriteTimeout != 60*time.Second {
		t.Errorf("WriteTimeout = %v, want default 60s", cfg.Server.WriteTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv("CHIMITHEQUE_KEYCLOAK__BASE_URL", "https://keycloak.example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  listen_addr: \":9000\"\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CHIMITHEQUE_SERVER__LISTEN_ADDR", ":9999")
	t.Setenv("CHIMITHEQUE_SERVER__RATE_LIMIT", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, env should beat the file", cfg.Server.ListenAddr)
	}
	if cfg.Server.RateLimit != 50 {
		t.Errorf("RateLimit = %d, want 50", cfg.Server.RateLimit)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing keycloak base url",
			env:  map[string]string{},
		},
		{
			name: "malformed keycloak base url",
			env:  map[string]string{"CHIMITHEQUE_KEYCLOAK__BASE_URL": "not-a-url"},
		},
		{
			name: "unknown log level",
			env: map[string]string{
				"CHIMITHEQUE_KEYCLOAK__BASE_URL": "https://keycloak.example.com",
				"CHIMITHEQUE_LOGGING__LEVEL":     "verbose",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() succeeded, want validation error")
			}
		})
	}
}

func TestKeycloakConfig_URLs(t *testing.T) {
	kc := KeycloakConfig{BaseURL: "https://keycloak.example.com", Realm: "lab"}

	if got, want := kc.IssuerURL(), "https://keycloak.example.com/realms/lab"; got != want {
		t.Errorf("IssuerURL() = %q, want %q", got, want)
	}
	if got, want := kc.CertsURL(), "https://keycloak.example.com/realms/lab/protocol/openid-connect/certs"; got != want {
		t.Errorf("CertsURL() = %q, want %q", got, want)
	}
}
