// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

// Package config provides application configuration loaded from defaults,
// an optional YAML file and CHIMITHEQUE_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Keycloak KeycloakConfig `koanf:"keycloak"`
	Logging  LoggingConfig  `koanf:"logging"`
	Authz    AuthzConfig    `koanf:"authz"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `koanf:"listen_addr" validate:"required"`

	// ReadTimeout bounds request header+body reads.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimit is the per-IP request budget per RateLimitWindow.
	// 0 disables rate limiting.
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path. ":memory:" is accepted for tests.
	Path string `koanf:"path" validate:"required"`

	// MaxOpenConns caps the connection pool shared by all request stages.
	MaxOpenConns int `koanf:"max_open_conns" validate:"gte=1"`

	// BusyTimeout is the SQLite busy timeout.
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// KeycloakConfig holds identity provider settings used by token verification.
type KeycloakConfig struct {
	// BaseURL is the Keycloak base URL, e.g. https://keycloak.example.com.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Realm is the Keycloak realm name.
	Realm string `koanf:"realm" validate:"required"`

	// ClientID is the OIDC client identifier expected in the token audience.
	ClientID string `koanf:"client_id" validate:"required"`

	// KeyCacheTTL is how long fetched signing keys stay fresh.
	KeyCacheTTL time.Duration `koanf:"key_cache_ttl"`

	// HTTPTimeout bounds calls to the certs endpoint.
	HTTPTimeout time.Duration `koanf:"http_timeout"`
}

// IssuerURL returns the realm issuer URL tokens must carry in "iss".
func (c *KeycloakConfig) IssuerURL() string {
	return fmt.Sprintf("%s/realms/%s", c.BaseURL, c.Realm)
}

// CertsURL returns the realm certificate (JWKS) endpoint.
func (c *KeycloakConfig) CertsURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", c.BaseURL, c.Realm)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file/line in log output.
	Caller bool `koanf:"caller"`
}

// AuthzConfig holds authorization settings.
type AuthzConfig struct {
	// EnforcedResources is the explicit allow-list of resource types
	// subject to policy enforcement. Requests whose first path segment is
	// not listed here pass the policy stage unchecked.
	EnforcedResources []string `koanf:"enforced_resources" validate:"required,min=1"`

	// BypassPaths lists path prefixes that skip authentication, identity
	// resolution and enforcement entirely (login/bootstrap and validation
	// endpoints). Static configuration, never derived per request.
	BypassPaths []string `koanf:"bypass_paths"`
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
