// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

// Package main is the entry point of the Chimithèque API server.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, optional YAML file, CHIMITHEQUE_ env)
//  2. Logging (zerolog)
//  3. Database (SQLite, embedded goose migrations)
//  4. Token verification (Keycloak signing key cache)
//  5. Authorization policy (casbin enforcer, first build before serving)
//  6. HTTP server under the suture supervision tree
//
// The server shuts down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chimitheque/chimitheque-api/internal/api"
	"github.com/chimitheque/chimitheque-api/internal/auth"
	"github.com/chimitheque/chimitheque-api/internal/authz"
	"github.com/chimitheque/chimitheque-api/internal/config"
	"github.com/chimitheque/chimitheque-api/internal/database"
	"github.com/chimitheque/chimitheque-api/internal/logging"
	"github.com/chimitheque/chimitheque-api/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("listen_addr", cfg.Server.ListenAddr).
		Str("db_path", cfg.Database.Path).
		Str("issuer", cfg.Keycloak.IssuerURL()).
		Msg("Starting Chimithèque API")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	// Token verification pipeline.
	keyCache := auth.NewKeyCache(
		cfg.Keycloak.CertsURL(),
		&http.Client{Timeout: cfg.Keycloak.HTTPTimeout},
		cfg.Keycloak.KeyCacheTTL,
	)
	if err := keyCache.EnsureFresh(context.Background()); err != nil {
		// The cache recovers lazily on first verification; surface the
		// misconfiguration but keep starting.
		logging.Warn().Err(err).Msg("Initial signing key fetch failed")
	}
	verifier := auth.NewTokenVerifier(keyCache, cfg.Keycloak.IssuerURL(), cfg.Keycloak.ClientID)
	resolver := auth.NewResolver(db)

	// Authorization policy. The first build must succeed: serving
	// before Ready would fail every enforced request closed.
	enforcer := authz.NewEnforcer(db)
	if err := enforcer.Rebuild(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("Failed to build authorization policy")
	}
	logging.Info().Msg("Authorization policy ready")

	handler := api.NewHandler(db, enforcer)
	authn := auth.NewMiddleware(verifier, resolver, cfg.Authz.BypassPaths)
	enforcement := authz.NewMiddleware(enforcer, cfg.Authz.EnforcedResources, cfg.Authz.BypassPaths)
	router := api.NewRouter(cfg, handler, authn, enforcement)

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := tree.ServeBackground(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			logging.Error().Err(err).Msg("Supervisor tree terminated")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
