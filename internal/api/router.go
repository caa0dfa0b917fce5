// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chimitheque/chimitheque-api/internal/auth"
	"github.com/chimitheque/chimitheque-api/internal/authz"
	"github.com/chimitheque/chimitheque-api/internal/config"
	"github.com/chimitheque/chimitheque-api/internal/middleware"
)

// NewRouter assembles the HTTP surface: request id and recovery first,
// then CORS and rate limiting, then the authentication and
// authorization chain, then the resource routes. The /validate,
// /health and /metrics endpoints sit on the bypass list and never see
// the auth chain.
func NewRouter(cfg *config.Config, handler *Handler, authn *auth.Middleware, enforcement *authz.Middleware) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))
	if cfg.Server.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.Server.RateLimit, cfg.Server.RateLimitWindow))
	}
	r.Use(chiMiddleware(authn.Authenticate))
	r.Use(chiMiddleware(enforcement.Authorize))

	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/validate", func(r chi.Router) {
		r.Get("/email", handler.ValidateEmail)
		r.Get("/casnumber", handler.ValidateCASNumber)
		r.Get("/cenumber", handler.ValidateCENumber)
		r.Get("/empiricalformula", handler.ValidateEmpiricalFormula)
	})

	r.Route("/entities", func(r chi.Router) {
		r.Get("/", handler.Entities)
		r.Post("/", handler.CreateEntity)
		r.Get("/{id}", handler.Entity)
		r.Put("/{id}", handler.UpdateEntity)
		r.Delete("/{id}", handler.DeleteEntity)
		r.Put("/{id}/managers", handler.SetEntityManagers)
	})

	r.Route("/people", func(r chi.Router) {
		r.Get("/", handler.People)
		r.Post("/", handler.CreatePerson)
		r.Get("/{id}", handler.Person)
		r.Put("/{id}", handler.UpdatePerson)
		r.Delete("/{id}", handler.DeletePerson)
		r.Put("/{id}/permissions", handler.SetPersonPermissions)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handler.Products)
		r.Post("/", handler.CreateProduct)
		r.Get("/{id}", handler.Product)
		r.Put("/{id}", handler.UpdateProduct)
		r.Delete("/{id}", handler.DeleteProduct)
	})

	r.Route("/storages", func(r chi.Router) {
		r.Get("/", handler.Storages)
		r.Post("/", handler.CreateStorage)
		r.Get("/{id}", handler.Storage)
		r.Put("/{id}", handler.UpdateStorage)
		r.Delete("/{id}", handler.DeleteStorage)
	})

	r.Route("/store_locations", func(r chi.Router) {
		r.Get("/", handler.StoreLocations)
		r.Post("/", handler.CreateStoreLocation)
		r.Get("/{id}", handler.StoreLocation)
		r.Put("/{id}", handler.UpdateStoreLocation)
		r.Delete("/{id}", handler.DeleteStoreLocation)
	})

	r.Route("/bookmarks", func(r chi.Router) {
		r.Get("/", handler.Bookmarks)
		r.Post("/", handler.ToggleBookmark)
		r.Delete("/{id}", handler.DeleteBookmark)
	})

	r.Route("/borrowings", func(r chi.Router) {
		r.Get("/", handler.Borrowings)
		r.Post("/", handler.CreateBorrowing)
		r.Delete("/{id}", handler.DeleteBorrowing)
	})

	return r
}

// chiMiddleware adapts a HandlerFunc-wrapping middleware to Chi's
// Handler-wrapping signature.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}
