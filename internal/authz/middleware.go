// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package authz

import (
	"errors"
	"net/http"
	"strings"

	"github.com/chimitheque/chimitheque-api/internal/auth"
	"github.com/chimitheque/chimitheque-api/internal/logging"
)

// Authorizer decides requests. Satisfied by *Enforcer; the indirection
// keeps the middleware testable without a database.
type Authorizer interface {
	Enforce(sub, act, obj, objid string) (bool, error)
}

// Middleware enforces the policy on incoming requests. Only resources
// on the enforced list are checked; requests for anything else pass
// through untouched. Paths on the bypass list skip enforcement
// entirely, mirroring the authentication bypass.
type Middleware struct {
	authorizer        Authorizer
	enforcedResources map[string]bool
	bypassPaths       []string
}

// NewMiddleware creates an authorization middleware enforcing the
// given resources.
func NewMiddleware(authorizer Authorizer, enforcedResources, bypassPaths []string) *Middleware {
	enforced := make(map[string]bool, len(enforcedResources))
	for _, resource := range enforcedResources {
		enforced[resource] = true
	}
	return &Middleware{
		authorizer:        authorizer,
		enforcedResources: enforced,
		bypassPaths:       bypassPaths,
	}
}

// Authorize checks the request against the policy. Denials are plain
// 403 responses and deliberately not logged; enforcement errors are
// logged and fail closed with a 500.
func (m *Middleware) Authorize(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.isBypassed(r.URL.Path) {
			next(w, r)
			return
		}

		resource, objid := splitResourcePath(r.URL.Path)
		if !m.enforcedResources[resource] {
			next(w, r)
			return
		}

		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			// An enforced resource reached without authentication means
			// a routing mistake, not a client one.
			logging.Ctx(r.Context()).Error().
				Str("path", r.URL.Path).
				Msg("authorization reached without resolved identity")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		allowed, err := m.authorizer.Enforce(identity.IDString(), actionForMethod(r.Method), resource, objid)
		if err != nil {
			if errors.Is(err, ErrNotReady) {
				logging.Ctx(r.Context()).Warn().Msg("authorization requested before policy build")
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			logging.Ctx(r.Context()).Error().Err(err).Msg("authorization enforcement failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if !allowed {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next(w, r)
	}
}

func (m *Middleware) isBypassed(path string) bool {
	for _, bypass := range m.bypassPaths {
		if strings.HasPrefix(path, bypass) {
			return true
		}
	}
	return false
}

// splitResourcePath extracts the resource name and optional record id
// from a request path: /people -> ("people", ""), /people/3 ->
// ("people", "3"). Deeper segments are ignored.
func splitResourcePath(path string) (resource, objid string) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", ""
	}
	segments := strings.Split(trimmed, "/")
	resource = segments[0]
	if len(segments) > 1 {
		objid = segments[1]
	}
	return resource, objid
}
