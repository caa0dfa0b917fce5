// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/chimitheque/chimitheque-api/internal/logging"
)

// Header names under which the resolved actor is propagated to
// downstream handlers.
const (
	PersonIDHeader    = "chimitheque_person_id"
	PersonEmailHeader = "chimitheque_person_email"
)

// Middleware authenticates requests: it verifies the bearer token,
// resolves the asserted email to an internal person, and injects the
// resulting identity into the request context and headers.
type Middleware struct {
	verifier    *TokenVerifier
	resolver    *Resolver
	bypassPaths []string
}

// NewMiddleware creates an authentication middleware. Requests whose
// path starts with one of bypassPaths skip authentication entirely.
func NewMiddleware(verifier *TokenVerifier, resolver *Resolver, bypassPaths []string) *Middleware {
	return &Middleware{
		verifier:    verifier,
		resolver:    resolver,
		bypassPaths: bypassPaths,
	}
}

// Authenticate enforces bearer authentication and identity resolution.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.isBypassed(r.URL.Path) {
			next(w, r)
			return
		}

		claims, err := m.verifier.VerifyRequest(r.Context(), r)
		if err != nil {
			m.writeVerificationError(w, r, err)
			return
		}

		identity, err := m.resolver.Resolve(r.Context(), claims.Email)
		if err != nil {
			m.writeResolutionError(w, r, err)
			return
		}

		ctx := WithIdentity(r.Context(), identity)
		r = r.WithContext(ctx)
		r.Header.Set(PersonIDHeader, identity.IDString())
		r.Header.Set(PersonEmailHeader, identity.PersonEmail)

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

// writeVerificationError maps token verification failures onto HTTP
// responses. Malformed client input stays unlogged; upstream key
// problems are our side's concern and get logged.
func (m *Middleware) writeVerificationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBearerTokenMissing):
		http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
	case errors.Is(err, ErrKeyFetchFailed):
		logging.Ctx(r.Context()).Error().Err(err).Msg("signing key fetch failed")
		http.Error(w, "unauthorized: token verification unavailable", http.StatusUnauthorized)
	case errors.Is(err, ErrKeyNotFoundInCache):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("token signed with unknown key")
		http.Error(w, "unauthorized: invalid token", http.StatusUnauthorized)
	default:
		http.Error(w, "unauthorized: invalid token", http.StatusUnauthorized)
	}
}

// writeResolutionError maps identity resolution failures. A valid
// token whose email has no matching person is worth a warning: the
// identity provider and this instance disagree about who exists.
func (m *Middleware) writeResolutionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrPersonNotFound) {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("authenticated email has no matching person")
		http.Error(w, "unauthorized: unknown person", http.StatusUnauthorized)
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Msg("identity resolution failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
