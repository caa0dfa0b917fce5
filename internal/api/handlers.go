// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/chimitheque/chimitheque-api/internal/auth"
	"github.com/chimitheque/chimitheque-api/internal/authz"
	"github.com/chimitheque/chimitheque-api/internal/database"
	"github.com/chimitheque/chimitheque-api/internal/logging"
)

// PolicyRebuilder is notified after any edit that changes who may do
// what: person, entity, manager or permission writes.
type PolicyRebuilder interface {
	Rebuild(ctx context.Context) error
}

// Handler implements the HTTP endpoints over the store.
type Handler struct {
	db       *database.DB
	policy   PolicyRebuilder
	validate *validator.Validate
}

// NewHandler creates the endpoint handler.
func NewHandler(db *database.DB, policy PolicyRebuilder) *Handler {
	return &Handler{
		db:       db,
		policy:   policy,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// actor returns the resolved identity of the request. The
// authentication middleware guarantees it on every enforced route;
// a miss means a wiring bug.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		logging.Ctx(r.Context()).Error().
			Str("path", r.URL.Path).
			Msg("handler reached without resolved identity")
		respondError(w, http.StatusForbidden, codeInvalidRequest, "forbidden")
		return auth.Identity{}, false
	}
	return identity, true
}

// pathID parses the {id} route parameter.
func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid record id")
		return 0, false
	}
	return id, true
}

// decodeBody decodes and validates a JSON request body.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return false
	}
	return true
}

// listFilter builds the list filter from query parameters.
func listFilter(w http.ResponseWriter, r *http.Request) (database.RequestFilter, bool) {
	filter, err := database.FilterFromValues(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return filter, false
	}
	return filter, true
}

// rebuildPolicy rebuilds the authorization policy after an edit that
// affects grants. The edit itself already succeeded; a failed rebuild
// leaves the previous policy active and is an operational error, not
// a request error.
func (h *Handler) rebuildPolicy(ctx context.Context) {
	if err := h.policy.Rebuild(ctx); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("authorization policy rebuild failed")
	}
}

// ensure the enforcer satisfies the rebuild contract
var _ PolicyRebuilder = (*authz.Enforcer)(nil)
