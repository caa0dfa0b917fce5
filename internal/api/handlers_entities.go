// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/chimitheque/chimitheque-api/internal/database"
	"github.com/chimitheque/chimitheque-api/internal/models"
)

// Entities returns the entities visible to the caller.
//
// Method: GET
// Path: /entities
func (h *Handler) Entities(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	filter, ok := listFilter(w, r)
	if !ok {
		return
	}

	entities, total, err := h.db.GetEntities(r.Context(), filter, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondList(w, entities, total)
}

// Entity returns one entity by id.
//
// Method: GET
// Path: /entities/{id}
func (h *Handler) Entity(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entities, _, err := h.db.GetEntities(r.Context(), database.RequestFilter{}.WithID(id), identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	if len(entities) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "entity not found")
		return
	}
	respondData(w, http.StatusOK, entities[0])
}

// CreateEntity creates an entity.
//
// Method: POST
// Path: /entities
func (h *Handler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	h.upsertEntity(w, r, 0)
}

// UpdateEntity updates an entity.
//
// Method: PUT
// Path: /entities/{id}
func (h *Handler) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.upsertEntity(w, r, id)
}

func (h *Handler) upsertEntity(w http.ResponseWriter, r *http.Request, id uint64) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	var entity models.Entity
	if !h.decodeBody(w, r, &entity) {
		return
	}
	entity.EntityID = id

	entityID, err := h.db.CreateUpdateEntity(r.Context(), &entity, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	entity.EntityID = entityID

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	respondData(w, status, entity)
}

// DeleteEntity deletes an entity. The policy forbids deleting entities
// that still have members or store locations.
//
// Method: DELETE
// Path: /entities/{id}
func (h *Handler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteEntity(r.Context(), id, identity.PersonID); err != nil {
		respondDatabaseError(w, r, err)
		return
	}

	h.rebuildPolicy(r.Context())
	respondData(w, http.StatusOK, nil)
}

// SetEntityManagers replaces the managers of an entity.
//
// Method: PUT
// Path: /entities/{id}/managers
func (h *Handler) SetEntityManagers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var personIDs []uint64
	if err := json.NewDecoder(r.Body).Decode(&personIDs); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	if err := h.db.SetEntityManagers(r.Context(), id, personIDs); err != nil {
		respondDatabaseError(w, r, err)
		return
	}

	h.rebuildPolicy(r.Context())
	respondData(w, http.StatusOK, personIDs)
}
