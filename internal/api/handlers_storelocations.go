// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"net/http"

	"github.com/chimitheque/chimitheque-api/internal/database"
	"github.com/chimitheque/chimitheque-api/internal/models"
)

// StoreLocations returns the store locations visible to the caller.
//
// Method: GET
// Path: /store_locations
func (h *Handler) StoreLocations(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	filter, ok := listFilter(w, r)
	if !ok {
		return
	}

	locations, total, err := h.db.GetStoreLocations(r.Context(), filter, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondList(w, locations, total)
}

// StoreLocation returns one store location by id.
//
// Method: GET
// Path: /store_locations/{id}
func (h *Handler) StoreLocation(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	locations, _, err := h.db.GetStoreLocations(r.Context(), database.RequestFilter{}.WithID(id), identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	if len(locations) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "store location not found")
		return
	}
	respondData(w, http.StatusOK, locations[0])
}

// CreateStoreLocation creates a store location.
//
// Method: POST
// Path: /store_locations
func (h *Handler) CreateStoreLocation(w http.ResponseWriter, r *http.Request) {
	h.upsertStoreLocation(w, r, 0)
}

// UpdateStoreLocation updates a store location.
//
// Method: PUT
// Path: /store_locations/{id}
func (h *Handler) UpdateStoreLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.upsertStoreLocation(w, r, id)
}

func (h *Handler) upsertStoreLocation(w http.ResponseWriter, r *http.Request, id uint64) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	var location models.StoreLocation
	if !h.decodeBody(w, r, &location) {
		return
	}
	location.StoreLocationID = id

	locationID, err := h.db.CreateUpdateStoreLocation(r.Context(), &location, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	location.StoreLocationID = locationID

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	respondData(w, status, location)
}

// DeleteStoreLocation deletes a store location. The policy forbids
// deleting locations that still have children or storages.
//
// Method: DELETE
// Path: /store_locations/{id}
func (h *Handler) DeleteStoreLocation(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteStoreLocation(r.Context(), id, identity.PersonID); err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
