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

// Storages returns the storages visible to the caller.
//
// Method: GET
// Path: /storages
func (h *Handler) Storages(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	filter, ok := listFilter(w, r)
	if !ok {
		return
	}

	storages, total, err := h.db.GetStorages(r.Context(), filter, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondList(w, storages, total)
}

// Storage returns one storage by id.
//
// Method: GET
// Path: /storages/{id}
func (h *Handler) Storage(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	storages, _, err := h.db.GetStorages(r.Context(), database.RequestFilter{}.WithID(id), identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	if len(storages) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "storage not found")
		return
	}
	respondData(w, http.StatusOK, storages[0])
}

// CreateStorage creates a storage.
//
// Method: POST
// Path: /storages
func (h *Handler) CreateStorage(w http.ResponseWriter, r *http.Request) {
	h.upsertStorage(w, r, 0)
}

// UpdateStorage updates a storage.
//
// Method: PUT
// Path: /storages/{id}
func (h *Handler) UpdateStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.upsertStorage(w, r, id)
}

func (h *Handler) upsertStorage(w http.ResponseWriter, r *http.Request, id uint64) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	var storage models.Storage
	if !h.decodeBody(w, r, &storage) {
		return
	}
	storage.StorageID = id

	storageID, err := h.db.CreateUpdateStorage(r.Context(), &storage, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	storage.StorageID = storageID

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	respondData(w, status, storage)
}

// DeleteStorage deletes a storage.
//
// Method: DELETE
// Path: /storages/{id}
func (h *Handler) DeleteStorage(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteStorage(r.Context(), id, identity.PersonID); err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
