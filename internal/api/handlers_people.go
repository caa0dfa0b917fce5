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

// People returns the people visible to the caller.
//
// Method: GET
// Path: /people
func (h *Handler) People(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	filter, ok := listFilter(w, r)
	if !ok {
		return
	}

	people, total, err := h.db.GetPeople(r.Context(), filter, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondList(w, people, total)
}

// Person returns one person by id.
//
// Method: GET
// Path: /people/{id}
func (h *Handler) Person(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	people, _, err := h.db.GetPeople(r.Context(), database.RequestFilter{}.WithID(id), identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	if len(people) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "person not found")
		return
	}
	respondData(w, http.StatusOK, people[0])
}

// CreatePerson creates a person.
//
// Method: POST
// Path: /people
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	h.upsertPerson(w, r, 0)
}

// UpdatePerson updates a person.
//
// Method: PUT
// Path: /people/{id}
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.upsertPerson(w, r, id)
}

func (h *Handler) upsertPerson(w http.ResponseWriter, r *http.Request, id uint64) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	var person models.Person
	if !h.decodeBody(w, r, &person) {
		return
	}
	person.PersonID = id

	personID, err := h.db.CreateUpdatePerson(r.Context(), &person, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	person.PersonID = personID

	// Entity memberships changed; grants may have too.
	h.rebuildPolicy(r.Context())

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	respondData(w, status, person)
}

// DeletePerson deletes a person.
//
// Method: DELETE
// Path: /people/{id}
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeletePerson(r.Context(), id, identity.PersonID); err != nil {
		respondDatabaseError(w, r, err)
		return
	}

	h.rebuildPolicy(r.Context())
	respondData(w, http.StatusOK, nil)
}

// SetPersonPermissions replaces the permission grants of a person.
//
// Method: PUT
// Path: /people/{id}/permissions
func (h *Handler) SetPersonPermissions(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var permissions []models.Permission
	if err := json.NewDecoder(r.Body).Decode(&permissions); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	for i := range permissions {
		permissions[i].PersonID = id
		if err := h.validate.Struct(&permissions[i]); err != nil {
			respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
	}

	if err := h.db.SetPersonPermissions(r.Context(), id, permissions); err != nil {
		respondDatabaseError(w, r, err)
		return
	}

	h.rebuildPolicy(r.Context())
	respondData(w, http.StatusOK, permissions)
}
