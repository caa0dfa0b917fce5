// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/chimitheque/chimitheque-api/internal/models"
)

// Borrowings returns the borrowings visible to the caller.
//
// Method: GET
// Path: /borrowings
func (h *Handler) Borrowings(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	filter, ok := listFilter(w, r)
	if !ok {
		return
	}

	borrowings, total, err := h.db.GetBorrowings(r.Context(), filter, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondList(w, borrowings, total)
}

// CreateBorrowing records a borrowing.
//
// Method: POST
// Path: /borrowings
func (h *Handler) CreateBorrowing(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	var borrowing models.Borrowing
	if err := json.NewDecoder(r.Body).Decode(&borrowing); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	if borrowing.BorrowerID == 0 {
		borrowing.BorrowerID = identity.PersonID
	}
	if err := h.validate.Struct(&borrowing); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	borrowingID, err := h.db.CreateUpdateBorrowing(r.Context(), &borrowing, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	borrowing.BorrowingID = borrowingID
	respondData(w, http.StatusCreated, borrowing)
}

// DeleteBorrowing ends a borrowing.
//
// Method: DELETE
// Path: /borrowings/{id}
func (h *Handler) DeleteBorrowing(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteBorrowing(r.Context(), id, identity.PersonID); err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
