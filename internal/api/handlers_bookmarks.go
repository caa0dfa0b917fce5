// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"net/http"

	"github.com/chimitheque/chimitheque-api/internal/models"
)

// Bookmarks returns the caller's bookmarks.
//
// Method: GET
// Path: /bookmarks
func (h *Handler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	filter, ok := listFilter(w, r)
	if !ok {
		return
	}

	bookmarks, total, err := h.db.GetBookmarks(r.Context(), filter, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondList(w, bookmarks, total)
}

// ToggleBookmark bookmarks a product for the caller, or removes the
// bookmark if it already exists.
//
// Method: POST
// Path: /bookmarks
func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	var bookmark models.Bookmark
	if !h.decodeBody(w, r, &bookmark) {
		return
	}

	bookmarked, err := h.db.ToggleBookmark(r.Context(), bookmark.ProductID, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}

// DeleteBookmark removes one of the caller's bookmarks.
//
// Method: DELETE
// Path: /bookmarks/{id}
func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteBookmark(r.Context(), id, identity.PersonID); err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
