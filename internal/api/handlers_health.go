// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"net/http"
)

// Health reports liveness and database reachability.
//
// Method: GET
// Path: /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Conn().PingContext(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, codeDatabaseError, "database unavailable")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
