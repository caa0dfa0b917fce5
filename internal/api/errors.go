// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"errors"
	"net/http"

	"github.com/chimitheque/chimitheque-api/internal/database"
	"github.com/chimitheque/chimitheque-api/internal/logging"
)

// Error codes used in error envelopes.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeDatabaseError  = "DATABASE_ERROR"
)

// respondDatabaseError maps a storage error onto an HTTP response.
// Missing rows are the client's problem and stay unlogged; everything
// else is an internal failure.
func respondDatabaseError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, "record not found")
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Msg("database operation failed")
	respondError(w, http.StatusInternalServerError, codeDatabaseError, "internal server error")
}
