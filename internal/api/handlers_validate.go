// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"net/http"

	"github.com/chimitheque/chimitheque-api/internal/validate"
)

// The /validate endpoints are unauthenticated helpers for client-side
// form validation. They sit on the authentication bypass list.

// ValidateEmail checks email address syntax.
//
// Method: GET
// Path: /validate/email?email=...
func (h *Handler) ValidateEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if err := h.validate.Var(email, "required,email"); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid email address")
		return
	}
	respondData(w, http.StatusOK, true)
}

// ValidateCASNumber checks a CAS registry number, checksum included.
//
// Method: GET
// Path: /validate/casnumber?casnumber=...
func (h *Handler) ValidateCASNumber(w http.ResponseWriter, r *http.Request) {
	if err := validate.IsCASNumber(r.URL.Query().Get("casnumber")); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	respondData(w, http.StatusOK, true)
}

// ValidateCENumber checks an EC number, checksum included.
//
// Method: GET
// Path: /validate/cenumber?cenumber=...
func (h *Handler) ValidateCENumber(w http.ResponseWriter, r *http.Request) {
	if err := validate.IsCENumber(r.URL.Query().Get("cenumber")); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	respondData(w, http.StatusOK, true)
}

// ValidateEmpiricalFormula checks an empirical formula and returns it
// rewritten in Hill order.
//
// Method: GET
// Path: /validate/empiricalformula?empiricalformula=...
func (h *Handler) ValidateEmpiricalFormula(w http.ResponseWriter, r *http.Request) {
	sorted, err := validate.SortEmpiricalFormula(r.URL.Query().Get("empiricalformula"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	respondData(w, http.StatusOK, sorted)
}
