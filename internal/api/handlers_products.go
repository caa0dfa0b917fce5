// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package api

import (
	"net/http"

	"github.com/chimitheque/chimitheque-api/internal/database"
	"github.com/chimitheque/chimitheque-api/internal/models"
	"github.com/chimitheque/chimitheque-api/internal/validate"
)

// Products returns the product catalog.
//
// Method: GET
// Path: /products
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	filter, ok := listFilter(w, r)
	if !ok {
		return
	}

	products, total, err := h.db.GetProducts(r.Context(), filter, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondList(w, products, total)
}

// Product returns one product by id.
//
// Method: GET
// Path: /products/{id}
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	products, _, err := h.db.GetProducts(r.Context(), database.RequestFilter{}.WithID(id), identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	if len(products) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "product not found")
		return
	}
	respondData(w, http.StatusOK, products[0])
}

// CreateProduct creates a product.
//
// Method: POST
// Path: /products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.upsertProduct(w, r, 0)
}

// UpdateProduct updates a product.
//
// Method: PUT
// Path: /products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.upsertProduct(w, r, id)
}

func (h *Handler) upsertProduct(w http.ResponseWriter, r *http.Request, id uint64) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	var product models.Product
	if !h.decodeBody(w, r, &product) {
		return
	}
	product.ProductID = id

	if product.CasNumber != "" {
		if err := validate.IsCASNumber(product.CasNumber); err != nil {
			respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
	}
	if product.CeNumber != "" {
		if err := validate.IsCENumber(product.CeNumber); err != nil {
			respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
	}
	if product.EmpiricalFormula != "" {
		sorted, err := validate.SortEmpiricalFormula(product.EmpiricalFormula)
		if err != nil {
			respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
		product.EmpiricalFormula = sorted
	}

	productID, err := h.db.CreateUpdateProduct(r.Context(), &product, identity.PersonID)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	product.ProductID = productID

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	respondData(w, status, product)
}

// DeleteProduct deletes a product. The policy forbids deleting
// products that still have storages.
//
// Method: DELETE
// Path: /products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteProduct(r.Context(), id, identity.PersonID); err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
