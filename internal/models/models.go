// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

// Package models defines the domain types shared between the database
// layer and the HTTP handlers.
package models

import "time"

// Person is an internal actor resolved from a verified external identity.
type Person struct {
	PersonID    uint64   `json:"person_id"`
	PersonEmail string   `json:"person_email" validate:"required,email"`
	Entities    []uint64 `json:"entities,omitempty"`
	Managed     []uint64 `json:"managed_entities,omitempty"`
}

// Entity is an organizational unit (a lab, a department) owning store
// locations and members.
type Entity struct {
	EntityID          uint64 `json:"entity_id"`
	EntityName        string `json:"entity_name" validate:"required"`
	EntityDescription string `json:"entity_description,omitempty"`
}

// StoreLocation is a physical storage place, optionally nested under a
// parent location, always attached to an entity.
type StoreLocation struct {
	StoreLocationID       uint64  `json:"store_location_id"`
	StoreLocationName     string  `json:"store_location_name" validate:"required"`
	StoreLocationColor    string  `json:"store_location_color,omitempty"`
	StoreLocationFullPath string  `json:"store_location_full_path,omitempty"`
	CanStore              bool    `json:"can_store"`
	EntityID              uint64  `json:"entity_id" validate:"required"`
	ParentID              *uint64 `json:"parent_id,omitempty"`
}

// Product is a chemical product reference.
type Product struct {
	ProductID        uint64 `json:"product_id"`
	ProductName      string `json:"product_name" validate:"required"`
	CasNumber        string `json:"cas_number,omitempty"`
	CeNumber         string `json:"ce_number,omitempty"`
	EmpiricalFormula string `json:"empirical_formula,omitempty"`
	CreatorPersonID  uint64 `json:"creator_person_id"`
}

// Storage is a stored quantity of a product at a store location.
type Storage struct {
	StorageID        uint64    `json:"storage_id"`
	ProductID        uint64    `json:"product_id" validate:"required"`
	StoreLocationID  uint64    `json:"store_location_id" validate:"required"`
	PersonID         uint64    `json:"person_id"`
	Quantity         float64   `json:"quantity"`
	Unit             string    `json:"unit,omitempty"`
	Barecode         string    `json:"barecode,omitempty"`
	CreationDate     time.Time `json:"creation_date"`
	ModificationDate time.Time `json:"modification_date"`
	Archived         bool      `json:"archived"`
}

// Bookmark marks a product as a favorite of a person.
type Bookmark struct {
	BookmarkID uint64 `json:"bookmark_id"`
	PersonID   uint64 `json:"person_id"`
	ProductID  uint64 `json:"product_id" validate:"required"`
}

// Borrowing records a storage temporarily taken by a person.
type Borrowing struct {
	BorrowingID   uint64    `json:"borrowing_id"`
	StorageID     uint64    `json:"storage_id" validate:"required"`
	BorrowerID    uint64    `json:"borrower_person_id" validate:"required"`
	Comment       string    `json:"comment,omitempty"`
	BorrowingDate time.Time `json:"borrowing_date"`
}

// Permission grant values for the permission table.
const (
	PermRead  = "r"
	PermWrite = "w"
	PermAll   = "all"

	// PermItemAll grants over every item kind.
	PermItemAll = "all"

	// PermEntityAll (-1) grants over every entity.
	PermEntityAll = -1
)

// Permission is one persisted policy grant: a person may perform perm_name
// operations on perm_item rows scoped to entity_id (-1 for all entities).
type Permission struct {
	PermissionID uint64 `json:"permission_id"`
	PersonID     uint64 `json:"person_id" validate:"required"`
	PermName     string `json:"perm_name" validate:"required,oneof=r w all"`
	PermItem     string `json:"perm_item" validate:"required"`
	EntityID     int64  `json:"entity_id"`
}
