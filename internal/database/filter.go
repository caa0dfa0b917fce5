// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package database

import (
	"fmt"
	"net/url"
	"strconv"
)

// RequestFilter narrows list queries. The zero value matches everything.
type RequestFilter struct {
	// ID selects a single row when non-nil.
	ID *uint64

	// Search matches names and emails with a LIKE pattern.
	Search string

	// PersonEmail selects people by exact email.
	PersonEmail string

	// Entity scopes store locations and storages to one entity.
	Entity *uint64

	// Product scopes storages and bookmarks to one product.
	Product *uint64

	// StoreLocation scopes storages to one store location.
	StoreLocation *uint64

	// Person scopes bookmarks and borrowings to one person.
	Person *uint64

	// Limit caps the number of returned rows. 0 means no cap.
	Limit int

	// Offset skips rows for pagination.
	Offset int
}

// maxLimit caps requested page sizes.
const maxLimit = 1000

// FilterFromValues builds a RequestFilter from URL query parameters.
func FilterFromValues(values url.Values) (RequestFilter, error) {
	var f RequestFilter

	f.Search = values.Get("search")
	f.PersonEmail = values.Get("person_email")

	for name, dst := range map[string]**uint64{
		"entity":         &f.Entity,
		"product":        &f.Product,
		"store_location": &f.StoreLocation,
		"person":         &f.Person,
	} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, fmt.Errorf("invalid %s parameter %q: %w", name, raw, err)
		}
		*dst = &id
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return f, fmt.Errorf("invalid limit parameter %q", raw)
		}
		f.Limit = limit
	}
	if f.Limit == 0 || f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return f, fmt.Errorf("invalid offset parameter %q", raw)
		}
		f.Offset = offset
	}

	return f, nil
}

// WithID returns a copy of the filter selecting a single row.
func (f RequestFilter) WithID(id uint64) RequestFilter {
	f.ID = &id
	return f
}
