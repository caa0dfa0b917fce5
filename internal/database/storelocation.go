// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package database

import (
	"context"
	"fmt"

	"github.com/chimitheque/chimitheque-api/internal/models"
)

// GetStoreLocations lists store locations matching the filter.
func (db *DB) GetStoreLocations(ctx context.Context, filter RequestFilter, actorID uint64) ([]models.StoreLocation, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := "1 = 1", []any{}
	if filter.ID != nil {
		where += " AND store_location_id = ?"
		args = append(args, *filter.ID)
	}
	if filter.Search != "" {
		where += " AND store_location_name LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Entity != nil {
		where += " AND store_location_entity_id = ?"
		args = append(args, *filter.Entity)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM store_location WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count store locations: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT store_location_id, store_location_name, store_location_color,
		        store_location_full_path, store_location_can_store,
		        store_location_entity_id, store_location_parent_id
		 FROM store_location WHERE `+where+`
		 ORDER BY store_location_full_path, store_location_name
		 LIMIT ? OFFSET ?`,
		append(args, pageArgs(filter)...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query store locations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var locations []models.StoreLocation
	for rows.Next() {
		var s models.StoreLocation
		if err := rows.Scan(&s.StoreLocationID, &s.StoreLocationName,
			&s.StoreLocationColor, &s.StoreLocationFullPath, &s.CanStore,
			&s.EntityID, &s.ParentID); err != nil {
			return nil, 0, fmt.Errorf("failed to scan store location: %w", err)
		}
		locations = append(locations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate store locations: %w", err)
	}

	return locations, total, nil
}

// CreateUpdateStoreLocation inserts or updates a store location.
func (db *DB) CreateUpdateStoreLocation(ctx context.Context, s *models.StoreLocation, actorID uint64) (uint64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if s.StoreLocationID == 0 {
		res, err := db.conn.ExecContext(ctx,
			`INSERT INTO store_location
			 (store_location_name, store_location_color, store_location_full_path,
			  store_location_can_store, store_location_entity_id, store_location_parent_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.StoreLocationName, s.StoreLocationColor, s.StoreLocationFullPath,
			s.CanStore, s.EntityID, s.ParentID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert store location: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read inserted store location id: %w", err)
		}
		return uint64(id), nil
	}

	if _, err := db.conn.ExecContext(ctx,
		`UPDATE store_location SET
		 store_location_name = ?, store_location_color = ?,
		 store_location_full_path = ?, store_location_can_store = ?,
		 store_location_entity_id = ?, store_location_parent_id = ?
		 WHERE store_location_id = ?`,
		s.StoreLocationName, s.StoreLocationColor, s.StoreLocationFullPath,
		s.CanStore, s.EntityID, s.ParentID, s.StoreLocationID); err != nil {
		return 0, fmt.Errorf("failed to update store location: %w", err)
	}
	return s.StoreLocationID, nil
}

// DeleteStoreLocation removes a store location. The policy layer refuses
// deletion of locations with children or storages.
func (db *DB) DeleteStoreLocation(ctx context.Context, id uint64, actorID uint64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM store_location WHERE store_location_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete store location: %w", err)
	}
	return nil
}
