// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/chimitheque/chimitheque-api/internal/models"
)

// GetStorages lists storages matching the filter.
func (db *DB) GetStorages(ctx context.Context, filter RequestFilter, actorID uint64) ([]models.Storage, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := "1 = 1", []any{}
	if filter.ID != nil {
		where += " AND storage_id = ?"
		args = append(args, *filter.ID)
	}
	if filter.Product != nil {
		where += " AND storage_product_id = ?"
		args = append(args, *filter.Product)
	}
	if filter.StoreLocation != nil {
		where += " AND storage_store_location_id = ?"
		args = append(args, *filter.StoreLocation)
	}
	if filter.Entity != nil {
		where += ` AND storage_store_location_id IN (
			SELECT store_location_id FROM store_location
			WHERE store_location_entity_id = ?)`
		args = append(args, *filter.Entity)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM storage WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count storages: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT storage_id, storage_product_id, storage_store_location_id,
		        storage_person_id, storage_quantity, storage_unit,
		        storage_barecode, storage_creation_date,
		        storage_modification_date, storage_archived
		 FROM storage WHERE `+where+` ORDER BY storage_id LIMIT ? OFFSET ?`,
		append(args, pageArgs(filter)...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query storages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var storages []models.Storage
	for rows.Next() {
		var s models.Storage
		if err := rows.Scan(&s.StorageID, &s.ProductID, &s.StoreLocationID,
			&s.PersonID, &s.Quantity, &s.Unit, &s.Barecode,
			&s.CreationDate, &s.ModificationDate, &s.Archived); err != nil {
			return nil, 0, fmt.Errorf("failed to scan storage: %w", err)
		}
		storages = append(storages, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate storages: %w", err)
	}

	return storages, total, nil
}

// CreateUpdateStorage inserts or updates a storage row.
func (db *DB) CreateUpdateStorage(ctx context.Context, s *models.Storage, actorID uint64) (uint64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	now := time.Now().UTC()

	if s.StorageID == 0 {
		res, err := db.conn.ExecContext(ctx,
			`INSERT INTO storage
			 (storage_product_id, storage_store_location_id, storage_person_id,
			  storage_quantity, storage_unit, storage_barecode,
			  storage_creation_date, storage_modification_date, storage_archived)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ProductID, s.StoreLocationID, actorID,
			s.Quantity, s.Unit, s.Barecode, now, now, s.Archived)
		if err != nil {
			return 0, fmt.Errorf("failed to insert storage: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read inserted storage id: %w", err)
		}
		return uint64(id), nil
	}

	if _, err := db.conn.ExecContext(ctx,
		`UPDATE storage SET
		 storage_product_id = ?, storage_store_location_id = ?,
		 storage_quantity = ?, storage_unit = ?, storage_barecode = ?,
		 storage_modification_date = ?, storage_archived = ?
		 WHERE storage_id = ?`,
		s.ProductID, s.StoreLocationID, s.Quantity, s.Unit, s.Barecode,
		now, s.Archived, s.StorageID); err != nil {
		return 0, fmt.Errorf("failed to update storage: %w", err)
	}
	return s.StorageID, nil
}

// DeleteStorage removes a storage row.
func (db *DB) DeleteStorage(ctx context.Context, id uint64, actorID uint64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM storage WHERE storage_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete storage: %w", err)
	}
	return nil
}
