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

// GetEntities lists entities matching the filter.
func (db *DB) GetEntities(ctx context.Context, filter RequestFilter, actorID uint64) ([]models.Entity, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := "1 = 1", []any{}
	if filter.ID != nil {
		where += " AND entity_id = ?"
		args = append(args, *filter.ID)
	}
	if filter.Search != "" {
		where += " AND entity_name LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM entity WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count entities: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT entity_id, entity_name, entity_description FROM entity
		 WHERE `+where+` ORDER BY entity_name LIMIT ? OFFSET ?`,
		append(args, pageArgs(filter)...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query entities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entities []models.Entity
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.EntityID, &e.EntityName, &e.EntityDescription); err != nil {
			return nil, 0, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate entities: %w", err)
	}

	return entities, total, nil
}

// CreateUpdateEntity inserts or updates an entity.
func (db *DB) CreateUpdateEntity(ctx context.Context, e *models.Entity, actorID uint64) (uint64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if e.EntityID == 0 {
		res, err := db.conn.ExecContext(ctx,
			`INSERT INTO entity (entity_name, entity_description) VALUES (?, ?)`,
			e.EntityName, e.EntityDescription)
		if err != nil {
			return 0, fmt.Errorf("failed to insert entity: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read inserted entity id: %w", err)
		}
		return uint64(id), nil
	}

	if _, err := db.conn.ExecContext(ctx,
		`UPDATE entity SET entity_name = ?, entity_description = ? WHERE entity_id = ?`,
		e.EntityName, e.EntityDescription, e.EntityID); err != nil {
		return 0, fmt.Errorf("failed to update entity: %w", err)
	}
	return e.EntityID, nil
}

// DeleteEntity removes an entity. The policy layer refuses deletion of
// entities that still have members; this is a plain row delete.
func (db *DB) DeleteEntity(ctx context.Context, id uint64, actorID uint64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM entity WHERE entity_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	return nil
}

// SetEntityManagers replaces the manager list of an entity.
func (db *DB) SetEntityManagers(ctx context.Context, entityID uint64, personIDs []uint64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM entitypeople WHERE entitypeople_entity_id = ?`, entityID); err != nil {
		return fmt.Errorf("failed to clear entity managers: %w", err)
	}
	for _, personID := range personIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entitypeople (entitypeople_entity_id, entitypeople_person_id)
			 VALUES (?, ?)`, entityID, personID); err != nil {
			return fmt.Errorf("failed to insert entity manager: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entity managers: %w", err)
	}
	return nil
}
