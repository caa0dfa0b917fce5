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

// GetPermissions returns every persisted policy grant. The enforcer reads
// them at build/rebuild time and materializes them into policy rules.
func (db *DB) GetPermissions(ctx context.Context) ([]models.Permission, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT permission_id, person_id, perm_name, perm_item, entity_id
		 FROM permission ORDER BY permission_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query permissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var permissions []models.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.PermissionID, &p.PersonID, &p.PermName,
			&p.PermItem, &p.EntityID); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		permissions = append(permissions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate permissions: %w", err)
	}

	return permissions, nil
}

// GetManagedEntities returns the entity ids a person manages. Manager
// grants are derived from this relation at enforcer build time.
func (db *DB) GetManagedEntities(ctx context.Context, personID uint64) ([]uint64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT entitypeople_entity_id FROM entitypeople
		 WHERE entitypeople_person_id = ? ORDER BY entitypeople_entity_id`,
		personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query managed entities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entities []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan managed entity: %w", err)
		}
		entities = append(entities, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate managed entities: %w", err)
	}

	return entities, nil
}

// GetManagers returns every (entity, manager) pair.
func (db *DB) GetManagers(ctx context.Context) (map[uint64][]uint64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT entitypeople_entity_id, entitypeople_person_id FROM entitypeople
		 ORDER BY entitypeople_entity_id, entitypeople_person_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query managers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	managers := make(map[uint64][]uint64)
	for rows.Next() {
		var entityID, personID uint64
		if err := rows.Scan(&entityID, &personID); err != nil {
			return nil, fmt.Errorf("failed to scan manager: %w", err)
		}
		managers[entityID] = append(managers[entityID], personID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate managers: %w", err)
	}

	return managers, nil
}

// SetPersonPermissions replaces the permission rows of one person.
// The caller must rebuild the enforcer afterwards since rules are only
// read at build time.
func (db *DB) SetPersonPermissions(ctx context.Context, personID uint64, permissions []models.Permission) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM permission WHERE person_id = ?`, personID); err != nil {
		return fmt.Errorf("failed to clear permissions: %w", err)
	}
	for _, p := range permissions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO permission (person_id, perm_name, perm_item, entity_id)
			 VALUES (?, ?, ?, ?)`,
			personID, p.PermName, p.PermItem, p.EntityID); err != nil {
			return fmt.Errorf("failed to insert permission: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit permissions: %w", err)
	}
	return nil
}
