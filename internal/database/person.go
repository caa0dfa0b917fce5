// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chimitheque/chimitheque-api/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// GetPersonByEmail retrieves exactly one person by email.
// Returns ErrNotFound when no person matches; identity resolution relies on
// this to fail closed instead of falling back to a guest identity.
func (db *DB) GetPersonByEmail(ctx context.Context, email string) (*models.Person, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var p models.Person
	err := db.conn.QueryRowContext(ctx,
		`SELECT person_id, person_email FROM person WHERE person_email = ?`,
		email,
	).Scan(&p.PersonID, &p.PersonEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query person by email: %w", err)
	}

	return &p, nil
}

// GetPeople lists people matching the filter.
func (db *DB) GetPeople(ctx context.Context, filter RequestFilter, actorID uint64) ([]models.Person, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := "1 = 1", []any{}
	if filter.ID != nil {
		where += " AND person_id = ?"
		args = append(args, *filter.ID)
	}
	if filter.PersonEmail != "" {
		where += " AND person_email = ?"
		args = append(args, filter.PersonEmail)
	}
	if filter.Search != "" {
		where += " AND person_email LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Entity != nil {
		where += ` AND person_id IN (
			SELECT personentities_person_id FROM personentities
			WHERE personentities_entity_id = ?)`
		args = append(args, *filter.Entity)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM person WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count people: %w", err)
	}

	query := `SELECT person_id, person_email FROM person WHERE ` + where +
		` ORDER BY person_email LIMIT ? OFFSET ?`
	rows, err := db.conn.QueryContext(ctx, query, append(args, pageArgs(filter)...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query people: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var people []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.PersonID, &p.PersonEmail); err != nil {
			return nil, 0, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate people: %w", err)
	}

	return people, total, nil
}

// CreateUpdatePerson inserts or updates a person with its entity
// memberships. Membership rows are replaced wholesale.
func (db *DB) CreateUpdatePerson(ctx context.Context, p *models.Person, actorID uint64) (uint64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if p.PersonID == 0 {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO person (person_email) VALUES (?)`, p.PersonEmail)
		if err != nil {
			return 0, fmt.Errorf("failed to insert person: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read inserted person id: %w", err)
		}
		p.PersonID = uint64(id)
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE person SET person_email = ? WHERE person_id = ?`,
			p.PersonEmail, p.PersonID); err != nil {
			return 0, fmt.Errorf("failed to update person: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM personentities WHERE personentities_person_id = ?`,
		p.PersonID); err != nil {
		return 0, fmt.Errorf("failed to clear person memberships: %w", err)
	}
	for _, entityID := range p.Entities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO personentities (personentities_person_id, personentities_entity_id)
			 VALUES (?, ?)`,
			p.PersonID, entityID); err != nil {
			return 0, fmt.Errorf("failed to insert person membership: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit person: %w", err)
	}

	return p.PersonID, nil
}

// DeletePerson removes a person and, via foreign keys, its memberships,
// bookmarks and permission rows.
func (db *DB) DeletePerson(ctx context.Context, id uint64, actorID uint64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM person WHERE person_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

// pageArgs returns the LIMIT/OFFSET arguments for a filter.
func pageArgs(filter RequestFilter) []any {
	limit := filter.Limit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	return []any{limit, filter.Offset}
}
