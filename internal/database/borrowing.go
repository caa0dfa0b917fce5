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

// GetBorrowings lists borrowings matching the filter.
func (db *DB) GetBorrowings(ctx context.Context, filter RequestFilter, actorID uint64) ([]models.Borrowing, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := "1 = 1", []any{}
	if filter.ID != nil {
		where += " AND borrowing_id = ?"
		args = append(args, *filter.ID)
	}
	if filter.Person != nil {
		where += " AND borrowing_person_id = ?"
		args = append(args, *filter.Person)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM borrowing WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count borrowings: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT borrowing_id, borrowing_storage_id, borrowing_person_id,
		        borrowing_comment, borrowing_date
		 FROM borrowing WHERE `+where+` ORDER BY borrowing_date DESC LIMIT ? OFFSET ?`,
		append(args, pageArgs(filter)...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query borrowings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var borrowings []models.Borrowing
	for rows.Next() {
		var b models.Borrowing
		if err := rows.Scan(&b.BorrowingID, &b.StorageID, &b.BorrowerID,
			&b.Comment, &b.BorrowingDate); err != nil {
			return nil, 0, fmt.Errorf("failed to scan borrowing: %w", err)
		}
		borrowings = append(borrowings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate borrowings: %w", err)
	}

	return borrowings, total, nil
}

// CreateUpdateBorrowing records or updates the borrowing of a storage.
// A storage can be borrowed by at most one person at a time.
func (db *DB) CreateUpdateBorrowing(ctx context.Context, b *models.Borrowing, actorID uint64) (uint64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if b.BorrowingID == 0 {
		res, err := db.conn.ExecContext(ctx,
			`INSERT INTO borrowing
			 (borrowing_storage_id, borrowing_person_id, borrowing_comment, borrowing_date)
			 VALUES (?, ?, ?, ?)`,
			b.StorageID, b.BorrowerID, b.Comment, time.Now().UTC())
		if err != nil {
			return 0, fmt.Errorf("failed to insert borrowing: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read inserted borrowing id: %w", err)
		}
		return uint64(id), nil
	}

	if _, err := db.conn.ExecContext(ctx,
		`UPDATE borrowing SET borrowing_person_id = ?, borrowing_comment = ?
		 WHERE borrowing_id = ?`,
		b.BorrowerID, b.Comment, b.BorrowingID); err != nil {
		return 0, fmt.Errorf("failed to update borrowing: %w", err)
	}
	return b.BorrowingID, nil
}

// DeleteBorrowing returns a borrowed storage.
func (db *DB) DeleteBorrowing(ctx context.Context, id uint64, actorID uint64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM borrowing WHERE borrowing_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete borrowing: %w", err)
	}
	return nil
}
