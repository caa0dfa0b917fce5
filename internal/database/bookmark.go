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

// GetBookmarks lists the acting person's bookmarks.
func (db *DB) GetBookmarks(ctx context.Context, filter RequestFilter, actorID uint64) ([]models.Bookmark, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := "bookmark_person_id = ?", []any{actorID}
	if filter.ID != nil {
		where += " AND bookmark_id = ?"
		args = append(args, *filter.ID)
	}
	if filter.Product != nil {
		where += " AND bookmark_product_id = ?"
		args = append(args, *filter.Product)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM bookmark WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT bookmark_id, bookmark_person_id, bookmark_product_id
		 FROM bookmark WHERE `+where+` ORDER BY bookmark_id LIMIT ? OFFSET ?`,
		append(args, pageArgs(filter)...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bookmarks []models.Bookmark
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.BookmarkID, &b.PersonID, &b.ProductID); err != nil {
			return nil, 0, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate bookmarks: %w", err)
	}

	return bookmarks, total, nil
}

// ToggleBookmark creates the bookmark if absent, removes it if present.
// Returns true when the bookmark exists after the call.
func (db *DB) ToggleBookmark(ctx context.Context, productID, actorID uint64) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM bookmark WHERE bookmark_person_id = ? AND bookmark_product_id = ?`,
		actorID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected bookmarks: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO bookmark (bookmark_person_id, bookmark_product_id) VALUES (?, ?)`,
		actorID, productID); err != nil {
		return false, fmt.Errorf("failed to insert bookmark: %w", err)
	}
	return true, nil
}

// DeleteBookmark removes a bookmark of the acting person.
func (db *DB) DeleteBookmark(ctx context.Context, id uint64, actorID uint64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM bookmark WHERE bookmark_id = ? AND bookmark_person_id = ?`,
		id, actorID); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}
