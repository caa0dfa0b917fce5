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

// GetProducts lists products matching the filter.
func (db *DB) GetProducts(ctx context.Context, filter RequestFilter, actorID uint64) ([]models.Product, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := "1 = 1", []any{}
	if filter.ID != nil {
		where += " AND product_id = ?"
		args = append(args, *filter.ID)
	}
	if filter.Search != "" {
		where += " AND (product_name LIKE ? OR cas_number LIKE ?)"
		args = append(args, "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM product WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT product_id, product_name, cas_number, ce_number,
		        empirical_formula, creator_person_id
		 FROM product WHERE `+where+` ORDER BY product_name LIMIT ? OFFSET ?`,
		append(args, pageArgs(filter)...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.CasNumber,
			&p.CeNumber, &p.EmpiricalFormula, &p.CreatorPersonID); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, total, nil
}

// CreateUpdateProduct inserts or updates a product. The creator is the
// acting person on insert.
func (db *DB) CreateUpdateProduct(ctx context.Context, p *models.Product, actorID uint64) (uint64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if p.ProductID == 0 {
		res, err := db.conn.ExecContext(ctx,
			`INSERT INTO product
			 (product_name, cas_number, ce_number, empirical_formula, creator_person_id)
			 VALUES (?, ?, ?, ?, ?)`,
			p.ProductName, p.CasNumber, p.CeNumber, p.EmpiricalFormula, actorID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert product: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read inserted product id: %w", err)
		}
		return uint64(id), nil
	}

	if _, err := db.conn.ExecContext(ctx,
		`UPDATE product SET product_name = ?, cas_number = ?, ce_number = ?,
		 empirical_formula = ? WHERE product_id = ?`,
		p.ProductName, p.CasNumber, p.CeNumber, p.EmpiricalFormula,
		p.ProductID); err != nil {
		return 0, fmt.Errorf("failed to update product: %w", err)
	}
	return p.ProductID, nil
}

// DeleteProduct removes a product. The policy layer refuses deletion of
// products that still have storages.
func (db *DB) DeleteProduct(ctx context.Context, id uint64, actorID uint64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM product WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
