// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

// predicates.go - Relational predicate queries
//
// Each function answers one relationship question about actors and
// resources with a single read-only query. They back the policy
// enforcer's predicate table; the authz layer is responsible for
// degrading errors to a deny decision.
package database

import "context"

// PersonIsAdmin reports whether the person holds the all/all/-1 grant.
func (db *DB) PersonIsAdmin(ctx context.Context, personID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM permission
		 WHERE person_id = ? AND perm_name = 'all' AND perm_item = 'all' AND entity_id = -1`,
		personID)
}

// PersonIsManager reports whether the person manages at least one entity.
func (db *DB) PersonIsManager(ctx context.Context, personID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM entitypeople WHERE entitypeople_person_id = ?`,
		personID)
}

// PersonIsInEntity reports whether the person is a member of the entity.
func (db *DB) PersonIsInEntity(ctx context.Context, personID, entityID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM personentities
		 WHERE personentities_person_id = ? AND personentities_entity_id = ?`,
		personID, entityID)
}

// PersonManagesEntity reports whether the person manages the entity.
func (db *DB) PersonManagesEntity(ctx context.Context, personID, entityID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM entitypeople
		 WHERE entitypeople_person_id = ? AND entitypeople_entity_id = ?`,
		personID, entityID)
}

// EntityHasMembers reports whether the entity still has members.
func (db *DB) EntityHasMembers(ctx context.Context, entityID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM personentities WHERE personentities_entity_id = ?`,
		entityID)
}

// EntityHasStoreLocations reports whether the entity still owns store
// locations.
func (db *DB) EntityHasStoreLocations(ctx context.Context, entityID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM store_location WHERE store_location_entity_id = ?`,
		entityID)
}

// ProductHasStorages reports whether the product still has storages.
func (db *DB) ProductHasStorages(ctx context.Context, productID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM storage WHERE storage_product_id = ?`,
		productID)
}

// StorageIsInEntity reports whether the storage sits in a store location
// owned by the entity.
func (db *DB) StorageIsInEntity(ctx context.Context, storageID, entityID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM storage
		 JOIN store_location ON storage_store_location_id = store_location_id
		 WHERE storage_id = ? AND store_location_entity_id = ?`,
		storageID, entityID)
}

// StoreLocationIsInEntity reports whether the store location belongs to
// the entity.
func (db *DB) StoreLocationIsInEntity(ctx context.Context, storeLocationID, entityID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM store_location
		 WHERE store_location_id = ? AND store_location_entity_id = ?`,
		storeLocationID, entityID)
}

// StoreLocationHasChildren reports whether the store location has nested
// locations.
func (db *DB) StoreLocationHasChildren(ctx context.Context, storeLocationID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM store_location WHERE store_location_parent_id = ?`,
		storeLocationID)
}

// StoreLocationHasStorages reports whether the store location still holds
// storages.
func (db *DB) StoreLocationHasStorages(ctx context.Context, storeLocationID uint64) (bool, error) {
	return db.exists(ctx,
		`SELECT count(*) FROM storage WHERE storage_store_location_id = ?`,
		storeLocationID)
}
