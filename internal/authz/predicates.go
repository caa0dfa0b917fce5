// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package authz

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/casbin/govaluate"

	"github.com/chimitheque/chimitheque-api/internal/logging"
)

// PredicateStore is the database surface the policy predicates query.
type PredicateStore interface {
	PersonIsAdmin(ctx context.Context, personID uint64) (bool, error)
	PersonIsManager(ctx context.Context, personID uint64) (bool, error)
	PersonIsInEntity(ctx context.Context, personID, entityID uint64) (bool, error)
	PersonManagesEntity(ctx context.Context, personID, entityID uint64) (bool, error)
	EntityHasMembers(ctx context.Context, entityID uint64) (bool, error)
	EntityHasStoreLocations(ctx context.Context, entityID uint64) (bool, error)
	ProductHasStorages(ctx context.Context, productID uint64) (bool, error)
	StorageIsInEntity(ctx context.Context, storageID, entityID uint64) (bool, error)
	StoreLocationIsInEntity(ctx context.Context, storeLocationID, entityID uint64) (bool, error)
	StoreLocationHasChildren(ctx context.Context, storeLocationID uint64) (bool, error)
	StoreLocationHasStorages(ctx context.Context, storeLocationID uint64) (bool, error)
}

// predicate is a named boolean function exposed to policy rule
// expressions, with a fixed argument count.
type predicate struct {
	name  string
	arity int
	eval  func(ctx context.Context, store PredicateStore, ids []uint64) (bool, error)
}

// predicateTable lists every predicate callable from policy rules.
// Names are the identifiers rule expressions use.
var predicateTable = []predicate{
	{"person_is_admin", 1, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.PersonIsAdmin(ctx, ids[0])
	}},
	{"person_is_manager", 1, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.PersonIsManager(ctx, ids[0])
	}},
	{"person_is_in_entity", 2, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.PersonIsInEntity(ctx, ids[0], ids[1])
	}},
	{"person_manages_entity", 2, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.PersonManagesEntity(ctx, ids[0], ids[1])
	}},
	{"entity_has_members", 1, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.EntityHasMembers(ctx, ids[0])
	}},
	{"entity_has_store_locations", 1, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.EntityHasStoreLocations(ctx, ids[0])
	}},
	{"product_has_storages", 1, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.ProductHasStorages(ctx, ids[0])
	}},
	{"storage_is_in_entity", 2, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.StorageIsInEntity(ctx, ids[0], ids[1])
	}},
	{"store_location_is_in_entity", 2, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.StoreLocationIsInEntity(ctx, ids[0], ids[1])
	}},
	{"store_location_has_children", 1, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.StoreLocationHasChildren(ctx, ids[0])
	}},
	{"store_location_has_storages", 1, func(ctx context.Context, s PredicateStore, ids []uint64) (bool, error) {
		return s.StoreLocationHasStorages(ctx, ids[0])
	}},
}

// expressionFunction wraps a predicate for the rule evaluator. Every
// failure mode degrades to false rather than erroring out of the
// policy evaluation: a malformed identifier or a failing query must
// never turn into an accidental allow, and a single bad rule must not
// poison decisions on unrelated rules.
func expressionFunction(p predicate, store PredicateStore) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != p.arity {
			logging.Warn().
				Str("predicate", p.name).
				Int("want", p.arity).
				Int("got", len(args)).
				Msg("policy predicate called with wrong argument count")
			recordPredicateFailure(p.name, "arity")
			return false, nil
		}

		ids := make([]uint64, len(args))
		for i, arg := range args {
			id, err := coerceID(arg)
			if err != nil {
				logging.Warn().
					Str("predicate", p.name).
					Err(err).
					Msg("policy predicate argument coercion failed")
				recordPredicateFailure(p.name, "coercion")
				return false, nil
			}
			ids[i] = id
		}

		ok, err := p.eval(context.Background(), store, ids)
		if err != nil {
			logging.Error().
				Str("predicate", p.name).
				Err(err).
				Msg("policy predicate query failed")
			recordPredicateFailure(p.name, "query")
			return false, nil
		}

		recordPredicateEvaluation(p.name, ok)
		return ok, nil
	}
}

// coerceID converts a rule-expression value into an identifier. The
// evaluator hands over strings for quoted literals and request values
// and float64 for numeric literals.
func coerceID(arg interface{}) (uint64, error) {
	switch v := arg.(type) {
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not a valid identifier: %q", v)
		}
		return id, nil
	case float64:
		if v < 0 || v != math.Trunc(v) || v > math.MaxUint32 {
			return 0, fmt.Errorf("not a valid identifier: %v", v)
		}
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("not a valid identifier type: %T", arg)
	}
}
