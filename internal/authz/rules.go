// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package authz

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/chimitheque/chimitheque-api/internal/models"
)

// Request actions, derived from the HTTP method of the incoming request.
const (
	ActionRead    = "r"
	ActionCreate  = "c"
	ActionUpdate  = "u"
	ActionDelete  = "d"
	ActionUnknown = "unknown"
)

// Resource names as they appear in request paths and policy rules.
const (
	ResourceEntities       = "entities"
	ResourcePeople         = "people"
	ResourceProducts       = "products"
	ResourceStorages       = "storages"
	ResourceStoreLocations = "store_locations"
	ResourceBookmarks      = "bookmarks"
	ResourceBorrowings     = "borrowings"
)

// Rule is one materialized policy line: who may do what on which
// resource, guarded by a boolean rule expression.
type Rule struct {
	Sub    string
	Act    string
	Obj    string
	Expr   string
	Effect string
}

const (
	effectAllow = "allow"
	effectDeny  = "deny"
)

// writeActions are what a write-level grant expands to. A write grant
// implies read.
var writeActions = []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

// entityScopedResources are the resources whose records belong to an
// entity and therefore take containment guards on scoped grants.
var entityScopedResources = []string{
	ResourceEntities,
	ResourcePeople,
	ResourceStoreLocations,
	ResourceStorages,
}

// materializeRules turns persisted grants and manager relations into
// the policy rule set the enforcer evaluates. Baseline rules every
// authenticated person gets and structural deny guards are emitted
// unconditionally.
func materializeRules(permissions []models.Permission, managers map[uint64][]uint64) []Rule {
	rules := baselineRules()
	rules = append(rules, denyGuards()...)

	for _, perm := range permissions {
		rules = append(rules, permissionRules(perm)...)
	}

	entityIDs := make([]uint64, 0, len(managers))
	for entityID := range managers {
		entityIDs = append(entityIDs, entityID)
	}
	sort.Slice(entityIDs, func(i, j int) bool { return entityIDs[i] < entityIDs[j] })

	for _, entityID := range entityIDs {
		for _, managerID := range managers[entityID] {
			rules = append(rules, managerRules(managerID, entityID)...)
		}
	}

	return rules
}

// baselineRules are granted to every authenticated person: read
// products, read the entities they belong to, read and update their
// own person record, and manage their own bookmarks and borrowings.
// List queries scope their results to the caller in the storage layer,
// so an empty object id passes here.
func baselineRules() []Rule {
	return []Rule{
		{"*", "*", "*", "person_is_admin(r.sub)", effectAllow},
		{"*", ActionRead, ResourceProducts, "true", effectAllow},
		{"*", ActionCreate, ResourceProducts, "true", effectAllow},
		{"*", ActionRead, ResourceEntities, `r.objid == "" || person_is_in_entity(r.sub, r.objid)`, effectAllow},
		{"*", ActionRead, ResourcePeople, `r.objid == "" || r.objid == r.sub`, effectAllow},
		{"*", ActionUpdate, ResourcePeople, `r.objid == r.sub`, effectAllow},
		{"*", "*", ResourceBookmarks, "true", effectAllow},
		{"*", "*", ResourceBorrowings, "true", effectAllow},
	}
}

// denyGuards protect referential integrity regardless of who asks:
// records still referenced by other records cannot be deleted, people
// cannot delete themselves, and managers must be demoted before they
// can be removed.
func denyGuards() []Rule {
	return []Rule{
		{"*", ActionDelete, ResourceEntities,
			`r.objid != "" && (entity_has_members(r.objid) || entity_has_store_locations(r.objid))`, effectDeny},
		{"*", ActionDelete, ResourceProducts,
			`r.objid != "" && product_has_storages(r.objid)`, effectDeny},
		{"*", ActionDelete, ResourceStoreLocations,
			`r.objid != "" && (store_location_has_children(r.objid) || store_location_has_storages(r.objid))`, effectDeny},
		{"*", ActionDelete, ResourcePeople,
			`r.objid != "" && person_is_manager(r.objid)`, effectDeny},
		{"*", ActionDelete, ResourcePeople, `r.objid == r.sub`, effectDeny},
	}
}

// permissionRules expands one persisted grant. An all/all/global row is
// an administrator: everything, everywhere.
func permissionRules(perm models.Permission) []Rule {
	sub := strconv.FormatUint(perm.PersonID, 10)

	if perm.PermName == models.PermAll && perm.PermItem == models.PermItemAll && perm.EntityID == models.PermEntityAll {
		return []Rule{{sub, "*", "*", "true", effectAllow}}
	}

	var acts []string
	switch perm.PermName {
	case models.PermRead:
		acts = []string{ActionRead}
	case models.PermWrite, models.PermAll:
		acts = writeActions
	default:
		return nil
	}

	var objs []string
	if perm.PermItem == models.PermItemAll {
		if perm.EntityID == models.PermEntityAll {
			objs = []string{"*"}
		} else {
			objs = entityScopedResources
		}
	} else {
		objs = []string{perm.PermItem}
	}

	rules := make([]Rule, 0, len(acts)*len(objs))
	for _, obj := range objs {
		expr := "true"
		if perm.EntityID != models.PermEntityAll {
			expr = containmentExpr(obj, uint64(perm.EntityID))
		}
		for _, act := range acts {
			rules = append(rules, Rule{sub, act, obj, expr, effectAllow})
		}
	}
	return rules
}

// managerRules grant an entity manager full control over the records
// of the entity: the entity itself (except deletion), its members,
// its store locations and the storages within them.
func managerRules(managerID, entityID uint64) []Rule {
	sub := strconv.FormatUint(managerID, 10)

	rules := []Rule{
		{sub, ActionRead, ResourceEntities, containmentExpr(ResourceEntities, entityID), effectAllow},
		{sub, ActionUpdate, ResourceEntities, containmentExpr(ResourceEntities, entityID), effectAllow},
	}
	for _, obj := range []string{ResourcePeople, ResourceStoreLocations, ResourceStorages} {
		expr := containmentExpr(obj, entityID)
		for _, act := range writeActions {
			rules = append(rules, Rule{sub, act, obj, expr, effectAllow})
		}
	}
	return rules
}

// containmentExpr builds the guard that scopes a grant to one entity.
// An empty object id means a list or create request; those pass the
// guard and are scoped by the storage layer instead.
func containmentExpr(obj string, entityID uint64) string {
	id := strconv.FormatUint(entityID, 10)
	switch obj {
	case ResourceEntities:
		return fmt.Sprintf(`r.objid == "" || r.objid == "%s"`, id)
	case ResourcePeople:
		return fmt.Sprintf(`r.objid == "" || person_is_in_entity(r.objid, "%s")`, id)
	case ResourceStoreLocations:
		return fmt.Sprintf(`r.objid == "" || store_location_is_in_entity(r.objid, "%s")`, id)
	case ResourceStorages:
		return fmt.Sprintf(`r.objid == "" || storage_is_in_entity(r.objid, "%s")`, id)
	default:
		// Resources without an entity dimension take the grant globally.
		return "true"
	}
}

// actionForMethod maps an HTTP method onto a policy action. Unknown
// methods map to an action no rule grants.
func actionForMethod(method string) string {
	switch method {
	case "GET":
		return ActionRead
	case "POST":
		return ActionCreate
	case "PUT":
		return ActionUpdate
	case "DELETE":
		return ActionDelete
	default:
		return ActionUnknown
	}
}
