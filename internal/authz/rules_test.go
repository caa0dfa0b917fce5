// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package authz

import (
	"testing"

	"github.com/chimitheque/chimitheque-api/internal/models"
)

func containsRule(rules []Rule, want Rule) bool {
	for _, r := range rules {
		if r == want {
			return true
		}
	}
	return false
}

func TestMaterializeRules_BaselineAndGuardsAlwaysPresent(t *testing.T) {
	rules := materializeRules(nil, nil)

	baseline := len(baselineRules())
	guards := len(denyGuards())
	if len(rules) != baseline+guards {
		t.Fatalf("materializeRules(nil, nil) produced %d rules, want %d", len(rules), baseline+guards)
	}

	wantRules := []Rule{
		{"*", "*", "*", "person_is_admin(r.sub)", effectAllow},
		{"*", ActionRead, ResourceProducts, "true", effectAllow},
		{"*", ActionUpdate, ResourcePeople, `r.objid == r.sub`, effectAllow},
		{"*", ActionDelete, ResourcePeople, `r.objid == r.sub`, effectDeny},
	}
	for _, want := range wantRules {
		if !containsRule(rules, want) {
			t.Errorf("baseline rule set missing %+v", want)
		}
	}
}

func TestPermissionRules(t *testing.T) {
	tests := []struct {
		name      string
		perm      models.Permission
		wantCount int
		contains  []Rule
	}{
		{
			name:      "global all grant is one wildcard row",
			perm:      models.Permission{PersonID: 6, PermName: models.PermAll, PermItem: models.PermItemAll, EntityID: models.PermEntityAll},
			wantCount: 1,
			contains:  []Rule{{"6", "*", "*", "true", effectAllow}},
		},
		{
			name:      "read grant on one resource",
			perm:      models.Permission{PersonID: 4, PermName: models.PermRead, PermItem: ResourceProducts, EntityID: models.PermEntityAll},
			wantCount: 1,
			contains:  []Rule{{"4", ActionRead, ResourceProducts, "true", effectAllow}},
		},
		{
			name:      "write grant expands to all four actions",
			perm:      models.Permission{PersonID: 4, PermName: models.PermWrite, PermItem: ResourceStorages, EntityID: models.PermEntityAll},
			wantCount: 4,
			contains: []Rule{
				{"4", ActionRead, ResourceStorages, "true", effectAllow},
				{"4", ActionDelete, ResourceStorages, "true", effectAllow},
			},
		},
		{
			name:      "global write on all items spans everything",
			perm:      models.Permission{PersonID: 5, PermName: models.PermWrite, PermItem: models.PermItemAll, EntityID: models.PermEntityAll},
			wantCount: 4,
			contains:  []Rule{{"5", ActionUpdate, "*", "true", effectAllow}},
		},
		{
			name:      "entity scoped write on all items expands per resource",
			perm:      models.Permission{PersonID: 4, PermName: models.PermWrite, PermItem: models.PermItemAll, EntityID: 3},
			wantCount: len(entityScopedResources) * len(writeActions),
			contains: []Rule{
				{"4", ActionUpdate, ResourceStorages, `r.objid == "" || storage_is_in_entity(r.objid, "3")`, effectAllow},
				{"4", ActionCreate, ResourcePeople, `r.objid == "" || person_is_in_entity(r.objid, "3")`, effectAllow},
			},
		},
		{
			name:      "entity scoped read on one resource carries containment",
			perm:      models.Permission{PersonID: 9, PermName: models.PermRead, PermItem: ResourceStoreLocations, EntityID: 7},
			wantCount: 1,
			contains: []Rule{
				{"9", ActionRead, ResourceStoreLocations, `r.objid == "" || store_location_is_in_entity(r.objid, "7")`, effectAllow},
			},
		},
		{
			name:      "unrecognized permission name yields nothing",
			perm:      models.Permission{PersonID: 4, PermName: "x", PermItem: ResourceProducts, EntityID: models.PermEntityAll},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := permissionRules(tt.perm)
			if len(rules) != tt.wantCount {
				t.Fatalf("permissionRules(%+v) produced %d rules, want %d: %+v", tt.perm, len(rules), tt.wantCount, rules)
			}
			for _, want := range tt.contains {
				if !containsRule(rules, want) {
					t.Errorf("rule set missing %+v", want)
				}
			}
		})
	}
}

func TestManagerRules(t *testing.T) {
	rules := managerRules(8, 3)

	// Entity read and update plus full CRUD on three scoped resources.
	want := 2 + 3*len(writeActions)
	if len(rules) != want {
		t.Fatalf("managerRules(8, 3) produced %d rules, want %d", len(rules), want)
	}

	for _, wantRule := range []Rule{
		{"8", ActionUpdate, ResourceEntities, `r.objid == "" || r.objid == "3"`, effectAllow},
		{"8", ActionDelete, ResourcePeople, `r.objid == "" || person_is_in_entity(r.objid, "3")`, effectAllow},
		{"8", ActionCreate, ResourceStorages, `r.objid == "" || storage_is_in_entity(r.objid, "3")`, effectAllow},
	} {
		if !containsRule(rules, wantRule) {
			t.Errorf("manager rule set missing %+v", wantRule)
		}
	}

	if containsRule(rules, Rule{"8", ActionDelete, ResourceEntities, `r.objid == "" || r.objid == "3"`, effectAllow}) {
		t.Error("managers must not be granted entity deletion")
	}
}

func TestMaterializeRules_ManagerOrderingIsStable(t *testing.T) {
	managers := map[uint64][]uint64{5: {11}, 2: {10}}
	rules := materializeRules(nil, managers)

	first, second := -1, -1
	for i, r := range rules {
		if r.Sub == "10" && first == -1 {
			first = i
		}
		if r.Sub == "11" && second == -1 {
			second = i
		}
	}
	if first == -1 || second == -1 {
		t.Fatal("manager rules missing from materialized set")
	}
	if first > second {
		t.Errorf("manager rules not ordered by entity id: sub 10 at %d, sub 11 at %d", first, second)
	}
}

func TestContainmentExpr(t *testing.T) {
	tests := []struct {
		obj  string
		want string
	}{
		{ResourceEntities, `r.objid == "" || r.objid == "3"`},
		{ResourcePeople, `r.objid == "" || person_is_in_entity(r.objid, "3")`},
		{ResourceStoreLocations, `r.objid == "" || store_location_is_in_entity(r.objid, "3")`},
		{ResourceStorages, `r.objid == "" || storage_is_in_entity(r.objid, "3")`},
		{ResourceProducts, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.obj, func(t *testing.T) {
			if got := containmentExpr(tt.obj, 3); got != tt.want {
				t.Errorf("containmentExpr(%q, 3) = %q, want %q", tt.obj, got, tt.want)
			}
		})
	}
}

func TestActionForMethod(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"GET", ActionRead},
		{"POST", ActionCreate},
		{"PUT", ActionUpdate},
		{"DELETE", ActionDelete},
		{"PATCH", ActionUnknown},
		{"OPTIONS", ActionUnknown},
		{"", ActionUnknown},
	}

	for _, tt := range tests {
		if got := actionForMethod(tt.method); got != tt.want {
			t.Errorf("actionForMethod(%q) = %q, want %q", tt.method, got, tt.want)
		}
	}
}
