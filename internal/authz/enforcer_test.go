// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/chimitheque/chimitheque-api/internal/models"
)

// fakeRuleStore is an in-memory RuleStore. Relations are plain maps;
// queryErr, when set, fails every predicate query.
type fakeRuleStore struct {
	permissions []models.Permission
	managers    map[uint64][]uint64

	admins         map[uint64]bool
	memberOf       map[uint64][]uint64 // person -> entities
	managerOf      map[uint64][]uint64 // person -> entities
	entityMembers  map[uint64]bool
	entityLocs     map[uint64]bool
	productStored  map[uint64]bool
	storageEntity  map[uint64]uint64
	locationEntity map[uint64]uint64
	locChildren    map[uint64]bool
	locStorages    map[uint64]bool

	permissionsErr error
	managersErr    error
	queryErr       error
}

func (f *fakeRuleStore) GetPermissions(_ context.Context) ([]models.Permission, error) {
	return f.permissions, f.permissionsErr
}

func (f *fakeRuleStore) GetManagers(_ context.Context) (map[uint64][]uint64, error) {
	return f.managers, f.managersErr
}

func (f *fakeRuleStore) PersonIsAdmin(_ context.Context, personID uint64) (bool, error) {
	return f.admins[personID], f.queryErr
}

func (f *fakeRuleStore) PersonIsManager(_ context.Context, personID uint64) (bool, error) {
	return len(f.managerOf[personID]) > 0, f.queryErr
}

func (f *fakeRuleStore) PersonIsInEntity(_ context.Context, personID, entityID uint64) (bool, error) {
	for _, e := range f.memberOf[personID] {
		if e == entityID {
			return true, f.queryErr
		}
	}
	return false, f.queryErr
}

func (f *fakeRuleStore) PersonManagesEntity(_ context.Context, personID, entityID uint64) (bool, error) {
	for _, e := range f.managerOf[personID] {
		if e == entityID {
			return true, f.queryErr
		}
	}
	return false, f.queryErr
}

func (f *fakeRuleStore) EntityHasMembers(_ context.Context, entityID uint64) (bool, error) {
	return f.entityMembers[entityID], f.queryErr
}

func (f *fakeRuleStore) EntityHasStoreLocations(_ context.Context, entityID uint64) (bool, error) {
	return f.entityLocs[entityID], f.queryErr
}

func (f *fakeRuleStore) ProductHasStorages(_ context.Context, productID uint64) (bool, error) {
	return f.productStored[productID], f.queryErr
}

func (f *fakeRuleStore) StorageIsInEntity(_ context.Context, storageID, entityID uint64) (bool, error) {
	return f.storageEntity[storageID] == entityID, f.queryErr
}

func (f *fakeRuleStore) StoreLocationIsInEntity(_ context.Context, storeLocationID, entityID uint64) (bool, error) {
	return f.locationEntity[storeLocationID] == entityID, f.queryErr
}

func (f *fakeRuleStore) StoreLocationHasChildren(_ context.Context, storeLocationID uint64) (bool, error) {
	return f.locChildren[storeLocationID], f.queryErr
}

func (f *fakeRuleStore) StoreLocationHasStorages(_ context.Context, storeLocationID uint64) (bool, error) {
	return f.locStorages[storeLocationID], f.queryErr
}

func mustRebuild(t *testing.T, e *Enforcer) {
	t.Helper()
	if err := e.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
}

func TestEnforcer_NotReadyBeforeFirstBuild(t *testing.T) {
	e := NewEnforcer(&fakeRuleStore{})

	if got := e.State(); got != StateUninitialized {
		t.Errorf("State() = %v, want %v", got, StateUninitialized)
	}

	_, err := e.Enforce("1", ActionRead, ResourceProducts, "")
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("Enforce() before build error = %v, want ErrNotReady", err)
	}
}

func TestEnforcer_RebuildFailureLeavesUninitialized(t *testing.T) {
	store := &fakeRuleStore{permissionsErr: errors.New("db gone")}
	e := NewEnforcer(store)

	if err := e.Rebuild(context.Background()); err == nil {
		t.Fatal("Rebuild() with failing store succeeded, want error")
	}
	if got := e.State(); got != StateUninitialized {
		t.Errorf("State() after failed first build = %v, want %v", got, StateUninitialized)
	}
}

func TestEnforcer_RebuildFailureKeepsPreviousPolicy(t *testing.T) {
	store := &fakeRuleStore{}
	e := NewEnforcer(store)
	mustRebuild(t, e)

	store.managersErr = errors.New("db gone")
	if err := e.Rebuild(context.Background()); err == nil {
		t.Fatal("Rebuild() with failing store succeeded, want error")
	}

	if got := e.State(); got != StateReady {
		t.Errorf("State() after failed rebuild = %v, want %v", got, StateReady)
	}
	allowed, err := e.Enforce("1", ActionRead, ResourceProducts, "")
	if err != nil {
		t.Fatalf("Enforce() after failed rebuild error = %v", err)
	}
	if !allowed {
		t.Error("previous policy no longer answering after failed rebuild")
	}
}

func TestEnforcer_BaselineDecisions(t *testing.T) {
	store := &fakeRuleStore{
		memberOf: map[uint64][]uint64{2: {3}},
	}
	e := NewEnforcer(store)
	mustRebuild(t, e)

	tests := []struct {
		name string
		sub  string
		act  string
		obj  string
		id   string
		want bool
	}{
		{"anyone reads products", "2", ActionRead, ResourceProducts, "", true},
		{"anyone creates products", "2", ActionCreate, ResourceProducts, "", true},
		{"nobody deletes products without grant", "2", ActionDelete, ResourceProducts, "1", false},
		{"member reads own entity", "2", ActionRead, ResourceEntities, "3", true},
		{"member cannot read foreign entity", "2", ActionRead, ResourceEntities, "4", false},
		{"entity list passes", "2", ActionRead, ResourceEntities, "", true},
		{"self read", "2", ActionRead, ResourcePeople, "2", true},
		{"self update", "2", ActionUpdate, ResourcePeople, "2", true},
		{"cannot update another person", "2", ActionUpdate, ResourcePeople, "9", false},
		{"people list passes", "2", ActionRead, ResourcePeople, "", true},
		{"bookmarks fully open", "2", ActionDelete, ResourceBookmarks, "7", true},
		{"borrowings fully open", "2", ActionCreate, ResourceBorrowings, "", true},
		{"unknown action denied", "2", ActionUnknown, ResourceProducts, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Enforce(tt.sub, tt.act, tt.obj, tt.id)
			if err != nil {
				t.Fatalf("Enforce(%q, %q, %q, %q) error = %v", tt.sub, tt.act, tt.obj, tt.id, err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%q, %q, %q, %q) = %v, want %v", tt.sub, tt.act, tt.obj, tt.id, got, tt.want)
			}
		})
	}
}

func TestEnforcer_AdminOverrideAndDenyGuards(t *testing.T) {
	store := &fakeRuleStore{
		admins:        map[uint64]bool{1: true},
		entityMembers: map[uint64]bool{5: true},
		productStored: map[uint64]bool{20: true},
		locChildren:   map[uint64]bool{30: true},
		managerOf:     map[uint64][]uint64{8: {3}},
	}
	e := NewEnforcer(store)
	mustRebuild(t, e)

	tests := []struct {
		name string
		sub  string
		act  string
		obj  string
		id   string
		want bool
	}{
		{"admin deletes empty entity", "1", ActionDelete, ResourceEntities, "6", true},
		{"entity with members protected even from admin", "1", ActionDelete, ResourceEntities, "5", false},
		{"stored product protected", "1", ActionDelete, ResourceProducts, "20", false},
		{"unused product deletable", "1", ActionDelete, ResourceProducts, "21", true},
		{"store location with children protected", "1", ActionDelete, ResourceStoreLocations, "30", false},
		{"leaf store location deletable", "1", ActionDelete, ResourceStoreLocations, "31", true},
		{"manager must be demoted before deletion", "1", ActionDelete, ResourcePeople, "8", false},
		{"regular person deletable", "1", ActionDelete, ResourcePeople, "9", true},
		{"no self deletion", "1", ActionDelete, ResourcePeople, "1", false},
		{"admin updates anyone", "1", ActionUpdate, ResourcePeople, "9", true},
		{"non admin has no override", "2", ActionDelete, ResourceEntities, "6", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Enforce(tt.sub, tt.act, tt.obj, tt.id)
			if err != nil {
				t.Fatalf("Enforce(%q, %q, %q, %q) error = %v", tt.sub, tt.act, tt.obj, tt.id, err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%q, %q, %q, %q) = %v, want %v", tt.sub, tt.act, tt.obj, tt.id, got, tt.want)
			}
		})
	}
}

func TestEnforcer_ScopedGrantsAndManagers(t *testing.T) {
	store := &fakeRuleStore{
		permissions: []models.Permission{
			{PersonID: 4, PermName: models.PermWrite, PermItem: ResourceStorages, EntityID: 3},
			{PersonID: 6, PermName: models.PermAll, PermItem: models.PermItemAll, EntityID: models.PermEntityAll},
		},
		managers:       map[uint64][]uint64{3: {8}},
		memberOf:       map[uint64][]uint64{2: {3}},
		managerOf:      map[uint64][]uint64{8: {3}},
		storageEntity:  map[uint64]uint64{10: 3, 11: 9},
		locationEntity: map[uint64]uint64{40: 3},
	}
	e := NewEnforcer(store)
	mustRebuild(t, e)

	tests := []struct {
		name string
		sub  string
		act  string
		obj  string
		id   string
		want bool
	}{
		{"scoped grant covers storage in entity", "4", ActionUpdate, ResourceStorages, "10", true},
		{"scoped grant excludes foreign storage", "4", ActionUpdate, ResourceStorages, "11", false},
		{"scoped grant allows create", "4", ActionCreate, ResourceStorages, "", true},
		{"scoped grant implies read", "4", ActionRead, ResourceStorages, "10", true},
		{"scoped grant stays on its resource", "4", ActionUpdate, ResourceStoreLocations, "40", false},
		{"global all grant reaches everything", "6", ActionDelete, ResourceStoreLocations, "41", true},
		{"manager updates managed entity", "8", ActionUpdate, ResourceEntities, "3", true},
		{"manager cannot delete managed entity", "8", ActionDelete, ResourceEntities, "3", false},
		{"manager edits member of managed entity", "8", ActionUpdate, ResourcePeople, "2", true},
		{"manager cannot edit outsider", "8", ActionUpdate, ResourcePeople, "9", false},
		{"manager controls storages in managed entity", "8", ActionDelete, ResourceStorages, "10", true},
		{"manager excluded from foreign storages", "8", ActionDelete, ResourceStorages, "11", false},
		{"manager controls store locations in managed entity", "8", ActionUpdate, ResourceStoreLocations, "40", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Enforce(tt.sub, tt.act, tt.obj, tt.id)
			if err != nil {
				t.Fatalf("Enforce(%q, %q, %q, %q) error = %v", tt.sub, tt.act, tt.obj, tt.id, err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%q, %q, %q, %q) = %v, want %v", tt.sub, tt.act, tt.obj, tt.id, got, tt.want)
			}
		})
	}
}

func TestEnforcer_PredicateQueryFailureDeniesScopedGrant(t *testing.T) {
	store := &fakeRuleStore{
		permissions: []models.Permission{
			{PersonID: 4, PermName: models.PermWrite, PermItem: ResourceStorages, EntityID: 3},
		},
		storageEntity: map[uint64]uint64{10: 3},
	}
	e := NewEnforcer(store)
	mustRebuild(t, e)

	store.queryErr = errors.New("db gone")

	allowed, err := e.Enforce("4", ActionUpdate, ResourceStorages, "10")
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if allowed {
		t.Error("failing predicate query must degrade to a denial")
	}
}

func TestEnforcer_RebuildPicksUpNewGrants(t *testing.T) {
	store := &fakeRuleStore{}
	e := NewEnforcer(store)
	mustRebuild(t, e)

	allowed, err := e.Enforce("4", ActionDelete, ResourceProducts, "1")
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if allowed {
		t.Fatal("grant visible before it was persisted")
	}

	store.permissions = []models.Permission{
		{PersonID: 4, PermName: models.PermWrite, PermItem: ResourceProducts, EntityID: models.PermEntityAll},
	}
	mustRebuild(t, e)

	allowed, err = e.Enforce("4", ActionDelete, ResourceProducts, "1")
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if !allowed {
		t.Error("grant not visible after rebuild")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateBuilding, "building"},
		{StateReady, "ready"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
