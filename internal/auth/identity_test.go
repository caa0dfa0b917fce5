// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/chimitheque/chimitheque-api/internal/database"
	"github.com/chimitheque/chimitheque-api/internal/models"
)

// fakePersonStore resolves emails from a fixed map. Unknown emails
// return database.ErrNotFound; a set err fails every lookup.
type fakePersonStore struct {
	people map[string]*models.Person
	err    error
}

func (f *fakePersonStore) GetPersonByEmail(_ context.Context, email string) (*models.Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	person, ok := f.people[email]
	if !ok {
		return nil, database.ErrNotFound
	}
	return person, nil
}

func TestResolver_Resolve(t *testing.T) {
	store := &fakePersonStore{
		people: map[string]*models.Person{
			"jane@lab.example": {PersonID: 2, PersonEmail: "jane@lab.example"},
		},
	}

	tests := []struct {
		name    string
		store   *fakePersonStore
		email   string
		want    Identity
		wantErr error
	}{
		{
			name:  "known person",
			store: store,
			email: "jane@lab.example",
			want:  Identity{PersonID: 2, PersonEmail: "jane@lab.example"},
		},
		{
			name:    "unknown email",
			store:   store,
			email:   "stranger@lab.example",
			wantErr: ErrPersonNotFound,
		},
		{
			name:    "lookup failure",
			store:   &fakePersonStore{err: errors.New("db gone")},
			email:   "jane@lab.example",
			wantErr: errors.New("db gone"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(tt.store)
			got, err := resolver.Resolve(context.Background(), tt.email)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("Resolve() succeeded, want error")
				}
				if errors.Is(tt.wantErr, ErrPersonNotFound) && !errors.Is(err, ErrPersonNotFound) {
					t.Errorf("Resolve() error = %v, want ErrPersonNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolver_LookupFailureIsNotPersonNotFound(t *testing.T) {
	resolver := NewResolver(&fakePersonStore{err: errors.New("db gone")})
	_, err := resolver.Resolve(context.Background(), "jane@lab.example")
	if err == nil {
		t.Fatal("Resolve() succeeded, want error")
	}
	if errors.Is(err, ErrPersonNotFound) {
		t.Error("infrastructure failure must not look like a missing person")
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	id := Identity{PersonID: 42, PersonEmail: "jane@lab.example"}
	ctx := WithIdentity(context.Background(), id)

	got, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("IdentityFromContext() not found after WithIdentity()")
	}
	if got != id {
		t.Errorf("IdentityFromContext() = %+v, want %+v", got, id)
	}

	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("IdentityFromContext() found an identity in an empty context")
	}
}

func TestIdentity_IDString(t *testing.T) {
	tests := []struct {
		id   uint64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{18446744073709551615, "18446744073709551615"},
	}
	for _, tt := range tests {
		if got := (Identity{PersonID: tt.id}).IDString(); got != tt.want {
			t.Errorf("Identity{PersonID: %d}.IDString() = %q, want %q", tt.id, got, tt.want)
		}
	}
}
