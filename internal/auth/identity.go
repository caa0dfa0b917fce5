// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/chimitheque/chimitheque-api/internal/database"
	"github.com/chimitheque/chimitheque-api/internal/models"
)

// Identity is the resolved internal actor behind a verified token.
type Identity struct {
	PersonID    uint64
	PersonEmail string
}

// IDString returns the person identifier as a decimal string, suitable
// for propagation headers.
func (i Identity) IDString() string {
	return strconv.FormatUint(i.PersonID, 10)
}

type identityContextKey struct{}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the resolved identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// PersonGetter looks up a person record by email address.
type PersonGetter interface {
	GetPersonByEmail(ctx context.Context, email string) (*models.Person, error)
}

// Resolver maps verified token claims onto internal person records.
type Resolver struct {
	people PersonGetter
}

// NewResolver creates an identity resolver over the given person store.
func NewResolver(people PersonGetter) *Resolver {
	return &Resolver{people: people}
}

// Resolve looks up the internal actor for the email asserted by a
// verified token. A valid token for an unknown email yields
// ErrPersonNotFound: authentication succeeded upstream but the actor
// does not exist here.
func (r *Resolver) Resolve(ctx context.Context, email string) (Identity, error) {
	person, err := r.people.GetPersonByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			recordIdentityResolution("not_found")
			return Identity{}, fmt.Errorf("%w: %s", ErrPersonNotFound, email)
		}
		recordIdentityResolution("error")
		return Identity{}, fmt.Errorf("resolving identity for %s: %w", email, err)
	}

	recordIdentityResolution("success")

	return Identity{
		PersonID:    person.PersonID,
		PersonEmail: person.PersonEmail,
	}, nil
}
