// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package auth

import "errors"

// Authentication errors. Lower layers return these typed errors; the
// middleware converts them to HTTP responses.
var (
	// ErrBearerTokenMissing indicates no Authorization: Bearer header.
	ErrBearerTokenMissing = errors.New("bearer token missing")

	// ErrKIDMissing indicates the token header carries no key identifier.
	ErrKIDMissing = errors.New("token header missing kid")

	// ErrTokenHeaderDecode indicates a malformed token header.
	ErrTokenHeaderDecode = errors.New("failed to decode token header")

	// ErrKeyNotFoundInCache indicates the signing key is unknown even
	// after a forced cache refresh.
	ErrKeyNotFoundInCache = errors.New("signing key not found in cache")

	// ErrKeyFetchFailed indicates the certificate endpoint could not be
	// reached or returned garbage.
	ErrKeyFetchFailed = errors.New("failed to fetch signing keys")

	// ErrClaimsDecoding indicates signature, issuer, audience or
	// time-bound claim validation failed.
	ErrClaimsDecoding = errors.New("failed to validate token claims")

	// ErrMissingEmailInClaims indicates the verified token carries no
	// email claim.
	ErrMissingEmailInClaims = errors.New("missing email in claims")

	// ErrPersonNotFound indicates the verified email matches no internal
	// actor. Resolution fails closed; there is no guest identity.
	ErrPersonNotFound = errors.New("person not found")

	// ErrPersonIDMissing indicates the resolved identity is absent from
	// the request at enforcement time.
	ErrPersonIDMissing = errors.New("person id missing from request")
)
