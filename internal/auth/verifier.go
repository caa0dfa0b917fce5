// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the verified assertions extracted from a bearer token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenVerifier validates bearer tokens against the identity provider's
// signing keys, issuer and audience.
type TokenVerifier struct {
	keys     *KeyCache
	issuer   string
	clientID string
}

// NewTokenVerifier creates a verifier for the given realm issuer URL and
// client identifier.
func NewTokenVerifier(keys *KeyCache, issuer, clientID string) *TokenVerifier {
	return &TokenVerifier{
		keys:     keys,
		issuer:   issuer,
		clientID: clientID,
	}
}

// VerifyRequest extracts the bearer token from the Authorization header
// and verifies it.
func (v *TokenVerifier) VerifyRequest(ctx context.Context, r *http.Request) (*Claims, error) {
	tokenStr := extractBearerToken(r)
	if tokenStr == "" {
		return nil, ErrBearerTokenMissing
	}
	return v.Verify(ctx, tokenStr)
}

// Verify validates the token's signature (RS256 only), issuer, audience
// and time-bound claims, then requires a non-empty email claim. An
// unknown key identifier triggers exactly one key cache refresh via
// KeyCache.GetKey before failing.
func (v *TokenVerifier) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	start := time.Now()

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrClaimsDecoding, token.Header["alg"])
		}

		kidVal, ok := token.Header["kid"]
		if !ok {
			return nil, ErrKIDMissing
		}
		kid, ok := kidVal.(string)
		if !ok || kid == "" {
			return nil, ErrKIDMissing
		}

		return v.keys.GetKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.clientID),
	)
	if err != nil {
		recordVerification("failure", time.Since(start))
		return nil, classifyParseError(err)
	}

	if claims.Email == "" {
		recordVerification("failure", time.Since(start))
		return nil, ErrMissingEmailInClaims
	}

	recordVerification("success", time.Since(start))
	return claims, nil
}

// classifyParseError maps golang-jwt errors onto the package's typed
// errors so the middleware can pick response codes.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, ErrKIDMissing),
		errors.Is(err, ErrKeyNotFoundInCache),
		errors.Is(err, ErrKeyFetchFailed):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenHeaderDecode, err)
	default:
		return fmt.Errorf("%w: %v", ErrClaimsDecoding, err)
	}
}

// extractBearerToken pulls the token from the Authorization header.
// Returns empty string when the header is absent or not a Bearer scheme.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
