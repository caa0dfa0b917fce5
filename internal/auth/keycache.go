// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

// Package auth implements the request authorization pipeline up to policy
// enforcement: signing-key caching, bearer token verification and
// identity resolution.
package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/chimitheque/chimitheque-api/internal/logging"
)

// defaultKeyTTL is the staleness threshold after which the key set is
// refetched from the identity provider.
const defaultKeyTTL = 10 * time.Minute

// KeyCache caches the identity provider's public signing keys, keyed by
// key identifier. It is shared by all concurrent requests: reads are
// concurrent, the fetch-and-swap path is exclusive. The key collection
// is always replaced wholesale, never mutated key by key.
type KeyCache struct {
	certsURL   string
	httpClient *http.Client
	ttl        time.Duration

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

// NewKeyCache creates a key cache for the given certificate endpoint.
// The cache starts empty; the first verification populates it.
func NewKeyCache(certsURL string, client *http.Client, ttl time.Duration) *KeyCache {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if ttl == 0 {
		ttl = defaultKeyTTL
	}
	return &KeyCache{
		certsURL:   certsURL,
		httpClient: client,
		ttl:        ttl,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// GetKey retrieves a key by ID. On a miss, or when the cached set is
// older than the staleness threshold, it performs one synchronous
// refresh before giving up. A failed refresh still serves key IDs
// already loaded; unknown key IDs fail rather than fall back to an
// unverifiable state.
func (c *KeyCache) GetKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	stale := time.Since(c.fetched) > c.ttl
	c.mu.RUnlock()

	if ok && !stale {
		return key, nil
	}

	keys, err := c.refreshKeys(ctx)
	if err != nil {
		if ok {
			// Stale but known key: keep verifying with it.
			return key, nil
		}
		return nil, err
	}

	key, ok = keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFoundInCache, kid)
	}
	return key, nil
}

// EnsureFresh refreshes the key set if it is empty or stale. Called at
// startup to surface identity-provider misconfiguration early.
func (c *KeyCache) EnsureFresh(ctx context.Context) error {
	c.mu.RLock()
	stale := time.Since(c.fetched) > c.ttl || len(c.keys) == 0
	c.mu.RUnlock()

	if !stale {
		return nil
	}
	_, err := c.refreshKeys(ctx)
	return err
}

// refreshKeys fetches the full key set and swaps it in. The write lock is
// held for the duration of the fetch so that concurrent first callers
// trigger exactly one upstream request: losers of the lock race see the
// fresh set in the double-check and return without fetching.
func (c *KeyCache) refreshKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.fetched) < c.ttl && len(c.keys) > 0 {
		return c.keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.certsURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordKeyRefresh(false)
		return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		recordKeyRefresh(false)
		return nil, fmt.Errorf("%w: certs endpoint returned status %d", ErrKeyFetchFailed, resp.StatusCode)
	}

	var jwks struct {
		Keys []struct {
			Kty string `json:"kty"`
			Kid string `json:"kid"`
			Alg string `json:"alg"`
			Use string `json:"use"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		recordKeyRefresh(false)
		return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, key := range jwks.Keys {
		if key.Kty != "RSA" {
			continue
		}

		nBytes, err := base64URLDecode(key.N)
		if err != nil {
			logging.Warn().Str("kid", key.Kid).Msg("Skipping key with undecodable modulus")
			continue
		}
		eBytes, err := base64URLDecode(key.E)
		if err != nil {
			logging.Warn().Str("kid", key.Kid).Msg("Skipping key with undecodable exponent")
			continue
		}

		e := 0
		for _, b := range eBytes {
			e = e<<8 + int(b)
		}

		keys[key.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: e,
		}
	}

	c.keys = keys
	c.fetched = time.Now()
	recordKeyRefresh(true)
	KeysCached.Set(float64(len(keys)))

	return c.keys, nil
}

// base64URLDecode decodes a base64url string, tolerating missing padding.
func base64URLDecode(s string) ([]byte, error) {
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
