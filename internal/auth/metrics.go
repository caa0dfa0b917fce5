// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokenVerifications counts bearer token verification attempts.
	// Labels:
	//   - outcome: "success", "failure"
	TokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_total",
			Help: "Total number of bearer token verification attempts",
		},
		[]string{"outcome"},
	)

	// TokenVerificationDuration measures token verification latency,
	// including any key cache refresh it triggers.
	TokenVerificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_token_verification_duration_seconds",
			Help:    "Duration of bearer token verification in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)

	// KeyRefreshes counts signing key cache refresh attempts against
	// the identity provider's JWKS endpoint.
	KeyRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_key_refreshes_total",
			Help: "Total number of signing key cache refresh attempts",
		},
		[]string{"outcome"},
	)

	// KeysCached tracks the number of signing keys currently cached.
	KeysCached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_keys_cached",
			Help: "Current number of identity provider signing keys cached",
		},
	)

	// IdentityResolutions counts email-to-person resolution attempts.
	// Labels:
	//   - outcome: "success", "not_found", "error"
	IdentityResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_identity_resolutions_total",
			Help: "Total number of identity resolution attempts",
		},
		[]string{"outcome"},
	)
)

func recordVerification(outcome string, duration time.Duration) {
	TokenVerifications.WithLabelValues(outcome).Inc()
	TokenVerificationDuration.Observe(duration.Seconds())
}

func recordKeyRefresh(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	KeyRefreshes.WithLabelValues(outcome).Inc()
}

func recordIdentityResolution(outcome string) {
	IdentityResolutions.WithLabelValues(outcome).Inc()
}
