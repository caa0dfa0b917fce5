// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecisionsTotal counts authorization decisions by resource,
	// action and outcome.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"resource", "action", "decision"}, // decision: "allowed", "denied", "error"
	)

	// DecisionDuration measures decision latency. Rule predicates hit
	// the database, so this spans query time too.
	DecisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "authz_decision_duration_seconds",
			Help:    "Duration of authorization decisions in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// RebuildsTotal counts policy rebuild attempts.
	RebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_rebuilds_total",
			Help: "Total number of authorization policy rebuilds",
		},
		[]string{"result"}, // "success", "failure"
	)

	// RebuildDuration measures the full rebuild, database reads included.
	RebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "authz_rebuild_duration_seconds",
			Help:    "Duration of authorization policy rebuilds in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// PolicyRulesTotal tracks the number of materialized policy rules.
	PolicyRulesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_policy_rules_total",
			Help: "Current number of materialized policy rules",
		},
	)

	// PredicateEvaluationsTotal counts rule predicate evaluations.
	PredicateEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_predicate_evaluations_total",
			Help: "Total number of policy predicate evaluations",
		},
		[]string{"predicate", "result"}, // "true", "false"
	)

	// PredicateFailuresTotal counts predicate evaluations that degraded
	// to false instead of answering.
	PredicateFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_predicate_failures_total",
			Help: "Total number of policy predicate evaluations degraded to false",
		},
		[]string{"predicate", "reason"}, // "arity", "coercion", "query"
	)
)

func recordDecision(resource, action, decision string, duration time.Duration) {
	DecisionsTotal.WithLabelValues(resource, action, decision).Inc()
	DecisionDuration.Observe(duration.Seconds())
}

func recordRebuild(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	RebuildsTotal.WithLabelValues(result).Inc()
	RebuildDuration.Observe(duration.Seconds())
}

func recordPredicateEvaluation(predicate string, result bool) {
	value := "false"
	if result {
		value = "true"
	}
	PredicateEvaluationsTotal.WithLabelValues(predicate, value).Inc()
}

func recordPredicateFailure(predicate, reason string) {
	PredicateFailuresTotal.WithLabelValues(predicate, reason).Inc()
}
