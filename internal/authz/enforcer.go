// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

// Package authz implements policy enforcement for the API. Persisted
// grants and manager relations are materialized into Casbin policy
// rules whose guard expressions call database-backed predicates; any
// change to grants or entity management requires a rebuild.
package authz

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/chimitheque/chimitheque-api/internal/logging"
	"github.com/chimitheque/chimitheque-api/internal/models"
)

//go:embed model.conf
var embeddedModel string

// State describes the enforcer lifecycle. The enforcer starts
// uninitialized and only answers requests once a build has succeeded.
type State int

const (
	StateUninitialized State = iota
	StateBuilding
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// ErrNotReady is returned by Enforce before the first successful
// build. Callers must treat it as a denial.
var ErrNotReady = errors.New("authorization enforcer not ready")

// RuleStore is the database surface the enforcer reads at build time,
// on top of what the rule predicates query.
type RuleStore interface {
	PredicateStore
	GetPermissions(ctx context.Context) ([]models.Permission, error)
	GetManagers(ctx context.Context) (map[uint64][]uint64, error)
}

// Enforcer answers authorization requests against the materialized
// policy. Decisions are serialized: rule predicates hit the database
// and the underlying evaluator is not safe for concurrent use.
type Enforcer struct {
	store RuleStore

	mu       sync.Mutex
	state    State
	enforcer *casbin.Enforcer
}

// NewEnforcer creates an enforcer over the given store. It starts
// uninitialized; call Rebuild before serving requests.
func NewEnforcer(store RuleStore) *Enforcer {
	return &Enforcer{store: store}
}

// State reports the current lifecycle state.
func (e *Enforcer) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Rebuild reads grants and manager relations from the store, builds a
// fresh policy set and swaps it in. Database reads and construction
// happen outside the decision lock; requests keep being answered
// against the previous policy until the swap. On failure the previous
// policy stays in place.
func (e *Enforcer) Rebuild(ctx context.Context) error {
	start := time.Now()

	e.mu.Lock()
	if e.state == StateUninitialized {
		e.state = StateBuilding
	}
	e.mu.Unlock()

	enforcer, ruleCount, err := e.build(ctx)
	if err != nil {
		recordRebuild(false, time.Since(start))
		e.mu.Lock()
		if e.enforcer == nil {
			e.state = StateUninitialized
		}
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	e.enforcer = enforcer
	e.state = StateReady
	e.mu.Unlock()

	recordRebuild(true, time.Since(start))
	PolicyRulesTotal.Set(float64(ruleCount))
	logging.Debug().
		Int("rules", ruleCount).
		Dur("duration", time.Since(start)).
		Msg("authorization policy rebuilt")

	return nil
}

func (e *Enforcer) build(ctx context.Context) (*casbin.Enforcer, int, error) {
	permissions, err := e.store.GetPermissions(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load permissions: %w", err)
	}

	managers, err := e.store.GetManagers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load managers: %w", err)
	}

	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load policy model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create enforcer: %w", err)
	}

	for _, p := range predicateTable {
		enforcer.AddFunction(p.name, expressionFunction(p, e.store))
	}

	rules := materializeRules(permissions, managers)
	for _, rule := range rules {
		if _, err := enforcer.AddPolicy(rule.Sub, rule.Act, rule.Obj, rule.Expr, rule.Effect); err != nil {
			return nil, 0, fmt.Errorf("failed to add policy rule %v: %w", rule, err)
		}
	}

	return enforcer, len(rules), nil
}

// Enforce decides whether the subject may perform the action on the
// resource, optionally scoped to one record. It fails closed: before
// the first successful build every request errors with ErrNotReady.
func (e *Enforcer) Enforce(sub, act, obj, objid string) (bool, error) {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady {
		recordDecision(obj, act, "error", time.Since(start))
		return false, ErrNotReady
	}

	allowed, err := e.enforcer.Enforce(sub, act, obj, objid)
	if err != nil {
		recordDecision(obj, act, "error", time.Since(start))
		return false, fmt.Errorf("enforcement failed: %w", err)
	}

	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	recordDecision(obj, act, decision, time.Since(start))

	return allowed, nil
}
