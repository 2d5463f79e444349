// Package engine provides the core types for the wayfind state-space search engine.
//
// # Overview
//
// wayfind explores a graph of problem states: given an initial state, a goal
// predicate, a named set of transition rules, and a heuristic value function,
// it runs a best-first expansion loop and returns the path from the initial
// state to a goal state, or reports that no path exists. Transitions may be
// reversible, so the reachable graph generally contains cycles; the engine
// deduplicates states and keeps exactly one bookkeeping node per distinct
// state for the duration of a run.
//
// # Core Domain Types
//
//   - Rule: a named precondition/action pair over a state value
//   - RuleSet: a named, ordered sequence of rules; order drives successor
//     generation and is the determinism tie-break
//   - Registry: owns named rule sets; the long-lived configuration object
//   - Node: per-state bookkeeping (best known cost, cached heuristic value,
//     expansion status, parent link, successor links)
//   - NodeStore: arena of nodes addressed by a canonical state key
//   - Engine: the search driver; one Search call owns one NodeStore
//   - Summary: post-run statistics over the node store
//
// # State Contract
//
// The engine is generic over the caller's state type S. States are opaque:
// the engine never inspects or mutates them. Callers supply a KeyFunc that
// maps a state to a canonical string; two states are the same node if and
// only if their keys are equal. Rule actions must return fresh values and
// never mutate their argument in place.
//
// # Search Semantics
//
// The open list is consumed front-first. A popped node is marked closed and
// tested against the goal immediately; on success the search unwinds at once
// with the ancestor chain. Newly discovered successors are batched, optionally
// sorted by heuristic value, and merged into the open list under one of three
// disciplines: prepend (depth-first-leaning), append (breadth-first-leaning),
// or merge (value-ordered, A*-like). Rediscovering a known state triggers
// relaxation: if the new route is strictly cheaper, cost, value, and parent
// are updated in place, and the improvement cascades through the successors
// of already-closed nodes. Relaxation recurses only along strictly decreasing
// integer costs, which bounds it and guarantees termination on finite spaces.
//
// The engine does not promise globally cheapest solutions under every
// configuration; optimality depends on the caller's merge method and
// heuristic. It never persists the search graph and never expands in
// parallel.
//
// # Error Classification
//
// Errors carry a code for programmatic handling:
//
//   - UNKNOWN_RULESET: a rule set name was never created
//   - INVALID_RULE_APPLICATION: a rule action was applied to a state whose
//     precondition does not hold
//   - VALIDATION_ERROR: malformed request or options
//   - CANCELLED: the context was cancelled between expansions
//
// An exhausted open list is not an error: Search returns a Result with
// Found=false and a nil error.
//
// # Example Usage
//
//	registry := engine.NewRegistry[MyState]()
//	registry.CreateRuleSet("moves")
//	_ = registry.RegisterRule("moves", "step-right", canStepRight, stepRight)
//
//	e := engine.NewEngine(registry, MyState.Key)
//	result, err := e.Search(ctx, engine.Request[MyState]{
//		Initial:   start,
//		Goal:      isGoal,
//		RuleSet:   "moves",
//		Heuristic: estimate,
//		Options:   engine.DefaultOptions(),
//	})
//	if err != nil {
//		// configuration problem, not a failed search
//	}
//	if result.Found {
//		// result.Path runs from the initial state to the goal, inclusive
//	}
//
// # Concurrency
//
// A single Search call is strictly sequential and an Engine must not be
// shared by concurrent searches: each run owns its node store and open list.
// Build one Engine per goroutine, or serialize calls externally. The
// Registry is safe to share once fully built.
package engine
