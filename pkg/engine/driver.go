package engine

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Heuristic estimates how promising a state is, given the cost already paid
// to reach it. Lower values are expanded earlier under value-ordered
// disciplines. The heuristic influences expansion order only, never the
// validity of a returned path.
type Heuristic[S any] func(state S, cost int) float64

// GoalFunc reports whether a state satisfies the search goal.
type GoalFunc[S any] func(S) bool

// Request describes one search run.
type Request[S any] struct {
	// Initial is the state the search starts from.
	Initial S

	// Goal is the goal predicate.
	Goal GoalFunc[S]

	// RuleSet names the rule set to expand with. It must have been created
	// in the engine's registry.
	RuleSet string

	// Heuristic is the value function cached on every node.
	Heuristic Heuristic[S]

	// Options configures batch sorting and the open-list merge discipline.
	Options Options
}

// Result is the outcome of a completed search run. An exhausted open list
// is reported as Found=false with a nil error, distinct from configuration
// errors surfaced by Search itself.
type Result[S any] struct {
	// Found reports whether a goal state was reached.
	Found bool

	// Path is the solution sequence from the initial state to the goal
	// state, inclusive. Nil when Found is false.
	Path []S

	// Summary holds the post-run node statistics.
	Summary Summary

	// Duration is the wall-clock time the run took.
	Duration time.Duration
}

// Engine is the search driver. One Search call owns one node store and one
// open list; the engine keeps the store of the most recent run so Summary
// can inspect it afterwards. An Engine must not run concurrent searches.
type Engine[S any] struct {
	registry *Registry[S]
	key      KeyFunc[S]
	logger   zerolog.Logger

	// store is the node store of the most recent run.
	store *NodeStore[S]
}

// NewEngine creates a search engine over the given registry, using key to
// canonicalize states for node deduplication.
func NewEngine[S any](registry *Registry[S], key KeyFunc[S]) *Engine[S] {
	return &Engine[S]{
		registry: registry,
		key:      key,
		logger:   zerolog.Nop(),
	}
}

// WithLogger attaches a logger for per-run debug output and returns the
// engine for chaining.
func (e *Engine[S]) WithLogger(logger zerolog.Logger) *Engine[S] {
	e.logger = logger
	return e
}

// searchRun is the per-invocation context: it owns the node store and open
// list for exactly one Search call, so runs never share mutable state.
type searchRun[S any] struct {
	store     *NodeStore[S]
	rules     []Rule[S]
	heuristic Heuristic[S]
	opts      Options
	logger    zerolog.Logger
}

// Search runs the best-first loop from req.Initial until a goal node is
// popped or the open list empties. Cancellation is honored only at the top
// of the loop, between node expansions, so relaxation is never interrupted
// mid-node.
func (e *Engine[S]) Search(ctx context.Context, req Request[S]) (*Result[S], error) {
	if req.Goal == nil {
		return nil, NewValidationError("goal predicate is required", nil)
	}
	if req.Heuristic == nil {
		return nil, NewValidationError("heuristic function is required", nil)
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}
	rs, err := e.registry.RuleSet(req.RuleSet)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	run := &searchRun[S]{
		store:     NewNodeStore(e.key),
		rules:     rs.Rules(),
		heuristic: req.Heuristic,
		opts:      req.Options,
		logger:    e.logger,
	}
	e.store = run.store

	e.logger.Debug().
		Str("ruleset", req.RuleSet).
		Str("merge_method", string(req.Options.MergeMethod)).
		Bool("sort_new_nodes", req.Options.SortNewNodes).
		Msg("search started")

	root := run.store.GetOrCreate(req.Initial)
	run.store.Node(root).Status = NodeStatusOpen
	open := []int{root}

	for len(open) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, NewCancelledError("search cancelled", err).
				WithRuleSet(req.RuleSet)
		}

		n := open[0]
		open = open[1:]
		run.store.Node(n).Status = NodeStatusClosed

		if req.Goal(run.store.Node(n).State) {
			path := run.path(n)
			if req.Options.VerifySolution {
				if err := run.verifyPath(path); err != nil {
					return nil, err
				}
			}
			summary := Summarize(run.store)
			e.logger.Debug().
				Int("path_len", len(path)).
				Int("generated", summary.TotalGenerated).
				Int("expanded", summary.Expanded).
				Msg("search found goal")
			return &Result[S]{
				Found:    true,
				Path:     path,
				Summary:  summary,
				Duration: time.Since(start),
			}, nil
		}

		succs := run.expand(n)

		batch := make([]int, 0, len(succs))
		for _, succ := range succs {
			sn := run.store.Node(succ)
			if sn.Status == NodeStatusUnvisited {
				sn.Status = NodeStatusOpen
				sn.Parent = n
				sn.Cost = run.store.Node(n).Cost + 1
				sn.Value = run.heuristic(sn.State, sn.Cost)
				batch = append(batch, succ)
			} else {
				run.relax(n, succ)
			}
		}

		if req.Options.SortNewNodes {
			sort.SliceStable(batch, func(i, j int) bool {
				return run.store.Node(batch[i]).Value < run.store.Node(batch[j]).Value
			})
		}

		open = run.mergeBatch(open, batch)
	}

	summary := Summarize(run.store)
	e.logger.Debug().
		Int("generated", summary.TotalGenerated).
		Int("expanded", summary.Expanded).
		Msg("search exhausted open list without reaching goal")
	return &Result[S]{
		Found:    false,
		Summary:  summary,
		Duration: time.Since(start),
	}, nil
}

// expand generates the candidate successors of node n by applying every
// rule whose precondition holds, in rule order, resolving each resulting
// state through the node store. The candidate list is recorded on the node,
// overwriting any prior value.
func (r *searchRun[S]) expand(n int) []int {
	state := r.store.Node(n).State
	succs := make([]int, 0, len(r.rules))
	for _, rule := range r.rules {
		if !rule.Precondition(state) {
			continue
		}
		succs = append(succs, r.store.GetOrCreate(rule.Action(state)))
	}
	r.store.Node(n).Successors = succs
	return succs
}

// relax offers node succ a path through parent at cost parent.Cost+1. If
// the offer is strictly cheaper, cost, value, and parent are updated in
// place, and for closed nodes the improvement cascades to their recorded
// successors. Recursion proceeds only along strictly decreasing costs,
// which bounds it below by the shortest path length and rules out cycles.
func (r *searchRun[S]) relax(parent, succ int) {
	candidate := r.store.Node(parent).Cost + 1
	sn := r.store.Node(succ)
	if candidate >= sn.Cost {
		return
	}
	r.logger.Trace().
		Int("node", succ).
		Int("old_cost", sn.Cost).
		Int("new_cost", candidate).
		Msg("relaxed node to cheaper path")
	sn.Parent = parent
	sn.Cost = candidate
	sn.Value = r.heuristic(sn.State, candidate)
	if sn.Status != NodeStatusClosed {
		// Open nodes pick up the new value the next time the open list is
		// consulted; prepend/append orderings ignore value entirely.
		return
	}
	for _, child := range sn.Successors {
		r.relax(succ, child)
	}
}

// mergeBatch folds the new-node batch into the open list per the configured
// merge method.
func (r *searchRun[S]) mergeBatch(open, batch []int) []int {
	switch r.opts.MergeMethod {
	case MergePrepend:
		merged := make([]int, 0, len(open)+len(batch))
		merged = append(merged, batch...)
		return append(merged, open...)
	case MergeValue:
		merged := make([]int, 0, len(open)+len(batch))
		i, j := 0, 0
		for i < len(open) && j < len(batch) {
			if r.store.Node(open[i]).Value <= r.store.Node(batch[j]).Value {
				merged = append(merged, open[i])
				i++
			} else {
				merged = append(merged, batch[j])
				j++
			}
		}
		merged = append(merged, open[i:]...)
		return append(merged, batch[j:]...)
	default:
		return append(open, batch...)
	}
}

// path returns the ancestor chain of node n as states, initial state first.
func (r *searchRun[S]) path(n int) []S {
	var chain []int
	for i := n; i != NoParent; i = r.store.Node(i).Parent {
		chain = append(chain, i)
	}
	states := make([]S, len(chain))
	for k, i := range chain {
		states[len(chain)-1-k] = r.store.Node(i).State
	}
	return states
}

// verifyPath replays a solution path, checking that every consecutive pair
// of states corresponds to a legal rule application.
func (r *searchRun[S]) verifyPath(path []S) error {
	for i := 0; i+1 < len(path); i++ {
		wantKey := r.store.key(path[i+1])
		legal := false
		for _, rule := range r.rules {
			next, err := rule.Apply(path[i])
			if err != nil {
				continue
			}
			if r.store.key(next) == wantKey {
				legal = true
				break
			}
		}
		if !legal {
			return NewInternalError("solution path step is not a legal rule application", nil).
				WithCode(ErrCodeInvalidRuleApplication).
				WithDetail("step", i)
		}
	}
	return nil
}
