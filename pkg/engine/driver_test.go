package engine

import (
	"context"
	"strconv"
	"testing"
)

// newLineRegistry builds a rule set over integer states on [lo, hi] with
// inc/dec moves. The reachable graph is a line, so shortest paths are easy
// to reason about and every transition is reversible (cycles everywhere).
func newLineRegistry(lo, hi int) *Registry[int] {
	registry := NewRegistry[int]()
	registry.CreateRuleSet("line")
	_ = registry.RegisterRule("line", "inc",
		func(s int) bool { return s < hi },
		func(s int) int { return s + 1 },
	)
	_ = registry.RegisterRule("line", "dec",
		func(s int) bool { return s > lo },
		func(s int) int { return s - 1 },
	)
	return registry
}

// newEdgeRegistry builds a rule set over string states from an explicit
// edge list, one rule per edge, registered in the given order.
func newEdgeRegistry(edges [][2]string) *Registry[string] {
	registry := NewRegistry[string]()
	registry.CreateRuleSet("graph")
	for _, edge := range edges {
		from, to := edge[0], edge[1]
		_ = registry.RegisterRule("graph", "edge-"+from+"-"+to,
			func(s string) bool { return s == from },
			func(string) string { return to },
		)
	}
	return registry
}

func stringKey(s string) string { return s }

func zeroHeuristic[S any](S, int) float64 { return 0 }

func TestEngine_Search_FindsShortestPathAppend(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 10), strconv.Itoa)

	result, err := e.Search(context.Background(), Request[int]{
		Initial:   0,
		Goal:      func(s int) bool { return s == 3 },
		RuleSet:   "line",
		Heuristic: zeroHeuristic[int],
		Options:   Options{MergeMethod: MergeAppend},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !result.Found {
		t.Fatal("Expected a solution")
	}

	want := []int{0, 1, 2, 3}
	if len(result.Path) != len(want) {
		t.Fatalf("Expected path of %d states, got %d: %v", len(want), len(result.Path), result.Path)
	}
	for i, s := range want {
		if result.Path[i] != s {
			t.Errorf("Expected path[%d] = %d, got %d", i, s, result.Path[i])
		}
	}
}

func TestEngine_Search_UnknownRuleSet(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 10), strconv.Itoa)

	_, err := e.Search(context.Background(), Request[int]{
		Initial:   0,
		Goal:      func(s int) bool { return s == 3 },
		RuleSet:   "never-created",
		Heuristic: zeroHeuristic[int],
		Options:   DefaultOptions(),
	})
	if !IsUnknownRuleSet(err) {
		t.Errorf("Expected UNKNOWN_RULESET error, got: %v", err)
	}
}

func TestEngine_Search_NoSolution(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 5), strconv.Itoa)

	result, err := e.Search(context.Background(), Request[int]{
		Initial:   0,
		Goal:      func(s int) bool { return s == 100 }, // outside [0, 5]
		RuleSet:   "line",
		Heuristic: zeroHeuristic[int],
		Options:   DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("Expected no error for exhausted search, got: %v", err)
	}
	if result.Found {
		t.Fatal("Expected no solution")
	}
	if result.Path != nil {
		t.Errorf("Expected nil path, got: %v", result.Path)
	}

	// Every generated node was eventually closed.
	if result.Summary.Expanded != result.Summary.TotalGenerated {
		t.Errorf("Expected expanded == total_generated, got %d != %d",
			result.Summary.Expanded, result.Summary.TotalGenerated)
	}
	if result.Summary.TotalGenerated != 6 {
		t.Errorf("Expected 6 generated nodes on [0,5], got %d", result.Summary.TotalGenerated)
	}
}

func TestEngine_Search_NodeUniqueness(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 8), strconv.Itoa)

	_, err := e.Search(context.Background(), Request[int]{
		Initial:   4,
		Goal:      func(s int) bool { return false },
		RuleSet:   "line",
		Heuristic: zeroHeuristic[int],
		Options:   DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < e.store.Len(); i++ {
		key := strconv.Itoa(e.store.Node(i).State)
		if seen[key] {
			t.Errorf("Expected unique states, found duplicate node for %s", key)
		}
		seen[key] = true
	}
}

func TestEngine_Search_CostPathConsistency(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 8), strconv.Itoa)

	_, err := e.Search(context.Background(), Request[int]{
		Initial:   4,
		Goal:      func(s int) bool { return false },
		RuleSet:   "line",
		Heuristic: zeroHeuristic[int],
		Options:   Options{MergeMethod: MergePrepend},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for i := 0; i < e.store.Len(); i++ {
		node := e.store.Node(i)

		// Walking parent links back to the initial node takes exactly Cost steps.
		steps := 0
		for j := i; e.store.Node(j).Parent != NoParent; j = e.store.Node(j).Parent {
			parent := e.store.Node(j).Parent
			// Each step is a single rule application on the line: states differ by 1.
			if diff := e.store.Node(j).State - e.store.Node(parent).State; diff != 1 && diff != -1 {
				t.Errorf("Expected parent link of %d to be one rule application away, got states %d -> %d",
					i, e.store.Node(parent).State, e.store.Node(j).State)
			}
			if e.store.Node(parent).Cost+1 != e.store.Node(j).Cost {
				t.Errorf("Expected cost(parent)+1 == cost(node) at node %d", j)
			}
			steps++
		}
		if steps != node.Cost {
			t.Errorf("Expected node %d parent chain length %d, got %d", i, node.Cost, steps)
		}
	}
}

func TestEngine_Search_RelaxationCascadesThroughClosedNodes(t *testing.T) {
	// Depth-first (prepend) expansion reaches t via the long branch
	// start -> a -> b -> t and closes both t and its successor u before the
	// shortcut start -> x -> t is expanded. Relaxing t must cascade to u.
	registry := newEdgeRegistry([][2]string{
		{"start", "a"},
		{"start", "x"},
		{"a", "b"},
		{"b", "t"},
		{"t", "u"},
		{"x", "t"},
	})
	e := NewEngine(registry, stringKey)

	result, err := e.Search(context.Background(), Request[string]{
		Initial:   "start",
		Goal:      func(string) bool { return false },
		RuleSet:   "graph",
		Heuristic: func(_ string, cost int) float64 { return float64(cost) },
		Options:   Options{MergeMethod: MergePrepend},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Found {
		t.Fatal("Expected exhaustion, goal is unreachable")
	}

	nodeByState := func(state string) *Node[string] {
		for i := 0; i < e.store.Len(); i++ {
			if e.store.Node(i).State == state {
				return e.store.Node(i)
			}
		}
		t.Fatalf("Expected node for state %s", state)
		return nil
	}

	tn := nodeByState("t")
	if tn.Cost != 2 {
		t.Errorf("Expected t relaxed to cost 2, got %d", tn.Cost)
	}
	if e.store.Node(tn.Parent).State != "x" {
		t.Errorf("Expected t reparented to x, got %s", e.store.Node(tn.Parent).State)
	}
	if tn.Status != NodeStatusClosed {
		t.Errorf("Expected t to stay closed through relaxation, got %s", tn.Status)
	}
	if tn.Value != 2 {
		t.Errorf("Expected t value recomputed at new cost, got %f", tn.Value)
	}

	un := nodeByState("u")
	if un.Cost != 3 {
		t.Errorf("Expected cascade to improve u to cost 3, got %d", un.Cost)
	}
	if e.store.Node(un.Parent).State != "t" {
		t.Errorf("Expected u to keep parent t, got %s", e.store.Node(un.Parent).State)
	}
}

func TestEngine_Search_MergeValueExpandsBestFirst(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 20), strconv.Itoa)

	goal := 9
	result, err := e.Search(context.Background(), Request[int]{
		Initial: 5,
		Goal:    func(s int) bool { return s == goal },
		RuleSet: "line",
		Heuristic: func(s, cost int) float64 {
			dist := goal - s
			if dist < 0 {
				dist = -dist
			}
			return float64(cost + dist)
		},
		Options: Options{SortNewNodes: true, MergeMethod: MergeValue},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !result.Found {
		t.Fatal("Expected a solution")
	}
	if len(result.Path) != 5 {
		t.Errorf("Expected shortest path of 5 states, got %d: %v", len(result.Path), result.Path)
	}
	// A consistent heuristic keeps expansion on the goal side of the line:
	// nothing past one step in the wrong direction gets expanded.
	if result.Summary.Expanded > 6 {
		t.Errorf("Expected best-first expansion to stay focused, expanded %d nodes", result.Summary.Expanded)
	}
}

func TestEngine_Search_Deterministic(t *testing.T) {
	for _, method := range []MergeMethod{MergePrepend, MergeAppend, MergeValue} {
		var firstPath []int
		var firstSummary Summary
		for run := 0; run < 3; run++ {
			e := NewEngine(newLineRegistry(0, 12), strconv.Itoa)
			result, err := e.Search(context.Background(), Request[int]{
				Initial:   6,
				Goal:      func(s int) bool { return s == 10 },
				RuleSet:   "line",
				Heuristic: func(s, cost int) float64 { return float64(cost) },
				Options:   Options{SortNewNodes: true, MergeMethod: method},
			})
			if err != nil {
				t.Fatalf("method %s: expected no error, got: %v", method, err)
			}
			if run == 0 {
				firstPath = result.Path
				firstSummary = result.Summary
				continue
			}
			if len(result.Path) != len(firstPath) {
				t.Fatalf("method %s: expected identical path across runs", method)
			}
			for i := range firstPath {
				if result.Path[i] != firstPath[i] {
					t.Errorf("method %s: expected path[%d] = %d, got %d", method, i, firstPath[i], result.Path[i])
				}
			}
			if result.Summary != firstSummary {
				t.Errorf("method %s: expected identical summary, got %+v vs %+v", method, result.Summary, firstSummary)
			}
		}
	}
}

func TestEngine_Search_GoalNodeCountsAsExpanded(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 3), strconv.Itoa)

	result, err := e.Search(context.Background(), Request[int]{
		Initial:   2,
		Goal:      func(s int) bool { return s == 2 },
		RuleSet:   "line",
		Heuristic: zeroHeuristic[int],
		Options:   DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !result.Found {
		t.Fatal("Expected the initial state to satisfy the goal")
	}
	if len(result.Path) != 1 {
		t.Errorf("Expected single-state path, got %v", result.Path)
	}
	if result.Summary.Expanded != 1 {
		t.Errorf("Expected the goal node to count as expanded, got %d", result.Summary.Expanded)
	}
	if result.Summary.TotalGenerated != 1 {
		t.Errorf("Expected 1 generated node, got %d", result.Summary.TotalGenerated)
	}
}

func TestEngine_Search_Cancelled(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 10), strconv.Itoa)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Search(ctx, Request[int]{
		Initial:   0,
		Goal:      func(s int) bool { return s == 10 },
		RuleSet:   "line",
		Heuristic: zeroHeuristic[int],
		Options:   DefaultOptions(),
	})
	if !IsCancelled(err) {
		t.Errorf("Expected CANCELLED error, got: %v", err)
	}
}

func TestEngine_Search_ValidatesRequest(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 10), strconv.Itoa)

	tests := []struct {
		name string
		req  Request[int]
	}{
		{
			name: "nil goal",
			req: Request[int]{
				Heuristic: zeroHeuristic[int],
				RuleSet:   "line",
				Options:   DefaultOptions(),
			},
		},
		{
			name: "nil heuristic",
			req: Request[int]{
				Goal:    func(int) bool { return false },
				RuleSet: "line",
				Options: DefaultOptions(),
			},
		},
		{
			name: "bad merge method",
			req: Request[int]{
				Goal:      func(int) bool { return false },
				Heuristic: zeroHeuristic[int],
				RuleSet:   "line",
				Options:   Options{MergeMethod: "shuffle"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Search(context.Background(), tt.req)
			if !IsValidation(err) {
				t.Errorf("Expected validation error, got: %v", err)
			}
		})
	}
}

func TestEngine_Search_VerifySolution(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 10), strconv.Itoa)

	result, err := e.Search(context.Background(), Request[int]{
		Initial:   0,
		Goal:      func(s int) bool { return s == 4 },
		RuleSet:   "line",
		Heuristic: zeroHeuristic[int],
		Options:   Options{MergeMethod: MergeAppend, VerifySolution: true},
	})
	if err != nil {
		t.Fatalf("Expected verified solution, got: %v", err)
	}
	if !result.Found || len(result.Path) != 5 {
		t.Errorf("Expected 5-state verified path, got: %v", result.Path)
	}
}

func TestEngine_Summary_BeforeAnyRun(t *testing.T) {
	e := NewEngine(newLineRegistry(0, 10), strconv.Itoa)

	summary := e.Summary()
	if summary.TotalGenerated != 0 || summary.Expanded != 0 {
		t.Errorf("Expected zero summary before any run, got %+v", summary)
	}
}
