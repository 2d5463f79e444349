package engine

// NodeStatus represents the expansion status of a node.
type NodeStatus string

const (
	// NodeStatusUnvisited marks a node that has been created but not yet
	// assigned a true cost. The search loop assigns cost, value, and parent
	// before the node is ever consulted.
	NodeStatusUnvisited NodeStatus = "unvisited"

	// NodeStatusOpen marks a node on the open list, discovered but not yet
	// expanded.
	NodeStatusOpen NodeStatus = "open"

	// NodeStatusClosed marks a node that has been popped and expanded.
	// Closed nodes never return to the open list, but relaxation may still
	// improve their cost, value, and parent in place.
	NodeStatusClosed NodeStatus = "closed"
)

// NoParent is the parent index of the initial node.
const NoParent = -1

// Node is the engine's bookkeeping record for one distinct state.
//
// Invariants maintained by the search driver:
//   - Cost is the length, in rule applications, of the best known path from
//     the initial state; it only ever decreases during a run.
//   - Parent indexes the node that produced the current best cost, so
//     cost(parent)+1 == cost, except for the initial node (NoParent, cost 0).
//   - Value caches the heuristic evaluated at (State, Cost) and is
//     recomputed whenever Cost changes.
type Node[S any] struct {
	// State is the deduplicated state value this node stands for.
	State S

	// Cost is the best known path length from the initial state.
	Cost int

	// Value is the cached heuristic value at the current cost.
	Value float64

	// Status is the expansion status.
	Status NodeStatus

	// Parent is the arena index of the best-path predecessor, or NoParent.
	Parent int

	// Successors holds arena indices of the candidate successors recorded
	// when this node was last expanded, in rule order.
	Successors []int
}

// KeyFunc maps a state to its canonical string key. Two states are the same
// node if and only if their keys are equal, so the key must encode exactly
// the state's structural identity.
type KeyFunc[S any] func(S) string

// NodeStore is an arena of nodes addressed by canonical state key. It
// enforces the at-most-one-node-per-state invariant and owns every node for
// the duration of one search run; all other structures hold indices into it.
type NodeStore[S any] struct {
	key   KeyFunc[S]
	nodes []Node[S]
	index map[string]int
}

// NewNodeStore creates an empty node store using the given key function.
func NewNodeStore[S any](key KeyFunc[S]) *NodeStore[S] {
	return &NodeStore[S]{
		key:   key,
		nodes: make([]Node[S], 0),
		index: make(map[string]int),
	}
}

// GetOrCreate resolves a state to its node index. The first reference
// creates the node unvisited with cost 0, no parent, and no successors;
// later references with an equal key return the same index, so node
// identity is stable for the remainder of the run.
func (s *NodeStore[S]) GetOrCreate(state S) int {
	k := s.key(state)
	if idx, ok := s.index[k]; ok {
		return idx
	}
	idx := len(s.nodes)
	s.nodes = append(s.nodes, Node[S]{
		State:      state,
		Cost:       0,
		Value:      0,
		Status:     NodeStatusUnvisited,
		Parent:     NoParent,
		Successors: nil,
	})
	s.index[k] = idx
	return idx
}

// Node returns the node at the given arena index. The pointer is only valid
// until the next GetOrCreate call, which may grow the arena.
func (s *NodeStore[S]) Node(idx int) *Node[S] {
	return &s.nodes[idx]
}

// Len returns the number of nodes ever created in this store.
func (s *NodeStore[S]) Len() int {
	return len(s.nodes)
}
