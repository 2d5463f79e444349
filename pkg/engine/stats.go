package engine

// Summary is a read-only statistical view over a node store after a run
// completes, successfully or not. Expanded never exceeds TotalGenerated;
// a found goal node counts as expanded because the goal test runs
// immediately after the node is closed.
type Summary struct {
	// TotalGenerated is the count of all nodes ever created during the run.
	TotalGenerated int `json:"total_generated"`

	// Expanded is the count of nodes that were popped and closed.
	Expanded int `json:"expanded"`
}

// Summarize computes run statistics with a pass over the node store.
func Summarize[S any](store *NodeStore[S]) Summary {
	s := Summary{TotalGenerated: store.Len()}
	for i := 0; i < store.Len(); i++ {
		if store.Node(i).Status == NodeStatusClosed {
			s.Expanded++
		}
	}
	return s
}

// Summary returns the statistics of the most recent Search call, or a zero
// summary if the engine has not run yet.
func (e *Engine[S]) Summary() Summary {
	if e.store == nil {
		return Summary{}
	}
	return Summarize(e.store)
}
