// Package disks implements the three-peg disk-transfer puzzle as a wayfind
// search domain. Disks are numbered from 1 (smallest) upward and a disk may
// only rest on a larger one, so every move transfers the top disk of one peg
// onto an empty peg or a larger top disk. All moves are reversible, making
// the state graph cyclic; the puzzle exercises the engine's deduplication
// and relaxation rather than any domain cleverness.
package disks

import (
	"strconv"
	"strings"

	"github.com/wayfind/wayfind/pkg/engine"
)

// Peg indices.
const (
	PegLeft = iota
	PegMiddle
	PegRight

	pegCount
)

// RuleSetName is the name the disk move rules are registered under.
const RuleSetName = "disk-moves"

var pegNames = [pegCount]string{"left", "middle", "right"}

// State is one configuration of disks across the three pegs. Pegs[p][0] is
// the top disk of peg p. States are value objects: rule actions return
// fresh copies and never mutate in place.
type State struct {
	Pegs [pegCount][]int
}

// NewState builds a state from the three peg stacks, top disk first. The
// slices are copied, so callers may reuse their arguments.
func NewState(left, middle, right []int) State {
	var s State
	s.Pegs[PegLeft] = append([]int(nil), left...)
	s.Pegs[PegMiddle] = append([]int(nil), middle...)
	s.Pegs[PegRight] = append([]int(nil), right...)
	return s
}

// Stacked returns the state with disks 1..n stacked legally on one peg.
func Stacked(n, peg int) State {
	var s State
	stack := make([]int, n)
	for i := 0; i < n; i++ {
		stack[i] = i + 1
	}
	s.Pegs[peg] = stack
	return s
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return NewState(s.Pegs[PegLeft], s.Pegs[PegMiddle], s.Pegs[PegRight])
}

// Key returns the canonical key for node deduplication: peg stacks joined
// top-first, e.g. "1,2||" for all disks on the left peg.
func (s State) Key() string {
	var b strings.Builder
	for p := 0; p < pegCount; p++ {
		if p > 0 {
			b.WriteByte('|')
		}
		for i, d := range s.Pegs[p] {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(d))
		}
	}
	return b.String()
}

// String renders the state for human-readable output.
func (s State) String() string {
	parts := make([]string, pegCount)
	for p := 0; p < pegCount; p++ {
		if len(s.Pegs[p]) == 0 {
			parts[p] = "-"
			continue
		}
		disks := make([]string, len(s.Pegs[p]))
		for i, d := range s.Pegs[p] {
			disks[i] = strconv.Itoa(d)
		}
		parts[p] = strings.Join(disks, " ")
	}
	return "[" + strings.Join(parts, " | ") + "]"
}

// canMove reports whether the top disk of peg from may legally move to peg
// to: from must be non-empty and the moved disk smaller than to's top disk.
func canMove(from, to int) engine.Precondition[State] {
	return func(s State) bool {
		if len(s.Pegs[from]) == 0 {
			return false
		}
		if len(s.Pegs[to]) == 0 {
			return true
		}
		return s.Pegs[from][0] < s.Pegs[to][0]
	}
}

// move transfers the top disk of peg from onto peg to in a fresh state.
func move(from, to int) engine.Action[State] {
	return func(s State) State {
		next := s.Clone()
		disk := next.Pegs[from][0]
		next.Pegs[from] = next.Pegs[from][1:]
		next.Pegs[to] = append([]int{disk}, next.Pegs[to]...)
		return next
	}
}

// Register creates the disk-moves rule set in the registry and registers
// the six move rules in from-peg-major order. Rule order is load-bearing:
// it fixes successor generation order and therefore expansion determinism.
func Register(registry *engine.Registry[State]) error {
	registry.CreateRuleSet(RuleSetName)
	for from := 0; from < pegCount; from++ {
		for to := 0; to < pegCount; to++ {
			if from == to {
				continue
			}
			name := "move-" + pegNames[from] + "-" + pegNames[to]
			if err := registry.RegisterRule(RuleSetName, name, canMove(from, to), move(from, to)); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewRegistry returns a registry with the disk move rules registered.
func NewRegistry() *engine.Registry[State] {
	registry := engine.NewRegistry[State]()
	if err := Register(registry); err != nil {
		// Register only fails on a missing rule set, which CreateRuleSet
		// just established.
		panic(err)
	}
	return registry
}

// GoalState returns a goal predicate matching exactly the target state.
func GoalState(target State) engine.GoalFunc[State] {
	want := target.Key()
	return func(s State) bool {
		return s.Key() == want
	}
}

// MisplacedDisks returns a heuristic valuing a state at cost plus the
// number of disks not yet on their goal peg. With unit move costs this
// never overestimates by peg, keeping value-ordered searches goal-directed.
func MisplacedDisks(goal State) engine.Heuristic[State] {
	wantPeg := make(map[int]int)
	for p := 0; p < pegCount; p++ {
		for _, d := range goal.Pegs[p] {
			wantPeg[d] = p
		}
	}
	return func(s State, cost int) float64 {
		misplaced := 0
		for p := 0; p < pegCount; p++ {
			for _, d := range s.Pegs[p] {
				if want, ok := wantPeg[d]; !ok || want != p {
					misplaced++
				}
			}
		}
		return float64(cost + misplaced)
	}
}

// PegIndex resolves a peg name ("left", "middle", "right") to its index.
func PegIndex(name string) (int, bool) {
	for i, n := range pegNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
