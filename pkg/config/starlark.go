package config

import (
	"context"
	"fmt"
	"time"

	"go.starlark.net/starlark"
)

// maxHeuristicSteps bounds the Starlark interpreter per call so a
// runaway script cannot stall the search loop.
const maxHeuristicSteps = 100_000

// HeuristicProgram is a compiled Starlark heuristic. The script must
// define a function value(pegs, cost) returning a number; pegs is a
// list of lists of ints (top disk first) and cost is the path cost of
// the node being scored.
type HeuristicProgram struct {
	fn *starlark.Function
}

// CompileHeuristic loads a Starlark script and resolves its value
// function. Loading runs in a goroutine so a script with an infinite
// top-level loop is cut off by the timeout.
func CompileHeuristic(ctx context.Context, script string, timeout time.Duration) (*HeuristicProgram, error) {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type loadResult struct {
		globals starlark.StringDict
		err     error
	}
	resultCh := make(chan loadResult, 1)

	go func() {
		thread := &starlark.Thread{
			Name: "wayfind-heuristic",
			Print: func(_ *starlark.Thread, _ string) {
				// Scripts cannot write to the CLI's output streams.
			},
		}
		thread.SetMaxExecutionSteps(maxHeuristicSteps)

		globals, err := starlark.ExecFile(thread, "heuristic.star", script, nil)
		resultCh <- loadResult{globals: globals, err: err}
	}()

	select {
	case <-loadCtx.Done():
		return nil, fmt.Errorf("heuristic script load timed out after %v", timeout)
	case res := <-resultCh:
		if res.err != nil {
			return nil, fmt.Errorf("failed to load heuristic script: %w", res.err)
		}

		val, ok := res.globals["value"]
		if !ok {
			return nil, fmt.Errorf("heuristic script does not define value(pegs, cost)")
		}
		fn, ok := val.(*starlark.Function)
		if !ok {
			return nil, fmt.Errorf("heuristic value is %s, not a function", val.Type())
		}

		return &HeuristicProgram{fn: fn}, nil
	}
}

// Value scores a configuration by calling the script's value function.
func (p *HeuristicProgram) Value(pegs [][]int, cost int) (float64, error) {
	thread := &starlark.Thread{Name: "wayfind-heuristic"}
	thread.SetMaxExecutionSteps(maxHeuristicSteps)

	result, err := starlark.Call(thread, p.fn, starlark.Tuple{pegsToStarlark(pegs), starlark.MakeInt(cost)}, nil)
	if err != nil {
		return 0, fmt.Errorf("heuristic evaluation failed: %w", err)
	}

	switch v := result.(type) {
	case starlark.Int:
		i, ok := v.Int64()
		if !ok {
			return 0, fmt.Errorf("heuristic value out of range")
		}
		return float64(i), nil
	case starlark.Float:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("heuristic returned %s, expected a number", result.Type())
	}
}

// pegsToStarlark converts a peg configuration into nested Starlark lists.
func pegsToStarlark(pegs [][]int) *starlark.List {
	outer := make([]starlark.Value, len(pegs))
	for p, stack := range pegs {
		inner := make([]starlark.Value, len(stack))
		for i, disk := range stack {
			inner[i] = starlark.MakeInt(disk)
		}
		outer[p] = starlark.NewList(inner)
	}
	return starlark.NewList(outer)
}
