package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wayfind/wayfind/pkg/engine"
)

// Scenario describes a single search problem loaded from a YAML file.
type Scenario struct {
	// Name identifies the scenario in logs and run history.
	Name string `yaml:"name" validate:"required"`

	// Domain selects the rule domain. Currently only "disks" is supported.
	Domain string `yaml:"domain" validate:"required,oneof=disks"`

	// Pegs is the initial configuration, one list of disks per peg with
	// the top disk first.
	Pegs [][]int `yaml:"pegs" validate:"required,len=3"`

	// Goal is the target configuration in the same layout as Pegs.
	Goal [][]int `yaml:"goal" validate:"required,len=3"`

	// Search configures the open-list discipline.
	Search SearchSpec `yaml:"search"`

	// Heuristic configures how states are scored.
	Heuristic HeuristicSpec `yaml:"heuristic"`
}

// SearchSpec mirrors the engine's search options in YAML form.
type SearchSpec struct {
	MergeMethod    string `yaml:"merge_method" validate:"required,oneof=prepend append merge"`
	SortNewNodes   bool   `yaml:"sort_new_nodes"`
	VerifySolution bool   `yaml:"verify_solution"`
}

// HeuristicSpec selects the state scoring function.
//
// Kind "zero" scores every state equally, "misplaced" counts disks that
// are not on their goal peg, and "starlark" evaluates the embedded Script.
type HeuristicSpec struct {
	Kind    string   `yaml:"kind" validate:"required,oneof=zero misplaced starlark"`
	Script  string   `yaml:"script" validate:"required_if=Kind starlark"`
	Timeout Duration `yaml:"timeout"`
}

// Duration wraps time.Duration so YAML can carry values like "2s" or "500ms".
type Duration time.Duration

// UnmarshalYAML accepts either a duration string or integer nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

// EngineOptions converts the search spec into engine options.
func (s SearchSpec) EngineOptions() engine.Options {
	return engine.Options{
		SortNewNodes:   s.SortNewNodes,
		MergeMethod:    engine.MergeMethod(s.MergeMethod),
		VerifySolution: s.VerifySolution,
	}
}

var scenarioValidator = validator.New()

// LoadScenario reads, parses, and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	sc.applyDefaults()

	if err := sc.Validate(); err != nil {
		return nil, err
	}

	return &sc, nil
}

// applyDefaults fills in omitted fields before validation.
func (s *Scenario) applyDefaults() {
	if s.Search.MergeMethod == "" {
		s.Search.MergeMethod = string(engine.MergeAppend)
	}
	if s.Heuristic.Kind == "" {
		s.Heuristic.Kind = "zero"
	}
	if s.Heuristic.Timeout == 0 {
		s.Heuristic.Timeout = Duration(5 * time.Second)
	}
}

// Validate checks structural constraints and disk placement legality.
func (s *Scenario) Validate() error {
	if err := scenarioValidator.Struct(s); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	if err := validateConfiguration("pegs", s.Pegs); err != nil {
		return err
	}
	if err := validateConfiguration("goal", s.Goal); err != nil {
		return err
	}

	return nil
}

// validateConfiguration rejects duplicate disks, non-positive disk
// numbers, and stacks with a larger disk above a smaller one.
func validateConfiguration(field string, pegs [][]int) error {
	seen := make(map[int]bool)
	for p, stack := range pegs {
		for i, disk := range stack {
			if disk < 1 {
				return fmt.Errorf("invalid scenario: %s[%d] contains non-positive disk %d", field, p, disk)
			}
			if seen[disk] {
				return fmt.Errorf("invalid scenario: %s contains disk %d more than once", field, disk)
			}
			seen[disk] = true
			if i > 0 && stack[i-1] > disk {
				return fmt.Errorf("invalid scenario: %s[%d] stacks disk %d on top of disk %d", field, p, stack[i-1], disk)
			}
		}
	}
	if len(seen) == 0 {
		return fmt.Errorf("invalid scenario: %s contains no disks", field)
	}
	return nil
}
