package engine

import (
	"github.com/go-playground/validator/v10"
)

// MergeMethod is the policy for interleaving newly discovered nodes into
// the open list.
type MergeMethod string

const (
	// MergePrepend places new nodes before all existing open-list entries,
	// producing depth-first-leaning expansion.
	MergePrepend MergeMethod = "prepend"

	// MergeAppend places new nodes after all existing open-list entries,
	// producing breadth-first-leaning expansion.
	MergeAppend MergeMethod = "append"

	// MergeValue merges the new-node batch with the open list, both ordered
	// ascending by heuristic value, producing best-first (A*-like) expansion.
	// Ties resolve by the order encountered in the merge walk.
	MergeValue MergeMethod = "merge"
)

// Options configures one search run.
type Options struct {
	// SortNewNodes sorts each batch of newly discovered nodes ascending by
	// heuristic value before merging, stable with respect to generation
	// order on ties.
	SortNewNodes bool `json:"sort_new_nodes" yaml:"sort_new_nodes"`

	// MergeMethod selects the open-list insertion discipline.
	MergeMethod MergeMethod `json:"merge_method" yaml:"merge_method" validate:"required,oneof=prepend append merge"`

	// VerifySolution replays a found path through the rule set before
	// returning it, failing with INVALID_RULE_APPLICATION if any step is
	// not a legal rule application. Off by default.
	VerifySolution bool `json:"verify_solution" yaml:"verify_solution"`
}

// DefaultOptions returns the default search options: no batch sorting and
// breadth-first-leaning append merging.
func DefaultOptions() Options {
	return Options{
		SortNewNodes: false,
		MergeMethod:  MergeAppend,
	}
}

var optionsValidator = validator.New()

// Validate checks that the options are well formed.
func (o Options) Validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return NewValidationError("invalid search options", err).
			WithDetail("merge_method", string(o.MergeMethod))
	}
	return nil
}
