package engine

import "sort"

// Precondition reports whether a rule may be applied to a state.
// Preconditions must be pure: no side effects, no state mutation.
type Precondition[S any] func(S) bool

// Action computes the successor state produced by applying a rule.
// Actions must be pure and must return a fresh value; mutating the
// argument in place corrupts the node store.
type Action[S any] func(S) S

// Rule is a single legal transition: a named precondition/action pair.
type Rule[S any] struct {
	// Name identifies the rule within its rule set.
	Name string

	// Precondition reports whether the rule applies to a state.
	Precondition Precondition[S]

	// Action maps a state to its successor. Calling Action on a state
	// for which Precondition is false is a caller contract violation;
	// use Apply for the checked form.
	Action Action[S]
}

// Apply is the checked form of Action: it verifies the precondition and
// fails with INVALID_RULE_APPLICATION instead of producing an undefined
// successor.
func (r Rule[S]) Apply(state S) (S, error) {
	if !r.Precondition(state) {
		var zero S
		return zero, NewContractError("rule precondition does not hold", nil).
			WithCode(ErrCodeInvalidRuleApplication).
			WithRule(r.Name)
	}
	return r.Action(state), nil
}

// RuleSet is a named, ordered sequence of rules. Successors are generated
// in registration order, which is also the determinism tie-break for
// otherwise equal-value successors.
type RuleSet[S any] struct {
	name  string
	rules []Rule[S]
}

// Name returns the rule set name.
func (rs *RuleSet[S]) Name() string {
	return rs.name
}

// Rules returns the rules in registration order. The returned slice is
// shared; callers must not modify it.
func (rs *RuleSet[S]) Rules() []Rule[S] {
	return rs.rules
}

// Len returns the number of registered rules.
func (rs *RuleSet[S]) Len() int {
	return len(rs.rules)
}

// Registry owns named rule sets. It is the long-lived configuration
// object: build it once, then reuse it across search runs. A fully built
// Registry is safe for concurrent readers.
type Registry[S any] struct {
	rulesets map[string]*RuleSet[S]
}

// NewRegistry creates an empty rule set registry.
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{
		rulesets: make(map[string]*RuleSet[S]),
	}
}

// CreateRuleSet creates an empty rule set under the given name and returns
// it. Creating a rule set under a name that already exists silently replaces
// the previous rule list; this mirrors the behavior callers have come to
// depend on rather than guessing a merge semantics.
func (r *Registry[S]) CreateRuleSet(name string) *RuleSet[S] {
	rs := &RuleSet[S]{
		name:  name,
		rules: make([]Rule[S], 0),
	}
	r.rulesets[name] = rs
	return rs
}

// RegisterRule appends a rule to the end of the named rule set. It fails
// with UNKNOWN_RULESET, performing no mutation, if the rule set was never
// created, and with VALIDATION_ERROR if the precondition or action is nil.
func (r *Registry[S]) RegisterRule(rulesetName, ruleName string, pre Precondition[S], action Action[S]) error {
	rs, ok := r.rulesets[rulesetName]
	if !ok {
		return NewContractError("rule set was never created", nil).
			WithCode(ErrCodeUnknownRuleSet).
			WithRuleSet(rulesetName).
			WithRule(ruleName)
	}
	if pre == nil || action == nil {
		return NewValidationError("rule requires both a precondition and an action", nil).
			WithRuleSet(rulesetName).
			WithRule(ruleName)
	}
	rs.rules = append(rs.rules, Rule[S]{
		Name:         ruleName,
		Precondition: pre,
		Action:       action,
	})
	return nil
}

// RuleSet returns the named rule set, or an UNKNOWN_RULESET error if the
// name was never created.
func (r *Registry[S]) RuleSet(name string) (*RuleSet[S], error) {
	rs, ok := r.rulesets[name]
	if !ok {
		return nil, NewContractError("rule set was never created", nil).
			WithCode(ErrCodeUnknownRuleSet).
			WithRuleSet(name)
	}
	return rs, nil
}

// Names returns the registered rule set names in sorted order.
func (r *Registry[S]) Names() []string {
	names := make([]string, 0, len(r.rulesets))
	for name := range r.rulesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
