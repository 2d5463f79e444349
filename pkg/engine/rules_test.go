package engine

import (
	"testing"
)

func TestRegistry_RegisterRule_UnknownRuleSet(t *testing.T) {
	registry := NewRegistry[int]()

	err := registry.RegisterRule("missing", "noop",
		func(int) bool { return true },
		func(s int) int { return s },
	)

	if err == nil {
		t.Fatal("Expected error for unknown rule set, got nil")
	}
	if !IsUnknownRuleSet(err) {
		t.Errorf("Expected UNKNOWN_RULESET error, got: %v", err)
	}
	if len(registry.Names()) != 0 {
		t.Errorf("Expected no mutation on failed registration, got rule sets: %v", registry.Names())
	}
}

func TestRegistry_CreateRuleSet_ReplacesExisting(t *testing.T) {
	registry := NewRegistry[int]()
	registry.CreateRuleSet("moves")

	if err := registry.RegisterRule("moves", "inc",
		func(int) bool { return true },
		func(s int) int { return s + 1 },
	); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Re-creating under the same name silently discards the old rule list.
	registry.CreateRuleSet("moves")

	rs, err := registry.RuleSet("moves")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if rs.Len() != 0 {
		t.Errorf("Expected recreated rule set to be empty, got %d rules", rs.Len())
	}
}

func TestRegistry_RegisterRule_AppendsInOrder(t *testing.T) {
	registry := NewRegistry[int]()
	registry.CreateRuleSet("moves")

	names := []string{"first", "second", "third"}
	for _, name := range names {
		if err := registry.RegisterRule("moves", name,
			func(int) bool { return true },
			func(s int) int { return s },
		); err != nil {
			t.Fatalf("Expected no error registering %s, got: %v", name, err)
		}
	}

	rs, err := registry.RuleSet("moves")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	rules := rs.Rules()
	if len(rules) != len(names) {
		t.Fatalf("Expected %d rules, got %d", len(names), len(rules))
	}
	for i, name := range names {
		if rules[i].Name != name {
			t.Errorf("Expected rule %d to be %s, got %s", i, name, rules[i].Name)
		}
	}
}

func TestRegistry_RegisterRule_NilFunctions(t *testing.T) {
	registry := NewRegistry[int]()
	registry.CreateRuleSet("moves")

	err := registry.RegisterRule("moves", "broken", nil, nil)
	if err == nil {
		t.Fatal("Expected validation error for nil precondition and action, got nil")
	}
	if !IsValidation(err) {
		t.Errorf("Expected validation error, got: %v", err)
	}

	rs, _ := registry.RuleSet("moves")
	if rs.Len() != 0 {
		t.Errorf("Expected no mutation on failed registration, got %d rules", rs.Len())
	}
}

func TestRegistry_RuleSet_Unknown(t *testing.T) {
	registry := NewRegistry[int]()

	_, err := registry.RuleSet("missing")
	if !IsUnknownRuleSet(err) {
		t.Errorf("Expected UNKNOWN_RULESET error, got: %v", err)
	}
}

func TestRule_Apply_PreconditionFalse(t *testing.T) {
	rule := Rule[int]{
		Name:         "positive-only",
		Precondition: func(s int) bool { return s > 0 },
		Action:       func(s int) int { return s - 1 },
	}

	if _, err := rule.Apply(1); err != nil {
		t.Fatalf("Expected no error when precondition holds, got: %v", err)
	}

	_, err := rule.Apply(0)
	if err == nil {
		t.Fatal("Expected error when precondition is false, got nil")
	}
	if !IsInvalidRuleApplication(err) {
		t.Errorf("Expected INVALID_RULE_APPLICATION error, got: %v", err)
	}
}
