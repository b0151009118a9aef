package pda

import "testing"

// smallPDA builds p0,γ0 -pop-> p1, p1,γ1 -swap γ2-> p0, p0,γ2 -push γ3-> p1
// over 2 states and 4 labels, matching a small subset of the rules a
// real PDA file would declare.
func smallPDA(t *testing.T) *PDA[int] {
	b := NewBuilder[int](2, 4, 0)
	b.AddRule(0, 1, Pop, 0, OnLabel(0), 1)
	b.AddRule(1, 0, Swap, 2, OnLabel(1), 2)
	b.AddRule(0, 1, Push, 3, OnLabel(2), 3)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	return p
}

func TestRulesFromMatchesSourceAndLabel(t *testing.T) {
	p := smallPDA(t)
	rules := p.RulesFrom(0, 0)
	if len(rules) != 1 || rules[0].Op != Pop {
		t.Errorf("Expected exactly one Pop rule from (0, label 0), got %+v", rules)
	}
	if len(p.RulesFrom(0, 1)) != 0 {
		t.Error("Expected no rules from (0, label 1)")
	}
}

func TestRulesIntoMatchesTargetOpAndLabel(t *testing.T) {
	p := smallPDA(t)
	swapRules := p.RulesInto(0, Swap, 2)
	if len(swapRules) != 1 {
		t.Errorf("Expected exactly one Swap rule into (0, label 2), got %+v", swapRules)
	}
	if len(p.RulesInto(0, Swap, 1)) != 0 {
		t.Error("Expected no Swap rule into (0, label 1)")
	}
}

func TestRulesIntoPopIgnoresLabel(t *testing.T) {
	p := smallPDA(t)
	a := p.RulesInto(1, Pop, 0)
	b := p.RulesInto(1, Pop, 3)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("Expected Pop rules into state 1 regardless of label, got %+v and %+v", a, b)
	}
	if a[0].ID != b[0].ID {
		t.Error("Expected both lookups to find the same Pop rule")
	}
}

func TestPushRulesWithFromLabel(t *testing.T) {
	p := smallPDA(t)
	rules := p.PushRulesWithFromLabel(2)
	if len(rules) != 1 || rules[0].Op != Push {
		t.Errorf("Expected exactly one Push rule with FromLabel 2, got %+v", rules)
	}
	if len(p.PushRulesWithFromLabel(0)) != 0 {
		t.Error("Expected no Push rule with FromLabel 0")
	}
}

func TestBuilderWildcardAndNegatedPop(t *testing.T) {
	b := NewBuilder[int](1, 3, 0)
	b.AddRule(0, 0, Pop, 0, AnyLabel(), 0)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	if len(p.Rules) != 3 {
		t.Errorf("Expected AnyLabel() to expand to 3 rules, got %d", len(p.Rules))
	}

	b2 := NewBuilder[int](1, 3, 0)
	b2.AddRule(0, 0, Pop, 0, NotLabels(1), 0)
	p2, err := b2.Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	if len(p2.Rules) != 2 {
		t.Errorf("Expected NotLabels(1) to expand to 2 rules, got %d", len(p2.Rules))
	}
}

func TestBuilderRejectsOutOfRangeState(t *testing.T) {
	b := NewBuilder[int](2, 2, 0)
	b.AddRule(5, 0, Pop, 0, OnLabel(0), 0)
	if _, err := b.Build(); err == nil {
		t.Error("Expected Build to fail on an out-of-range from-state")
	}
}

func TestBuilderRejectsOutOfRangeLabel(t *testing.T) {
	b := NewBuilder[int](2, 2, 0)
	b.AddRule(0, 1, Swap, 9, OnLabel(0), 0)
	if _, err := b.Build(); err == nil {
		t.Error("Expected Build to fail on an out-of-range ToLabel")
	}
}

func TestBuilderStopsAtFirstError(t *testing.T) {
	b := NewBuilder[int](1, 1, 0)
	b.AddRule(9, 0, Pop, 0, OnLabel(0), 0)
	b.AddRule(0, 0, Pop, 0, OnLabel(0), 0)
	if _, err := b.Build(); err == nil {
		t.Error("Expected the first AddRule error to stick despite a later valid AddRule")
	}
}

func TestRemapAppliesLabelFunctionToFromAndToLabel(t *testing.T) {
	p := smallPDA(t)
	remapped := p.Remap(1, func(uint32) uint32 { return 0 })
	for _, r := range remapped.Rules {
		if r.FromLabel != 0 {
			t.Errorf("Expected every remapped FromLabel to be 0, got %d", r.FromLabel)
		}
		if r.Op != Pop && r.ToLabel != 0 {
			t.Errorf("Expected every remapped ToLabel to be 0, got %d", r.ToLabel)
		}
	}
	if len(remapped.RulesFrom(0, 0)) == 0 {
		t.Error("Expected Remap to rebuild indices so RulesFrom still works")
	}
}

func TestOpString(t *testing.T) {
	cases := map[Op]string{Pop: "pop", Swap: "swap", Push: "push"}
	for op, want := range cases {
		if op.String() != want {
			t.Errorf("Expected %v.String() to be %q, got %q", op, want, op.String())
		}
	}
}
