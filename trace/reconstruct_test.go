package trace

import (
	"context"
	"reflect"
	"testing"

	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/pda"
	"github.com/mkschou/pdareach/product"
	"github.com/mkschou/pdareach/saturation"
	"github.com/mkschou/pdareach/semiring"
)

func TestReconstructForwardSinglePopRule(t *testing.T) {
	b := pda.NewBuilder[int](2, 1, 0)
	b.AddRule(0, 1, pda.Pop, 0, pda.OnLabel(0), 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	a := pautomaton.New(semiring.Int, 2, 1)
	a.SetAccepting(1)
	if err := saturation.PreStar(context.Background(), p, a, semiring.Int); err != nil {
		t.Fatalf("Expected PreStar to succeed, got %v", err)
	}

	steps, ok := a.AcceptPath(0, []uint32{0})
	if !ok {
		t.Fatal("Expected AcceptPath to find a path for stack [0]")
	}

	configs, err := Reconstruct(p, a, 0, []uint32{0}, steps, ModePre)
	if err != nil {
		t.Fatalf("Expected Reconstruct to succeed, got %v", err)
	}
	want := []Configuration{
		{State: 0, Stack: []uint32{0}},
		{State: 1, Stack: nil},
	}
	if !reflect.DeepEqual(configs, want) {
		t.Errorf("Expected configuration sequence %+v, got %+v", want, configs)
	}
}

// TestReconstructBackwardFoldsEpsilonDerivedTrace exercises
// resolveChain's PostTraceEpsilon branch: a Pop rule fires to produce
// an epsilon edge, which post* then folds through an existing labeled
// edge into a direct one. Reconstructing that direct edge must recover
// just the original Pop firing, not a phantom epsilon step.
func TestReconstructBackwardFoldsEpsilonDerivedTrace(t *testing.T) {
	b := pda.NewBuilder[int](3, 2, 0)
	b.AddRule(0, 1, pda.Pop, 0, pda.OnLabel(0), 2)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	a := pautomaton.New(semiring.Int, 3, 2)
	a.AddEdge(0, 0, 0, pautomaton.InitialTrace, 1)
	a.AddEdge(0, 1, 2, pautomaton.InitialTrace, 4)
	a.SetAccepting(2)

	if err := saturation.PostStar(context.Background(), p, a, semiring.Int); err != nil {
		t.Fatalf("Expected PostStar to succeed, got %v", err)
	}

	steps, ok := a.AcceptPath(1, []uint32{1})
	if !ok {
		t.Fatal("Expected AcceptPath to find a path for stack [1] from state 1")
	}

	configs, err := Reconstruct(p, a, 1, []uint32{1}, steps, ModePost)
	if err != nil {
		t.Fatalf("Expected Reconstruct to succeed, got %v", err)
	}
	want := []Configuration{
		{State: 0, Stack: []uint32{0}},
		{State: 1, Stack: []uint32{1}},
	}
	if !reflect.DeepEqual(configs, want) {
		t.Errorf("Expected the epsilon-folded edge to resolve to just the Pop firing %+v, got %+v", want, configs)
	}
}

// TestReconstructBackwardCoalescesPushTwoHopChain exercises flatten's
// push-rule coalescing: post* resolves a Push rule as two edges
// sharing one ruleID, which must collapse into a single firing that
// both writes the new top label and preserves the popped one.
func TestReconstructBackwardCoalescesPushTwoHopChain(t *testing.T) {
	b := pda.NewBuilder[int](2, 2, 0)
	b.AddRule(0, 1, pda.Push, 1, pda.OnLabel(0), 3)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	a := pautomaton.New(semiring.Int, 2, 2)
	a.AddEdge(0, 0, 0, pautomaton.InitialTrace, 0)
	a.SetAccepting(0)

	if err := saturation.PostStar(context.Background(), p, a, semiring.Int); err != nil {
		t.Fatalf("Expected PostStar to succeed, got %v", err)
	}

	steps, ok := a.AcceptPath(1, []uint32{1, 0})
	if !ok {
		t.Fatal("Expected AcceptPath to find a path for stack [1,0] from state 1")
	}
	if len(steps) != 2 {
		t.Fatalf("Expected the push pattern to surface as two physical hops, got %+v", steps)
	}

	configs, err := Reconstruct(p, a, 1, []uint32{1, 0}, steps, ModePost)
	if err != nil {
		t.Fatalf("Expected Reconstruct to succeed, got %v", err)
	}
	want := []Configuration{
		{State: 0, Stack: []uint32{0}},
		{State: 1, Stack: []uint32{1, 0}},
	}
	if !reflect.DeepEqual(configs, want) {
		t.Errorf("Expected the two push hops to coalesce into one firing %+v, got %+v", want, configs)
	}
}

func TestReconstructProductForwardSinglePopRule(t *testing.T) {
	b := pda.NewBuilder[int](2, 1, 0)
	b.AddRule(0, 1, pda.Pop, 0, pda.OnLabel(0), 5)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	growing := pautomaton.New(semiring.Int, 2, 1)
	growing.AddEdge(0, 0, 1, pautomaton.NewPreTrace(0), 5)

	original := func(s int) int { return s }
	steps := []product.PathStep{{From: 0, To: 1, Label: 0}}

	configs, err := ReconstructProduct(p, growing, original, 0, []uint32{0}, steps, ModePre)
	if err != nil {
		t.Fatalf("Expected ReconstructProduct to succeed, got %v", err)
	}
	want := []Configuration{
		{State: 0, Stack: []uint32{0}},
		{State: 1, Stack: nil},
	}
	if !reflect.DeepEqual(configs, want) {
		t.Errorf("Expected configuration sequence %+v, got %+v", want, configs)
	}
}

func TestReconstructProductMissingEdgeIsInternalInvariant(t *testing.T) {
	p, err := pda.NewBuilder[int](2, 1, 0).Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	growing := pautomaton.New(semiring.Int, 2, 1)
	original := func(s int) int { return s }
	steps := []product.PathStep{{From: 0, To: 1, Label: 0}}

	if _, err := ReconstructProduct(p, growing, original, 0, []uint32{0}, steps, ModePre); err == nil {
		t.Error("Expected ReconstructProduct to fail when the growing side carries no backing edge")
	}
}
