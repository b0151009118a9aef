package shortest

import (
	"context"
	"testing"

	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/pda"
	"github.com/mkschou/pdareach/semiring"
)

// weightedChainPDA builds spec.md §8 Scenario 3's five-state,
// single-label PDA: (0,A)->(3,push A,4), (0,A)->(1,push A,1),
// (3,A)->(1,push A,8), (1,A)->(2,pop,2), (2,A)->(4,pop,16).
func weightedChainPDA(t *testing.T) *pda.PDA[int] {
	t.Helper()
	b := pda.NewBuilder[int](5, 1, 0)
	b.AddRule(0, 3, pda.Push, 0, pda.OnLabel(0), 4)
	b.AddRule(0, 1, pda.Push, 0, pda.OnLabel(0), 1)
	b.AddRule(3, 1, pda.Push, 0, pda.OnLabel(0), 8)
	b.AddRule(1, 2, pda.Pop, 0, pda.OnLabel(0), 2)
	b.AddRule(2, 4, pda.Pop, 0, pda.OnLabel(0), 16)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	return p
}

// TestPostStarWeightedChainFindsShortestWitnessWeights is spec.md §8
// Scenario 3: from seed (0, A), the direct push reaches state 1 more
// cheaply (weight 1) but only with stack AA, which pops to (2, A); the
// route via state 3 (4+8=12, stack AAA) is the only one that reaches
// (2, AA), at 12+2=14, and then (4, A), at 14+16=30. post* must settle
// both at these weights, not at whatever a single cheapest first hop
// would suggest.
func TestPostStarWeightedChainFindsShortestWitnessWeights(t *testing.T) {
	p := weightedChainPDA(t)
	a := pautomaton.FromConfiguration(semiring.Int, p.NumStates, p.NumLabels, 0, []uint32{0})

	if err := PostStar(context.Background(), p, a, semiring.Int); err != nil {
		t.Fatalf("Expected PostStar to succeed, got %v", err)
	}
	if _, w, ok := a.ShortestAcceptPath(2, []uint32{0, 0}); !ok || w != 14 {
		t.Errorf("Expected the shortest witness reaching (2, AA) to weigh 14, got w=%d ok=%v", w, ok)
	}
	if _, w, ok := a.ShortestAcceptPath(4, []uint32{0}); !ok || w != 30 {
		t.Errorf("Expected the shortest witness reaching (4, A) to weigh 30, got w=%d ok=%v", w, ok)
	}
}
