package saturation

import (
	"context"
	"testing"

	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/pda"
	"github.com/mkschou/pdareach/semiring"
)

// schwoonPDA builds the four-state, three-label example PDA used
// throughout spec.md §8's concrete scenarios: alphabet A=0,B=1,C=2,
// states 0..3, rules (0,A)->(1,push B), (0,B)->(0,pop),
// (1,B)->(3,swap A), (2,C)->(0,swap B), (3,A)->(2,push C). Unweighted:
// every rule carries the Bool semiring's unit weight.
func schwoonPDA(t *testing.T) *pda.PDA[bool] {
	t.Helper()
	b := pda.NewBuilder[bool](4, 3, true)
	b.AddRule(0, 1, pda.Push, 1, pda.OnLabel(0), true)
	b.AddRule(0, 0, pda.Pop, 0, pda.OnLabel(1), true)
	b.AddRule(1, 3, pda.Swap, 0, pda.OnLabel(1), true)
	b.AddRule(2, 0, pda.Swap, 1, pda.OnLabel(2), true)
	b.AddRule(3, 2, pda.Push, 2, pda.OnLabel(0), true)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Expected Build to succeed, got %v", err)
	}
	return p
}

// TestPreStarSchwoonExampleFindsPredecessorsOfInitialConfiguration is
// spec.md §8 Scenario 1: seeding an automaton with the single
// configuration (0, AA) and running pre* grows it to accept every
// configuration that can reach (0, AA). (2, CBBA) can; (2, CABA)
// cannot, since its buried B never resurfaces to the top of stack.
func TestPreStarSchwoonExampleFindsPredecessorsOfInitialConfiguration(t *testing.T) {
	p := schwoonPDA(t)
	a := pautomaton.FromConfiguration(semiring.Bool, p.NumStates, p.NumLabels, 0, []uint32{0, 0})

	if err := PreStar(context.Background(), p, a, semiring.Bool); err != nil {
		t.Fatalf("Expected PreStar to succeed, got %v", err)
	}
	if !a.Accepts(2, []uint32{2, 1, 1, 0}) {
		t.Error("Expected pre* to accept (2, CBBA): it reaches (0, AA) via swap, three pops, push, swap, push, swap, pop")
	}
	if a.Accepts(2, []uint32{2, 0, 1, 0}) {
		t.Error("Expected pre* to reject (2, CABA): its buried B can never resurface to fire the pop/swap rules")
	}
}

// TestPostStarSchwoonExampleFindsSuccessorsOfInitialConfiguration is
// spec.md §8 Scenario 2: the same PDA, same seed configuration
// (0, AA), but post* instead, growing the automaton to accept every
// configuration reachable from (0, AA). (1, BAAA) is reachable after
// one push; (0, AABA) never is, since B is never left buried under an
// A while in control state 0.
func TestPostStarSchwoonExampleFindsSuccessorsOfInitialConfiguration(t *testing.T) {
	p := schwoonPDA(t)
	a := pautomaton.FromConfiguration(semiring.Bool, p.NumStates, p.NumLabels, 0, []uint32{0, 0})

	if err := PostStar(context.Background(), p, a, semiring.Bool); err != nil {
		t.Fatalf("Expected PostStar to succeed, got %v", err)
	}
	if !a.Accepts(1, []uint32{1, 0, 0, 0}) {
		t.Error("Expected post* to accept (1, BAAA): reached by pushing B onto the three-A stack grown after one full cycle")
	}
	if a.Accepts(0, []uint32{0, 0, 1, 0}) {
		t.Error("Expected post* to reject (0, AABA): state 0 only ever sees a pure run of A's on top of stack")
	}
}
