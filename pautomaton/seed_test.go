package pautomaton

import (
	"testing"

	"github.com/mkschou/pdareach/semiring"
)

func TestFromConfigurationChainsOneEdgePerSymbol(t *testing.T) {
	a := FromConfiguration(semiring.Int, 1, 3, 0, []uint32{2, 0, 1})
	if a.NumStates() != 4 {
		t.Errorf("Expected a chain of 3 fresh states plus the seed state, got NumStates()=%d", a.NumStates())
	}
	if _, _, tr, ok := a.EdgeTo(0, 2); !ok || tr.Kind != Initial {
		t.Fatalf("Expected an Initial-tagged edge out of state 0 reading the top label")
	}
	if !a.Accepts(0, []uint32{2, 0, 1}) {
		t.Error("Expected the seeded configuration itself to be accepted")
	}
}

func TestFromConfigurationEmptyStackAcceptsImmediately(t *testing.T) {
	a := FromConfiguration(semiring.Int, 1, 1, 0, nil)
	if !a.IsAccepting(0) {
		t.Error("Expected an empty initial stack to mark the initial state itself accepting")
	}
	if !a.Accepts(0, nil) {
		t.Error("Expected Accepts(0, nil) to be true")
	}
}
