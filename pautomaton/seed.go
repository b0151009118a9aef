package pautomaton

import "github.com/mkschou/pdareach/semiring"

// FromConfiguration builds the minimal P-automaton accepting exactly
// one configuration (initialState, stack), stack[0] being the top.
// This is the seed automaton spec.md §6's build_p_automaton
// constructs before any saturation runs: a chain of fresh states, one
// edge per stack symbol, the last state accepting.
func FromConfiguration[W any](sr semiring.Semiring[W], numPDAStates, numLabels, initialState int, stack []uint32) *Automaton[W] {
	a := New(sr, numPDAStates, numLabels)
	cur := initialState
	for _, label := range stack {
		next := a.AddState()
		_, _ = a.AddEdge(cur, label, next, InitialTrace, sr.Zero())
		cur = next
	}
	a.SetAccepting(cur)
	return a
}
