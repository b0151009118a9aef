package pautomaton

import (
	"github.com/mkschou/pdareach/nfa"
	"github.com/mkschou/pdareach/semiring"
)

// FromNFA builds a P-automaton whose states, beyond the PDA's own
// control states, are exactly n's states, epsilon-linked from
// controlState into n's initial state. n's accepting states become
// accepting in the result. spec.md §6's build_p_automaton_from_nfa:
// the one constructor that lets a caller hand-specify an automaton
// shape richer than a single stack configuration (e.g. a regular set
// of initial stacks).
func FromNFA[W any](sr semiring.Semiring[W], numPDAStates, numLabels, controlState int, n *nfa.NFA) (*Automaton[W], error) {
	if err := n.Validate(numLabels); err != nil {
		return nil, err
	}
	a := New(sr, numPDAStates, numLabels)
	offset := make([]int, n.NumStates)
	for i := range offset {
		offset[i] = a.AddState()
	}
	for _, t := range n.Transitions {
		if _, err := a.AddEdge(offset[t.From], t.Label, offset[t.To], InitialTrace, sr.Zero()); err != nil {
			return nil, err
		}
	}
	for _, acc := range n.Accepting {
		a.SetAccepting(offset[acc])
	}
	if _, err := a.AddEpsilonEdge(controlState, offset[n.Initial], InitialTrace, sr.Zero()); err != nil {
		return nil, err
	}
	return a, nil
}
