// Package nfa provides a minimal finite automaton literal used to
// seed a P-automaton from an explicit state/transition description
// instead of a single stack configuration, per spec.md §6's
// build_p_automaton_from_nfa.
package nfa

import "github.com/mkschou/pdareach/perr"

// Transition is one labeled edge of the NFA.
type Transition struct {
	From  int
	Label uint32
	To    int
}

// NFA is a small explicit automaton literal: dense states, labeled
// transitions, one initial state, a set of accepting states.
type NFA struct {
	NumStates   int
	Transitions []Transition
	Initial     int
	Accepting   []int
}

// Validate checks state and label ranges are internally consistent.
func (n *NFA) Validate(numLabels int) error {
	if n.Initial < 0 || n.Initial >= n.NumStates {
		return perr.New(perr.CodeInvalidAutomaton, "nfa initial state %d out of range [0,%d)", n.Initial, n.NumStates)
	}
	for _, acc := range n.Accepting {
		if acc < 0 || acc >= n.NumStates {
			return perr.New(perr.CodeInvalidAutomaton, "nfa accepting state %d out of range [0,%d)", acc, n.NumStates)
		}
	}
	for _, t := range n.Transitions {
		if t.From < 0 || t.From >= n.NumStates || t.To < 0 || t.To >= n.NumStates {
			return perr.New(perr.CodeInvalidAutomaton, "nfa transition %+v references an out-of-range state", t)
		}
		if int(t.Label) >= numLabels {
			return perr.New(perr.CodeInvalidAutomaton, "nfa transition %+v references out-of-range label", t)
		}
	}
	return nil
}
