// Package pautomaton implements the P-automaton: a finite automaton
// over the PDA's stack alphabet whose first NumPDAStates states are
// the PDA's own control states, used to represent infinite sets of
// stack configurations and to carry the provenance needed to
// reconstruct a witness trace.
package pautomaton

import (
	"sort"

	"github.com/mkschou/pdareach/perr"
	"github.com/mkschou/pdareach/semiring"
)

// edgeEntry is the best weight and provenance known for one
// (from, label, to) transition.
type edgeEntry[W any] struct {
	weight W
	trace  Trace
}

// epsEntry is the best weight and provenance known for one
// (from, to) epsilon transition.
type epsEntry[W any] struct {
	weight W
	trace  Trace
}

// TargetEdge is one outgoing transition, as returned by EdgesTo.
type TargetEdge[W any] struct {
	To     int
	Weight W
	Trace  Trace
}

// Automaton is a P-automaton over a fixed PDA alphabet. States
// 0..NumPDAStates-1 are the PDA's own control states; AddState grows
// the state set with fresh auxiliary/automaton-only states. A state
// may have several outgoing edges under the same label to distinct
// targets: P-automata are genuinely nondeterministic, so Automaton
// never collapses a label to a single target.
type Automaton[W any] struct {
	sr           semiring.Semiring[W]
	NumPDAStates int
	numLabels    int
	numStates    int
	accepting    map[int]bool
	edges        map[int]map[uint32]map[int]edgeEntry[W]
	epsilon      map[int]map[int]epsEntry[W]
}

// New creates a P-automaton whose state space starts at exactly the
// PDA's control states (0..numPDAStates-1); AddState allocates beyond
// that range.
func New[W any](sr semiring.Semiring[W], numPDAStates, numLabels int) *Automaton[W] {
	return &Automaton[W]{
		sr:           sr,
		NumPDAStates: numPDAStates,
		numLabels:    numLabels,
		numStates:    numPDAStates,
		accepting:    make(map[int]bool),
		edges:        make(map[int]map[uint32]map[int]edgeEntry[W]),
		epsilon:      make(map[int]map[int]epsEntry[W]),
	}
}

// NumStates is the current size of the state set, growing as AddState
// allocates auxiliary states for saturation.
func (a *Automaton[W]) NumStates() int { return a.numStates }

// AddState allocates and returns a fresh automaton-only state.
func (a *Automaton[W]) AddState() int {
	s := a.numStates
	a.numStates++
	return s
}

// SetAccepting marks state as accepting.
func (a *Automaton[W]) SetAccepting(state int) { a.accepting[state] = true }

// IsAccepting reports whether state is accepting.
func (a *Automaton[W]) IsAccepting(state int) bool { return a.accepting[state] }

// HasAcceptingState reports whether any state is accepting, used by
// the product automaton to decide when it can stop growing early.
func (a *Automaton[W]) HasAcceptingState() bool { return len(a.accepting) > 0 }

func (a *Automaton[W]) checkState(s int) error {
	if s < 0 || s >= a.numStates {
		return perr.New(perr.CodeInvalidAutomaton, "state %d out of range [0,%d)", s, a.numStates)
	}
	return nil
}

// AddEdge adds or strengthens the transition from -γ-> to. Returns
// true if the edge is new or its weight improved (the saturation
// workset signal for "re-enqueue"), false if the existing entry
// already dominates. Distinct targets under the same label coexist;
// only a repeated (from, label, to) triple competes on weight.
func (a *Automaton[W]) AddEdge(from int, label uint32, to int, tr Trace, weight W) (bool, error) {
	if err := a.checkState(from); err != nil {
		return false, err
	}
	if err := a.checkState(to); err != nil {
		return false, err
	}
	if int(label) >= a.numLabels {
		return false, perr.New(perr.CodeInvalidAutomaton, "label %d out of range [0,%d)", label, a.numLabels)
	}
	byLabel, ok := a.edges[from]
	if !ok {
		byLabel = make(map[uint32]map[int]edgeEntry[W])
		a.edges[from] = byLabel
	}
	byTo, ok := byLabel[label]
	if !ok {
		byTo = make(map[int]edgeEntry[W])
		byLabel[label] = byTo
	}
	cur, exists := byTo[to]
	if exists && !a.sr.Less(weight, cur.weight) {
		return false, nil
	}
	byTo[to] = edgeEntry[W]{weight: weight, trace: tr}
	return true, nil
}

// AddEpsilonEdge adds or strengthens an epsilon transition from->to.
func (a *Automaton[W]) AddEpsilonEdge(from, to int, tr Trace, weight W) (bool, error) {
	if err := a.checkState(from); err != nil {
		return false, err
	}
	if err := a.checkState(to); err != nil {
		return false, err
	}
	byTo, ok := a.epsilon[from]
	if !ok {
		byTo = make(map[int]epsEntry[W])
		a.epsilon[from] = byTo
	}
	cur, exists := byTo[to]
	if exists && !a.sr.Less(weight, cur.weight) {
		return false, nil
	}
	byTo[to] = epsEntry[W]{weight: weight, trace: tr}
	return true, nil
}

// EdgesTo returns every transition from `from` reading `label`, in
// ascending target order.
func (a *Automaton[W]) EdgesTo(from int, label uint32) []TargetEdge[W] {
	byTo := a.edges[from][label]
	out := make([]TargetEdge[W], 0, len(byTo))
	for to, e := range byTo {
		out = append(out, TargetEdge[W]{To: to, Weight: e.weight, Trace: e.trace})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out
}

// EdgeTo reports one transition from `from` reading `label` (the
// smallest target, for determinism), if any. The saturation, product
// and trace code iterate EdgesTo instead, since one label may lead to
// several targets.
func (a *Automaton[W]) EdgeTo(from int, label uint32) (to int, weight W, tr Trace, ok bool) {
	edges := a.EdgesTo(from, label)
	if len(edges) == 0 {
		return 0, weight, Trace{}, false
	}
	return edges[0].To, edges[0].Weight, edges[0].Trace, true
}

// Labels returns the sorted labels with an outgoing edge from state.
func (a *Automaton[W]) Labels(state int) []uint32 {
	byLabel := a.edges[state]
	out := make([]uint32, 0, len(byLabel))
	for l := range byLabel {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EpsilonClosure returns the states reachable from state via zero or
// more epsilon edges, including state itself.
func (a *Automaton[W]) EpsilonClosure(state int) []int {
	seen := map[int]bool{state: true}
	order := []int{state}
	queue := []int{state}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, t := range a.EpsilonTargets(s) {
			if !seen[t] {
				seen[t] = true
				order = append(order, t)
				queue = append(queue, t)
			}
		}
	}
	return order
}

// LabelsFromClosure returns the sorted, duplicate-free union of labels
// with an outgoing edge from any state in state's epsilon closure —
// the label set the product driver intersects across both input
// automata without needing to flatten epsilon chains first.
func (a *Automaton[W]) LabelsFromClosure(state int) []uint32 {
	seen := make(map[uint32]bool)
	var out []uint32
	for _, s := range a.EpsilonClosure(state) {
		for _, l := range a.Labels(s) {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LabeledTargetsFromClosure finds every target reachable from state by
// following zero or more epsilon edges, then one edge labeled label.
func (a *Automaton[W]) LabeledTargetsFromClosure(state int, label uint32) []TargetEdge[W] {
	var out []TargetEdge[W]
	for _, s := range a.EpsilonClosure(state) {
		out = append(out, a.EdgesTo(s, label)...)
	}
	return out
}

// HasLabeledEdgeFromClosure reports whether state reaches target by
// following zero or more epsilon edges then one edge labeled label.
func (a *Automaton[W]) HasLabeledEdgeFromClosure(state int, label uint32, target int) bool {
	for _, e := range a.LabeledTargetsFromClosure(state, label) {
		if e.To == target {
			return true
		}
	}
	return false
}

// EpsilonEdge reports the epsilon transition from->to, if any.
func (a *Automaton[W]) EpsilonEdge(from, to int) (weight W, tr Trace, ok bool) {
	byTo, exists := a.epsilon[from]
	if !exists {
		return weight, Trace{}, false
	}
	e, exists := byTo[to]
	if !exists {
		return weight, Trace{}, false
	}
	return e.weight, e.trace, true
}

// EpsilonTargets returns the sorted epsilon successors of state.
func (a *Automaton[W]) EpsilonTargets(state int) []int {
	byTo := a.epsilon[state]
	out := make([]int, 0, len(byTo))
	for t := range byTo {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}
