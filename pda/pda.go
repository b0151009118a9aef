// Package pda implements the pushdown-automaton model: control states
// and rules indexed by (from-state, top-of-stack label) for fast
// lookup in both saturation directions. A PDA is immutable after
// Build and safe to share read-only across concurrent solves.
package pda

import "github.com/mkschou/pdareach/perr"

// Op is the stack operation a rule performs.
type Op int

const (
	// Pop removes the top-of-stack label.
	Pop Op = iota
	// Swap replaces the top-of-stack label with a new one.
	Swap
	// Push keeps the matched top-of-stack label and adds a new label
	// above it, growing the stack by one.
	Push
)

func (o Op) String() string {
	switch o {
	case Pop:
		return "pop"
	case Swap:
		return "swap"
	case Push:
		return "push"
	default:
		return "unknown"
	}
}

// Unit is an empty weight type for PDAs whose rules carry no cost.
// Package semiring defines no semiring over Unit, so a PDA[Unit]
// cannot be solved; unweighted solving uses bool with semiring.Bool.
type Unit struct{}

// Rule is (p, γ) → (q, op, w): from state p matching top label γ,
// transition to state q performing op (writing ToLabel for
// Swap/Push), with weight w.
type Rule[W any] struct {
	ID        int
	From      int
	To        int
	FromLabel uint32
	Op        Op
	ToLabel   uint32
	Weight    W
}

// PDA is the immutable triple (Q, Γ, R). States and labels are dense
// integers 0..NumStates/NumLabels.
type PDA[W any] struct {
	NumStates int
	NumLabels int
	Rules     []Rule[W]

	bySource map[uint64][]int
	byTarget map[uint64][]int
	byPushFromLabel map[uint32][]int
}

func srcKey(from int, label uint32) uint64 {
	return uint64(from)<<32 | uint64(label)
}

// tgtKey packs (to, op, label); Pop rules are keyed with label 0 since
// Pop carries no produced label, so all Pop rules into `to` share one
// bucket regardless of the popped label used to reach them. The
// packing assumes op fits in the 8 bits between bit 32 and bit 40 and
// label fits in 32 bits; Op only ever takes the three values above, so
// this holds for any realistic alphabet.
func tgtKey(to int, op Op, label uint32) uint64 {
	if op == Pop {
		label = 0
	}
	return uint64(to)<<40 | uint64(op)<<32 | uint64(label)
}

// RulesFrom returns the rules matching (from, label), used by post*.
func (p *PDA[W]) RulesFrom(from int, label uint32) []Rule[W] {
	idx := p.bySource[srcKey(from, label)]
	if idx == nil {
		return nil
	}
	out := make([]Rule[W], len(idx))
	for i, id := range idx {
		out[i] = p.Rules[id]
	}
	return out
}

// RulesInto returns the rules whose right-hand side is (to, op,
// label), used by pre*. For op == Pop, label is ignored.
func (p *PDA[W]) RulesInto(to int, op Op, label uint32) []Rule[W] {
	idx := p.byTarget[tgtKey(to, op, label)]
	if idx == nil {
		return nil
	}
	out := make([]Rule[W], len(idx))
	for i, id := range idx {
		out[i] = p.Rules[id]
	}
	return out
}

// Remap produces a new PDA over a coarser alphabet by applying f to
// every label that appears in a rule. This is the label-remapping
// hook spec.md leaves for an external abstraction/refinement layer;
// pdareach exposes the hook but implements no refine/splitting on top
// of it (see DESIGN.md).
func (p *PDA[W]) Remap(numAbstractLabels int, f func(uint32) uint32) *PDA[W] {
	out := &PDA[W]{NumStates: p.NumStates, NumLabels: numAbstractLabels}
	out.Rules = make([]Rule[W], len(p.Rules))
	for i, r := range p.Rules {
		nr := r
		nr.FromLabel = f(r.FromLabel)
		if r.Op != Pop {
			nr.ToLabel = f(r.ToLabel)
		}
		out.Rules[i] = nr
	}
	out.buildIndices()
	return out
}

// PushRulesWithFromLabel returns every Push rule matched on the given
// label, used by pre* to find the second hop of a push pattern when
// the discovered edge is the second hop rather than the first.
func (p *PDA[W]) PushRulesWithFromLabel(label uint32) []Rule[W] {
	idx := p.byPushFromLabel[label]
	if idx == nil {
		return nil
	}
	out := make([]Rule[W], len(idx))
	for i, id := range idx {
		out[i] = p.Rules[id]
	}
	return out
}

func (p *PDA[W]) buildIndices() {
	p.bySource = make(map[uint64][]int, len(p.Rules))
	p.byTarget = make(map[uint64][]int, len(p.Rules))
	p.byPushFromLabel = make(map[uint32][]int)
	for _, r := range p.Rules {
		sk := srcKey(r.From, r.FromLabel)
		p.bySource[sk] = append(p.bySource[sk], r.ID)
		tk := tgtKey(r.To, r.Op, r.ToLabel)
		p.byTarget[tk] = append(p.byTarget[tk], r.ID)
		if r.Op == Push {
			p.byPushFromLabel[r.FromLabel] = append(p.byPushFromLabel[r.FromLabel], r.ID)
		}
	}
}

func checkState(numStates, s int) error {
	if s < 0 || s >= numStates {
		return perr.New(perr.CodeInvalidPDA, "state %d out of range [0,%d)", s, numStates)
	}
	return nil
}

func checkLabel(numLabels int, l uint32) error {
	if int(l) >= numLabels {
		return perr.New(perr.CodeInvalidPDA, "label %d out of range [0,%d)", l, numLabels)
	}
	return nil
}
