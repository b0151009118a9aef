// Package saturation implements the pre* and post* fixpoint
// algorithms that enlarge a P-automaton to recognize, respectively,
// the backward and forward reachable configurations of a PDA from
// the configurations it already recognizes.
package saturation

import (
	"context"

	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/pda"
	"github.com/mkschou/pdareach/perr"
	"github.com/mkschou/pdareach/semiring"
)

type labelEdge[W any] struct {
	from   int
	label  uint32
	to     int
	weight W
}

// PreStar saturates a, enlarging it to accept every configuration that
// can reach, via zero or more PDA rule applications, a configuration
// already accepted by a. Pop rules add a direct, unconditional edge
// (backward, popping needs no lookahead). Swap rules add an edge once
// the target's post-swap continuation edge exists, its weight extended
// by the rule's own. Push rules need both the newly-pushed label's
// edge and the preserved label's edge to exist, resolved through a
// per-(rule, target) auxiliary state, with the derived edge's weight
// extending the rule and both precondition edges — spec.md §4.4 and
// its data model's "each edge carries the best weight found so far",
// grounded on original_source/PAutomaton.h's trace temp-state slot.
//
// ctx is checked once per workset iteration; a cancelled context
// aborts with CodeCancelled, leaving a in a consistent but incomplete
// state. opts may register an edge observer (see WithEdgeObserver); if
// it requests a stop, PreStar returns ErrStopped.
func PreStar[W any](ctx context.Context, p *pda.PDA[W], a *pautomaton.Automaton[W], sr semiring.Semiring[W], opts ...Option[W]) error {
	o := resolveOptions(opts)
	var queue []labelEdge[W]
	enqueue := func(e labelEdge[W]) {
		queue = append(queue, e)
	}
	stopped := false
	add := func(from int, label uint32, to int, tr pautomaton.Trace, w W) error {
		added, err := a.AddEdge(from, label, to, tr, w)
		if err != nil {
			return err
		}
		if added {
			enqueue(labelEdge[W]{from, label, to, w})
			if o.Notify(EdgeEvent[W]{From: from, To: to, Label: label, Weight: w, Trace: tr}) {
				stopped = true
			}
		}
		return nil
	}

	for _, r := range p.Rules {
		if r.Op == pda.Pop {
			if err := add(r.From, r.FromLabel, r.To, pautomaton.NewPreTrace(r.ID), r.Weight); err != nil {
				return err
			}
			if stopped {
				return ErrStopped
			}
		}
	}
	for from := 0; from < a.NumStates(); from++ {
		for _, l := range a.Labels(from) {
			for _, e := range a.EdgesTo(from, l) {
				enqueue(labelEdge[W]{from, l, e.To, e.Weight})
			}
		}
	}

	auxFor := make(map[[2]int]int)
	getAux := func(ruleID, target int) int {
		key := [2]int{ruleID, target}
		if s, ok := auxFor[key]; ok {
			return s
		}
		s := a.AddState()
		// Epsilon to the real target; s just allocated so this can't
		// fail on a range check.
		_, _ = a.AddEpsilonEdge(s, target, pautomaton.InitialTrace, sr.Zero())
		auxFor[key] = s
		return s
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return perr.Wrap(perr.CodeCancelled, err, "prestar cancelled")
		}
		e := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		for _, r := range p.RulesInto(e.from, pda.Swap, e.label) {
			w := sr.Extend(r.Weight, e.weight)
			if err := add(r.From, r.FromLabel, e.to, pautomaton.NewPreTrace(r.ID), w); err != nil {
				return err
			}
			if stopped {
				return ErrStopped
			}
		}

		// e is the first hop (q, γ', s) of a push pattern: look for the
		// rule's own preserved label γ out of s (=e.to).
		for _, r := range p.RulesInto(e.from, pda.Push, e.label) {
			for _, t := range a.LabeledTargetsFromClosure(e.to, r.FromLabel) {
				aux := getAux(r.ID, t.To)
				w := sr.Extend(r.Weight, sr.Extend(e.weight, t.Weight))
				if err := add(r.From, r.FromLabel, aux, pautomaton.NewPreTracePush(r.ID, aux), w); err != nil {
					return err
				}
				if stopped {
					return ErrStopped
				}
			}
		}

		// e is the second hop (s, γ, t) of a push pattern: look for an
		// existing first hop (q, γ', s) for every push rule matched on
		// e's label.
		for _, r := range p.PushRulesWithFromLabel(e.label) {
			for _, hop1 := range a.LabeledTargetsFromClosure(r.To, r.ToLabel) {
				if hop1.To != e.from {
					continue
				}
				aux := getAux(r.ID, e.to)
				w := sr.Extend(r.Weight, sr.Extend(hop1.Weight, e.weight))
				if err := add(r.From, r.FromLabel, aux, pautomaton.NewPreTracePush(r.ID, aux), w); err != nil {
					return err
				}
				if stopped {
					return ErrStopped
				}
			}
		}
	}
	return nil
}
