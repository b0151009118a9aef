package shortest

import (
	"container/heap"
	"context"

	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/pda"
	"github.com/mkschou/pdareach/perr"
	"github.com/mkschou/pdareach/saturation"
	"github.com/mkschou/pdareach/semiring"
)

// PreStar is package saturation's PreStar with the workset replaced by
// a weight-ordered priority queue: the backward edge-derivation rules
// are identical (spec.md §4.4), only the processing order changes.
// Correctness of "first settle is final" rests on the semiring being
// monotone — Extend never produces a lighter result than either
// operand — which callers are expected to uphold by contract.
func PreStar[W any](ctx context.Context, p *pda.PDA[W], a *pautomaton.Automaton[W], sr semiring.Semiring[W], opts ...saturation.Option[W]) error {
	o := resolveOptions(opts)
	less := func(x, y W) bool { return sr.Less(x, y) }
	pq := newPriorityQueue(less)
	stopped := false

	enqueue := func(kind pendingKind, from int, label uint32, to int, w W) {
		heap.Push(pq, pending[W]{kind: kind, from: from, label: label, to: to, weight: w})
	}
	add := func(from int, label uint32, to int, tr pautomaton.Trace, w W) error {
		added, err := a.AddEdge(from, label, to, tr, w)
		if err != nil {
			return err
		}
		if added {
			enqueue(kindLabel, from, label, to, w)
			if o.Notify(saturation.EdgeEvent[W]{From: from, To: to, Label: label, Weight: w, Trace: tr}) {
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
				return saturation.ErrStopped
			}
		}
	}
	for from := 0; from < a.NumStates(); from++ {
		for _, l := range a.Labels(from) {
			for _, e := range a.EdgesTo(from, l) {
				enqueue(kindLabel, from, l, e.To, e.Weight)
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
		_, _ = a.AddEpsilonEdge(s, target, pautomaton.InitialTrace, sr.Zero())
		auxFor[key] = s
		return s
	}

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return perr.Wrap(perr.CodeCancelled, err, "weighted prestar cancelled")
		}
		e := heap.Pop(pq).(pending[W])
		if stale(a, less, e) {
			continue
		}

		for _, r := range p.RulesInto(e.from, pda.Swap, e.label) {
			if err := add(r.From, r.FromLabel, e.to, pautomaton.NewPreTrace(r.ID), sr.Extend(r.Weight, e.weight)); err != nil {
				return err
			}
			if stopped {
				return saturation.ErrStopped
			}
		}

		for _, r := range p.RulesInto(e.from, pda.Push, e.label) {
			for _, t := range a.LabeledTargetsFromClosure(e.to, r.FromLabel) {
				aux := getAux(r.ID, t.To)
				w := sr.Extend(r.Weight, sr.Extend(e.weight, t.Weight))
				if err := add(r.From, r.FromLabel, aux, pautomaton.NewPreTracePush(r.ID, aux), w); err != nil {
					return err
				}
				if stopped {
					return saturation.ErrStopped
				}
			}
		}

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
					return saturation.ErrStopped
				}
			}
		}
	}
	return nil
}
