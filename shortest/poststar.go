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

// PostStar is package saturation's PostStar with the workset replaced
// by a weight-ordered priority queue; the weight accumulation along
// derivation chains is the same as the plain engine's: every edge this
// function adds carries sr.Extend of the precondition edge's settled
// weight and the firing rule's own weight, and with the lightest edge
// always processed first, once an edge is
// popped at weight w no lighter derivation of it can appear later —
// spec.md §4.6's correctness argument from semiring monotonicity.
func PostStar[W any](ctx context.Context, p *pda.PDA[W], a *pautomaton.Automaton[W], sr semiring.Semiring[W], opts ...saturation.Option[W]) error {
	o := resolveOptions(opts)
	less := func(x, y W) bool { return sr.Less(x, y) }
	pq := newPriorityQueue(less)
	reverseEps := make(map[int][]int)
	stopped := false

	addLabel := func(from int, label uint32, to int, tr pautomaton.Trace, w W) error {
		added, err := a.AddEdge(from, label, to, tr, w)
		if err != nil {
			return err
		}
		if added {
			heap.Push(pq, pending[W]{kind: kindLabel, from: from, label: label, to: to, weight: w})
			if o.Notify(saturation.EdgeEvent[W]{From: from, To: to, Label: label, Weight: w, Trace: tr}) {
				stopped = true
			}
		}
		return nil
	}
	addEps := func(from, to int, tr pautomaton.Trace, w W) error {
		added, err := a.AddEpsilonEdge(from, to, tr, w)
		if err != nil {
			return err
		}
		if added {
			reverseEps[to] = append(reverseEps[to], from)
			heap.Push(pq, pending[W]{kind: kindEpsilon, from: from, to: to, weight: w})
			if o.Notify(saturation.EdgeEvent[W]{From: from, To: to, Epsilon: true, Weight: w, Trace: tr}) {
				stopped = true
			}
		}
		return nil
	}

	for from := 0; from < a.NumStates(); from++ {
		for _, l := range a.Labels(from) {
			for _, e := range a.EdgesTo(from, l) {
				heap.Push(pq, pending[W]{kind: kindLabel, from: from, label: l, to: e.To, weight: e.Weight})
			}
		}
		for _, to := range a.EpsilonTargets(from) {
			reverseEps[to] = append(reverseEps[to], from)
			w, _, _ := a.EpsilonEdge(from, to)
			heap.Push(pq, pending[W]{kind: kindEpsilon, from: from, to: to, weight: w})
		}
	}

	auxFor := make(map[[2]int]int)
	getAux := func(to int, label uint32) int {
		key := [2]int{to, int(label)}
		if s, ok := auxFor[key]; ok {
			return s
		}
		s := a.AddState()
		auxFor[key] = s
		return s
	}

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return perr.Wrap(perr.CodeCancelled, err, "weighted poststar cancelled")
		}
		if stopped {
			return saturation.ErrStopped
		}
		e := heap.Pop(pq).(pending[W])
		if stale(a, less, e) {
			continue
		}

		if e.kind == kindLabel {
			for _, r := range p.RulesFrom(e.from, e.label) {
				tr := pautomaton.NewPostTraceRule(r.ID, e.from, e.label)
				w := sr.Extend(e.weight, r.Weight)
				switch r.Op {
				case pda.Pop:
					if err := addEps(r.To, e.to, tr, w); err != nil {
						return err
					}
				case pda.Swap:
					if err := addLabel(r.To, r.ToLabel, e.to, tr, w); err != nil {
						return err
					}
				case pda.Push:
					aux := getAux(r.To, r.ToLabel)
					if err := addLabel(r.To, r.ToLabel, aux, tr, sr.Zero()); err != nil {
						return err
					}
					if err := addLabel(aux, r.FromLabel, e.to, tr, w); err != nil {
						return err
					}
				}
			}
			for _, x := range reverseEps[e.from] {
				xw, _, _ := a.EpsilonEdge(x, e.from)
				if err := addLabel(x, e.label, e.to, pautomaton.NewPostTraceEpsilon(e.from), sr.Extend(xw, e.weight)); err != nil {
					return err
				}
			}
			continue
		}

		for _, l := range a.Labels(e.to) {
			for _, te := range a.EdgesTo(e.to, l) {
				w := sr.Extend(e.weight, te.Weight)
				if err := addLabel(e.from, l, te.To, pautomaton.NewPostTraceEpsilon(e.to), w); err != nil {
					return err
				}
			}
		}
	}
	if stopped {
		return saturation.ErrStopped
	}
	return nil
}

func resolveOptions[W any](opts []saturation.Option[W]) saturation.Options[W] {
	var o saturation.Options[W]
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
