package saturation

import (
	"context"

	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/pda"
	"github.com/mkschou/pdareach/perr"
	"github.com/mkschou/pdareach/semiring"
)

type epsEdge[W any] struct {
	from, to int
	weight   W
}

// PostStar saturates a, enlarging it to accept every configuration
// reachable, via zero or more PDA rule applications, from a
// configuration already accepted by a. Pop rules add an epsilon edge
// conditioned on an existing edge (backward lookahead isn't needed,
// the automaton already encodes "what comes after"). Swap rules add
// a direct labeled edge under the same condition. Push rules need one
// auxiliary state per (target state, pushed label), shared across
// every rule that pushes that label into that state, fanning out to
// each rule's own preserved label — spec.md §4.5, grounded on
// original_source/PAutomaton.h's trace temp-state slot. Epsilon edges
// are propagated in both directions as they're discovered, matching
// spec.md §4.5's "treat x -ε-> y, y -ℓ-> z as x -ℓ-> z". Every derived
// edge's weight extends the firing rule's weight with the weight of
// the precondition edge that enabled it, per the data model's "each
// edge carries the best weight found so far".
//
// ctx is checked once per workset iteration; a cancelled context
// aborts with CodeCancelled, leaving a in a consistent but incomplete
// state. opts may register an edge observer (see WithEdgeObserver); if
// it requests a stop, PostStar returns ErrStopped.
func PostStar[W any](ctx context.Context, p *pda.PDA[W], a *pautomaton.Automaton[W], sr semiring.Semiring[W], opts ...Option[W]) error {
	o := resolveOptions(opts)
	var labelQueue []labelEdge[W]
	var epsQueue []epsEdge[W]
	reverseEps := make(map[int][]int)
	stopped := false

	addLabel := func(from int, label uint32, to int, tr pautomaton.Trace, w W) error {
		added, err := a.AddEdge(from, label, to, tr, w)
		if err != nil {
			return err
		}
		if added {
			labelQueue = append(labelQueue, labelEdge[W]{from, label, to, w})
			if o.Notify(EdgeEvent[W]{From: from, To: to, Label: label, Weight: w, Trace: tr}) {
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
			epsQueue = append(epsQueue, epsEdge[W]{from, to, w})
			if o.Notify(EdgeEvent[W]{From: from, To: to, Epsilon: true, Weight: w, Trace: tr}) {
				stopped = true
			}
		}
		return nil
	}

	for from := 0; from < a.NumStates(); from++ {
		for _, l := range a.Labels(from) {
			for _, e := range a.EdgesTo(from, l) {
				labelQueue = append(labelQueue, labelEdge[W]{from, l, e.To, e.Weight})
			}
		}
		for _, to := range a.EpsilonTargets(from) {
			reverseEps[to] = append(reverseEps[to], from)
			w, _, _ := a.EpsilonEdge(from, to)
			epsQueue = append(epsQueue, epsEdge[W]{from, to, w})
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

	for len(labelQueue) > 0 || len(epsQueue) > 0 {
		if err := ctx.Err(); err != nil {
			return perr.Wrap(perr.CodeCancelled, err, "poststar cancelled")
		}
		if stopped {
			return ErrStopped
		}
		if len(labelQueue) > 0 {
			e := labelQueue[len(labelQueue)-1]
			labelQueue = labelQueue[:len(labelQueue)-1]

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

		e := epsQueue[len(epsQueue)-1]
		epsQueue = epsQueue[:len(epsQueue)-1]
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
		return ErrStopped
	}
	return nil
}
