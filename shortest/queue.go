// Package shortest implements the weighted variants of pre* and
// post*: the same edge-derivation rules as package saturation, but
// processed lightest-weight-first through a priority workset instead
// of a plain LIFO stack, so that the first time an edge settles at its
// final weight it is already the minimum achievable — spec.md §4.6.
package shortest

import (
	"container/heap"

	"github.com/mkschou/pdareach/pautomaton"
)

type pendingKind int

const (
	kindLabel pendingKind = iota
	kindEpsilon
)

type pending[W any] struct {
	kind   pendingKind
	from   int
	label  uint32
	to     int
	weight W
}

// lessFunc compares two weights under the automaton's semiring.
type lessFunc[W any] func(a, b W) bool

// priorityQueue orders pending edges by weight, breaking ties
// deterministically by (from, kind, label, to) so traces are
// reproducible across runs — spec.md §5's ordering guarantee for
// weighted saturation.
type priorityQueue[W any] struct {
	items []pending[W]
	less  lessFunc[W]
}

func (q *priorityQueue[W]) Len() int { return len(q.items) }

func (q *priorityQueue[W]) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	aLess, bLess := q.less(a.weight, b.weight), q.less(b.weight, a.weight)
	if aLess != bLess {
		return aLess
	}
	if a.from != b.from {
		return a.from < b.from
	}
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	if a.label != b.label {
		return a.label < b.label
	}
	return a.to < b.to
}

func (q *priorityQueue[W]) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *priorityQueue[W]) Push(x interface{}) { q.items = append(q.items, x.(pending[W])) }

func (q *priorityQueue[W]) Pop() interface{} {
	n := len(q.items)
	it := q.items[n-1]
	q.items = q.items[:n-1]
	return it
}

// stale reports whether a popped label entry no longer matches the
// automaton's current best weight for that edge — the lazy-deletion
// decrease-key emulation spec.md §9 calls for: a fresher, lighter push
// of the same edge has already been processed.
func stale[W any](a *pautomaton.Automaton[W], less lessFunc[W], p pending[W]) bool {
	switch p.kind {
	case kindEpsilon:
		w, _, ok := a.EpsilonEdge(p.from, p.to)
		if !ok {
			return true
		}
		return less(w, p.weight)
	default:
		for _, e := range a.EdgesTo(p.from, p.label) {
			if e.To == p.to {
				return less(e.Weight, p.weight)
			}
		}
		return true
	}
}

func newPriorityQueue[W any](less lessFunc[W]) *priorityQueue[W] {
	pq := &priorityQueue[W]{less: less}
	heap.Init(pq)
	return pq
}
