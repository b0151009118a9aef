package product

import "container/heap"

// PathStep is one labeled transition along a product automaton path.
type PathStep struct {
	From, To int
	Label    uint32
}

// FindPath returns any path from an initial product state (a PDA
// control state) to an accepting one, the "Any" trace mode of
// spec.md §4.8 — plain DFS over the product's own edges, grounded on
// original_source/SolverInstance.h::find_path's non-Dijkstra branch.
func (d *Driver[W]) FindPath() ([]PathStep, bool) {
	for i := 0; i < d.pdaSize; i++ {
		if d.product.IsAccepting(i) {
			return nil, true
		}
	}
	seen := make(map[int]bool)
	parent := make(map[int]int)
	parentLabel := make(map[int]uint32)
	var stack []int
	for i := 0; i < d.pdaSize; i++ {
		seen[i] = true
		stack = append(stack, i)
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, l := range d.product.Labels(cur) {
			for _, e := range d.product.EdgesTo(cur, l) {
				if seen[e.To] {
					continue
				}
				seen[e.To] = true
				parent[e.To] = cur
				parentLabel[e.To] = l
				if d.product.IsAccepting(e.To) {
					return unwindPath(e.To, parent, parentLabel), true
				}
				stack = append(stack, e.To)
			}
		}
	}
	return nil, false
}

func unwindPath(goal int, parent map[int]int, parentLabel map[int]uint32) []PathStep {
	var steps []PathStep
	cur := goal
	for {
		p, ok := parent[cur]
		if !ok {
			break
		}
		steps = append(steps, PathStep{From: p, To: cur, Label: parentLabel[cur]})
		cur = p
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

type pqItem[W any] struct {
	weight W
	state  int
}

type statePQ[W any] struct {
	items []pqItem[W]
	less  func(a, b W) bool
}

func (q *statePQ[W]) Len() int            { return len(q.items) }
func (q *statePQ[W]) Less(i, j int) bool  { return q.less(q.items[i].weight, q.items[j].weight) }
func (q *statePQ[W]) Swap(i, j int)       { q.items[i], q.items[j] = q.items[j], q.items[i] }
func (q *statePQ[W]) Push(x interface{})  { q.items = append(q.items, x.(pqItem[W])) }
func (q *statePQ[W]) Pop() interface{} {
	n := len(q.items)
	it := q.items[n-1]
	q.items = q.items[:n-1]
	return it
}

// ShortestPath is the weighted "Shortest" trace mode of spec.md §4.8:
// Dijkstra over the product's own states (not stack positions —
// there is no fixed query stack here, the product IS the search
// space), starting every PDA control state at zero weight, grounded
// on original_source/SolverInstance.h::find_path's Dijkstra branch.
func (d *Driver[W]) ShortestPath() ([]PathStep, W, bool) {
	sr := d.sr
	best := make(map[int]W)
	parent := make(map[int]int)
	parentLabel := make(map[int]uint32)
	pq := &statePQ[W]{less: sr.Less}
	heap.Init(pq)
	for i := 0; i < d.pdaSize; i++ {
		best[i] = sr.Zero()
		heap.Push(pq, pqItem[W]{weight: sr.Zero(), state: i})
	}
	var goal int
	found := false
	for pq.Len() > 0 {
		top := heap.Pop(pq).(pqItem[W])
		s, w := top.state, top.weight
		if b, ok := best[s]; ok && sr.Less(b, w) {
			continue
		}
		if d.product.IsAccepting(s) {
			goal = s
			found = true
			break
		}
		for _, l := range d.product.Labels(s) {
			for _, e := range d.product.EdgesTo(s, l) {
				nw := sr.Extend(w, e.Weight)
				if b, ok := best[e.To]; !ok || sr.Less(nw, b) {
					best[e.To] = nw
					parent[e.To] = s
					parentLabel[e.To] = l
					heap.Push(pq, pqItem[W]{weight: nw, state: e.To})
				}
			}
		}
	}
	if !found {
		var zero W
		return nil, zero, false
	}
	return unwindPath(goal, parent, parentLabel), best[goal], true
}
