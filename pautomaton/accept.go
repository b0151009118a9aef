package pautomaton

import "container/heap"

// posKey is a DFS/Dijkstra search position: automaton state paired
// with how much of the queried stack has been consumed so far.
type posKey [2]int

// Step is one transition taken along an accepted path, carrying the
// provenance needed by trace.Reconstruct.
type Step struct {
	Epsilon bool
	Label   uint32
	From    int
	To      int
	Trace   Trace
}

// Accepts reports whether the configuration (state, stack) is
// accepted, where stack[0] is the top of stack. A plain linear DFS
// over (state, stack-index) pairs, not automaton-state recursion,
// matching the original's single explicit std::stack-based walk.
func (a *Automaton[W]) Accepts(state int, stack []uint32) bool {
	visited := make(map[posKey]bool)
	work := []posKey{{state, 0}}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		s, idx := cur[0], cur[1]
		if idx == len(stack) && a.IsAccepting(s) {
			return true
		}
		for _, t := range a.EpsilonTargets(s) {
			work = append(work, posKey{t, idx})
		}
		if idx < len(stack) {
			for _, e := range a.EdgesTo(s, stack[idx]) {
				work = append(work, posKey{e.To, idx + 1})
			}
		}
	}
	return false
}

// AcceptPath finds any accepting path for (state, stack) and returns
// the sequence of steps taken, in order from state to the accepting
// state. The "Any" mode of spec.md §4.3's accept_path: first path
// found, no shortest-weight guarantee.
func (a *Automaton[W]) AcceptPath(state int, stack []uint32) ([]Step, bool) {
	visited := make(map[posKey]bool)
	parent := make(map[posKey]posKey)
	parentStep := make(map[posKey]Step)
	start := posKey{state, 0}
	visited[start] = true
	work := []posKey{start}
	var goal posKey
	found := false
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		s, idx := cur[0], cur[1]
		if idx == len(stack) && a.IsAccepting(s) {
			goal = cur
			found = true
			break
		}
		for _, t := range a.EpsilonTargets(s) {
			np := posKey{t, idx}
			if visited[np] {
				continue
			}
			visited[np] = true
			_, tr, _ := a.EpsilonEdge(s, t)
			parent[np] = cur
			parentStep[np] = Step{Epsilon: true, From: s, To: t, Trace: tr}
			work = append(work, np)
		}
		if idx < len(stack) {
			for _, e := range a.EdgesTo(s, stack[idx]) {
				np := posKey{e.To, idx + 1}
				if !visited[np] {
					visited[np] = true
					parent[np] = cur
					parentStep[np] = Step{Label: stack[idx], From: s, To: e.To, Trace: e.Trace}
					work = append(work, np)
				}
			}
		}
	}
	if !found {
		return nil, false
	}
	return unwindSteps(start, goal, parent, parentStep), true
}

func unwindSteps(start, goal posKey, parent map[posKey]posKey, parentStep map[posKey]Step) []Step {
	var steps []Step
	cur := goal
	for cur != start {
		steps = append(steps, parentStep[cur])
		cur = parent[cur]
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

// pqEntry is one priority-workset entry: a candidate weight for
// reaching pos. Stale entries (pos already settled at a better
// weight) are skipped on pop rather than removed eagerly, the
// lazy-deletion decrease-key emulation spec.md §9 calls for.
type pqEntry[W any] struct {
	weight W
	pos    posKey
}

type positionQueue[W any] struct {
	items []pqEntry[W]
	sr    semiringLess[W]
}

type semiringLess[W any] interface {
	Less(a, b W) bool
}

func (pq *positionQueue[W]) Len() int            { return len(pq.items) }
func (pq *positionQueue[W]) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if pq.sr.Less(a.weight, b.weight) {
		return true
	}
	if pq.sr.Less(b.weight, a.weight) {
		return false
	}
	if a.pos[0] != b.pos[0] {
		return a.pos[0] < b.pos[0]
	}
	return a.pos[1] < b.pos[1]
}
func (pq *positionQueue[W]) Swap(i, j int)       { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }
func (pq *positionQueue[W]) Push(x interface{})  { pq.items = append(pq.items, x.(pqEntry[W])) }
func (pq *positionQueue[W]) Pop() interface{} {
	n := len(pq.items)
	it := pq.items[n-1]
	pq.items = pq.items[:n-1]
	return it
}

// ShortestAcceptPath finds the minimum-weight accepting path for
// (state, stack) under the automaton's semiring, Dijkstra-style over
// (state, stack-index) positions. The "Shortest" mode of spec.md
// §4.3's accept_path, mirroring the original's lexicographic
// (state, stack_index) tie-break via the position key itself.
func (a *Automaton[W]) ShortestAcceptPath(state int, stack []uint32) ([]Step, W, bool) {
	best := make(map[posKey]W)
	parent := make(map[posKey]posKey)
	parentStep := make(map[posKey]Step)
	start := posKey{state, 0}
	best[start] = a.sr.Zero()
	pq := &positionQueue[W]{sr: a.sr}
	heap.Init(pq)
	heap.Push(pq, pqEntry[W]{weight: a.sr.Zero(), pos: start})
	var goal posKey
	found := false
	for pq.Len() > 0 {
		top := heap.Pop(pq).(pqEntry[W])
		cur, w := top.pos, top.weight
		if b, ok := best[cur]; ok && a.sr.Less(b, w) {
			continue
		}
		s, idx := cur[0], cur[1]
		if idx == len(stack) && a.IsAccepting(s) {
			goal = cur
			found = true
			break
		}
		for _, t := range a.EpsilonTargets(s) {
			ew, tr, _ := a.EpsilonEdge(s, t)
			nw := a.sr.Extend(w, ew)
			np := posKey{t, idx}
			if b, ok := best[np]; !ok || a.sr.Less(nw, b) {
				best[np] = nw
				parent[np] = cur
				parentStep[np] = Step{Epsilon: true, From: s, To: t, Trace: tr}
				heap.Push(pq, pqEntry[W]{weight: nw, pos: np})
			}
		}
		if idx < len(stack) {
			for _, e := range a.EdgesTo(s, stack[idx]) {
				nw := a.sr.Extend(w, e.Weight)
				np := posKey{e.To, idx + 1}
				if b, ok2 := best[np]; !ok2 || a.sr.Less(nw, b) {
					best[np] = nw
					parent[np] = cur
					parentStep[np] = Step{Label: stack[idx], From: s, To: e.To, Trace: e.Trace}
					heap.Push(pq, pqEntry[W]{weight: nw, pos: np})
				}
			}
		}
	}
	if !found {
		var zero W
		return nil, zero, false
	}
	return unwindSteps(start, goal, parent, parentStep), best[goal], true
}
