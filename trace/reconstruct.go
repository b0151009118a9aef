// Package trace walks the annotated edges of a witness path back
// through their rule provenance to recover the concrete sequence of
// PDA configurations the witness represents — spec.md §4.8, grounded
// on original_source/PAutomaton.h's trace_t chain (pre_trace/
// post_trace/epsilon) and implemented as an explicit loop over the
// step list rather than recursion per configuration, since the chain
// length is bounded only by the number of rule firings in the
// witness.
package trace

import (
	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/pda"
	"github.com/mkschou/pdareach/perr"
	"github.com/mkschou/pdareach/product"
)

// Mode selects which unwind order applies, matching whichever
// saturation direction produced the evolved side of the witness:
// post*-built witnesses are rebuilt from their last configuration
// backward, pre*-built witnesses from their first configuration
// forward.
type Mode int

const (
	// ModePost unwinds post*-generated edges: each resolved rule
	// firing describes how a *later* configuration was produced from
	// an earlier one, so configurations are built from the witness's
	// final configuration backward and the result is reversed before
	// returning.
	ModePost Mode = iota
	// ModePre unwinds pre*-generated edges: each resolved rule firing
	// already runs forward in time (pre* edges are added directly
	// from a rule's own (from, to) pair), so configurations are built
	// forward with no reversal.
	ModePre
)

// Configuration is one (state, stack) pair along a witness execution;
// stack[0] is the top of stack.
type Configuration struct {
	State int
	Stack []uint32
}

const maxChainDepth = 1 << 16

// pathPos is one position along a witness path: either a step of a
// single component automaton's own accept path (which may include
// epsilon hops) or a labeled hop of a product automaton path (which
// never does, the product carries no epsilon edges of its own).
type pathPos struct {
	from, to  int
	label     uint32
	isEpsilon bool
	trace     pautomaton.Trace
}

// resolveChain follows one position's trace to the full, ordered list
// of rule firings it represents. Usually this is zero firings
// (Initial, literal seed content) or one, but a post*-propagated
// labeled edge can silently fold in an epsilon-edge's own rule firing
// (typically a Pop) ahead of the rule that produced the edge it
// copied — spec.md's "recursively unwind pointer chains introduced by
// ε-edges".
func resolveChain[W any](a *pautomaton.Automaton[W], pos pathPos, depth int) ([]int, error) {
	if depth > maxChainDepth {
		return nil, perr.New(perr.CodeInternalInvariant, "trace chain exceeded %d hops", maxChainDepth)
	}
	tr := pos.trace
	switch tr.Kind {
	case pautomaton.Initial:
		return nil, nil
	case pautomaton.PreTrace, pautomaton.PostTraceRule:
		return []int{tr.RuleID}, nil
	case pautomaton.PostTraceEpsilon:
		var chain []int
		if _, etr, ok := a.EpsilonEdge(pos.from, tr.EpsilonState); ok {
			epsChain, err := resolveChain(a, pathPos{from: pos.from, to: tr.EpsilonState, isEpsilon: true, trace: etr}, depth+1)
			if err != nil {
				return nil, err
			}
			chain = append(chain, epsChain...)
		}
		var nextTr pautomaton.Trace
		found := false
		for _, e := range a.EdgesTo(tr.EpsilonState, pos.label) {
			if e.To == pos.to {
				nextTr = e.Trace
				found = true
				break
			}
		}
		if !found {
			return nil, perr.New(perr.CodeInternalInvariant,
				"broken trace chain: no edge (%d,%d,%d)", tr.EpsilonState, pos.label, pos.to)
		}
		subChain, err := resolveChain(a, pathPos{from: tr.EpsilonState, to: pos.to, label: pos.label, trace: nextTr}, depth+1)
		if err != nil {
			return nil, err
		}
		return append(chain, subChain...), nil
	default:
		return nil, perr.New(perr.CodeInternalInvariant, "unrecognized trace kind %v", tr.Kind)
	}
}

// resolvedStep is one atomic rule firing (or literal, unresolved
// position) after chain resolution and push-hop coalescing.
type resolvedStep struct {
	ruleID  int
	ok      bool
	consume int // label positions this firing accounts for.
}

// flatten resolves every position's chain and splits it into atomic
// firings: every firing but the last in a chain consumes no label
// position of its own (it is pure epsilon/state-merge bookkeeping,
// e.g. a folded-in Pop), and the last one consumes exactly the
// position's own span. A push rule's two physical hops (both tagged
// with the same ruleID) are then coalesced into one firing spanning
// both.
func flatten[W any](a *pautomaton.Automaton[W], p *pda.PDA[W], positions []pathPos) ([]resolvedStep, error) {
	var flat []resolvedStep
	for _, pos := range positions {
		span := 1
		if pos.isEpsilon {
			span = 0
		}
		chain, err := resolveChain(a, pos, 0)
		if err != nil {
			return nil, err
		}
		if len(chain) == 0 {
			flat = append(flat, resolvedStep{ok: false, consume: span})
			continue
		}
		for i, id := range chain {
			c := 0
			if i == len(chain)-1 {
				c = span
			}
			flat = append(flat, resolvedStep{ruleID: id, ok: true, consume: c})
		}
	}
	out := flat[:0]
	for i := 0; i < len(flat); i++ {
		cur := flat[i]
		if cur.ok && i+1 < len(flat) && flat[i+1].ok && flat[i+1].ruleID == cur.ruleID {
			if cur.ruleID < 0 || cur.ruleID >= len(p.Rules) || p.Rules[cur.ruleID].Op == pda.Push {
				cur.consume += flat[i+1].consume
				i++
			}
		}
		out = append(out, cur)
	}
	return out, nil
}

// stepsToPositions converts a component automaton's own accept path
// (which may include epsilon hops) into path positions.
func stepsToPositions(steps []pautomaton.Step) []pathPos {
	out := make([]pathPos, len(steps))
	for i, s := range steps {
		out[i] = pathPos{from: s.From, to: s.To, label: s.Label, isEpsilon: s.Epsilon, trace: s.Trace}
	}
	return out
}

// Reconstruct recovers the configuration sequence a single-automaton
// witness path represents: steps is the path from startState to an
// accepting state, from pautomaton.AcceptPath or ShortestAcceptPath.
// stack is the full witness stack read along steps (stack[i] is the
// label of the i-th labeled step, top of stack first).
func Reconstruct[W any](p *pda.PDA[W], a *pautomaton.Automaton[W], startState int, stack []uint32, steps []pautomaton.Step, mode Mode) ([]Configuration, error) {
	resolved, err := flatten(a, p, stepsToPositions(steps))
	if err != nil {
		return nil, err
	}
	if mode == ModePre {
		return reconstructForward(p, startState, stack, resolved)
	}
	return reconstructBackward(p, startState, stack, resolved)
}

// ReconstructProduct recovers the configuration sequence a product
// automaton witness represents: steps is a path from a PDA control
// state to an accepting product state (product.FindPath/
// ShortestPath), growing is the component automaton that actually
// evolved under saturation (initial for Post, final for Pre), and
// original maps a product state back to growing's own state —
// product.Driver.Original, projected to whichever side grew. stack is
// the witness stack (the path's labels in order).
func ReconstructProduct[W any](p *pda.PDA[W], growing *pautomaton.Automaton[W], original func(productState int) int, startState int, stack []uint32, steps []product.PathStep, mode Mode) ([]Configuration, error) {
	positions := make([]pathPos, len(steps))
	for i, s := range steps {
		positions[i] = pathPos{from: original(s.From), to: original(s.To), label: s.Label}
		var tr pautomaton.Trace
		found := false
		for _, e := range growing.EdgesTo(positions[i].from, s.Label) {
			if e.To == positions[i].to {
				tr = e.Trace
				found = true
				break
			}
		}
		if !found {
			return nil, perr.New(perr.CodeInternalInvariant,
				"no growing-side edge (%d,%d,%d) backing product hop", positions[i].from, s.Label, positions[i].to)
		}
		positions[i].trace = tr
	}
	resolved, err := flatten(growing, p, positions)
	if err != nil {
		return nil, err
	}
	if mode == ModePre {
		return reconstructForward(p, startState, stack, resolved)
	}
	return reconstructBackward(p, startState, stack, resolved)
}

// reconstructForward applies pre*-resolved rule firings directly in
// path order: the rule at the current position fires from rule.From
// to rule.To, inserting whatever the rule's operation puts on top.
func reconstructForward[W any](p *pda.PDA[W], startState int, stack []uint32, resolved []resolvedStep) ([]Configuration, error) {
	cur := Configuration{State: startState, Stack: append([]uint32(nil), stack...)}
	configs := []Configuration{cur}
	pos := 0
	for _, r := range resolved {
		if !r.ok {
			pos += r.consume
			continue
		}
		if r.ruleID < 0 || r.ruleID >= len(p.Rules) {
			return nil, perr.New(perr.CodeInternalInvariant, "trace references unknown rule %d", r.ruleID)
		}
		rule := p.Rules[r.ruleID]
		var newTop []uint32
		switch rule.Op {
		case pda.Pop:
			newTop = nil
		case pda.Swap:
			newTop = []uint32{rule.ToLabel}
		case pda.Push:
			newTop = []uint32{rule.ToLabel, rule.FromLabel}
		}
		var newStack []uint32
		newStack = append(newStack, cur.Stack[:pos]...)
		newStack = append(newStack, newTop...)
		newStack = append(newStack, cur.Stack[pos+1:]...)
		cur = Configuration{State: rule.To, Stack: newStack}
		configs = append(configs, cur)
		pos += len(newTop)
	}
	return configs, nil
}

// reconstructBackward applies post*-resolved rule firings in reverse:
// each coalesced firing collapses back to the single FromLabel symbol
// that rule consumed, building configurations from the witness's
// final one backward, then reverses the result into chronological
// order.
func reconstructBackward[W any](p *pda.PDA[W], startState int, stack []uint32, resolved []resolvedStep) ([]Configuration, error) {
	cur := Configuration{State: startState, Stack: append([]uint32(nil), stack...)}
	configs := []Configuration{cur}
	pos := 0
	for _, r := range resolved {
		if !r.ok {
			pos += r.consume
			continue
		}
		if r.ruleID < 0 || r.ruleID >= len(p.Rules) {
			return nil, perr.New(perr.CodeInternalInvariant, "trace references unknown rule %d", r.ruleID)
		}
		rule := p.Rules[r.ruleID]
		newStack := make([]uint32, 0, len(cur.Stack)-r.consume+1)
		newStack = append(newStack, cur.Stack[:pos]...)
		newStack = append(newStack, rule.FromLabel)
		newStack = append(newStack, cur.Stack[pos+r.consume:]...)
		cur = Configuration{State: rule.From, Stack: newStack}
		configs = append(configs, cur)
		pos++
	}
	for l, r := 0, len(configs)-1; l < r; l, r = l+1, r-1 {
		configs[l], configs[r] = configs[r], configs[l]
	}
	return configs, nil
}
