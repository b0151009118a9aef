// Package engine is the public facade over pdareach's core: building
// PDAs and P-automata, then solving a reachability query between two
// of them — spec.md §6's external interfaces. It is the one package
// allowed to know about pda, pautomaton, saturation, shortest,
// product, trace and nfa all at once, the way the teacher's main
// package wires together its own independent subsystems.
package engine

import (
	"context"

	"github.com/mkschou/pdareach/nfa"
	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/pda"
	"github.com/mkschou/pdareach/perr"
	"github.com/mkschou/pdareach/product"
	"github.com/mkschou/pdareach/saturation"
	"github.com/mkschou/pdareach/semiring"
	"github.com/mkschou/pdareach/shortest"
	"github.com/mkschou/pdareach/trace"
)

// Direction re-exports product.Direction: which side(s) of the query
// the saturation engine grows.
type Direction = product.Direction

const (
	None = product.None
	Post = product.Post
	Pre  = product.Pre
	Dual = product.Dual
)

// TraceMode selects whether Solve reconstructs a witness and, if so,
// which one — spec.md §6's solve(..., trace: None | Any | Shortest).
type TraceMode int

const (
	// TraceNone only decides reachability.
	TraceNone TraceMode = iota
	// TraceAny reconstructs the first witness found.
	TraceAny
	// TraceShortest reconstructs the least-weight witness, driving
	// saturation with package shortest instead of plain saturation.
	TraceShortest
)

// Result is Solve's outcome — spec.md §6's
// "{ reachable: bool, trace?: list of (state, stack) }".
type Result[W any] struct {
	Reachable bool
	Trace     []trace.Configuration
	Weight    W
}

// BuildPDA starts a rule builder for a PDA over numStates control
// states and numLabels stack symbols, with zero as the weight
// assigned to rules that don't specify one — spec.md §6's
// build_pda/pda_builder. For an unweighted PDA use W = bool with
// zero = true and solve it with semiring.Bool.
func BuildPDA[W any](numStates, numLabels int, zero W) *pda.Builder[W] {
	return pda.NewBuilder[W](numStates, numLabels, zero)
}

// BuildPAutomaton seeds a P-automaton accepting exactly the single
// configuration (initialState, initialStack) — spec.md §6's
// build_p_automaton.
func BuildPAutomaton[W any](sr semiring.Semiring[W], p *pda.PDA[W], initialState int, initialStack []uint32) *pautomaton.Automaton[W] {
	return pautomaton.FromConfiguration(sr, p.NumStates, p.NumLabels, initialState, initialStack)
}

// BuildPAutomatonFromNFA seeds a P-automaton accepting
// { (q, σ) : q ∈ initialStates, σ ∈ L(n) } — spec.md §6's
// build_p_automaton_from_nfa. Every initial state is epsilon-linked
// into one shared copy of n's states, so n's language is represented
// once regardless of how many control states share it.
func BuildPAutomatonFromNFA[W any](sr semiring.Semiring[W], p *pda.PDA[W], initialStates []int, n *nfa.NFA) (*pautomaton.Automaton[W], error) {
	if len(initialStates) == 0 {
		return pautomaton.New(sr, p.NumStates, p.NumLabels), nil
	}
	a, err := pautomaton.FromNFA(sr, p.NumStates, p.NumLabels, initialStates[0], n)
	if err != nil {
		return nil, err
	}
	targets := a.EpsilonTargets(initialStates[0])
	if len(targets) != 1 {
		return nil, perr.New(perr.CodeInternalInvariant,
			"expected exactly one epsilon target wiring the nfa seed, got %d", len(targets))
	}
	nfaInitial := targets[0]
	for _, s := range initialStates[1:] {
		if _, err := a.AddEpsilonEdge(s, nfaInitial, pautomaton.InitialTrace, sr.Zero()); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Solve runs a reachability query between aInitial and aFinal under
// direction, optionally reconstructing a witness trace — spec.md §6's
// solve(pda, A_I, A_F, direction, trace). aInitial and aFinal are
// mutated in place by whichever saturation direction(s) run.
func Solve[W any](ctx context.Context, p *pda.PDA[W], sr semiring.Semiring[W], aInitial, aFinal *pautomaton.Automaton[W], direction Direction, mode TraceMode) (Result[W], error) {
	drv := product.New(sr, p.NumStates, p.NumLabels, aInitial, aFinal)

	grew := func() (growing *pautomaton.Automaton[W], tm trace.Mode, hasGrowth bool) { return nil, trace.ModePost, false }

	if drv.Seed() {
		return finish(p, drv, grew, mode)
	}

	if direction == Post || direction == Dual {
		reached, err := runSide(ctx, saturation.PostStar[W], shortest.PostStar[W], p, aInitial, sr, mode, drv.Observer(true))
		if err != nil {
			return Result[W]{}, err
		}
		if reached || drv.Product().HasAcceptingState() {
			g := func() (*pautomaton.Automaton[W], trace.Mode, bool) { return aInitial, trace.ModePost, true }
			return finish(p, drv, g, mode)
		}
	}

	if direction == Pre || direction == Dual {
		reached, err := runSide(ctx, saturation.PreStar[W], shortest.PreStar[W], p, aFinal, sr, mode, drv.Observer(false))
		if err != nil {
			return Result[W]{}, err
		}
		if reached || drv.Product().HasAcceptingState() {
			g := func() (*pautomaton.Automaton[W], trace.Mode, bool) { return aFinal, trace.ModePre, true }
			return finish(p, drv, g, mode)
		}
	}

	return Result[W]{Reachable: false}, nil
}

type starFunc[W any] func(ctx context.Context, p *pda.PDA[W], a *pautomaton.Automaton[W], sr semiring.Semiring[W], opts ...saturation.Option[W]) error

// runSide runs either the plain (unordered-workset) or priority-queue
// (weight-ordered) saturation over a, depending on mode — spec.md
// §4.6: the weighted shortest-trace engine shares saturation's
// edge-derivation rules and only changes processing order. ErrStopped
// signals the product driver's observer found an accepting product
// state early; that is success, not failure.
func runSide[W any](ctx context.Context, plain, weighted starFunc[W], p *pda.PDA[W], a *pautomaton.Automaton[W], sr semiring.Semiring[W], mode TraceMode, opt saturation.Option[W]) (bool, error) {
	run := plain
	if mode == TraceShortest {
		run = weighted
	}
	err := run(ctx, p, a, sr, opt)
	if err == saturation.ErrStopped {
		return true, nil
	}
	return false, err
}

func finish[W any](p *pda.PDA[W], drv *product.Driver[W], grew func() (*pautomaton.Automaton[W], trace.Mode, bool), mode TraceMode) (Result[W], error) {
	if !drv.Product().HasAcceptingState() {
		return Result[W]{Reachable: false}, nil
	}
	if mode == TraceNone {
		return Result[W]{Reachable: true}, nil
	}

	var steps []product.PathStep
	var weight W
	var ok bool
	if mode == TraceShortest {
		steps, weight, ok = drv.ShortestPath()
	} else {
		steps, ok = drv.FindPath()
	}
	if !ok {
		return Result[W]{Reachable: true}, nil
	}

	growing, tm, hasGrowth := grew()
	stack := make([]uint32, len(steps))
	for i, s := range steps {
		stack[i] = s.Label
	}
	startState := 0
	if len(steps) > 0 {
		startState = steps[0].From
	} else if s, ok := drv.FirstAcceptingControlState(); ok {
		startState = s
	}

	if !hasGrowth || len(steps) == 0 {
		return Result[W]{Reachable: true, Trace: []trace.Configuration{{State: startState, Stack: stack}}, Weight: weight}, nil
	}

	var original func(int) int
	if tm == trace.ModePost {
		original = func(s int) int { i, _ := drv.Original(s); return i }
	} else {
		original = func(s int) int { _, f := drv.Original(s); return f }
	}

	configs, err := trace.ReconstructProduct(p, growing, original, original(startState), stack, steps, tm)
	if err != nil {
		return Result[W]{}, err
	}
	return Result[W]{Reachable: true, Trace: configs, Weight: weight}, nil
}
