// Package product implements the on-the-fly product automaton used to
// answer a reachability query between an initial and a final
// P-automaton: it grows in lockstep with whichever side the
// saturation engine is enlarging and signals early termination the
// moment a jointly-accepting product state appears — spec.md §4.7,
// grounded on original_source/SolverInstance.h's add_edge_product and
// get_product_state.
package product

import (
	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/saturation"
	"github.com/mkschou/pdareach/semiring"
)

// Direction selects which side(s) of a solve the saturation engine
// grows — spec.md §6's solve(..., direction: Pre | Post | Dual).
type Direction int

const (
	// None runs no saturation: only the edges already present on both
	// sides are checked (Driver.Seed), matching the CLI's `-e 0`
	// spec.md §6 names alongside Post/Pre/Dual.
	None Direction = iota - 1
	// Post runs post* on the initial automaton.
	Post
	// Pre runs pre* on the final automaton.
	Pre
	// Dual runs both, sequentially, stopping as soon as either side
	// reports reachability.
	Dual
)

func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Post:
		return "post"
	case Pre:
		return "pre"
	case Dual:
		return "dual"
	default:
		return "unknown"
	}
}

type pairKey struct{ initial, final int }

type lookupEntry struct {
	other, product int
}

// Driver holds the two query-side P-automata and builds their product
// incrementally as either side grows. Product states 0..pdaSize-1 are
// the shared PDA control states; beyond that, a product state is
// identified by the pair of component states it pairs, interned into a
// dense id the first time the pair is seen — spec.md §3's product
// automaton data model.
type Driver[W any] struct {
	sr      semiring.Semiring[W]
	pdaSize int
	initial *pautomaton.Automaton[W]
	final   *pautomaton.Automaton[W]
	product *pautomaton.Automaton[W]

	idMap         map[pairKey]int
	originalOf    map[int]pairKey
	lookupByInit  map[int][]lookupEntry
	lookupByFinal map[int][]lookupEntry
}

// New builds a driver over initial and final, seeding the product's
// accepting set from the PDA control states accepting in both —
// spec.md §4.7 "a state i is accepting iff it is accepting in both
// A_I and A_F".
func New[W any](sr semiring.Semiring[W], pdaSize, numLabels int, initial, final *pautomaton.Automaton[W]) *Driver[W] {
	prod := pautomaton.New(sr, pdaSize, numLabels)
	for s := 0; s < pdaSize; s++ {
		if initial.IsAccepting(s) && final.IsAccepting(s) {
			prod.SetAccepting(s)
		}
	}
	return &Driver[W]{
		sr:            sr,
		pdaSize:       pdaSize,
		initial:       initial,
		final:         final,
		product:       prod,
		idMap:         make(map[pairKey]int),
		originalOf:    make(map[int]pairKey),
		lookupByInit:  make(map[int][]lookupEntry),
		lookupByFinal: make(map[int][]lookupEntry),
	}
}

// Product returns the automaton being grown; HasAcceptingState on it
// is the reachability verdict.
func (d *Driver[W]) Product() *pautomaton.Automaton[W] { return d.product }

// FirstAcceptingControlState reports the smallest PDA control state
// that is accepting in the product, for the degenerate witness where
// a shared control state is accepting before any edge is grown (zero
// rule firings, e.g. both A_I and A_F already accept the empty
// stack at that state).
func (d *Driver[W]) FirstAcceptingControlState() (int, bool) {
	for i := 0; i < d.pdaSize; i++ {
		if d.product.IsAccepting(i) {
			return i, true
		}
	}
	return 0, false
}

// Original maps a product state back to the (initial-side, final-side)
// component pair it pairs — identity for the shared control states.
func (d *Driver[W]) Original(productState int) (initialState, finalState int) {
	if productState < d.pdaSize {
		return productState, productState
	}
	p := d.originalOf[productState]
	return p.initial, p.final
}

func (d *Driver[W]) getProductState(i, f int) (fresh bool, id int) {
	if i == f && i < d.pdaSize {
		return false, i
	}
	key := pairKey{i, f}
	if existing, ok := d.idMap[key]; ok {
		return false, existing
	}
	id = d.product.AddState()
	if d.initial.IsAccepting(i) && d.final.IsAccepting(f) {
		d.product.SetAccepting(id)
	}
	d.idMap[key] = id
	d.originalOf[id] = key
	d.lookupByInit[i] = append(d.lookupByInit[i], lookupEntry{f, id})
	d.lookupByFinal[f] = append(d.lookupByFinal[f], lookupEntry{i, id})
	return true, id
}

func intersectLabels(a, b []uint32) []uint32 {
	var out []uint32
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// growFrom drives the product automaton to a fixpoint starting from
// waiting, mirroring matching labeled edges from both component
// automata — original_source/SolverInstance.h::construct_reachable,
// generalized to query both sides through their epsilon closures so
// it works whether the growing side has flattened its epsilon edges
// (post*) or not (pre*).
func (d *Driver[W]) growFrom(waiting []int) bool {
	for len(waiting) > 0 {
		top := waiting[len(waiting)-1]
		waiting = waiting[:len(waiting)-1]
		iFrom, fFrom := d.Original(top)
		labels := intersectLabels(d.initial.LabelsFromClosure(iFrom), d.final.LabelsFromClosure(fFrom))
		for _, l := range labels {
			for _, it := range d.initial.LabeledTargetsFromClosure(iFrom, l) {
				for _, ft := range d.final.LabeledTargetsFromClosure(fFrom, l) {
					fresh, to := d.getProductState(it.To, ft.To)
					w := d.sr.Extend(it.Weight, ft.Weight)
					if _, err := d.product.AddEdge(top, l, to, pautomaton.InitialTrace, w); err != nil {
						continue
					}
					if d.product.HasAcceptingState() {
						return true
					}
					if fresh {
						waiting = append(waiting, to)
					}
				}
			}
		}
	}
	return d.product.HasAcceptingState()
}

// Seed grows the product from scratch over the shared PDA control
// states, mirroring whatever edges already exist on both sides before
// any saturation runs. Returns true if this alone reaches an
// accepting product state.
func (d *Driver[W]) Seed() bool {
	waiting := make([]int, d.pdaSize)
	for i := range waiting {
		waiting[i] = i
	}
	return d.growFrom(waiting)
}

// Observer returns a saturation.Option that mirrors every labeled edge
// the saturation engine adds to growingIsInitial's automaton into the
// product, requesting saturation stop the moment the product becomes
// reachable. Epsilon edges are ignored: post* always re-fires a
// labeled edge for every epsilon it propagates (spec.md §4.5), and
// pre*'s epsilon edges are pure aux-state bookkeeping the product
// never needs directly.
func (d *Driver[W]) Observer(growingIsInitial bool) saturation.Option[W] {
	return saturation.WithEdgeObserver(func(e saturation.EdgeEvent[W]) bool {
		if e.Epsilon {
			return false
		}
		return d.growEdge(growingIsInitial, e.From, e.Label, e.To, e.Weight)
	})
}

// growEdge is the incremental counterpart of growFrom for one newly
// added edge on the growing side — original_source/
// SolverInstance.h::add_edge_product, generalized over which side is
// growing.
func (d *Driver[W]) growEdge(growingIsInitial bool, from int, label uint32, to int, weight W) bool {
	lookup := d.lookupByFinal
	other := d.initial
	if growingIsInitial {
		lookup = d.lookupByInit
		other = d.final
	}
	pairs := append([]lookupEntry(nil), lookup[from]...)
	if from < d.pdaSize {
		pairs = append(pairs, lookupEntry{from, from})
	}
	var waiting []int
	for _, pr := range pairs {
		for _, ot := range other.LabeledTargetsFromClosure(pr.other, label) {
			var fresh bool
			var to2 int
			var w W
			if growingIsInitial {
				fresh, to2 = d.getProductState(to, ot.To)
				w = d.sr.Extend(weight, ot.Weight)
			} else {
				fresh, to2 = d.getProductState(ot.To, to)
				w = d.sr.Extend(ot.Weight, weight)
			}
			if _, err := d.product.AddEdge(pr.product, label, to2, pautomaton.InitialTrace, w); err != nil {
				continue
			}
			if d.product.HasAcceptingState() {
				return true
			}
			if fresh {
				waiting = append(waiting, to2)
			}
		}
	}
	return d.growFrom(waiting)
}
