package pda

// PopSpec describes which popped labels a rule matches: an explicit
// set, that set negated (every other label), or every label in the
// alphabet (wildcard). spec.md §4.2's add_rule "negated" flag and
// "*" wildcard.
type PopSpec struct {
	wildcard bool
	negated  bool
	labels   []uint32
}

// OnLabel matches exactly one popped label.
func OnLabel(l uint32) PopSpec { return PopSpec{labels: []uint32{l}} }

// OnLabels matches any of the given popped labels.
func OnLabels(ls ...uint32) PopSpec { return PopSpec{labels: ls} }

// NotLabels matches every label except the given ones.
func NotLabels(ls ...uint32) PopSpec { return PopSpec{negated: true, labels: ls} }

// AnyLabel matches every label in the alphabet.
func AnyLabel() PopSpec { return PopSpec{wildcard: true} }

func (s PopSpec) resolve(numLabels int) []uint32 {
	if s.wildcard {
		out := make([]uint32, numLabels)
		for i := range out {
			out[i] = uint32(i)
		}
		return out
	}
	if s.negated {
		excl := make(map[uint32]bool, len(s.labels))
		for _, l := range s.labels {
			excl[l] = true
		}
		out := make([]uint32, 0, numLabels)
		for i := 0; i < numLabels; i++ {
			if !excl[uint32(i)] {
				out = append(out, uint32(i))
			}
		}
		return out
	}
	return s.labels
}

// Builder accumulates rules before Build produces an immutable PDA.
type Builder[W any] struct {
	numStates int
	numLabels int
	zero      W
	rules     []Rule[W]
	err       error
}

// NewBuilder creates a Builder for a PDA with the given dense state
// and label counts; zero is the weight assigned to rules that don't
// specify one explicitly (true for unweighted bool PDAs solved with
// semiring.Bool).
func NewBuilder[W any](numStates, numLabels int, zero W) *Builder[W] {
	return &Builder[W]{numStates: numStates, numLabels: numLabels, zero: zero}
}

// AddRule adds one rule per label resolved by pop, matching (from,
// op) with weight w. ToLabel is ignored for Pop.
func (b *Builder[W]) AddRule(from, to int, op Op, toLabel uint32, pop PopSpec, w W) *Builder[W] {
	if b.err != nil {
		return b
	}
	if err := checkState(b.numStates, from); err != nil {
		b.err = err
		return b
	}
	if err := checkState(b.numStates, to); err != nil {
		b.err = err
		return b
	}
	if op != Pop {
		if err := checkLabel(b.numLabels, toLabel); err != nil {
			b.err = err
			return b
		}
	}
	labels := pop.resolve(b.numLabels)
	for _, l := range labels {
		if err := checkLabel(b.numLabels, l); err != nil {
			b.err = err
			return b
		}
		b.rules = append(b.rules, Rule[W]{
			ID:        len(b.rules),
			From:      from,
			To:        to,
			FromLabel: l,
			Op:        op,
			ToLabel:   toLabel,
			Weight:    w,
		})
	}
	return b
}

// Build finalizes the PDA, or returns the first error recorded by
// AddRule.
func (b *Builder[W]) Build() (*PDA[W], error) {
	if b.err != nil {
		return nil, b.err
	}
	p := &PDA[W]{NumStates: b.numStates, NumLabels: b.numLabels, Rules: b.rules}
	p.buildIndices()
	return p, nil
}
