package pautomaton

// Kind tags which saturation step produced an edge, so trace
// reconstruction knows how to unwind it back into a PDA configuration
// sequence.
type Kind int

const (
	// Initial marks an edge present before saturation started: the
	// P-automaton's seed edges. Unwinding stops here.
	Initial Kind = iota
	// PreTrace marks an edge added by pre* from a PDA rule. Pop/Swap
	// rules need only RuleID; Push rules also set TempState, the
	// auxiliary state introduced to resolve the two-hop push pattern.
	PreTrace
	// PostTraceRule marks an edge added by post* from a PDA rule
	// firing against an existing edge (FromState, Label).
	PostTraceRule
	// PostTraceEpsilon marks an edge added by post* propagating
	// through an existing epsilon edge out of EpsilonState.
	PostTraceEpsilon
)

// Trace is the provenance tag carried by every edge: which rule (if
// any) produced it and what auxiliary bookkeeping trace.Reconstruct
// needs to unwind it.
type Trace struct {
	Kind         Kind
	RuleID       int
	TempState    int
	FromState    int
	Label        uint32
	EpsilonState int
}

// InitialTrace is the provenance of a seed edge.
var InitialTrace = Trace{Kind: Initial, RuleID: -1, TempState: -1, FromState: -1, EpsilonState: -1}

// NewPreTrace is the provenance of an edge added by pre* from a
// Pop/Swap rule (no auxiliary state involved).
func NewPreTrace(ruleID int) Trace {
	return Trace{Kind: PreTrace, RuleID: ruleID, TempState: -1, FromState: -1, EpsilonState: -1}
}

// NewPreTracePush is the provenance of an edge added by pre* from a
// Push rule via auxiliary state temp.
func NewPreTracePush(ruleID, temp int) Trace {
	return Trace{Kind: PreTrace, RuleID: ruleID, TempState: temp, FromState: -1, EpsilonState: -1}
}

// NewPostTraceRule is the provenance of an edge added by post* firing
// ruleID against the existing edge (from, label).
func NewPostTraceRule(ruleID, from int, label uint32) Trace {
	return Trace{Kind: PostTraceRule, RuleID: ruleID, TempState: -1, FromState: from, Label: label, EpsilonState: -1}
}

// NewPostTraceEpsilon is the provenance of an edge added by post*
// propagating a labeled edge through the epsilon edge out of eps.
func NewPostTraceEpsilon(eps int) Trace {
	return Trace{Kind: PostTraceEpsilon, RuleID: -1, TempState: -1, FromState: -1, EpsilonState: eps}
}
