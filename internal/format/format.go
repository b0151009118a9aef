// Package format decodes the TOML PDA and P-automaton files consumed
// by cmd/pdareach and its HTTP front end — spec.md §1's "file formats
// and their parsers" collaborator, named out of scope for the core
// and built here with github.com/BurntSushi/toml, the pack's TOML
// dependency (matzehuels-stacktower's pkg/deps/python/poetry.go
// parses poetry.lock the same way: Unmarshal into a plain struct,
// then walk it into the domain type). pda and pautomaton never see a
// label string; format resolves every one through an engine.Alphabet
// before calling their constructors, per spec.md §3's "Γ is a finite
// stack alphabet (dense integers)".
package format

import (
	"github.com/BurntSushi/toml"

	"github.com/mkschou/pdareach/engine"
	"github.com/mkschou/pdareach/nfa"
	"github.com/mkschou/pdareach/pautomaton"
	"github.com/mkschou/pdareach/pda"
	"github.com/mkschou/pdareach/perr"
	"github.com/mkschou/pdareach/semiring"
)

type ruleFile struct {
	From   int      `toml:"from"`
	To     int      `toml:"to"`
	Op     string   `toml:"op"`
	Label  string   `toml:"label"`
	Pop    string   `toml:"pop"`
	PopIn  []string `toml:"pop_in"`
	PopNot []string `toml:"pop_not"`
	PopAny bool     `toml:"pop_any"`
	Weight *int     `toml:"weight"`
}

type pdaFile struct {
	NumStates int        `toml:"num_states"`
	Rules     []ruleFile `toml:"rule"`
}

// ParsePDA decodes a PDA definition from path, interning every label
// it encounters into alphabet so callers can share one codec across a
// PDA and the P-automata solved against it.
func ParsePDA(path string, alphabet *engine.Alphabet) (*pda.PDA[int], error) {
	var f pdaFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, perr.Wrap(perr.CodeInvalidPDA, err, "decode %s", path)
	}
	return buildPDA(f, alphabet)
}

// ParsePDAString decodes a PDA definition from inline TOML text — the
// HTTP front end's request body carries file contents directly rather
// than a path on the server's filesystem.
func ParsePDAString(text string, alphabet *engine.Alphabet) (*pda.PDA[int], error) {
	var f pdaFile
	if _, err := toml.Decode(text, &f); err != nil {
		return nil, perr.Wrap(perr.CodeInvalidPDA, err, "decode pda")
	}
	return buildPDA(f, alphabet)
}

func buildPDA(f pdaFile, alphabet *engine.Alphabet) (*pda.PDA[int], error) {
	for _, r := range f.Rules {
		internRuleLabels(alphabet, r)
	}

	b := pda.NewBuilder[int](f.NumStates, alphabet.Len(), 0)
	for i, r := range f.Rules {
		op, err := parseOp(r.Op)
		if err != nil {
			return nil, perr.Wrap(perr.CodeInvalidPDA, err, "rule %d", i)
		}
		var toLabel uint32
		if op != pda.Pop {
			id, ok := alphabet.Lookup(r.Label)
			if !ok {
				return nil, perr.New(perr.CodeInvalidPDA, "rule %d: missing label for op %s", i, r.Op)
			}
			toLabel = id
		}
		pop, err := popSpec(alphabet, r)
		if err != nil {
			return nil, perr.Wrap(perr.CodeInvalidPDA, err, "rule %d", i)
		}
		weight := 0
		if r.Weight != nil {
			weight = *r.Weight
		}
		b.AddRule(r.From, r.To, op, toLabel, pop, weight)
	}
	return b.Build()
}

// internRuleLabels assigns dense ids to every label string a rule
// mentions, so the alphabet is complete before ParsePDA sizes the
// builder's numLabels.
func internRuleLabels(alphabet *engine.Alphabet, r ruleFile) {
	if r.Label != "" {
		alphabet.Intern(r.Label)
	}
	if r.Pop != "" {
		alphabet.Intern(r.Pop)
	}
	for _, l := range r.PopIn {
		alphabet.Intern(l)
	}
	for _, l := range r.PopNot {
		alphabet.Intern(l)
	}
}

func parseOp(s string) (pda.Op, error) {
	switch s {
	case "pop":
		return pda.Pop, nil
	case "swap":
		return pda.Swap, nil
	case "push":
		return pda.Push, nil
	default:
		return 0, perr.New(perr.CodeInvalidPDA, "unrecognized op %q", s)
	}
}

func popSpec(alphabet *engine.Alphabet, r ruleFile) (pda.PopSpec, error) {
	switch {
	case r.PopAny:
		return pda.AnyLabel(), nil
	case len(r.PopNot) > 0:
		return pda.NotLabels(mustLookupAll(alphabet, r.PopNot)...), nil
	case len(r.PopIn) > 0:
		return pda.OnLabels(mustLookupAll(alphabet, r.PopIn)...), nil
	case r.Pop != "":
		id, ok := alphabet.Lookup(r.Pop)
		if !ok {
			return pda.PopSpec{}, perr.New(perr.CodeInvalidPDA, "unknown pop label %q", r.Pop)
		}
		return pda.OnLabel(id), nil
	default:
		return pda.PopSpec{}, perr.New(perr.CodeInvalidPDA, "rule has no pop/pop_in/pop_not/pop_any")
	}
}

func mustLookupAll(alphabet *engine.Alphabet, names []string) []uint32 {
	out := make([]uint32, len(names))
	for i, n := range names {
		id, _ := alphabet.Lookup(n)
		out[i] = id
	}
	return out
}

type transitionFile struct {
	From  int    `toml:"from"`
	Label string `toml:"label"`
	To    int    `toml:"to"`
}

type nfaFile struct {
	NumStates   int              `toml:"num_states"`
	Initial     int              `toml:"initial"`
	Accepting   []int            `toml:"accepting"`
	Transitions []transitionFile `toml:"transition"`
}

type automatonFile struct {
	InitialStates []int    `toml:"initial_states"`
	InitialStack  []string `toml:"initial_stack"`
	NFA           *nfaFile `toml:"nfa"`
}

// ParsePAutomaton decodes a P-automaton definition from path: either a
// single (initial_states[0], initial_stack) configuration, or an NFA
// literal shared by every state in initial_states — spec.md §6's
// build_p_automaton / build_p_automaton_from_nfa, surfaced as two
// shapes of the same file rather than two file formats.
func ParsePAutomaton(path string, p *pda.PDA[int], alphabet *engine.Alphabet) (*pautomaton.Automaton[int], error) {
	var f automatonFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, perr.Wrap(perr.CodeInvalidAutomaton, err, "decode %s", path)
	}
	return buildAutomaton(f, path, p, alphabet)
}

// ParsePAutomatonString decodes a P-automaton definition from inline
// TOML text, the HTTP front end's equivalent of ParsePAutomaton.
func ParsePAutomatonString(text string, p *pda.PDA[int], alphabet *engine.Alphabet) (*pautomaton.Automaton[int], error) {
	var f automatonFile
	if _, err := toml.Decode(text, &f); err != nil {
		return nil, perr.Wrap(perr.CodeInvalidAutomaton, err, "decode automaton")
	}
	return buildAutomaton(f, "<inline>", p, alphabet)
}

// buildAutomaton resolves labels with Lookup, not Intern: a
// P-automaton's labels must already appear in the PDA's rules (parsed
// first, which fixes numLabels), since a label no rule ever
// produces or consumes could never actually occur on a witness stack.
func buildAutomaton(f automatonFile, path string, p *pda.PDA[int], alphabet *engine.Alphabet) (*pautomaton.Automaton[int], error) {
	if len(f.InitialStates) == 0 {
		return nil, perr.New(perr.CodeInvalidAutomaton, "%s: initial_states is required", path)
	}

	if f.NFA != nil {
		n := &nfa.NFA{
			NumStates: f.NFA.NumStates,
			Initial:   f.NFA.Initial,
			Accepting: f.NFA.Accepting,
		}
		for _, t := range f.NFA.Transitions {
			id, ok := alphabet.Lookup(t.Label)
			if !ok {
				return nil, perr.New(perr.CodeInvalidAutomaton, "%s: unknown label %q in nfa transition", path, t.Label)
			}
			n.Transitions = append(n.Transitions, nfa.Transition{From: t.From, Label: id, To: t.To})
		}
		return engine.BuildPAutomatonFromNFA[int](semiring.Int, p, f.InitialStates, n)
	}

	stack := make([]uint32, len(f.InitialStack))
	for i, l := range f.InitialStack {
		id, ok := alphabet.Lookup(l)
		if !ok {
			return nil, perr.New(perr.CodeInvalidAutomaton, "%s: unknown label %q in initial_stack", path, l)
		}
		stack[i] = id
	}
	a := engine.BuildPAutomaton[int](semiring.Int, p, f.InitialStates[0], stack)
	for _, s := range f.InitialStates[1:] {
		if _, err := a.AddEpsilonEdge(s, f.InitialStates[0], pautomaton.InitialTrace, semiring.Int.Zero()); err != nil {
			return nil, err
		}
	}
	return a, nil
}
