package pautomaton

import (
	"fmt"
	"sort"
	"strings"
)

// ToDot renders the automaton as Graphviz DOT text. When a state's
// outgoing edges cover every label in the alphabet and all route to
// the same target, they collapse to a single "*" edge, matching the
// original's to_dot wildcard collapsing for readability on automata
// with dense rule sets.
func (a *Automaton[W]) ToDot(labelName func(uint32) string) string {
	if labelName == nil {
		labelName = func(l uint32) string { return fmt.Sprintf("%d", l) }
	}
	var b strings.Builder
	b.WriteString("digraph P {\n")
	b.WriteString("  rankdir=LR;\n")
	for s := 0; s < a.numStates; s++ {
		shape := "circle"
		if a.IsAccepting(s) {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "  %d [shape=%s];\n", s, shape)
	}
	for from := 0; from < a.numStates; from++ {
		byLabel, ok := a.edges[from]
		if ok {
			targets := make(map[int][]uint32)
			for l, byTo := range byLabel {
				for to := range byTo {
					targets[to] = append(targets[to], l)
				}
			}
			tos := make([]int, 0, len(targets))
			for to := range targets {
				tos = append(tos, to)
			}
			sort.Ints(tos)
			for _, to := range tos {
				labels := targets[to]
				sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
				if len(labels) == a.numLabels {
					fmt.Fprintf(&b, "  %d -> %d [label=\"*\"];\n", from, to)
					continue
				}
				names := make([]string, len(labels))
				for i, l := range labels {
					names[i] = labelName(l)
				}
				fmt.Fprintf(&b, "  %d -> %d [label=\"%s\"];\n", from, to, strings.Join(names, ","))
			}
		}
		for _, to := range a.EpsilonTargets(from) {
			fmt.Fprintf(&b, "  %d -> %d [label=\"ε\",style=dashed];\n", from, to)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
