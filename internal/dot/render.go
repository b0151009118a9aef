// Package dot turns pautomaton's DOT text into SVG images —
// the "DOT visualization" collaborator spec.md §1 names out of scope
// for the core. It is a thin wrapper around
// github.com/goccy/go-graphviz, grounded on matzehuels-stacktower's
// pkg/render/nodelink/dot.go RenderSVG, which solves exactly this
// problem (DOT text in, SVG bytes out) for its own graphs.
package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/mkschou/pdareach/perr"
)

// RenderSVG renders dotText (as produced by pautomaton.Automaton.ToDot)
// to SVG.
func RenderSVG(ctx context.Context, dotText string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, perr.Wrap(perr.CodeInternalInvariant, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dotText))
	if err != nil {
		return nil, perr.Wrap(perr.CodeInternalInvariant, err, "parse dot")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, perr.Wrap(perr.CodeInternalInvariant, err, "render svg")
	}
	return buf.Bytes(), nil
}

// LabelNamer builds the labelName function pautomaton.ToDot expects
// from an engine.Alphabet, falling back to the numeric id for any
// label the alphabet doesn't recognize (defensive only: every label a
// built automaton carries was interned through the same alphabet).
func LabelNamer(name func(uint32) (string, error)) func(uint32) string {
	return func(id uint32) string {
		n, err := name(id)
		if err != nil {
			return fmt.Sprintf("%d", id)
		}
		return n
	}
}
