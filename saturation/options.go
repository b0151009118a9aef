package saturation

import (
	"errors"

	"github.com/mkschou/pdareach/pautomaton"
)

// ErrStopped is returned by PreStar/PostStar when an edge observer
// requests early termination. Callers that pass WithEdgeObserver
// should check for it with errors.Is rather than treating it as a
// genuine failure — the product driver uses it to mean "reachable",
// not "broken".
var ErrStopped = errors.New("saturation stopped by edge observer")

// EdgeEvent describes one edge the saturation loop has just added to
// the automaton, the hook a product driver uses to mirror growth on
// one side into the product automaton.
type EdgeEvent[W any] struct {
	From, To int
	Label    uint32
	Epsilon  bool
	Weight   W
	Trace    pautomaton.Trace
}

// Options configures a PreStar/PostStar run beyond its required
// arguments.
type Options[W any] struct {
	onEdge func(EdgeEvent[W]) bool
}

// Option sets one field of Options.
type Option[W any] func(*Options[W])

// WithEdgeObserver registers a callback invoked once for every edge
// newly added or strengthened during saturation. Returning true
// requests early termination: the loop stops and PreStar/PostStar
// return ErrStopped.
func WithEdgeObserver[W any](f func(EdgeEvent[W]) bool) Option[W] {
	return func(o *Options[W]) { o.onEdge = f }
}

func resolveOptions[W any](opts []Option[W]) Options[W] {
	var o Options[W]
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// Notify reports whether the caller asked the loop to stop.
func (o Options[W]) Notify(e EdgeEvent[W]) bool {
	if o.onEdge == nil {
		return false
	}
	return o.onEdge(e)
}
