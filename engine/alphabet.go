package engine

import "github.com/mkschou/pdareach/perr"

// Alphabet is the label codec spec.md §6 leaves to an external
// collaborator: a bijection between user-visible label names and the
// dense integers the core operates on. Labels intern in first-seen
// order, so repeated builds from the same input produce the same
// ids.
type Alphabet struct {
	byName []string
	byID   map[string]uint32
}

// NewAlphabet creates an empty codec.
func NewAlphabet() *Alphabet {
	return &Alphabet{byID: make(map[string]uint32)}
}

// Intern returns name's dense id, assigning a fresh one on first use.
func (a *Alphabet) Intern(name string) uint32 {
	if id, ok := a.byID[name]; ok {
		return id
	}
	id := uint32(len(a.byName))
	a.byName = append(a.byName, name)
	a.byID[name] = id
	return id
}

// Lookup returns name's id without assigning one.
func (a *Alphabet) Lookup(name string) (uint32, bool) {
	id, ok := a.byID[name]
	return id, ok
}

// Name returns the label name for id.
func (a *Alphabet) Name(id uint32) (string, error) {
	if int(id) >= len(a.byName) {
		return "", perr.New(perr.CodeInvalidPDA, "label id %d not in alphabet", id)
	}
	return a.byName[id], nil
}

// Len is the number of distinct labels interned so far — the
// numLabels a PDA or P-automaton built against this alphabet should
// be sized with.
func (a *Alphabet) Len() int { return len(a.byName) }
