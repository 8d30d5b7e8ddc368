package checker

import "sort"

// Violation describes one required path found missing during a run.
type Violation struct {
	Path string
	// FirstSeen is the communication point of the first step the path was
	// missing in.
	FirstSeen float64
	// Steps counts the checked steps the path was missing in.
	Steps int
}

// MissingFields is the run-wide, grow-only set of missing paths.
type MissingFields struct {
	byPath map[string]*Violation
}

// NewMissingFields returns an empty accumulator.
func NewMissingFields() *MissingFields {
	return &MissingFields{byPath: make(map[string]*Violation)}
}

// Merge adds the paths in found, observed at communication point at, and
// returns the ones not seen before in lexical order.
func (m *MissingFields) Merge(found FieldSet, at float64) []string {
	var added []string
	for path := range found {
		v, ok := m.byPath[path]
		if !ok {
			v = &Violation{Path: path, FirstSeen: at}
			m.byPath[path] = v
			added = append(added, path)
		}
		v.Steps++
	}
	sort.Strings(added)
	return added
}

// Has reports whether path has been recorded.
func (m *MissingFields) Has(path string) bool {
	_, ok := m.byPath[path]
	return ok
}

// Len returns the number of distinct missing paths.
func (m *MissingFields) Len() int { return len(m.byPath) }

// Violations returns a copy of the recorded violations sorted by path.
func (m *MissingFields) Violations() []Violation {
	out := make([]Violation, 0, len(m.byPath))
	for _, v := range m.byPath {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Clear forgets every recorded path.
func (m *MissingFields) Clear() {
	m.byPath = make(map[string]*Violation)
}
