// Package checker finds required SensorData fields that are missing.
//
// The required set is a list of dot-separated paths. Check evaluates each
// configured path it knows against the first moving object of a message;
// paths it does not know are ignored. MissingFields accumulates findings over
// a whole run and never forgets a path once seen.
package checker

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// FieldSet is an unordered set of field paths.
type FieldSet map[string]struct{}

// NewFieldSet returns a set holding paths.
func NewFieldSet(paths ...string) FieldSet {
	s := make(FieldSet, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts path.
func (s FieldSet) Add(path string) { s[path] = struct{}{} }

// Has reports whether path is in the set.
func (s FieldSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Sorted returns the paths in lexical order.
func (s FieldSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// LoadExpected reads one field path per line from r. Surrounding whitespace
// (including a trailing carriage return) is trimmed and blank lines are
// skipped. Duplicates collapse.
func LoadExpected(r io.Reader) (FieldSet, error) {
	s := make(FieldSet)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		s.Add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read required fields: %w", err)
	}
	return s, nil
}
