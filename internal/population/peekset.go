package population

import (
	"sort"
	"strings"
)

// PeekSet is a bounded multiset of distinct strings: once max distinct
// values have been recorded, further inserts are ignored and the set
// reports itself as "full" (its String form ends in "...").
type PeekSet struct {
	max    int
	full   bool
	values map[string]struct{}
}

// NewPeekSet returns an empty PeekSet bounded to max distinct values.
func NewPeekSet(max int) *PeekSet {
	return &PeekSet{max: max, values: map[string]struct{}{}}
}

// Insert records v, unless the set is already full.
func (s *PeekSet) Insert(v string) {
	if s.full {
		return
	}
	if _, ok := s.values[v]; !ok && len(s.values) >= s.max {
		s.full = true
		return
	}
	s.values[v] = struct{}{}
}

// Len returns the number of distinct values currently recorded.
func (s *PeekSet) Len() int { return len(s.values) }

// String renders the sorted distinct values, comma-separated, with a
// trailing "..." once the set has overflowed its bound.
func (s *PeekSet) String() string {
	sorted := make([]string, 0, len(s.values))
	for v := range s.values {
		sorted = append(sorted, v)
	}
	sort.Strings(sorted)

	if s.full {
		if len(sorted) == 0 {
			return "..."
		}
		return strings.Join(sorted, ", ") + ", ..."
	}
	return strings.Join(sorted, ", ")
}
