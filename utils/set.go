package utils

import "sort"

// StringSet is a set of strings with insertion-independent membership checks.
// It is not safe for concurrent mutation; the pipeline builds it once and then
// only reads it.
type StringSet struct {
	seen map[string]struct{}
}

// NewStringSet creates a set holding the given values.
func NewStringSet(values ...string) *StringSet {
	s := &StringSet{seen: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.seen[v] = struct{}{}
	}
	return s
}

// Add returns true if the value was newly added, false if already present.
func (s *StringSet) Add(v string) bool {
	if _, exists := s.seen[v]; exists {
		return false
	}
	s.seen[v] = struct{}{}
	return true
}

// Contains reports whether v is in the set.
func (s *StringSet) Contains(v string) bool {
	_, exists := s.seen[v]
	return exists
}

// Size returns the number of distinct values.
func (s *StringSet) Size() int {
	return len(s.seen)
}

// Sorted returns the members in ascending order.
func (s *StringSet) Sorted() []string {
	out := make([]string, 0, len(s.seen))
	for v := range s.seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
