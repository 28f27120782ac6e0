package tree

import "sort"

// ExpansionSet is the set of directory keys the user currently has open.
// It is independent of any single snapshot: it survives rebuilds and decides
// which subtrees a refresh re-enumerates.
type ExpansionSet struct {
	keys map[string]struct{}
}

// NewExpansionSet creates an empty expansion set.
func NewExpansionSet() *ExpansionSet {
	return &ExpansionSet{keys: make(map[string]struct{})}
}

// Add marks a directory key as expanded.
func (s *ExpansionSet) Add(key string) { s.keys[key] = struct{}{} }

// Remove marks a directory key as collapsed.
func (s *ExpansionSet) Remove(key string) { delete(s.keys, key) }

// Has reports whether a directory key is expanded.
func (s *ExpansionSet) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Clone returns an independent copy, for handing to a background walk.
func (s *ExpansionSet) Clone() *ExpansionSet {
	c := &ExpansionSet{keys: make(map[string]struct{}, len(s.keys))}
	for k := range s.keys {
		c.keys[k] = struct{}{}
	}
	return c
}

// Len returns the number of expanded keys.
func (s *ExpansionSet) Len() int { return len(s.keys) }

// Keys returns the expanded keys sorted, for persistence.
func (s *ExpansionSet) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Restore replaces the set contents, used when loading persisted state.
func (s *ExpansionSet) Restore(keys []string) {
	s.keys = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
}
