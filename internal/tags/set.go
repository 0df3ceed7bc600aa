package tags

import "sort"

// Set is an unordered set of tag ids.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Intersects reports whether s and o share at least one id.
func (s Set) Intersects(o Set) bool {
	a, b := s, o
	if len(b) < len(a) {
		a, b = b, a
	}
	for id := range a {
		if b.Has(id) {
			return true
		}
	}
	return false
}

// Sorted returns the ids in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
