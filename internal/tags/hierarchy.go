package tags

import (
	"sort"
	"strings"

	"thingsdo-cli/internal/model"
)

// Hierarchy is a parent→children index over a tag forest.
//
// Parent pointers come from persisted data and are not trusted to be acyclic:
// every walk carries a visited set and terminates on revisits.
type Hierarchy struct {
	byID     map[string]model.Tag
	children map[string][]string
	roots    []string
}

func NewHierarchy(all []model.Tag) *Hierarchy {
	h := &Hierarchy{
		byID:     make(map[string]model.Tag, len(all)),
		children: map[string][]string{},
	}
	for _, t := range all {
		h.byID[t.ID] = t
	}
	for _, t := range all {
		pid := parentOf(t)
		if pid == "" {
			h.roots = append(h.roots, t.ID)
			continue
		}
		if _, ok := h.byID[pid]; !ok {
			// Dangling parent: treat as a root.
			h.roots = append(h.roots, t.ID)
			continue
		}
		h.children[pid] = append(h.children[pid], t.ID)
	}
	h.sortIDs(h.roots)
	for pid := range h.children {
		h.sortIDs(h.children[pid])
	}
	return h
}

func parentOf(t model.Tag) string {
	if t.ParentID == nil {
		return ""
	}
	return strings.TrimSpace(*t.ParentID)
}

func (h *Hierarchy) sortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := h.byID[ids[i]], h.byID[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Name != b.Name {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		return a.ID < b.ID
	})
}

func (h *Hierarchy) Tag(id string) (model.Tag, bool) {
	t, ok := h.byID[id]
	return t, ok
}

func (h *Hierarchy) Len() int { return len(h.byID) }

// Known returns the ids in s that resolve to a tag. Dangling ids are absent.
func (h *Hierarchy) Known(s Set) Set {
	out := make(Set, len(s))
	if h == nil {
		return out
	}
	for id := range s {
		if _, ok := h.byID[id]; ok {
			out.Add(id)
		}
	}
	return out
}

// Roots returns tags with no (resolvable) parent, in display order.
func (h *Hierarchy) Roots() []string {
	return append([]string(nil), h.roots...)
}

// Children returns the direct children of id, in display order.
func (h *Hierarchy) Children(id string) []string {
	return append([]string(nil), h.children[id]...)
}

// ClosureOf returns {id} plus every descendant of id.
func (h *Hierarchy) ClosureOf(id string) Set {
	out := NewSet(id)
	if id == "" {
		return out
	}
	frontier := []string{id}
	for len(frontier) > 0 {
		var next []string
		for _, cur := range frontier {
			for _, child := range h.children[cur] {
				if out.Has(child) {
					continue
				}
				out.Add(child)
				next = append(next, child)
			}
		}
		frontier = next
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first. The walk stops at a
// missing parent or at the first id already seen.
func (h *Hierarchy) Ancestors(id string) []string {
	var out []string
	seen := NewSet(id)
	cur, ok := h.byID[id]
	for ok {
		pid := parentOf(cur)
		if pid == "" || seen.Has(pid) {
			break
		}
		seen.Add(pid)
		cur, ok = h.byID[pid]
		if !ok {
			break
		}
		out = append(out, pid)
	}
	return out
}

// WouldCycle reports whether making newParentID the parent of id creates a
// cycle (including id being its own parent).
func (h *Hierarchy) WouldCycle(id, newParentID string) bool {
	if newParentID == "" {
		return false
	}
	if newParentID == id {
		return true
	}
	return h.ClosureOf(id).Has(newParentID)
}

// Path renders the tag with its ancestors, root first ("work/clients/acme").
func (h *Hierarchy) Path(id string) string {
	t, ok := h.byID[id]
	if !ok {
		return id
	}
	anc := h.Ancestors(id)
	parts := make([]string, 0, len(anc)+1)
	for i := len(anc) - 1; i >= 0; i-- {
		parts = append(parts, h.byID[anc[i]].Name)
	}
	parts = append(parts, t.Name)
	return strings.Join(parts, "/")
}

// ClosureOf is the one-shot form of Hierarchy.ClosureOf.
func ClosureOf(id string, all []model.Tag) Set {
	return NewHierarchy(all).ClosureOf(id)
}
