package selection

import (
	"sort"

	"thingsdo-cli/internal/model"
)

// Highlight is the multi-selection of one on-screen view. It is separate
// from whichever single item is opened.
type Highlight struct {
	scope string
	refs  map[string]model.Ref
}

func New(scope string) *Highlight {
	return &Highlight{scope: scope, refs: map[string]model.Ref{}}
}

func (h *Highlight) Scope() string { return h.scope }

// SetScope switches to another view and clears the set when the scope
// actually changes.
func (h *Highlight) SetScope(scope string) {
	if scope == h.scope {
		return
	}
	h.scope = scope
	h.Clear()
}

// Toggle adds ref if absent and removes it if present. It reports whether
// ref is highlighted afterwards.
func (h *Highlight) Toggle(ref model.Ref) bool {
	if _, ok := h.refs[ref.ID]; ok {
		delete(h.refs, ref.ID)
		return false
	}
	h.refs[ref.ID] = ref
	return true
}

func (h *Highlight) Clear() {
	if len(h.refs) == 0 {
		return
	}
	h.refs = map[string]model.Ref{}
}

func (h *Highlight) Has(id string) bool {
	_, ok := h.refs[id]
	return ok
}

func (h *Highlight) Len() int { return len(h.refs) }

// IDs returns the highlighted ids as a set.
func (h *Highlight) IDs() map[string]bool {
	out := make(map[string]bool, len(h.refs))
	for id := range h.refs {
		out[id] = true
	}
	return out
}

// Refs returns the highlighted refs sorted by id.
func (h *Highlight) Refs() []model.Ref {
	out := make([]model.Ref, 0, len(h.refs))
	for _, r := range h.refs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InOrder returns the highlighted refs in the order they appear in visible.
// Refs not in visible are omitted.
func (h *Highlight) InOrder(visible []model.Item) []model.Ref {
	var out []model.Ref
	for _, it := range visible {
		if r, ok := h.refs[it.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Retain drops refs that are no longer rendered in visible.
func (h *Highlight) Retain(visible []model.Item) {
	keep := make(map[string]bool, len(visible))
	for _, it := range visible {
		keep[it.ID] = true
	}
	for id := range h.refs {
		if !keep[id] {
			delete(h.refs, id)
		}
	}
}

// SelectRange highlights every visible item between anchor and id
// inclusive. When the anchor is not visible only id is added.
func (h *Highlight) SelectRange(visible []model.Item, anchor, id string) {
	ai, bi := -1, -1
	for i, it := range visible {
		if it.ID == anchor {
			ai = i
		}
		if it.ID == id {
			bi = i
		}
	}
	if bi < 0 {
		return
	}
	if ai < 0 {
		ai = bi
	}
	if ai > bi {
		ai, bi = bi, ai
	}
	for _, it := range visible[ai : bi+1] {
		h.refs[it.ID] = it.Ref()
	}
}
