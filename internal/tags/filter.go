package tags

import "thingsdo-cli/internal/model"

// NoTag is the filter selector that matches items without any effective tag.
// It is never a real tag id.
const NoTag = "-"

// Matcher decides whether items satisfy a tag filter.
type Matcher struct {
	Hierarchy *Hierarchy
	Projects  Projects
}

// Matches reports whether item's effective tags satisfy every selected tag.
// A selected tag is satisfied by the tag itself or any of its descendants.
// Effective ids that no longer resolve to a tag are ignored.
func (m Matcher) Matches(item *model.Item, selected []string) bool {
	return m.Compile(selected).Matches(item)
}

// Compile resolves the closures for selected once so the filter can be
// applied to many items.
func (m Matcher) Compile(selected []string) Filter {
	h := m.Hierarchy
	if h == nil {
		h = NewHierarchy(nil)
	}
	f := Filter{hierarchy: h, projects: m.Projects}
	seen := Set{}
	for _, id := range selected {
		if seen.Has(id) {
			continue
		}
		seen.Add(id)
		if id == NoTag {
			f.noTag = true
			continue
		}
		f.closures = append(f.closures, h.ClosureOf(id))
	}
	return f
}

// Filter is a compiled tag selection.
type Filter struct {
	hierarchy *Hierarchy
	projects  Projects
	closures  []Set
	noTag     bool
}

// Active reports whether the filter restricts anything.
func (f Filter) Active() bool {
	return f.noTag || len(f.closures) > 0
}

func (f Filter) Matches(item *model.Item) bool {
	if !f.Active() {
		return true
	}
	if item == nil {
		return false
	}
	eff := f.hierarchy.Known(Effective(*item, f.projects))
	if f.noTag && len(eff) > 0 {
		return false
	}
	for _, c := range f.closures {
		if !eff.Intersects(c) {
			return false
		}
	}
	return true
}
