package views

import (
	"sort"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/tags"
)

// Snapshot is every view derived from one item pool.
type Snapshot struct {
	Lists map[View][]model.Item
	// Available holds the effective tag ids present in each view before
	// filtering, sorted.
	Available map[View][]string
	Filter    []string
}

func (s Snapshot) List(v View) []model.Item {
	return s.Lists[v]
}

// Count returns per-view list lengths.
func (s Snapshot) Count(v View) int {
	return len(s.Lists[v])
}

// Derive classifies pool into views, applies the tag filter after
// classification and sorts each list.
func Derive(pool []model.Item, allTags []model.Tag, selected []string) Snapshot {
	idx := NewIndex(pool)
	projects := tags.IndexProjects(pool)
	h := tags.NewHierarchy(allTags)
	matcher := tags.Matcher{Hierarchy: h, Projects: projects}
	filter := matcher.Compile(selected)

	snap := Snapshot{
		Lists:     make(map[View][]model.Item, len(All)),
		Available: make(map[View][]string, len(All)),
		Filter:    append([]string(nil), selected...),
	}
	avail := make(map[View]tags.Set, len(All))
	for _, v := range All {
		snap.Lists[v] = []model.Item{}
		avail[v] = tags.Set{}
	}

	for i := range pool {
		it := pool[i]
		v := Classify(it, idx)
		for id := range h.Known(tags.Effective(it, projects)) {
			avail[v].Add(id)
		}
		if !filter.Matches(&it) {
			continue
		}
		snap.Lists[v] = append(snap.Lists[v], it)
	}

	for _, v := range All {
		if v == Logged {
			SortLogged(snap.Lists[v])
		} else {
			SortByOrder(snap.Lists[v])
		}
		snap.Available[v] = avail[v].Sorted()
	}
	return snap
}

// SortByOrder sorts ascending by manual order, then created at, then id.
func SortByOrder(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// SortLogged sorts newest log first; items without a log timestamp go last
// and keep their relative order.
func SortLogged(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].LoggedAt, items[j].LoggedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
