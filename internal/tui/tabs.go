package tui

import (
	"sort"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/views"
)

type tab int

const (
	tabFocusing tab = iota
	tabLater
	tabBlocked
	tabLogged
	tabTrash
	tabProjects
)

var allTabs = []tab{tabFocusing, tabLater, tabBlocked, tabLogged, tabTrash, tabProjects}

// view is the derived view backing t. The projects tab has none.
func (t tab) view() (views.View, bool) {
	switch t {
	case tabFocusing:
		return views.Focusing, true
	case tabLater:
		return views.Later, true
	case tabBlocked:
		return views.Blocked, true
	case tabLogged:
		return views.Logged, true
	case tabTrash:
		return views.Trash, true
	default:
		return "", false
	}
}

func (t tab) title() string {
	if v, ok := t.view(); ok {
		return v.Title()
	}
	return "Projects"
}

// scope keys the highlight set.
func (t tab) scope() string {
	if v, ok := t.view(); ok {
		return string(v)
	}
	return "projects"
}

// rowsFor returns the items rendered by t, in display order.
func rowsFor(t tab, snap views.Snapshot) []model.Item {
	if v, ok := t.view(); ok {
		return snap.List(v)
	}
	// Live projects across the non-trash views, filtered like the views.
	var out []model.Item
	for _, v := range views.All {
		if v == views.Trash {
			continue
		}
		for _, it := range snap.List(v) {
			if it.Kind == model.KindProject {
				out = append(out, it)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Logged() != out[j].Logged() {
			return !out[i].Logged()
		}
		return out[i].Order < out[j].Order
	})
	return out
}
