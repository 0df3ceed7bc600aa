package views

import (
	"strings"

	"thingsdo-cli/internal/model"
)

type View string

const (
	Focusing View = "focusing"
	Later    View = "later"
	Blocked  View = "blocked"
	Logged   View = "logged"
	Trash    View = "trash"
)

// All lists the views in display order.
var All = []View{Focusing, Later, Blocked, Logged, Trash}

func Parse(s string) (View, bool) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All {
		if v == known {
			return v, true
		}
	}
	return "", false
}

func (v View) Title() string {
	switch v {
	case Focusing:
		return "Focusing"
	case Later:
		return "Later"
	case Blocked:
		return "Blocked"
	case Logged:
		return "Logged"
	case Trash:
		return "Trash"
	default:
		return string(v)
	}
}

// Index resolves item ids across both kinds.
type Index map[string]model.Item

func NewIndex(items []model.Item) Index {
	out := make(Index, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out
}

// ActiveBlockers returns the blocked-by ids that still block it: those that
// resolve to another item that is neither deleted nor logged. Dangling ids
// count as cleared.
func ActiveBlockers(it model.Item, pool Index) []string {
	var out []string
	for _, id := range it.BlockedBy {
		id = strings.TrimSpace(id)
		if id == "" || id == it.ID {
			continue
		}
		b, ok := pool[id]
		if !ok || b.Deleted() || b.Logged() {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Classify places it in exactly one view. Precedence: trash, logged,
// blocked, later, focusing. Blocked wins over later.
func Classify(it model.Item, pool Index) View {
	switch {
	case it.Deleted():
		return Trash
	case it.Logged():
		return Logged
	case len(ActiveBlockers(it, pool)) > 0:
		return Blocked
	case it.Later:
		return Later
	default:
		return Focusing
	}
}
