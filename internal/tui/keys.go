package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit        key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Highlight   key.Binding
	RangeSelect key.Binding
	Back        key.Binding
	Open        key.Binding
	Delete      key.Binding
	Drag        key.Binding
	DropAfter   key.Binding
	Later       key.Binding
	Complete    key.Binding
	Restore     key.Binding
	EmptyTrash  key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	New         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevTab:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Up:          key.NewBinding(key.WithKeys("up", "k")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		PageUp:      key.NewBinding(key.WithKeys("pgup")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown")),
		Top:         key.NewBinding(key.WithKeys("home", "g")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G")),
		Highlight:   key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "highlight")),
		RangeSelect: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "range")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Delete:      key.NewBinding(key.WithKeys("d", "backspace", "delete"), key.WithHelp("d", "delete")),
		Drag:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		DropAfter:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "drop after")),
		Later:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "later")),
		Complete:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Restore:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		EmptyTrash:  key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "empty trash")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "tag filter")),
		ClearFilter: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear filter")),
		New:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	}
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

func (k keyMap) help(t tab, dragging bool) string {
	switch {
	case dragging:
		return "↑/↓: choose target  enter: drop before  a: drop after  esc: cancel"
	case t == tabTrash:
		return helpLine(k.NextTab, k.Highlight, k.Restore, k.Delete, k.EmptyTrash, k.Open, k.Quit)
	default:
		return helpLine(k.NextTab, k.Highlight, k.Drag, k.Complete, k.Later, k.Delete, k.Filter, k.New, k.Open, k.Quit)
	}
}
