package tui

import (
	"fmt"
	"io"
	"strings"

	"thingsdo-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// row is one rendered list entry.
type row struct {
	item        model.Item
	tags        []string
	blocked     int
	highlighted bool
	moving      bool
}

func (r row) FilterValue() string { return r.item.Title }

func (r row) glyph() string {
	switch {
	case r.item.Deleted():
		return "✕"
	case r.item.LogStatus == model.LogCanceled:
		return "⊘"
	case r.item.Logged():
		return "✓"
	case r.blocked > 0:
		return "⧗"
	case r.item.Kind == model.KindProject:
		return "◆"
	default:
		return "○"
	}
}

func (r row) line() string {
	var b strings.Builder
	b.WriteString(r.glyph())
	b.WriteString(" ")
	b.WriteString(r.item.Title)
	var meta []string
	for _, t := range r.tags {
		meta = append(meta, "#"+t)
	}
	if r.item.Deadline != nil {
		meta = append(meta, "⚑ "+r.item.Deadline.Format("2006-01-02"))
	}
	if r.item.Evening {
		meta = append(meta, "☾")
	}
	if n := len(r.item.Checklist); n > 0 {
		done := 0
		for _, c := range r.item.Checklist {
			if c.Logged {
				done++
			}
		}
		meta = append(meta, fmt.Sprintf("%d/%d", done, n))
	}
	if r.blocked > 0 {
		meta = append(meta, fmt.Sprintf("blocked by %d", r.blocked))
	}
	if len(meta) > 0 {
		b.WriteString("  ")
		b.WriteString(styleMuted().Render(strings.Join(meta, " ")))
	}
	return b.String()
}

// rowDelegate renders one line per row. preview is the insertion index of
// an active drag, or -1.
type rowDelegate struct {
	preview int
}

func (d rowDelegate) Height() int                         { return 1 }
func (d rowDelegate) Spacing() int                        { return 0 }
func (d rowDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok || m.Width() < 4 {
		return
	}

	mark := "  "
	switch {
	case d.preview == index:
		mark = lipgloss.NewStyle().Foreground(colorDropMarker).Render("▶ ")
	case d.preview == len(m.Items()) && index == len(m.Items())-1:
		mark = lipgloss.NewStyle().Foreground(colorDropMarker).Render("▼ ")
	case r.highlighted:
		mark = lipgloss.NewStyle().Foreground(colorHighlightFg).Render("● ")
	}

	st := lipgloss.NewStyle()
	if r.moving {
		st = faintIfDark(st.Foreground(colorMuted)).Italic(true)
	}
	if index == m.Index() {
		st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	}
	fmt.Fprint(w, mark+st.Render(fitWidth(r.line(), m.Width()-2)))
}
