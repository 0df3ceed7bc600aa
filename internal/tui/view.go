package tui

import (
	"fmt"
	"strings"
	"time"

	"thingsdo-cli/internal/statusutil"
	"thingsdo-cli/internal/tags"
	"thingsdo-cli/internal/views"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	header := m.viewHeader()
	tabsLine := m.viewTabs()

	bodyH := m.bodyHeight()
	var body string
	switch {
	case m.confirm != nil:
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, renderConfirmModal(m.width, m.confirm))
	case len(m.list.Items()) == 0:
		body = normalizePane(styleMuted().Render("  Nothing here."), m.width, bodyH)
	case m.detailID != "":
		leftW := m.width / 2
		rightW := m.width - leftW - 1
		left := normalizePane(m.list.View(), leftW, bodyH)
		right := normalizePane(m.viewDetail(rightW), rightW, bodyH)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	default:
		body = normalizePane(m.list.View(), m.width, bodyH)
	}

	return strings.Join([]string{header, tabsLine, body, m.viewFooter()}, "\n")
}

func (m appModel) viewHeader() string {
	parts := []string{lipgloss.NewStyle().Bold(true).Render("thingsdo")}
	if m.workspace != "" {
		parts = append(parts, styleChrome().Render(m.workspace))
	}
	if f := m.filterLabel(); f != "" {
		parts = append(parts, styleChrome().Render("filter: "+f))
	}
	if n := m.highlight.Len(); n > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorHighlightFg).Render(fmt.Sprintf("%d highlighted", n)))
	}
	return strings.Join(parts, "  ·  ")
}

func (m appModel) viewTabs() string {
	out := make([]string, 0, len(allTabs))
	for _, t := range allTabs {
		label := fmt.Sprintf("%s %d", t.title(), len(rowsFor(t, m.snap)))
		if t == m.tab {
			out = append(out, styleTabActive().Render(label))
		} else {
			out = append(out, styleTab().Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m appModel) viewFooter() string {
	switch {
	case m.inputOn:
		return m.input.View()
	case m.status != "" && m.statusErr:
		return styleError().Render(m.status)
	case m.status != "":
		return m.status
	default:
		return styleMuted().Render(m.keys.help(m.tab, m.drag.Active()))
	}
}

func (m appModel) viewDetail(width int) string {
	it, ok := m.findItem(m.detailID)
	if !ok {
		return styleMuted().Render("Item not found.")
	}
	pool := m.live.Pool()
	idx := views.NewIndex(pool)
	h := tags.NewHierarchy(m.live.Tags())

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Width(width).Render(it.Title))
	b.WriteString("\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styleMuted().Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	field("id", it.ID)
	field("view", views.Classify(it, idx).Title())
	if it.ParentID != nil {
		if p, ok := idx[*it.ParentID]; ok {
			field("project", p.Title)
		}
	}
	var tagPaths []string
	for _, id := range h.Known(tags.Effective(it, tags.IndexProjects(pool))).Sorted() {
		tagPaths = append(tagPaths, h.Path(id))
	}
	field("tags", strings.Join(tagPaths, ", "))
	field("defer", string(it.Defer))
	field("start", dateOrEmpty(it.StartDate))
	field("deadline", dateOrEmpty(it.Deadline))
	if it.Evening {
		field("evening", "yes")
	}
	if label := statusutil.LogLabel(it); label != "" {
		field("logged", label+" "+it.LoggedAt.Local().Format("2006-01-02 15:04"))
	}
	var blockers []string
	for _, id := range views.ActiveBlockers(it, idx) {
		blockers = append(blockers, idx[id].Title)
	}
	field("blocked by", strings.Join(blockers, ", "))
	if it.ExternalID != nil {
		field("external", *it.ExternalID)
	}

	if len(it.Checklist) > 0 {
		b.WriteString("\n")
		for _, c := range it.Checklist {
			mark := "[ ]"
			if c.Logged {
				mark = "[x]"
			}
			b.WriteString(mark + " " + c.Title + "\n")
		}
	}
	if notes := renderMarkdown(it.Notes, width); notes != "" {
		b.WriteString("\n")
		b.WriteString(notes)
	}
	return b.String()
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
