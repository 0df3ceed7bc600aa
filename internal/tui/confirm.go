package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmFocus int

const (
	confirmFocusConfirm confirmFocus = iota
	confirmFocusCancel
)

// confirmState is an open confirmation modal. run performs the action.
type confirmState struct {
	title string
	body  string
	label string
	focus confirmFocus
	run   func(m *appModel) tea.Cmd
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch msg.String() {
	case "esc", "ctrl+g", "n", "q":
		m.confirm = nil
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		if c.focus == confirmFocusConfirm {
			c.focus = confirmFocusCancel
		} else {
			c.focus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		m.confirm = nil
		cmd := c.run(&m)
		return m, cmd
	case "enter":
		m.confirm = nil
		if c.focus == confirmFocusCancel {
			return m, nil
		}
		cmd := c.run(&m)
		return m, cmd
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func modalBodyWidth(width int) int {
	w := width - 8
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderConfirmModal(width int, c *confirmState) string {
	// No nested borders: some terminals leave background artifacts.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(c.label)
	cancel := btnBase.Render("Cancel")
	if c.focus == confirmFocusConfirm {
		confirm = btnActive.Render(c.label)
	} else {
		cancel = btnActive.Render("Cancel")
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	bodyW := modalBodyWidth(width)
	content := strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render(c.title),
		"",
		lipgloss.NewStyle().Width(bodyW).Render(c.body),
		"",
		controls,
		"",
		styleMuted().Width(bodyW).Render("tab: focus  enter: select  y: confirm  esc: cancel"),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2).
		Render(content)
}
