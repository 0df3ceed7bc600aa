package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case snapshotMsg:
		m.refresh()
		return m, nil

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.inputOn:
			return m.updateInput(msg)
		case m.confirm != nil:
			return m.updateConfirm(msg)
		case m.drag.Active():
			return m.updateDrag(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	if m.moveCursor(msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.NextTab):
		m.switchTab(allTabs[(int(m.tab)+1)%len(allTabs)])
		m.resize()
		return m, nil

	case key.Matches(msg, k.PrevTab):
		m.switchTab(allTabs[(int(m.tab)+len(allTabs)-1)%len(allTabs)])
		m.resize()
		return m, nil

	case key.Matches(msg, k.Back):
		switch {
		case m.detailID != "":
			m.detailID = ""
			m.resize()
		case m.highlight.Len() > 0:
			m.highlight.Clear()
			m.anchor = ""
			m.syncList()
		}
		return m, nil

	case key.Matches(msg, k.Open):
		if it, ok := m.cursor(); ok {
			m.detailID = it.ID
			m.highlight.Clear()
			m.anchor = ""
			m.resize()
		}
		return m, nil

	case key.Matches(msg, k.Highlight):
		if it, ok := m.cursor(); ok {
			m.highlight.Toggle(it.Ref())
			m.anchor = it.ID
			m.syncList()
		}
		return m, nil

	case key.Matches(msg, k.RangeSelect):
		if it, ok := m.cursor(); ok {
			m.highlight.SelectRange(m.visible(), m.anchor, it.ID)
			if m.anchor == "" {
				m.anchor = it.ID
			}
			m.syncList()
		}
		return m, nil

	case key.Matches(msg, k.Delete):
		if m.detailID != "" {
			return m, nil
		}
		if m.tab == tabTrash {
			cmd := m.confirmPurge()
			return m, cmd
		}
		cmd := m.softDelete()
		return m, cmd

	case key.Matches(msg, k.Restore):
		if m.tab != tabTrash {
			return m, nil
		}
		cmd := m.restore()
		return m, cmd

	case key.Matches(msg, k.EmptyTrash):
		if m.tab != tabTrash {
			return m, nil
		}
		cmd := m.confirmEmptyTrash()
		return m, cmd

	case key.Matches(msg, k.Drag):
		if m.tab == tabTrash {
			return m, nil
		}
		if it, ok := m.cursor(); ok {
			m.drag.Start(m.visible(), it.ID, m.highlight.IDs())
			m.syncList()
		}
		return m, nil

	case key.Matches(msg, k.Later):
		cmd := m.toggleLater()
		return m, cmd

	case key.Matches(msg, k.Complete):
		cmd := m.toggleComplete()
		return m, cmd

	case key.Matches(msg, k.Filter):
		m.cycleFilter()
		return m, nil

	case key.Matches(msg, k.ClearFilter):
		m.filterIdx = -1
		m.live.SetFilter(nil)
		m.refresh()
		return m, nil

	case key.Matches(msg, k.New):
		if m.tab == tabTrash || m.tab == tabLogged || m.tab == tabBlocked {
			cmd := m.setStatus("New items go to Focusing, Later or Projects", true)
			return m, cmd
		}
		m.inputOn = true
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

// moveCursor applies navigation keys to the list. An open detail pane
// follows the cursor.
func (m *appModel) moveCursor(msg tea.KeyMsg) bool {
	moved := false
	switch {
	case key.Matches(msg, m.keys.Up):
		m.list.CursorUp()
		moved = true
	case key.Matches(msg, m.keys.Down):
		m.list.CursorDown()
		moved = true
	case key.Matches(msg, m.keys.PageUp):
		m.list.PrevPage()
		moved = true
	case key.Matches(msg, m.keys.PageDown):
		m.list.NextPage()
		moved = true
	case key.Matches(msg, m.keys.Top):
		m.list.Select(0)
		moved = true
	case key.Matches(msg, m.keys.Bottom):
		if n := len(m.list.Items()); n > 0 {
			m.list.Select(n - 1)
		}
		moved = true
	}
	if !moved {
		return false
	}
	if it, ok := m.cursor(); ok && m.detailID != "" {
		m.detailID = it.ID
	}
	m.syncPreview()
	return true
}
