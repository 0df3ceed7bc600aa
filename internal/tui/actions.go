package tui

import (
	"context"
	"fmt"
	"strings"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/mutate"
	"thingsdo-cli/internal/ordering"
	"thingsdo-cli/internal/selection"
	"thingsdo-cli/internal/tags"
	"thingsdo-cli/internal/views"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// report reflects a batch in the status line and re-reads the snapshot.
func (m *appModel) report(verb string, res mutate.BatchResult) tea.Cmd {
	m.refresh()
	n := len(res.Succeeded)
	if len(res.Failed) == 0 {
		if n == 0 {
			return nil
		}
		return m.setStatus(fmt.Sprintf("%s %s", verb, plural(n, "item")), false)
	}
	return m.setStatus(fmt.Sprintf("%s %d, %d failed: %v", verb, n, len(res.Failed), res.Failed[0].Err), true)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func (m *appModel) softDelete() tea.Cmd {
	now := m.now()
	if m.highlight.Len() > 0 {
		return m.report("Deleted", selection.DeleteHighlighted(m.ctx, m.repo, m.highlight, now))
	}
	return m.report("Deleted", mutate.SoftDeleteAll(m.ctx, m.repo, m.targets(), now))
}

func (m *appModel) restore() tea.Cmd {
	if m.highlight.Len() > 0 {
		return m.report("Restored", selection.RestoreHighlighted(m.ctx, m.repo, m.highlight))
	}
	return m.report("Restored", mutate.RestoreAll(m.ctx, m.repo, m.targets()))
}

func (m *appModel) confirmPurge() tea.Cmd {
	refs := m.targets()
	if len(refs) == 0 {
		return nil
	}
	m.confirm = &confirmState{
		title: "Delete permanently?",
		body:  fmt.Sprintf("%s will be removed for good. This cannot be undone.", plural(len(refs), "item")),
		label: "Delete",
		run: func(m *appModel) tea.Cmd {
			if m.highlight.Len() > 0 {
				return m.report("Purged", selection.PurgeHighlighted(m.ctx, m.repo, m.highlight))
			}
			return m.report("Purged", mutate.PurgeSelected(m.ctx, m.repo, refs))
		},
	}
	return nil
}

func (m *appModel) confirmEmptyTrash() tea.Cmd {
	n := m.snap.Count(views.Trash)
	if n == 0 {
		return m.setStatus("Trash is empty", false)
	}
	m.confirm = &confirmState{
		title: "Empty trash?",
		body:  fmt.Sprintf("All %s in the trash will be removed for good.", plural(n, "item")),
		label: "Empty",
		run: func(m *appModel) tea.Cmd {
			res, err := mutate.PurgeAll(m.ctx, m.repo)
			if err != nil {
				m.refresh()
				return m.setStatus(err.Error(), true)
			}
			m.highlight.Clear()
			return m.report("Purged", res)
		},
	}
	return nil
}

func (m *appModel) toggleLater() tea.Cmd {
	if m.tab == tabTrash || m.tab == tabLogged {
		return nil
	}
	later := m.tab != tabLater
	res := mutate.Each(m.ctx, m.targets(), func(ctx context.Context, ref model.Ref) error {
		_, err := mutate.SetLater(ctx, m.repo, ref, later)
		return err
	})
	if later {
		return m.report("Moved to Later", res)
	}
	return m.report("Moved out of Later", res)
}

// toggleComplete logs the targets, or reopens them in the Logged view.
func (m *appModel) toggleComplete() tea.Cmd {
	if m.tab == tabTrash {
		return nil
	}
	now := m.now()
	if m.tab == tabLogged {
		return m.report("Reopened", mutate.Each(m.ctx, m.targets(), func(ctx context.Context, ref model.Ref) error {
			_, err := mutate.Reopen(ctx, m.repo, ref)
			return err
		}))
	}
	return m.report("Completed", mutate.Each(m.ctx, m.targets(), func(ctx context.Context, ref model.Ref) error {
		_, err := mutate.Log(ctx, m.repo, ref, model.LogCompleted, now)
		return err
	}))
}

// filterOptions are the tags available in the current tab plus the
// no-tag selector.
func (m appModel) filterOptions() []string {
	var out []string
	if v, ok := m.tab.view(); ok {
		out = append(out, m.snap.Available[v]...)
	} else {
		seen := tags.Set{}
		for _, v := range views.All {
			if v != views.Trash {
				seen.Add(m.snap.Available[v]...)
			}
		}
		out = seen.Sorted()
	}
	return append(out, tags.NoTag)
}

// cycleFilter steps through filterOptions and back to no filter.
func (m *appModel) cycleFilter() {
	opts := m.filterOptions()
	m.filterIdx++
	if m.filterIdx >= len(opts) {
		m.filterIdx = -1
		m.live.SetFilter(nil)
	} else {
		m.live.SetFilter([]string{opts[m.filterIdx]})
	}
	m.refresh()
}

// filterLabel names the active filter for the header.
func (m appModel) filterLabel() string {
	if len(m.snap.Filter) == 0 {
		return ""
	}
	h := tags.NewHierarchy(m.live.Tags())
	parts := make([]string, 0, len(m.snap.Filter))
	for _, id := range m.snap.Filter {
		if id == tags.NoTag {
			parts = append(parts, "(no tag)")
			continue
		}
		parts = append(parts, h.Path(id))
	}
	return strings.Join(parts, " + ")
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputOn = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(m.input.Value())
		m.inputOn = false
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		cmd := m.create(title)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// create inserts a task (or project on the projects tab) at the end of the
// current view. Filter tags are applied to the new item.
func (m *appModel) create(title string) tea.Cmd {
	kind := model.KindTask
	if m.tab == tabProjects {
		kind = model.KindProject
	}
	fields := model.Item{Title: title, Later: m.tab == tabLater}
	for _, id := range m.snap.Filter {
		if id != tags.NoTag {
			fields.TagIDs = append(fields.TagIDs, id)
		}
	}
	it, err := ordering.InsertAtEnd(m.ctx, m.repo, kind, fields)
	m.refresh()
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	for i, r := range m.list.Items() {
		if r.(row).item.ID == it.ID {
			m.list.Select(i)
			break
		}
	}
	return m.setStatus("Created "+it.Title, false)
}

func (m appModel) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.drag.End()
		m.syncList()
		cmd := m.setStatus("Move canceled", false)
		return m, cmd
	case key.Matches(msg, m.keys.Open):
		cmd := m.drop(false)
		return m, cmd
	case key.Matches(msg, m.keys.DropAfter):
		cmd := m.drop(true)
		return m, cmd
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// drop releases the drag over the cursor row. Rows are one unit tall, so
// the pointer sits in the upper or lower half of the cursor row.
func (m *appModel) drop(after bool) tea.Cmd {
	it, ok := m.cursor()
	if !ok {
		m.drag.End()
		m.syncList()
		return nil
	}
	idx := float64(m.list.Index())
	geom := ordering.Geometry{TargetID: it.ID, Top: idx, Height: 1, PointerY: idx + 0.25}
	if after {
		geom.PointerY = idx + 0.75
	}
	source := m.drag.Source()
	writes, err := m.drag.Drop(m.visible(), geom)
	if err != nil {
		m.syncList()
		return m.setStatus(err.Error(), true)
	}
	cmd := m.report("Reordered", ordering.Apply(m.ctx, m.repo, writes))
	for i, r := range m.list.Items() {
		if r.(row).item.ID == source {
			m.list.Select(i)
			break
		}
	}
	return cmd
}
