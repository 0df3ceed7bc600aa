package tui

import (
	"context"
	"time"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/ordering"
	"thingsdo-cli/internal/selection"
	"thingsdo-cli/internal/store"
	"thingsdo-cli/internal/tags"
	"thingsdo-cli/internal/views"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// snapshotMsg tells the model the live snapshot changed.
type snapshotMsg struct{}

type statusClearMsg struct{ seq int }

type appModel struct {
	ctx       context.Context
	repo      store.Repository
	live      *views.Live
	workspace string
	keys      keyMap
	now       func() time.Time

	width  int
	height int

	tab       tab
	snap      views.Snapshot
	list      list.Model
	highlight *selection.Highlight
	anchor    string
	drag      ordering.Drag
	detailID  string
	confirm   *confirmState
	// preview is the drag insertion index, or -1.
	preview   int

	input   textinput.Model
	inputOn bool

	// filterIdx indexes filterOptions; -1 means no filter.
	filterIdx int

	status    string
	statusErr bool
	statusSeq int
	statusTTL time.Duration
}

func newAppModel(ctx context.Context, repo store.Repository, live *views.Live, workspace string) appModel {
	l := list.New(nil, rowDelegate{preview: -1}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	in := textinput.New()
	in.Placeholder = "Title"
	in.Prompt = "New: "

	m := appModel{
		ctx:       ctx,
		repo:      repo,
		live:      live,
		workspace: workspace,
		keys:      defaultKeyMap(),
		now:       func() time.Time { return time.Now().UTC() },
		tab:       tabFocusing,
		list:      l,
		highlight: selection.New(tabFocusing.scope()),
		input:     in,
		filterIdx: -1,
		preview:   -1,
		statusTTL: 4 * time.Second,
	}
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) visible() []model.Item { return rowsFor(m.tab, m.snap) }

func (m appModel) cursor() (model.Item, bool) {
	r, ok := m.list.SelectedItem().(row)
	if !ok {
		return model.Item{}, false
	}
	return r.item, true
}

// targets are the highlighted items in visible order, else the cursor item.
func (m appModel) targets() []model.Ref {
	if m.highlight.Len() > 0 {
		return m.highlight.InOrder(m.visible())
	}
	if it, ok := m.cursor(); ok {
		return []model.Ref{it.Ref()}
	}
	return nil
}

// refresh re-reads the live snapshot and rebuilds the list, keeping the
// cursor on the same item when it is still visible.
func (m *appModel) refresh() {
	m.snap = m.live.Snapshot()
	visible := m.visible()
	m.highlight.Retain(visible)
	if m.drag.Active() && !containsID(visible, m.drag.Source()) {
		m.drag.End()
	}
	if m.detailID != "" {
		if _, ok := m.findItem(m.detailID); !ok {
			m.detailID = ""
		}
	}
	m.syncList()
}

func (m *appModel) syncList() {
	curID := ""
	if it, ok := m.cursor(); ok {
		curID = it.ID
	}
	curIdx := m.list.Index()

	pool := m.live.Pool()
	idx := views.NewIndex(pool)
	projects := tags.IndexProjects(pool)
	h := tags.NewHierarchy(m.live.Tags())

	visible := m.visible()
	items := make([]list.Item, 0, len(visible))
	for _, it := range visible {
		r := row{
			item:        it,
			blocked:     len(views.ActiveBlockers(it, idx)),
			highlighted: m.highlight.Has(it.ID),
			moving:      m.drag.Moving(it.ID),
		}
		for _, id := range h.Known(tags.Effective(it, projects)).Sorted() {
			r.tags = append(r.tags, h.Path(id))
		}
		items = append(items, r)
	}
	m.list.SetItems(items)

	sel := -1
	for i, it := range visible {
		if it.ID == curID {
			sel = i
			break
		}
	}
	switch {
	case sel >= 0:
		m.list.Select(sel)
	case len(items) == 0:
	case curIdx >= len(items):
		m.list.Select(len(items) - 1)
	default:
		m.list.Select(curIdx)
	}
	m.syncPreview()
}

// syncPreview points the delegate at the current drop position.
func (m *appModel) syncPreview() {
	m.preview = -1
	if it, ok := m.cursor(); ok {
		if i, ok := m.drag.Over(m.visible(), it.ID, false); ok {
			m.preview = i
		}
	}
	m.list.SetDelegate(rowDelegate{preview: m.preview})
}

func (m appModel) findItem(id string) (model.Item, bool) {
	for _, it := range m.live.Pool() {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

func (m *appModel) switchTab(t tab) {
	m.tab = t
	m.highlight.SetScope(t.scope())
	m.anchor = ""
	m.drag.End()
	m.detailID = ""
	m.list.Select(0)
	m.refresh()
}

func (m *appModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusErr = isErr
	m.statusSeq++
	if m.statusTTL <= 0 {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(m.statusTTL, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (m *appModel) resize() {
	w, h := m.width, m.bodyHeight()
	if m.detailID != "" {
		w = m.width / 2
	}
	if w < 20 {
		w = 20
	}
	m.list.SetSize(w, h)
}

// bodyHeight leaves room for header, tabs and footer.
func (m appModel) bodyHeight() int {
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	return h
}

func containsID(list []model.Item, id string) bool {
	for _, it := range list {
		if it.ID == id {
			return true
		}
	}
	return false
}
