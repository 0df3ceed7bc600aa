package views

import (
	"context"
	"sort"
	"sync"

	"thingsdo-cli/internal/model"
)

// ItemSource pushes the full row set of a kind on every change.
type ItemSource interface {
	Subscribe(ctx context.Context, kind model.Kind, fn func([]model.Item)) (func(), error)
}

// TagSource pushes the full tag set on every change.
type TagSource interface {
	SubscribeTags(ctx context.Context, fn func([]model.Tag)) (func(), error)
}

// Live re-derives a Snapshot whenever the repository pushes new rows and
// hands it to its own subscribers. It holds the latest pool only; every
// snapshot is recomputed from it.
type Live struct {
	mu       sync.Mutex
	tasks    []model.Item
	projects []model.Item
	tags     []model.Tag
	selected []string
	snap     Snapshot

	next    int
	subs    map[int]func(Snapshot)
	cancels []func()
}

// NewLive subscribes to tasks, projects and (if tagSrc is non-nil) tags.
func NewLive(ctx context.Context, items ItemSource, tagSrc TagSource) (*Live, error) {
	l := &Live{subs: map[int]func(Snapshot){}}
	l.snap = Derive(nil, nil, nil)

	subscribe := func(kind model.Kind) error {
		cancel, err := items.Subscribe(ctx, kind, func(rows []model.Item) {
			l.mu.Lock()
			if kind == model.KindTask {
				l.tasks = rows
			} else {
				l.projects = rows
			}
			l.mu.Unlock()
			l.rederive()
		})
		if err != nil {
			return err
		}
		l.cancels = append(l.cancels, cancel)
		return nil
	}
	if err := subscribe(model.KindTask); err != nil {
		l.Close()
		return nil, err
	}
	if err := subscribe(model.KindProject); err != nil {
		l.Close()
		return nil, err
	}
	if tagSrc != nil {
		cancel, err := tagSrc.SubscribeTags(ctx, func(rows []model.Tag) {
			l.mu.Lock()
			l.tags = rows
			l.mu.Unlock()
			l.rederive()
		})
		if err != nil {
			l.Close()
			return nil, err
		}
		l.cancels = append(l.cancels, cancel)
	}
	return l, nil
}

func (l *Live) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

// Pool returns the latest unfiltered tasks followed by projects.
func (l *Live) Pool() []model.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Item, 0, len(l.tasks)+len(l.projects))
	out = append(out, l.tasks...)
	return append(out, l.projects...)
}

// Tags returns the latest tag set.
func (l *Live) Tags() []model.Tag {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Tag(nil), l.tags...)
}

// SetFilter changes the selected tag filter and re-derives.
func (l *Live) SetFilter(selected []string) {
	l.mu.Lock()
	l.selected = append([]string(nil), selected...)
	l.mu.Unlock()
	l.rederive()
}

// OnChange registers fn for every new snapshot. fn is not called with the
// current snapshot; use Snapshot for that.
func (l *Live) OnChange(fn func(Snapshot)) func() {
	l.mu.Lock()
	id := l.next
	l.next++
	l.subs[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
		})
	}
}

// Close cancels the repository subscriptions.
func (l *Live) Close() {
	l.mu.Lock()
	cancels := l.cancels
	l.cancels = nil
	l.mu.Unlock()
	for _, c := range cancels {
		c()
	}
}

func (l *Live) rederive() {
	l.mu.Lock()
	pool := make([]model.Item, 0, len(l.tasks)+len(l.projects))
	pool = append(pool, l.tasks...)
	pool = append(pool, l.projects...)
	snap := Derive(pool, l.tags, l.selected)
	l.snap = snap

	ids := make([]int, 0, len(l.subs))
	for id := range l.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.subs[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
