// Package storetest provides an in-process store.Repository for tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store"
)

// Memory is an in-process Repository. Writes follow the same parent rules as
// store.Store. Fail lets callers inject per-id write errors.
type Memory struct {
	mu      sync.Mutex
	items   map[string]model.Item
	subs    map[model.Kind]map[int]func([]model.Item)
	nextID  int
	nextSub int

	// Fail maps an item id to the error returned by Update and Delete.
	Fail map[string]error
	// Writes counts successful Update calls.
	Writes int

	Now func() time.Time
}

var _ store.Repository = (*Memory)(nil)

// NewMemory seeds a repository with items as given. Seeded rows are not
// validated; a missing kind is inferred from the id prefix.
func NewMemory(items ...model.Item) *Memory {
	m := &Memory{
		items: map[string]model.Item{},
		subs:  map[model.Kind]map[int]func([]model.Item){},
		Fail:  map[string]error{},
		Now:   func() time.Time { return time.Now().UTC() },
	}
	for _, it := range items {
		if !it.Kind.Valid() {
			if k, ok := model.KindOfID(it.ID); ok {
				it.Kind = k
			} else {
				it.Kind = model.KindTask
			}
		}
		m.items[it.ID] = it
	}
	return m
}

func (m *Memory) ListAll(ctx context.Context, kind model.Kind) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked(kind), nil
}

func (m *Memory) listLocked(kind model.Kind) []model.Item {
	out := []model.Item{}
	for _, it := range m.items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) Get(ctx context.Context, kind model.Kind, id string) (model.Item, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok || it.Kind != kind {
		return model.Item{}, false, nil
	}
	return it, true, nil
}

func (m *Memory) Insert(ctx context.Context, kind model.Kind, fields model.Item) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("invalid kind %q", kind)
	}
	m.mu.Lock()
	m.nextID++
	it := fields
	it.ID = fmt.Sprintf("%s-mem%05d", kind.IDPrefix(), m.nextID)
	it.Kind = kind
	if kind != model.KindTask {
		it.Checklist = nil
	}
	if err := m.checkParentLocked(it); err != nil {
		m.mu.Unlock()
		return "", err
	}
	it.CreatedAt = m.Now()
	it.UpdatedAt = it.CreatedAt
	m.items[it.ID] = it
	m.mu.Unlock()
	m.notify(kind)
	return it.ID, nil
}

func (m *Memory) Update(ctx context.Context, kind model.Kind, id string, p store.Patch) error {
	m.mu.Lock()
	if err := m.Fail[id]; err != nil {
		m.mu.Unlock()
		return err
	}
	it, ok := m.items[id]
	if !ok || it.Kind != kind {
		m.mu.Unlock()
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	if p.Empty() {
		m.mu.Unlock()
		return nil
	}
	p.Apply(&it)
	if p.ParentID.Present() {
		if err := m.checkParentLocked(it); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	it.UpdatedAt = m.Now()
	m.items[id] = it
	m.Writes++
	m.mu.Unlock()
	m.notify(kind)
	return nil
}

func (m *Memory) Delete(ctx context.Context, kind model.Kind, id string) error {
	m.mu.Lock()
	if err := m.Fail[id]; err != nil {
		m.mu.Unlock()
		return err
	}
	it, ok := m.items[id]
	if !ok || it.Kind != kind {
		m.mu.Unlock()
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	delete(m.items, id)
	m.mu.Unlock()
	m.notify(kind)
	return nil
}

// Subscribe pushes the current rows to fn before returning, then again after
// every write of kind.
func (m *Memory) Subscribe(ctx context.Context, kind model.Kind, fn func([]model.Item)) (func(), error) {
	m.mu.Lock()
	if m.subs[kind] == nil {
		m.subs[kind] = map[int]func([]model.Item){}
	}
	m.nextSub++
	key := m.nextSub
	m.subs[kind][key] = fn
	rows := m.listLocked(kind)
	m.mu.Unlock()

	fn(rows)
	return func() {
		m.mu.Lock()
		delete(m.subs[kind], key)
		m.mu.Unlock()
	}, nil
}

func (m *Memory) notify(kind model.Kind) {
	m.mu.Lock()
	rows := m.listLocked(kind)
	fns := make([]func([]model.Item), 0, len(m.subs[kind]))
	for _, fn := range m.subs[kind] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(rows)
	}
}

// checkParentLocked mirrors store.Store: a task parent must be a live
// project, and projects take no parent.
func (m *Memory) checkParentLocked(it model.Item) error {
	if it.ParentID == nil {
		return nil
	}
	pid := strings.TrimSpace(*it.ParentID)
	if it.Kind == model.KindProject {
		return store.InvalidParentError{Kind: it.Kind, ID: it.ID, ParentID: pid}
	}
	p, ok := m.items[pid]
	if !ok || p.Kind != model.KindProject || p.Deleted() {
		return store.InvalidParentError{Kind: it.Kind, ID: it.ID, ParentID: pid}
	}
	return nil
}
