package store

import (
	"sort"
	"sync"
)

// publisher fans out fresh row sets to subscribers keyed by topic.
type publisher[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]subscription[T]
}

type subscription[T any] struct {
	topic string
	fn    func([]T)
}

func newPublisher[T any]() *publisher[T] {
	return &publisher[T]{subs: map[int]subscription[T]{}}
}

// subscribe registers fn for topic and returns an idempotent cancel func.
func (p *publisher[T]) subscribe(topic string, fn func([]T)) func() {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = subscription[T]{topic: topic, fn: fn}
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

func (p *publisher[T]) has(topic string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.subs {
		if s.topic == topic {
			return true
		}
	}
	return false
}

// publish calls every subscriber of topic in registration order. Callbacks
// run outside the lock so they may cancel or subscribe.
func (p *publisher[T]) publish(topic string, rows []T) {
	p.mu.Lock()
	ids := make([]int, 0, len(p.subs))
	for id, s := range p.subs {
		if s.topic == topic {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	fns := make([]func([]T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, p.subs[id].fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		out := make([]T, len(rows))
		copy(out, rows)
		fn(out)
	}
}
