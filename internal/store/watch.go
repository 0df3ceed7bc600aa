package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch emits a value whenever the database files in the store dir change,
// coalescing bursts. The channel closes when ctx is done or the watcher fails.
// Our own writes also trigger it; callers treat it as a refresh hint.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(s.Dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", s.Dir, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		}()

		// The throttle timer only signals tick; out is written from this
		// goroutine so it is never written after close.
		tick := make(chan struct{}, 1)
		send := func() {
			select {
			case tick <- struct{}{}:
			default:
			}
		}
		throttle := newThrottle(100 * time.Millisecond)
		defer throttle.stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-tick:
				select {
				case out <- struct{}{}:
				default:
					// A refresh is already pending.
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.enqueue(send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isDBFile(evt.Name) || evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				throttle.enqueue(send)
			}
		}
	}()
	return out, nil
}

func isDBFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), dbFileName)
}

// throttle coalesces rapid notifications into one call per delay window.
type throttle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay}
}

func (t *throttle) enqueue(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
}

func (t *throttle) stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
