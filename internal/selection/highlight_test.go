package selection

import (
	"context"
	"errors"
	"testing"
	"time"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store/storetest"

	"github.com/google/go-cmp/cmp"
)

func task(id string) model.Item { return model.Item{ID: id, Kind: model.KindTask} }

func ids(refs []model.Ref) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}

func TestHighlight_ToggleClear(t *testing.T) {
	t.Parallel()

	h := New("focusing")
	if !h.Toggle(task("task-a").Ref()) || !h.Has("task-a") || h.Len() != 1 {
		t.Fatalf("expected task-a highlighted")
	}
	if h.Toggle(task("task-a").Ref()) || h.Has("task-a") || h.Len() != 0 {
		t.Fatalf("expected second toggle to remove task-a")
	}

	h.Toggle(task("task-b").Ref())
	h.Toggle(task("task-a").Ref())
	if diff := cmp.Diff([]string{"task-a", "task-b"}, ids(h.Refs())); diff != "" {
		t.Fatalf("refs mismatch (-want +got):\n%s", diff)
	}
	h.Clear()
	h.Clear()
	if h.Len() != 0 {
		t.Fatalf("expected empty after clear")
	}
}

func TestHighlight_ScopeAndRetain(t *testing.T) {
	t.Parallel()

	h := New("focusing")
	h.Toggle(task("task-a").Ref())
	h.SetScope("focusing")
	if h.Len() != 1 {
		t.Fatalf("same scope must keep highlight")
	}
	h.SetScope("later")
	if h.Len() != 0 || h.Scope() != "later" {
		t.Fatalf("switching views must clear highlight")
	}

	h.Toggle(task("task-a").Ref())
	h.Toggle(task("task-b").Ref())
	h.Retain([]model.Item{task("task-b"), task("task-c")})
	if diff := cmp.Diff([]string{"task-b"}, ids(h.Refs())); diff != "" {
		t.Fatalf("retain mismatch (-want +got):\n%s", diff)
	}
}

func TestHighlight_SelectRangeAndInOrder(t *testing.T) {
	t.Parallel()

	visible := []model.Item{task("a"), task("b"), task("c"), task("d"), task("e")}
	h := New("focusing")
	h.SelectRange(visible, "d", "b")
	if diff := cmp.Diff([]string{"b", "c", "d"}, ids(h.InOrder(visible))); diff != "" {
		t.Fatalf("range mismatch (-want +got):\n%s", diff)
	}

	h.Clear()
	h.SelectRange(visible, "missing", "e")
	if diff := cmp.Diff([]string{"e"}, ids(h.InOrder(visible))); diff != "" {
		t.Fatalf("missing anchor mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteHighlighted_PartialFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := storetest.NewMemory(task("task-a"), task("task-b"), task("task-c"))
	boom := errors.New("locked")
	repo.Fail["task-b"] = boom

	h := New("focusing")
	for _, id := range []string{"task-a", "task-b", "task-c"} {
		h.Toggle(task(id).Ref())
	}
	now := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	res := DeleteHighlighted(ctx, repo, h, now)

	if h.Len() != 0 {
		t.Fatalf("highlight must be cleared once after the batch")
	}
	if diff := cmp.Diff([]string{"task-b"}, res.FailedIDs()); diff != "" {
		t.Fatalf("failed ids mismatch (-want +got):\n%s", diff)
	}
	for _, id := range []string{"task-a", "task-c"} {
		it, _, _ := repo.Get(ctx, model.KindTask, id)
		if it.DeletedAt == nil || !it.DeletedAt.Equal(now) {
			t.Fatalf("%s should be soft-deleted at now; got %v", id, it.DeletedAt)
		}
	}
	b, _, _ := repo.Get(ctx, model.KindTask, "task-b")
	if b.Deleted() {
		t.Fatalf("failed write must leave task-b untouched")
	}
}

func TestRestoreAndPurgeHighlighted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	when := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	a, b := task("task-a"), task("task-b")
	a.DeletedAt, b.DeletedAt = &when, &when
	repo := storetest.NewMemory(a, b)

	h := New("trash")
	h.Toggle(a.Ref())
	if res := RestoreHighlighted(ctx, repo, h); res.Err() != nil || h.Len() != 0 {
		t.Fatalf("restore: %+v", res)
	}
	h.Toggle(b.Ref())
	if res := PurgeHighlighted(ctx, repo, h); res.Err() != nil || len(res.Succeeded) != 1 {
		t.Fatalf("purge: %+v", res)
	}
	if _, ok, _ := repo.Get(ctx, model.KindTask, "task-b"); ok {
		t.Fatalf("purged row must be gone")
	}
}
