package views

import (
	"testing"
	"time"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/tags"

	"github.com/google/go-cmp/cmp"
)

func ids(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestDerive_SortsByOrderWithTiebreaks(t *testing.T) {
	t.Parallel()

	pool := []model.Item{
		{ID: "task-c", Order: 2, CreatedAt: t0},
		{ID: "task-b", Order: 1, CreatedAt: t0.Add(time.Second)},
		{ID: "task-a", Order: 1, CreatedAt: t0.Add(time.Second)},
		{ID: "task-z", Order: 1, CreatedAt: t0},
	}
	got := ids(Derive(pool, nil, nil).List(Focusing))
	if diff := cmp.Diff([]string{"task-z", "task-a", "task-b", "task-c"}, got); diff != "" {
		t.Fatalf("focusing order mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_LoggedNewestFirstMissingLast(t *testing.T) {
	t.Parallel()

	logged := []model.Item{
		{ID: "old", LoggedAt: ts(time.Minute), Order: 1},
		{ID: "new", LoggedAt: ts(time.Hour), Order: 2},
		{ID: "mid", LoggedAt: ts(10 * time.Minute), Order: 3},
	}
	SortLogged(logged)
	if diff := cmp.Diff([]string{"new", "mid", "old"}, ids(logged)); diff != "" {
		t.Fatalf("logged order mismatch (-want +got):\n%s", diff)
	}

	mixed := []model.Item{{ID: "n1"}, {ID: "x", LoggedAt: ts(0)}, {ID: "n2"}}
	SortLogged(mixed)
	if diff := cmp.Diff([]string{"x", "n1", "n2"}, ids(mixed)); diff != "" {
		t.Fatalf("missing timestamps must sort last and stay stable (-want +got):\n%s", diff)
	}
}

func TestDerive_FilterAfterClassification(t *testing.T) {
	t.Parallel()

	allTags := []model.Tag{
		{ID: "tag-a", Name: "a"},
		{ID: "tag-b", Name: "b", ParentID: strPtr("tag-a")},
		{ID: "tag-c", Name: "c"},
	}
	pool := []model.Item{
		{ID: "proj-p", Kind: model.KindProject, TagIDs: []string{"tag-c"}, Order: 9},
		{ID: "task-1", Kind: model.KindTask, TagIDs: []string{"tag-b"}, Order: 2},
		{ID: "task-2", Kind: model.KindTask, Order: 1},
		{ID: "task-3", Kind: model.KindTask, ParentID: strPtr("proj-p"), Order: 3},
		{ID: "task-4", Kind: model.KindTask, TagIDs: []string{"tag-b"}, Later: true},
	}

	snap := Derive(pool, allTags, []string{"tag-a"})
	if diff := cmp.Diff([]string{"task-1"}, ids(snap.List(Focusing))); diff != "" {
		t.Fatalf("closure filter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"task-4"}, ids(snap.List(Later))); diff != "" {
		t.Fatalf("later filter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"tag-b", "tag-c"}, snap.Available[Focusing]); diff != "" {
		t.Fatalf("available tags are computed before filtering (-want +got):\n%s", diff)
	}

	inherited := Derive(pool, allTags, []string{"tag-c"})
	if diff := cmp.Diff([]string{"task-3", "proj-p"}, ids(inherited.List(Focusing))); diff != "" {
		t.Fatalf("inherited filter mismatch (-want +got):\n%s", diff)
	}

	untagged := Derive(pool, allTags, []string{tags.NoTag})
	if diff := cmp.Diff([]string{"task-2"}, ids(untagged.List(Focusing))); diff != "" {
		t.Fatalf("no-tag filter mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_RestoredItemReturnsToImpliedView(t *testing.T) {
	t.Parallel()

	it := model.Item{ID: "task-r", Kind: model.KindTask, DeletedAt: ts(0)}
	if got := ids(Derive([]model.Item{it}, nil, nil).List(Trash)); len(got) != 1 {
		t.Fatalf("expected trashed item in trash; got %v", got)
	}
	it.DeletedAt = nil
	snap := Derive([]model.Item{it}, nil, nil)
	if got := ids(snap.List(Focusing)); len(got) != 1 || snap.Count(Trash) != 0 {
		t.Fatalf("expected restored item back in focusing only; focusing=%v trash=%d", got, snap.Count(Trash))
	}
}

func TestDerive_DanglingTagIDsAreAbsent(t *testing.T) {
	t.Parallel()

	allTags := []model.Tag{{ID: "tag-a", Name: "a"}}
	pool := []model.Item{
		{ID: "task-1", Kind: model.KindTask, TagIDs: []string{"tag-gone"}, Order: 1},
		{ID: "task-2", Kind: model.KindTask, TagIDs: []string{"tag-a", "tag-gone"}, Order: 2},
	}

	untagged := Derive(pool, allTags, []string{tags.NoTag})
	if diff := cmp.Diff([]string{"task-1"}, ids(untagged.List(Focusing))); diff != "" {
		t.Fatalf("dangling-only item should count as untagged (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"tag-a"}, untagged.Available[Focusing]); diff != "" {
		t.Fatalf("dangling ids must not be offered (-want +got):\n%s", diff)
	}

	byGone := Derive(pool, allTags, []string{"tag-gone"})
	if n := byGone.Count(Focusing); n != 0 {
		t.Fatalf("filtering by a dangling id should match nothing; got %d", n)
	}

	var stored []string
	for _, it := range pool {
		stored = append(stored, it.TagIDs...)
	}
	if diff := cmp.Diff([]string{"tag-gone", "tag-a", "tag-gone"}, stored); diff != "" {
		t.Fatalf("stored tag ids must not change (-want +got):\n%s", diff)
	}
}
