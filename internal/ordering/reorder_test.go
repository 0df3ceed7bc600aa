package ordering

import (
	"context"
	"errors"
	"testing"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store/storetest"
	"thingsdo-cli/internal/views"

	"github.com/google/go-cmp/cmp"
)

func items(ids ...string) []model.Item {
	out := make([]model.Item, 0, len(ids))
	for i, id := range ids {
		out = append(out, model.Item{ID: id, Kind: model.KindTask, Order: float64(i + 1)})
	}
	return out
}

func set(ids ...string) map[string]bool {
	out := map[string]bool{}
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// applyLocal returns visible re-sorted after writes, as the next render would.
func applyLocal(visible []model.Item, writes []Write) []model.Item {
	out := append([]model.Item(nil), visible...)
	for _, w := range writes {
		for i := range out {
			if out[i].ID == w.Ref.ID {
				out[i].Order = w.Order
			}
		}
	}
	views.SortByOrder(out)
	return out
}

func order(list []model.Item) []string {
	out := make([]string, 0, len(list))
	for _, it := range list {
		out = append(out, it.ID)
	}
	return out
}

func TestReorder_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		visible     []model.Item
		source      string
		target      string
		after       bool
		highlighted map[string]bool
		want        []string
		wantWrites  int
	}{
		{
			name:    "single item down after target",
			visible: items("a", "b", "c", "d"), source: "a", target: "c", after: true,
			want: []string{"b", "c", "a", "d"}, wantWrites: 3,
		},
		{
			name:    "single item up before target",
			visible: items("a", "b", "c", "d"), source: "d", target: "b",
			want: []string{"a", "d", "b", "c"}, wantWrites: 3,
		},
		{
			name:    "highlighted group moves as a block",
			visible: items("X", "Y", "Z"), source: "X", target: "Y", after: true, highlighted: set("X", "Z"),
			want: []string{"Y", "X", "Z"}, wantWrites: 2,
		},
		{
			name:    "group keeps relative order when dropped first",
			visible: items("a", "b", "c", "d", "e"), source: "d", target: "a", highlighted: set("b", "d", "e"),
			want: []string{"b", "d", "e", "a", "c"}, wantWrites: 5,
		},
		{
			name:    "unhighlighted source moves alone",
			visible: items("a", "b", "c"), source: "c", target: "a", highlighted: set("a", "b"),
			want: []string{"c", "a", "b"}, wantWrites: 3,
		},
		{
			name:    "drop on group member is a no-op",
			visible: items("a", "b", "c"), source: "a", target: "c", after: true, highlighted: set("a", "c"),
			want: []string{"a", "b", "c"}, wantWrites: 0,
		},
		{
			name:    "drop on itself is a no-op",
			visible: items("a", "b"), source: "a", target: "a",
			want: []string{"a", "b"}, wantWrites: 0,
		},
		{
			name:    "unknown target is a no-op",
			visible: items("a", "b"), source: "a", target: "zzz",
			want: []string{"a", "b"}, wantWrites: 0,
		},
		{
			name:    "unknown source is a no-op",
			visible: items("a", "b"), source: "zzz", target: "a",
			want: []string{"a", "b"}, wantWrites: 0,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			writes := Reorder(tt.visible, tt.source, tt.target, tt.after, tt.highlighted)
			if len(writes) != tt.wantWrites {
				t.Fatalf("writes=%d; want %d (%+v)", len(writes), tt.wantWrites, writes)
			}
			got := applyLocal(tt.visible, writes)
			if diff := cmp.Diff(tt.want, order(got)); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
			for i, it := range got {
				if len(writes) > 0 && it.Order != float64(i+1) {
					t.Fatalf("expected dense 1-based order; %s has %v at %d", it.ID, it.Order, i)
				}
			}

			// Repeating the same move after it landed changes nothing.
			if again := Reorder(got, tt.source, tt.target, tt.after, tt.highlighted); len(again) != 0 {
				t.Fatalf("reorder must be idempotent; got %+v", again)
			}
		})
	}
}

func TestReorder_RenumbersSparseOrders(t *testing.T) {
	t.Parallel()

	visible := []model.Item{
		{ID: "a", Order: 10}, {ID: "b", Order: 20}, {ID: "c", Order: 20.5},
	}
	writes := Reorder(visible, "c", "a", false, nil)
	want := []Write{
		{Ref: model.Ref{ID: "c"}, Order: 1},
		{Ref: model.Ref{ID: "a"}, Order: 2},
		{Ref: model.Ref{ID: "b"}, Order: 3},
	}
	if diff := cmp.Diff(want, writes); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_PartialFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	visible := items("task-x", "task-y", "task-z")
	repo := storetest.NewMemory(visible...)
	boom := errors.New("busy")
	repo.Fail["task-x"] = boom

	writes := Reorder(visible, "task-x", "task-y", true, set("task-x", "task-z"))
	res := Apply(ctx, repo, writes)
	if diff := cmp.Diff([]string{"task-x"}, res.FailedIDs()); diff != "" {
		t.Fatalf("failed ids mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(res.Err(), boom) {
		t.Fatalf("expected joined error; got %v", res.Err())
	}
	y, _, _ := repo.Get(ctx, model.KindTask, "task-y")
	if y.Order != 1 {
		t.Fatalf("task-y should be renumbered despite task-x failing; got %v", y.Order)
	}
}

func TestNextOrder(t *testing.T) {
	t.Parallel()

	if got := NextOrder(nil); got != 1 {
		t.Fatalf("NextOrder(empty)=%v; want 1", got)
	}
	list := []model.Item{{Order: 3}, {Order: 7.5}, {Order: 1}}
	if got := NextOrder(list); got != 8.5 {
		t.Fatalf("NextOrder=%v; want 8.5", got)
	}
}
