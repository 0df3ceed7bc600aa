package tags

import (
	"testing"
	"time"

	"thingsdo-cli/internal/model"
)

func TestEffective(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	proj := model.Item{ID: "proj-a", Kind: model.KindProject, TagIDs: []string{"tag-home"}}
	trashed := model.Item{ID: "proj-t", Kind: model.KindProject, TagIDs: []string{"tag-work"}, DeletedAt: &now}
	projects := IndexProjects([]model.Item{proj, trashed})

	task := model.Item{ID: "task-1", Kind: model.KindTask, ParentID: strPtr("proj-a"), TagIDs: []string{"tag-acme"}}
	got := Effective(task, projects)
	if !got.Has("tag-acme") || !got.Has("tag-home") || len(got) != 2 {
		t.Fatalf("expected own+inherited tags; got %v", got.Sorted())
	}
	if len(task.TagIDs) != 1 {
		t.Fatalf("inheritance must not mutate stored tags; got %v", task.TagIDs)
	}

	underTrash := model.Item{ID: "task-2", Kind: model.KindTask, ParentID: strPtr("proj-t")}
	if got := Effective(underTrash, projects); len(got) != 0 {
		t.Fatalf("trashed parent must not contribute tags; got %v", got.Sorted())
	}

	dangling := model.Item{ID: "task-3", Kind: model.KindTask, ParentID: strPtr("proj-gone"), TagIDs: []string{"x"}}
	if got := Effective(dangling, projects); len(got) != 1 || !got.Has("x") {
		t.Fatalf("dangling parent must yield own tags only; got %v", got.Sorted())
	}

	// Projects never inherit, even if a parent id is (incorrectly) set.
	p2 := model.Item{ID: "proj-b", Kind: model.KindProject, ParentID: strPtr("proj-a")}
	if got := Effective(p2, projects); len(got) != 0 {
		t.Fatalf("project must not inherit; got %v", got.Sorted())
	}
}

func TestMatcher_Matches(t *testing.T) {
	t.Parallel()

	h := NewHierarchy(sampleTags())
	proj := model.Item{ID: "proj-a", Kind: model.KindProject, TagIDs: []string{"tag-home"}}
	m := Matcher{Hierarchy: h, Projects: IndexProjects([]model.Item{proj})}

	acme := &model.Item{ID: "task-acme", Kind: model.KindTask, TagIDs: []string{"tag-acme"}}
	homeViaProject := &model.Item{ID: "task-p", Kind: model.KindTask, ParentID: strPtr("proj-a"), TagIDs: []string{"tag-admin"}}
	untagged := &model.Item{ID: "task-none", Kind: model.KindTask}

	tests := []struct {
		name     string
		item     *model.Item
		selected []string
		want     bool
	}{
		{name: "no selection matches everything", item: untagged, selected: nil, want: true},
		{name: "no selection matches nil item", item: nil, selected: nil, want: true},
		{name: "nil item with selection", item: nil, selected: []string{"tag-work"}, want: false},
		{name: "ancestor selection matches descendant tag", item: acme, selected: []string{"tag-work"}, want: true},
		{name: "exact tag", item: acme, selected: []string{"tag-acme"}, want: true},
		{name: "sibling does not match", item: acme, selected: []string{"tag-admin"}, want: false},
		{name: "conjunction needs both", item: acme, selected: []string{"tag-work", "tag-home"}, want: false},
		{name: "conjunction satisfied through inheritance", item: homeViaProject, selected: []string{"tag-work", "tag-home"}, want: true},
		{name: "no-tag matches untagged", item: untagged, selected: []string{NoTag}, want: true},
		{name: "no-tag rejects tagged", item: acme, selected: []string{NoTag}, want: false},
		{name: "no-tag rejects inherited", item: &model.Item{ID: "t", Kind: model.KindTask, ParentID: strPtr("proj-a")}, selected: []string{NoTag}, want: false},
		{name: "unknown tag is its own closure", item: acme, selected: []string{"tag-missing"}, want: false},
		{name: "dangling ids count as untagged", item: &model.Item{ID: "t", Kind: model.KindTask, TagIDs: []string{"tag-gone"}}, selected: []string{NoTag}, want: true},
		{name: "dangling id never matches itself", item: &model.Item{ID: "t", Kind: model.KindTask, TagIDs: []string{"tag-gone"}}, selected: []string{"tag-gone"}, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := m.Matches(tt.item, tt.selected); got != tt.want {
				t.Fatalf("Matches=%v; want %v", got, tt.want)
			}
		})
	}
}

// For every selected set S, Matches is true iff each closure intersects the
// item's effective tags.
func TestMatcher_AgreesWithClosureDefinition(t *testing.T) {
	t.Parallel()

	all := sampleTags()
	h := NewHierarchy(all)
	m := Matcher{Hierarchy: h}
	ids := []string{"tag-work", "tag-clients", "tag-acme", "tag-admin", "tag-home"}

	var items []model.Item
	for i := 0; i < 1<<len(ids); i++ {
		it := model.Item{ID: "task", Kind: model.KindTask}
		for j, id := range ids {
			if i&(1<<j) != 0 {
				it.TagIDs = append(it.TagIDs, id)
			}
		}
		items = append(items, it)
	}

	for sel := 1; sel < 1<<len(ids); sel++ {
		var selected []string
		for j, id := range ids {
			if sel&(1<<j) != 0 {
				selected = append(selected, id)
			}
		}
		for i := range items {
			it := items[i]
			want := true
			eff := Effective(it, nil)
			for _, s := range selected {
				if !eff.Intersects(ClosureOf(s, all)) {
					want = false
					break
				}
			}
			if got := m.Matches(&it, selected); got != want {
				t.Fatalf("Matches(%v, %v)=%v; want %v", it.TagIDs, selected, got, want)
			}
		}
	}
}
