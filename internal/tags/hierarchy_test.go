package tags

import (
	"testing"

	"thingsdo-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func tag(id, name string, parent string, order int) model.Tag {
	t := model.Tag{ID: id, Name: name, Order: order}
	if parent != "" {
		t.ParentID = strPtr(parent)
	}
	return t
}

func sampleTags() []model.Tag {
	return []model.Tag{
		tag("tag-work", "work", "", 0),
		tag("tag-clients", "clients", "tag-work", 1),
		tag("tag-acme", "acme", "tag-clients", 0),
		tag("tag-admin", "admin", "tag-work", 0),
		tag("tag-home", "home", "", 1),
	}
}

func TestClosureOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
		want []string
	}{
		{name: "root with descendants", id: "tag-work", want: []string{"tag-acme", "tag-admin", "tag-clients", "tag-work"}},
		{name: "middle", id: "tag-clients", want: []string{"tag-acme", "tag-clients"}},
		{name: "leaf", id: "tag-acme", want: []string{"tag-acme"}},
		{name: "unknown id is singleton", id: "tag-missing", want: []string{"tag-missing"}},
		{name: "empty id is singleton", id: "", want: []string{""}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ClosureOf(tt.id, sampleTags()).Sorted()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ClosureOf(%q) mismatch (-want +got):\n%s", tt.id, diff)
			}
		})
	}
}

func TestClosureOf_CyclicDataTerminates(t *testing.T) {
	t.Parallel()

	all := []model.Tag{
		tag("a", "a", "c", 0),
		tag("b", "b", "a", 0),
		tag("c", "c", "b", 0),
		tag("self", "self", "self", 0),
	}
	h := NewHierarchy(all)

	got := h.ClosureOf("a").Sorted()
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("closure mismatch (-want +got):\n%s", diff)
	}
	if got := h.ClosureOf("self").Sorted(); len(got) != 1 {
		t.Fatalf("expected self-parented tag closure to be singleton; got %v", got)
	}
	if anc := h.Ancestors("a"); len(anc) != 2 {
		t.Fatalf("expected bounded ancestor walk of 2; got %v", anc)
	}
}

func TestHierarchy_ChildrenOrderAndRoots(t *testing.T) {
	t.Parallel()

	h := NewHierarchy(sampleTags())
	if diff := cmp.Diff([]string{"tag-work", "tag-home"}, h.Roots()); diff != "" {
		t.Fatalf("roots mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"tag-admin", "tag-clients"}, h.Children("tag-work")); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestHierarchy_DanglingParentIsRoot(t *testing.T) {
	t.Parallel()

	h := NewHierarchy([]model.Tag{tag("orphan", "orphan", "tag-gone", 0)})
	if got := h.Roots(); len(got) != 1 || got[0] != "orphan" {
		t.Fatalf("expected orphan to be a root; got %v", got)
	}
}

func TestHierarchy_WouldCycle(t *testing.T) {
	t.Parallel()

	h := NewHierarchy(sampleTags())
	tests := []struct {
		id, parent string
		want       bool
	}{
		{"tag-work", "tag-acme", true},
		{"tag-work", "tag-work", true},
		{"tag-acme", "tag-home", false},
		{"tag-clients", "", false},
	}
	for _, tt := range tests {
		if got := h.WouldCycle(tt.id, tt.parent); got != tt.want {
			t.Fatalf("WouldCycle(%q, %q)=%v; want %v", tt.id, tt.parent, got, tt.want)
		}
	}
}

func TestHierarchy_Path(t *testing.T) {
	t.Parallel()

	h := NewHierarchy(sampleTags())
	if got, want := h.Path("tag-acme"), "work/clients/acme"; got != want {
		t.Fatalf("Path=%q; want %q", got, want)
	}
}
