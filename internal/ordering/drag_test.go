package ordering

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDrag_PreviewAndDrop(t *testing.T) {
	t.Parallel()

	visible := items("a", "b", "c", "d")
	var d Drag
	if _, ok := d.Over(visible, "b", false); ok {
		t.Fatalf("no preview without an active drag")
	}

	d.Start(visible, "a", set("a", "c"))
	if !d.Active() || !d.Moving("c") || d.Moving("b") {
		t.Fatalf("expected a and c to move together")
	}
	if _, ok := d.Over(visible, "c", true); ok {
		t.Fatalf("preview must hide over the moving group")
	}
	if idx, ok := d.Over(visible, "d", true); !ok || idx != 4 {
		t.Fatalf("Over(d, after)=%d,%v; want 4,true", idx, ok)
	}

	// Pointer in the lower half of b drops after it.
	writes, err := d.Drop(visible, Geometry{TargetID: "b", Top: 10, Height: 10, PointerY: 17})
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if d.Active() {
		t.Fatalf("drop must end the drag")
	}
	if diff := cmp.Diff([]string{"b", "a", "c", "d"}, order(applyLocal(visible, writes))); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDrag_MalformedGeometryFailsClosed(t *testing.T) {
	t.Parallel()

	visible := items("a", "b")
	bad := []Geometry{
		{},
		{TargetID: "b"},
		{TargetID: "b", Height: -1},
		{TargetID: "b", Height: 10, PointerY: math.NaN()},
		{TargetID: "b", Height: math.Inf(1)},
	}
	for _, g := range bad {
		var d Drag
		d.Start(visible, "a", nil)
		writes, err := d.Drop(visible, g)
		if !errors.Is(err, ErrMalformedGeometry) || len(writes) != 0 {
			t.Fatalf("Drop(%+v)=%v,%v; want zero writes and ErrMalformedGeometry", g, writes, err)
		}
		if d.Active() {
			t.Fatalf("malformed drop must still end the drag")
		}
	}

	var idle Drag
	if _, err := idle.Drop(visible, Geometry{TargetID: "b", Height: 1}); !errors.Is(err, ErrNotDragging) {
		t.Fatalf("expected ErrNotDragging; got %v", err)
	}
}

func TestGeometry_DropAfterMidpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		y    float64
		want bool
	}{
		{y: 0, want: false},
		{y: 5, want: false},
		{y: 5.01, want: true},
		{y: 10, want: true},
	}
	for _, tt := range tests {
		got, err := Geometry{TargetID: "t", Top: 0, Height: 10, PointerY: tt.y}.DropAfter()
		if err != nil || got != tt.want {
			t.Fatalf("DropAfter(y=%v)=%v,%v; want %v", tt.y, got, err, tt.want)
		}
	}
}
