package ordering

import (
	"errors"
	"math"

	"thingsdo-cli/internal/model"
)

var (
	ErrMalformedGeometry = errors.New("drop target geometry is missing or malformed")
	ErrNotDragging       = errors.New("no drag in progress")
)

// Geometry is the drop target's vertical extent and the pointer position at
// drop time, in the same units.
type Geometry struct {
	TargetID string
	Top      float64
	Height   float64
	PointerY float64
}

// DropAfter reports whether the pointer is below the target's midpoint.
func (g Geometry) DropAfter() (bool, error) {
	if g.TargetID == "" || !(g.Height > 0) || !finite(g.Top) || !finite(g.Height) || !finite(g.PointerY) {
		return false, ErrMalformedGeometry
	}
	return g.PointerY > g.Top+g.Height/2, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Drag is the transient state of one drag gesture. It lives with the list
// component and is never persisted.
type Drag struct {
	active      bool
	source      string
	highlighted map[string]bool
	moving      map[string]bool
}

// Start begins dragging source. A highlighted source drags the group.
func (d *Drag) Start(visible []model.Item, sourceID string, highlighted map[string]bool) {
	d.active = true
	d.source = sourceID
	d.highlighted = make(map[string]bool, len(highlighted))
	for id, ok := range highlighted {
		if ok {
			d.highlighted[id] = true
		}
	}
	d.moving = map[string]bool{}
	for _, id := range MovingSet(visible, sourceID, d.highlighted) {
		d.moving[id] = true
	}
}

func (d *Drag) Active() bool { return d.active }

func (d *Drag) Source() string { return d.source }

// Moving reports whether id travels with the current drag.
func (d *Drag) Moving(id string) bool { return d.active && d.moving[id] }

// Over returns the insertion preview index in visible for hovering target.
// ok is false when nothing is dragged, the target is unknown, or the
// target is part of the moving group.
func (d *Drag) Over(visible []model.Item, targetID string, after bool) (index int, ok bool) {
	if !d.active || d.moving[targetID] {
		return 0, false
	}
	for i, it := range visible {
		if it.ID == targetID {
			if after {
				i++
			}
			return i, true
		}
	}
	return 0, false
}

// Drop computes the writes for releasing over geom and ends the drag.
// Malformed geometry ends the drag with zero writes.
func (d *Drag) Drop(visible []model.Item, geom Geometry) ([]Write, error) {
	if !d.active {
		return nil, ErrNotDragging
	}
	defer d.End()
	after, err := geom.DropAfter()
	if err != nil {
		return nil, err
	}
	return Reorder(visible, d.source, geom.TargetID, after, d.highlighted), nil
}

func (d *Drag) End() {
	*d = Drag{}
}
