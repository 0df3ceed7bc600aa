package ordering

import (
	"context"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/mutate"
	"thingsdo-cli/internal/store"
)

// Write is one order assignment produced by a reorder.
type Write struct {
	Ref   model.Ref `json:"ref"`
	Order float64   `json:"order"`
}

// MovingSet returns the ids that move with source, in visible order. A
// highlighted source drags every highlighted visible item along.
func MovingSet(visible []model.Item, sourceID string, highlighted map[string]bool) []string {
	if len(highlighted) > 0 && highlighted[sourceID] {
		var out []string
		for _, it := range visible {
			if highlighted[it.ID] {
				out = append(out, it.ID)
			}
		}
		return out
	}
	return []string{sourceID}
}

// Reorder moves source (or its highlighted group as one contiguous block)
// before or after target and renumbers the list 1..n. Only changed orders
// are returned. Dropping onto a member of the moving set, or onto an id
// not in visible, yields no writes.
func Reorder(visible []model.Item, sourceID, targetID string, dropAfter bool, highlighted map[string]bool) []Write {
	moving := MovingSet(visible, sourceID, highlighted)
	inMoving := make(map[string]bool, len(moving))
	for _, id := range moving {
		inMoving[id] = true
	}
	if inMoving[targetID] {
		return nil
	}

	var (
		block []model.Item
		rest  []model.Item
	)
	for _, it := range visible {
		if inMoving[it.ID] {
			block = append(block, it)
		} else {
			rest = append(rest, it)
		}
	}
	if len(block) == 0 {
		return nil
	}

	at := -1
	for i, it := range rest {
		if it.ID == targetID {
			at = i
			break
		}
	}
	if at < 0 {
		return nil
	}
	if dropAfter {
		at++
	}

	out := make([]model.Item, 0, len(visible))
	out = append(out, rest[:at]...)
	out = append(out, block...)
	out = append(out, rest[at:]...)

	return renumber(out)
}

// renumber assigns 1..n to list in its current order and returns the
// changed ones.
func renumber(list []model.Item) []Write {
	var writes []Write
	for i, it := range list {
		order := float64(i + 1)
		if it.Order != order {
			writes = append(writes, Write{Ref: it.Ref(), Order: order})
		}
	}
	return writes
}

// Apply issues each write as an independent update. Any subset succeeding
// leaves a valid, if not fully renumbered, list.
func Apply(ctx context.Context, repo store.Repository, writes []Write) mutate.BatchResult {
	refs := make([]model.Ref, len(writes))
	orders := make(map[string]float64, len(writes))
	for i, w := range writes {
		refs[i] = w.Ref
		orders[w.Ref.ID] = w.Order
	}
	return mutate.Each(ctx, refs, func(ctx context.Context, ref model.Ref) error {
		order := orders[ref.ID]
		return repo.Update(ctx, ref.Kind, ref.ID, store.Patch{Order: &order})
	})
}

// NextOrder is the order for an item appended to list: max + 1, or 1 for an
// empty list.
func NextOrder(list []model.Item) float64 {
	if len(list) == 0 {
		return 1
	}
	max := list[0].Order
	for _, it := range list[1:] {
		if it.Order > max {
			max = it.Order
		}
	}
	return max + 1
}
