package selection

import (
	"context"
	"time"

	"thingsdo-cli/internal/mutate"
	"thingsdo-cli/internal/store"
)

// DeleteHighlighted soft-deletes every highlighted item as independent
// writes, then clears the highlight once. Failed ids are reported, not
// retried or rolled back.
func DeleteHighlighted(ctx context.Context, repo store.Repository, h *Highlight, now time.Time) mutate.BatchResult {
	res := mutate.SoftDeleteAll(ctx, repo, h.Refs(), now)
	h.Clear()
	return res
}

// RestoreHighlighted restores every highlighted item, then clears.
func RestoreHighlighted(ctx context.Context, repo store.Repository, h *Highlight) mutate.BatchResult {
	res := mutate.RestoreAll(ctx, repo, h.Refs())
	h.Clear()
	return res
}

// PurgeHighlighted permanently removes every highlighted trashed item, then
// clears. Confirmation is the caller's job.
func PurgeHighlighted(ctx context.Context, repo store.Repository, h *Highlight) mutate.BatchResult {
	res := mutate.PurgeSelected(ctx, repo, h.Refs())
	h.Clear()
	return res
}
