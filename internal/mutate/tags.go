package mutate

import (
	"context"
	"errors"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store"
)

// DeleteTag hard-deletes a tag and then strips its id from every item that
// carries it. The cleanup is a per-item batch. A tag row that is already gone
// still gets the cleanup pass, so re-running after a partial failure finishes
// the strip.
func DeleteTag(ctx context.Context, tagRepo store.TagRepository, repo store.Repository, tagID string) (BatchResult, error) {
	if err := tagRepo.DeleteTag(ctx, tagID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return BatchResult{}, err
	}
	var refs []model.Ref
	for _, kind := range []model.Kind{model.KindTask, model.KindProject} {
		rows, err := repo.ListAll(ctx, kind)
		if err != nil {
			return BatchResult{}, err
		}
		for _, it := range rows {
			if contains(it.TagIDs, tagID) {
				refs = append(refs, it.Ref())
			}
		}
	}
	return Each(ctx, refs, func(ctx context.Context, ref model.Ref) error {
		_, err := RemoveTags(ctx, repo, ref, tagID)
		return err
	}), nil
}
