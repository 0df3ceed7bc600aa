package mutate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store"
)

// SoftDelete moves an item to the trash. Child tasks of a project are not
// touched.
func SoftDelete(ctx context.Context, repo store.Repository, ref model.Ref, now time.Time) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.Deleted() {
			return store.Patch{}, nil
		}
		return store.Patch{DeletedAt: store.Set(now.UTC())}, nil
	})
}

// Restore takes an item out of the trash. It lands in whichever view its
// other fields imply.
func Restore(ctx context.Context, repo store.Repository, ref model.Ref) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if !it.Deleted() {
			return store.Patch{}, nil
		}
		return store.Patch{DeletedAt: store.Clear[time.Time]()}, nil
	})
}

func SoftDeleteAll(ctx context.Context, repo store.Repository, refs []model.Ref, now time.Time) BatchResult {
	return Each(ctx, refs, func(ctx context.Context, ref model.Ref) error {
		_, err := SoftDelete(ctx, repo, ref, now)
		return err
	})
}

func RestoreAll(ctx context.Context, repo store.Repository, refs []model.Ref) BatchResult {
	return Each(ctx, refs, func(ctx context.Context, ref model.Ref) error {
		_, err := Restore(ctx, repo, ref)
		return err
	})
}

// PurgeSelected permanently removes the given trashed items. Items that are
// not in the trash fail with ErrNotTrashed and are left alone. Ids that no
// longer exist count as already purged.
func PurgeSelected(ctx context.Context, repo store.Repository, refs []model.Ref) BatchResult {
	return Each(ctx, refs, func(ctx context.Context, ref model.Ref) error {
		it, err := load(ctx, repo, ref)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !it.Deleted() {
			return fmt.Errorf("%s: %w", it.ID, ErrNotTrashed)
		}
		if err := repo.Delete(ctx, it.Kind, it.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return nil
	})
}

// PurgeAll permanently removes every trashed task and project. Calling it
// with an empty trash does nothing.
func PurgeAll(ctx context.Context, repo store.Repository) (BatchResult, error) {
	var refs []model.Ref
	for _, kind := range []model.Kind{model.KindTask, model.KindProject} {
		rows, err := repo.ListAll(ctx, kind)
		if err != nil {
			return BatchResult{}, err
		}
		for _, it := range rows {
			if it.Deleted() {
				refs = append(refs, it.Ref())
			}
		}
	}
	return Each(ctx, refs, func(ctx context.Context, ref model.Ref) error {
		return repo.Delete(ctx, ref.Kind, ref.ID)
	}), nil
}
