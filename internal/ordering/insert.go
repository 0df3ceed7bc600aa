package ordering

import (
	"context"
	"fmt"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store"
	"thingsdo-cli/internal/views"
)

// InsertAtEnd creates an item of kind at the end of the view it classifies
// into, ignoring any tag filter.
func InsertAtEnd(ctx context.Context, repo store.Repository, kind model.Kind, fields model.Item) (model.Item, error) {
	tasks, err := repo.ListAll(ctx, model.KindTask)
	if err != nil {
		return model.Item{}, err
	}
	projects, err := repo.ListAll(ctx, model.KindProject)
	if err != nil {
		return model.Item{}, err
	}
	pool := append(tasks, projects...)

	fields.Kind = kind
	snap := views.Derive(pool, nil, nil)
	fields.Order = NextOrder(snap.List(views.Classify(fields, views.NewIndex(pool))))

	id, err := repo.Insert(ctx, kind, fields)
	if err != nil {
		return model.Item{}, err
	}
	it, ok, err := repo.Get(ctx, kind, id)
	if err != nil {
		return model.Item{}, err
	}
	if !ok {
		return model.Item{}, fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return it, nil
}
