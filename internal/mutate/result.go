package mutate

import (
	"context"
	"errors"
	"fmt"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store"
)

type Result struct {
	Item    model.Item
	Changed bool
}

type Failure struct {
	Ref model.Ref
	Err error
}

// BatchResult reports a bulk operation item by item. Successful writes are
// never rolled back when others fail.
type BatchResult struct {
	Succeeded []model.Ref
	Failed    []Failure
}

func (b *BatchResult) record(ref model.Ref, err error) {
	if err != nil {
		b.Failed = append(b.Failed, Failure{Ref: ref, Err: err})
		return
	}
	b.Succeeded = append(b.Succeeded, ref)
}

// FailedIDs lists the ids whose write failed.
func (b BatchResult) FailedIDs() []string {
	out := make([]string, 0, len(b.Failed))
	for _, f := range b.Failed {
		out = append(out, f.Ref.ID)
	}
	return out
}

// Err joins every per-item failure, or returns nil.
func (b BatchResult) Err() error {
	if len(b.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(b.Failed))
	for _, f := range b.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Ref.ID, f.Err))
	}
	return errors.Join(errs...)
}

// Each runs fn for every ref in order, continuing past failures.
func Each(ctx context.Context, refs []model.Ref, fn func(context.Context, model.Ref) error) BatchResult {
	var out BatchResult
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			out.record(ref, err)
			continue
		}
		out.record(ref, fn(ctx, ref))
	}
	return out
}

func load(ctx context.Context, repo store.Repository, ref model.Ref) (model.Item, error) {
	if !ref.Kind.Valid() {
		if k, ok := model.KindOfID(ref.ID); ok {
			ref.Kind = k
		}
	}
	if !ref.Kind.Valid() {
		return model.Item{}, notFound(ref)
	}
	it, ok, err := repo.Get(ctx, ref.Kind, ref.ID)
	if err != nil {
		return model.Item{}, err
	}
	if !ok {
		return model.Item{}, notFound(ref)
	}
	return it, nil
}

// write persists p and returns the item as it now reads. An empty patch is a
// no-op with Changed=false.
func write(ctx context.Context, repo store.Repository, it model.Item, p store.Patch) (Result, error) {
	if p.Empty() {
		return Result{Item: it, Changed: false}, nil
	}
	if err := repo.Update(ctx, it.Kind, it.ID, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, notFound(it.Ref())
		}
		return Result{}, err
	}
	p.Apply(&it)
	return Result{Item: it, Changed: true}, nil
}

// update loads ref, builds a patch from the current item and writes it.
func update(ctx context.Context, repo store.Repository, ref model.Ref, build func(model.Item) (store.Patch, error)) (Result, error) {
	it, err := load(ctx, repo, ref)
	if err != nil {
		return Result{}, err
	}
	p, err := build(it)
	if err != nil {
		return Result{}, err
	}
	return write(ctx, repo, it, p)
}
