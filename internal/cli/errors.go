package cli

import (
	"errors"
	"fmt"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/mutate"
)

func errNotFound(kind, id string) error {
	return mutate.NotFoundError{Kind: kind, ID: id}
}

var (
	errNoIDs    = errors.New("provide at least one id")
	errNoParent = errors.New("provide exactly one of --parent or --root")
)

// batchError turns per-item failures into one command error after the
// successful part has been printed.
func batchError(res mutate.BatchResult) error {
	if err := res.Err(); err != nil {
		return fmt.Errorf("%d of %d writes failed:\n%w", len(res.Failed), len(res.Failed)+len(res.Succeeded), err)
	}
	return nil
}

func batchOut(res mutate.BatchResult) map[string]any {
	failed := make([]map[string]any, 0, len(res.Failed))
	for _, f := range res.Failed {
		failed = append(failed, map[string]any{"id": f.Ref.ID, "kind": f.Ref.Kind, "error": f.Err.Error()})
	}
	succeeded := res.Succeeded
	if succeeded == nil {
		succeeded = []model.Ref{}
	}
	return map[string]any{"data": map[string]any{"succeeded": succeeded, "failed": failed}}
}
