package mutate

import (
	"errors"
	"fmt"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store"
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e NotFoundError) Unwrap() error { return store.ErrNotFound }

var (
	ErrNotTrashed      = errors.New("item is not in the trash")
	ErrTaskOnly        = errors.New("only tasks support this")
	ErrInvalidStatus   = errors.New("log status must be completed or canceled")
	ErrSelfBlock       = errors.New("an item cannot block itself")
	ErrChecklistBounds = errors.New("checklist index out of range")
)

func notFound(ref model.Ref) error {
	kind := string(ref.Kind)
	if kind == "" {
		kind = "item"
	}
	return NotFoundError{Kind: kind, ID: ref.ID}
}
