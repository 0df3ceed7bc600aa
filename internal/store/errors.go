package store

import (
	"errors"
	"fmt"

	"thingsdo-cli/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrTagCycle  = errors.New("tag parent would create a cycle")
	ErrTagExists = errors.New("tag name already exists")
)

// InvalidParentError is returned when a task parent does not resolve to a
// live project, or when a project is given a parent.
type InvalidParentError struct {
	Kind     model.Kind
	ID       string
	ParentID string
}

func (e InvalidParentError) Error() string {
	if e.Kind == model.KindProject {
		return fmt.Sprintf("project %s cannot have a parent", e.ID)
	}
	return fmt.Sprintf("parent %q of %s is not a live project", e.ParentID, e.ID)
}
