package store

import (
	"encoding/json"
	"time"

	"thingsdo-cli/internal/model"
)

// Field is an optional update to a nullable column. The zero value leaves the
// column untouched.
type Field[T any] struct {
	set   bool
	clear bool
	v     T
}

func Set[T any](v T) Field[T] { return Field[T]{set: true, v: v} }

func Clear[T any]() Field[T] { return Field[T]{clear: true} }

// Present reports whether the field carries an update (set or clear).
func (f Field[T]) Present() bool { return f.set || f.clear }

func (f Field[T]) Value() (T, bool) { return f.v, f.set }

func (f Field[T]) apply(dst **T) {
	switch {
	case f.set:
		v := f.v
		*dst = &v
	case f.clear:
		*dst = nil
	}
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.set {
		return json.Marshal(f.v)
	}
	return []byte("null"), nil
}

// Patch is a partial item update. Nil pointers and absent fields are left
// unchanged.
type Patch struct {
	Title      *string
	Notes      *string
	Defer      *model.DeferState
	StartDate  Field[time.Time]
	Deadline   Field[time.Time]
	ParentID   Field[string]
	ExternalID Field[string]
	Checklist  *[]model.ChecklistEntry
	TagIDs     *[]string
	Evening    *bool
	Order      *float64
	DeletedAt  Field[time.Time]
	LoggedAt   Field[time.Time]
	LogStatus  *model.LogStatus
	BlockedBy  *[]string
	Later      *bool
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Notes == nil && p.Defer == nil &&
		!p.StartDate.Present() && !p.Deadline.Present() &&
		!p.ParentID.Present() && !p.ExternalID.Present() &&
		p.Checklist == nil && p.TagIDs == nil && p.Evening == nil &&
		p.Order == nil && !p.DeletedAt.Present() && !p.LoggedAt.Present() &&
		p.LogStatus == nil && p.BlockedBy == nil && p.Later == nil
}

// Apply writes the patch onto it. Slices are copied.
func (p Patch) Apply(it *model.Item) {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Notes != nil {
		it.Notes = *p.Notes
	}
	if p.Defer != nil {
		it.Defer = *p.Defer
	}
	p.StartDate.apply(&it.StartDate)
	p.Deadline.apply(&it.Deadline)
	p.ParentID.apply(&it.ParentID)
	p.ExternalID.apply(&it.ExternalID)
	if p.Checklist != nil {
		it.Checklist = append([]model.ChecklistEntry(nil), (*p.Checklist)...)
	}
	if p.TagIDs != nil {
		it.TagIDs = append([]string(nil), (*p.TagIDs)...)
	}
	if p.Evening != nil {
		it.Evening = *p.Evening
	}
	if p.Order != nil {
		it.Order = *p.Order
	}
	p.DeletedAt.apply(&it.DeletedAt)
	p.LoggedAt.apply(&it.LoggedAt)
	if p.LogStatus != nil {
		it.LogStatus = *p.LogStatus
	}
	if p.BlockedBy != nil {
		it.BlockedBy = append([]string(nil), (*p.BlockedBy)...)
	}
	if p.Later != nil {
		it.Later = *p.Later
	}
}

// MarshalJSON emits only the fields the patch touches; used as event payload.
func (p Patch) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	put := func(k string, v any, ok bool) {
		if ok {
			m[k] = v
		}
	}
	put("title", p.Title, p.Title != nil)
	put("notes", p.Notes, p.Notes != nil)
	put("defer", p.Defer, p.Defer != nil)
	put("startDate", p.StartDate, p.StartDate.Present())
	put("deadline", p.Deadline, p.Deadline.Present())
	put("parentId", p.ParentID, p.ParentID.Present())
	put("externalId", p.ExternalID, p.ExternalID.Present())
	put("checklist", p.Checklist, p.Checklist != nil)
	put("tagIds", p.TagIDs, p.TagIDs != nil)
	put("evening", p.Evening, p.Evening != nil)
	put("order", p.Order, p.Order != nil)
	put("deletedAt", p.DeletedAt, p.DeletedAt.Present())
	put("loggedAt", p.LoggedAt, p.LoggedAt.Present())
	put("logStatus", p.LogStatus, p.LogStatus != nil)
	put("blockedBy", p.BlockedBy, p.BlockedBy != nil)
	put("later", p.Later, p.Later != nil)
	return json.Marshal(m)
}

func Ptr[T any](v T) *T { return &v }
