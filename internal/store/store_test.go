package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"thingsdo-cli/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_InsertGetList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.Insert(ctx, model.KindTask, model.Item{ID: "ignored", Title: "Write report", Order: 3, TagIDs: []string{"tag-a"}})
	require.NoError(t, err)
	require.Regexp(t, `^task-[a-z2-7]{8}$`, id)

	got, ok, err := s.Get(ctx, model.KindTask, id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Write report", got.Title)
	require.Equal(t, model.KindTask, got.Kind)
	require.Equal(t, 3.0, got.Order)
	require.Equal(t, []string{"tag-a"}, got.TagIDs)
	require.False(t, got.CreatedAt.IsZero())

	_, ok, err = s.Get(ctx, model.KindProject, id)
	require.NoError(t, err)
	require.False(t, ok, "kinds are separate collections")

	pid, err := s.Insert(ctx, model.KindProject, model.Item{Title: "Q3", Checklist: []model.ChecklistEntry{{Title: "x"}}})
	require.NoError(t, err)
	p, ok, err := s.Find(ctx, pid)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, p.Checklist, "projects carry no checklist")

	tasks, err := s.ListAll(ctx, model.KindTask)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	all, err := s.ListEverything(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = s.Insert(ctx, model.KindTask, model.Item{Title: "  "})
	require.Error(t, err)
}

func TestStore_UpdatePatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	id, err := s.Insert(ctx, model.KindTask, model.Item{Title: "a", Deadline: &now, ExternalID: Ptr("ext-1")})
	require.NoError(t, err)

	later := now.Add(time.Hour)
	s.SetClock(func() time.Time { return later })
	require.NoError(t, s.Update(ctx, model.KindTask, id, Patch{
		Title:     Ptr("b"),
		Deadline:  Clear[time.Time](),
		DeletedAt: Set(later),
		Later:     Ptr(true),
	}))

	got, _, err := s.Get(ctx, model.KindTask, id)
	require.NoError(t, err)
	require.Equal(t, "b", got.Title)
	require.Nil(t, got.Deadline)
	require.NotNil(t, got.DeletedAt)
	require.True(t, got.Later)
	require.Equal(t, "ext-1", *got.ExternalID, "untouched fields survive")
	require.True(t, got.UpdatedAt.Equal(later))

	err = s.Update(ctx, model.KindTask, "task-missing", Patch{Title: Ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ParentMustBeLiveProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	pid, err := s.Insert(ctx, model.KindProject, model.Item{Title: "P"})
	require.NoError(t, err)
	id, err := s.Insert(ctx, model.KindTask, model.Item{Title: "t", ParentID: &pid})
	require.NoError(t, err)

	_, err = s.Insert(ctx, model.KindTask, model.Item{Title: "t", ParentID: Ptr("proj-nope")})
	var ipe InvalidParentError
	require.True(t, errors.As(err, &ipe), "got %v", err)

	_, err = s.Insert(ctx, model.KindProject, model.Item{Title: "nested", ParentID: &pid})
	require.True(t, errors.As(err, &ipe), "got %v", err)

	require.NoError(t, s.Update(ctx, model.KindProject, pid, Patch{DeletedAt: Set(time.Now())}))
	err = s.Update(ctx, model.KindTask, id, Patch{ParentID: Set(pid)})
	require.True(t, errors.As(err, &ipe), "trashed project is not a valid parent; got %v", err)

	require.NoError(t, s.Update(ctx, model.KindTask, id, Patch{ParentID: Clear[string]()}))
}

func TestStore_DeleteIsHard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.Insert(ctx, model.KindTask, model.Item{Title: "gone"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, model.KindTask, id))

	_, ok, err := s.Get(ctx, model.KindTask, id)
	require.NoError(t, err)
	require.False(t, ok)
	require.ErrorIs(t, s.Delete(ctx, model.KindTask, id), ErrNotFound)
}

func TestStore_SubscribePushesFreshRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	var pushes [][]model.Item
	cancel, err := s.Subscribe(ctx, model.KindTask, func(rows []model.Item) {
		pushes = append(pushes, rows)
	})
	require.NoError(t, err)
	require.Len(t, pushes, 1, "initial rows are pushed on subscribe")
	require.Empty(t, pushes[0])

	id, err := s.Insert(ctx, model.KindTask, model.Item{Title: "a"})
	require.NoError(t, err)
	require.Len(t, pushes, 2)
	require.Len(t, pushes[1], 1)

	// Writes of another kind do not notify task subscribers.
	_, err = s.Insert(ctx, model.KindProject, model.Item{Title: "p"})
	require.NoError(t, err)
	require.Len(t, pushes, 2)

	require.NoError(t, s.Update(ctx, model.KindTask, id, Patch{Later: Ptr(true)}))
	require.Len(t, pushes, 3)
	require.True(t, pushes[2][0].Later)

	cancel()
	cancel()
	require.NoError(t, s.Delete(ctx, model.KindTask, id))
	require.Len(t, pushes, 3)
}

func TestStore_EventsAppendedPerMutation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.Insert(ctx, model.KindTask, model.Item{Title: "a"})
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, model.KindTask, id, Patch{Title: Ptr("b")}))
	require.NoError(t, s.Delete(ctx, model.KindTask, id))

	evs, err := s.ListEvents(ctx, EventFilter{EntityID: id})
	require.NoError(t, err)
	require.Len(t, evs, 3)
	require.Equal(t, "item.purge", evs[0].Type)
	require.Equal(t, "item.create", evs[2].Type)
	_, err = uuid.Parse(evs[0].ID)
	require.NoError(t, err)

	limited, err := s.ListEvents(ctx, EventFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestPatch_MarshalJSONOnlyTouchedFields(t *testing.T) {
	t.Parallel()

	b, err := Patch{Title: Ptr("x"), Deadline: Clear[time.Time]()}.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"x","deadline":null}`, string(b))
	require.True(t, Patch{}.Empty())
}
