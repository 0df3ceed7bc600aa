package mutate

import (
	"context"
	"strings"
	"time"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store"
)

func SetLater(ctx context.Context, repo store.Repository, ref model.Ref, later bool) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.Later == later {
			return store.Patch{}, nil
		}
		return store.Patch{Later: store.Ptr(later)}, nil
	})
}

// Log marks an item completed or canceled at now.
func Log(ctx context.Context, repo store.Repository, ref model.Ref, status model.LogStatus, now time.Time) (Result, error) {
	if status != model.LogCompleted && status != model.LogCanceled {
		return Result{}, ErrInvalidStatus
	}
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.Logged() && it.LogStatus == status {
			return store.Patch{}, nil
		}
		return store.Patch{LoggedAt: store.Set(now.UTC()), LogStatus: store.Ptr(status)}, nil
	})
}

func Reopen(ctx context.Context, repo store.Repository, ref model.Ref) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if !it.Logged() && it.LogStatus == model.LogNone {
			return store.Patch{}, nil
		}
		return store.Patch{LoggedAt: store.Clear[time.Time](), LogStatus: store.Ptr(model.LogNone)}, nil
	})
}

// Block adds blocker ids. Ids are not required to resolve; dangling ones
// simply never block.
func Block(ctx context.Context, repo store.Repository, ref model.Ref, blockers ...string) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		next := append([]string(nil), it.BlockedBy...)
		changed := false
		for _, b := range blockers {
			b = strings.TrimSpace(b)
			if b == "" {
				continue
			}
			if b == it.ID {
				return store.Patch{}, ErrSelfBlock
			}
			if !contains(next, b) {
				next = append(next, b)
				changed = true
			}
		}
		if !changed {
			return store.Patch{}, nil
		}
		return store.Patch{BlockedBy: &next}, nil
	})
}

// Unblock removes blocker ids; with none given it clears every blocker.
func Unblock(ctx context.Context, repo store.Repository, ref model.Ref, blockers ...string) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if len(it.BlockedBy) == 0 {
			return store.Patch{}, nil
		}
		if len(blockers) == 0 {
			return store.Patch{BlockedBy: &[]string{}}, nil
		}
		next := without(it.BlockedBy, blockers)
		if len(next) == len(it.BlockedBy) {
			return store.Patch{}, nil
		}
		return store.Patch{BlockedBy: &next}, nil
	})
}

// LinkExternal stores an identifier owned by an external task application.
// The value is copied as is.
func LinkExternal(ctx context.Context, repo store.Repository, ref model.Ref, externalID string) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.ExternalID != nil && *it.ExternalID == externalID {
			return store.Patch{}, nil
		}
		return store.Patch{ExternalID: store.Set(externalID)}, nil
	})
}

func UnlinkExternal(ctx context.Context, repo store.Repository, ref model.Ref) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.ExternalID == nil {
			return store.Patch{}, nil
		}
		return store.Patch{ExternalID: store.Clear[string]()}, nil
	})
}

func SetDefer(ctx context.Context, repo store.Repository, ref model.Ref, state model.DeferState) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.Defer == state {
			return store.Patch{}, nil
		}
		return store.Patch{Defer: store.Ptr(state)}, nil
	})
}

func SetEvening(ctx context.Context, repo store.Repository, ref model.Ref, evening bool) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.Evening == evening {
			return store.Patch{}, nil
		}
		return store.Patch{Evening: store.Ptr(evening)}, nil
	})
}

// AddTags adds own tag ids. Inherited tags are never written.
func AddTags(ctx context.Context, repo store.Repository, ref model.Ref, tagIDs ...string) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		next := append([]string(nil), it.TagIDs...)
		for _, id := range tagIDs {
			id = strings.TrimSpace(id)
			if id != "" && !contains(next, id) {
				next = append(next, id)
			}
		}
		if len(next) == len(it.TagIDs) {
			return store.Patch{}, nil
		}
		return store.Patch{TagIDs: &next}, nil
	})
}

func RemoveTags(ctx context.Context, repo store.Repository, ref model.Ref, tagIDs ...string) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		next := without(it.TagIDs, tagIDs)
		if len(next) == len(it.TagIDs) {
			return store.Patch{}, nil
		}
		return store.Patch{TagIDs: &next}, nil
	})
}

// SetParent moves a task into a project, or out of any project when
// projectID is nil. The repository rejects parents that are not live
// projects.
func SetParent(ctx context.Context, repo store.Repository, ref model.Ref, projectID *string) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.Kind != model.KindTask {
			return store.Patch{}, ErrTaskOnly
		}
		if projectID == nil || strings.TrimSpace(*projectID) == "" {
			if it.ParentID == nil {
				return store.Patch{}, nil
			}
			return store.Patch{ParentID: store.Clear[string]()}, nil
		}
		pid := strings.TrimSpace(*projectID)
		if it.ParentID != nil && *it.ParentID == pid {
			return store.Patch{}, nil
		}
		return store.Patch{ParentID: store.Set(pid)}, nil
	})
}

func AddChecklist(ctx context.Context, repo store.Repository, ref model.Ref, title string) (Result, error) {
	title = strings.TrimSpace(title)
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.Kind != model.KindTask {
			return store.Patch{}, ErrTaskOnly
		}
		if title == "" {
			return store.Patch{}, nil
		}
		next := append(append([]model.ChecklistEntry(nil), it.Checklist...), model.ChecklistEntry{Title: title})
		return store.Patch{Checklist: &next}, nil
	})
}

// ToggleChecklist flips the logged flag of entry index. Entries log
// independently of the item.
func ToggleChecklist(ctx context.Context, repo store.Repository, ref model.Ref, index int) (Result, error) {
	return update(ctx, repo, ref, func(it model.Item) (store.Patch, error) {
		if it.Kind != model.KindTask {
			return store.Patch{}, ErrTaskOnly
		}
		if index < 0 || index >= len(it.Checklist) {
			return store.Patch{}, ErrChecklistBounds
		}
		next := append([]model.ChecklistEntry(nil), it.Checklist...)
		e := &next[index]
		e.Logged = !e.Logged
		if e.Logged {
			e.LoggedStatus = model.LogCompleted
		} else {
			e.LoggedStatus = model.LogNone
		}
		return store.Patch{Checklist: &next}, nil
	})
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func without(xs, drop []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if !contains(drop, x) {
			out = append(out, x)
		}
	}
	return out
}
