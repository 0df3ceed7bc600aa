package cli

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store"
	"thingsdo-cli/internal/tags"
	"thingsdo-cli/internal/views"
)

var reDateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseDate parses YYYY-MM-DD (midnight UTC) or RFC3339.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if reDateOnly.MatchString(s) {
		return time.ParseInLocation("2006-01-02", s, time.UTC)
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC3339)", s)
}

// refOf infers a ref from an id prefix.
func refOf(id string) (model.Ref, error) {
	id = strings.TrimSpace(id)
	kind, ok := model.KindOfID(id)
	if !ok {
		return model.Ref{}, fmt.Errorf("unrecognized item id %q (expected task-... or proj-...)", id)
	}
	return model.Ref{Kind: kind, ID: id}, nil
}

func refsOf(ids []string) ([]model.Ref, error) {
	if len(ids) == 0 {
		return nil, errNoIDs
	}
	out := make([]model.Ref, 0, len(ids))
	for _, id := range ids {
		r, err := refOf(id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func findItem(ctx context.Context, s *store.Store, id string) (model.Item, error) {
	it, ok, err := s.Find(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	if !ok {
		return model.Item{}, errNotFound("item", id)
	}
	return it, nil
}

// resolveTagFilter is resolveTagIDs for filter flags: the no-tag selector
// passes through.
func resolveTagFilter(ctx context.Context, s *store.Store, refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	var named []string
	for _, ref := range refs {
		if strings.TrimSpace(ref) == tags.NoTag {
			out = append(out, tags.NoTag)
			continue
		}
		named = append(named, ref)
	}
	ids, err := resolveTagIDs(ctx, s, named)
	if err != nil {
		return nil, err
	}
	return append(ids, out...), nil
}

// resolveTagIDs maps tag ids or names to ids.
func resolveTagIDs(ctx context.Context, s *store.Store, refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		t, ok, err := s.ResolveTag(ctx, ref)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errNotFound("tag", ref)
		}
		out = append(out, t.ID)
	}
	return out, nil
}

// snapshot derives every view from the current store contents.
func snapshot(ctx context.Context, s *store.Store, selected []string) (views.Snapshot, error) {
	pool, err := s.ListEverything(ctx)
	if err != nil {
		return views.Snapshot{}, err
	}
	allTags, err := s.ListTags(ctx)
	if err != nil {
		return views.Snapshot{}, err
	}
	return views.Derive(pool, allTags, selected), nil
}

type itemOut struct {
	model.Item
	View           views.View `json:"view"`
	EffectiveTags  []string   `json:"effectiveTags"`
	ActiveBlockers []string   `json:"activeBlockers,omitempty"`
}
