package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/tags"

	"golang.org/x/text/cases"
)

// TagRepository is the tag persistence boundary.
type TagRepository interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id string) (model.Tag, bool, error)
	DeleteTag(ctx context.Context, id string) error
}

var _ TagRepository = (*Store)(nil)

// A Caser is stateful; build one per call.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func (s *Store) ListTags(ctx context.Context) ([]model.Tag, error) {
	return readJSONRows[model.Tag](ctx, s.db, `SELECT json FROM tags ORDER BY parent_id, ord, id`)
}

func (s *Store) GetTag(ctx context.Context, id string) (model.Tag, bool, error) {
	var js string
	err := s.db.QueryRowContext(ctx, `SELECT json FROM tags WHERE id = ?`, strings.TrimSpace(id)).Scan(&js)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tag{}, false, nil
	}
	if err != nil {
		return model.Tag{}, false, err
	}
	var t model.Tag
	if err := json.Unmarshal([]byte(js), &t); err != nil {
		return model.Tag{}, false, err
	}
	return t, true, nil
}

// TagByName finds a tag by case-folded name.
func (s *Store) TagByName(ctx context.Context, name string) (model.Tag, bool, error) {
	all, err := s.ListTags(ctx)
	if err != nil {
		return model.Tag{}, false, err
	}
	want := foldName(name)
	for _, t := range all {
		if foldName(t.Name) == want {
			return t, true, nil
		}
	}
	return model.Tag{}, false, nil
}

// ResolveTag accepts either a tag id or a tag name.
func (s *Store) ResolveTag(ctx context.Context, ref string) (model.Tag, bool, error) {
	if t, ok, err := s.GetTag(ctx, ref); err != nil || ok {
		return t, ok, err
	}
	return s.TagByName(ctx, ref)
}

func (s *Store) CreateTag(ctx context.Context, name string, parentID *string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, errors.New("tag name is empty")
	}
	all, err := s.ListTags(ctx)
	if err != nil {
		return model.Tag{}, err
	}
	if err := checkTagName(all, "", name); err != nil {
		return model.Tag{}, err
	}
	parent, err := normalizeTagParent(all, parentID)
	if err != nil {
		return model.Tag{}, err
	}
	id, err := newTagID()
	if err != nil {
		return model.Tag{}, err
	}
	now := s.now()
	t := model.Tag{
		ID:        id,
		Name:      name,
		ParentID:  parent,
		Order:     nextSiblingOrder(all, parent),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.writeTag(ctx, t, "tag.create", t); err != nil {
		return model.Tag{}, err
	}
	s.notifyTags(ctx)
	return t, nil
}

func (s *Store) RenameTag(ctx context.Context, id, name string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, errors.New("tag name is empty")
	}
	all, err := s.ListTags(ctx)
	if err != nil {
		return model.Tag{}, err
	}
	t, ok := findTag(all, id)
	if !ok {
		return model.Tag{}, fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	if t.Name == name {
		return t, nil
	}
	if err := checkTagName(all, t.ID, name); err != nil {
		return model.Tag{}, err
	}
	t.Name = name
	t.UpdatedAt = s.now()
	if err := s.writeTag(ctx, t, "tag.rename", map[string]any{"name": name}); err != nil {
		return model.Tag{}, err
	}
	s.notifyTags(ctx)
	return t, nil
}

// SetTagParent moves a tag under parentID (nil for root). Moves that would
// make the tag its own ancestor fail with ErrTagCycle.
func (s *Store) SetTagParent(ctx context.Context, id string, parentID *string) (model.Tag, error) {
	all, err := s.ListTags(ctx)
	if err != nil {
		return model.Tag{}, err
	}
	t, ok := findTag(all, id)
	if !ok {
		return model.Tag{}, fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	parent, err := normalizeTagParent(all, parentID)
	if err != nil {
		return model.Tag{}, err
	}
	if parent != nil && tags.NewHierarchy(all).WouldCycle(t.ID, *parent) {
		return model.Tag{}, fmt.Errorf("tag %s under %s: %w", t.ID, *parent, ErrTagCycle)
	}
	if sameParent(t.ParentID, parent) {
		return t, nil
	}
	t.ParentID = parent
	t.Order = nextSiblingOrder(all, parent)
	t.UpdatedAt = s.now()
	if err := s.writeTag(ctx, t, "tag.reparent", map[string]any{"parentId": parent}); err != nil {
		return model.Tag{}, err
	}
	s.notifyTags(ctx)
	return t, nil
}

// DeleteTag hard-deletes a tag row. Its children move to the deleted tag's
// parent. Stripping the id from items is left to the caller.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	all, err := s.ListTags(ctx)
	if err != nil {
		return err
	}
	t, ok := findTag(all, id)
	if !ok {
		return fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()
	for _, c := range all {
		if c.ParentID == nil || *c.ParentID != t.ID {
			continue
		}
		c.ParentID = t.ParentID
		c.UpdatedAt = now
		if err := writeTagTx(ctx, tx, c); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, t.ID); err != nil {
		return err
	}
	if err := s.appendEventTx(ctx, tx, "tag.delete", t.ID, map[string]any{"name": t.Name}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.notifyTags(ctx)
	return nil
}

// SubscribeTags pushes the current tags to fn, then again after every tag
// write.
func (s *Store) SubscribeTags(ctx context.Context, fn func([]model.Tag)) (func(), error) {
	rows, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	cancel := s.tags.subscribe("tags", fn)
	fn(rows)
	return cancel, nil
}

func (s *Store) notifyTags(ctx context.Context) {
	if !s.tags.has("tags") {
		return
	}
	rows, err := s.ListTags(ctx)
	if err != nil {
		return
	}
	s.tags.publish("tags", rows)
}

func (s *Store) writeTag(ctx context.Context, t model.Tag, eventType string, payload any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := writeTagTx(ctx, tx, t); err != nil {
		return err
	}
	if err := s.appendEventTx(ctx, tx, eventType, t.ID, payload); err != nil {
		return err
	}
	return tx.Commit()
}

func writeTagTx(ctx context.Context, tx *sql.Tx, t model.Tag) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	parent := ""
	if t.ParentID != nil {
		parent = *t.ParentID
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO tags(id, name, parent_id, ord, json, updated_at_unixms)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	parent_id = excluded.parent_id,
	ord = excluded.ord,
	json = excluded.json,
	updated_at_unixms = excluded.updated_at_unixms`,
		t.ID, t.Name, parent, t.Order, string(b), t.UpdatedAt.UnixMilli(),
	)
	return err
}

func findTag(all []model.Tag, id string) (model.Tag, bool) {
	id = strings.TrimSpace(id)
	for _, t := range all {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tag{}, false
}

func checkTagName(all []model.Tag, selfID, name string) error {
	want := foldName(name)
	for _, t := range all {
		if t.ID != selfID && foldName(t.Name) == want {
			return fmt.Errorf("%q: %w", name, ErrTagExists)
		}
	}
	return nil
}

func normalizeTagParent(all []model.Tag, parentID *string) (*string, error) {
	if parentID == nil || strings.TrimSpace(*parentID) == "" {
		return nil, nil
	}
	pid := strings.TrimSpace(*parentID)
	if _, ok := findTag(all, pid); !ok {
		return nil, fmt.Errorf("parent tag %s: %w", pid, ErrNotFound)
	}
	return &pid, nil
}

func nextSiblingOrder(all []model.Tag, parent *string) int {
	max := -1
	for _, t := range all {
		if sameParent(t.ParentID, parent) && t.Order > max {
			max = t.Order
		}
	}
	return max + 1
}

func sameParent(a, b *string) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return *a == *b
	}
}
