package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"thingsdo-cli/internal/model"
)

// Repository is the item persistence boundary. Every successful write is
// pushed to that kind's subscribers as the full fresh row set.
type Repository interface {
	ListAll(ctx context.Context, kind model.Kind) ([]model.Item, error)
	Get(ctx context.Context, kind model.Kind, id string) (model.Item, bool, error)
	Insert(ctx context.Context, kind model.Kind, fields model.Item) (string, error)
	Update(ctx context.Context, kind model.Kind, id string, p Patch) error
	Delete(ctx context.Context, kind model.Kind, id string) error
	Subscribe(ctx context.Context, kind model.Kind, fn func([]model.Item)) (func(), error)
}

var _ Repository = (*Store)(nil)

func (s *Store) ListAll(ctx context.Context, kind model.Kind) ([]model.Item, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid kind %q", kind)
	}
	return readJSONRows[model.Item](ctx, s.db, `SELECT json FROM items WHERE kind = ? ORDER BY id`, string(kind))
}

// ListEverything returns tasks followed by projects.
func (s *Store) ListEverything(ctx context.Context) ([]model.Item, error) {
	tasks, err := s.ListAll(ctx, model.KindTask)
	if err != nil {
		return nil, err
	}
	projects, err := s.ListAll(ctx, model.KindProject)
	if err != nil {
		return nil, err
	}
	return append(tasks, projects...), nil
}

func (s *Store) Get(ctx context.Context, kind model.Kind, id string) (model.Item, bool, error) {
	id = strings.TrimSpace(id)
	var js string
	err := s.db.QueryRowContext(ctx, `SELECT json FROM items WHERE kind = ? AND id = ?`, string(kind), id).Scan(&js)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, false, nil
	}
	if err != nil {
		return model.Item{}, false, err
	}
	var it model.Item
	if err := json.Unmarshal([]byte(js), &it); err != nil {
		return model.Item{}, false, err
	}
	return it, true, nil
}

// Find resolves an id of either kind using its prefix.
func (s *Store) Find(ctx context.Context, id string) (model.Item, bool, error) {
	kind, ok := model.KindOfID(id)
	if !ok {
		return model.Item{}, false, nil
	}
	return s.Get(ctx, kind, id)
}

// Insert persists a new item of kind. The id, kind and timestamps on fields
// are assigned by the store.
func (s *Store) Insert(ctx context.Context, kind model.Kind, fields model.Item) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("invalid kind %q", kind)
	}
	if strings.TrimSpace(fields.Title) == "" {
		return "", errors.New("title is empty")
	}
	id, err := newItemID(kind)
	if err != nil {
		return "", err
	}
	it := fields
	it.ID = id
	it.Kind = kind
	if kind != model.KindTask {
		it.Checklist = nil
	}
	if err := s.checkParent(ctx, it); err != nil {
		return "", err
	}
	now := s.now()
	it.CreatedAt = now
	it.UpdatedAt = now

	if err := s.writeItem(ctx, it, "item.create", it); err != nil {
		return "", err
	}
	s.notifyItems(ctx, kind)
	return id, nil
}

func (s *Store) Update(ctx context.Context, kind model.Kind, id string, p Patch) error {
	it, ok, err := s.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if p.Empty() {
		return nil
	}
	p.Apply(&it)
	if p.ParentID.Present() {
		if err := s.checkParent(ctx, it); err != nil {
			return err
		}
	}
	it.UpdatedAt = s.now()
	if err := s.writeItem(ctx, it, "item.update", p); err != nil {
		return err
	}
	s.notifyItems(ctx, kind)
	return nil
}

// Delete hard-removes the row.
func (s *Store) Delete(ctx context.Context, kind model.Kind, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err := s.appendEventTx(ctx, tx, "item.purge", id, map[string]any{"kind": kind}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.notifyItems(ctx, kind)
	return nil
}

// Subscribe registers fn for kind and pushes the current rows before
// returning.
func (s *Store) Subscribe(ctx context.Context, kind model.Kind, fn func([]model.Item)) (func(), error) {
	rows, err := s.ListAll(ctx, kind)
	if err != nil {
		return nil, err
	}
	cancel := s.items.subscribe(string(kind), fn)
	fn(rows)
	return cancel, nil
}

// Refresh re-reads every kind and pushes it to subscribers. Used when
// another process changed the file.
func (s *Store) Refresh(ctx context.Context) {
	s.notifyItems(ctx, model.KindTask)
	s.notifyItems(ctx, model.KindProject)
	s.notifyTags(ctx)
}

func (s *Store) notifyItems(ctx context.Context, kind model.Kind) {
	if !s.items.has(string(kind)) {
		return
	}
	rows, err := s.ListAll(ctx, kind)
	if err != nil {
		return
	}
	s.items.publish(string(kind), rows)
}

func (s *Store) checkParent(ctx context.Context, it model.Item) error {
	if it.ParentID == nil {
		return nil
	}
	pid := strings.TrimSpace(*it.ParentID)
	if it.Kind == model.KindProject {
		return InvalidParentError{Kind: it.Kind, ID: it.ID, ParentID: pid}
	}
	p, ok, err := s.Get(ctx, model.KindProject, pid)
	if err != nil {
		return err
	}
	if !ok || p.Deleted() {
		return InvalidParentError{Kind: it.Kind, ID: it.ID, ParentID: pid}
	}
	return nil
}

func (s *Store) writeItem(ctx context.Context, it model.Item, eventType string, payload any) error {
	b, err := json.Marshal(it)
	if err != nil {
		return err
	}
	parent := ""
	if it.ParentID != nil {
		parent = *it.ParentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO items(id, kind, parent_id, ord, later, deleted_at_unixms, logged_at_unixms, json, updated_at_unixms)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	parent_id = excluded.parent_id,
	ord = excluded.ord,
	later = excluded.later,
	deleted_at_unixms = excluded.deleted_at_unixms,
	logged_at_unixms = excluded.logged_at_unixms,
	json = excluded.json,
	updated_at_unixms = excluded.updated_at_unixms`,
		it.ID, string(it.Kind), parent, it.Order, boolToInt(it.Later),
		unixMsOrNil(it.DeletedAt), unixMsOrNil(it.LoggedAt), string(b), it.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return err
	}
	if err := s.appendEventTx(ctx, tx, eventType, it.ID, payload); err != nil {
		return err
	}
	return tx.Commit()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
