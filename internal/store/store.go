package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"thingsdo-cli/internal/model"

	_ "modernc.org/sqlite"
)

const dbFileName = "thingsdo.sqlite"

// Store is the SQLite-backed item and tag repository for one workspace dir.
type Store struct {
	Dir string

	db   *sql.DB
	once sync.Once

	items *publisher[model.Item]
	tags  *publisher[model.Tag]

	// now is swapped in tests.
	now func() time.Time
}

// Open opens (creating if needed) the workspace database in dir.
func Open(ctx context.Context, dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps reads inside the process consistent with the
	// last write and avoids SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &Store{
		Dir:   dir,
		db:    db,
		items: newPublisher[model.Item](),
		tags:  newPublisher[model.Tag](),
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		if s.db != nil {
			err = s.db.Close()
		}
	})
	return err
}

// Path is the database file path.
func (s *Store) Path() string {
	return filepath.Join(s.Dir, dbFileName)
}

// Now returns the store clock (UTC).
func (s *Store) Now() time.Time { return s.now() }

// SetClock replaces the store clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// DiscoverDir walks up from start looking for a project-local .thingsdo dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".thingsdo")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// WorkspaceDir is the store dir for a named workspace under the config dir.
func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			parent_id TEXT NOT NULL DEFAULT '',
			ord REAL NOT NULL DEFAULT 0,
			later INTEGER NOT NULL DEFAULT 0,
			deleted_at_unixms INTEGER,
			logged_at_unixms INTEGER,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind);`,
		`CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);`,
		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			parent_id TEXT NOT NULL DEFAULT '',
			ord INTEGER NOT NULL DEFAULT 0,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tags_parent ON tags(parent_id);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, ts_unixms);`,
		`INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '1');`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func unixMsOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().UnixMilli()
}

func unixMsToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
