package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"thingsdo-cli/internal/model"

	"github.com/google/uuid"
)

func (s *Store) appendEventTx(ctx context.Context, tx *sql.Tx, typ, entityID string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO events(id, ts_unixms, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?)`,
		uuid.NewString(), s.now().UnixMilli(), typ, entityID, string(b),
	)
	return err
}

// EventFilter narrows ListEvents. A zero Limit means no limit.
type EventFilter struct {
	EntityID string
	Limit    int
}

// ListEvents returns the newest events first.
func (s *Store) ListEvents(ctx context.Context, f EventFilter) ([]model.Event, error) {
	q := `SELECT id, ts_unixms, type, entity_id, payload_json FROM events`
	var args []any
	if id := strings.TrimSpace(f.EntityID); id != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, id)
	}
	q += ` ORDER BY ts_unixms DESC, rowid DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			ev      model.Event
			tsMs    int64
			payload string
		)
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		ev.TS = unixMsToTime(tsMs)
		ev.Payload = json.RawMessage(payload)
		out = append(out, ev)
	}
	return out, rows.Err()
}
