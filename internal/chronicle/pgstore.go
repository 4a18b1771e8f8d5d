package chronicle

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"darktower-backend/internal/errors"
)

// PostgresStore mirrors chronicle appends into a history_events table so
// tools can query a world's history after the process exits. The
// in-memory Log stays authoritative; the mirror is written best-effort.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed chronicle mirror.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema is the DDL the mirror expects. The store does not apply it
// itself; it is kept here for reference.
const Schema = `
CREATE TABLE IF NOT EXISTS history_events (
	world_id     UUID        NOT NULL,
	event_id     BIGINT      NOT NULL,
	event_type   TEXT        NOT NULL,
	year         INT         NOT NULL,
	season       SMALLINT    NOT NULL,
	title        TEXT        NOT NULL,
	description  TEXT        NOT NULL DEFAULT '',
	location_x   INT,
	location_y   INT,
	faction_ids  BIGINT[]    NOT NULL DEFAULT '{}',
	participants BIGINT[]    NOT NULL DEFAULT '{}',
	payload      JSONB       NOT NULL DEFAULT '{}',
	caused_by    BIGINT      NOT NULL DEFAULT 0,
	PRIMARY KEY (world_id, event_id)
);
CREATE INDEX IF NOT EXISTS history_events_type_idx ON history_events (world_id, event_type);
`

// Append writes one event row.
func (s *PostgresStore) Append(ctx context.Context, worldID uuid.UUID, e Event) error {
	payload, err := json.Marshal(map[string]any{"consequences": e.Consequences})
	if err != nil {
		return errors.Wrap(errors.ErrChronicleStore, "failed to encode event payload", err)
	}

	var locX, locY *int
	if e.HasLocation {
		locX, locY = &e.Location.X, &e.Location.Y
	}

	query := `
		INSERT INTO history_events (world_id, event_id, event_type, year, season, title, description, location_x, location_y, faction_ids, participants, payload, caused_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (world_id, event_id) DO NOTHING
	`
	_, err = s.pool.Exec(ctx, query,
		worldID,
		int64(e.ID),
		e.Type.String(),
		e.Date.Year,
		e.Date.Season,
		e.Title,
		e.Description,
		locX,
		locY,
		int64Slice(e.FactionIDs),
		int64Slice(e.Participants),
		payload,
		int64(e.CausedBy),
	)
	if err != nil {
		return errors.Wrap(errors.ErrChronicleStore, "failed to append event", err)
	}
	return nil
}

// TailByType returns the most recent events of one type, oldest first.
func (s *PostgresStore) TailByType(ctx context.Context, worldID uuid.UUID, eventType string, limit int) ([]Event, error) {
	query := `
		SELECT event_id, year, season, title, description, caused_by
		FROM history_events
		WHERE world_id = $1 AND event_type = $2
		ORDER BY event_id DESC
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, query, worldID, eventType, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrChronicleStore, "failed to query events", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var id, causedBy int64
		if err := rows.Scan(&id, &e.Date.Year, &e.Date.Season, &e.Title, &e.Description, &causedBy); err != nil {
			return nil, errors.Wrap(errors.ErrChronicleStore, "failed to scan event", err)
		}
		e.ID = EventID(id)
		e.CausedBy = EventID(causedBy)
		out = append(out, e)
	}
	// Oldest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rows.Err()
}

func int64Slice(in []uint64) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}
