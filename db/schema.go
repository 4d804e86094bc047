package db

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS participants (
	seq           BIGSERIAL,
	id            TEXT PRIMARY KEY,
	full_name     TEXT NOT NULL,
	age           INTEGER NOT NULL DEFAULT 0,
	district      TEXT NOT NULL DEFAULT '',
	whatsapp      TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	type          TEXT NOT NULL DEFAULT '',
	file_url      TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'pending',
	ratings       JSONB NOT NULL DEFAULT '[]'::jsonb,
	average_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	submitted_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT chk_participant_status CHECK (status IN ('pending', 'accepted', 'rejected', 'qualified'))
);

CREATE INDEX IF NOT EXISTS idx_participants_seq ON participants(seq);

CREATE TABLE IF NOT EXISTS cycle_settings (
	id                   SMALLINT PRIMARY KEY CHECK (id = 1),
	deadline             TIMESTAMPTZ NOT NULL,
	show_current_results BOOLEAN NOT NULL DEFAULT FALSE,
	last_year_winners    TEXT[] NOT NULL DEFAULT '{}',
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the snapshot tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
