package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema runs all DDL in one call, which PostgreSQL executes in an
// implicit transaction.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS logs (
    id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    campaign      TEXT NOT NULL,
    source_file   TEXT NOT NULL,
    source_hash   TEXT NOT NULL,
    title         TEXT DEFAULT '',
    session       INTEGER DEFAULT 0,
    entry_count   INTEGER DEFAULT 0,
    last_ingested TIMESTAMPTZ DEFAULT now(),
    CONSTRAINT uq_log_file UNIQUE (campaign, source_file)
);

CREATE TABLE IF NOT EXISTS entity_deltas (
    id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    log_id            BIGINT NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
    seq               INTEGER NOT NULL,
    entity            TEXT NOT NULL,
    entity_normalized TEXT NOT NULL,
    entity_type       TEXT NOT NULL,
    changes           JSONB DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS progress_changes (
    id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    log_id        BIGINT NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
    seq           INTEGER NOT NULL,
    name          TEXT NOT NULL,
    kind          TEXT NOT NULL,
    current_value INTEGER NOT NULL,
    max_value     INTEGER
);

CREATE TABLE IF NOT EXISTS thread_changes (
    id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    log_id   BIGINT NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
    seq      INTEGER NOT NULL,
    name     TEXT NOT NULL,
    to_state TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logs_campaign ON logs (campaign);
CREATE INDEX IF NOT EXISTS idx_logs_campaign_session ON logs (campaign, session);
CREATE INDEX IF NOT EXISTS idx_entity_deltas_log ON entity_deltas (log_id);
CREATE INDEX IF NOT EXISTS idx_entity_deltas_name ON entity_deltas (entity_normalized, entity_type);
CREATE INDEX IF NOT EXISTS idx_entity_deltas_changes ON entity_deltas USING GIN (changes);
CREATE INDEX IF NOT EXISTS idx_progress_log ON progress_changes (log_id);
CREATE INDEX IF NOT EXISTS idx_progress_name ON progress_changes (lower(name));
CREATE INDEX IF NOT EXISTS idx_threads_log ON thread_changes (log_id);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
