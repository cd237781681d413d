package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS logs (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		campaign      TEXT NOT NULL,
		source_file   TEXT NOT NULL,
		source_hash   TEXT NOT NULL,
		title         TEXT DEFAULT '',
		session       INTEGER DEFAULT 0,
		entry_count   INTEGER DEFAULT 0,
		last_ingested TEXT DEFAULT (datetime('now')),
		CONSTRAINT uq_log_file UNIQUE (campaign, source_file)
	);

	CREATE TABLE IF NOT EXISTS entity_deltas (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		log_id            INTEGER NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
		seq               INTEGER NOT NULL,
		entity            TEXT NOT NULL,
		entity_normalized TEXT NOT NULL,
		entity_type       TEXT NOT NULL,
		changes           TEXT DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS progress_changes (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		log_id        INTEGER NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
		seq           INTEGER NOT NULL,
		name          TEXT NOT NULL,
		kind          TEXT NOT NULL,
		current_value INTEGER NOT NULL,
		max_value     INTEGER
	);

	CREATE TABLE IF NOT EXISTS thread_changes (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		log_id   INTEGER NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
		seq      INTEGER NOT NULL,
		name     TEXT NOT NULL,
		to_state TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_logs_campaign ON logs (campaign);
	CREATE INDEX IF NOT EXISTS idx_logs_campaign_session ON logs (campaign, session);
	CREATE INDEX IF NOT EXISTS idx_entity_deltas_log ON entity_deltas (log_id);
	CREATE INDEX IF NOT EXISTS idx_entity_deltas_name ON entity_deltas (entity_normalized, entity_type);
	CREATE INDEX IF NOT EXISTS idx_progress_log ON progress_changes (log_id);
	CREATE INDEX IF NOT EXISTS idx_progress_name ON progress_changes (name);
	CREATE INDEX IF NOT EXISTS idx_threads_log ON thread_changes (log_id);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
