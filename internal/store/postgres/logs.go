package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"lonelog/internal/store"
)

func (c *Client) SaveLog(ctx context.Context, in store.LogInput) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var logID int64
	err = tx.QueryRow(ctx, `
INSERT INTO logs (campaign, source_file, source_hash, title, session, entry_count, last_ingested)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (campaign, source_file) DO UPDATE SET
    source_hash = EXCLUDED.source_hash,
    title = EXCLUDED.title,
    session = EXCLUDED.session,
    entry_count = EXCLUDED.entry_count,
    last_ingested = now()
RETURNING id`,
		in.Campaign, in.SourceFile, in.SourceHash, in.Title, in.Session, in.EntryCount,
	).Scan(&logID)
	if err != nil {
		return fmt.Errorf("upserting log: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue("DELETE FROM entity_deltas WHERE log_id = $1", logID)
	batch.Queue("DELETE FROM progress_changes WHERE log_id = $1", logID)
	batch.Queue("DELETE FROM thread_changes WHERE log_id = $1", logID)

	for seq, d := range in.Deltas.EntityDeltas {
		changes, err := json.Marshal(d.Changes)
		if err != nil {
			return fmt.Errorf("marshaling changes for %s: %w", d.Entity, err)
		}
		batch.Queue(
			`INSERT INTO entity_deltas (log_id, seq, entity, entity_normalized, entity_type, changes) VALUES ($1, $2, $3, $4, $5, $6)`,
			logID, seq, d.Entity, strings.ToLower(d.Entity), string(d.EntityType), changes,
		)
	}
	for seq, p := range in.Deltas.ProgressChanges {
		batch.Queue(
			`INSERT INTO progress_changes (log_id, seq, name, kind, current_value, max_value) VALUES ($1, $2, $3, $4, $5, $6)`,
			logID, seq, p.Name, string(p.Kind), p.Current, p.Max,
		)
	}
	for seq, th := range in.Deltas.ThreadChanges {
		batch.Queue(
			`INSERT INTO thread_changes (log_id, seq, name, to_state) VALUES ($1, $2, $3, $4)`,
			logID, seq, th.Name, th.To,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("writing log rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (c *Client) GetLogHashes(ctx context.Context, campaign string) (map[string]string, error) {
	rows, err := c.pool.Query(ctx, "SELECT source_file, source_hash FROM logs WHERE campaign = $1", campaign)
	if err != nil {
		return nil, fmt.Errorf("query log hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var sourceFile, sourceHash string
		if err := rows.Scan(&sourceFile, &sourceHash); err != nil {
			return nil, fmt.Errorf("scanning log hash: %w", err)
		}
		hashes[sourceFile] = sourceHash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log hashes: %w", err)
	}

	return hashes, nil
}

// RemoveStaleLogs deletes logs of campaign whose file is no longer present.
// An empty file list removes every log of the campaign.
func (c *Client) RemoveStaleLogs(ctx context.Context, campaign string, currentSourceFiles []string) (int64, error) {
	if currentSourceFiles == nil {
		currentSourceFiles = []string{}
	}

	tag, err := c.pool.Exec(ctx,
		"DELETE FROM logs WHERE campaign = $1 AND NOT (source_file = ANY($2))",
		campaign, currentSourceFiles,
	)
	if err != nil {
		return 0, fmt.Errorf("removing stale logs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (c *Client) ListLogs(ctx context.Context, campaign string) ([]store.LogSummary, error) {
	query := `
SELECT campaign, source_file, source_hash, title, session, entry_count, last_ingested::text
FROM logs
WHERE ($1 = '' OR campaign = $1)
ORDER BY campaign, session, source_file
`

	rows, err := c.pool.Query(ctx, query, campaign)
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	defer rows.Close()

	logs := []store.LogSummary{}
	for rows.Next() {
		var l store.LogSummary
		if err := rows.Scan(&l.Campaign, &l.SourceFile, &l.SourceHash, &l.Title, &l.Session, &l.EntryCount, &l.LastIngested); err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating logs: %w", err)
	}

	return logs, nil
}
