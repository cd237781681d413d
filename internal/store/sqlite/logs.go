package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lonelog/internal/store"
)

func (c *Client) SaveLog(ctx context.Context, in store.LogInput) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var logID int64
	err = tx.QueryRowContext(ctx, `
	INSERT INTO logs (campaign, source_file, source_hash, title, session, entry_count, last_ingested)
	VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT (campaign, source_file) DO UPDATE SET
		source_hash = excluded.source_hash,
		title = excluded.title,
		session = excluded.session,
		entry_count = excluded.entry_count,
		last_ingested = datetime('now')
	RETURNING id`,
		in.Campaign, in.SourceFile, in.SourceHash, in.Title, in.Session, in.EntryCount,
	).Scan(&logID)
	if err != nil {
		return fmt.Errorf("upserting log: %w", err)
	}

	for _, table := range []string{"entity_deltas", "progress_changes", "thread_changes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE log_id = ?", logID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for seq, d := range in.Deltas.EntityDeltas {
		changes, err := json.Marshal(d.Changes)
		if err != nil {
			return fmt.Errorf("marshaling changes for %s: %w", d.Entity, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entity_deltas (log_id, seq, entity, entity_normalized, entity_type, changes) VALUES (?, ?, ?, ?, ?, ?)`,
			logID, seq, d.Entity, strings.ToLower(d.Entity), string(d.EntityType), string(changes),
		)
		if err != nil {
			return fmt.Errorf("inserting entity delta: %w", err)
		}
	}

	for seq, p := range in.Deltas.ProgressChanges {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO progress_changes (log_id, seq, name, kind, current_value, max_value) VALUES (?, ?, ?, ?, ?, ?)`,
			logID, seq, p.Name, string(p.Kind), p.Current, nullableInt(p.Max),
		)
		if err != nil {
			return fmt.Errorf("inserting progress change: %w", err)
		}
	}

	for seq, th := range in.Deltas.ThreadChanges {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO thread_changes (log_id, seq, name, to_state) VALUES (?, ?, ?, ?)`,
			logID, seq, th.Name, th.To,
		)
		if err != nil {
			return fmt.Errorf("inserting thread change: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (c *Client) GetLogHashes(ctx context.Context, campaign string) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT source_file, source_hash FROM logs WHERE campaign = ?`, campaign)
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
	args := make([]any, 0, len(currentSourceFiles)+1)
	args = append(args, campaign)
	query := `DELETE FROM logs WHERE campaign = ?`
	if len(currentSourceFiles) > 0 {
		placeholders := make([]string, len(currentSourceFiles))
		for i, f := range currentSourceFiles {
			placeholders[i] = "?"
			args = append(args, f)
		}
		query += fmt.Sprintf(" AND source_file NOT IN (%s)", strings.Join(placeholders, ", "))
	}

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("removing stale logs: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return affected, nil
}

func (c *Client) ListLogs(ctx context.Context, campaign string) ([]store.LogSummary, error) {
	query := `
	SELECT campaign, source_file, source_hash, title, session, entry_count, last_ingested
	FROM logs
	WHERE (? = '' OR campaign = ?)
	ORDER BY campaign, session, source_file
	`

	rows, err := c.db.QueryContext(ctx, query, campaign, campaign)
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

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
