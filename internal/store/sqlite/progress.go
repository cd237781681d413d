package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lonelog/internal/delta"
	"lonelog/internal/store"
)

func (c *Client) ListProgress(ctx context.Context, campaign, name string) ([]store.ProgressRecord, error) {
	query := `
	SELECT p.name, p.kind, p.current_value, p.max_value, l.campaign, l.source_file, l.session
	FROM progress_changes p
	JOIN logs l ON p.log_id = l.id
	WHERE (? = '' OR l.campaign = ?)
	  AND (? = '' OR lower(p.name) = ?)
	ORDER BY l.campaign, l.session, l.source_file, p.seq
	`

	nameNormalized := strings.ToLower(name)
	rows, err := c.db.QueryContext(ctx, query, campaign, campaign, nameNormalized, nameNormalized)
	if err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}
	defer rows.Close()

	records := []store.ProgressRecord{}
	for rows.Next() {
		var r store.ProgressRecord
		var kind string
		var limit sql.NullInt64
		if err := rows.Scan(&r.Name, &kind, &r.Current, &limit, &r.Campaign, &r.SourceFile, &r.Session); err != nil {
			return nil, fmt.Errorf("scanning progress: %w", err)
		}
		r.Kind = delta.ProgressKind(kind)
		if limit.Valid {
			v := int(limit.Int64)
			r.Max = &v
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress: %w", err)
	}

	return records, nil
}

func (c *Client) ListThreads(ctx context.Context, campaign string) ([]store.ThreadRecord, error) {
	query := `
	SELECT t.name, t.to_state, l.campaign, l.source_file, l.session
	FROM thread_changes t
	JOIN logs l ON t.log_id = l.id
	WHERE (? = '' OR l.campaign = ?)
	ORDER BY l.campaign, l.session, l.source_file, t.seq
	`

	rows, err := c.db.QueryContext(ctx, query, campaign, campaign)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	defer rows.Close()

	records := []store.ThreadRecord{}
	for rows.Next() {
		var r store.ThreadRecord
		if err := rows.Scan(&r.Name, &r.To, &r.Campaign, &r.SourceFile, &r.Session); err != nil {
			return nil, fmt.Errorf("scanning thread: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating threads: %w", err)
	}

	return records, nil
}
