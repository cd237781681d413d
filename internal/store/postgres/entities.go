package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lonelog/internal/delta"
	"lonelog/internal/store"
)

func (c *Client) ListEntities(ctx context.Context, campaign, entityType string) ([]store.EntitySummary, error) {
	query := `
SELECT MIN(d.entity), d.entity_type, l.campaign, COUNT(DISTINCT d.log_id), COALESCE(SUM(jsonb_array_length(d.changes)), 0)
FROM entity_deltas d
JOIN logs l ON d.log_id = l.id
WHERE ($1 = '' OR l.campaign = $1)
  AND ($2 = '' OR d.entity_type = $2)
GROUP BY l.campaign, d.entity_type, d.entity_normalized
ORDER BY l.campaign, d.entity_normalized, d.entity_type
`

	rows, err := c.pool.Query(ctx, query, campaign, entityType)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	summaries := []store.EntitySummary{}
	for rows.Next() {
		var s store.EntitySummary
		var entityType string
		if err := rows.Scan(&s.Name, &entityType, &s.Campaign, &s.Logs, &s.Changes); err != nil {
			return nil, fmt.Errorf("scanning entity summary: %w", err)
		}
		s.EntityType = delta.EntityType(entityType)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity summaries: %w", err)
	}

	return summaries, nil
}

func (c *Client) GetEntityDeltas(ctx context.Context, campaign, entityType, name string) ([]delta.EntityDelta, error) {
	query := `
SELECT d.entity, d.entity_type, d.changes
FROM entity_deltas d
JOIN logs l ON d.log_id = l.id
WHERE d.entity_normalized = $1
  AND ($2 = '' OR l.campaign = $2)
  AND ($3 = '' OR d.entity_type = $3)
ORDER BY l.session ASC, l.source_file ASC, d.seq ASC
`

	rows, err := c.pool.Query(ctx, query, strings.ToLower(name), campaign, entityType)
	if err != nil {
		return nil, fmt.Errorf("getting entity deltas: %w", err)
	}
	defer rows.Close()

	deltas := []delta.EntityDelta{}
	for rows.Next() {
		var d delta.EntityDelta
		var entityType string
		var changesBytes []byte
		if err := rows.Scan(&d.Entity, &entityType, &changesBytes); err != nil {
			return nil, fmt.Errorf("scanning entity delta: %w", err)
		}
		d.EntityType = delta.EntityType(entityType)
		if len(changesBytes) > 0 {
			if err := json.Unmarshal(changesBytes, &d.Changes); err != nil {
				return nil, fmt.Errorf("unmarshaling changes: %w", err)
			}
		}
		if d.Changes == nil {
			d.Changes = []delta.StateChange{}
		}
		deltas = append(deltas, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity deltas: %w", err)
	}

	return deltas, nil
}
