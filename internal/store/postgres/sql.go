package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lonelog/internal/store"
)

// RunSQL executes query inside a read-only transaction.
func (c *Client) RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if err := store.CheckReadOnly(query); err != nil {
		return nil, err
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read-only transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, query, store.PositionalArgs(params)...)
	if err != nil {
		return nil, fmt.Errorf("running sql: %w", err)
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	results := make([]map[string]any, 0)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("getting row values: %w", err)
		}

		row := make(map[string]any, len(fieldDescriptions))
		for i, fd := range fieldDescriptions {
			row[fd.Name] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sql rows: %w", err)
	}

	return results, nil
}
