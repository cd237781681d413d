package sqlite

import (
	"context"
	"fmt"

	"lonelog/internal/store"
)

// RunSQL executes query on a connection switched to query_only.
func (c *Client) RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if err := store.CheckReadOnly(query); err != nil {
		return nil, err
	}

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer func() {
		// Pooled connections must be writable again.
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA query_only = OFF;")
		conn.Close()
	}()
	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON;"); err != nil {
		return nil, fmt.Errorf("enabling query_only: %w", err)
	}

	rows, err := conn.QueryContext(ctx, query, store.PositionalArgs(params)...)
	if err != nil {
		return nil, fmt.Errorf("running sql: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("getting columns: %w", err)
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// TEXT columns holding JSON come back as bytes.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sql rows: %w", err)
	}

	return results, nil
}
