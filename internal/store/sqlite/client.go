package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lonelog/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

const memoryDSN = ":memory:"

// Applied on every new connection through the driver's _pragma parameter.
var connPragmas = []string{
	"busy_timeout(30000)",
	"foreign_keys(1)",
}

type Client struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}
	memory := driverDSN == memoryDSN

	db, err := sql.Open("sqlite", withPragmas(driverDSN))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if memory {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	if !memory {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL: %w", err)
		}
	}

	return &Client{db: db}, nil
}

func withPragmas(driverDSN string) string {
	params := make([]string, 0, len(connPragmas))
	for _, pragma := range connPragmas {
		params = append(params, "_pragma="+pragma)
	}
	sep := "?"
	if strings.Contains(driverDSN, "?") {
		sep = "&"
	}
	return driverDSN + sep + strings.Join(params, "&")
}

func (c *Client) Close(ctx context.Context) error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("closing sqlite: %w", err)
	}
	return nil
}
