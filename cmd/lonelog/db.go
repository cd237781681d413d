package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"lonelog/internal/config"
	"lonelog/internal/logging"
	"lonelog/internal/store"
	"lonelog/internal/store/postgres"
	"lonelog/internal/store/sqlite"
)

func loadProject() (*config.ProjectConfig, *logrus.Logger, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	if sqlite.IsDSN(cfg.Database.DSN) {
		return sqlite.New(ctx, cfg.Database.DSN)
	}
	return postgres.New(ctx, cfg.Database.DSN)
}

// withDB loads the project, opens its database and hands it to fn.
func withDB(fn func(ctx context.Context, db store.Store) error) error {
	ctx := context.Background()

	cfg, _, err := loadProject()
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	return fn(ctx, db)
}

func printJSON(out io.Writer, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(out, string(payload))
	return nil
}
