package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lonelog/internal/config"
	"lonelog/internal/ingest"
)

func ingestCmd() *cobra.Command {
	var full bool
	var concurrency int
	var campaign string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Decode campaign notes and store their state changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, campaign, ingest.Options{Full: full, Concurrency: concurrency})
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Force full re-ingestion (ignore incremental hashes)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of notes parsed in parallel")
	cmd.Flags().StringVar(&campaign, "campaign", "", "Ingest only this campaign")
	return cmd
}

func runIngest(cmd *cobra.Command, campaign string, options ingest.Options) error {
	ctx := context.Background()

	cfg, logger, err := loadProject()
	if err != nil {
		return err
	}
	if campaign != "" {
		selected, ok := cfg.Campaign(campaign)
		if !ok {
			return fmt.Errorf("unknown campaign: %s", campaign)
		}
		cfg.Campaigns = []config.Campaign{selected}
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	options.Logger = logger
	result, err := ingest.Run(ctx, cfg, db, options)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Ingestion complete.")
	fmt.Fprintf(out, "  Logs saved:       %d\n", result.LogsSaved)
	fmt.Fprintf(out, "  Logs removed:     %d\n", result.LogsRemoved)
	fmt.Fprintf(out, "  Files skipped:    %d\n", result.FilesSkipped)
	fmt.Fprintf(out, "  Entity deltas:    %d\n", result.EntityDeltas)
	fmt.Fprintf(out, "  Progress changes: %d\n", result.ProgressChanges)
	fmt.Fprintf(out, "  Thread changes:   %d\n", result.ThreadChanges)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(out, "  - %v\n", item)
		}
		return fmt.Errorf("ingestion completed with errors")
	}

	return nil
}
