package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lonelog/internal/store"
)

func queryLogsCmd() *cobra.Command {
	var campaign string
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List ingested session logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db store.Store) error {
				logs, err := db.ListLogs(ctx, campaign)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(logs) == 0 {
					fmt.Fprintln(out, "No logs found.")
					return nil
				}
				for _, l := range logs {
					fmt.Fprintf(out, "[%s] session %d: %s (%s, %d entries)\n", l.Campaign, l.Session, l.Title, l.SourceFile, l.EntryCount)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&campaign, "campaign", "", "Campaign to filter")
	return cmd
}
