package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lonelog/internal/store"
)

func queryProgressCmd() *cobra.Command {
	var campaign string
	var name string
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "List clock, track, event and timer updates in session order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db store.Store) error {
				records, err := db.ListProgress(ctx, campaign, name)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No progress found.")
					return nil
				}
				for _, r := range records {
					value := fmt.Sprintf("%d", r.Current)
					if r.Max != nil {
						value = fmt.Sprintf("%d/%d", r.Current, *r.Max)
					}
					fmt.Fprintf(out, "[%s] session %d: %s %s %s\n", r.Campaign, r.Session, r.Kind, r.Name, value)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&campaign, "campaign", "", "Campaign to filter")
	cmd.Flags().StringVar(&name, "name", "", "Tracker name to filter")
	return cmd
}
