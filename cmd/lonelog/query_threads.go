package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lonelog/internal/store"
)

func queryThreadsCmd() *cobra.Command {
	var campaign string
	var latest bool
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List thread state updates in session order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db store.Store) error {
				records, err := db.ListThreads(ctx, campaign)
				if err != nil {
					return err
				}
				if latest {
					records = latestThreads(records)
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No threads found.")
					return nil
				}
				for _, r := range records {
					fmt.Fprintf(out, "[%s] session %d: %s -> %s\n", r.Campaign, r.Session, r.Name, r.To)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&campaign, "campaign", "", "Campaign to filter")
	cmd.Flags().BoolVar(&latest, "latest", false, "Show only the last state of each thread")
	return cmd
}

// latestThreads keeps the last record per campaign and thread, in order of
// first appearance.
func latestThreads(records []store.ThreadRecord) []store.ThreadRecord {
	index := make(map[string]int)
	out := make([]store.ThreadRecord, 0, len(records))
	for _, r := range records {
		key := r.Campaign + "\x00" + r.Name
		if i, ok := index[key]; ok {
			out[i] = r
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out
}
