package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lonelog/internal/store"
)

func queryEntitiesCmd() *cobra.Command {
	var campaign string
	var entityType string
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "List pcs and npcs with recorded changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db store.Store) error {
				entities, err := db.ListEntities(ctx, campaign, entityType)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entities) == 0 {
					fmt.Fprintln(out, "No entities found.")
					return nil
				}
				for _, entity := range entities {
					fmt.Fprintf(out, "%s (%s) [%s] %d changes in %d logs\n", entity.Name, entity.EntityType, entity.Campaign, entity.Changes, entity.Logs)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&campaign, "campaign", "", "Campaign to filter")
	cmd.Flags().StringVar(&entityType, "type", "", "Entity type to filter (pc or npc)")
	return cmd
}
