package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lonelog/internal/delta"
	"lonelog/internal/store"
)

var (
	headingColor = color.New(color.Bold)
	lossColor    = color.New(color.FgRed)
	gainColor    = color.New(color.FgGreen)
	statusColor  = color.New(color.FgYellow)
)

func queryStateCmd() *cobra.Command {
	var campaign string
	var entityType string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "state <name>",
		Short: "Accumulate every recorded change of an entity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withDB(func(ctx context.Context, db store.Store) error {
				summaries, err := store.EntityStates(ctx, db, campaign, entityType, name)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), summaries)
				}
				for _, summary := range summaries {
					printSummary(cmd.OutOrStdout(), summary)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&campaign, "campaign", "", "Campaign to evaluate")
	cmd.Flags().StringVar(&entityType, "type", "", "Entity type (pc or npc)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print summaries as JSON")
	return cmd
}

func printSummary(out io.Writer, s delta.Summary) {
	headingColor.Fprintf(out, "%s (%s)\n", s.Entity, s.EntityType)

	hp := fmt.Sprintf("%+d", s.NetHP)
	switch {
	case s.NetHP < 0:
		hp = lossColor.Sprint(hp)
	case s.NetHP > 0:
		hp = gainColor.Sprint(hp)
	}
	fmt.Fprintf(out, "  HP:     %s\n", hp)

	if s.Status != nil {
		fmt.Fprintf(out, "  Status: %s\n", statusColor.Sprint(*s.Status))
	}
	if len(s.ActiveTags) > 0 {
		fmt.Fprintf(out, "  Tags:   %s\n", strings.Join(s.ActiveTags, ", "))
	}
	if len(s.Stats) > 0 {
		stats := make([]string, 0, len(s.Stats))
		for stat := range s.Stats {
			stats = append(stats, stat)
		}
		sort.Strings(stats)
		fmt.Fprintln(out, "  Stats:")
		for _, stat := range stats {
			fmt.Fprintf(out, "    %s: %+d\n", stat, s.Stats[stat])
		}
	}
	fmt.Fprintf(out, "  Changes: %d\n\n", s.Changes)
}
