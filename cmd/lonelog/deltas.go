package main

import (
	"github.com/spf13/cobra"

	"lonelog/internal/delta"
	"lonelog/internal/parser"
)

func deltasCmd() *cobra.Command {
	var accumulate bool
	cmd := &cobra.Command{
		Use:   "deltas <file>...",
		Short: "Print the state changes recorded in session notes as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]delta.Result, 0, len(args))
			for _, path := range args {
				note, err := parser.ParseFile(path)
				if err != nil {
					return err
				}
				results = append(results, delta.Extract(note.Entries))
			}

			if !accumulate {
				if len(results) == 1 {
					return printJSON(cmd.OutOrStdout(), results[0])
				}
				return printJSON(cmd.OutOrStdout(), results)
			}

			var all []delta.EntityDelta
			for _, result := range results {
				all = append(all, result.EntityDeltas...)
			}
			return printJSON(cmd.OutOrStdout(), delta.Accumulate(all))
		},
	}
	cmd.Flags().BoolVar(&accumulate, "accumulate", false, "Merge entity deltas across files into a map keyed by type:name")
	return cmd
}
