package main

import (
	"github.com/spf13/cobra"

	"lonelog/internal/parser"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the entries of a session note as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := parser.ParseFile(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), note.Entries)
		},
	}
}
