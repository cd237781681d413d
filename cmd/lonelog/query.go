package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query ingested session logs from the CLI",
	}
	cmd.AddCommand(queryLogsCmd())
	cmd.AddCommand(queryEntitiesCmd())
	cmd.AddCommand(queryStateCmd())
	cmd.AddCommand(queryProgressCmd())
	cmd.AddCommand(queryThreadsCmd())
	cmd.AddCommand(querySQLCmd())
	return cmd
}
