package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lonelog/internal/store"
)

func querySQLCmd() *cobra.Command {
	var paramPairs []string
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Run a read-only SQL query against the log tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			params, err := parseParamPairs(paramPairs)
			if err != nil {
				return err
			}
			return withDB(func(ctx context.Context, db store.Store) error {
				rows, err := db.RunSQL(ctx, query, params)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rows)
			})
		},
	}
	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, "Positional parameter as N=value, e.g. 1=iron (repeatable)")
	return cmd
}

func parseParamPairs(pairs []string) (map[string]any, error) {
	params := make(map[string]any)
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid param %q: empty key", pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}
