package main

import (
	"context"

	"github.com/spf13/cobra"

	"lonelog/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, logger, err := loadProject()
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	logger.WithField("project", cfg.Project).Info("serving MCP over stdio")
	server := mcp.NewServer(db, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
