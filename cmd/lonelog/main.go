package main

import (
	"os"

	"github.com/spf13/cobra"

	"lonelog/internal/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "lonelog",
		Short:        "Decode Lonelog solo-play session logs into typed entries and state changes",
		SilenceUsage: true,
	}
	root.Version = buildVersion()
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the project config")
	root.AddCommand(parseCmd())
	root.AddCommand(deltasCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
