package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const configTemplate = `project: %s
version: 1

database:
  dsn: %s

logging:
  level: warn
  format: text

campaigns:
  - name: %s
    paths:
      - ./sessions/

exclude:
  - ./sessions/drafts/
`

func initCmd() *cobra.Command {
	var projectName string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new lonelog project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(configPath, projectName, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name, also used for the first campaign")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://./lonelog.db", "Database DSN (sqlite:// or postgres://)")
	return cmd
}

func runInit(path, projectName, dsn string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	contents := fmt.Sprintf(configTemplate, projectName, dsn, projectName)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.MkdirAll("sessions", 0o755); err != nil {
		return fmt.Errorf("creating sessions directory: %w", err)
	}

	return nil
}
