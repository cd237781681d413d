package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "lonelog.yaml"

type ProjectConfig struct {
	Project   string         `yaml:"project"`
	Version   int            `yaml:"version"`
	Database  DatabaseConfig `yaml:"database"`
	Logging   LoggingConfig  `yaml:"logging"`
	Campaigns []Campaign     `yaml:"campaigns"`
	Exclude   []string       `yaml:"exclude"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"LONELOG_DATABASE_DSN"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LONELOG_LOG_LEVEL"`
	Format string `yaml:"format" env:"LONELOG_LOG_FORMAT"`
}

type Campaign struct {
	Name  string   `yaml:"name"`
	Paths []string `yaml:"paths"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides database and logging settings from LONELOG_*
// environment variables. Unset variables leave the file values alone.
func ApplyEnv(cfg *ProjectConfig) error {
	if err := env.Parse(&cfg.Database); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := env.Parse(&cfg.Logging); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *ProjectConfig) Campaign(name string) (Campaign, bool) {
	for _, campaign := range c.Campaigns {
		if strings.EqualFold(campaign.Name, name) {
			return campaign, true
		}
	}
	return Campaign{}, false
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if len(cfg.Campaigns) == 0 {
		return fmt.Errorf("at least one campaign is required")
	}

	seen := make(map[string]struct{})
	for i, campaign := range cfg.Campaigns {
		if strings.TrimSpace(campaign.Name) == "" {
			return fmt.Errorf("campaign %d name is required", i)
		}
		if len(campaign.Paths) == 0 {
			return fmt.Errorf("campaign %d paths are required", i)
		}
		key := strings.ToLower(campaign.Name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate campaign name: %s", campaign.Name)
		}
		seen[key] = struct{}{}
	}

	return nil
}
