package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validBase = "project: test\nversion: 1\ndatabase:\n  dsn: sqlite://:memory:\n"

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-project" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if len(cfg.Campaigns) != 2 {
			t.Fatalf("expected 2 campaigns, got %d", len(cfg.Campaigns))
		}
		if cfg.Logging.Level != "info" {
			t.Fatalf("expected log level info, got %q", cfg.Logging.Level)
		}
	})

	t.Run("missing project name", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\ndatabase:\n  dsn: sqlite://:memory:\ncampaigns:\n  - name: a\n    paths: [./s]\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 2\ndatabase:\n  dsn: sqlite://:memory:\ncampaigns:\n  - name: a\n    paths: [./s]\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing dsn", func(t *testing.T) {
		t.Setenv("LONELOG_DATABASE_DSN", "")
		path := writeTempConfig(t, "project: test\nversion: 1\ncampaigns:\n  - name: a\n    paths: [./s]\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("no campaigns", func(t *testing.T) {
		path := writeTempConfig(t, validBase)
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("campaign missing name", func(t *testing.T) {
		path := writeTempConfig(t, validBase+"campaigns:\n  - paths: [./s]\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("campaign missing paths", func(t *testing.T) {
		path := writeTempConfig(t, validBase+"campaigns:\n  - name: a\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("duplicate campaign names", func(t *testing.T) {
		path := writeTempConfig(t, validBase+"campaigns:\n  - name: solo\n    paths: [./a]\n  - name: Solo\n    paths: [./b]\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "project: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestLoadProjectConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LONELOG_DATABASE_DSN", "postgres://localhost/lonelog")
	t.Setenv("LONELOG_LOG_FORMAT", "json")

	cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Database.DSN != "postgres://localhost/lonelog" {
		t.Fatalf("expected dsn override, got %q", cfg.Database.DSN)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected format override, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected level from file, got %q", cfg.Logging.Level)
	}
}

func TestProjectConfig_Campaign(t *testing.T) {
	cfg := &ProjectConfig{Campaigns: []Campaign{{Name: "Ironsworn", Paths: []string{"./a"}}}}
	if _, ok := cfg.Campaign("ironsworn"); !ok {
		t.Fatalf("expected case-insensitive campaign lookup")
	}
	if _, ok := cfg.Campaign("missing"); ok {
		t.Fatalf("expected missing campaign")
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
