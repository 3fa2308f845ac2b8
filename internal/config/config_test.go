package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Protocol != DefaultProtocol {
		t.Errorf("expected Protocol %s, got %s", DefaultProtocol, cfg.Protocol)
	}
	if cfg.Mode != DefaultMode {
		t.Errorf("expected Mode %s, got %s", DefaultMode, cfg.Mode)
	}
	if !cfg.CreateSuite {
		t.Error("expected CreateSuite to default to true")
	}
	if len(cfg.StatusMap) != len(DefaultStatusMap) {
		t.Errorf("expected %d status mappings, got %d", len(DefaultStatusMap), len(cfg.StatusMap))
	}

	// the copy must not alias the package default
	cfg.StatusMap["SKIP"] = 2
	if _, ok := DefaultStatusMap["SKIP"]; ok {
		t.Error("DefaultStatusMap was modified through a config")
	}
}

func TestLoad_Layers(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "trl.yaml", `
server: yaml.example.com
protocol: https
project_id: 3
user: yaml-user
missing_section: skip
timeout: 30s
status_map:
  SKIP: 4
naming:
  run: "nightly {{ .Suite }}"
`)
	envPath := writeFile(t, dir, ".env", "TESTRAIL_USER=env-user\nTESTRAIL_PW=from-file\n")

	t.Setenv("TESTRAIL_PROJECT_ID", "9")

	cfg, err := Load(Flags{ConfigFile: yamlPath, EnvFile: envPath, Mode: ModeCases})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"server from yaml", cfg.Server, "yaml.example.com"},
		{"protocol from yaml", cfg.Protocol, "https"},
		{"project id from environment", cfg.ProjectID, int64(9)},
		{"user from env file", cfg.User, "env-user"},
		{"password from env file", cfg.Password, "from-file"},
		{"mode from flags", cfg.Mode, ModeCases},
		{"missing section from yaml", cfg.MissingSection, MissingSectionSkip},
		{"timeout from yaml", cfg.Timeout, 30 * time.Second},
		{"status map merged", cfg.StatusMap["SKIP"], 4},
		{"status map keeps defaults", cfg.StatusMap["FAIL"], 5},
		{"run template from yaml", cfg.Naming.Run, "nightly {{ .Suite }}"},
		{"plan template default", cfg.Naming.Plan, DefaultPlanTemplate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit config file must exist", func(t *testing.T) {
		_, err := Load(Flags{ConfigFile: filepath.Join(dir, "missing.yaml")})
		var ce ConfigurationError
		if !errors.As(err, &ce) {
			t.Fatalf("expected ConfigurationError, got %v", err)
		}
		if ce.Field != "config" {
			t.Errorf("expected field config, got %s", ce.Field)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yaml", "server: [unterminated")
		if _, err := Load(Flags{ConfigFile: path}); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})

	t.Run("non numeric project id", func(t *testing.T) {
		t.Setenv("TESTRAIL_PROJECT_ID", "abc")
		_, err := Load(Flags{})
		var ce ConfigurationError
		if !errors.As(err, &ce) || ce.Field != "project_id" {
			t.Errorf("expected project_id ConfigurationError, got %v", err)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := New()
		cfg.Server = "testrail.example.com"
		cfg.ProjectID = 1
		cfg.User = "bot@example.com"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing server", func(c *Config) { c.Server = "" }, "server"},
		{"missing project", func(c *Config) { c.ProjectID = 0 }, "project_id"},
		{"missing user", func(c *Config) { c.User = "" }, "user"},
		{"bad protocol", func(c *Config) { c.Protocol = "ftp" }, "protocol"},
		{"bad mode", func(c *Config) { c.Mode = "both" }, "mode"},
		{"bad policy", func(c *Config) { c.MissingSection = "ignore" }, "missing_section"},
		{"missing run template", func(c *Config) { c.Naming.Run = "" }, "naming"},
		{"cases mode needs no templates", func(c *Config) { c.Mode = ModeCases; c.Naming = Naming{} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var ce ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ce.Field)
			}
		})
	}
}

func TestConfig_GetLogPath(t *testing.T) {
	cfg := New()
	cfg.OutputDir = "/results"

	if got := cfg.GetLogPath(""); got != "/results/tr_listener.log" {
		t.Errorf("expected /results/tr_listener.log, got %s", got)
	}
	if got := cfg.GetLogPath("/robot/out"); got != "/robot/out/tr_listener.log" {
		t.Errorf("expected /robot/out/tr_listener.log, got %s", got)
	}
}
