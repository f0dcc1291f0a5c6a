package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/askhub/askhub/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, "askhub.yaml", "server:\n  port: 9000\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Backend.Mode != "builtin" {
		t.Errorf("backend mode = %q, want builtin default", cfg.Backend.Mode)
	}
	if cfg.Routes.LoginPath != "/auth/login" || cfg.Routes.ForbiddenPath != "/403" {
		t.Errorf("redirect surfaces = %q/%q, want defaults", cfg.Routes.LoginPath, cfg.Routes.ForbiddenPath)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want info default", cfg.Logging.Level)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"remote without base url", "backend:\n  mode: remote\n"},
		{"unknown backend mode", "backend:\n  mode: grpc\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"bad port", "server:\n  port: 99999\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "askhub.yaml", tt.content)
			if _, err := config.Load(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(config.EnvServerPort, "7777")
	t.Setenv(config.EnvBackendMode, "remote")
	t.Setenv(config.EnvBackendURL, "http://backend:8000")

	path := writeFile(t, "askhub.yaml", "server:\n  port: 9000\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want env override 7777", cfg.Server.Port)
	}
	if cfg.Backend.Mode != "remote" || cfg.Backend.BaseURL != "http://backend:8000" {
		t.Errorf("backend = %+v, want env override", cfg.Backend)
	}
}
