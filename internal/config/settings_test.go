package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddress() != "127.0.0.1:8460" {
		t.Fatalf("unexpected server address: %q", cfg.ServerAddress())
	}
	if cfg.ServerBaseURL() != "http://127.0.0.1:8460" {
		t.Fatalf("unexpected base url: %q", cfg.ServerBaseURL())
	}
	if cfg.LogLevel() != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel())
	}
	if cfg.ExportFormat() != "md" {
		t.Fatalf("unexpected export format: %q", cfg.ExportFormat())
	}
}

func TestLoadFromTOML(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", home)

	dataDir := filepath.Join(home, ".aurelia")
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := []byte("[server]\naddress = \"https://aurelia.local:9443/\"\n\n[export]\nformat = \"JSON\"\n")
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddress() != "aurelia.local:9443" {
		t.Fatalf("unexpected server address: %q", cfg.ServerAddress())
	}
	if cfg.ExportFormat() != "json" {
		t.Fatalf("unexpected export format: %q", cfg.ExportFormat())
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))

	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("loadFromPath: %v", err)
	}
	if cfg.ServerAddress() != "127.0.0.1:8460" {
		t.Fatalf("unexpected server address: %q", cfg.ServerAddress())
	}
}
