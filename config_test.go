package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Port != 9100 || cfg.DBPath != "cabops.db" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 8200\ndb_path: /tmp/shop.db\ncompany_name: Ridgeline Cabinets\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != 8200 {
		t.Errorf("port = %d, want 8200", cfg.Port)
	}
	if cfg.DBPath != "/tmp/shop.db" {
		t.Errorf("db_path = %q", cfg.DBPath)
	}
	if cfg.CompanyName != "Ridgeline Cabinets" {
		t.Errorf("company_name = %q", cfg.CompanyName)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("company_name: Partial Shop\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	// Unset fields fall back to defaults.
	if cfg.Port != 9100 || cfg.DBPath != "cabops.db" {
		t.Errorf("defaults not backfilled: %+v", cfg)
	}
	if cfg.CompanyName != "Partial Shop" {
		t.Errorf("company_name = %q", cfg.CompanyName)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Error("invalid YAML should error")
	}
}
