package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.SheetName != "dataset" {
		t.Errorf("expected default sheet 'dataset', got %q", cfg.SheetName)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".wellpull.yml")
	content := "port: 9000\nsheet_name: semana\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.SheetName != "semana" {
		t.Errorf("expected sheet 'semana', got %q", cfg.SheetName)
	}
	// Untouched fields keep defaults.
	if cfg.UploadDir != "uploads" {
		t.Errorf("expected default upload_dir, got %q", cfg.UploadDir)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("WELLPULL_PORT", "7777")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7777 {
		t.Errorf("expected env override port 7777, got %d", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Port = 70000 }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"empty sheet", func(c *Config) { c.SheetName = "" }, true},
		{"negative concurrency", func(c *Config) { c.MaxConcurrency = -1 }, true},
		{"bad webhook", func(c *Config) { c.WebhookURL = "ftp://x" }, true},
		{"good webhook", func(c *Config) { c.WebhookURL = "https://hooks.example.com/x" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".wellpull.yml")
	cfg := DefaultConfig()
	cfg.Port = 8181
	cfg.WebhookURL = "https://hooks.example.com/import"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 8181 {
		t.Errorf("expected port 8181, got %d", loaded.Port)
	}
	if loaded.WebhookURL != cfg.WebhookURL {
		t.Errorf("expected webhook %q, got %q", cfg.WebhookURL, loaded.WebhookURL)
	}
}
