package ledger

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.EventsDir != "." {
			t.Errorf("EventsDir = %v, want .", cfg.EventsDir)
		}
		if !reflect.DeepEqual(cfg.Extensions, DefaultExtensions) {
			t.Errorf("Extensions = %v, want %v", cfg.Extensions, DefaultExtensions)
		}
		if cfg.Report.Format != "text" {
			t.Errorf("Report.Format = %v, want text", cfg.Report.Format)
		}
	})

	t.Run("reads yaml and normalizes extensions", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "photoledger.yaml")
		os.WriteFile(configPath, []byte(`
events_dir: /srv/events
extensions: [JPG, ".Heic", " "]
report:
  format: csv
`), 0o644)

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.EventsDir != "/srv/events" {
			t.Errorf("EventsDir = %v, want /srv/events", cfg.EventsDir)
		}
		if !reflect.DeepEqual(cfg.Extensions, []string{".jpg", ".heic"}) {
			t.Errorf("Extensions = %v", cfg.Extensions)
		}
		if cfg.Report.Format != "csv" {
			t.Errorf("Report.Format = %v, want csv", cfg.Report.Format)
		}
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("PHOTOLEDGER_EVENTS_DIR", "/tmp/other")
		t.Setenv("PHOTOLEDGER_EXTENSIONS", ".png,.webp")
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.EventsDir != "/tmp/other" {
			t.Errorf("EventsDir = %v, want /tmp/other", cfg.EventsDir)
		}
		if !reflect.DeepEqual(cfg.Extensions, []string{".png", ".webp"}) {
			t.Errorf("Extensions = %v", cfg.Extensions)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Expected error for missing config file")
		}
	})

	t.Run("unknown report format is an error", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		os.WriteFile(configPath, []byte("report:\n  format: pdf\n"), 0o644)
		if _, err := LoadConfig(configPath); err == nil {
			t.Error("Expected error for unknown format")
		}
	})

	t.Run("empty extension list is an error", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		os.WriteFile(configPath, []byte("extensions: []\n"), 0o644)
		if _, err := LoadConfig(configPath); err == nil {
			t.Error("Expected error for empty extensions")
		}
	})
}
