package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Source != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigReadsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[practice]
source = "words"
words = 12
focus = "JKL"
focus-factor = 3.5
watch = false

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Source == nil || *cfg.Practice.Source != "words" {
		t.Fatalf("unexpected source: %v", cfg.Practice.Source)
	}
	if cfg.Practice.Words == nil || *cfg.Practice.Words != 12 {
		t.Fatalf("unexpected words: %v", cfg.Practice.Words)
	}
	if cfg.Practice.Focus == nil || *cfg.Practice.Focus != "JKL" {
		t.Fatalf("unexpected focus: %v", cfg.Practice.Focus)
	}
	if cfg.Practice.FocusFactor == nil || *cfg.Practice.FocusFactor != 3.5 {
		t.Fatalf("unexpected focus factor: %v", cfg.Practice.FocusFactor)
	}
	if cfg.Practice.Watch == nil || *cfg.Practice.Watch {
		t.Fatalf("unexpected watch: %v", cfg.Practice.Watch)
	}
	if cfg.Practice.File != nil {
		t.Fatalf("expected unset file, got %q", *cfg.Practice.File)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "keyflow", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "keyflow", "keyflow.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/data", "keyflow", "keyflow.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}
