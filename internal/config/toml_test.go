package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.RomanCount != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigPractice(t *testing.T) {
	path := writeConfig(t, `
[practice]
dicts = ["basic", "verbs"]
roman-count = 120
lap-length = 40
ideal-count = true
focus-weak = true

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	p := cfg.Practice
	if len(p.Dicts) != 2 || p.Dicts[1] != "verbs" {
		t.Fatalf("unexpected dicts: %v", p.Dicts)
	}
	if p.RomanCount == nil || *p.RomanCount != 120 {
		t.Fatalf("unexpected roman-count: %v", p.RomanCount)
	}
	if p.LapLength == nil || *p.LapLength != 40 {
		t.Fatalf("unexpected lap-length: %v", p.LapLength)
	}
	if p.IdealCount == nil || !*p.IdealCount || p.FocusWeak == nil || !*p.FocusWeak {
		t.Fatalf("unexpected toggles: %+v", p)
	}
	if p.WeakTop != nil {
		t.Fatalf("expected unset weak-top")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[practice]\nwords = 10\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultDictDir(); got != filepath.Join("/cfg", "kanatype", "dicts") {
		t.Fatalf("unexpected dict dir: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "kanatype", "kanatype.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "kanatype", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
}
