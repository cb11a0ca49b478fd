package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Fatal("Exists() = true with no config file")
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	cfg.General.Currency = "EUR"
	cfg.Engine.ProtectedCategories = []string{"rent", "childcare"}
	cfg.Engine.HighPriorityThreshold = 3
	cfg.Engine.CurrencyDecimals = 0
	cfg.Engine.MaxReductionPct = 0.8
	cfg.Server.Addr = "127.0.0.1:9999"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := Path(); got != filepath.Join(dir, "budgetplan", "config.toml") {
		t.Fatalf("Path() = %q", got)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[general]\ncurrency = \"usd\"\n\n[engine]\ndefault_rank = 20\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Engine.DefaultRank != 20 {
		t.Errorf("DefaultRank = %d, want 20", cfg.Engine.DefaultRank)
	}
	if cfg.General.PeriodDays != 30 {
		t.Errorf("PeriodDays = %d, want default 30", cfg.General.PeriodDays)
	}
	if cfg.Engine.HighPriorityThreshold != 2 {
		t.Errorf("HighPriorityThreshold = %d, want default 2", cfg.Engine.HighPriorityThreshold)
	}

	t.Setenv("BUDGETPLAN_CURRENCY", "")
	if got := GetCurrency(cfg); got != "USD" {
		t.Errorf("GetCurrency = %q, want USD", got)
	}
	t.Setenv("BUDGETPLAN_CURRENCY", "gbp")
	if got := GetCurrency(cfg); got != "GBP" {
		t.Errorf("GetCurrency with env = %q, want GBP", got)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile returned nil error for malformed TOML")
	}
}
