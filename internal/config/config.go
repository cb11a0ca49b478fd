// Package config loads and saves the budgetplan TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all budgetplan configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Engine  EngineConfig  `toml:"engine"`
	Server  ServerConfig  `toml:"server"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency   string `toml:"currency"`
	PeriodDays int    `toml:"period_days"`
}

// EngineConfig tunes category protection and report wording.
type EngineConfig struct {
	ProtectedCategories   []string `toml:"protected_categories"`
	HighPriorityThreshold int      `toml:"high_priority_threshold"`
	DefaultRank           int      `toml:"default_rank"`
	CurrencyDecimals      int32    `toml:"currency_decimals"`
	LargeCutPct           float64  `toml:"large_cut_pct"`
	SavingsTipRate        float64  `toml:"savings_tip_rate"`
	AlternativeSavings    float64  `toml:"alternative_savings_rate"`
	// MaxReductionPct caps any single cut as a fraction of the original
	// amount for requests that set no limit. Zero disables it.
	MaxReductionPct float64 `toml:"max_reduction_pct"`
}

// ServerConfig holds settings for `budgetplan serve`.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency:   "DZD",
			PeriodDays: 30,
		},
		Engine: EngineConfig{
			ProtectedCategories:   []string{"rent", "utilities"},
			HighPriorityThreshold: 2,
			DefaultRank:           10,
			CurrencyDecimals:      2,
			LargeCutPct:           50,
			SavingsTipRate:        0.15,
			AlternativeSavings:    0.10,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgetplan")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetCurrency returns the currency from env var or config, in that order.
func GetCurrency(cfg Config) string {
	if c := strings.TrimSpace(os.Getenv("BUDGETPLAN_CURRENCY")); c != "" {
		return strings.ToUpper(c)
	}
	return strings.ToUpper(cfg.General.Currency)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
