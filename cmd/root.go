// Package cmd implements the budgetplan CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetplan/internal/config"
	"github.com/theirongolddev/budgetplan/internal/engine"
)

var (
	flagConfigFile string
	flagCurrency   string
	flagQuiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "budgetplan",
	Short: "Monthly budget optimizer",
	Long: "Fit monthly expenses within income after savings by cutting " +
		"low-priority categories while protecting essentials.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func init() {
	// Amounts go out as JSON numbers, matching what request files accept.
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "Default currency code for requests that name none")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig reads --config when given, else the XDG config file.
func loadConfig() (config.Config, error) {
	if flagConfigFile != "" {
		return config.LoadFile(flagConfigFile)
	}
	return config.Load()
}

// engineOptions maps the config file onto engine settings.
func engineOptions(cfg config.Config) engine.Options {
	opts := engine.Options{
		BuiltinProtected:       cfg.Engine.ProtectedCategories,
		HighPriorityThreshold:  cfg.Engine.HighPriorityThreshold,
		DefaultRank:            cfg.Engine.DefaultRank,
		Decimals:               cfg.Engine.CurrencyDecimals,
		Currency:               config.GetCurrency(cfg),
		PeriodDays:             cfg.General.PeriodDays,
		LargeCutPct:            decimal.NewFromFloat(cfg.Engine.LargeCutPct),
		SavingsTipRate:         decimal.NewFromFloat(cfg.Engine.SavingsTipRate),
		AlternativeSavingsRate: decimal.NewFromFloat(cfg.Engine.AlternativeSavings),
		MaxReductionPct:        decimal.NewFromFloat(cfg.Engine.MaxReductionPct),
	}
	if c := strings.TrimSpace(flagCurrency); c != "" {
		opts.Currency = c
	}
	return opts
}

// newEngine builds an engine from the loaded config and global flags.
func newEngine() (*engine.Engine, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	return engine.New(engineOptions(cfg)), cfg, nil
}

// progressf writes a progress line to stderr unless --quiet is set.
func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
