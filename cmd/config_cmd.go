package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetplan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := config.Path()
	if flagConfigFile != "" {
		path = flagConfigFile
	}
	fmt.Printf("  Config file: %s\n", path)
	if flagConfigFile != "" || config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Currency:    %s\n", config.GetCurrency(cfg))
	fmt.Printf("    Period days: %d\n", cfg.General.PeriodDays)
	fmt.Println()

	fmt.Println("  [Engine]")
	fmt.Printf("    Protected categories:    %s\n", strings.Join(cfg.Engine.ProtectedCategories, ", "))
	if cfg.Engine.HighPriorityThreshold < 0 {
		fmt.Println("    High priority threshold: off")
	} else {
		fmt.Printf("    High priority threshold: ranks 1-%d\n", cfg.Engine.HighPriorityThreshold)
	}
	fmt.Printf("    Default rank:            %d\n", cfg.Engine.DefaultRank)
	fmt.Printf("    Currency decimals:       %d\n", cfg.Engine.CurrencyDecimals)
	fmt.Printf("    Large cut warning:       %.0f%%\n", cfg.Engine.LargeCutPct)
	fmt.Printf("    Savings tip:             at %.0f%%, suggest %.0f%%\n",
		cfg.Engine.SavingsTipRate*100, cfg.Engine.AlternativeSavings*100)
	if cfg.Engine.MaxReductionPct > 0 {
		fmt.Printf("    Max reduction:           %.0f%%\n", cfg.Engine.MaxReductionPct*100)
	} else {
		fmt.Println("    Max reduction:           off")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `budgetplan setup` to reconfigure.")
	return nil
}
