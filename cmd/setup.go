package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetplan/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to budgetplan!")
	fmt.Println()

	// 1. Currency
	fmt.Println("  1. Default currency")
	fmt.Printf("     Current: %s (Enter to keep)\n", cfg.General.Currency)
	fmt.Print("     > ")
	currency, _ := reader.ReadString('\n')
	if currency = strings.TrimSpace(currency); currency != "" {
		cfg.General.Currency = strings.ToUpper(currency)
	}
	fmt.Println()

	// 2. Protected categories
	fmt.Println("  2. Categories that are never cut (comma-separated)")
	fmt.Printf("     Current: %s (Enter to keep)\n", strings.Join(cfg.Engine.ProtectedCategories, ", "))
	fmt.Print("     > ")
	protected, _ := reader.ReadString('\n')
	if protected = strings.TrimSpace(protected); protected != "" {
		var cats []string
		for _, c := range strings.Split(protected, ",") {
			if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
				cats = append(cats, c)
			}
		}
		cfg.Engine.ProtectedCategories = cats
	}
	fmt.Println()

	// 3. High-priority threshold
	fmt.Println("  3. Protect categories ranked")
	fmt.Println("     (1) 1 only")
	fmt.Println("     (2) 1-2 [default]")
	fmt.Println("     (3) 1-3")
	fmt.Println("     (4) none")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "1":
		cfg.Engine.HighPriorityThreshold = 1
	case "3":
		cfg.Engine.HighPriorityThreshold = 3
	case "4":
		cfg.Engine.HighPriorityThreshold = -1
	default:
		cfg.Engine.HighPriorityThreshold = 2
	}
	fmt.Println()

	// 4. Large cut warning
	fmt.Println("  4. Warn when a category is cut by more than (percent)")
	fmt.Printf("     Current: %.0f (Enter to keep)\n", cfg.Engine.LargeCutPct)
	fmt.Print("     > ")
	pct, _ := reader.ReadString('\n')
	if pct = strings.TrimSuffix(strings.TrimSpace(pct), "%"); pct != "" {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil || v <= 0 || v > 100 {
			fmt.Println("     Not a percentage between 0 and 100, keeping current value.")
		} else {
			cfg.Engine.LargeCutPct = v
		}
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `budgetplan setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
