package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetplan/internal/cli"
	"github.com/theirongolddev/budgetplan/internal/engine"
	"github.com/theirongolddev/budgetplan/internal/model"
	"github.com/theirongolddev/budgetplan/internal/request"
)

var (
	flagPlanJSON        bool
	flagPlanSavingsRate string
)

var planCmd = &cobra.Command{
	Use:   "plan FILE...",
	Short: "Optimize one or more budget request files",
	Long: "Reads TOML, YAML or JSON budget requests and prints the optimized " +
		"budget. Several files are planned concurrently.",
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&flagPlanJSON, "json", false, "Print reports as JSON")
	planCmd.Flags().StringVar(&flagPlanSavingsRate, "savings-rate", "", "Override the savings rate (0.15, 15 or 15%)")
	rootCmd.AddCommand(planCmd)
}

// planOutput is one entry of `plan --json` when several files are given.
type planOutput struct {
	File   string              `json:"file"`
	Report *model.BudgetReport `json:"report,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}

	reqs, err := loadRequests(args)
	if err != nil {
		return err
	}

	if flagPlanSavingsRate != "" {
		rate, err := request.ParseRate(flagPlanSavingsRate)
		if err != nil {
			return fmt.Errorf("--savings-rate: %w", err)
		}
		for i := range reqs {
			reqs[i].SavingsRate = rate
		}
	}

	if len(reqs) > 1 {
		progressf("  Planning %d budgets...\n", len(reqs))
	}
	results, err := eng.PlanAll(cmd.Context(), reqs)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if flagPlanJSON {
		if err := printPlanJSON(args, results); err != nil {
			return err
		}
	} else {
		for i, res := range results {
			if res.Err != nil {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", args[i], res.Err)
				continue
			}
			fmt.Println()
			fmt.Print(cli.RenderReport("Budget Plan: "+filepath.Base(args[i]), res.Report))
		}
		fmt.Println()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d budget requests were invalid", failed, len(results))
	}
	return nil
}

func loadRequests(paths []string) ([]model.BudgetRequest, error) {
	reqs := make([]model.BudgetRequest, 0, len(paths))
	for _, path := range paths {
		req, err := request.Load(path)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func printPlanJSON(paths []string, results []engine.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if len(results) == 1 && results[0].Err == nil {
		return enc.Encode(results[0].Report)
	}

	out := make([]planOutput, len(results))
	for i, res := range results {
		out[i].File = paths[i]
		if res.Err != nil {
			out[i].Error = res.Err.Error()
			continue
		}
		report := res.Report
		out[i].Report = &report
	}
	return enc.Encode(out)
}
