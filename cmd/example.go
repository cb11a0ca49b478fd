package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetplan/internal/model"
)

var flagExampleOut string

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a sample budget request",
	RunE: func(_ *cobra.Command, _ []string) error {
		return writeRequest(flagExampleOut, sampleRequest())
	},
}

func init() {
	exampleCmd.Flags().StringVarP(&flagExampleOut, "out", "o", "-", "Where to write the request (- for stdout)")
	rootCmd.AddCommand(exampleCmd)
}

// sampleRequest is a household budget 10,000 over what is left after savings.
func sampleRequest() model.BudgetRequest {
	n := decimal.NewFromInt
	return model.BudgetRequest{
		Income:      n(100000),
		SavingsRate: decimal.RequireFromString("0.15"),
		Currency:    "DZD",
		Expenses: map[string]decimal.Decimal{
			"rent":      n(30000),
			"utilities": n(8000),
			"food":      n(25000),
			"health":    n(5000),
			"transport": n(10000),
			"clothing":  n(6000),
			"internet":  n(4000),
			"education": n(7000),
		},
		Priority: map[string]int{
			"food":      1,
			"health":    2,
			"transport": 3,
			"education": 4,
			"internet":  5,
			"clothing":  6,
		},
		Necessary: []string{"health"},
		MinAmounts: map[string]decimal.Decimal{
			"transport": n(5000),
		},
		SavingsGoals: map[string]model.SavingsGoal{
			"vehicle": {Target: n(800000), Saved: n(120000), MonthlyContribution: n(10000)},
			"housing": {Target: n(2000000), Saved: n(350000), MonthlyContribution: n(5000)},
		},
	}
}
