package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetplan/internal/engine"
	"github.com/theirongolddev/budgetplan/internal/model"
	"github.com/theirongolddev/budgetplan/internal/request"
)

var (
	flagNewOut   string
	flagNewForce bool
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Build a budget request interactively",
	RunE:  runNew,
}

func init() {
	newCmd.Flags().StringVarP(&flagNewOut, "out", "o", "budget.toml", "Where to write the request (- for stdout)")
	newCmd.Flags().BoolVar(&flagNewForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(newCmd)
}

func runNew(_ *cobra.Command, _ []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	opts := eng.Options()

	if flagNewOut != "-" && !flagNewForce {
		if _, err := os.Stat(flagNewOut); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", flagNewOut)
		}
	}

	var (
		incomeIn   string
		rateIn     = "15%"
		currencyIn = opts.Currency
		expensesIn string
	)

	basics := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly income").
				Value(&incomeIn).
				Validate(validatePositive),
			huh.NewInput().
				Title("Savings rate").
				Description("Share of income set aside before spending, e.g. 15%").
				Value(&rateIn).
				Validate(func(s string) error {
					_, err := request.ParseRate(s)
					return err
				}),
			huh.NewInput().
				Title("Currency").
				Value(&currencyIn),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Expenses").
				Description("One per line: name = amount").
				Lines(8).
				Value(&expensesIn).
				Validate(func(s string) error {
					exp, err := request.ParseExpenseLines(s)
					if err == nil && len(exp) == 0 {
						err = errors.New("enter at least one expense")
					}
					return err
				}),
		),
	)
	if err := basics.Run(); err != nil {
		return formError(err)
	}

	income, _ := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(incomeIn), ",", ""))
	rate, _ := request.ParseRate(rateIn)
	expenses, _ := request.ParseExpenseLines(expensesIn)

	names := make([]string, 0, len(expenses))
	for name := range expenses {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		necessary []string
		rankingIn string
	)
	details := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which expenses can never be cut?").
				Description(fmt.Sprintf("%s are always protected", strings.Join(opts.BuiltinProtected, " and "))).
				Options(huh.NewOptions(names...)...).
				Value(&necessary),
			huh.NewInput().
				Title("Priority order").
				Description("Comma-separated, most important first. Unlisted expenses are cut first.").
				Value(&rankingIn).
				Validate(func(s string) error {
					_, err := request.ParseRanking(s, expenses)
					return err
				}),
		),
	)
	if err := details.Run(); err != nil {
		return formError(err)
	}
	priority, _ := request.ParseRanking(rankingIn, expenses)

	req := model.BudgetRequest{
		Income:      income,
		SavingsRate: rate,
		Currency:    strings.ToUpper(strings.TrimSpace(currencyIn)),
		Expenses:    expenses,
		Priority:    priority,
		Necessary:   necessary,
	}
	if len(req.Priority) == 0 {
		req.Priority = nil
	}

	// Catch anything the form checks missed before writing the file.
	if _, err := engine.Validate(req, opts); err != nil {
		return err
	}

	return writeRequest(flagNewOut, req)
}

func writeRequest(path string, req model.BudgetRequest) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("creating request file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := request.Encode(w, req); err != nil {
		return fmt.Errorf("writing request: %w", err)
	}
	if path != "-" {
		progressf("  Saved to %s\n  Run `budgetplan plan %s` to optimize it.\n", path, path)
	}
	return nil
}

func validatePositive(s string) error {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return errors.New("enter a number")
	}
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errors.New("aborted")
	}
	return err
}
