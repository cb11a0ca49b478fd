package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetplan/internal/model"
)

var one = decimal.NewFromInt(1)

// Bounds applied to a non-zero max reduction.
var (
	minReductionLimit = decimal.RequireFromString("0.1")
	maxReductionLimit = decimal.RequireFromString("0.9")
)

// Validate checks req and returns a normalized copy: names trimmed, amounts
// rounded to the minor unit, references to unknown categories dropped and
// the necessary set de-duplicated. req itself is never modified.
//
// All violations are reported together; each one wraps ErrInvalidRequest.
func Validate(req model.BudgetRequest, opts Options) (model.BudgetRequest, error) {
	opts = opts.withDefaults()
	var errs []error

	out := model.BudgetRequest{
		Income:       req.Income.Round(opts.Decimals),
		Expenses:     make(map[string]decimal.Decimal, len(req.Expenses)),
		Priority:     make(map[string]int),
		MinAmounts:   make(map[string]decimal.Decimal),
		SavingsRate:  req.SavingsRate,
		SavingsGoals: make(map[string]model.SavingsGoal, len(req.SavingsGoals)),
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
	}
	if out.Currency == "" {
		out.Currency = opts.Currency
	}

	if !out.Income.IsPositive() {
		errs = append(errs, invalid("income", "must be positive, got %s", req.Income))
	}
	if req.SavingsRate.IsNegative() || req.SavingsRate.GreaterThan(one) {
		errs = append(errs, invalid("savings_rate", "must be between 0 and 1, got %s", req.SavingsRate))
	}
	maxPct := req.MaxReductionPct
	if maxPct.IsZero() {
		maxPct = opts.MaxReductionPct
	}
	if maxPct.IsNegative() || maxPct.GreaterThan(one) {
		errs = append(errs, invalid("max_reduction_pct", "must be between 0 and 1, got %s", maxPct))
	} else {
		out.MaxReductionPct = clampReduction(maxPct)
	}

	for _, raw := range sortedKeys(req.Expenses) {
		amount := req.Expenses[raw]
		name := strings.TrimSpace(raw)
		field := fmt.Sprintf("expenses[%q]", raw)
		switch {
		case name == "":
			errs = append(errs, invalid(field, "category name is empty"))
			continue
		case amount.IsNegative():
			errs = append(errs, invalid(field, "amount must be non-negative, got %s", amount))
			continue
		}
		if _, dup := out.Expenses[name]; dup {
			errs = append(errs, invalid(field, "duplicate category %q", name))
			continue
		}
		out.Expenses[name] = amount.Round(opts.Decimals)
	}

	for _, raw := range sortedKeys(req.Priority) {
		name := strings.TrimSpace(raw)
		if _, ok := out.Expenses[name]; !ok {
			continue
		}
		rank := req.Priority[raw]
		if rank < 1 {
			errs = append(errs, invalid(fmt.Sprintf("priority[%q]", raw), "rank must be a positive integer, got %d", rank))
			continue
		}
		if _, dup := out.Priority[name]; dup {
			errs = append(errs, invalid(fmt.Sprintf("priority[%q]", raw), "duplicate category %q", name))
			continue
		}
		out.Priority[name] = rank
	}

	seen := make(map[string]bool, len(req.Necessary))
	for _, raw := range req.Necessary {
		name := strings.TrimSpace(raw)
		if _, ok := out.Expenses[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		out.Necessary = append(out.Necessary, name)
	}
	sort.Strings(out.Necessary)

	for _, raw := range sortedKeys(req.MinAmounts) {
		name := strings.TrimSpace(raw)
		if _, ok := out.Expenses[name]; !ok {
			continue
		}
		floor := req.MinAmounts[raw]
		if floor.IsNegative() {
			errs = append(errs, invalid(fmt.Sprintf("min_amounts[%q]", raw), "floor must be non-negative, got %s", floor))
			continue
		}
		out.MinAmounts[name] = floor.Round(opts.Decimals)
	}

	for _, raw := range sortedKeys(req.SavingsGoals) {
		goal := req.SavingsGoals[raw]
		name := strings.TrimSpace(raw)
		field := fmt.Sprintf("savings_goals[%q]", raw)
		if name == "" {
			errs = append(errs, invalid(field, "goal name is empty"))
			continue
		}
		if goal.Target.IsNegative() || goal.Saved.IsNegative() || goal.MonthlyContribution.IsNegative() {
			errs = append(errs, invalid(field, "target, saved and monthly_contribution must be non-negative"))
			continue
		}
		out.SavingsGoals[name] = model.SavingsGoal{
			Target:              goal.Target.Round(opts.Decimals),
			Saved:               goal.Saved.Round(opts.Decimals),
			MonthlyContribution: goal.MonthlyContribution.Round(opts.Decimals),
		}
	}

	if len(errs) > 0 {
		return model.BudgetRequest{}, errors.Join(errs...)
	}
	return out, nil
}

// clampReduction keeps a non-zero limit within [0.1, 0.9].
func clampReduction(pct decimal.Decimal) decimal.Decimal {
	if pct.IsZero() {
		return pct
	}
	return decimal.Max(minReductionLimit, decimal.Min(maxReductionLimit, pct))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
