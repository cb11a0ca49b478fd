// Package model defines the budget request and report types shared across
// the engine, the CLI and the HTTP service.
package model

import "github.com/shopspring/decimal"

// BudgetRequest is the input to a single planning run.
type BudgetRequest struct {
	Income       decimal.Decimal            `json:"income"`
	Expenses     map[string]decimal.Decimal `json:"expenses"`
	Priority     map[string]int             `json:"priority,omitempty"`
	Necessary    []string                   `json:"necessary,omitempty"`
	MinAmounts   map[string]decimal.Decimal `json:"min_amounts,omitempty"`
	SavingsRate  decimal.Decimal            `json:"savings_rate"`
	SavingsGoals map[string]SavingsGoal     `json:"savings_goals,omitempty"`
	Currency     string                     `json:"currency,omitempty"`
	// MaxReductionPct limits any single cut to this fraction of the
	// category's original amount. Zero means no limit beyond the floor.
	MaxReductionPct decimal.Decimal `json:"max_reduction_pct,omitempty"`
}

// SavingsGoal is carried through to the report and never optimized.
type SavingsGoal struct {
	Target              decimal.Decimal `json:"target"`
	Saved               decimal.Decimal `json:"saved"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
}

// ProtectionKind records why a category was left untouched.
type ProtectionKind string

const (
	ProtectedBuiltin      ProtectionKind = "builtin"
	ProtectedNecessary    ProtectionKind = "necessary"
	ProtectedHighPriority ProtectionKind = "high_priority"
	UntouchedWithinBudget ProtectionKind = "within_budget"
	UntouchedAtMinimum    ProtectionKind = "at_minimum"
	UntouchedNoSpending   ProtectionKind = "no_spending"
)

// Protected reports whether the kind shields a category from any reduction.
func (k ProtectionKind) Protected() bool {
	switch k {
	case ProtectedBuiltin, ProtectedNecessary, ProtectedHighPriority:
		return true
	}
	return false
}

// Adjustment is a reduction applied to one reducible category.
type Adjustment struct {
	Category     string          `json:"category"`
	Original     decimal.Decimal `json:"original"`
	Optimized    decimal.Decimal `json:"optimized"`
	ReductionPct decimal.Decimal `json:"reduction_pct"`
	Reason       string          `json:"reason"`
}

// Saved returns the absolute amount removed from the category.
func (a Adjustment) Saved() decimal.Decimal {
	return a.Original.Sub(a.Optimized)
}

// UntouchedCategory is a category whose amount was left as requested.
type UntouchedCategory struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
	Kind     ProtectionKind  `json:"kind"`
}

// GoalProgress is a savings goal with its computed progress.
type GoalProgress struct {
	Name                string          `json:"name"`
	Target              decimal.Decimal `json:"target"`
	Saved               decimal.Decimal `json:"saved"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	ProgressPct         decimal.Decimal `json:"progress_pct"`
	MonthsToTarget      int             `json:"months_to_target"` // -1 when no contribution is planned
}

// BudgetReport is the immutable result of a planning run.
type BudgetReport struct {
	Currency    string          `json:"currency"`
	Income      decimal.Decimal `json:"income"`
	SavingsRate decimal.Decimal `json:"savings_rate"`

	OriginalTotal    decimal.Decimal `json:"original_total"`
	OptimizedTotal   decimal.Decimal `json:"optimized_total"`
	TotalReduction   decimal.Decimal `json:"total_reduction"`
	EssentialSavings decimal.Decimal `json:"essential_savings"`
	Available        decimal.Decimal `json:"available"`
	Deficit          decimal.Decimal `json:"deficit"`
	Shortfall        decimal.Decimal `json:"shortfall"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	DailyBurnRate    decimal.Decimal `json:"daily_burn_rate"`

	Adjustments         []Adjustment        `json:"adjustments"`
	UntouchedCategories []UntouchedCategory `json:"untouched_categories"`
	Notes               []string            `json:"notes"`
	SavingsGoals        []GoalProgress      `json:"savings_goals"`
}

// Balanced reports whether the plan fits within income after savings.
func (r BudgetReport) Balanced() bool {
	return r.Shortfall.IsZero() && !r.RemainingBalance.IsNegative()
}

// Optimized returns the optimized amount for a category, and whether the
// category is present in the report.
func (r BudgetReport) Optimized(category string) (decimal.Decimal, bool) {
	for _, a := range r.Adjustments {
		if a.Category == category {
			return a.Optimized, true
		}
	}
	for _, u := range r.UntouchedCategories {
		if u.Category == category {
			return u.Amount, true
		}
	}
	return decimal.Zero, false
}

// OptimizedExpenses returns every category mapped to its optimized amount.
func (r BudgetReport) OptimizedExpenses() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.Adjustments)+len(r.UntouchedCategories))
	for _, a := range r.Adjustments {
		out[a.Category] = a.Optimized
	}
	for _, u := range r.UntouchedCategories {
		out[u.Category] = u.Amount
	}
	return out
}
