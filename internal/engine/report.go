package engine

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetplan/internal/model"
)

var hundred = decimal.NewFromInt(100)

// untouchedOrder lists the report order of untouched groups.
var untouchedOrder = map[model.ProtectionKind]int{
	model.ProtectedBuiltin:      0,
	model.ProtectedNecessary:    1,
	model.ProtectedHighPriority: 2,
	model.UntouchedAtMinimum:    3,
	model.UntouchedWithinBudget: 4,
	model.UntouchedNoSpending:   5,
}

// BuildReport turns the allocation into the final report.
func BuildReport(req model.BudgetRequest, cls Classification, alloc Allocation, essential decimal.Decimal, opts Options) model.BudgetReport {
	opts = opts.withDefaults()

	report := model.BudgetReport{
		Currency:            req.Currency,
		Income:              req.Income,
		SavingsRate:         req.SavingsRate,
		OriginalTotal:       decimal.Zero,
		OptimizedTotal:      decimal.Zero,
		EssentialSavings:    essential,
		Available:           alloc.Available,
		Deficit:             alloc.Deficit,
		Shortfall:           alloc.Shortfall,
		Adjustments:         []model.Adjustment{},
		UntouchedCategories: []model.UntouchedCategory{},
		Notes:               []string{},
		SavingsGoals:        []model.GoalProgress{},
	}
	if report.Currency == "" {
		report.Currency = opts.Currency
	}

	for _, name := range sortedKeys(req.Expenses) {
		original := req.Expenses[name]
		optimized, ok := alloc.Optimized[name]
		if !ok {
			optimized = original
		}
		report.OriginalTotal = report.OriginalTotal.Add(original)
		report.OptimizedTotal = report.OptimizedTotal.Add(optimized)

		if optimized.LessThan(original) {
			report.Adjustments = append(report.Adjustments, adjustment(name, original, optimized, report.Currency, opts))
			continue
		}

		kind, ok := cls.Kind(name)
		if !ok {
			kind = model.UntouchedWithinBudget
		}
		report.UntouchedCategories = append(report.UntouchedCategories, model.UntouchedCategory{
			Category: name,
			Amount:   original,
			Reason:   untouchedReason(kind, opts),
			Kind:     kind,
		})
	}

	sort.SliceStable(report.Adjustments, func(i, j int) bool {
		a, b := report.Adjustments[i], report.Adjustments[j]
		if c := a.Saved().Cmp(b.Saved()); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
	sort.SliceStable(report.UntouchedCategories, func(i, j int) bool {
		a, b := report.UntouchedCategories[i], report.UntouchedCategories[j]
		if untouchedOrder[a.Kind] != untouchedOrder[b.Kind] {
			return untouchedOrder[a.Kind] < untouchedOrder[b.Kind]
		}
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})

	report.TotalReduction = report.OriginalTotal.Sub(report.OptimizedTotal)
	report.RemainingBalance = req.Income.Sub(essential).Sub(report.OptimizedTotal)
	report.DailyBurnRate = report.OptimizedTotal.Add(essential).
		Div(decimal.NewFromInt(int64(opts.PeriodDays))).Round(opts.Decimals)

	for _, name := range sortedKeys(req.SavingsGoals) {
		report.SavingsGoals = append(report.SavingsGoals, goalProgress(name, req.SavingsGoals[name]))
	}

	report.Notes = buildNotes(report, opts)
	return report
}

func adjustment(name string, original, optimized decimal.Decimal, currency string, opts Options) model.Adjustment {
	saved := original.Sub(optimized)
	pct := decimal.Zero
	if original.IsPositive() {
		pct = saved.Div(original).Mul(hundred).Round(1)
	}

	reason := "Balanced reduction"
	if pct.GreaterThanOrEqual(opts.LargeCutPct) {
		reason = fmt.Sprintf("Large cut (saved %s)", model.FormatMoney(saved, currency))
	}

	return model.Adjustment{
		Category:     name,
		Original:     original,
		Optimized:    optimized,
		ReductionPct: pct,
		Reason:       reason,
	}
}

func untouchedReason(kind model.ProtectionKind, opts Options) string {
	switch kind {
	case model.ProtectedBuiltin:
		return "Protected as non-negotiable"
	case model.ProtectedNecessary:
		return "Marked necessary"
	case model.ProtectedHighPriority:
		return fmt.Sprintf("High priority (1-%d)", opts.HighPriorityThreshold)
	case model.UntouchedAtMinimum:
		return "Already at minimum spending"
	case model.UntouchedNoSpending:
		return "No spending recorded"
	default:
		return "Within budget"
	}
}

func goalProgress(name string, g model.SavingsGoal) model.GoalProgress {
	gp := model.GoalProgress{
		Name:                name,
		Target:              g.Target,
		Saved:               g.Saved,
		MonthlyContribution: g.MonthlyContribution,
		ProgressPct:         decimal.Zero,
	}
	if g.Target.IsPositive() {
		gp.ProgressPct = g.Saved.Div(g.Target).Mul(hundred).Round(1)
	}

	left := g.Target.Sub(g.Saved)
	switch {
	case !left.IsPositive():
		gp.MonthsToTarget = 0
	case g.MonthlyContribution.IsPositive():
		gp.MonthsToTarget = int(left.Div(g.MonthlyContribution).Ceil().IntPart())
	default:
		gp.MonthsToTarget = -1
	}
	return gp
}

func buildNotes(r model.BudgetReport, opts Options) []string {
	notes := []string{}

	for _, adj := range r.Adjustments {
		if adj.ReductionPct.GreaterThanOrEqual(opts.LargeCutPct) {
			notes = append(notes, fmt.Sprintf("Warning: %s was cut by %s%%. Verify if this is sustainable.",
				titleCase(adj.Category), adj.ReductionPct.StringFixed(1)))
		}
	}

	underPressure := len(r.Adjustments) > 0 || r.Shortfall.IsPositive()
	if underPressure && r.SavingsRate.GreaterThanOrEqual(opts.SavingsTipRate) &&
		opts.AlternativeSavingsRate.LessThan(r.SavingsRate) {
		alt := r.Income.Mul(opts.AlternativeSavingsRate).Round(opts.Decimals)
		notes = append(notes, fmt.Sprintf("To reduce cuts, you could decrease savings to %s%% (%s).",
			opts.AlternativeSavingsRate.Mul(hundred).String(), model.FormatMoney(alt, r.Currency)))
	}

	for _, g := range r.SavingsGoals {
		notes = append(notes, goalNote(g, r.Currency))
	}

	if note := projectionNote(r, opts); note != "" {
		notes = append(notes, note)
	}

	if r.Balanced() {
		notes = append(notes, "You're on track! Your budget is successfully balanced.")
	} else {
		gap := r.RemainingBalance.Neg()
		if r.Shortfall.GreaterThan(gap) {
			gap = r.Shortfall
		}
		notes = append(notes, fmt.Sprintf("Shortfall: still over budget by %s after all possible cuts. Consider increasing income or reducing fixed costs.",
			model.FormatMoney(gap, r.Currency)))
	}
	return notes
}

// projectionNote tells how long income lasts when spending still exceeds
// it, or how much is left over otherwise. An exactly spent budget gets none.
func projectionNote(r model.BudgetReport, opts Options) string {
	switch {
	case r.RemainingBalance.IsNegative() && r.OptimizedTotal.IsPositive():
		days := r.Income.Div(r.OptimizedTotal).Mul(decimal.NewFromInt(int64(opts.PeriodDays))).Round(0)
		return fmt.Sprintf("At this rate, you will run out of money in approximately %s days.", days)
	case r.RemainingBalance.IsPositive():
		return fmt.Sprintf("Excellent! You have a surplus of %s after all expenses and savings.",
			model.FormatMoney(r.RemainingBalance, r.Currency))
	}
	return ""
}

func goalNote(g model.GoalProgress, currency string) string {
	label := titleCase(g.Name)
	switch {
	case g.MonthsToTarget == 0:
		return fmt.Sprintf("%s goal reached (%s%% of %s).", label, g.ProgressPct.StringFixed(1), model.FormatMoney(g.Target, currency))
	case g.MonthsToTarget < 0:
		return fmt.Sprintf("%s goal: %s%% funded, no monthly contribution planned.", label, g.ProgressPct.StringFixed(1))
	default:
		return fmt.Sprintf("%s goal: %s%% funded, about %d months to go at %s/month.",
			label, g.ProgressPct.StringFixed(1), g.MonthsToTarget, model.FormatMoney(g.MonthlyContribution, currency))
	}
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
