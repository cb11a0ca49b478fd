// Package engine implements the budget optimization engine: it validates a
// request, classifies categories, spreads any deficit over reducible
// categories and assembles the report.
//
// The engine performs no I/O and keeps no state between calls. An *Engine
// only holds immutable options, so one value may serve many goroutines.
package engine

import (
	"context"
	"runtime"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/budgetplan/internal/model"
)

// Options tunes classification, rounding and note wording.
type Options struct {
	// BuiltinProtected categories are never reduced. Matched case-insensitively.
	BuiltinProtected []string
	// HighPriorityThreshold protects every category ranked 1..N. Zero means
	// the default; a negative value turns rank protection off.
	HighPriorityThreshold int
	// DefaultRank applies to categories without an explicit rank. It is
	// raised past the highest explicit rank so unranked categories always
	// come last.
	DefaultRank int
	// Decimals is the currency minor unit: 2 for cents, 0 for whole units.
	// Negative values fall back to the default.
	Decimals int32
	Currency string
	// PeriodDays divides the optimized total into a daily burn rate.
	PeriodDays int
	// LargeCutPct marks an adjustment as a large cut and triggers a warning.
	LargeCutPct decimal.Decimal
	// SavingsTipRate is the savings rate at or above which the report
	// suggests dropping to AlternativeSavingsRate.
	SavingsTipRate         decimal.Decimal
	AlternativeSavingsRate decimal.Decimal
	// MaxReductionPct applies to requests that do not set their own limit.
	// Zero leaves cuts bounded by floors only.
	MaxReductionPct decimal.Decimal
}

// DefaultOptions returns the stock engine settings.
func DefaultOptions() Options {
	return Options{
		BuiltinProtected:       []string{"rent", "utilities"},
		HighPriorityThreshold:  2,
		DefaultRank:            10,
		Decimals:               2,
		Currency:               "DZD",
		PeriodDays:             30,
		LargeCutPct:            decimal.NewFromInt(50),
		SavingsTipRate:         decimal.RequireFromString("0.15"),
		AlternativeSavingsRate: decimal.RequireFromString("0.10"),
	}
}

// withDefaults fills zero-valued fields from DefaultOptions. Decimals and
// MaxReductionPct keep their zero value, which is meaningful for both.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BuiltinProtected == nil {
		o.BuiltinProtected = d.BuiltinProtected
	}
	switch {
	case o.HighPriorityThreshold == 0:
		o.HighPriorityThreshold = d.HighPriorityThreshold
	case o.HighPriorityThreshold < 0:
		// Negative disables rank-based protection.
		o.HighPriorityThreshold = 0
	}
	if o.DefaultRank < 1 {
		o.DefaultRank = d.DefaultRank
	}
	if o.Decimals < 0 {
		o.Decimals = d.Decimals
	}
	o.Currency = strings.ToUpper(strings.TrimSpace(o.Currency))
	if o.Currency == "" {
		o.Currency = d.Currency
	}
	if o.PeriodDays < 1 {
		o.PeriodDays = d.PeriodDays
	}
	if !o.LargeCutPct.IsPositive() {
		o.LargeCutPct = d.LargeCutPct
	}
	if !o.SavingsTipRate.IsPositive() {
		o.SavingsTipRate = d.SavingsTipRate
	}
	if !o.AlternativeSavingsRate.IsPositive() {
		o.AlternativeSavingsRate = d.AlternativeSavingsRate
	}
	return o
}

// Engine runs planning passes with a fixed set of options.
type Engine struct {
	opts Options
}

// New returns an engine using opts, with zero fields taken from
// DefaultOptions. Decimals is the exception: zero means whole units, and only
// a negative value selects the default of 2.
func New(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Plan validates req and produces its report. The only error it returns
// wraps ErrInvalidRequest; infeasible budgets are reported, not rejected.
func (e *Engine) Plan(req model.BudgetRequest) (model.BudgetReport, error) {
	norm, err := Validate(req, e.opts)
	if err != nil {
		return model.BudgetReport{}, err
	}

	cls := Classify(norm, e.opts)
	essential := EssentialSavings(norm, e.opts)
	alloc := Allocate(norm, cls, essential, e.opts)
	return BuildReport(norm, cls, alloc, essential, e.opts), nil
}

// Plan runs a request through an engine with default options.
func Plan(req model.BudgetRequest) (model.BudgetReport, error) {
	return New(DefaultOptions()).Plan(req)
}

// Result pairs a report with the error of the request that produced it.
type Result struct {
	Report model.BudgetReport
	Err    error
}

// PlanAll evaluates independent requests concurrently, bounded by
// GOMAXPROCS. Results keep the input order. A rejected request only sets its
// own Result.Err; the returned error is non-nil only when ctx ends first.
func (e *Engine) PlanAll(ctx context.Context, reqs []model.BudgetRequest) ([]Result, error) {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range reqs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := e.Plan(reqs[i])
			results[i] = Result{Report: report, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
