package engine

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetplan/internal/model"
)

// Allocation is the allocator's output for one request.
type Allocation struct {
	Available decimal.Decimal
	Deficit   decimal.Decimal
	// Shortfall is the part of Deficit left after every reducible category
	// hit its floor.
	Shortfall decimal.Decimal
	// Optimized maps every category to its final amount, rounded down to the
	// minor unit.
	Optimized map[string]decimal.Decimal
	// Passes is the number of redistribution passes that ran.
	Passes int
}

// EssentialSavings is income times the savings rate, rounded to the minor unit.
func EssentialSavings(req model.BudgetRequest, opts Options) decimal.Decimal {
	opts = opts.withDefaults()
	return req.Income.Mul(req.SavingsRate).Round(opts.Decimals)
}

// Allocate spreads the deficit over the reducible categories.
//
// Each pass shares the remaining deficit in proportion to original*rank, so
// a category with a numerically higher rank gives up a larger fraction. A
// category's cut is capped at original minus its floor, and at
// original*MaxReductionPct when the request sets one; whatever a capped
// category could not absorb is carried into the next pass over the categories
// still below their cap. Every pass either absorbs the remainder or caps at
// least one more category, so the loop runs at most len(Reducible) times.
//
// Cuts stay exact until the end, when optimized amounts are floored to the
// minor unit. Protected and exempt categories keep their original amounts.
func Allocate(req model.BudgetRequest, cls Classification, essential decimal.Decimal, opts Options) Allocation {
	opts = opts.withDefaults()

	total := decimal.Zero
	for _, amount := range req.Expenses {
		total = total.Add(amount)
	}

	alloc := Allocation{
		Available: req.Income.Sub(essential),
		Deficit:   decimal.Zero,
		Shortfall: decimal.Zero,
		Optimized: make(map[string]decimal.Decimal, len(req.Expenses)),
	}
	for name, amount := range req.Expenses {
		alloc.Optimized[name] = amount
	}

	if over := total.Sub(alloc.Available); over.IsPositive() {
		alloc.Deficit = over
	}
	if alloc.Deficit.IsZero() || len(cls.Reducible) == 0 {
		alloc.Shortfall = alloc.Deficit
		return alloc
	}

	// Ranks are lifted into decimals so the highest explicit rank plus one
	// cannot wrap around.
	defaultRank := decimal.NewFromInt(int64(opts.DefaultRank))
	for _, rank := range req.Priority {
		if r := decimal.NewFromInt(int64(rank)); r.GreaterThanOrEqual(defaultRank) {
			defaultRank = r.Add(one)
		}
	}

	maxPct := req.MaxReductionPct
	share := make(map[string]decimal.Decimal, len(cls.Reducible))
	capacity := make(map[string]decimal.Decimal, len(cls.Reducible))
	cut := make(map[string]decimal.Decimal, len(cls.Reducible))
	for _, name := range cls.Reducible {
		rank := defaultRank
		if r, ok := req.Priority[name]; ok {
			rank = decimal.NewFromInt(int64(r))
		}
		original := req.Expenses[name]
		// original / (1/rank)
		share[name] = original.Mul(rank)
		capacity[name] = original.Sub(req.MinAmounts[name])
		if maxPct.IsPositive() {
			// Floored to the minor unit so rounding the optimized amount
			// down never pushes the cut past the limit.
			limit := original.Mul(maxPct).RoundFloor(opts.Decimals)
			capacity[name] = decimal.Min(capacity[name], limit)
		}
		cut[name] = decimal.Zero
	}

	remaining := alloc.Deficit
	active := cls.Reducible // sorted by name

	for len(active) > 0 && remaining.IsPositive() && alloc.Passes < len(cls.Reducible) {
		alloc.Passes++

		weight := decimal.Zero
		for _, name := range active {
			weight = weight.Add(share[name])
		}
		if !weight.IsPositive() {
			break
		}

		absorbed := decimal.Zero
		handed := decimal.Zero
		next := active[:0:0]
		for i, name := range active {
			var portion decimal.Decimal
			if i == len(active)-1 {
				portion = remaining.Sub(handed)
			} else {
				portion = remaining.Mul(share[name]).Div(weight)
			}
			if portion.IsNegative() {
				portion = decimal.Zero
			}
			handed = handed.Add(portion)

			room := capacity[name].Sub(cut[name])
			if portion.GreaterThanOrEqual(room) {
				cut[name] = capacity[name]
				absorbed = absorbed.Add(room)
				continue
			}
			cut[name] = cut[name].Add(portion)
			absorbed = absorbed.Add(portion)
			next = append(next, name)
		}

		remaining = remaining.Sub(absorbed)
		active = next
	}

	if remaining.IsPositive() {
		alloc.Shortfall = remaining
	}

	for _, name := range cls.Reducible {
		if cut[name].IsZero() {
			continue
		}
		alloc.Optimized[name] = req.Expenses[name].Sub(cut[name]).RoundFloor(opts.Decimals)
	}
	return alloc
}
