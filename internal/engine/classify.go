package engine

import (
	"sort"
	"strings"

	"github.com/theirongolddev/budgetplan/internal/model"
)

// Classification partitions the categories of a normalized request.
// Protected and Reducible are disjoint and together cover every category
// with a positive amount that still has room above its floor. Exempt holds
// the rest: zero-amount categories and categories already at their floor.
type Classification struct {
	Protected []string
	Reducible []string
	Exempt    []string

	kinds map[string]model.ProtectionKind
}

// Kind returns why a non-reducible category is left untouched.
func (c Classification) Kind(category string) (model.ProtectionKind, bool) {
	k, ok := c.kinds[category]
	return k, ok
}

// IsReducible reports whether the allocator may cut category.
func (c Classification) IsReducible(category string) bool {
	i := sort.SearchStrings(c.Reducible, category)
	return i < len(c.Reducible) && c.Reducible[i] == category
}

// Classify tags every category of a normalized request. Reasons are checked
// in order: no spending, built-in, user-marked necessary, high priority,
// already at floor.
func Classify(req model.BudgetRequest, opts Options) Classification {
	opts = opts.withDefaults()

	builtin := make(map[string]bool, len(opts.BuiltinProtected))
	for _, name := range opts.BuiltinProtected {
		builtin[strings.ToLower(strings.TrimSpace(name))] = true
	}
	necessary := make(map[string]bool, len(req.Necessary))
	for _, name := range req.Necessary {
		necessary[name] = true
	}

	cls := Classification{kinds: make(map[string]model.ProtectionKind)}
	for _, name := range sortedKeys(req.Expenses) {
		amount := req.Expenses[name]
		rank, ranked := req.Priority[name]

		var kind model.ProtectionKind
		switch {
		case !amount.IsPositive():
			kind = model.UntouchedNoSpending
		case builtin[strings.ToLower(name)]:
			kind = model.ProtectedBuiltin
		case necessary[name]:
			kind = model.ProtectedNecessary
		case ranked && rank <= opts.HighPriorityThreshold:
			kind = model.ProtectedHighPriority
		case amount.LessThanOrEqual(req.MinAmounts[name]):
			kind = model.UntouchedAtMinimum
		default:
			cls.Reducible = append(cls.Reducible, name)
			continue
		}

		cls.kinds[name] = kind
		if kind.Protected() {
			cls.Protected = append(cls.Protected, name)
		} else {
			cls.Exempt = append(cls.Exempt, name)
		}
	}
	return cls
}
