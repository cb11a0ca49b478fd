// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetplan/internal/model"
)

// FormatMoney formats an amount with separators and the currency code.
// e.g., 30000 DZD -> "30,000 DZD"
func FormatMoney(d decimal.Decimal, currency string) string {
	return model.FormatMoney(d, currency)
}

// FormatReduction formats an amount removed from a category with a leading minus.
// Zero renders as a dash.
func FormatReduction(d decimal.Decimal, currency string) string {
	if d.IsZero() {
		return "-"
	}
	return "-" + model.FormatMoney(d.Abs(), currency)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a percentage that is already scaled to 0-100.
func FormatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// FormatRate formats a 0-1 rate as a percentage string.
func FormatRate(rate decimal.Decimal) string {
	return FormatPercent(rate.Mul(decimal.NewFromInt(100)))
}

// FormatMonths renders a months-to-target count.
func FormatMonths(n int) string {
	switch {
	case n < 0:
		return "never"
	case n == 0:
		return "reached"
	case n == 1:
		return "1 month"
	}
	return fmt.Sprintf("%d months", n)
}
