package model

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatAmount renders d with thousands separators, dropping the fraction
// for whole amounts: 4000 -> "4,000", 1234.5 -> "1,234.50".
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return humanize.Comma(d.IntPart())
	}
	return humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}

// FormatMoney appends the currency code to FormatAmount.
func FormatMoney(d decimal.Decimal, currency string) string {
	s := FormatAmount(d)
	if currency = strings.TrimSpace(currency); currency != "" {
		s += " " + currency
	}
	return s
}
