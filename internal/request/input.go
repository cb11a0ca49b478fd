package request

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseExpenseLines reads "name = amount" pairs, one per line. A colon works
// as the separator too. Blank lines and lines starting with # are skipped.
func ParseExpenseLines(s string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, amount, ok := strings.Cut(line, "=")
		if !ok {
			name, amount, ok = strings.Cut(line, ":")
		}
		if !ok {
			return nil, fmt.Errorf("line %d: want name = amount, got %q", i+1, line)
		}

		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return nil, fmt.Errorf("line %d: missing category name", i+1)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("line %d: duplicate category %q", i+1, name)
		}
		d, err := parseAmount(name, strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out[name] = d
	}
	return out, nil
}

// ParseRanking turns a comma-separated list, most important first, into
// ranks starting at 1. Names not in known are rejected when known is non-nil.
func ParseRanking(s string, known map[string]decimal.Decimal) (map[string]int, error) {
	out := make(map[string]int)
	rank := 0
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("%q ranked twice", name)
		}
		if known != nil {
			if _, ok := known[name]; !ok {
				return nil, fmt.Errorf("%q is not an expense category", name)
			}
		}
		rank++
		out[name] = rank
	}
	return out, nil
}
