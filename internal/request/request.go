// Package request decodes budget request files into model.BudgetRequest.
//
// Files are TOML, YAML or JSON, picked by extension. Amounts may be written
// as numbers or as strings ("1250.50"); strings avoid float rounding.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/budgetplan/internal/model"
)

// ErrUnsupportedFormat is returned for files whose extension is not
// .toml, .yaml, .yml or .json.
var ErrUnsupportedFormat = errors.New("unsupported request format")

// Format identifies a request file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor maps a file path to its format by extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// file is the on-disk shape. Amounts are left untyped so each decoder can
// hand over ints, floats or strings.
type file struct {
	Income       any                 `toml:"income" yaml:"income" json:"income"`
	SavingsRate  any                 `toml:"savings_rate" yaml:"savings_rate" json:"savings_rate"`
	Currency     string              `toml:"currency" yaml:"currency" json:"currency"`
	Expenses     map[string]any      `toml:"expenses" yaml:"expenses" json:"expenses"`
	Priority     map[string]int      `toml:"priority" yaml:"priority" json:"priority"`
	Necessary    []string            `toml:"necessary" yaml:"necessary" json:"necessary"`
	MinAmounts   map[string]any      `toml:"min_amounts" yaml:"min_amounts" json:"min_amounts"`
	SavingsGoals map[string]fileGoal `toml:"savings_goals" yaml:"savings_goals" json:"savings_goals"`
	MaxReduction any                 `toml:"max_reduction_pct" yaml:"max_reduction_pct" json:"max_reduction_pct"`
}

type fileGoal struct {
	Target              any `toml:"target" yaml:"target" json:"target"`
	Saved               any `toml:"saved" yaml:"saved" json:"saved"`
	MonthlyContribution any `toml:"monthly_contribution" yaml:"monthly_contribution" json:"monthly_contribution"`
}

// Load reads and decodes the request file at path.
func Load(path string) (model.BudgetRequest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return model.BudgetRequest{}, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the local user
	if err != nil {
		return model.BudgetRequest{}, fmt.Errorf("reading request: %w", err)
	}

	req, err := Decode(data, format)
	if err != nil {
		return model.BudgetRequest{}, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (model.BudgetRequest, error) {
	var f file
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return model.BudgetRequest{}, fmt.Errorf("parsing toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return model.BudgetRequest{}, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&f); err != nil {
			return model.BudgetRequest{}, fmt.Errorf("parsing json: %w", err)
		}
	default:
		return model.BudgetRequest{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return f.toRequest()
}

func (f file) toRequest() (model.BudgetRequest, error) {
	req := model.BudgetRequest{
		Currency:  f.Currency,
		Priority:  f.Priority,
		Necessary: f.Necessary,
	}

	var err error
	if req.Income, err = parseAmount("income", f.Income); err != nil {
		return req, err
	}
	if req.SavingsRate, err = parseAmount("savings_rate", f.SavingsRate); err != nil {
		return req, err
	}
	if req.MaxReductionPct, err = parseAmount("max_reduction_pct", f.MaxReduction); err != nil {
		return req, err
	}
	if req.Expenses, err = parseAmounts("expenses", f.Expenses); err != nil {
		return req, err
	}
	if len(f.MinAmounts) > 0 {
		if req.MinAmounts, err = parseAmounts("min_amounts", f.MinAmounts); err != nil {
			return req, err
		}
	}

	if len(f.SavingsGoals) > 0 {
		req.SavingsGoals = make(map[string]model.SavingsGoal, len(f.SavingsGoals))
		for name, g := range f.SavingsGoals {
			var goal model.SavingsGoal
			prefix := "savings_goals." + name
			if goal.Target, err = parseAmount(prefix+".target", g.Target); err != nil {
				return req, err
			}
			if goal.Saved, err = parseAmount(prefix+".saved", g.Saved); err != nil {
				return req, err
			}
			if goal.MonthlyContribution, err = parseAmount(prefix+".monthly_contribution", g.MonthlyContribution); err != nil {
				return req, err
			}
			req.SavingsGoals[name] = goal
		}
	}
	return req, nil
}

func parseAmounts(field string, raw map[string]any) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(raw))
	for name, v := range raw {
		d, err := parseAmount(field+"."+name, v)
		if err != nil {
			return nil, err
		}
		out[name] = d
	}
	return out, nil
}

// parseAmount accepts the scalar types produced by the toml, yaml and json
// decoders. A missing value is zero.
func parseAmount(field string, v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s: %w", field, err)
		}
		return d, nil
	case string:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(x), ",", ""))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s: invalid amount %q", field, x)
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("%s: unsupported value %v (%T)", field, v, v)
}

// Encode writes req as a TOML request file. Amounts are written as strings
// so they round-trip exactly.
func Encode(w io.Writer, req model.BudgetRequest) error {
	out := encoded{
		Income:      req.Income.String(),
		SavingsRate: req.SavingsRate.String(),
		Currency:    req.Currency,
		Necessary:   req.Necessary,
		Expenses:    stringify(req.Expenses),
		Priority:    req.Priority,
		MinAmounts:  stringify(req.MinAmounts),
	}
	if !req.MaxReductionPct.IsZero() {
		out.MaxReduction = req.MaxReductionPct.String()
	}
	if len(req.SavingsGoals) > 0 {
		out.SavingsGoals = make(map[string]encodedGoal, len(req.SavingsGoals))
		for name, g := range req.SavingsGoals {
			out.SavingsGoals[name] = encodedGoal{
				Target:              g.Target.String(),
				Saved:               g.Saved.String(),
				MonthlyContribution: g.MonthlyContribution.String(),
			}
		}
	}
	if out.Necessary != nil {
		out.Necessary = append([]string(nil), out.Necessary...)
		sort.Strings(out.Necessary)
	}
	return toml.NewEncoder(w).Encode(out)
}

type encoded struct {
	Income       string                 `toml:"income"`
	SavingsRate  string                 `toml:"savings_rate"`
	Currency     string                 `toml:"currency,omitempty"`
	Necessary    []string               `toml:"necessary,omitempty"`
	Expenses     map[string]string      `toml:"expenses"`
	Priority     map[string]int         `toml:"priority,omitempty"`
	MinAmounts   map[string]string      `toml:"min_amounts,omitempty"`
	MaxReduction string                 `toml:"max_reduction_pct,omitempty"`
	SavingsGoals map[string]encodedGoal `toml:"savings_goals,omitempty"`
}

type encodedGoal struct {
	Target              string `toml:"target"`
	Saved               string `toml:"saved"`
	MonthlyContribution string `toml:"monthly_contribution"`
}

func stringify(m map[string]decimal.Decimal) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.String()
	}
	return out
}

// ParseRate accepts "0.15", "15%" or "15" (read as a percentage when > 1).
func ParseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q", s)
	}
	d := decimal.NewFromFloat(f)
	if pct || d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(decimal.NewFromInt(100))
	}
	return d, nil
}
