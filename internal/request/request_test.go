package request

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetplan/internal/model"
)

// writeRequest creates a temp request file with the given name and contents.
func writeRequest(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func checkSample(t *testing.T, req model.BudgetRequest) {
	t.Helper()
	want := map[string]string{"rent": "30000", "food": "25000", "clothing": "6000.5"}
	if len(req.Expenses) != len(want) {
		t.Fatalf("Expenses = %v, want %d entries", req.Expenses, len(want))
	}
	for name, amount := range want {
		if !req.Expenses[name].Equal(decimal.RequireFromString(amount)) {
			t.Errorf("Expenses[%s] = %s, want %s", name, req.Expenses[name], amount)
		}
	}
	if !req.Income.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("Income = %s, want 100000", req.Income)
	}
	if !req.SavingsRate.Equal(decimal.RequireFromString("0.15")) {
		t.Errorf("SavingsRate = %s, want 0.15", req.SavingsRate)
	}
	if req.Priority["food"] != 1 {
		t.Errorf("Priority[food] = %d, want 1", req.Priority["food"])
	}
	if len(req.Necessary) != 1 || req.Necessary[0] != "food" {
		t.Errorf("Necessary = %v, want [food]", req.Necessary)
	}
	goal, ok := req.SavingsGoals["vehicle"]
	if !ok {
		t.Fatal("missing vehicle goal")
	}
	if !goal.Target.Equal(decimal.NewFromInt(100000)) || !goal.MonthlyContribution.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("vehicle goal = %+v", goal)
	}
	if req.Currency != "DZD" {
		t.Errorf("Currency = %q, want DZD", req.Currency)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeRequest(t, "budget.toml", `
income = 100000
savings_rate = 0.15
currency = "DZD"
necessary = ["food"]

[expenses]
rent = 30000
food = "25,000"
clothing = 6000.5

[priority]
food = 1

[savings_goals.vehicle]
target = 100000
saved = 25000
monthly_contribution = 5000
`)

	req, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkSample(t, req)
}

func TestLoad_YAML(t *testing.T) {
	path := writeRequest(t, "budget.yml", `
income: 100000
savings_rate: 0.15
currency: DZD
necessary: [food]
expenses:
  rent: 30000
  food: 25000
  clothing: "6000.50"
priority:
  food: 1
savings_goals:
  vehicle:
    target: 100000
    saved: 25000
    monthly_contribution: 5000
`)

	req, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkSample(t, req)
}

func TestLoad_JSON(t *testing.T) {
	path := writeRequest(t, "budget.json", `{
  "income": 100000,
  "savings_rate": 0.15,
  "currency": "DZD",
  "necessary": ["food"],
  "expenses": {"rent": 30000, "food": 25000, "clothing": 6000.5},
  "priority": {"food": 1},
  "savings_goals": {"vehicle": {"target": 100000, "saved": 25000, "monthly_contribution": 5000}}
}`)

	req, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkSample(t, req)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"unknown extension", "budget.txt", "income = 1"},
		{"bad toml", "budget.toml", "income = ["},
		{"bad amount", "budget.toml", "income = \"lots\""},
		{"bad yaml", "budget.yaml", "expenses: [1, 2"},
		{"bool amount", "budget.json", `{"income": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeRequest(t, tt.file, tt.body)); err == nil {
				t.Error("Load returned nil error")
			}
		})
	}

	_, err := Load(writeRequest(t, "budget.csv", ""))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of missing file returned nil error")
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	orig := model.BudgetRequest{
		Income:      decimal.RequireFromString("4200.75"),
		SavingsRate: decimal.RequireFromString("0.2"),
		Currency:    "EUR",
		Expenses: map[string]decimal.Decimal{
			"rent":  decimal.NewFromInt(1500),
			"games": decimal.RequireFromString("60.10"),
		},
		Priority:        map[string]int{"games": 6},
		Necessary:       []string{"rent"},
		MinAmounts:      map[string]decimal.Decimal{"games": decimal.NewFromInt(20)},
		MaxReductionPct: decimal.RequireFromString("0.8"),
		SavingsGoals: map[string]model.SavingsGoal{
			"trip": {Target: decimal.NewFromInt(900), Saved: decimal.NewFromInt(300), MonthlyContribution: decimal.NewFromInt(50)},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, orig); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf.Bytes(), FormatTOML)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, buf.String())
	}

	if !got.Income.Equal(orig.Income) || !got.SavingsRate.Equal(orig.SavingsRate) || got.Currency != "EUR" {
		t.Errorf("header mismatch: %+v", got)
	}
	if !got.Expenses["games"].Equal(decimal.RequireFromString("60.1")) {
		t.Errorf("games = %s, want 60.1", got.Expenses["games"])
	}
	if got.Priority["games"] != 6 || !got.MinAmounts["games"].Equal(decimal.NewFromInt(20)) {
		t.Errorf("games priority/floor mismatch: %d / %s", got.Priority["games"], got.MinAmounts["games"])
	}
	if !got.SavingsGoals["trip"].Saved.Equal(decimal.NewFromInt(300)) {
		t.Errorf("trip goal = %+v", got.SavingsGoals["trip"])
	}
	if !got.MaxReductionPct.Equal(orig.MaxReductionPct) {
		t.Errorf("MaxReductionPct = %s, want 0.8", got.MaxReductionPct)
	}
}

func TestDecode_MaxReductionPct(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		body   string
		want   string
	}{
		{"toml", FormatTOML, "income = 1000\nmax_reduction_pct = 0.8\n[expenses]\nfood = 100\n", "0.8"},
		{"yaml", FormatYAML, "income: 1000\nmax_reduction_pct: \"0.5\"\nexpenses:\n  food: 100\n", "0.5"},
		{"json", FormatJSON, `{"income": 1000, "max_reduction_pct": 0.25, "expenses": {"food": 100}}`, "0.25"},
		{"absent", FormatJSON, `{"income": 1000, "expenses": {"food": 100}}`, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Decode([]byte(tt.body), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !req.MaxReductionPct.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("MaxReductionPct = %s, want %s", req.MaxReductionPct, tt.want)
			}
		})
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.15", "0.15"},
		{"15%", "0.15"},
		{"15", "0.15"},
		{" 1 ", "1"},
		{"0", "0"},
	}
	for _, tt := range tests {
		got, err := ParseRate(tt.in)
		if err != nil {
			t.Errorf("ParseRate(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseRate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if _, err := ParseRate("abc"); err == nil {
		t.Error("ParseRate(abc) returned nil error")
	}
}
