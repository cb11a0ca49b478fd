package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/budgetplan/internal/model"
)

func TestValidate_Rejects(t *testing.T) {
	base := func() model.BudgetRequest {
		return model.BudgetRequest{
			Income:      dec("1000"),
			Expenses:    amounts("food", "100"),
			SavingsRate: dec("0.1"),
		}
	}

	tests := []struct {
		name  string
		edit  func(*model.BudgetRequest)
		field string
	}{
		{"zero income", func(r *model.BudgetRequest) { r.Income = dec("0") }, "income"},
		{"negative income", func(r *model.BudgetRequest) { r.Income = dec("-5") }, "income"},
		{"income rounds to zero", func(r *model.BudgetRequest) { r.Income = dec("0.001") }, "income"},
		{"negative expense", func(r *model.BudgetRequest) { r.Expenses["fun"] = dec("-1") }, `expenses["fun"]`},
		{"savings rate above one", func(r *model.BudgetRequest) { r.SavingsRate = dec("1.01") }, "savings_rate"},
		{"negative savings rate", func(r *model.BudgetRequest) { r.SavingsRate = dec("-0.1") }, "savings_rate"},
		{"empty name", func(r *model.BudgetRequest) { r.Expenses["  "] = dec("1") }, `expenses["  "]`},
		{"duplicate after trim", func(r *model.BudgetRequest) { r.Expenses[" food"] = dec("1") }, `expenses["food"]`},
		{"duplicate priority after trim", func(r *model.BudgetRequest) {
			r.Priority = map[string]int{" food": 1, "food": 4}
		}, `priority["food"]`},
		{"max reduction above one", func(r *model.BudgetRequest) { r.MaxReductionPct = dec("1.5") }, "max_reduction_pct"},
		{"negative max reduction", func(r *model.BudgetRequest) { r.MaxReductionPct = dec("-0.2") }, "max_reduction_pct"},
		{"zero rank", func(r *model.BudgetRequest) { r.Priority = map[string]int{"food": 0} }, `priority["food"]`},
		{"negative floor", func(r *model.BudgetRequest) { r.MinAmounts = amounts("food", "-1") }, `min_amounts["food"]`},
		{"negative goal", func(r *model.BudgetRequest) {
			r.SavingsGoals = map[string]model.SavingsGoal{"car": {Target: dec("-1")}}
		}, `savings_goals["car"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.edit(&req)
			_, err := Validate(req, DefaultOptions())
			if err == nil {
				t.Fatal("Validate returned nil error")
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err %v does not carry a *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	_, err := Validate(model.BudgetRequest{
		Income:      dec("-1"),
		Expenses:    amounts("a", "-1", "b", "-2"),
		SavingsRate: dec("2"),
	}, DefaultOptions())
	if err == nil {
		t.Fatal("Validate returned nil error")
	}
	for _, want := range []string{"income", "savings_rate", `expenses["a"]`, `expenses["b"]`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidate_Normalizes(t *testing.T) {
	req := model.BudgetRequest{
		Income:      dec("1000.005"),
		Expenses:    amounts(" Food ", "100.126", "rent", "400"),
		Priority:    map[string]int{" Food ": 3, "ghost": 0},
		Necessary:   []string{"rent", " rent ", "ghost"},
		MinAmounts:  amounts("ghost", "-5", " Food ", "50"),
		SavingsRate: dec("0.15"),
		Currency:    " usd",
	}

	got, err := Validate(req, DefaultOptions())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	assertDec(t, "Income", got.Income, "1000.01")
	assertDec(t, "Food", got.Expenses["Food"], "100.13")
	if len(got.Expenses) != 2 {
		t.Errorf("Expenses = %v, want 2 entries", got.Expenses)
	}
	if got.Priority["Food"] != 3 {
		t.Errorf("Priority[Food] = %d, want 3", got.Priority["Food"])
	}
	if _, ok := got.Priority["ghost"]; ok {
		t.Error("dangling priority kept")
	}
	if len(got.Necessary) != 1 || got.Necessary[0] != "rent" {
		t.Errorf("Necessary = %v, want [rent]", got.Necessary)
	}
	if _, ok := got.MinAmounts["ghost"]; ok {
		t.Error("dangling floor kept")
	}
	assertDec(t, "MinAmounts[Food]", got.MinAmounts["Food"], "50")
	if got.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", got.Currency)
	}
}

func TestValidate_DefaultCurrency(t *testing.T) {
	got, err := Validate(model.BudgetRequest{Income: dec("1"), SavingsRate: dec("0")}, DefaultOptions())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Currency != "DZD" {
		t.Errorf("Currency = %q, want DZD", got.Currency)
	}
}

func TestValidate_MaxReductionPct(t *testing.T) {
	tests := []struct {
		name    string
		request string
		option  string
		want    string
	}{
		{"unset", "0", "0", "0"},
		{"kept", "0.5", "0", "0.5"},
		{"raised to lower bound", "0.05", "0", "0.1"},
		{"lowered to upper bound", "1", "0", "0.9"},
		{"option fills unset", "0", "0.8", "0.8"},
		{"request overrides option", "0.3", "0.8", "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.MaxReductionPct = dec(tt.option)
			got, err := Validate(model.BudgetRequest{
				Income:          dec("1000"),
				Expenses:        amounts("food", "100"),
				MaxReductionPct: dec(tt.request),
			}, opts)
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			assertDec(t, "MaxReductionPct", got.MaxReductionPct, tt.want)
		})
	}
}
