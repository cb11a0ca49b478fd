package engine

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/budgetplan/internal/model"
)

func TestClassify(t *testing.T) {
	req, err := Validate(model.BudgetRequest{
		Income: dec("1000"),
		Expenses: amounts(
			"Rent", "300",
			"utilities", "50",
			"food", "200",
			"health", "80",
			"pets", "60",
			"clothing", "40",
			"gifts", "0",
			"books", "30",
		),
		Priority:    map[string]int{"food": 1, "health": 2, "clothing": 3, "utilities": 7},
		Necessary:   []string{"pets"},
		MinAmounts:  amounts("books", "30"),
		SavingsRate: dec("0"),
	}, DefaultOptions())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cls := Classify(req, DefaultOptions())

	if want := []string{"Rent", "food", "health", "pets", "utilities"}; !reflect.DeepEqual(cls.Protected, want) {
		t.Errorf("Protected = %v, want %v", cls.Protected, want)
	}
	if want := []string{"clothing"}; !reflect.DeepEqual(cls.Reducible, want) {
		t.Errorf("Reducible = %v, want %v", cls.Reducible, want)
	}
	if want := []string{"books", "gifts"}; !reflect.DeepEqual(cls.Exempt, want) {
		t.Errorf("Exempt = %v, want %v", cls.Exempt, want)
	}

	kinds := map[string]model.ProtectionKind{
		"Rent":      model.ProtectedBuiltin,
		"utilities": model.ProtectedBuiltin, // built-in wins over rank
		"food":      model.ProtectedHighPriority,
		"health":    model.ProtectedHighPriority,
		"pets":      model.ProtectedNecessary,
		"books":     model.UntouchedAtMinimum,
		"gifts":     model.UntouchedNoSpending,
	}
	for name, want := range kinds {
		got, ok := cls.Kind(name)
		if !ok || got != want {
			t.Errorf("Kind(%s) = %q (%v), want %q", name, got, ok, want)
		}
	}
	if !cls.IsReducible("clothing") || cls.IsReducible("food") {
		t.Error("IsReducible disagrees with Reducible list")
	}
}

func TestClassify_CustomThresholdAndBuiltins(t *testing.T) {
	opts := DefaultOptions()
	opts.BuiltinProtected = []string{"school"}
	opts.HighPriorityThreshold = 3

	req, err := Validate(model.BudgetRequest{
		Income:      dec("1000"),
		Expenses:    amounts("rent", "300", "school", "100", "clothing", "50"),
		Priority:    map[string]int{"clothing": 3},
		SavingsRate: dec("0"),
	}, opts)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cls := Classify(req, opts)
	if want := []string{"rent"}; !reflect.DeepEqual(cls.Reducible, want) {
		t.Errorf("Reducible = %v, want %v", cls.Reducible, want)
	}
	if want := []string{"clothing", "school"}; !reflect.DeepEqual(cls.Protected, want) {
		t.Errorf("Protected = %v, want %v", cls.Protected, want)
	}
}

func TestPlan_HighPriorityReasonUsesThreshold(t *testing.T) {
	report := mustPlan(t, model.BudgetRequest{
		Income:      dec("1000"),
		Expenses:    amounts("food", "100"),
		Priority:    map[string]int{"food": 1},
		SavingsRate: dec("0"),
	})
	if got := report.UntouchedCategories[0].Reason; got != "High priority (1-2)" {
		t.Errorf("Reason = %q, want High priority (1-2)", got)
	}
}
