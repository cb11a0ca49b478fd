package request

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseExpenseLines(t *testing.T) {
	got, err := ParseExpenseLines(`
# monthly
Rent = 30,000
food: 25000.50

internet=4000
`)
	if err != nil {
		t.Fatalf("ParseExpenseLines: %v", err)
	}

	want := map[string]string{"rent": "30000", "food": "25000.5", "internet": "4000"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %d entries", got, len(want))
	}
	for name, amount := range want {
		if !got[name].Equal(decimal.RequireFromString(amount)) {
			t.Errorf("%s = %s, want %s", name, got[name], amount)
		}
	}
}

func TestParseExpenseLines_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no separator", "rent 300"},
		{"missing name", "= 300"},
		{"bad amount", "rent = lots"},
		{"duplicate", "rent = 1\nRENT = 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseExpenseLines(tt.in); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseRanking(t *testing.T) {
	known := map[string]decimal.Decimal{"food": decimal.Zero, "rent": decimal.Zero, "gym": decimal.Zero}

	got, err := ParseRanking(" Food, rent,, gym ", known)
	if err != nil {
		t.Fatalf("ParseRanking: %v", err)
	}
	if got["food"] != 1 || got["rent"] != 2 || got["gym"] != 3 {
		t.Errorf("ranks = %v", got)
	}

	if _, err := ParseRanking("food, food", known); err == nil {
		t.Error("duplicate rank accepted")
	}
	if _, err := ParseRanking("travel", known); err == nil {
		t.Error("unknown category accepted")
	}
	if got, err := ParseRanking("travel", nil); err != nil || got["travel"] != 1 {
		t.Errorf("ParseRanking without known set = %v, %v", got, err)
	}
}
