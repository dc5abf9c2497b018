package ledger

import (
	"testing"

	"ventas/internal/core"
)

func TestRowFromSaleColumnOrder(t *testing.T) {
	s := core.Sale{
		Client:   "Ana",
		Date:     core.NewDate(2024, 1, 15),
		Quantity: 2.5,
		Amount:   core.Money{Cents: 10050},
		Debt:     core.Money{Cents: 0},
		Method:   core.Nequi,
	}
	got := RowFromSale(s)
	want := []string{"Ana", "15/01/2024", "2.5", "100.5", "0", "Nequi"}
	if len(got) != len(want) {
		t.Fatalf("row = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRowFromExpenseColumnOrder(t *testing.T) {
	e := core.Expense{Description: "Luz", Cost: core.Money{Cents: 12000}, Method: core.Efectivo}
	got := RowFromExpense(e)
	want := []string{"Luz", "120", "Efectivo"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFormatNumberCell(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{2.5, "2.5"},
		{100.25, "100.25"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := FormatNumberCell(tc.in); got != tc.want {
			t.Errorf("FormatNumberCell(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
