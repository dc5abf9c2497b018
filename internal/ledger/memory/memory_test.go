package memory

import (
	"context"
	"testing"

	"ventas/internal/core"
	"ventas/internal/ledger"
)

func TestNewStartsWithHeaders(t *testing.T) {
	s := New()
	ctx := context.Background()

	sales, err := s.ReadRows(ctx, ledger.Sales)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(sales) != 1 || sales[0][0] != "Cliente" {
		t.Fatalf("unexpected sales header: %v", sales)
	}

	expenses, err := s.ReadRows(ctx, ledger.Expenses)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(expenses) != 1 || expenses[0][0] != "Gasto" {
		t.Fatalf("unexpected expenses header: %v", expenses)
	}
}

func TestAppendSalePreservesOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	sales := []core.Sale{
		{Client: "Ana", Date: core.NewDate(2024, 1, 1), Quantity: 2, Amount: core.Money{Cents: 10000}, Method: core.Nequi},
		{Client: "Luis", Date: core.NewDate(2024, 1, 2), Quantity: 1, Amount: core.Money{Cents: 5000}, Method: core.Efectivo},
	}
	for _, sale := range sales {
		if err := s.AppendSale(ctx, sale); err != nil {
			t.Fatalf("AppendSale: %v", err)
		}
	}

	rows, _ := s.ReadRows(ctx, ledger.Sales)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[1][0] != "Ana" || rows[2][0] != "Luis" {
		t.Fatalf("append order lost: %v", rows)
	}
	if rows[1][1] != "01/01/2024" {
		t.Fatalf("date cell = %q", rows[1][1])
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.AppendSale(ctx, core.Sale{}); err == nil {
		t.Fatal("empty sale accepted")
	}
	if err := s.AppendExpense(ctx, core.Expense{}); err == nil {
		t.Fatal("empty expense accepted")
	}
	rows, _ := s.ReadRows(ctx, ledger.Sales)
	if len(rows) != 1 {
		t.Fatalf("invalid append reached the table: %v", rows)
	}
}

func TestReadRowsUnknownTable(t *testing.T) {
	s := New()
	if _, err := s.ReadRows(context.Background(), ledger.Table("Otro")); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

// ReadRows hands back a copy: mutating the result never corrupts the store.
func TestReadRowsReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.SeedSales([]string{"Ana", "01/01/2024", "1", "50", "0", "Nequi"})

	rows, _ := s.ReadRows(ctx, ledger.Sales)
	rows[1][0] = "Mutado"

	again, _ := s.ReadRows(ctx, ledger.Sales)
	if again[1][0] != "Ana" {
		t.Fatalf("store mutated through returned slice: %v", again[1])
	}
}
