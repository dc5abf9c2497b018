package memory

import (
	"context"
	"fmt"
	"sync"

	"ventas/internal/core"
	"ventas/internal/ledger"
)

// Store is an in-memory ledger. It backs the default DATA_BACKEND and the
// test suites; rows are kept exactly as text cells, header first, the same
// shape a range read returns.
type Store struct {
	mu       sync.Mutex
	sales    [][]string
	expenses [][]string
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		sales:    [][]string{append([]string(nil), ledger.SaleHeader...)},
		expenses: [][]string{append([]string(nil), ledger.ExpenseHeader...)},
	}
}

// AppendSale stores the sale as a text row in append order.
func (s *Store) AppendSale(_ context.Context, sale core.Sale) error {
	if err := sale.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, ledger.RowFromSale(sale))
	return nil
}

// AppendExpense stores the expense as a text row in append order.
func (s *Store) AppendExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, ledger.RowFromExpense(e))
	return nil
}

// ReadRows returns a copy of the table, header row included.
func (s *Store) ReadRows(_ context.Context, t ledger.Table) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var src [][]string
	switch t {
	case ledger.Sales:
		src = s.sales
	case ledger.Expenses:
		src = s.expenses
	default:
		return nil, fmt.Errorf("unknown table: %s", t)
	}
	out := make([][]string, len(src))
	for i, row := range src {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// SeedSales appends raw rows below the header. Test helper for malformed
// row scenarios that cannot be produced through AppendSale.
func (s *Store) SeedSales(rows ...[]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, rows...)
}

// SeedExpenses appends raw expense rows below the header.
func (s *Store) SeedExpenses(rows ...[]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, rows...)
}
