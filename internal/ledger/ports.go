package ledger

import (
	"context"

	"ventas/internal/core"
)

// Table names the two logical tables of the ledger.
type Table string

const (
	Sales    Table = "Ventas"
	Expenses Table = "Gastos"
)

// Ports for outbound adapters. The store performs no schema enforcement:
// ReadRows returns loosely typed text cells, header row first, and callers
// own all parsing of cell contents.
type (
	SaleAppender interface {
		AppendSale(ctx context.Context, s core.Sale) error
	}

	ExpenseAppender interface {
		AppendExpense(ctx context.Context, e core.Expense) error
	}

	// RowReader returns every row of a table in append order.
	RowReader interface {
		ReadRows(ctx context.Context, t Table) ([][]string, error)
	}

	// Store is the full ledger surface consumed by the bot engine.
	Store interface {
		SaleAppender
		ExpenseAppender
		RowReader
	}
)

// SaleHeader and ExpenseHeader are the documented column layouts.
var (
	SaleHeader    = []string{"Cliente", "Fecha", "Cantidad", "Valor", "Deuda", "Método"}
	ExpenseHeader = []string{"Gasto", "Costo", "Método"}
)
