package report

import (
	"context"
	"fmt"
	"log/slog"

	"ventas/internal/ledger"
)

// Empty-ledger replies. Reports over a header-only table state that there
// is nothing recorded rather than rendering zeros.
const (
	NoSales    = "No hay ventas registradas aún"
	NoExpenses = "No hay gastos registrados aún"
)

// Engine answers the ad-hoc aggregation queries. It is stateless: every
// call reads the ledger again and recomputes from scratch, so a report may
// or may not observe rows appended while it runs.
type Engine struct {
	reader ledger.RowReader
}

func New(reader ledger.RowReader) *Engine {
	return &Engine{reader: reader}
}

// SalesTotal renders the sale totals with the per-method partition.
func (e *Engine) SalesTotal(ctx context.Context) (string, error) {
	rows, err := e.reader.ReadRows(ctx, ledger.Sales)
	if err != nil {
		return "", fmt.Errorf("leer ventas: %w", err)
	}
	if !hasDataRows(rows) {
		return NoSales, nil
	}
	sales := parseSales(rows)
	slog.DebugContext(ctx, "sales totals computed", "raw_rows", len(rows)-1, "well_formed", len(sales))
	return renderTotals("Total de Ventas", salesTotals(sales)), nil
}

// ExpensesTotal renders the expense totals with the per-method partition.
func (e *Engine) ExpensesTotal(ctx context.Context) (string, error) {
	rows, err := e.reader.ReadRows(ctx, ledger.Expenses)
	if err != nil {
		return "", fmt.Errorf("leer gastos: %w", err)
	}
	if !hasDataRows(rows) {
		return NoExpenses, nil
	}
	return renderTotals("Total de Gastos", expenseTotals(parseExpenses(rows))), nil
}

// Balance renders sale totals minus expense totals with the sign indicator.
func (e *Engine) Balance(ctx context.Context) (string, error) {
	saleRows, err := e.reader.ReadRows(ctx, ledger.Sales)
	if err != nil {
		return "", fmt.Errorf("leer ventas: %w", err)
	}
	expenseRows, err := e.reader.ReadRows(ctx, ledger.Expenses)
	if err != nil {
		return "", fmt.Errorf("leer gastos: %w", err)
	}
	if !hasDataRows(saleRows) && !hasDataRows(expenseRows) {
		return NoSales, nil
	}
	return renderBalance(balanceOf(parseSales(saleRows), parseExpenses(expenseRows))), nil
}

// ClientSummary renders per-client groups sorted by client key, plus a
// totals row.
func (e *Engine) ClientSummary(ctx context.Context) (string, error) {
	rows, err := e.reader.ReadRows(ctx, ledger.Sales)
	if err != nil {
		return "", fmt.Errorf("leer ventas: %w", err)
	}
	if !hasDataRows(rows) {
		return NoSales, nil
	}
	groups := clientSummary(parseSales(rows))
	if len(groups) == 0 {
		return NoSales, nil
	}
	return renderClientSummary(groups), nil
}

// ClientDetail renders every sale whose client matches name, in ledger
// order, with totals including debt.
func (e *Engine) ClientDetail(ctx context.Context, name string) (string, error) {
	rows, err := e.reader.ReadRows(ctx, ledger.Sales)
	if err != nil {
		return "", fmt.Errorf("leer ventas: %w", err)
	}
	matches := clientDetail(parseSales(rows), name)
	if len(matches) == 0 {
		return fmt.Sprintf("No hay ventas registradas para: %s", name), nil
	}
	return renderClientDetail(name, matches), nil
}

// ExpenseSummary renders per-description groups with method subtotals.
func (e *Engine) ExpenseSummary(ctx context.Context) (string, error) {
	rows, err := e.reader.ReadRows(ctx, ledger.Expenses)
	if err != nil {
		return "", fmt.Errorf("leer gastos: %w", err)
	}
	if !hasDataRows(rows) {
		return NoExpenses, nil
	}
	groups := expenseSummary(parseExpenses(rows))
	if len(groups) == 0 {
		return NoExpenses, nil
	}
	return renderExpenseSummary(groups), nil
}

// ExpenseDetail renders every expense matching description with method
// subtotals.
func (e *Engine) ExpenseDetail(ctx context.Context, description string) (string, error) {
	rows, err := e.reader.ReadRows(ctx, ledger.Expenses)
	if err != nil {
		return "", fmt.Errorf("leer gastos: %w", err)
	}
	matches := expenseDetail(parseExpenses(rows), description)
	if len(matches) == 0 {
		return fmt.Sprintf("No hay gastos registrados para: %s", description), nil
	}
	return renderExpenseDetail(description, matches), nil
}
