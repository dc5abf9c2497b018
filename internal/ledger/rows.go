package ledger

import (
	"strconv"

	"ventas/internal/core"
)

// RowFromSale maps a sale to the documented A-F column order.
func RowFromSale(s core.Sale) []string {
	return []string{
		s.Client,
		s.Date.Format(),
		FormatNumberCell(s.Quantity),
		FormatNumberCell(s.Amount.Amount()),
		FormatNumberCell(s.Debt.Amount()),
		string(s.Method),
	}
}

// RowFromExpense maps an expense to the documented A-C column order.
func RowFromExpense(e core.Expense) []string {
	return []string{
		e.Description,
		FormatNumberCell(e.Cost.Amount()),
		string(e.Method),
	}
}

// FormatNumberCell renders a numeric cell the way the spreadsheet stores it:
// no currency symbol, no grouping, shortest decimal representation.
func FormatNumberCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
