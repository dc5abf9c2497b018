// Package report implements the read-only aggregation queries over the
// ledger: totals, balance, per-client and per-expense summaries and details.
//
// Every query is a full recompute over the rows a range read returned.
// Rows are loosely typed text; a row missing an expected column or whose
// numeric cells fail to parse is excluded from every aggregate and never
// aborts the scan.
package report

import (
	"sort"
	"strings"

	"ventas/internal/core"
)

// saleRow is a well-formed sale row. The date and method stay as stored:
// reports echo them verbatim.
type saleRow struct {
	Client   string
	Date     string
	Quantity float64
	Amount   core.Money
	Debt     core.Money
	Method   string
}

type expenseRow struct {
	Description string
	Cost        core.Money
	Method      string
}

// parseSales drops the header row and returns the well-formed subset.
func parseSales(rows [][]string) []saleRow {
	var out []saleRow
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 6 {
			continue
		}
		qty, err := core.ParseQuantity(row[2])
		if err != nil {
			continue
		}
		amount, err := core.ParseAmount(row[3])
		if err != nil {
			continue
		}
		debt, err := core.ParseAmount(row[4])
		if err != nil {
			continue
		}
		out = append(out, saleRow{
			Client:   row[0],
			Date:     row[1],
			Quantity: qty,
			Amount:   amount,
			Debt:     debt,
			Method:   strings.TrimSpace(row[5]),
		})
	}
	return out
}

func parseExpenses(rows [][]string) []expenseRow {
	var out []expenseRow
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 {
			continue
		}
		cost, err := core.ParseAmount(row[1])
		if err != nil {
			continue
		}
		out = append(out, expenseRow{
			Description: row[0],
			Cost:        cost,
			Method:      strings.TrimSpace(row[2]),
		})
	}
	return out
}

// Totals is the result of the sale-totals and expense-totals queries.
type Totals struct {
	Total    core.Money
	Nequi    core.Money
	Efectivo core.Money
	Records  int
}

func salesTotals(sales []saleRow) Totals {
	var t Totals
	for _, s := range sales {
		t.Total = t.Total.Add(s.Amount)
		switch core.PaymentMethod(s.Method) {
		case core.Nequi:
			t.Nequi = t.Nequi.Add(s.Amount)
		case core.Efectivo:
			t.Efectivo = t.Efectivo.Add(s.Amount)
		}
		t.Records++
	}
	return t
}

func expenseTotals(expenses []expenseRow) Totals {
	var t Totals
	for _, e := range expenses {
		t.Total = t.Total.Add(e.Cost)
		switch core.PaymentMethod(e.Method) {
		case core.Nequi:
			t.Nequi = t.Nequi.Add(e.Cost)
		case core.Efectivo:
			t.Efectivo = t.Efectivo.Add(e.Cost)
		}
		t.Records++
	}
	return t
}

// Balance is sale totals minus expense totals. Positive reports sales at or
// above expenses.
type Balance struct {
	Sales    core.Money
	Expenses core.Money
	Net      core.Money
}

func (b Balance) Positive() bool {
	return b.Net.Cents >= 0
}

func balanceOf(sales []saleRow, expenses []expenseRow) Balance {
	b := Balance{
		Sales:    salesTotals(sales).Total,
		Expenses: expenseTotals(expenses).Total,
	}
	b.Net = core.Money{Cents: b.Sales.Cents - b.Expenses.Cents}
	return b
}

// ClientGroup accumulates one client's sales. Keys are the exact stored
// strings, case-sensitive, no normalization.
type ClientGroup struct {
	Client       string
	Quantity     float64
	Amount       core.Money
	Transactions int
}

// clientSummary groups sales by client and sorts groups lexicographically
// by client key ascending.
func clientSummary(sales []saleRow) []ClientGroup {
	byClient := make(map[string]*ClientGroup)
	for _, s := range sales {
		g, ok := byClient[s.Client]
		if !ok {
			g = &ClientGroup{Client: s.Client}
			byClient[s.Client] = g
		}
		g.Quantity += s.Quantity
		g.Amount = g.Amount.Add(s.Amount)
		g.Transactions++
	}
	out := make([]ClientGroup, 0, len(byClient))
	for _, g := range byClient {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// clientDetail filters sales whose client matches name case-insensitively,
// preserving ledger order.
func clientDetail(sales []saleRow, name string) []saleRow {
	var out []saleRow
	for _, s := range sales {
		if strings.EqualFold(s.Client, name) {
			out = append(out, s)
		}
	}
	return out
}

// ExpenseGroup accumulates one description's expenses with per-method
// subtotals.
type ExpenseGroup struct {
	Description string
	Total       core.Money
	Nequi       core.Money
	Efectivo    core.Money
	Records     int
}

func expenseSummary(expenses []expenseRow) []ExpenseGroup {
	byDesc := make(map[string]*ExpenseGroup)
	for _, e := range expenses {
		g, ok := byDesc[e.Description]
		if !ok {
			g = &ExpenseGroup{Description: e.Description}
			byDesc[e.Description] = g
		}
		g.Total = g.Total.Add(e.Cost)
		g.Records++
		switch core.PaymentMethod(e.Method) {
		case core.Nequi:
			g.Nequi = g.Nequi.Add(e.Cost)
		case core.Efectivo:
			g.Efectivo = g.Efectivo.Add(e.Cost)
		}
	}
	out := make([]ExpenseGroup, 0, len(byDesc))
	for _, g := range byDesc {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out
}

// numberedExpense is an expense row with its 1-based position among the
// table's data rows, for the detail view.
type numberedExpense struct {
	Number int
	expenseRow
}

// expenseDetail filters expenses by description, case-insensitively. The
// number counts well-formed data rows in ledger order.
func expenseDetail(expenses []expenseRow, description string) []numberedExpense {
	var out []numberedExpense
	for i, e := range expenses {
		if strings.EqualFold(e.Description, description) {
			out = append(out, numberedExpense{Number: i + 1, expenseRow: e})
		}
	}
	return out
}

// hasDataRows reports whether the table holds anything below the header.
func hasDataRows(rows [][]string) bool {
	return len(rows) > 1
}
