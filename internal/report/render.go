package report

import (
	"fmt"
	"strings"

	"ventas/internal/core"
)

func formatCents(c int64) string {
	return core.Money{Cents: c}.Format()
}

// Rendering produces plain fixed-width text. The transport decides how to
// frame it (the original UI wrapped tables in a monospace block).

func renderTotals(title string, t Totals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", title)
	fmt.Fprintf(&b, "Total: %s\n", t.Total.Format())
	fmt.Fprintf(&b, "Nequi: %s\n", t.Nequi.Format())
	fmt.Fprintf(&b, "Efectivo: %s\n", t.Efectivo.Format())
	fmt.Fprintf(&b, "Registros: %d", t.Records)
	return b.String()
}

func renderBalance(b Balance) string {
	indicator := "positivo"
	if !b.Positive() {
		indicator = "negativo"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Balance General (%s)\n\n", indicator)
	fmt.Fprintf(&sb, "Ventas Totales: %s\n", b.Sales.Format())
	fmt.Fprintf(&sb, "Gastos Totales: %s\n", b.Expenses.Format())
	fmt.Fprintf(&sb, "Balance: %s", b.Net.Format())
	return sb.String()
}

func renderClientSummary(groups []ClientGroup) string {
	const rule = "-----------------------------------------------------------"
	var b strings.Builder
	b.WriteString("Resumen de Clientes\n\n")
	fmt.Fprintf(&b, "%-20s %11s %15s %6s\n", "Cliente", "Cantidad", "Total", "Trans.")
	b.WriteString(rule + "\n")
	var totalQty float64
	var totalAmount int64
	totalTrans := 0
	for _, g := range groups {
		fmt.Fprintf(&b, "%-20s %11.2f %15s %6d\n",
			g.Client, g.Quantity, g.Amount.Format(), g.Transactions)
		totalQty += g.Quantity
		totalAmount += g.Amount.Cents
		totalTrans += g.Transactions
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-20s %11.2f %15s %6d\n",
		"TOTAL", totalQty, formatCents(totalAmount), totalTrans)
	b.WriteString("\nPara ver detalles de un cliente usa: /cliente nombre")
	return b.String()
}

func renderClientDetail(name string, sales []saleRow) string {
	const rule = "----------------------------------------------------------------"
	var totalQty float64
	var totalAmount, totalDebt int64
	var b strings.Builder
	fmt.Fprintf(&b, "Detalles de %s\n\n", strings.ToUpper(name))
	fmt.Fprintf(&b, "%-12s %11s %14s %12s %-10s\n", "Fecha", "Cantidad", "Valor", "Deuda", "Método")
	b.WriteString(rule + "\n")
	for _, s := range sales {
		fmt.Fprintf(&b, "%-12s %11.2f %14s %12s %-10s\n",
			s.Date, s.Quantity, s.Amount.Format(), s.Debt.Format(), s.Method)
		totalQty += s.Quantity
		totalAmount += s.Amount.Cents
		totalDebt += s.Debt.Cents
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-12s %11.2f %14s %12s\n", "TOTAL", totalQty, formatCents(totalAmount), formatCents(totalDebt))
	fmt.Fprintf(&b, "\nTransacciones: %d\n", len(sales))
	fmt.Fprintf(&b, "Cantidad Total: %.2f\n", totalQty)
	fmt.Fprintf(&b, "Valor Total: %s\n", formatCents(totalAmount))
	fmt.Fprintf(&b, "Deuda Pendiente: %s", formatCents(totalDebt))
	return b.String()
}

func renderExpenseSummary(groups []ExpenseGroup) string {
	const rule = "----------------------------------------------------------------------"
	var b strings.Builder
	b.WriteString("Resumen de Gastos\n\n")
	fmt.Fprintf(&b, "%-20s %6s %14s %12s %12s\n", "Gasto", "Cant.", "Total", "Nequi", "Efectivo")
	b.WriteString(rule + "\n")
	var total, nequi, efectivo int64
	records := 0
	for _, g := range groups {
		fmt.Fprintf(&b, "%-20s %6d %14s %12s %12s\n",
			g.Description, g.Records, g.Total.Format(), g.Nequi.Format(), g.Efectivo.Format())
		total += g.Total.Cents
		nequi += g.Nequi.Cents
		efectivo += g.Efectivo.Cents
		records += g.Records
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-20s %6d %14s %12s %12s\n",
		"TOTAL", records, formatCents(total), formatCents(nequi), formatCents(efectivo))
	b.WriteString("\nPara ver detalles de un gasto usa: /gasto descripción")
	return b.String()
}

func renderExpenseDetail(description string, entries []numberedExpense) string {
	const rule = "--------------------------------"
	var total, nequi, efectivo int64
	var b strings.Builder
	fmt.Fprintf(&b, "Detalles de Gasto: %s\n\n", strings.ToUpper(description))
	fmt.Fprintf(&b, "%-4s %14s %-12s\n", "#", "Costo", "Método")
	b.WriteString(rule + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-4d %14s %-12s\n", e.Number, e.Cost.Format(), e.Method)
		total += e.Cost.Cents
		switch core.PaymentMethod(e.Method) {
		case core.Nequi:
			nequi += e.Cost.Cents
		case core.Efectivo:
			efectivo += e.Cost.Cents
		}
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-4s %14s\n", "TOT", formatCents(total))
	fmt.Fprintf(&b, "\nRegistros: %d\n", len(entries))
	fmt.Fprintf(&b, "Costo Total: %s\n", formatCents(total))
	fmt.Fprintf(&b, "Nequi: %s\n", formatCents(nequi))
	fmt.Fprintf(&b, "Efectivo: %s", formatCents(efectivo))
	return b.String()
}
