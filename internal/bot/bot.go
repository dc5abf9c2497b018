// Package bot routes inbound (userId, text) events into the guided-entry
// sessions or the aggregation queries and produces the textual reply.
package bot

import (
	"context"
	"log/slog"
	"strings"

	"ventas/internal/core"
	"ventas/internal/ledger"
	"ventas/internal/report"
	"ventas/internal/session"
)

// Entry-point triggers and commands. Trigger matching is exact: a trigger
// is never a validated field value.
const (
	CmdStart          = "/start"
	CmdHelp           = "/help"
	CmdNewSale        = "/nuevaventa"
	CmdNewExpense     = "/nuevogasto"
	CmdCancel         = "/cancel"
	CmdSalesTotal     = "/totventas"
	CmdExpensesTotal  = "/totgastos"
	CmdBalance        = "/balance"
	CmdClientSummary  = "/resumen"
	CmdClientDetail   = "/cliente"
	CmdExpenseSummary = "/resumen_gastos"
	CmdExpenseDetail  = "/gasto"
)

const helpText = `Comandos disponibles:

/start - Mostrar menú principal
/help - Mostrar esta ayuda
/nuevaventa - Agregar una nueva venta
/nuevogasto - Agregar un nuevo gasto
/totventas - Ver total de ventas
/totgastos - Ver total de gastos
/balance - Ver balance final
/resumen - Ver resumen de clientes
/cliente <nombre> - Ver detalles de un cliente
/resumen_gastos - Ver resumen de gastos
/gasto <descripción> - Ver detalles de un gasto
/cancel - Cancelar la operación en curso`

const (
	welcomeText      = "¡Bienvenido! Soy tu asistente de control de gastos y ganancias.\nUsa /help para ver los comandos."
	notUnderstood    = "No entiendo ese mensaje. Usa /help para ver los comandos."
	cancelledText    = "Operación cancelada"
	nothingToCancel  = "No hay ninguna operación en curso"
	newSaleHeader    = "Nuevo Registro de Venta"
	newExpenseHeader = "Nuevo Registro de Gasto"
)

// Engine is the dispatch router. One HandleMessage call per inbound event;
// calls for different users are independent and may run concurrently.
type Engine struct {
	store    ledger.Store
	sessions *session.Manager
	reports  *report.Engine
}

func New(store ledger.Store, sessions *session.Manager) *Engine {
	return &Engine{
		store:    store,
		sessions: sessions,
		reports:  report.New(store),
	}
}

// HandleMessage processes one inbound event and returns the reply. Every
// failure is scoped to this event: store errors come back as reply text,
// never as a crash.
func (e *Engine) HandleMessage(ctx context.Context, userID int64, text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		return e.handleCommand(ctx, userID, text)
	}

	if s, ok := e.sessions.Get(userID); ok {
		return e.advance(ctx, userID, s, text)
	}

	return notUnderstood
}

func (e *Engine) handleCommand(ctx context.Context, userID int64, text string) string {
	cmd, arg := splitCommand(text)

	switch cmd {
	case CmdStart:
		return welcomeText + "\n\n" + helpText
	case CmdHelp:
		return helpText
	case CmdNewSale:
		// An active session of either kind is silently replaced.
		s := e.sessions.Start(userID, session.KindSale)
		return newSaleHeader + "\n\n" + s.Prompt()
	case CmdNewExpense:
		s := e.sessions.Start(userID, session.KindExpense)
		return newExpenseHeader + "\n\n" + s.Prompt()
	case CmdCancel:
		if _, ok := e.sessions.Get(userID); !ok {
			return nothingToCancel
		}
		e.sessions.End(userID)
		return cancelledText
	case CmdSalesTotal:
		return e.reply(ctx, e.reports.SalesTotal)
	case CmdExpensesTotal:
		return e.reply(ctx, e.reports.ExpensesTotal)
	case CmdBalance:
		return e.reply(ctx, e.reports.Balance)
	case CmdClientSummary:
		return e.reply(ctx, e.reports.ClientSummary)
	case CmdClientDetail:
		if arg == "" {
			return "Uso: /cliente nombre"
		}
		return e.replyArg(ctx, e.reports.ClientDetail, arg)
	case CmdExpenseSummary:
		return e.reply(ctx, e.reports.ExpenseSummary)
	case CmdExpenseDetail:
		if arg == "" {
			return "Uso: /gasto descripción"
		}
		return e.replyArg(ctx, e.reports.ExpenseDetail, arg)
	}

	return notUnderstood
}

// advance feeds one answer into the user's session and commits on the
// final step.
func (e *Engine) advance(ctx context.Context, userID int64, s *session.Session, text string) string {
	done, reply := s.Apply(text)
	if done {
		return e.commit(ctx, userID, s)
	}
	if reply == "" {
		// The session completed on a concurrent request before this one
		// ended it; the late text answers nothing.
		return notUnderstood
	}
	return reply
}

// commit performs the single ledger append for a completed draft. Success
// or failure, the session ends here: there is no retry and no buffering of
// the draft.
func (e *Engine) commit(ctx context.Context, userID int64, s *session.Session) string {
	defer e.sessions.End(userID)

	if s.Kind() == session.KindSale {
		sale := s.Sale(core.Today())
		if err := e.store.AppendSale(ctx, sale); err != nil {
			slog.ErrorContext(ctx, "sale append failed", "user_id", userID, "error", err)
			return "Error al guardar: " + err.Error()
		}
		slog.InfoContext(ctx, "sale recorded", "user_id", userID, "client", sale.Client, "amount_cents", sale.Amount.Cents)
		return "Venta registrada correctamente\n\n" +
			"Cliente: " + sale.Client + "\n" +
			"Cantidad: " + ledger.FormatNumberCell(sale.Quantity) + "\n" +
			"Valor: " + sale.Amount.Format() + "\n" +
			"Deuda: " + sale.Debt.Format() + "\n" +
			"Método: " + string(sale.Method)
	}

	expense := s.Expense()
	if err := e.store.AppendExpense(ctx, expense); err != nil {
		slog.ErrorContext(ctx, "expense append failed", "user_id", userID, "error", err)
		return "Error al guardar: " + err.Error()
	}
	slog.InfoContext(ctx, "expense recorded", "user_id", userID, "description", expense.Description, "cost_cents", expense.Cost.Cents)
	return "Gasto registrado correctamente\n\n" +
		"Gasto: " + expense.Description + "\n" +
		"Costo: " + expense.Cost.Format() + "\n" +
		"Método: " + string(expense.Method)
}

func (e *Engine) reply(ctx context.Context, query func(context.Context) (string, error)) string {
	out, err := query(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "report query failed", "error", err)
		return "Error al obtener datos: " + err.Error()
	}
	return out
}

func (e *Engine) replyArg(ctx context.Context, query func(context.Context, string) (string, error), arg string) string {
	out, err := query(ctx, arg)
	if err != nil {
		slog.ErrorContext(ctx, "report query failed", "error", err)
		return "Error al obtener datos: " + err.Error()
	}
	return out
}

// splitCommand separates "/cliente Ana María" into the command and its
// free-text argument.
func splitCommand(text string) (cmd, arg string) {
	parts := strings.SplitN(text, " ", 2)
	cmd = parts[0]
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}
