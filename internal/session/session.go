// Package session drives the per-user guided-entry flows. Each session is
// a linear state machine: one prompt per step, advance only on valid input,
// self-loop on invalid input, and a fully populated draft at the end.
package session

import (
	"sync"
	"time"

	"ventas/internal/core"
)

// Kind selects which of the two flows a session runs.
type Kind int

const (
	KindSale Kind = iota
	KindExpense
)

func (k Kind) String() string {
	if k == KindSale {
		return "venta"
	}
	return "gasto"
}

// Step is one prompt/validate position in a flow.
type Step int

const (
	StepClient Step = iota
	StepQuantity
	StepAmount
	StepDebt
	StepSaleMethod
	StepDescription
	StepCost
	StepExpenseMethod
)

// Transition tables. Flows are fixed linear sequences; the index into the
// table is the session's current position.
var (
	saleSteps    = []Step{StepClient, StepQuantity, StepAmount, StepDebt, StepSaleMethod}
	expenseSteps = []Step{StepDescription, StepCost, StepExpenseMethod}
)

var prompts = map[Step]string{
	StepClient:        "¿Cuál es el nombre del cliente?",
	StepQuantity:      "¿Qué cantidad se vendió?",
	StepAmount:        "¿Cuál es el valor a pagar?",
	StepDebt:          "¿Cuál es el monto de deuda? (si no hay, escribe 0)",
	StepSaleMethod:    "¿Cuál es el método de pago? (Nequi o Efectivo)",
	StepDescription:   "¿Cuál es la descripción del gasto?",
	StepCost:          "¿Cuál es el costo?",
	StepExpenseMethod: "¿Cuál es el método de pago? (Nequi o Efectivo)",
}

const (
	remindNumber = "Por favor, ingresa un número válido."
	remindMethod = "Por favor, selecciona Nequi o Efectivo."
	remindText   = "Por favor, ingresa un texto no vacío."
)

// Session is one user's in-progress entry. All mutation goes through Apply
// under the session's own lock, so one user's messages are serialized while
// other users' sessions advance independently.
type Session struct {
	mu           sync.Mutex
	userID       int64
	kind         Kind
	pos          int
	sale         core.Sale
	expense      core.Expense
	lastActivity time.Time
}

func newSession(userID int64, kind Kind) *Session {
	return &Session{userID: userID, kind: kind, lastActivity: time.Now()}
}

func (s *Session) steps() []Step {
	if s.kind == KindSale {
		return saleSteps
	}
	return expenseSteps
}

func (s *Session) Kind() Kind {
	return s.kind
}

// Prompt returns the prompt for the current step.
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return prompts[s.steps()[s.pos]]
}

// Apply routes text through the current step's validator. When validation
// fails the draft is untouched, the position does not move, and the reply
// re-issues the prompt with a reminder. When the last step validates the
// session reports done and the caller commits the draft.
func (s *Session) Apply(text string) (done bool, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()

	steps := s.steps()
	if s.pos >= len(steps) {
		// The flow already completed on a concurrent message and is being
		// committed by its caller. This text is not an answer; only the
		// completing Apply ever reports done.
		return false, ""
	}

	step := steps[s.pos]
	if reminder, ok := s.validate(step, text); !ok {
		return false, reminder + "\n" + prompts[step]
	}

	s.pos++
	if s.pos >= len(steps) {
		return true, ""
	}
	return false, prompts[steps[s.pos]]
}

// validate parses text for one step and stores the typed value in the
// draft. Only the step's own field is touched.
func (s *Session) validate(step Step, text string) (reminder string, ok bool) {
	switch step {
	case StepClient:
		if len(text) == 0 {
			return remindText, false
		}
		s.sale.Client = text
	case StepQuantity:
		q, err := core.ParseQuantity(text)
		if err != nil {
			return remindNumber, false
		}
		s.sale.Quantity = q
	case StepAmount:
		m, err := core.ParseAmount(text)
		if err != nil {
			return remindNumber, false
		}
		s.sale.Amount = m
	case StepDebt:
		m, err := core.ParseAmount(text)
		if err != nil {
			return remindNumber, false
		}
		s.sale.Debt = m
	case StepSaleMethod:
		m, err := core.ParsePaymentMethod(text)
		if err != nil {
			return remindMethod, false
		}
		s.sale.Method = m
	case StepDescription:
		if len(text) == 0 {
			return remindText, false
		}
		s.expense.Description = text
	case StepCost:
		m, err := core.ParseAmount(text)
		if err != nil {
			return remindNumber, false
		}
		s.expense.Cost = m
	case StepExpenseMethod:
		m, err := core.ParsePaymentMethod(text)
		if err != nil {
			return remindMethod, false
		}
		s.expense.Method = m
	}
	return "", true
}

// Sale returns the completed sale draft with the commit date attached.
func (s *Session) Sale(date core.Date) core.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale := s.sale
	sale.Date = date
	return sale
}

// Expense returns the completed expense draft.
func (s *Session) Expense() core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expense
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActivity)
}
