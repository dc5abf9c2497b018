package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Nequi    PaymentMethod = "Nequi"
	Efectivo PaymentMethod = "Efectivo"

	// DateLayout is the calendar-date format stored in the sales ledger.
	DateLayout = "02/01/2006"
)

type (
	// PaymentMethod is the settlement channel recorded with every row.
	// Its string value is exactly what the ledger stores.
	PaymentMethod string

	Date struct {
		time.Time
	}

	// Sale is one completed sale, mapped to ledger columns A-F.
	Sale struct {
		Client   string
		Date     Date
		Quantity float64
		Amount   Money
		Debt     Money
		Method   PaymentMethod
	}

	// Expense is one completed expense, mapped to ledger columns A-C.
	Expense struct {
		Description string
		Cost        Money
		Method      PaymentMethod
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidMethod    = errors.New("invalid payment method")
	ErrEmptyClient      = errors.New("empty client name")
	ErrEmptyDescription = errors.New("empty description")
)

// ParsePaymentMethod matches user text against the two valid methods.
// The match is exact and case-sensitive; anything else is rejected so the
// caller can re-prompt with the valid choices.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case Nequi:
		return Nequi, nil
	case Efectivo:
		return Efectivo, nil
	}
	return "", ErrInvalidMethod
}

func (p PaymentMethod) Valid() bool {
	return p == Nequi || p == Efectivo
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date. Commit attaches it to sales.
func Today() Date {
	return Date{Time: time.Now()}
}

// ParseDate parses a DD/MM/YYYY ledger date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Format renders the date as DD/MM/YYYY for the ledger.
func (d Date) Format() string {
	return d.Time.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (s Sale) Validate() error {
	if len(strings.TrimSpace(s.Client)) == 0 {
		return ErrEmptyClient
	}
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if !s.Method.Valid() {
		return ErrInvalidMethod
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !e.Method.Valid() {
		return ErrInvalidMethod
	}
	return nil
}
