// Money parsing and formatting.
//
// Amounts are held as int64 cents so aggregation never accumulates
// floating-point drift. User input accepts both dot (12.34) and comma
// (12,34) decimal separators.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary amount in cents.
type Money struct {
	Cents int64
}

// ParseAmount converts user text to Money with half-up rounding on the
// third decimal place. Signed values parse: the guided flows impose no
// lower bound on amounts, matching the recorded baseline behavior.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,34")  -> 1234 cents
//	ParseAmount("0")      -> 0 cents
//	ParseAmount("-5")     -> -500 cents
//	ParseAmount("abc")    -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return Money{}, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		// bare "." is not a number
		return Money{}, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}

	// Take first two fractional digits; half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return Money{Cents: cents}, nil
}

// ParseQuantity converts user text to a quantity. Quantities are not money:
// they keep their float representation for fractional units.
func ParseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidQuantity
	}
	s = strings.ReplaceAll(s, ",", ".")
	body := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if body == "" || body == "." {
		return 0, ErrInvalidQuantity
	}
	dots := 0
	for _, r := range body {
		if r == '.' {
			dots++
			continue
		}
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidQuantity
		}
	}
	if dots > 1 {
		return 0, ErrInvalidQuantity
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidQuantity
	}
	return f, nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Amount returns the value as float64 for display only. Use cents for
// calculations.
func (m Money) Amount() float64 {
	return float64(m.Cents) / 100.0
}

// Format renders the amount as "$1,234.56". The sign goes after the
// currency symbol, matching the ledger reports.
func (m Money) Format() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100
	return "$" + sign + groupThousands(whole) + "." + twoDigits(frac)
}

func groupThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func twoDigits(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}
