package core

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"Nequi", true},
		{"Efectivo", true},
		{"nequi", false}, // match is case-sensitive
		{"EFECTIVO", false},
		{"Tarjeta", false},
		{"", false},
		{" Nequi", false},
	}
	for _, tc := range cases {
		m, err := ParsePaymentMethod(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParsePaymentMethod(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParsePaymentMethod(%q) expected error, got %q", tc.in, m)
		}
	}
}

func TestDateFormatParse(t *testing.T) {
	d := NewDate(2024, 1, 2)
	if got := d.Format(); got != "02/01/2024" {
		t.Fatalf("Format = %q, want 02/01/2024", got)
	}
	back, err := ParseDate("02/01/2024")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if back.Format() != d.Format() {
		t.Fatalf("round trip = %q, want %q", back.Format(), d.Format())
	}
	if _, err := ParseDate("2024-01-02"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}

func TestSaleValidate(t *testing.T) {
	good := Sale{
		Client:   "Ana",
		Date:     NewDate(2024, 1, 1),
		Quantity: 2,
		Amount:   Money{Cents: 10000},
		Method:   Nequi,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Sale{
		{Client: "", Date: NewDate(2024, 1, 1), Method: Nequi},
		{Client: "  ", Date: NewDate(2024, 1, 1), Method: Nequi},
		{Client: "Ana", Method: Nequi}, // zero date
		{Client: "Ana", Date: NewDate(2024, 1, 1), Method: "Tarjeta"},
	}
	for i, s := range bads {
		if err := s.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Description: "Arriendo", Cost: Money{Cents: 50000}, Method: Efectivo}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Description: "", Method: Nequi},
		{Description: "Arriendo", Method: ""},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
