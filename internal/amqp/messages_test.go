package amqp

import (
	"testing"

	"ventas/internal/ledger"
)

func TestRowSyncMessageRoundTrip(t *testing.T) {
	msg := NewRowSyncMessage(ledger.Sales, 42)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := RowSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if back.Table != "Ventas" || back.ID != 42 {
		t.Fatalf("round trip lost fields: %+v", back)
	}
	if back.Timestamp.IsZero() {
		t.Fatal("timestamp not carried")
	}
}

func TestLedgerTable(t *testing.T) {
	for _, table := range []ledger.Table{ledger.Sales, ledger.Expenses} {
		msg := NewRowSyncMessage(table, 1)
		got, err := msg.LedgerTable()
		if err != nil {
			t.Fatalf("LedgerTable(%s): %v", table, err)
		}
		if got != table {
			t.Fatalf("LedgerTable(%s) = %s", table, got)
		}
	}

	bad := &RowSyncMessage{Table: "Otra", ID: 1}
	if _, err := bad.LedgerTable(); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	if _, err := RowSyncMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
