package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"ventas/internal/ledger"
)

// RowSyncMessage asks the worker to mirror one ledger row to the
// spreadsheet. It carries only the table and row id; the worker fetches
// the row from SQLite.
type RowSyncMessage struct {
	Table     string    `json:"table"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRowSyncMessage(t ledger.Table, id int64) *RowSyncMessage {
	return &RowSyncMessage{
		Table:     string(t),
		ID:        id,
		Timestamp: time.Now(),
	}
}

// LedgerTable maps the message's table name back to the ledger table.
func (m *RowSyncMessage) LedgerTable() (ledger.Table, error) {
	switch ledger.Table(m.Table) {
	case ledger.Sales:
		return ledger.Sales, nil
	case ledger.Expenses:
		return ledger.Expenses, nil
	}
	return "", fmt.Errorf("unknown table in sync message: %q", m.Table)
}

func (m *RowSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RowSyncMessageFromJSON(data []byte) (*RowSyncMessage, error) {
	var msg RowSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
