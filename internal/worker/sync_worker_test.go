package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ventas/internal/amqp"
	"ventas/internal/core"
	"ventas/internal/ledger"
	"ventas/internal/ledger/memory"
	"ventas/internal/storage"
)

func newTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "ventas.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testSale() core.Sale {
	return core.Sale{
		Client:   "Ana",
		Date:     core.NewDate(2024, 1, 15),
		Quantity: 2,
		Amount:   core.Money{Cents: 10000},
		Method:   core.Nequi,
	}
}

func TestHandleSyncMessageMirrorsRow(t *testing.T) {
	repo := newTestRepo(t)
	mirror := memory.New()
	w := NewSyncWorker(repo, mirror, 10)
	ctx := context.Background()

	id, err := repo.CreateSale(ctx, testSale())
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if err := w.HandleSyncMessage(ctx, amqp.NewRowSyncMessage(ledger.Sales, id)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	rows, _ := mirror.ReadRows(ctx, ledger.Sales)
	if len(rows) != 2 || rows[1][0] != "Ana" {
		t.Fatalf("row not mirrored: %v", rows)
	}
	pending, _ := repo.PendingSync(ctx, ledger.Sales, 10)
	if len(pending) != 0 {
		t.Fatalf("row still pending after mirror: %v", pending)
	}
}

func TestHandleSyncMessageUnknownTable(t *testing.T) {
	w := NewSyncWorker(newTestRepo(t), memory.New(), 10)
	msg := &amqp.RowSyncMessage{Table: "Otra", ID: 1}
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestProcessPendingSweepsBothTables(t *testing.T) {
	repo := newTestRepo(t)
	mirror := memory.New()
	w := NewSyncWorker(repo, mirror, 10)
	ctx := context.Background()

	repo.CreateSale(ctx, testSale())
	repo.CreateExpense(ctx, core.Expense{Description: "Luz", Cost: core.Money{Cents: 12000}, Method: core.Efectivo})

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	saleRows, _ := mirror.ReadRows(ctx, ledger.Sales)
	expenseRows, _ := mirror.ReadRows(ctx, ledger.Expenses)
	if len(saleRows) != 2 || len(expenseRows) != 2 {
		t.Fatalf("sweep incomplete: sales=%d expenses=%d", len(saleRows), len(expenseRows))
	}
	if p, _ := repo.PendingSync(ctx, ledger.Sales, 10); len(p) != 0 {
		t.Fatalf("sales still pending: %v", p)
	}
	if p, _ := repo.PendingSync(ctx, ledger.Expenses, 10); len(p) != 0 {
		t.Fatalf("expenses still pending: %v", p)
	}
}

type failingSheet struct{ err error }

func (f failingSheet) AppendSale(context.Context, core.Sale) error       { return f.err }
func (f failingSheet) AppendExpense(context.Context, core.Expense) error { return f.err }
func (f failingSheet) ReadRows(context.Context, ledger.Table) ([][]string, error) {
	return nil, f.err
}

// A failed mirror marks the row errored but leaves it pending, so the next
// sweep retries it.
func TestMirrorFailureKeepsRowPending(t *testing.T) {
	repo := newTestRepo(t)
	w := NewSyncWorker(repo, failingSheet{err: errors.New("quota exceeded")}, 10)
	ctx := context.Background()

	id, _ := repo.CreateSale(ctx, testSale())

	if err := w.HandleSyncMessage(ctx, amqp.NewRowSyncMessage(ledger.Sales, id)); err == nil {
		t.Fatal("expected mirror error")
	}
	pending, _ := repo.PendingSync(ctx, ledger.Sales, 10)
	if len(pending) != 1 || pending[0] != id {
		t.Fatalf("pending = %v, want [%d]", pending, id)
	}

	// ProcessPending logs and continues past failures.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
}
