package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ventas/internal/core"
	"ventas/internal/ledger"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "ventas.db"))
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
		Debt:     core.Money{Cents: 2500},
		Method:   core.Nequi,
	}
}

func TestCreateAndGetSale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateSale(ctx, testSale())
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if id == 0 {
		t.Fatal("id not assigned")
	}

	got, err := repo.GetSale(ctx, id)
	if err != nil {
		t.Fatalf("GetSale: %v", err)
	}
	want := testSale()
	if got.Client != want.Client || got.Quantity != want.Quantity ||
		got.Amount != want.Amount || got.Debt != want.Debt || got.Method != want.Method {
		t.Fatalf("round trip: got %+v, want %+v", got, want)
	}
	if got.Date.Format() != "15/01/2024" {
		t.Fatalf("date = %q", got.Date.Format())
	}
}

func TestCreateAndGetExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := core.Expense{Description: "Arriendo", Cost: core.Money{Cents: 50000}, Method: core.Efectivo}
	id, err := repo.CreateExpense(ctx, e)
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	got, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if got != e {
		t.Fatalf("round trip: got %+v, want %+v", got, e)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateSale(ctx, core.Sale{}); err == nil {
		t.Fatal("empty sale accepted")
	}
	if _, err := repo.CreateExpense(ctx, core.Expense{}); err == nil {
		t.Fatal("empty expense accepted")
	}
}

// ReadRows renders the same text-cell shape a spreadsheet range read has:
// header first, numeric cells without symbols or grouping.
func TestReadRowsShape(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateSale(ctx, testSale()); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	rows, err := repo.ReadRows(ctx, ledger.Sales)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != "Cliente" {
		t.Fatalf("header = %v", rows[0])
	}
	want := []string{"Ana", "15/01/2024", "2", "100", "25", "Nequi"}
	for i := range want {
		if rows[1][i] != want[i] {
			t.Fatalf("cell %d = %q, want %q", i, rows[1][i], want[i])
		}
	}

	if _, err := repo.ReadRows(ctx, ledger.Table("Otra")); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestReadRowsAppendOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, client := range []string{"Ana", "Luis", "Mara"} {
		s := testSale()
		s.Client = client
		if _, err := repo.CreateSale(ctx, s); err != nil {
			t.Fatalf("CreateSale(%s): %v", client, err)
		}
	}

	rows, _ := repo.ReadRows(ctx, ledger.Sales)
	got := []string{rows[1][0], rows[2][0], rows[3][0]}
	want := []string{"Ana", "Luis", "Mara"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id1, _ := repo.CreateSale(ctx, testSale())
	id2, _ := repo.CreateSale(ctx, testSale())

	pending, err := repo.PendingSync(ctx, ledger.Sales, 10)
	if err != nil {
		t.Fatalf("PendingSync: %v", err)
	}
	if len(pending) != 2 || pending[0] != id1 || pending[1] != id2 {
		t.Fatalf("pending = %v, want [%d %d]", pending, id1, id2)
	}

	if err := repo.MarkSynced(ctx, ledger.Sales, id1); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	pending, _ = repo.PendingSync(ctx, ledger.Sales, 10)
	if len(pending) != 1 || pending[0] != id2 {
		t.Fatalf("pending after sync = %v, want [%d]", pending, id2)
	}

	// An errored row stays pending for the next sweep.
	if err := repo.MarkSyncError(ctx, ledger.Sales, id2); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}
	pending, _ = repo.PendingSync(ctx, ledger.Sales, 10)
	if len(pending) != 1 || pending[0] != id2 {
		t.Fatalf("pending after error = %v, want [%d]", pending, id2)
	}
}

func TestPendingSyncLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		repo.CreateExpense(ctx, core.Expense{Description: "Luz", Cost: core.Money{Cents: 100}, Method: core.Nequi})
	}
	pending, err := repo.PendingSync(ctx, ledger.Expenses, 3)
	if err != nil {
		t.Fatalf("PendingSync: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("pending = %d, want 3", len(pending))
	}
}

type recordingPublisher struct {
	calls []int64
	err   error
}

func (p *recordingPublisher) PublishRowSync(_ context.Context, _ ledger.Table, id int64) error {
	p.calls = append(p.calls, id)
	return p.err
}

func TestSyncedStorePublishesAppends(t *testing.T) {
	repo := newTestRepo(t)
	pub := &recordingPublisher{}
	store := NewSyncedStore(repo, pub)
	ctx := context.Background()

	if err := store.AppendSale(ctx, testSale()); err != nil {
		t.Fatalf("AppendSale: %v", err)
	}
	if len(pub.calls) != 1 {
		t.Fatalf("publish calls = %d, want 1", len(pub.calls))
	}

	rows, err := store.ReadRows(ctx, ledger.Sales)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
}

// A failed publish never fails the append; the row stays pending for the
// worker's sweep.
func TestSyncedStorePublishFailureKeepsRow(t *testing.T) {
	repo := newTestRepo(t)
	pub := &recordingPublisher{err: errors.New("broker down")}
	store := NewSyncedStore(repo, pub)
	ctx := context.Background()

	if err := store.AppendSale(ctx, testSale()); err != nil {
		t.Fatalf("AppendSale: %v", err)
	}
	pending, _ := repo.PendingSync(ctx, ledger.Sales, 10)
	if len(pending) != 1 {
		t.Fatalf("pending = %v, want one row", pending)
	}
}

func TestSyncedStoreNilPublisher(t *testing.T) {
	repo := newTestRepo(t)
	store := NewSyncedStore(repo, nil)

	if err := store.AppendExpense(context.Background(),
		core.Expense{Description: "Luz", Cost: core.Money{Cents: 100}, Method: core.Nequi}); err != nil {
		t.Fatalf("AppendExpense: %v", err)
	}
}
