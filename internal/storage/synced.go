package storage

import (
	"context"
	"log/slog"

	"ventas/internal/core"
	"ventas/internal/ledger"
)

// RowPublisher announces freshly appended rows for mirroring.
type RowPublisher interface {
	PublishRowSync(ctx context.Context, t ledger.Table, id int64) error
}

// SyncedStore is the sqlite-backed ledger handed to the bot engine: every
// append lands in SQLite and then publishes a sync message. A failed
// publish does not fail the append; the worker's pending sweep picks the
// row up later.
type SyncedStore struct {
	repo      *Repository
	publisher RowPublisher
}

var _ ledger.Store = (*SyncedStore)(nil)

// NewSyncedStore wraps the repository. publisher may be nil, in which case
// rows stay local until a worker sweeps them.
func NewSyncedStore(repo *Repository, publisher RowPublisher) *SyncedStore {
	return &SyncedStore{repo: repo, publisher: publisher}
}

func (s *SyncedStore) AppendSale(ctx context.Context, sale core.Sale) error {
	id, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return err
	}
	s.publish(ctx, ledger.Sales, id)
	return nil
}

func (s *SyncedStore) AppendExpense(ctx context.Context, e core.Expense) error {
	id, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return err
	}
	s.publish(ctx, ledger.Expenses, id)
	return nil
}

func (s *SyncedStore) ReadRows(ctx context.Context, t ledger.Table) ([][]string, error) {
	return s.repo.ReadRows(ctx, t)
}

func (s *SyncedStore) publish(ctx context.Context, t ledger.Table, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRowSync(ctx, t, id); err != nil {
		slog.WarnContext(ctx, "sync publish failed, row stays pending", "table", t, "id", id, "error", err)
	}
}
