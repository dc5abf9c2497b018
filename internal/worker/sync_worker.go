// Package worker mirrors rows recorded in the SQLite ledger to the Google
// Sheets spreadsheet. Messages drive the normal path; a periodic pending
// sweep recovers rows whose message was lost.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ventas/internal/amqp"
	"ventas/internal/ledger"
	"ventas/internal/storage"
)

type SyncWorker struct {
	storage   *storage.Repository
	sheets    ledger.Store
	batchSize int
}

func NewSyncWorker(repo *storage.Repository, sheets ledger.Store, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   repo,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage mirrors the one row a message names.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RowSyncMessage) error {
	table, err := msg.LedgerTable()
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "processing sync message", "table", msg.Table, "id", msg.ID)

	if err := w.mirrorRow(ctx, table, msg.ID); err != nil {
		return fmt.Errorf("mirror row: %w", err)
	}
	return nil
}

// ProcessPending mirrors any rows that never got a message through. This
// is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	for _, table := range []ledger.Table{ledger.Sales, ledger.Expenses} {
		ids, err := w.storage.PendingSync(ctx, table, w.batchSize)
		if err != nil {
			return fmt.Errorf("get pending %s: %w", table, err)
		}
		if len(ids) == 0 {
			continue
		}
		slog.InfoContext(ctx, "processing pending rows", "table", table, "count", len(ids))
		for _, id := range ids {
			if err := w.mirrorRow(ctx, table, id); err != nil {
				slog.ErrorContext(ctx, "failed to mirror pending row", "table", table, "id", id, "error", err)
				continue
			}
		}
	}
	return nil
}

func (w *SyncWorker) mirrorRow(ctx context.Context, table ledger.Table, id int64) error {
	var appendErr error
	switch table {
	case ledger.Sales:
		sale, err := w.storage.GetSale(ctx, id)
		if err != nil {
			return fmt.Errorf("get sale from storage: %w", err)
		}
		appendErr = w.sheets.AppendSale(ctx, sale)
	case ledger.Expenses:
		expense, err := w.storage.GetExpense(ctx, id)
		if err != nil {
			return fmt.Errorf("get expense from storage: %w", err)
		}
		appendErr = w.sheets.AppendExpense(ctx, expense)
	default:
		return fmt.Errorf("unknown table: %s", table)
	}

	if appendErr != nil {
		if markErr := w.storage.MarkSyncError(ctx, table, id); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark sync error", "table", table, "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", appendErr)
	}

	if err := w.storage.MarkSynced(ctx, table, id); err != nil {
		// The mirror itself worked; only the bookkeeping failed.
		slog.ErrorContext(ctx, "failed to mark as synced", "table", table, "id", id, "error", err)
	}

	slog.InfoContext(ctx, "row mirrored to sheets", "table", table, "id", id)
	return nil
}
