// Package worker exports stored expenses to the spreadsheet, driven by
// AMQP messages with a periodic pending scan as the catch-up path.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vydaje/internal/amqp"
	"vydaje/internal/log"
	"vydaje/internal/sheets"
	"vydaje/internal/storage"
)

type SyncWorker struct {
	storage *storage.SQLiteRepository
	writer  sheets.ExpenseWriter
}

func NewSyncWorker(repo *storage.SQLiteRepository, writer sheets.ExpenseWriter) *SyncWorker {
	return &SyncWorker{
		storage: repo,
		writer:  writer,
	}
}

// HandleMessage processes a single sync message from the queue.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	switch msg.Op {
	case amqp.OpUpsert:
		return w.export(ctx, msg.ID)
	case amqp.OpDelete:
		// The sheet is an append-only journal, not a mirror; rows already
		// exported stay there after a local delete.
		slog.InfoContext(ctx, "Expense deleted locally, sheet row kept", log.FieldExpenseID, msg.ID)
		return nil
	default:
		return fmt.Errorf("unknown sync operation %q", msg.Op)
	}
}

// ExportPending scans for unexported rows the queue may have missed and
// exports up to batchSize of them, oldest first. Failures are logged and
// skipped so one bad row cannot block the rest of the batch.
func (w *SyncWorker) ExportPending(ctx context.Context, batchSize int) error {
	ids, err := w.storage.PendingSyncExpenses(ctx, batchSize)
	if err != nil {
		return fmt.Errorf("list pending expenses: %w", err)
	}

	for _, id := range ids {
		if err := w.export(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending expense",
				log.FieldExpenseID, id, log.FieldError, err)
		}
	}

	return nil
}

func (w *SyncWorker) export(ctx context.Context, id int64) error {
	expense, err := w.storage.GetExpense(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before the export ran.
		slog.WarnContext(ctx, "Expense vanished before export", log.FieldExpenseID, id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load expense %d: %w", id, err)
	}

	ref, err := w.writer.Append(ctx, expense)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record sync error",
				log.FieldExpenseID, id, log.FieldError, markErr)
		}
		return fmt.Errorf("append expense %d: %w", id, err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark expense %d synced: %w", id, err)
	}

	slog.InfoContext(ctx, "Expense exported", log.FieldExpenseID, id, "ref", ref)
	return nil
}
