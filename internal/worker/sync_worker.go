// Package worker pushes locally stored transactions to the spreadsheet. The
// AMQP queue is the fast path; a periodic scan over sync_status catches
// anything a lost message left behind.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sheetfinance/internal/amqp"
	"sheetfinance/internal/sheets"
	"sheetfinance/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	writer    sheets.TransactionWriter
	batchSize int
}

func NewSyncWorker(repo *storage.SQLiteRepository, writer sheets.TransactionWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   repo,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one sync message from the queue. The message
// only carries the ID; the row is always re-read from SQLite so the freshest
// version is what lands in the spreadsheet.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	if err := w.pushToSheets(ctx, msg.ID); err != nil {
		return fmt.Errorf("sync transaction to sheets: %w", err)
	}
	return nil
}

// ProcessPending syncs transactions still in 'pending' state. Backup path
// for lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.pushToSheets(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", p.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending backlog once at worker startup to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		if err := w.pushToSheets(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)
	return nil
}

// RunPeriodicCatchUp scans for pending rows on the given interval until the
// context is cancelled.
func (w *SyncWorker) RunPeriodicCatchUp(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic catch-up failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) pushToSheets(ctx context.Context, id string) error {
	tx, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	ref, err := w.writer.Append(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The append worked; losing the status update only means one
		// duplicate push on the next catch-up scan.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Synced transaction",
		"id", id,
		"sheets_ref", ref,
		"amount_cents", tx.Amount.Cents)
	return nil
}
