package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"sheetfinance/internal/amqp"
	"sheetfinance/internal/core"
	"sheetfinance/internal/sheets/memory"
	"sheetfinance/internal/storage"
)

type failingWriter struct{}

func (failingWriter) Append(ctx context.Context, tx core.Transaction) (string, error) {
	return "", errors.New("sheets unavailable")
}

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedTx(t *testing.T, repo *storage.SQLiteRepository, id string) {
	t.Helper()
	tx := core.Transaction{
		ID:          id,
		Date:        core.NewDate(2024, 3, 8),
		Kind:        core.Expense,
		Description: "groceries",
		Amount:      core.Money{Cents: 8990},
		Category:    "Mercado",
	}
	if _, err := repo.Append(context.Background(), tx); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
}

func TestHandleSyncMessagePushesAndMarksSynced(t *testing.T) {
	repo := newTestRepo(t)
	sink := memory.New()
	w := NewSyncWorker(repo, sink, 10)
	ctx := context.Background()

	seedTx(t, repo, "tx-1")

	msg := amqp.NewTransactionSyncMessage("tx-1", 1)
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("handle sync message: %v", err)
	}

	synced, err := sink.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list sink: %v", err)
	}
	if len(synced) != 1 || synced[0].ID != "tx-1" {
		t.Errorf("unexpected sink contents: %+v", synced)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("transaction should no longer be pending, got %d", len(pending))
	}
}

func TestHandleSyncMessageUnknownID(t *testing.T) {
	repo := newTestRepo(t)
	w := NewSyncWorker(repo, memory.New(), 10)

	msg := amqp.NewTransactionSyncMessage("missing", 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Error("expected error for unknown transaction id")
	}
}

func TestProcessPendingDrainsBacklog(t *testing.T) {
	repo := newTestRepo(t)
	sink := memory.New()
	w := NewSyncWorker(repo, sink, 10)
	ctx := context.Background()

	seedTx(t, repo, "tx-1")
	seedTx(t, repo, "tx-2")

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}

	synced, _ := sink.ListTransactions(ctx)
	if len(synced) != 2 {
		t.Errorf("got %d synced transactions, want 2", len(synced))
	}
	pending, _ := repo.GetPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("backlog not drained, %d still pending", len(pending))
	}
}

func TestPushFailureMarksError(t *testing.T) {
	repo := newTestRepo(t)
	w := NewSyncWorker(repo, failingWriter{}, 10)
	ctx := context.Background()

	seedTx(t, repo, "tx-1")

	// ProcessPending logs and continues on per-row failures.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("failed row should be in 'error' state, not pending")
	}
}

func TestStartupSyncCheckEmptyBacklog(t *testing.T) {
	repo := newTestRepo(t)
	w := NewSyncWorker(repo, memory.New(), 10)
	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("startup check: %v", err)
	}
}
