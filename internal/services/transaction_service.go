// Package services orchestrates the domain engines over the storage and
// messaging adapters. HTTP handlers talk to these types only.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"sheetfinance/internal/core"
)

// SyncPublisher publishes a sync request after a local write. Satisfied by
// *amqp.Client.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id string, version int64) error
}

// TransactionStore is the write-side store behind the service. Satisfied by
// *storage.SQLiteRepository and the adapters over the sheets backends.
type TransactionStore interface {
	Append(ctx context.Context, tx core.Transaction) (string, error)
	ListByMonth(ctx context.Context, year, month int) ([]core.Transaction, error)
	Close() error
}

// TransactionService saves transactions locally first and lets the sync
// worker move them to the spreadsheet afterwards.
type TransactionService struct {
	storage   TransactionStore
	publisher SyncPublisher
}

func NewTransactionService(store TransactionStore, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		storage:   store,
		publisher: publisher,
	}
}

// CreateTransaction validates and stores a transaction, assigning an ID when
// the caller did not provide one. The AMQP publish is best effort: a broker
// outage never fails the request, the periodic catch-up covers it.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	if _, err := s.storage.Append(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message", "id", tx.ID)
		return tx, nil
	}
	if err := s.publisher.PublishTransactionSync(ctx, tx.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", tx.ID, "error", err)
	}
	return tx, nil
}

// ListMonth returns the realized transactions of one calendar month.
func (s *TransactionService) ListMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range", month)
	}
	txs, err := s.storage.ListByMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *TransactionService) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
