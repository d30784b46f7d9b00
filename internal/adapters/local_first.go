package adapters

import (
	"context"

	"sheetfinance/internal/core"
	"sheetfinance/internal/sheets"
	"sheetfinance/internal/storage"
)

// ReferenceSource provides the spreadsheet-managed reference data that the
// local database does not hold.
type ReferenceSource interface {
	sheets.RecurringSource
	sheets.GoalSource
	sheets.BillSource
}

// LocalFirstBackend serves transactions from the local SQLite store and
// reference data (recurring definitions, goals, bills) from the spreadsheet.
// With no spreadsheet configured the reference listings are empty, which
// keeps forecast and balance usable offline.
type LocalFirstBackend struct {
	repo      *storage.SQLiteRepository
	reference ReferenceSource
}

var _ sheets.Backend = (*LocalFirstBackend)(nil)

func NewLocalFirstBackend(repo *storage.SQLiteRepository, reference ReferenceSource) *LocalFirstBackend {
	return &LocalFirstBackend{repo: repo, reference: reference}
}

func (b *LocalFirstBackend) Append(ctx context.Context, tx core.Transaction) (string, error) {
	return b.repo.Append(ctx, tx)
}

func (b *LocalFirstBackend) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return b.repo.ListTransactions(ctx)
}

func (b *LocalFirstBackend) ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	if b.reference == nil {
		return []core.RecurringTransaction{}, nil
	}
	return b.reference.ListRecurring(ctx)
}

func (b *LocalFirstBackend) ListGoalTransactions(ctx context.Context) ([]core.GoalTransaction, error) {
	if b.reference == nil {
		return []core.GoalTransaction{}, nil
	}
	return b.reference.ListGoalTransactions(ctx)
}

func (b *LocalFirstBackend) ListBills(ctx context.Context) ([]core.Bill, error) {
	if b.reference == nil {
		return []core.Bill{}, nil
	}
	return b.reference.ListBills(ctx)
}
