// Package adapters bridges the storage and sheets layers so the services can
// stay backend-agnostic.
package adapters

import (
	"context"

	"sheetfinance/internal/core"
	"sheetfinance/internal/sheets"
)

// BackendStore adapts a sheets.Backend (Google Sheets or the in-memory store)
// to the month-scoped store the transaction service expects. The backends
// only expose full listings, so the month filter runs here.
type BackendStore struct {
	backend sheets.Backend
}

func NewBackendStore(backend sheets.Backend) *BackendStore {
	return &BackendStore{backend: backend}
}

func (s *BackendStore) Append(ctx context.Context, tx core.Transaction) (string, error) {
	return s.backend.Append(ctx, tx)
}

func (s *BackendStore) ListByMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	all, err := s.backend.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0)
	for _, tx := range all {
		if tx.Date.Year == year && tx.Date.Month == month {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *BackendStore) Close() error { return nil }
