// Package memory provides an in-process Backend used for local development
// and tests. It keeps the same snapshot semantics as the Sheets adapter:
// List methods return copies, so callers can never mutate the store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"sheetfinance/internal/core"
	ports "sheetfinance/internal/sheets"
)

type Store struct {
	mu        sync.RWMutex
	txs       []core.Transaction
	recurring []core.RecurringTransaction
	goals     []core.GoalTransaction
	bills     []core.Bill
}

var _ ports.Backend = (*Store)(nil)

// New returns an empty writable store.
func New() *Store {
	return &Store{}
}

// NewSeeded returns a store preloaded with fixture data. Useful in tests and
// for running the server without credentials.
func NewSeeded(
	txs []core.Transaction,
	recurring []core.RecurringTransaction,
	goals []core.GoalTransaction,
	bills []core.Bill,
) *Store {
	s := New()
	s.txs = append(s.txs, txs...)
	s.recurring = append(s.recurring, recurring...)
	s.goals = append(s.goals, goals...)
	s.bills = append(s.bills, bills...)
	return s
}

func (s *Store) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.txs {
		if existing.ID == tx.ID {
			return "", fmt.Errorf("duplicate transaction id %s", tx.ID)
		}
	}
	s.txs = append(s.txs, tx)
	return fmt.Sprintf("memory:%d", len(s.txs)), nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

func (s *Store) ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RecurringTransaction, len(s.recurring))
	copy(out, s.recurring)
	return out, nil
}

func (s *Store) ListGoalTransactions(ctx context.Context) ([]core.GoalTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.GoalTransaction, len(s.goals))
	copy(out, s.goals)
	return out, nil
}

func (s *Store) ListBills(ctx context.Context) ([]core.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Bill, len(s.bills))
	copy(out, s.bills)
	return out, nil
}

// SetRecurring replaces the recurring definitions. Test helper.
func (s *Store) SetRecurring(defs []core.RecurringTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recurring = append([]core.RecurringTransaction(nil), defs...)
}
