package memory

import (
	"context"
	"testing"

	"sheetfinance/internal/core"
)

func validTx(id string) core.Transaction {
	return core.Transaction{
		ID:          id,
		Date:        core.NewDate(2024, 3, 8),
		Kind:        core.Expense,
		Description: "groceries",
		Amount:      core.Money{Cents: 8990},
		Category:    "Mercado",
	}
}

func TestStoreAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, validTx("tx-1"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref == "" {
		t.Error("expected a row reference")
	}

	got, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "tx-1" {
		t.Errorf("unexpected list result: %+v", got)
	}
}

func TestStoreRejectsInvalidTransaction(t *testing.T) {
	s := New()
	tx := validTx("tx-1")
	tx.Description = ""
	if _, err := s.Append(context.Background(), tx); err == nil {
		t.Error("expected validation error")
	}
}

func TestStoreRejectsDuplicateID(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.Append(ctx, validTx("tx-1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(ctx, validTx("tx-1")); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestStoreListReturnsCopies(t *testing.T) {
	s := NewSeeded([]core.Transaction{validTx("tx-1")}, nil, nil, nil)
	ctx := context.Background()

	first, _ := s.ListTransactions(ctx)
	first[0].Description = "mutated"

	second, _ := s.ListTransactions(ctx)
	if second[0].Description != "groceries" {
		t.Error("list must return a snapshot, not the internal slice")
	}
}
