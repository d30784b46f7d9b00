package sheets

import (
	"context"

	"sheetfinance/internal/core"
)

// Ports for outbound adapters. The forecast and balance services only ever
// see read snapshots; mutation goes through TransactionWriter.
type (
	TransactionSource interface {
		// ListTransactions returns all realized transactions.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	RecurringSource interface {
		// ListRecurring returns all recurring transaction definitions,
		// active and inactive.
		ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error)
	}

	GoalSource interface {
		ListGoalTransactions(ctx context.Context) ([]core.GoalTransaction, error)
	}

	BillSource interface {
		ListBills(ctx context.Context) ([]core.Bill, error)
	}

	TransactionWriter interface {
		// Append stores a transaction and returns an adapter-specific row
		// reference.
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}
)

// Backend is the full surface the HTTP layer needs from a data backend.
type Backend interface {
	TransactionSource
	RecurringSource
	GoalSource
	BillSource
	TransactionWriter
}
