// Package storage implements the local-first SQLite store. Writes land here
// first with sync_status 'pending'; the sync worker pushes them to the
// spreadsheet afterwards and flips the status.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sheetfinance/internal/core"

	_ "modernc.org/sqlite"
)

const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

var ErrNotFound = errors.New("transaction not found")

type SQLiteRepository struct {
	db *sql.DB
}

// PendingSync carries the minimal data the sync queue needs per transaction.
type PendingSync struct {
	ID        string
	Version   int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements sheets.TransactionWriter. The row starts in 'pending'
// sync state.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, tx_date, kind, description, amount_cents, category, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Date.String(), string(tx.Kind), tx.Description,
		tx.Amount.Cents, tx.Category, tx.PaymentMethod,
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"date", tx.Date.String(),
		"kind", tx.Kind,
		"amount_cents", tx.Amount.Cents)

	return tx.ID, nil
}

// ListTransactions implements sheets.TransactionSource.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tx_date, kind, description, amount_cents, category, payment_method
		FROM transactions
		ORDER BY tx_date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListByMonth returns realized transactions within one calendar month.
func (r *SQLiteRepository) ListByMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tx_date, kind, description, amount_cents, category, payment_method
		FROM transactions
		WHERE tx_date LIKE ? || '%'
		ORDER BY tx_date, created_at`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %04d-%02d: %w", year, month, err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// GetTransaction returns one transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tx_date, kind, description, amount_cents, category, payment_method
		FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

// GetPendingSync returns transactions still waiting to be pushed to the
// spreadsheet, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, created_at
		FROM transactions
		WHERE sync_status = ?
		ORDER BY created_at
		LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var out []PendingSync
	for rows.Next() {
		var p PendingSync
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := r.setSyncStatus(ctx, id, SyncSynced); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.setSyncStatus(ctx, id, SyncError); err != nil {
		return err
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = ?, version = version + 1
		WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set sync status %s on %s: %w", status, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set sync status on %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		dateStr string
		kind    string
	)
	if err := row.Scan(&tx.ID, &dateStr, &kind, &tx.Description,
		&tx.Amount.Cents, &tx.Category, &tx.PaymentMethod); err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	tx.Date = date
	tx.Kind = core.TransactionKind(kind)
	return tx, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
