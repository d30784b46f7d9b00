package backend

import (
	"context"
	"fmt"
	"log/slog"

	"sheetfinance/internal/adapters"
	"sheetfinance/internal/amqp"
	gsheet "sheetfinance/internal/sheets/google"
	"sheetfinance/internal/sheets/memory"
	"sheetfinance/internal/storage"
)

// DefaultFactory builds backends from their configuration.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	switch cfg.Type {
	case SQLite:
		return f.createSQLiteBackend(ctx, cfg)
	case Sheets:
		return f.createSheetsBackend(ctx)
	case Memory:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

// createSQLiteBackend wires the local-first mode: writes land in SQLite, the
// AMQP publisher nudges the sync worker, and reference data comes from the
// spreadsheet when one is configured.
func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	var reference adapters.ReferenceSource
	if cfg.GoogleSpreadsheetID != "" {
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			repo.Close()
			if amqpClient != nil {
				amqpClient.Close()
			}
			return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		reference = cli
	} else {
		f.logger.Info("No spreadsheet configured, reference data will be empty")
	}

	result := &Result{
		Backend: adapters.NewLocalFirstBackend(repo, reference),
		Store:   repo,
		Cleanup: func() error {
			if amqpClient != nil {
				amqpClient.Close()
			}
			return repo.Close()
		},
	}
	if amqpClient != nil {
		result.Publisher = amqpClient
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil,
		"sheets_reference", reference != nil)
	return result, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context) (*Result, error) {
	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend")
	return &Result{
		Backend: cli,
		Store:   adapters.NewBackendStore(cli),
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	store := memory.New()

	f.logger.Info("Initialized memory backend")
	return &Result{
		Backend: store,
		Store:   adapters.NewBackendStore(store),
	}, nil
}
