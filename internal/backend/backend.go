// Package backend selects and wires a data backend from configuration.
// The three modes are memory (ephemeral, for development), sheets (direct
// Google Sheets reads and writes) and sqlite (local-first writes with the
// sync worker pushing to the spreadsheet).
package backend

import (
	"context"
	"fmt"

	"sheetfinance/internal/config"
	"sheetfinance/internal/services"
	"sheetfinance/internal/sheets"
)

// Type names a data backend.
type Type string

const (
	Memory Type = "memory"
	Sheets Type = "sheets"
	SQLite Type = "sqlite"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case Memory, Sheets, SQLite:
		return true
	default:
		return false
	}
}

// Types returns every valid backend type.
func Types() []Type {
	return []Type{Memory, Sheets, SQLite}
}

// Config holds what the factory needs to build a backend.
type Config struct {
	Type Type

	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// A non-empty spreadsheet ID enables the Google Sheets client. The
	// client reads its credentials from the environment.
	GoogleSpreadsheetID string
}

// FromAppConfig maps the application configuration onto a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:                t,
		SQLiteDBPath:        appConfig.SQLiteDBPath,
		AMQPURL:             appConfig.AMQPURL,
		AMQPExchange:        appConfig.AMQPExchange,
		AMQPQueue:           appConfig.AMQPQueue,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
	}, nil
}

// Result bundles everything the servers need from a constructed backend.
type Result struct {
	// Backend feeds the forecast and balance services.
	Backend sheets.Backend
	// Store is the transaction write path.
	Store services.TransactionStore
	// Publisher is non-nil only when AMQP sync is active.
	Publisher services.SyncPublisher
	// Cleanup releases backend resources. May be nil.
	Cleanup func() error
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*Result, error)
}
