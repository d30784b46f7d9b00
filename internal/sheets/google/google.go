package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"sheetfinance/internal/core"
	ports "sheetfinance/internal/sheets"
)

// Client reads and writes the spreadsheet that backs the application. Each
// entity lives in its own tab; rows are plain values with dates in
// YYYY-MM-DD form.
type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	recurringSheet    string
	goalsSheet        string
	billsSheet        string
}

// Ensure interface conformance
var (
	_ ports.TransactionSource = (*Client)(nil)
	_ ports.RecurringSource   = (*Client)(nil)
	_ ports.GoalSource        = (*Client)(nil)
	_ ports.BillSource        = (*Client)(nil)
	_ ports.TransactionWriter = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: either a service account (GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS) or an
// OAuth user token produced by cmd/oauth-init (GOOGLE_OAUTH_CLIENT_FILE +
// GOOGLE_OAUTH_TOKEN_FILE, or their *_JSON variants).
// Optional tab names: GOOGLE_TRANSACTIONS_SHEET (default "Transactions"),
// GOOGLE_RECURRING_SHEET ("Recurring"), GOOGLE_GOALS_SHEET
// ("GoalTransactions"), GOOGLE_BILLS_SHEET ("Bills").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		transactionsSheet: envOr("GOOGLE_TRANSACTIONS_SHEET", "Transactions"),
		recurringSheet:    envOr("GOOGLE_RECURRING_SHEET", "Recurring"),
		goalsSheet:        envOr("GOOGLE_GOALS_SHEET", "GoalTransactions"),
		billsSheet:        envOr("GOOGLE_BILLS_SHEET", "Bills"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// newSheetsService picks an auth strategy: OAuth user token when one is
// configured, service account credentials otherwise.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	if hasOAuthConfig() {
		return newOAuthService(ctx)
	}
	return newServiceAccountService(ctx)
}

func hasOAuthConfig() bool {
	return os.Getenv("GOOGLE_OAUTH_CLIENT_JSON") != "" || os.Getenv("GOOGLE_OAUTH_CLIENT_FILE") != ""
}

func newOAuthService(ctx context.Context) (*gsheet.Service, error) {
	clientJSON, err := readEnvJSON("GOOGLE_OAUTH_CLIENT_JSON", "GOOGLE_OAUTH_CLIENT_FILE")
	if err != nil {
		return nil, fmt.Errorf("oauth client credentials: %w", err)
	}
	tokenJSON, err := readEnvJSON("GOOGLE_OAUTH_TOKEN_JSON", "GOOGLE_OAUTH_TOKEN_FILE")
	if err != nil {
		return nil, fmt.Errorf("oauth token (run cmd/oauth-init first): %w", err)
	}

	cfg, err := oauthgoogle.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with OAuth user token")
	return gsheet.NewService(ctx, goption.WithTokenSource(cfg.TokenSource(ctx, &tok)))
}

func newServiceAccountService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON, err := readEnvJSON("GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE", "GOOGLE_APPLICATION_CREDENTIALS")
	if err != nil {
		return nil, errors.New("missing credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, GOOGLE_APPLICATION_CREDENTIALS, or OAuth client/token)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with service account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// readEnvJSON returns inline JSON from the first env var when set, otherwise
// reads the file named by one of the remaining vars.
func readEnvJSON(inlineKey string, fileKeys ...string) ([]byte, error) {
	if v := strings.TrimSpace(os.Getenv(inlineKey)); v != "" {
		return []byte(v), nil
	}
	for _, key := range fileKeys {
		path := strings.TrimSpace(os.Getenv(key))
		if path == "" {
			continue
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("none of %s/%v set", inlineKey, fileKeys)
}

// Append implements ports.TransactionWriter by appending one row to the
// transactions tab.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:G", c.transactionsSheet)
	vr := &gsheet.ValueRange{Values: [][]any{{
		tx.ID,
		tx.Date.String(),
		string(tx.Kind),
		tx.Description,
		tx.Amount.Float(),
		tx.Category,
		tx.PaymentMethod,
	}}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.transactionsSheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// ListTransactions implements ports.TransactionSource.
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := c.readRows(ctx, c.transactionsSheet, "A:G")
	if err != nil {
		return nil, err
	}
	var out []core.Transaction
	for i, row := range rows {
		tx, ok := parseTransactionRow(row)
		if !ok {
			if i > 0 {
				slog.DebugContext(ctx, "Skipping malformed transaction row", "sheet", c.transactionsSheet, "row", i+1)
			}
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// ListRecurring implements ports.RecurringSource.
func (c *Client) ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	rows, err := c.readRows(ctx, c.recurringSheet, "A:J")
	if err != nil {
		return nil, err
	}
	var out []core.RecurringTransaction
	for i, row := range rows {
		def, ok := parseRecurringRow(row)
		if !ok {
			if i > 0 {
				slog.DebugContext(ctx, "Skipping malformed recurring row", "sheet", c.recurringSheet, "row", i+1)
			}
			continue
		}
		out = append(out, def)
	}
	return out, nil
}

// ListGoalTransactions implements ports.GoalSource.
func (c *Client) ListGoalTransactions(ctx context.Context) ([]core.GoalTransaction, error) {
	rows, err := c.readRows(ctx, c.goalsSheet, "A:E")
	if err != nil {
		return nil, err
	}
	var out []core.GoalTransaction
	for i, row := range rows {
		gt, ok := parseGoalRow(row)
		if !ok {
			if i > 0 {
				slog.DebugContext(ctx, "Skipping malformed goal row", "sheet", c.goalsSheet, "row", i+1)
			}
			continue
		}
		out = append(out, gt)
	}
	return out, nil
}

// ListBills implements ports.BillSource.
func (c *Client) ListBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := c.readRows(ctx, c.billsSheet, "A:G")
	if err != nil {
		return nil, err
	}
	var out []core.Bill
	for i, row := range rows {
		bill, ok := parseBillRow(row)
		if !ok {
			if i > 0 {
				slog.DebugContext(ctx, "Skipping malformed bill row", "sheet", c.billsSheet, "row", i+1)
			}
			continue
		}
		out = append(out, bill)
	}
	return out, nil
}

func (c *Client) readRows(ctx context.Context, sheetName, cols string) ([][]interface{}, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", sheetName, cols)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}
