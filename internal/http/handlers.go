package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sheetfinance/internal/core"
)

const defaultForecastMonths = 12

type transactionRequest struct {
	Date          string `json:"date"`
	Kind          string `json:"kind"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	PaymentMethod string `json:"paymentMethod"`
}

type transactionResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Kind          string `json:"kind"`
	Description   string `json:"description"`
	AmountCents   int64  `json:"amountCents"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

type occurrenceResponse struct {
	ID          string `json:"id"`
	RecurringID string `json:"recurringId"`
	Date        string `json:"date"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
}

type bucketResponse struct {
	MonthKey                 string `json:"monthKey"`
	Label                    string `json:"label"`
	IncomingCents            int64  `json:"incomingCents"`
	OutgoingCents            int64  `json:"outgoingCents"`
	InvestedDirectCents      int64  `json:"investedDirectCents"`
	InvestedViaGoalsCents    int64  `json:"investedViaGoalsCents"`
	ProjectedReceivableCents int64  `json:"projectedReceivableCents"`
	NetMonthlyCents          int64  `json:"netMonthlyCents"`
	RunningBalanceCents      int64  `json:"runningBalanceCents"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		Date:          tx.Date.String(),
		Kind:          string(tx.Kind),
		Description:   tx.Description,
		AmountCents:   tx.Amount.Cents,
		Amount:        tx.Amount.String(),
		Category:      tx.Category,
		PaymentMethod: tx.PaymentMethod,
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet:
		s.handleListTransactions(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	tx := core.Transaction{
		Date:          date,
		Kind:          core.TransactionKind(strings.ToLower(strings.TrimSpace(req.Kind))),
		Description:   sanitizeInput(req.Description),
		Amount:        core.Money{Cents: cents},
		Category:      sanitizeInput(req.Category),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
	}

	created, err := s.transactions.CreateTransaction(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	// A new transaction changes the balance of its year.
	s.invalidateBalance(created.Date.Year)

	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))

	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	txs, err := s.transactions.ListMonth(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed",
			"error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":         year,
		"month":        month,
		"transactions": out,
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	months := queryInt(r, "months", defaultForecastMonths)
	if months < 0 || months > 120 {
		writeError(w, http.StatusBadRequest, "months must be between 0 and 120")
		return
	}

	key := "forecast-" + strconv.Itoa(months)
	occurrences, cached := s.forecastCache.Get(key)
	if !cached {
		var err error
		occurrences, err = s.forecasts.Forecast(r.Context(), months)
		if err != nil {
			slog.ErrorContext(r.Context(), "Forecast failed", "error", err, "months", months)
			writeError(w, http.StatusInternalServerError, "failed to compute forecast")
			return
		}
		s.forecastCache.Set(key, occurrences)
	}

	out := make([]occurrenceResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, occurrenceResponse{
			ID:          occ.ID,
			RecurringID: occ.RecurringID,
			Date:        occ.Date.String(),
			Kind:        string(occ.Kind),
			Description: occ.Description,
			AmountCents: occ.Amount.Cents,
			Amount:      occ.Amount.String(),
			Category:    occ.Category,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"months":      months,
		"occurrences": out,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year := queryInt(r, "year", time.Now().Year())
	if year < 1 {
		writeError(w, http.StatusBadRequest, "year must be positive")
		return
	}
	includeForecast := queryBool(r, "forecast")

	key := balanceCacheKey(year, includeForecast)
	buckets, cached := s.balanceCache.Get(key)
	if !cached {
		var err error
		buckets, err = s.balances.YearBalance(r.Context(), year, includeForecast)
		if err != nil {
			slog.ErrorContext(r.Context(), "Year balance failed", "error", err, "year", year)
			writeError(w, http.StatusInternalServerError, "failed to compute balance")
			return
		}
		s.balanceCache.Set(key, buckets)
	}

	out := make([]bucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketResponse{
			MonthKey:                 b.MonthKey,
			Label:                    b.Label,
			IncomingCents:            b.Incoming.Cents,
			OutgoingCents:            b.Outgoing.Cents,
			InvestedDirectCents:      b.InvestedDirect.Cents,
			InvestedViaGoalsCents:    b.InvestedViaGoals.Cents,
			ProjectedReceivableCents: b.ProjectedReceivable.Cents,
			NetMonthlyCents:          b.NetMonthly.Cents,
			RunningBalanceCents:      b.RunningBalance.Cents,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"forecast": includeForecast,
		"months":   out,
	})
}

func balanceCacheKey(year int, includeForecast bool) string {
	return "balance-" + strconv.Itoa(year) + "-" + strconv.FormatBool(includeForecast)
}

func (s *Server) invalidateBalance(year int) {
	s.balanceCache.Delete(balanceCacheKey(year, false))
	s.balanceCache.Delete(balanceCacheKey(year, true))
	// The carry-forward also shifts the following year.
	s.balanceCache.Delete(balanceCacheKey(year+1, false))
	s.balanceCache.Delete(balanceCacheKey(year+1, true))
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrEmptyDescription,
		core.ErrEmptyCategory,
		core.ErrInvalidKind,
		core.ErrInvalidDate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryBool(r *http.Request, name string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
