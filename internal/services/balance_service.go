package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"sheetfinance/internal/balance"
	"sheetfinance/internal/core"
	"sheetfinance/internal/forecast"
	"sheetfinance/internal/sheets"
)

// BalanceService assembles the yearly 12-month series from all data sources.
type BalanceService struct {
	backend sheets.Backend
	now     func() core.Date
}

func NewBalanceService(backend sheets.Backend, now func() core.Date) *BalanceService {
	return &BalanceService{
		backend: backend,
		now:     now,
	}
}

// YearBalance returns the 12 monthly buckets for year. With includeForecast
// the recurring definitions are expanded through the end of the requested
// year and folded into the future months.
func (s *BalanceService) YearBalance(ctx context.Context, year int, includeForecast bool) ([]balance.MonthlyBucket, error) {
	if year < 1 {
		return nil, fmt.Errorf("year %d out of range", year)
	}
	today := s.now()

	var (
		txs   []core.Transaction
		goals []core.GoalTransaction
		bills []core.Bill
		defs  []core.RecurringTransaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.backend.ListTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.backend.ListGoalTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bills, err = s.backend.ListBills(gctx)
		return err
	})
	if includeForecast && year >= today.Year {
		g.Go(func() error {
			var err error
			defs, err = s.backend.ListRecurring(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load balance inputs: %w", err)
	}

	var occurrences []core.ForecastOccurrence
	if len(defs) > 0 {
		// Expand through December of the requested year. The horizon lands
		// on today's day-of-month, so one extra month keeps late-December
		// occurrences inside it; the aggregator's year filter drops any
		// January spillover.
		monthsAhead := (year-today.Year)*12 + (12 - today.Month) + 1
		occurrences = forecast.Expand(defs, monthsAhead, today)
	}

	buckets, err := balance.Aggregate(year, txs, goals, occurrences, bills, today)
	if err != nil {
		return nil, fmt.Errorf("aggregate year %d: %w", year, err)
	}

	slog.DebugContext(ctx, "Built yearly balance",
		"year", year,
		"transactions", len(txs),
		"forecast_occurrences", len(occurrences),
		"include_forecast", includeForecast)
	return buckets, nil
}
