package services

import (
	"context"
	"fmt"
	"log/slog"

	"sheetfinance/internal/core"
	"sheetfinance/internal/forecast"
	"sheetfinance/internal/sheets"
)

// ForecastService expands recurring definitions into projected occurrences.
// The reference date is injected so handlers and tests control "today".
type ForecastService struct {
	recurring sheets.RecurringSource
	now       func() core.Date
}

func NewForecastService(recurring sheets.RecurringSource, now func() core.Date) *ForecastService {
	return &ForecastService{
		recurring: recurring,
		now:       now,
	}
}

// Forecast returns all occurrences from today through today+monthsAhead.
func (s *ForecastService) Forecast(ctx context.Context, monthsAhead int) ([]core.ForecastOccurrence, error) {
	if monthsAhead < 0 {
		return nil, fmt.Errorf("months ahead cannot be negative: %d", monthsAhead)
	}

	defs, err := s.recurring.ListRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring definitions: %w", err)
	}

	today := s.now()
	occurrences := forecast.Expand(defs, monthsAhead, today)

	slog.DebugContext(ctx, "Expanded recurring definitions",
		"definitions", len(defs),
		"months_ahead", monthsAhead,
		"occurrences", len(occurrences))
	return occurrences, nil
}
