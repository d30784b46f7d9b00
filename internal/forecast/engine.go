// Package forecast expands recurring transaction templates into concrete
// dated occurrences over a bounded future window.
//
// Expansion is a pure function: the reference date ("today") is an explicit
// parameter, never the system clock, so results are reproducible and the
// engine is safe to call concurrently.
package forecast

import (
	"sort"

	"sheetfinance/internal/core"
)

// maxOccurrencesPerDefinition bounds the expansion loop against malformed
// input. With the smallest step (monthly) this covers more than 80 years.
const maxOccurrencesPerDefinition = 1000

// Expand materializes every future occurrence of the given recurring
// transactions between today and today+monthsAhead calendar months,
// inclusive.
//
// Inactive definitions contribute nothing. Occurrences are never emitted
// before today, even when the definition started in the past. A definition
// with EndAfterMonths > 0 stops once the elapsed months since its start
// date reach that limit, regardless of the horizon.
//
// The day of month of the first emitted occurrence anchors the whole
// series: stepping preserves that day where the target month has it and
// clamps to the month's last day otherwise, so a Jan 31 monthly recurrence
// lands on Feb 29 and then Mar 31 rather than rolling over.
//
// Occurrence IDs follow the scheme "<definitionID>-<YYYY-MM-DD>", stable
// and unique within one call.
//
// A definition with an unrecognized period is skipped silently; callers
// wanting strict behavior should reject it up front with
// core.RecurringTransaction.Validate.
func Expand(defs []core.RecurringTransaction, monthsAhead int, today core.Date) []core.ForecastOccurrence {
	horizonEnd := today.AddMonths(monthsAhead)

	var out []core.ForecastOccurrence
	for _, def := range defs {
		if !def.Active {
			continue
		}
		if def.StartDate.After(horizonEnd) {
			continue
		}
		step, ok := def.Period.MonthStep()
		if !ok || step <= 0 {
			continue
		}

		// Exclusive cutoff: a recurrence limited to n months stops the
		// moment the elapsed months since start reach n.
		var endCutoff core.Date
		hasCutoff := def.EndAfterMonths > 0
		if hasCutoff {
			endCutoff = def.StartDate.AddMonths(def.EndAfterMonths)
		}

		anchor := def.StartDate
		if anchor.Before(today) {
			anchor = today
		}

		for k := 0; k < maxOccurrencesPerDefinition; k++ {
			date := anchor.AddMonths(k * step)
			if date.After(horizonEnd) {
				break
			}
			if hasCutoff && !date.Before(endCutoff) {
				break
			}
			out = append(out, core.ForecastOccurrence{
				ID:            def.ID + "-" + date.String(),
				RecurringID:   def.ID,
				Date:          date,
				Kind:          def.Kind,
				Description:   def.Description,
				Amount:        def.Amount,
				Category:      def.Category,
				PaymentMethod: def.PaymentMethod,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
