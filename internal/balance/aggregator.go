// Package balance builds the fixed 12-month balance series for a calendar
// year from realized transactions, goal deposits, forecast occurrences and
// bills.
//
// Like the forecast engine this is a pure computation: the reference date is
// injected and nothing outside the returned slice is mutated.
package balance

import (
	"fmt"

	"sheetfinance/internal/core"
)

// monthLabels holds the pt-BR short month names used for display labels.
var monthLabels = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// ErrBucketInvariant reports an internal logic error: the aggregation did
// not produce exactly 12 buckets of the requested year. Callers should treat
// it as a bug, never as recoverable input trouble.
var ErrBucketInvariant = fmt.Errorf("monthly bucket invariant violated")

// MonthlyBucket is one calendar month's aggregated view within a year.
type MonthlyBucket struct {
	// MonthKey is "YYYY-MM" and always matches the requested year.
	MonthKey string
	// Label is the display form, e.g. "jan/24". Not an identifier.
	Label string

	Incoming         core.Money
	Outgoing         core.Money
	InvestedDirect   core.Money
	InvestedViaGoals core.Money
	// ProjectedReceivable sums unpaid receivable bills due in the month.
	// It is informational and never part of NetMonthly.
	ProjectedReceivable core.Money

	NetMonthly     core.Money
	RunningBalance core.Money
}

// Aggregate produces the 12-bucket series for year, January through
// December, regardless of data sparsity.
//
// Realized transactions and goal deposits are filtered to the requested
// year. Forecast occurrences count only when year is the current or a
// future year relative to today, and within the current year only from
// today onward, so a day that already happened is never double-counted.
// Paid bills contribute to incoming/outgoing on their payment date; unpaid
// receivable bills only feed ProjectedReceivable on their due date.
//
// The running balance is seeded with the prior year's net total over
// realized transactions only, giving continuity when paging across years.
func Aggregate(
	year int,
	txs []core.Transaction,
	goals []core.GoalTransaction,
	forecasts []core.ForecastOccurrence,
	bills []core.Bill,
	today core.Date,
) ([]MonthlyBucket, error) {
	buckets := newBuckets(year)
	yearPrefix := fmt.Sprintf("%04d-", year)

	inYear := func(date core.Date) bool {
		// Belt and suspenders against cross-year leakage from caller error.
		key := date.MonthKey()
		return date.Month >= 1 && date.Month <= 12 &&
			len(key) >= len(yearPrefix) && key[:len(yearPrefix)] == yearPrefix
	}

	add := func(date core.Date, kind core.TransactionKind, category string, amount core.Money) {
		if !inYear(date) {
			return
		}
		b := &buckets[date.Month-1]
		switch kind {
		case core.Income:
			b.Incoming.Cents += amount.Cents
		case core.Expense:
			b.Outgoing.Cents += amount.Cents
			if category == core.InvestmentCategory {
				b.InvestedDirect.Cents += amount.Cents
			}
		}
	}

	for _, tx := range txs {
		if tx.Date.Year != year {
			continue
		}
		add(tx.Date, tx.Kind, tx.Category, tx.Amount)
	}

	for _, gt := range goals {
		// Withdrawals are excluded on purpose: only growth counts as
		// "invested via goals".
		if gt.Date.Year != year || gt.Kind != core.GoalDeposit || !inYear(gt.Date) {
			continue
		}
		buckets[gt.Date.Month-1].InvestedViaGoals.Cents += gt.Amount.Cents
	}

	if year >= today.Year {
		for _, occ := range forecasts {
			if occ.Date.Year != year {
				continue
			}
			if year == today.Year && occ.Date.Before(today) {
				continue
			}
			add(occ.Date, occ.Kind, occ.Category, occ.Amount)
		}
	}

	for _, bill := range bills {
		if bill.Paid {
			if bill.PaymentDate.Year != year {
				continue
			}
			kind := core.Expense
			if bill.Kind == core.BillReceivable {
				kind = core.Income
			}
			add(bill.PaymentDate, kind, "", bill.Amount)
			continue
		}
		if bill.Kind == core.BillReceivable && bill.DueDate.Year == year && inYear(bill.DueDate) {
			buckets[bill.DueDate.Month-1].ProjectedReceivable.Cents += bill.Amount.Cents
		}
	}

	running := OpeningBalance(year, txs)
	for i := range buckets {
		b := &buckets[i]
		b.NetMonthly = core.Money{Cents: b.Incoming.Cents - b.Outgoing.Cents}
		running += b.NetMonthly.Cents
		b.RunningBalance = core.Money{Cents: running}
	}

	if err := checkInvariant(year, buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// OpeningBalance computes the accumulated balance carried into year: the
// net of all realized transactions dated in year-1. Forecasts, goal
// transactions and bills are not part of the carry-forward. Years at or
// before year 1 open at zero.
func OpeningBalance(year int, txs []core.Transaction) int64 {
	if year <= 1 {
		return 0
	}
	var net int64
	for _, tx := range txs {
		if tx.Date.Year != year-1 {
			continue
		}
		switch tx.Kind {
		case core.Income:
			net += tx.Amount.Cents
		case core.Expense:
			net -= tx.Amount.Cents
		}
	}
	return net
}

func newBuckets(year int) []MonthlyBucket {
	buckets := make([]MonthlyBucket, 12)
	for i := range buckets {
		buckets[i] = MonthlyBucket{
			MonthKey: fmt.Sprintf("%04d-%02d", year, i+1),
			Label:    fmt.Sprintf("%s/%02d", monthLabels[i], year%100),
		}
	}
	return buckets
}

func checkInvariant(year int, buckets []MonthlyBucket) error {
	if len(buckets) != 12 {
		return fmt.Errorf("%w: got %d buckets for year %d", ErrBucketInvariant, len(buckets), year)
	}
	for i, b := range buckets {
		want := fmt.Sprintf("%04d-%02d", year, i+1)
		if b.MonthKey != want {
			return fmt.Errorf("%w: bucket %d has key %q, want %q", ErrBucketInvariant, i, b.MonthKey, want)
		}
	}
	return nil
}
