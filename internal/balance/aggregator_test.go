package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetfinance/internal/core"
)

func tx(date string, kind core.TransactionKind, cents int64, category string) core.Transaction {
	return core.Transaction{
		ID:          "tx-" + date,
		Date:        core.MustParseDate(date),
		Kind:        kind,
		Description: "test",
		Amount:      core.Money{Cents: cents},
		Category:    category,
	}
}

func TestAggregateAlwaysReturnsTwelveBuckets(t *testing.T) {
	today := core.NewDate(2024, 6, 1)

	got, err := Aggregate(2024, nil, nil, nil, nil, today)

	require.NoError(t, err)
	require.Len(t, got, 12)
	for i, b := range got {
		assert.Equal(t, core.NewDate(2024, i+1, 1).MonthKey(), b.MonthKey)
		assert.Zero(t, b.Incoming.Cents)
		assert.Zero(t, b.Outgoing.Cents)
	}
	assert.Equal(t, "2024-01", got[0].MonthKey)
	assert.Equal(t, "2024-12", got[11].MonthKey)
	assert.Equal(t, "jan/24", got[0].Label)
	assert.Equal(t, "dez/24", got[11].Label)
}

func TestAggregateInvestmentScenario(t *testing.T) {
	today := core.NewDate(2024, 12, 1)
	txs := []core.Transaction{
		tx("2024-03-08", core.Expense, 150000, core.InvestmentCategory),
	}

	got, err := Aggregate(2024, txs, nil, nil, nil, today)

	require.NoError(t, err)
	march := got[2]
	assert.Equal(t, int64(150000), march.Outgoing.Cents)
	assert.Equal(t, int64(150000), march.InvestedDirect.Cents)
	assert.Equal(t, int64(0), march.Incoming.Cents)
	assert.Equal(t, int64(-150000), march.NetMonthly.Cents)

	for i, b := range got {
		if i == 2 {
			continue
		}
		assert.Zero(t, b.Incoming.Cents, "month %d", i+1)
		assert.Zero(t, b.Outgoing.Cents, "month %d", i+1)
		assert.Zero(t, b.NetMonthly.Cents, "month %d", i+1)
	}
	// Opening balance is zero, so from March on the running balance is -1500.
	assert.Zero(t, got[0].RunningBalance.Cents)
	assert.Zero(t, got[1].RunningBalance.Cents)
	for i := 2; i < 12; i++ {
		assert.Equal(t, int64(-150000), got[i].RunningBalance.Cents, "month %d", i+1)
	}
}

func TestAggregateCarryForwardContinuity(t *testing.T) {
	today := core.NewDate(2024, 1, 1)
	txs := []core.Transaction{
		tx("2023-02-10", core.Income, 250000, "Salario"),
		tx("2023-08-20", core.Expense, 150000, "Casa"),
	}

	got, err := Aggregate(2024, txs, nil, nil, nil, today)

	require.NoError(t, err)
	for i, b := range got {
		assert.Equal(t, int64(100000), b.RunningBalance.Cents, "month %d", i+1)
		assert.Zero(t, b.Incoming.Cents)
		assert.Zero(t, b.Outgoing.Cents)
	}
}

func TestAggregateRunningBalanceAccumulates(t *testing.T) {
	today := core.NewDate(2024, 12, 31)
	txs := []core.Transaction{
		tx("2024-01-05", core.Income, 500000, "Salario"),
		tx("2024-01-20", core.Expense, 200000, "Casa"),
		tx("2024-02-05", core.Income, 500000, "Salario"),
		tx("2024-03-10", core.Expense, 100000, "Mercado"),
	}

	got, err := Aggregate(2024, txs, nil, nil, nil, today)

	require.NoError(t, err)
	assert.Equal(t, int64(300000), got[0].RunningBalance.Cents)
	assert.Equal(t, int64(800000), got[1].RunningBalance.Cents)
	assert.Equal(t, int64(700000), got[2].RunningBalance.Cents)
	assert.Equal(t, int64(700000), got[11].RunningBalance.Cents)
}

func TestAggregateGoalDepositsOnly(t *testing.T) {
	today := core.NewDate(2024, 12, 1)
	goals := []core.GoalTransaction{
		{ID: "g1", GoalID: "viagem", Date: core.NewDate(2024, 4, 2), Kind: core.GoalDeposit, Amount: core.Money{Cents: 30000}},
		{ID: "g2", GoalID: "viagem", Date: core.NewDate(2024, 4, 20), Kind: core.GoalWithdrawal, Amount: core.Money{Cents: 10000}},
		{ID: "g3", GoalID: "viagem", Date: core.NewDate(2023, 4, 2), Kind: core.GoalDeposit, Amount: core.Money{Cents: 99999}},
	}

	got, err := Aggregate(2024, nil, goals, nil, nil, today)

	require.NoError(t, err)
	assert.Equal(t, int64(30000), got[3].InvestedViaGoals.Cents, "withdrawals and other years must not count")
	// Goal transactions never move the cash-flow columns.
	assert.Zero(t, got[3].Incoming.Cents)
	assert.Zero(t, got[3].Outgoing.Cents)
}

func TestAggregateForecastYearRules(t *testing.T) {
	today := core.NewDate(2024, 6, 15)
	forecasts := []core.ForecastOccurrence{
		{ID: "f1", RecurringID: "r1", Date: core.NewDate(2024, 6, 10), Kind: core.Income, Amount: core.Money{Cents: 1000}},
		{ID: "f2", RecurringID: "r1", Date: core.NewDate(2024, 6, 15), Kind: core.Income, Amount: core.Money{Cents: 2000}},
		{ID: "f3", RecurringID: "r1", Date: core.NewDate(2024, 7, 15), Kind: core.Income, Amount: core.Money{Cents: 4000}},
	}

	got, err := Aggregate(2024, nil, nil, forecasts, nil, today)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got[5].Incoming.Cents, "occurrence before today must be dropped in the current year")
	assert.Equal(t, int64(4000), got[6].Incoming.Cents)

	// Past year: forecasts never apply.
	past, err := Aggregate(2023, nil, nil, []core.ForecastOccurrence{
		{ID: "f4", RecurringID: "r1", Date: core.NewDate(2023, 3, 1), Kind: core.Income, Amount: core.Money{Cents: 7000}},
	}, nil, today)
	require.NoError(t, err)
	assert.Zero(t, past[2].Incoming.Cents)

	// Future year: all occurrences apply.
	future, err := Aggregate(2025, nil, nil, []core.ForecastOccurrence{
		{ID: "f5", RecurringID: "r1", Date: core.NewDate(2025, 1, 2), Kind: core.Income, Amount: core.Money{Cents: 9000}},
	}, nil, today)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), future[0].Incoming.Cents)
}

func TestAggregateBills(t *testing.T) {
	today := core.NewDate(2024, 12, 1)
	bills := []core.Bill{
		{
			ID: "b1", Description: "electricity", Amount: core.Money{Cents: 9000},
			Kind: core.BillPayable, DueDate: core.NewDate(2024, 3, 10),
			Paid: true, PaymentDate: core.NewDate(2024, 4, 2),
		},
		{
			ID: "b2", Description: "freelance invoice", Amount: core.Money{Cents: 50000},
			Kind: core.BillReceivable, DueDate: core.NewDate(2024, 5, 1),
		},
		{
			ID: "b3", Description: "old invoice", Amount: core.Money{Cents: 1234},
			Kind: core.BillPayable, DueDate: core.NewDate(2024, 2, 1),
		},
	}

	got, err := Aggregate(2024, nil, nil, nil, bills, today)

	require.NoError(t, err)
	// Paid bill lands on its payment month, not its due month.
	assert.Zero(t, got[2].Outgoing.Cents)
	assert.Equal(t, int64(9000), got[3].Outgoing.Cents)
	// Unpaid receivable only shows as projected.
	assert.Zero(t, got[4].Incoming.Cents)
	assert.Equal(t, int64(50000), got[4].ProjectedReceivable.Cents)
	// Unpaid payable contributes nothing at all.
	assert.Zero(t, got[1].Outgoing.Cents)
	assert.Zero(t, got[1].ProjectedReceivable.Cents)
}

func TestAggregateDropsCrossYearRecordsDefensively(t *testing.T) {
	today := core.NewDate(2024, 12, 1)
	txs := []core.Transaction{
		tx("2022-05-05", core.Income, 77700, "Salario"),
		tx("2024-05-05", core.Income, 100, "Salario"),
	}

	got, err := Aggregate(2024, txs, nil, nil, nil, today)

	require.NoError(t, err)
	assert.Equal(t, int64(100), got[4].Incoming.Cents)
	var total int64
	for _, b := range got {
		total += b.Incoming.Cents
	}
	assert.Equal(t, int64(100), total)
}

func TestAggregateIdempotent(t *testing.T) {
	today := core.NewDate(2024, 6, 1)
	txs := []core.Transaction{
		tx("2024-01-05", core.Income, 500000, "Salario"),
		tx("2023-03-05", core.Expense, 100000, "Casa"),
	}

	first, err := Aggregate(2024, txs, nil, nil, nil, today)
	require.NoError(t, err)
	second, err := Aggregate(2024, txs, nil, nil, nil, today)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOpeningBalance(t *testing.T) {
	txs := []core.Transaction{
		tx("2023-01-01", core.Income, 300000, "Salario"),
		tx("2023-06-01", core.Expense, 200000, "Casa"),
		tx("2024-01-01", core.Income, 999999, "Salario"),
	}
	assert.Equal(t, int64(100000), OpeningBalance(2024, txs))
	assert.Equal(t, int64(0), OpeningBalance(2023, txs))
	assert.Equal(t, int64(0), OpeningBalance(1, txs), "year 1 or earlier opens at zero")
	assert.Equal(t, int64(0), OpeningBalance(0, txs))
}

func TestCheckInvariantRejectsMalformedSeries(t *testing.T) {
	short := newBuckets(2024)[:11]
	err := checkInvariant(2024, short)
	require.ErrorIs(t, err, ErrBucketInvariant)

	wrongYear := newBuckets(2024)
	wrongYear[4].MonthKey = "2023-05"
	err = checkInvariant(2024, wrongYear)
	require.ErrorIs(t, err, ErrBucketInvariant)

	require.NoError(t, checkInvariant(2024, newBuckets(2024)))
}
