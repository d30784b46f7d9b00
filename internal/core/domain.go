package core

import (
	"errors"
	"strings"
)

// InvestmentCategory is the literal category marker that flags an expense as
// a direct investment in the monthly balance breakdown.
const InvestmentCategory = "Investimentos"

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

const (
	Monthly    RecurrencePeriod = "monthly"
	Bimonthly  RecurrencePeriod = "bimonthly"
	Quarterly  RecurrencePeriod = "quarterly"
	Semiannual RecurrencePeriod = "semiannual"
	Annual     RecurrencePeriod = "annual"
)

const (
	GoalDeposit    GoalTransactionKind = "deposit"
	GoalWithdrawal GoalTransactionKind = "withdrawal"
)

const (
	BillPayable    BillKind = "payable"
	BillReceivable BillKind = "receivable"
)

type (
	TransactionKind     string
	RecurrencePeriod    string
	GoalTransactionKind string
	BillKind            string

	// Transaction is a realized cash-flow event.
	Transaction struct {
		ID            string
		Date          Date
		Kind          TransactionKind
		Description   string
		Amount        Money
		Category      string
		PaymentMethod string
	}

	// RecurringTransaction describes a repeating cash-flow event. It is a
	// template only; concrete occurrences are materialized by the forecast
	// engine and never stored.
	RecurringTransaction struct {
		ID            string
		Kind          TransactionKind
		Description   string
		Amount        Money
		Category      string
		PaymentMethod string
		StartDate     Date
		Period        RecurrencePeriod
		// EndAfterMonths limits the recurrence to this many months from
		// StartDate. Zero means the recurrence runs until cancelled.
		EndAfterMonths int
		Active         bool
	}

	// ForecastOccurrence is one projected instance of a recurring
	// transaction. Created fresh on every expansion, never persisted.
	ForecastOccurrence struct {
		ID            string
		RecurringID   string
		Date          Date
		Kind          TransactionKind
		Description   string
		Amount        Money
		Category      string
		PaymentMethod string
	}

	// GoalTransaction is a deposit or withdrawal against a savings goal,
	// tracked separately from regular transactions.
	GoalTransaction struct {
		ID     string
		GoalID string
		Date   Date
		Kind   GoalTransactionKind
		Amount Money
	}

	// Bill is a payable or receivable obligation. It only affects realized
	// cash flow once marked paid, on its payment date.
	Bill struct {
		ID          string
		Description string
		Amount      Money
		Kind        BillKind
		DueDate     Date
		Paid        bool
		PaymentDate Date
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyCategory     = errors.New("empty category")
	ErrInvalidKind       = errors.New("invalid transaction kind")
	ErrInvalidPeriod     = errors.New("invalid recurrence period")
	ErrInvalidEndPolicy  = errors.New("end-after-months cannot be negative")
	ErrInvalidGoalKind   = errors.New("invalid goal transaction kind")
	ErrUnpaidPaymentDate = errors.New("unpaid bill cannot carry a payment date")
)

func (k TransactionKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// MonthStep maps the recurrence period to its step in calendar months.
// ok is false for unrecognized periods.
func (p RecurrencePeriod) MonthStep() (int, bool) {
	switch p {
	case Monthly:
		return 1, true
	case Bimonthly:
		return 2, true
	case Quarterly:
		return 3, true
	case Semiannual:
		return 6, true
	case Annual:
		return 12, true
	default:
		return 0, false
	}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Validate enforces the closed recurrence enumeration: unknown periods are
// rejected here instead of silently skipped at expansion time.
func (rt RecurringTransaction) Validate() error {
	if err := rt.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if err := rt.Kind.Validate(); err != nil {
		return err
	}
	if _, ok := rt.Period.MonthStep(); !ok {
		return ErrInvalidPeriod
	}
	if rt.EndAfterMonths < 0 {
		return ErrInvalidEndPolicy
	}
	if len(strings.TrimSpace(rt.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rt.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := rt.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(rt.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (gt GoalTransaction) Validate() error {
	if err := gt.Date.Validate(); err != nil {
		return err
	}
	switch gt.Kind {
	case GoalDeposit, GoalWithdrawal:
	default:
		return ErrInvalidGoalKind
	}
	return gt.Amount.Validate()
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	switch b.Kind {
	case BillPayable, BillReceivable:
	default:
		return errors.New("invalid bill kind")
	}
	if b.Paid {
		if err := b.PaymentDate.Validate(); err != nil {
			return errors.New("paid bill needs a valid payment date: " + err.Error())
		}
	} else if !b.PaymentDate.IsZero() {
		return ErrUnpaidPaymentDate
	}
	return nil
}
