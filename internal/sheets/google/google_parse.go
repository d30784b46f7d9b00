package google

import (
	"fmt"
	"strconv"
	"strings"

	"sheetfinance/internal/core"
)

// Row parsing is deliberately forgiving: spreadsheets are hand-edited, so a
// header row, an empty line or a stray note must not break a full read.
// Parsers return ok=false instead of an error and the caller skips the row.

// Transactions tab, columns A:G.
// ID | Date | Kind | Description | Amount | Category | PaymentMethod
func parseTransactionRow(row []interface{}) (core.Transaction, bool) {
	id := cellString(row, 0)
	date, err := core.ParseDate(cellString(row, 1))
	if id == "" || err != nil {
		return core.Transaction{}, false
	}
	amount, err := cellCents(row, 4)
	if err != nil {
		return core.Transaction{}, false
	}
	tx := core.Transaction{
		ID:            id,
		Date:          date,
		Kind:          core.TransactionKind(strings.ToLower(cellString(row, 2))),
		Description:   cellString(row, 3),
		Amount:        core.Money{Cents: amount},
		Category:      cellString(row, 5),
		PaymentMethod: cellString(row, 6),
	}
	if tx.Kind.Validate() != nil {
		return core.Transaction{}, false
	}
	return tx, true
}

// Recurring tab, columns A:J.
// ID | Kind | Description | Amount | Category | PaymentMethod | StartDate | Period | EndAfterMonths | Active
func parseRecurringRow(row []interface{}) (core.RecurringTransaction, bool) {
	id := cellString(row, 0)
	start, err := core.ParseDate(cellString(row, 6))
	if id == "" || err != nil {
		return core.RecurringTransaction{}, false
	}
	amount, err := cellCents(row, 3)
	if err != nil {
		return core.RecurringTransaction{}, false
	}
	endAfter := 0
	if s := cellString(row, 8); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return core.RecurringTransaction{}, false
		}
		endAfter = n
	}
	def := core.RecurringTransaction{
		ID:             id,
		Kind:           core.TransactionKind(strings.ToLower(cellString(row, 1))),
		Description:    cellString(row, 2),
		Amount:         core.Money{Cents: amount},
		Category:       cellString(row, 4),
		PaymentMethod:  cellString(row, 5),
		StartDate:      start,
		Period:         core.RecurrencePeriod(strings.ToLower(cellString(row, 7))),
		EndAfterMonths: endAfter,
		Active:         cellBool(row, 9),
	}
	if _, ok := def.Period.MonthStep(); !ok {
		return core.RecurringTransaction{}, false
	}
	if def.Kind.Validate() != nil {
		return core.RecurringTransaction{}, false
	}
	return def, true
}

// GoalTransactions tab, columns A:E.
// ID | GoalID | Date | Kind | Amount
func parseGoalRow(row []interface{}) (core.GoalTransaction, bool) {
	id := cellString(row, 0)
	date, err := core.ParseDate(cellString(row, 2))
	if id == "" || err != nil {
		return core.GoalTransaction{}, false
	}
	amount, err := cellCents(row, 4)
	if err != nil {
		return core.GoalTransaction{}, false
	}
	gt := core.GoalTransaction{
		ID:     id,
		GoalID: cellString(row, 1),
		Date:   date,
		Kind:   core.GoalTransactionKind(strings.ToLower(cellString(row, 3))),
		Amount: core.Money{Cents: amount},
	}
	switch gt.Kind {
	case core.GoalDeposit, core.GoalWithdrawal:
	default:
		return core.GoalTransaction{}, false
	}
	return gt, true
}

// Bills tab, columns A:G.
// ID | Description | Amount | Kind | DueDate | Paid | PaymentDate
func parseBillRow(row []interface{}) (core.Bill, bool) {
	id := cellString(row, 0)
	due, err := core.ParseDate(cellString(row, 4))
	if id == "" || err != nil {
		return core.Bill{}, false
	}
	amount, err := cellCents(row, 2)
	if err != nil {
		return core.Bill{}, false
	}
	bill := core.Bill{
		ID:          id,
		Description: cellString(row, 1),
		Amount:      core.Money{Cents: amount},
		Kind:        core.BillKind(strings.ToLower(cellString(row, 3))),
		DueDate:     due,
		Paid:        cellBool(row, 5),
	}
	switch bill.Kind {
	case core.BillPayable, core.BillReceivable:
	default:
		return core.Bill{}, false
	}
	if bill.Paid {
		pay, err := core.ParseDate(cellString(row, 6))
		if err != nil {
			return core.Bill{}, false
		}
		bill.PaymentDate = pay
	}
	return bill, true
}

// cellString returns the trimmed string form of a cell, or "" past the end of
// the row. Sheets returns numbers as float64 when a cell is numeric.
func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// cellCents parses an amount cell. Numeric cells come back from the API as
// float64; hand-typed cells may use either decimal separator.
func cellCents(row []interface{}, idx int) (int64, error) {
	if idx >= len(row) || row[idx] == nil {
		return 0, core.ErrInvalidAmount
	}
	if f, ok := row[idx].(float64); ok {
		return core.ParseDecimalToCents(strconv.FormatFloat(f, 'f', 2, 64))
	}
	return core.ParseDecimalToCents(cellString(row, idx))
}

func cellBool(row []interface{}, idx int) bool {
	switch strings.ToLower(cellString(row, idx)) {
	case "true", "1", "yes", "sim":
		return true
	default:
		return false
	}
}
