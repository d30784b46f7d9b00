package google

import (
	"testing"

	"sheetfinance/internal/core"
)

func TestParseTransactionRow(t *testing.T) {
	tests := []struct {
		name   string
		row    []interface{}
		wantOK bool
		want   core.Transaction
	}{
		{
			name:   "full row",
			row:    []interface{}{"tx-1", "2024-03-08", "expense", "brokerage transfer", "1500.00", core.InvestmentCategory, "pix"},
			wantOK: true,
			want: core.Transaction{
				ID: "tx-1", Date: core.NewDate(2024, 3, 8), Kind: core.Expense,
				Description: "brokerage transfer", Amount: core.Money{Cents: 150000},
				Category: core.InvestmentCategory, PaymentMethod: "pix",
			},
		},
		{
			name:   "numeric amount cell",
			row:    []interface{}{"tx-2", "2024-01-05", "income", "salary", float64(5000.5), "Salario", ""},
			wantOK: true,
			want: core.Transaction{
				ID: "tx-2", Date: core.NewDate(2024, 1, 5), Kind: core.Income,
				Description: "salary", Amount: core.Money{Cents: 500050}, Category: "Salario",
			},
		},
		{
			name:   "comma separator",
			row:    []interface{}{"tx-3", "2024-02-01", "expense", "groceries", "89,90", "Mercado", "card"},
			wantOK: true,
			want: core.Transaction{
				ID: "tx-3", Date: core.NewDate(2024, 2, 1), Kind: core.Expense,
				Description: "groceries", Amount: core.Money{Cents: 8990},
				Category: "Mercado", PaymentMethod: "card",
			},
		},
		{name: "header row", row: []interface{}{"ID", "Date", "Kind", "Description", "Amount", "Category", "PaymentMethod"}, wantOK: false},
		{name: "empty row", row: []interface{}{}, wantOK: false},
		{name: "bad date", row: []interface{}{"tx-4", "08/03/2024", "expense", "x", "1.00", "Casa", ""}, wantOK: false},
		{name: "bad kind", row: []interface{}{"tx-5", "2024-03-08", "transfer", "x", "1.00", "Casa", ""}, wantOK: false},
		{name: "bad amount", row: []interface{}{"tx-6", "2024-03-08", "expense", "x", "abc", "Casa", ""}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTransactionRow(tt.row)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRecurringRow(t *testing.T) {
	row := []interface{}{"rec-1", "expense", "rent", "1200.00", "Casa", "debit", "2024-01-31", "monthly", "", "TRUE"}
	def, ok := parseRecurringRow(row)
	if !ok {
		t.Fatal("expected ok")
	}
	if def.Period != core.Monthly || def.EndAfterMonths != 0 || !def.Active {
		t.Errorf("unexpected definition: %+v", def)
	}
	if def.StartDate != core.NewDate(2024, 1, 31) {
		t.Errorf("start date = %v", def.StartDate)
	}

	bounded := []interface{}{"rec-2", "income", "contract", "800.00", "Salario", "", "2024-02-01", "monthly", "6", "true"}
	def, ok = parseRecurringRow(bounded)
	if !ok || def.EndAfterMonths != 6 {
		t.Errorf("ok=%v EndAfterMonths=%d, want 6", ok, def.EndAfterMonths)
	}

	bad := [][]interface{}{
		{"rec-3", "expense", "x", "1.00", "Casa", "", "2024-01-01", "fortnightly", "", "TRUE"},
		{"rec-4", "expense", "x", "1.00", "Casa", "", "2024-01-01", "monthly", "-1", "TRUE"},
		{"", "expense", "x", "1.00", "Casa", "", "2024-01-01", "monthly", "", "TRUE"},
	}
	for i, row := range bad {
		if _, ok := parseRecurringRow(row); ok {
			t.Errorf("row %d: expected rejection", i)
		}
	}
}

func TestParseGoalRow(t *testing.T) {
	row := []interface{}{"g-1", "viagem", "2024-04-02", "deposit", "300.00"}
	gt, ok := parseGoalRow(row)
	if !ok {
		t.Fatal("expected ok")
	}
	if gt.Kind != core.GoalDeposit || gt.Amount.Cents != 30000 || gt.GoalID != "viagem" {
		t.Errorf("unexpected goal transaction: %+v", gt)
	}

	if _, ok := parseGoalRow([]interface{}{"g-2", "viagem", "2024-04-02", "transfer", "1.00"}); ok {
		t.Error("unknown goal kind must be rejected")
	}
}

func TestParseBillRow(t *testing.T) {
	paid := []interface{}{"b-1", "electricity", "90.00", "payable", "2024-03-10", "TRUE", "2024-04-02"}
	bill, ok := parseBillRow(paid)
	if !ok {
		t.Fatal("expected ok")
	}
	if !bill.Paid || bill.PaymentDate != core.NewDate(2024, 4, 2) {
		t.Errorf("unexpected bill: %+v", bill)
	}

	unpaid := []interface{}{"b-2", "invoice", "500.00", "receivable", "2024-05-01", "FALSE"}
	bill, ok = parseBillRow(unpaid)
	if !ok {
		t.Fatal("expected ok")
	}
	if bill.Paid || !bill.PaymentDate.IsZero() {
		t.Errorf("unexpected bill: %+v", bill)
	}

	// A paid bill without a payment date is unusable for aggregation.
	if _, ok := parseBillRow([]interface{}{"b-3", "x", "1.00", "payable", "2024-01-01", "TRUE"}); ok {
		t.Error("paid bill without payment date must be rejected")
	}
}

func TestCellHelpers(t *testing.T) {
	row := []interface{}{" padded ", float64(12.5), true, nil}
	if got := cellString(row, 0); got != "padded" {
		t.Errorf("cellString(0) = %q", got)
	}
	if got := cellString(row, 1); got != "12.5" {
		t.Errorf("cellString(1) = %q", got)
	}
	if got := cellString(row, 2); got != "true" {
		t.Errorf("cellString(2) = %q", got)
	}
	if got := cellString(row, 3); got != "" {
		t.Errorf("cellString(3) = %q", got)
	}
	if got := cellString(row, 99); got != "" {
		t.Errorf("cellString(99) = %q", got)
	}

	cents, err := cellCents([]interface{}{float64(10.5)}, 0)
	if err != nil || cents != 1050 {
		t.Errorf("cellCents float = %d, %v", cents, err)
	}
	if !cellBool([]interface{}{"SIM"}, 0) {
		t.Error("pt-BR truthy value must parse")
	}
	if cellBool([]interface{}{"no"}, 0) {
		t.Error("falsy value must not parse as true")
	}
}
