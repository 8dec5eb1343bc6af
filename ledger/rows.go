/*
rows.go - Per-day accumulation of transactions into ledger rows

PURPOSE:
  Allocates one row per calendar day and folds transactions into the
  correct group accumulator. A day with no transactions is still present,
  with every accumulator at zero - consumers rely on date-contiguous rows.

BUCKETING RULES:
  - fee, other_income, operational, tax, loan, personal: sum of ABSOLUTE
    amounts (the sign convention lives in normalize.go, not here)
  - bank_adjustment: sum of SIGNED amounts (positive deposit, negative
    withdrawal - the group models real signed corrections)
  - unrecognized group: ignored, a forward-compatible no-op

RANGE RESPONSIBILITY:
  Transactions dated outside the provided days are ignored by this step.
  Guaranteeing that every transaction date has a row is range.go's job.

SEE ALSO:
  - normalize.go: Sign-normalized view of a row
  - balance.go: DailyTotal/Balance annotation
  - range.go: Window orchestration
*/
package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// ROW - One calendar day's aggregated totals plus derived balances
// =============================================================================

// Row holds one calendar day's per-group totals. The three derived fields
// (DailyTotal, Balance, RunningTotal) are zero until ComputeBalances runs.
type Row struct {
	Date DateKey

	Fees            decimal.Decimal
	OtherIncome     decimal.Decimal
	Loans           decimal.Decimal
	Withdrawals     decimal.Decimal
	Expenses        decimal.Decimal
	Taxes           decimal.Decimal
	BankAdjustments decimal.Decimal

	// Derived by ComputeBalances.
	DailyTotal   decimal.Decimal
	Balance      decimal.Decimal
	RunningTotal decimal.Decimal
}

// NewRow returns an empty row for the given day.
func NewRow(day DateKey) Row {
	return Row{Date: day}
}

// Add folds a single transaction into the row's group accumulator.
// Unrecognized groups are a no-op.
func (r *Row) Add(tx Transaction) {
	switch tx.Group {
	case GroupFee:
		r.Fees = r.Fees.Add(tx.Amount.Abs())
	case GroupOtherIncome:
		r.OtherIncome = r.OtherIncome.Add(tx.Amount.Abs())
	case GroupLoan:
		r.Loans = r.Loans.Add(tx.Amount.Abs())
	case GroupPersonal:
		r.Withdrawals = r.Withdrawals.Add(tx.Amount.Abs())
	case GroupOperational:
		r.Expenses = r.Expenses.Add(tx.Amount.Abs())
	case GroupTax:
		r.Taxes = r.Taxes.Add(tx.Amount.Abs())
	case GroupBankAdjustment:
		// Bidirectional by nature: keep the original sign.
		r.BankAdjustments = r.BankAdjustments.Add(tx.Amount)
	}
}

// =============================================================================
// ROW BUILDER
// =============================================================================

// BuildRows produces one row per provided day, each holding the summed
// contributions of the transactions dated on it. The returned rows preserve
// the order of days; transactions whose date matches no provided day are
// ignored.
func BuildRows(days []DateKey, txs []Transaction) []Row {
	rows := make([]Row, len(days))
	index := make(map[string]int, len(days))
	for i, day := range days {
		rows[i] = NewRow(day)
		index[day.String()] = i
	}

	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		i, ok := index[tx.Date.String()]
		if !ok {
			continue
		}
		rows[i].Add(tx)
	}
	return rows
}
