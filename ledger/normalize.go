package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// ROW NORMALIZER - Sign-normalized view of a row
// =============================================================================

// NormalizedRow is a row's per-group values under netting sign conventions:
// income groups coerced >= 0, expense groups coerced <= 0 (negative
// magnitude), bank adjustments passed through unchanged.
type NormalizedRow struct {
	Fees            decimal.Decimal
	OtherIncome     decimal.Decimal
	Loans           decimal.Decimal
	Withdrawals     decimal.Decimal
	Expenses        decimal.Decimal
	Taxes           decimal.Decimal
	BankAdjustments decimal.Decimal
}

// Normalize produces the sign-normalized view of a row. Pure, no side
// effects: the row itself is untouched.
func Normalize(r Row) NormalizedRow {
	return NormalizedRow{
		Fees:            r.Fees.Abs(),
		OtherIncome:     r.OtherIncome.Abs(),
		Loans:           r.Loans.Abs().Neg(),
		Withdrawals:     r.Withdrawals.Abs().Neg(),
		Expenses:        r.Expenses.Abs().Neg(),
		Taxes:           r.Taxes.Abs().Neg(),
		BankAdjustments: r.BankAdjustments,
	}
}

// Net returns the day's net effect: income minus expenses plus signed
// bank adjustments.
func (n NormalizedRow) Net() decimal.Decimal {
	return n.Fees.
		Add(n.OtherIncome).
		Add(n.Loans).
		Add(n.Withdrawals).
		Add(n.Expenses).
		Add(n.Taxes).
		Add(n.BankAdjustments)
}
