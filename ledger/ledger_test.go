package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/cashflow-engine/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(s string) ledger.DateKey {
	d, ok := ledger.ParseDateKey(s)
	if !ok {
		panic("bad test date: " + s)
	}
	return d
}

func amt(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func tx(id string, group ledger.Group, date string, amount float64) ledger.Transaction {
	t := ledger.Transaction{
		ID:     ledger.TransactionID(id),
		Date:   day(date),
		Amount: amt(amount),
		Group:  group,
		Status: ledger.StatusCompleted,
	}
	if group.IsIncome() {
		t.Direction = ledger.DirectionIncome
	} else {
		t.Direction = ledger.DirectionExpense
	}
	return t
}

func june2025() ledger.Period {
	return ledger.Period{Start: day("2025-06-01"), End: day("2025-06-30")}
}

// =============================================================================
// ROW BUILDER
// =============================================================================

func TestBuildRows_BucketsByGroup(t *testing.T) {
	// GIVEN: One transaction of every group on the same day
	// WHEN: Building rows
	// THEN: Each lands in its own accumulator, absolute except bank adjustments

	days := []ledger.DateKey{day("2025-06-10")}
	rows := ledger.BuildRows(days, []ledger.Transaction{
		tx("t1", ledger.GroupFee, "2025-06-10", 1000),
		tx("t2", ledger.GroupOtherIncome, "2025-06-10", 200),
		tx("t3", ledger.GroupLoan, "2025-06-10", -300), // sign garbage, abs taken
		tx("t4", ledger.GroupPersonal, "2025-06-10", 150),
		tx("t5", ledger.GroupOperational, "2025-06-10", 400),
		tx("t6", ledger.GroupTax, "2025-06-10", 50),
		tx("t7", ledger.GroupBankAdjustment, "2025-06-10", -500),
	})

	require.Len(t, rows, 1)
	r := rows[0]
	assert.True(t, r.Fees.Equal(amt(1000)))
	assert.True(t, r.OtherIncome.Equal(amt(200)))
	assert.True(t, r.Loans.Equal(amt(300)), "loan amount is stored as magnitude")
	assert.True(t, r.Withdrawals.Equal(amt(150)))
	assert.True(t, r.Expenses.Equal(amt(400)))
	assert.True(t, r.Taxes.Equal(amt(50)))
	assert.True(t, r.BankAdjustments.Equal(amt(-500)), "bank adjustment keeps its sign")
}

func TestBuildRows_UnknownGroupIgnored(t *testing.T) {
	days := []ledger.DateKey{day("2025-06-10")}
	weird := tx("t1", ledger.Group("crypto_staking"), "2025-06-10", 999)

	rows := ledger.BuildRows(days, []ledger.Transaction{weird})

	require.Len(t, rows, 1)
	assert.True(t, ledger.Normalize(rows[0]).Net().IsZero(), "unknown group is a no-op")
}

func TestBuildRows_EmptyDayStillPresent(t *testing.T) {
	rows := ledger.BuildRows(june2025().Days(), nil)
	assert.Len(t, rows, 30, "a day with no transactions still gets a row")
}

// =============================================================================
// NORMALIZER
// =============================================================================

func TestNormalize_SignInvariants(t *testing.T) {
	// GIVEN: A row with inconsistently signed accumulators
	// THEN: Income >= 0, expenses <= 0, bank adjustments pass through

	row := ledger.Row{
		Fees:            amt(-100), // garbage sign from upstream
		OtherIncome:     amt(50),
		Loans:           amt(200),
		Withdrawals:     amt(-75),
		Expenses:        amt(300),
		Taxes:           amt(25),
		BankAdjustments: amt(-40),
	}
	n := ledger.Normalize(row)

	assert.False(t, n.Fees.IsNegative())
	assert.False(t, n.OtherIncome.IsNegative())
	assert.False(t, n.Loans.IsPositive())
	assert.False(t, n.Withdrawals.IsPositive())
	assert.False(t, n.Expenses.IsPositive())
	assert.False(t, n.Taxes.IsPositive())
	assert.True(t, n.BankAdjustments.Equal(amt(-40)))

	// 100 + 50 - 200 - 75 - 300 - 25 - 40
	assert.True(t, n.Net().Equal(amt(-490)))
}

// =============================================================================
// RUNNING BALANCE
// =============================================================================

func TestComputeBalances_Recurrence(t *testing.T) {
	// GIVEN: A month of mixed activity
	// THEN: balance[i] == balance[i-1] + dailyTotal[i] for all i,
	//       and balance[0] == opening + dailyTotal[0]

	txs := []ledger.Transaction{
		tx("t1", ledger.GroupFee, "2025-06-03", 1200),
		tx("t2", ledger.GroupOperational, "2025-06-05", 450),
		tx("t3", ledger.GroupTax, "2025-06-05", 90),
		tx("t4", ledger.GroupBankAdjustment, "2025-06-12", 75),
		tx("t5", ledger.GroupLoan, "2025-06-20", 1770),
		tx("t6", ledger.GroupOtherIncome, "2025-06-25", 300),
	}
	opening := amt(5000)
	rows := ledger.ComputeBalances(ledger.BuildRows(june2025().Days(), txs), opening)

	require.NotEmpty(t, rows)
	assert.True(t, rows[0].Balance.Equal(opening.Add(rows[0].DailyTotal)))
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i].Balance.Equal(rows[i-1].Balance.Add(rows[i].DailyTotal)),
			"recurrence broken at %s", rows[i].Date)
		assert.True(t, rows[i].Date.After(rows[i-1].Date), "rows must be sorted ascending")
		assert.True(t, rows[i].RunningTotal.Equal(rows[i].Balance))
	}
}

func TestComputeBalances_SortsUnorderedRows(t *testing.T) {
	rows := []ledger.Row{
		{Date: day("2025-06-20"), Fees: amt(100)},
		{Date: day("2025-06-01"), Fees: amt(50)},
		{Date: day("2025-06-10"), Fees: amt(25)},
	}
	out := ledger.ComputeBalances(rows, decimal.Zero)

	assert.Equal(t, "2025-06-01", out[0].Date.String())
	assert.Equal(t, "2025-06-20", out[2].Date.String())
	assert.True(t, out[2].Balance.Equal(amt(175)))
}

// =============================================================================
// RANGE LEDGER - SCENARIOS
// =============================================================================

func TestBuildLedger_SingleFeeTransaction(t *testing.T) {
	// GIVEN: One fee of 1000 on 2025-06-10, opening 0, range June 2025
	// THEN: 2025-06-10 has dailyTotal 1000, balance 1000;
	//       balance is 0 before and 1000 after

	led := ledger.BuildLedger(
		[]ledger.Transaction{tx("t1", ledger.GroupFee, "2025-06-10", 1000)},
		june2025(), decimal.Zero,
	)

	row, ok := led.RowOn(day("2025-06-10"))
	require.True(t, ok)
	assert.True(t, row.DailyTotal.Equal(amt(1000)))
	assert.True(t, row.Balance.Equal(amt(1000)))

	for _, r := range led.Rows {
		if r.Date.Before(day("2025-06-10")) {
			assert.True(t, r.Balance.IsZero(), "balance before the fee at %s", r.Date)
		} else {
			assert.True(t, r.Balance.Equal(amt(1000)), "balance after the fee at %s", r.Date)
		}
	}
}

func TestBuildLedger_BankAdjustmentSign(t *testing.T) {
	// GIVEN: A -500 bank adjustment on a day that also has fee income
	// THEN: The running balance nets down by exactly 500 on that day

	withAdjustment := ledger.BuildLedger([]ledger.Transaction{
		tx("t1", ledger.GroupFee, "2025-06-10", 1000),
		tx("t2", ledger.GroupBankAdjustment, "2025-06-10", -500),
	}, june2025(), decimal.Zero)

	withoutAdjustment := ledger.BuildLedger([]ledger.Transaction{
		tx("t1", ledger.GroupFee, "2025-06-10", 1000),
	}, june2025(), decimal.Zero)

	diff := withoutAdjustment.ClosingBalance().Sub(withAdjustment.ClosingBalance())
	assert.True(t, diff.Equal(amt(500)))
}

func TestBuildLedger_RangeCompleteness(t *testing.T) {
	// GIVEN: Transactions before and after the requested window
	// WHEN: Building the ledger for June only
	// THEN: Every transaction date has a row; nothing is silently dropped

	txs := []ledger.Transaction{
		tx("t1", ledger.GroupFee, "2025-05-20", 800),
		tx("t2", ledger.GroupFee, "2025-06-10", 1000),
		tx("t3", ledger.GroupOperational, "2025-07-04", 200),
	}
	led := ledger.BuildLedger(txs, june2025(), decimal.Zero)

	for _, transaction := range txs {
		_, ok := led.RowOn(transaction.Date)
		assert.True(t, ok, "expected a row for %s", transaction.Date)
	}
	assert.Equal(t, "2025-05-20", led.Window.Start.String())
	assert.Equal(t, "2025-07-04", led.Window.End.String())

	// Out-of-range activity participates in the running balance.
	assert.True(t, led.ClosingBalance().Equal(amt(1600)))
	assert.True(t, led.BalanceOn(day("2025-06-01")).Equal(amt(800)))
}

func TestBuildLedger_BalanceOn(t *testing.T) {
	led := ledger.BuildLedger(
		[]ledger.Transaction{tx("t1", ledger.GroupFee, "2025-06-10", 1000)},
		june2025(), amt(250),
	)

	assert.True(t, led.BalanceOn(day("2025-05-01")).Equal(amt(250)),
		"days before the range read the opening balance")
	assert.True(t, led.BalanceOn(day("2025-06-09")).Equal(amt(250)))
	assert.True(t, led.BalanceOn(day("2025-06-10")).Equal(amt(1250)))
	assert.True(t, led.BalanceOn(day("2025-12-31")).Equal(amt(1250)),
		"days after the range read the closing balance")
}

// =============================================================================
// RANGE LEDGER - DEGENERATE INPUT
// =============================================================================

func TestBuildLedger_SwapsInvertedWindow(t *testing.T) {
	led := ledger.BuildLedger(nil,
		ledger.Period{Start: day("2025-06-30"), End: day("2025-06-01")},
		decimal.Zero,
	)
	assert.Len(t, led.Rows, 30)
	assert.Equal(t, "2025-06-01", led.Window.Start.String())
}

func TestBuildLedger_EmptyEverything(t *testing.T) {
	led := ledger.BuildLedger(nil, ledger.Period{}, amt(42))

	require.Len(t, led.Rows, 1, "degenerate input still yields a valid single-row ledger")
	assert.True(t, led.ClosingBalance().Equal(amt(42)))
}

func TestBuildLedger_UnparseableDateSkipped(t *testing.T) {
	bad := ledger.Transaction{
		ID:     "bad",
		Amount: amt(9999),
		Group:  ledger.GroupFee,
		Status: ledger.StatusCompleted,
		// Date left zero, as after a failed ParseDateKey.
	}
	led := ledger.BuildLedger(
		[]ledger.Transaction{bad, tx("ok", ledger.GroupFee, "2025-06-10", 100)},
		june2025(), decimal.Zero,
	)

	assert.True(t, led.ClosingBalance().Equal(amt(100)),
		"a record without a usable date contributes nothing")
}

func TestBuildLedger_AncientDateFoldedNotDropped(t *testing.T) {
	// GIVEN: A transaction with a mangled year far outside any sane range
	// THEN: The window is clamped but the amount still reaches the balance

	txs := []ledger.Transaction{
		tx("old", ledger.GroupFee, "1700-01-15", 500),
		tx("now", ledger.GroupFee, "2025-06-10", 1000),
	}
	led := ledger.BuildLedger(txs, june2025(), decimal.Zero)

	assert.True(t, led.Window.Start.After(day("1700-01-15")), "window is clamped")
	assert.True(t, led.ClosingBalance().Equal(amt(1500)),
		"clamping must not drop the out-of-range amount")
}

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, ledger.ValidatePeriod(june2025()))

	err := ledger.ValidatePeriod(ledger.Period{Start: day("2025-06-30"), End: day("2025-06-01")})
	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)

	err = ledger.ValidatePeriod(ledger.Period{Start: day("1900-01-01"), End: day("2025-01-01")})
	assert.ErrorIs(t, err, ledger.ErrRangeTooWide)
}

// =============================================================================
// AMOUNT COERCION
// =============================================================================

func TestParseAmount_Coercion(t *testing.T) {
	assert.True(t, ledger.ParseAmount(nil).IsZero())
	assert.True(t, ledger.ParseAmount("garbage").IsZero())
	assert.True(t, ledger.ParseAmount("1500.25").Equal(amt(1500.25)))
	assert.True(t, ledger.ParseAmount("1,500.25").Equal(amt(1500.25)))
	assert.True(t, ledger.ParseAmount(1500).Equal(amt(1500)))
	assert.True(t, ledger.ParseAmount(float64(12.5)).Equal(amt(12.5)))
}
