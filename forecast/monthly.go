package forecast

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/ledger"
)

// =============================================================================
// MONTHLY HISTORY - Completed transactions grouped by calendar month
// =============================================================================

// monthStats aggregates one calendar month of completed history.
type monthStats struct {
	income           decimal.Decimal
	expense          decimal.Decimal
	recurringExpense decimal.Decimal
}

// collectMonthly groups completed transactions by "2006-01" month key.
// Pending transactions are excluded: history is what actually happened.
func collectMonthly(txs []ledger.Transaction, cfg Config) map[string]*monthStats {
	months := make(map[string]*monthStats)
	for _, tx := range txs {
		if tx.Status != ledger.StatusCompleted || tx.Date.IsZero() {
			continue
		}
		key := tx.Date.MonthKey()
		stats := months[key]
		if stats == nil {
			stats = &monthStats{}
			months[key] = stats
		}

		switch {
		case tx.Group.IsIncome():
			stats.income = stats.income.Add(tx.Amount.Abs())
		case tx.Group.IsExpense():
			stats.expense = stats.expense.Add(tx.Amount.Abs())
			if isRecurringExpense(tx, cfg) {
				stats.recurringExpense = stats.recurringExpense.Add(tx.Amount.Abs())
			}
		}
	}
	return months
}

// isRecurringExpense recognizes recurring expenses by the explicit flag or
// by a small keyword set (payroll/rent terms) in the description/category.
func isRecurringExpense(tx ledger.Transaction, cfg Config) bool {
	if !tx.Group.IsExpense() {
		return false
	}
	if tx.IsRecurring {
		return true
	}
	text := strings.ToLower(tx.Description + " " + tx.Category)
	for _, keyword := range cfg.RecurringKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// =============================================================================
// WINDOW STATISTICS
// =============================================================================

// trailingMonthKeys returns the N month keys strictly before asOf's month,
// most recent first.
func trailingMonthKeys(asOf ledger.DateKey, n int) []string {
	keys := make([]string, 0, n)
	anchor := ledger.StartOfMonth(asOf)
	for i := 1; i <= n; i++ {
		keys = append(keys, anchor.AddMonths(-i).MonthKey())
	}
	return keys
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// sampleStdDev computes the sample standard deviation (n-1 denominator).
// The single square root goes through float64; everything else stays
// decimal.
func sampleStdDev(values []decimal.Decimal) decimal.Decimal {
	if len(values) < 2 {
		return decimal.Zero
	}
	m := mean(values)
	sumSquares := decimal.Zero
	for _, v := range values {
		d := v.Sub(m)
		sumSquares = sumSquares.Add(d.Mul(d))
	}
	variance := sumSquares.Div(decimal.NewFromInt(int64(len(values) - 1)))
	f, _ := variance.Float64()
	if f <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Sqrt(f))
}
