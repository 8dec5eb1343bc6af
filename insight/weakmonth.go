package insight

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/ledger"
)

// =============================================================================
// WEAK-MONTH DETECTOR
// =============================================================================

// detectWeakMonths flags months whose net result falls materially below the
// trailing reference average. Only months with at least one prior month of
// history are evaluated, and only against a positive trailing average -
// ratios against near-zero or negative baselines are meaningless.
func detectWeakMonths(txs []ledger.Transaction, cfg Config) []Alert {
	nets := monthlyNets(txs)
	if len(nets) < 2 {
		return nil
	}

	keys := make([]string, 0, len(nets))
	for key := range nets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var alerts []Alert
	for i := 1; i < len(keys); i++ {
		// Trailing window: up to TrailingMonths immediately preceding
		// months of recorded history.
		lo := i - cfg.TrailingMonths
		if lo < 0 {
			lo = 0
		}
		sum := decimal.Zero
		for _, key := range keys[lo:i] {
			sum = sum.Add(nets[key])
		}
		avg := sum.Div(decimal.NewFromInt(int64(i - lo)))
		if !avg.IsPositive() {
			continue
		}

		net := nets[keys[i]]
		deviation := net.Sub(avg).Div(avg)
		if deviation.GreaterThan(decimal.NewFromFloat(cfg.WeakThreshold)) {
			continue
		}

		severity := SeverityWarning
		if deviation.LessThanOrEqual(decimal.NewFromFloat(cfg.HighThreshold)) {
			severity = SeverityHigh
		}

		pct := deviation.Mul(decimal.NewFromInt(-100)).Round(0)
		alerts = append(alerts, Alert{
			ID:          "weak-month:" + keys[i],
			Kind:        KindWeakMonth,
			Severity:    severity,
			Month:       keys[i],
			Net:         net,
			TrailingAvg: avg,
			Deviation:   deviation,
			Message: fmt.Sprintf("net result for %s is %s%% below the trailing %d-month average",
				keys[i], pct.String(), i-lo),
		})
	}
	return alerts
}

// monthlyNets groups completed history by month key and computes each
// month's net: income - expense, plus signed bank adjustments.
func monthlyNets(txs []ledger.Transaction) map[string]decimal.Decimal {
	nets := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Status != ledger.StatusCompleted || tx.Date.IsZero() {
			continue
		}
		key := tx.Date.MonthKey()
		switch {
		case tx.Group.IsIncome():
			nets[key] = nets[key].Add(tx.Amount.Abs())
		case tx.Group.IsExpense():
			nets[key] = nets[key].Sub(tx.Amount.Abs())
		case tx.Group == ledger.GroupBankAdjustment:
			nets[key] = nets[key].Add(tx.Amount)
		}
	}
	return nets
}
