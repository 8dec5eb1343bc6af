package insight

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/ledger"
)

// =============================================================================
// SLOW-PAYER DETECTOR
// =============================================================================

type payerStats struct {
	ref         string
	outstanding decimal.Decimal
	totalAge    int
	count       int
}

// detectSlowPayers flags counterparties whose pending income is chronically
// overdue: average age of pending income transactions at or above the
// configured threshold as of "now". Each alert carries the aggregate
// outstanding amount for prioritization.
func detectSlowPayers(txs []ledger.Transaction, now ledger.DateKey, cfg Config) []Alert {
	groups := make(map[string]*payerStats)
	for _, tx := range txs {
		if tx.Status != ledger.StatusPending || !tx.Group.IsIncome() || tx.Date.IsZero() {
			continue
		}
		// Counterparty reference, description as fallback.
		ref := tx.CounterpartyID
		if ref == "" {
			ref = tx.Description
		}
		if ref == "" {
			continue
		}

		age := ledger.DaysBetween(tx.Date, now)
		if age < 0 {
			age = 0
		}

		stats := groups[ref]
		if stats == nil {
			stats = &payerStats{ref: ref}
			groups[ref] = stats
		}
		stats.outstanding = stats.outstanding.Add(tx.Amount.Abs())
		stats.totalAge += age
		stats.count++
	}

	var alerts []Alert
	for _, stats := range groups {
		avgAge := stats.totalAge / stats.count
		if avgAge < cfg.SlowPayerDays {
			continue
		}
		severity := SeverityWarning
		if avgAge >= cfg.SlowPayerHighDays {
			severity = SeverityHigh
		}
		alerts = append(alerts, Alert{
			ID:           "slow-payer:" + stats.ref,
			Kind:         KindSlowPayer,
			Severity:     severity,
			Counterparty: stats.ref,
			Outstanding:  stats.outstanding,
			AvgAgeDays:   avgAge,
			Message: fmt.Sprintf("pending income from %s is on average %d days old",
				stats.ref, avgAge),
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		if !alerts[i].Outstanding.Equal(alerts[j].Outstanding) {
			return alerts[i].Outstanding.GreaterThan(alerts[j].Outstanding)
		}
		return alerts[i].Counterparty < alerts[j].Counterparty
	})
	return alerts
}
