/*
range.go - Range ledger orchestration

PURPOSE:
  Builds a complete ledger for an arbitrary [start, end] window. The
  effective window is the union of the requested window and the min/max of
  the transaction dates, so activity outside the requested range is never
  silently dropped - dropping it would corrupt the running balance of every
  in-range day that depends on it.

DEGENERATE INPUT:
  - end before start: bounds are swapped
  - empty window and no transactions: a single-row ledger for today
  - transactions with unparseable (zero) dates: skipped entirely

SPAN CEILING:
  Malformed transaction dates (year 0219, 20250) could otherwise explode the
  window into millions of rows. The effective window is clamped to a sane
  ceiling around the requested window; transactions falling outside the
  clamped window are folded into the boundary day instead of dropped, so
  balances stay exact.

SEE ALSO:
  - rows.go: Per-day bucketing
  - balance.go: The running-balance recurrence
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/internal/logging"
)

// maxRangeDays bounds the effective window's extension on either side of the
// requested window. Fifty years of daily rows is far beyond any realistic
// organization history.
const maxRangeDays = 50 * 366

// =============================================================================
// LEDGER - A computed range with per-day lookup
// =============================================================================

// Ledger is a complete, date-contiguous run of balance-annotated rows.
// Callers read an arbitrary day's balance ("balance as of today") or the
// terminal balance ("month-end balance") without re-deriving anything.
type Ledger struct {
	Rows    []Row
	Opening decimal.Decimal

	// Window is the effective window actually covered, which may be wider
	// than the requested one.
	Window Period

	byDate map[string]int
}

// BuildLedger produces the ledger for the requested window and opening
// balance. The opening balance is anchored at the effective window's start.
func BuildLedger(txs []Transaction, window Period, opening decimal.Decimal) *Ledger {
	if !window.Start.IsZero() && !window.End.IsZero() && window.End.Before(window.Start) {
		window.Start, window.End = window.End, window.Start
	}

	effective := effectiveWindow(txs, window)
	days := effective.Days()
	rows := BuildRows(days, foldIntoWindow(txs, effective))
	rows = ComputeBalances(rows, opening)

	byDate := make(map[string]int, len(rows))
	for i, row := range rows {
		byDate[row.Date.String()] = i
	}

	return &Ledger{
		Rows:    rows,
		Opening: opening,
		Window:  effective,
		byDate:  byDate,
	}
}

// effectiveWindow unions the requested window with the transaction dates'
// min/max, then clamps to the span ceiling.
func effectiveWindow(txs []Transaction, window Period) Period {
	start, end := window.Start, window.End

	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		start = MinDateKey(start, tx.Date)
		end = MaxDateKey(end, tx.Date)
	}

	// Nothing at all to anchor on: a single-row ledger for today.
	if start.IsZero() && end.IsZero() {
		today := Today()
		return Period{Start: today, End: today}
	}
	if start.IsZero() {
		start = end
	}
	if end.IsZero() {
		end = start
	}

	// Clamp runaway extensions around the requested window (or, absent one,
	// around today).
	anchorStart, anchorEnd := window.Start, window.End
	if !window.IsValid() {
		anchorStart, anchorEnd = Today(), Today()
	}
	clamped := Period{
		Start: MaxDateKey(start, anchorStart.AddDays(-maxRangeDays)),
		End:   MinDateKey(end, anchorEnd.AddDays(maxRangeDays)),
	}
	if !clamped.Start.Equal(start) || !clamped.End.Equal(end) {
		logging.L().WithFields(map[string]any{
			"requested": window.String(),
			"union":     Period{Start: start, End: end}.String(),
			"effective": clamped.String(),
		}).Warn("ledger range clamped to span ceiling")
	}
	return clamped
}

// foldIntoWindow remaps transactions dated outside the window onto its
// boundary days so their amounts still participate in the running balance.
// Returns the input slice unchanged when nothing needs folding.
func foldIntoWindow(txs []Transaction, window Period) []Transaction {
	folded := txs
	copied := false
	for i, tx := range txs {
		if tx.Date.IsZero() || window.Contains(tx.Date) {
			continue
		}
		if !copied {
			folded = make([]Transaction, len(txs))
			copy(folded, txs)
			copied = true
		}
		if tx.Date.Before(window.Start) {
			folded[i].Date = window.Start
		} else {
			folded[i].Date = window.End
		}
	}
	return folded
}

// =============================================================================
// LOOKUPS
// =============================================================================

// RowOn returns the row for the given day, if the day is covered.
func (l *Ledger) RowOn(d DateKey) (Row, bool) {
	i, ok := l.byDate[d.String()]
	if !ok {
		return Row{}, false
	}
	return l.Rows[i], true
}

// BalanceOn returns the cumulative balance as of the given day: the balance
// of the latest covered day at or before it, or the opening balance when the
// day precedes the whole range.
func (l *Ledger) BalanceOn(d DateKey) decimal.Decimal {
	if len(l.Rows) == 0 || d.Before(l.Rows[0].Date) {
		return l.Opening
	}
	// First row strictly after d; the row before it holds the balance.
	i := sort.Search(len(l.Rows), func(i int) bool {
		return l.Rows[i].Date.After(d)
	})
	return l.Rows[i-1].Balance
}

// ClosingBalance returns the balance at the end of the effective window.
func (l *Ledger) ClosingBalance() decimal.Decimal {
	if len(l.Rows) == 0 {
		return l.Opening
	}
	return l.Rows[len(l.Rows)-1].Balance
}
