/*
balance.go - Running balance calculation

PURPOSE:
  Annotates ledger rows with the three derived fields every consumer needs:
  DailyTotal (same-day net), Balance (cumulative from the opening balance),
  and RunningTotal (the period-to-date reading, mirrored from Balance).

THE RECURRENCE:
  Rows are sorted ascending by date, then strictly sequentially:

    Balance[0] = opening + DailyTotal[0]
    Balance[i] = Balance[i-1] + DailyTotal[i]

  Same-day transactions are already merged into a single row by BuildRows,
  so no intra-day ordering is observable or required.

OPENING BALANCE:
  The opening balance is the sole seed of the recurrence. It is supplied by
  the caller (application initial balance plus completed pre-range history)
  and never derived here.

SEE ALSO:
  - normalize.go: DailyTotal sign conventions
  - range.go: Feeds this with a complete set of rows
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RUNNING BALANCE CALCULATOR
// =============================================================================

// ComputeBalances sorts rows chronologically and annotates each with
// DailyTotal, Balance, and RunningTotal. The input slice is sorted and
// mutated in place, then returned for convenience.
func ComputeBalances(rows []Row, opening decimal.Decimal) []Row {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	balance := opening
	for i := range rows {
		daily := Normalize(rows[i]).Net()
		balance = balance.Add(daily)

		rows[i].DailyTotal = daily
		rows[i].Balance = balance
		rows[i].RunningTotal = balance
	}
	return rows
}
