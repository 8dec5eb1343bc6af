/*
errors.go - Error types for the ledger engine

PURPOSE:
  Nothing in this engine is a fatal error: malformed input coerces to safe
  defaults and degenerate windows produce degenerate-but-valid ledgers.
  The sentinels here exist for callers that want to pre-validate input or
  classify store failures, consumed via errors.Is / errors.As.

SEE ALSO:
  - range.go: Self-heals invalid periods instead of returning ErrInvalidPeriod
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned by callers' own validation when a period
	// is malformed (end before start). BuildLedger itself swaps the bounds
	// rather than failing.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrRangeTooWide is returned when a requested window exceeds the
	// defensive span ceiling. BuildLedger clamps instead of failing; this
	// sentinel is for callers that validate up front.
	ErrRangeTooWide = errors.New("date range exceeds span ceiling")
)

// ValidatePeriod checks a requested window against the engine's defensive
// limits. BuildLedger never requires this; it is for callers that prefer
// rejecting malformed input at the boundary.
func ValidatePeriod(p Period) error {
	if !p.Start.IsZero() && !p.End.IsZero() && p.End.Before(p.Start) {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, p)
	}
	if p.IsValid() && DaysBetween(p.Start, p.End) > maxRangeDays {
		return fmt.Errorf("%w: %s spans %d days", ErrRangeTooWide, p, DaysBetween(p.Start, p.End))
	}
	return nil
}
