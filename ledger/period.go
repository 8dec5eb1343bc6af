package ledger

// =============================================================================
// PERIOD - Inclusive [Start, End] day window
// =============================================================================

// Period is the time boundary for ledger building. Both ends are inclusive.
type Period struct {
	Start DateKey
	End   DateKey
}

// Contains returns true if the day is within the period [Start, End].
func (p Period) Contains(d DateKey) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every day in the period, ascending. Returns nil when either
// bound is zero.
func (p Period) Days() []DateKey {
	if p.Start.IsZero() || p.End.IsZero() {
		return nil
	}
	var days []DateKey
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// IsValid reports whether the period is usable as-is (both bounds set,
// end not before start).
func (p Period) IsValid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && !p.End.Before(p.Start)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthOf returns the calendar-month period containing the given day.
func MonthOf(d DateKey) Period {
	return Period{Start: StartOfMonth(d), End: EndOfMonth(d)}
}
