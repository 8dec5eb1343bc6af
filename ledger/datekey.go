package ledger

import (
	"strings"
	"time"
)

// =============================================================================
// DATE KEY - Canonical calendar date (no time-of-day, no zone)
// =============================================================================

// DateKey is a calendar day. All dates exchanged with the engine use the
// canonical "2006-01-02" form; arithmetic is timezone-agnostic because a
// DateKey is never a timestamp.
type DateKey struct {
	Time time.Time
}

const dateKeyLayout = "2006-01-02"

// Constructors
func NewDateKey(year int, month time.Month, day int) DateKey {
	return DateKey{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() DateKey {
	now := time.Now()
	return NewDateKey(now.Year(), now.Month(), now.Day())
}

// ParseDateKey parses a canonical "2006-01-02" string. Inputs carrying a
// time-of-day suffix ("2025-06-10T14:00:00Z", "2025-06-10 14:00") are
// truncated to their date part first, defending against inconsistent
// serialization upstream. Returns (zero, false) on garbage.
func ParseDateKey(s string) (DateKey, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return DateKey{}, false
	}
	return NewDateKey(t.Year(), t.Month(), t.Day()), true
}

// Comparison
func (d DateKey) Before(other DateKey) bool        { return d.normalize().Before(other.normalize()) }
func (d DateKey) Equal(other DateKey) bool         { return d.normalize().Equal(other.normalize()) }
func (d DateKey) After(other DateKey) bool         { return d.normalize().After(other.normalize()) }
func (d DateKey) BeforeOrEqual(other DateKey) bool { return d.Before(other) || d.Equal(other) }
func (d DateKey) AfterOrEqual(other DateKey) bool  { return d.After(other) || d.Equal(other) }

func (d DateKey) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d DateKey) AddDays(n int) DateKey   { return DateKey{Time: d.normalize().AddDate(0, 0, n)} }
func (d DateKey) AddMonths(n int) DateKey { return DateKey{Time: d.normalize().AddDate(0, n, 0)} }
func (d DateKey) AddYears(n int) DateKey  { return DateKey{Time: d.normalize().AddDate(n, 0, 0)} }

// Properties
func (d DateKey) Year() int             { return d.Time.Year() }
func (d DateKey) Month() time.Month     { return d.Time.Month() }
func (d DateKey) Day() int              { return d.Time.Day() }
func (d DateKey) Weekday() time.Weekday { return d.normalize().Weekday() }
func (d DateKey) IsZero() bool          { return d.Time.IsZero() }

// The business week runs Sunday through Thursday; Friday and Saturday are
// the weekend.
func (d DateKey) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Friday || wd == time.Saturday
}
func (d DateKey) IsWorkingDay() bool { return !d.IsWeekend() }

func (d DateKey) String() string { return d.normalize().Format(dateKeyLayout) }

// MonthKey returns the "2006-01" key used for monthly grouping.
func (d DateKey) MonthKey() string { return d.normalize().Format("2006-01") }

// =============================================================================
// DATE UTILITIES
// =============================================================================

func DaysBetween(from, to DateKey) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

func StartOfMonth(d DateKey) DateKey { return NewDateKey(d.Year(), d.Month(), 1) }

func EndOfMonth(d DateKey) DateKey {
	t := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return DateKey{Time: t}
}

// MinDateKey and MaxDateKey fold over zero values so they can seed
// reductions over possibly-empty transaction lists.
func MinDateKey(a, b DateKey) DateKey {
	if a.IsZero() {
		return b
	}
	if b.IsZero() || a.Before(b) {
		return a
	}
	return b
}

func MaxDateKey(a, b DateKey) DateKey {
	if a.IsZero() {
		return b
	}
	if b.IsZero() || a.After(b) {
		return a
	}
	return b
}
