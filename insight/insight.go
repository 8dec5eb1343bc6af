/*
Package insight derives statistical alerts from transaction history.

PURPOSE:
  Two independent detectors over the full transaction list:
  - weak months: a month whose net result deviates sharply below its
    trailing reference average
  - slow payers: counterparties whose pending income is chronically overdue

  Both are pure functions of (transactions, reference "now") with no
  ordering dependency on each other. Alerts carry a stable identifier for
  UI de-duplication; rendering and currency formatting are a presentation
  concern and happen elsewhere.

SEE ALSO:
  - weakmonth.go: Weak-month detector
  - slowpayer.go: Slow-payer detector
*/
package insight

import (
	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/ledger"
)

// =============================================================================
// ALERTS
// =============================================================================

type Kind string

const (
	KindWeakMonth Kind = "weak_month"
	KindSlowPayer Kind = "slow_payer"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityHigh    Severity = "high"
)

// Alert is plain data. ID is deterministic ("weak-month:2025-06",
// "slow-payer:<counterparty>") so repeated detection runs de-duplicate.
type Alert struct {
	ID       string
	Kind     Kind
	Severity Severity
	Message  string

	// Weak-month fields.
	Month       string // "2006-01"
	Net         decimal.Decimal
	TrailingAvg decimal.Decimal
	Deviation   decimal.Decimal // (net - avg) / avg, negative when weak

	// Slow-payer fields.
	Counterparty string
	Outstanding  decimal.Decimal
	AvgAgeDays   int
}

// =============================================================================
// CONFIG
// =============================================================================

type Config struct {
	// TrailingMonths is the weak-month reference window.
	TrailingMonths int

	// Deviation thresholds (negative ratios).
	WeakThreshold float64
	HighThreshold float64

	// Slow-payer average-age thresholds in days.
	SlowPayerDays     int
	SlowPayerHighDays int
}

func DefaultConfig() Config {
	return Config{
		TrailingMonths:    3,
		WeakThreshold:     -0.15,
		HighThreshold:     -0.30,
		SlowPayerDays:     30,
		SlowPayerHighDays: 60,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TrailingMonths <= 0 {
		c.TrailingMonths = d.TrailingMonths
	}
	if c.WeakThreshold >= 0 {
		c.WeakThreshold = d.WeakThreshold
	}
	if c.HighThreshold >= 0 {
		c.HighThreshold = d.HighThreshold
	}
	if c.SlowPayerDays <= 0 {
		c.SlowPayerDays = d.SlowPayerDays
	}
	if c.SlowPayerHighDays <= 0 {
		c.SlowPayerHighDays = d.SlowPayerHighDays
	}
	return c
}

// =============================================================================
// ENGINE
// =============================================================================

type Engine struct {
	Config Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{Config: cfg.withDefaults()}
}

// Detect runs both detectors and returns a flat alert list: weak months in
// chronological order, then slow payers by outstanding amount descending.
func (e *Engine) Detect(txs []ledger.Transaction, now ledger.DateKey) []Alert {
	cfg := e.Config.withDefaults()
	if now.IsZero() {
		now = ledger.Today()
	}

	alerts := detectWeakMonths(txs, cfg)
	alerts = append(alerts, detectSlowPayers(txs, now, cfg)...)
	return alerts
}
