/*
Package ledger provides the core cashflow ledger engine.

PURPOSE:
  This package contains the deterministic transformation from an unordered
  collection of dated transactions into a complete, date-contiguous ledger
  with running balances. Every consumer (dashboard, monthly grid, summary,
  chart builder) shares this one engine so sign conventions and range
  handling have a single source of truth.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: An immutable record of a dated financial event
  - Group: The categorical bucket a transaction belongs to
  - Direction/Status: Income vs expense, pending vs completed
  - ParseAmount: Defensive coercion of untrusted amount values

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Tolerance: Malformed per-record fields coerce to safe defaults,
     never errors - one bad historical record must not break the ledger
  3. Purity: Everything here is recomputed from scratch per invocation

SIGN CONVENTION:
  Amounts are stored as non-negative magnitudes for every group except
  bank_adjustment, which is signed (positive deposit, negative withdrawal).
  The engine takes absolute values defensively rather than trusting callers.

SEE ALSO:
  - datekey.go: Canonical calendar-date representation
  - rows.go: Per-day bucketing of transactions
  - balance.go: Running balance calculation
  - range.go: Window orchestration and lookup
*/
package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TransactionID string

// =============================================================================
// GROUP - Categorical bucket for a transaction
// =============================================================================

type Group string

const (
	GroupFee            Group = "fee"
	GroupOtherIncome    Group = "other_income"
	GroupOperational    Group = "operational"
	GroupTax            Group = "tax"
	GroupLoan           Group = "loan"
	GroupPersonal       Group = "personal"
	GroupBankAdjustment Group = "bank_adjustment"
)

// IsIncome reports whether the group contributes positively to daily totals.
func (g Group) IsIncome() bool {
	return g == GroupFee || g == GroupOtherIncome
}

// IsExpense reports whether the group contributes negatively to daily totals.
// Bank adjustments are neither: they carry their own sign.
func (g Group) IsExpense() bool {
	switch g {
	case GroupOperational, GroupTax, GroupLoan, GroupPersonal:
		return true
	}
	return false
}

// =============================================================================
// DIRECTION / STATUS
// =============================================================================

type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// =============================================================================
// TRANSACTION - Immutable-by-convention dated financial event
// =============================================================================

type Transaction struct {
	ID        TransactionID
	Date      DateKey
	Amount    decimal.Decimal
	Direction Direction
	Group     Group

	Category    string
	Description string
	Status      Status

	// Optional counterparty reference, used by the slow-payer detector.
	CounterpartyID string

	// Optional flags.
	IsRecurring      bool
	IsManualOverride bool
	LoanEndMonth     string // "2006-01" month key, empty when not set
}

// Magnitude returns the transaction's amount under the engine's sign
// convention: absolute value for every group except bank_adjustment,
// which passes through signed.
func (t Transaction) Magnitude() decimal.Decimal {
	if t.Group == GroupBankAdjustment {
		return t.Amount
	}
	return t.Amount.Abs()
}

// =============================================================================
// AMOUNT COERCION - Defend against untrusted persistence layers
// =============================================================================

// ParseAmount coerces an untyped amount value to a decimal. Missing, string,
// or garbage values coerce to zero rather than failing, so a single bad
// record cannot prevent the rest of the ledger from building.
func ParseAmount(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(n)
	case float32:
		return ParseAmount(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		return parseDecimalString(n.String())
	case string:
		return parseDecimalString(n)
	default:
		return decimal.Zero
	}
}

func parseDecimalString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	// Last resort for locale-ish input like "1,500.25".
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return decimal.NewFromFloat(f)
	}
	return decimal.Zero
}
