/*
Package forecast projects the end-of-current-month balance.

PURPOSE:
  Consumes completed-transaction history and produces a point forecast for
  the remainder of the reference date's calendar month, with a confidence
  band. Every intermediate quantity is exposed on the Result because
  downstream reporting displays them.

ALGORITHM:
  1. Group completed history by calendar month (income vs expense)
  2. Average income over the trailing N full months (default 6), current
     month excluded; sample standard deviation sizes the confidence band
  3. Seasonal multiplier from the same calendar month in prior years,
     clamped to avoid extreme swings from thin history
  4. Pending income dated inside the current month counts in full
  5. Remaining-month income: trailing daily average times remaining days,
     with weekends (Friday/Saturday) earning a partial 40% rate rather
     than zero - some income still lands on weekends
  6. A recurring expense (explicit flag or payroll/rent keyword) that has
     not yet posted this month is subtracted; one that already posted is
     assumed to be reflected in the current balance
  7. forecast = current + max(0, (pending + projected - dampening) *
     seasonal) - recurring estimate
  8. band = forecast +/- forecast * clamp(stddev/avg, 5%, 10%); sparse
     history falls back to the 5% floor to avoid overclaiming precision

HEURISTIC CONSTANTS:
  Weekend dampening, band clamps, seasonal clamps, and the trailing window
  are Config fields with defaults, not hard invariants.

DEGENERATE INPUT:
  Empty history forecasts the current balance with an exactly 5% band.

SEE ALSO:
  - monthly.go: Monthly grouping and window statistics
  - ledger: Transaction model and date keys
*/
package forecast

import (
	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/ledger"
)

// =============================================================================
// CONFIG - Heuristic parameters with defaults
// =============================================================================

type Config struct {
	// TrailingMonths is the history window for averages (current month
	// excluded).
	TrailingMonths int

	// WeekendDampening is the fraction of the daily average that weekend
	// days still earn (0.40 = 40%).
	WeekendDampening float64

	// Confidence band ratio clamp bounds.
	ConfidenceMin float64
	ConfidenceMax float64

	// Seasonal multiplier clamp bounds.
	SeasonalMin float64
	SeasonalMax float64

	// RecurringKeywords supplement the explicit IsRecurring flag when
	// recognizing recurring expenses. Matched lowercase against
	// description and category.
	RecurringKeywords []string
}

func DefaultConfig() Config {
	return Config{
		TrailingMonths:   6,
		WeekendDampening: 0.40,
		ConfidenceMin:    0.05,
		ConfidenceMax:    0.10,
		SeasonalMin:      0.85,
		SeasonalMax:      1.15,
		RecurringKeywords: []string{
			"payroll", "salary", "salaries", "wages",
			"rent", "lease", "subscription", "insurance",
		},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TrailingMonths <= 0 {
		c.TrailingMonths = d.TrailingMonths
	}
	if c.WeekendDampening <= 0 {
		c.WeekendDampening = d.WeekendDampening
	}
	if c.ConfidenceMin <= 0 {
		c.ConfidenceMin = d.ConfidenceMin
	}
	if c.ConfidenceMax <= 0 {
		c.ConfidenceMax = d.ConfidenceMax
	}
	if c.SeasonalMin <= 0 {
		c.SeasonalMin = d.SeasonalMin
	}
	if c.SeasonalMax <= 0 {
		c.SeasonalMax = d.SeasonalMax
	}
	if c.RecurringKeywords == nil {
		c.RecurringKeywords = d.RecurringKeywords
	}
	return c
}

// =============================================================================
// INPUT / RESULT
// =============================================================================

type Input struct {
	// Transactions is the full history snapshot (pending and completed).
	Transactions []ledger.Transaction

	// CurrentBalance is the balance as of AsOf.
	CurrentBalance decimal.Decimal

	// OpeningBalance is the balance at the start of AsOf's month. Exposed
	// on the result for reporting; the projection itself anchors on
	// CurrentBalance.
	OpeningBalance decimal.Decimal

	// AsOf is the reference date. Zero means today.
	AsOf ledger.DateKey
}

// Result is the forecast plus every intermediate used to build it.
type Result struct {
	Forecast decimal.Decimal
	Low      decimal.Decimal
	High     decimal.Decimal

	TrailingAvgIncome        decimal.Decimal
	TrailingStdDev           decimal.Decimal
	SeasonalMultiplier       decimal.Decimal
	PendingIncome            decimal.Decimal
	ProjectedRemainingIncome decimal.Decimal
	WeekendDampening         decimal.Decimal
	RecurringExpenseEstimate decimal.Decimal

	RemainingWorkingDays int
	RemainingWeekendDays int
	ConfidenceRatio      decimal.Decimal

	AsOf           ledger.DateKey
	OpeningBalance decimal.Decimal
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes month-end forecasts. Pure: safe to invoke repeatedly or
// concurrently over independent inputs.
type Engine struct {
	Config Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{Config: cfg.withDefaults()}
}

// Forecast projects the end-of-month balance for the reference date's
// calendar month.
func (e *Engine) Forecast(in Input) Result {
	cfg := e.Config.withDefaults()

	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = ledger.Today()
	}
	currentMonth := asOf.MonthKey()

	months := collectMonthly(in.Transactions, cfg)

	// Trailing income window, current month excluded.
	var incomes []decimal.Decimal
	var recurring []decimal.Decimal
	for _, key := range trailingMonthKeys(asOf, cfg.TrailingMonths) {
		stats, ok := months[key]
		if !ok {
			continue
		}
		incomes = append(incomes, stats.income)
		if stats.recurringExpense.IsPositive() {
			recurring = append(recurring, stats.recurringExpense)
		}
	}
	trailingAvg := mean(incomes)
	stdDev := sampleStdDev(incomes)

	seasonal := e.seasonalMultiplier(months, asOf, trailingAvg, cfg)
	pending := pendingIncome(in.Transactions, currentMonth)

	// Remaining days after the reference date, split by the Fri/Sat weekend.
	workingDays, weekendDays := remainingDays(asOf)

	dailyAvg := decimal.Zero
	if trailingAvg.IsPositive() {
		dailyAvg = trailingAvg.Div(decimal.NewFromInt(30))
	}
	projected := dailyAvg.Mul(decimal.NewFromInt(int64(workingDays + weekendDays)))

	// Weekends earn a partial rate, not zero: subtract only the dampened
	// share of the weekend projection.
	dampening := dailyAvg.
		Mul(decimal.NewFromInt(int64(weekendDays))).
		Mul(decimal.NewFromFloat(1 - cfg.WeekendDampening))

	recurringEstimate := recurringEstimate(months, recurring, currentMonth)

	gross := pending.Add(projected).Sub(dampening).Mul(seasonal)
	if gross.IsNegative() {
		gross = decimal.Zero
	}
	forecast := in.CurrentBalance.Add(gross).Sub(recurringEstimate)

	ratio := confidenceRatio(stdDev, trailingAvg, cfg)
	band := forecast.Mul(ratio)

	return Result{
		Forecast: forecast,
		Low:      forecast.Sub(band),
		High:     forecast.Add(band),

		TrailingAvgIncome:        trailingAvg,
		TrailingStdDev:           stdDev,
		SeasonalMultiplier:       seasonal,
		PendingIncome:            pending,
		ProjectedRemainingIncome: projected,
		WeekendDampening:         dampening,
		RecurringExpenseEstimate: recurringEstimate,

		RemainingWorkingDays: workingDays,
		RemainingWeekendDays: weekendDays,
		ConfidenceRatio:      ratio,

		AsOf:           asOf,
		OpeningBalance: in.OpeningBalance,
	}
}

// seasonalMultiplier compares the same calendar month in prior years against
// the overall trailing average. Clamped; defaults to 1.0 without history.
func (e *Engine) seasonalMultiplier(months map[string]*monthStats, asOf ledger.DateKey, trailingAvg decimal.Decimal, cfg Config) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if !trailingAvg.IsPositive() {
		return one
	}

	var sameMonth []decimal.Decimal
	for year := asOf.Year() - 1; year >= asOf.Year()-10; year-- {
		key := ledger.NewDateKey(year, asOf.Month(), 1).MonthKey()
		if stats, ok := months[key]; ok {
			sameMonth = append(sameMonth, stats.income)
		}
	}
	if len(sameMonth) == 0 {
		return one
	}

	multiplier := mean(sameMonth).Div(trailingAvg)
	return clampDecimal(multiplier, cfg.SeasonalMin, cfg.SeasonalMax)
}

// recurringEstimate returns the trailing average of recurring expenses, or
// zero when a recurring expense already posted this month (it is then
// assumed to be reflected in the current balance).
func recurringEstimate(months map[string]*monthStats, trailing []decimal.Decimal, currentMonth string) decimal.Decimal {
	if len(trailing) == 0 {
		return decimal.Zero
	}
	if stats, ok := months[currentMonth]; ok && stats.recurringExpense.IsPositive() {
		return decimal.Zero
	}
	// Not posted yet this month: expect the trailing average to land
	// before month end.
	return mean(trailing)
}

func pendingIncome(txs []ledger.Transaction, currentMonth string) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Status != ledger.StatusPending || !tx.Group.IsIncome() {
			continue
		}
		if tx.Date.IsZero() || tx.Date.MonthKey() != currentMonth {
			continue
		}
		sum = sum.Add(tx.Amount.Abs())
	}
	return sum
}

// remainingDays counts the days strictly after asOf through month end,
// split into working days and the Friday/Saturday weekend.
func remainingDays(asOf ledger.DateKey) (working, weekend int) {
	end := ledger.EndOfMonth(asOf)
	for day := asOf.AddDays(1); day.BeforeOrEqual(end); day = day.AddDays(1) {
		if day.IsWorkingDay() {
			working++
		} else {
			weekend++
		}
	}
	return working, weekend
}

func confidenceRatio(stdDev, trailingAvg decimal.Decimal, cfg Config) decimal.Decimal {
	if !trailingAvg.IsPositive() {
		return decimal.NewFromFloat(cfg.ConfidenceMin)
	}
	return clampDecimal(stdDev.Div(trailingAvg), cfg.ConfidenceMin, cfg.ConfidenceMax)
}

func clampDecimal(v decimal.Decimal, min, max float64) decimal.Decimal {
	lo := decimal.NewFromFloat(min)
	hi := decimal.NewFromFloat(max)
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
