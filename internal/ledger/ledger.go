// Package ledger holds the monetary arithmetic shared by every book of the
// savings group: rounding, loan duration normalization and installments.
package ledger

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
)

// Currency is an ISO-like code for the currencies the group keeps books in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyLRD Currency = "LRD"
)

var ErrInvalidCurrency = apperr.Validation("currency must be one of USD, LRD")

// ParseCurrency validates a currency code supplied by a caller.
func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case CurrencyUSD, CurrencyLRD:
		return c, nil
	default:
		return "", ErrInvalidCurrency
	}
}

// DurationUnit is the unit a loan duration is expressed in.
type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
	UnitYears  DurationUnit = "years"
)

// DurationToWeeks normalizes a loan duration to whole weeks.
// Months count as 4 weeks and years as 52. Unknown units return n unchanged.
func DurationToWeeks(n int, unit DurationUnit) int {
	switch DurationUnit(strings.ToLower(string(unit))) {
	case UnitDays:
		return int(math.Ceil(float64(n) / 7))
	case UnitWeeks:
		return n
	case UnitMonths:
		return n * 4
	case UnitYears:
		return n * 52
	default:
		return n
	}
}

var hundred = decimal.NewFromInt(100)

// WeeklyInstallment spreads principal plus flat interest evenly over the loan
// duration. The second return value is false when the installment is undefined,
// i.e. the duration is shorter than a week or the principal is not positive.
func WeeklyInstallment(principal, ratePercent decimal.Decimal, n int, unit DurationUnit) (decimal.Decimal, bool) {
	weeks := DurationToWeeks(n, unit)
	if weeks <= 0 || !principal.IsPositive() {
		return decimal.Zero, false
	}

	total := principal.Mul(decimal.NewFromInt(1).Add(ratePercent.Div(hundred)))

	return Round2(total.Div(decimal.NewFromInt(int64(weeks)))), true
}

// Round2 rounds to cents, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}

	return part.Mul(hundred).Div(whole)
}

// OfRate returns amount*rate/100.
func OfRate(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(hundred)
}
