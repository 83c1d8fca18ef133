// Package credit decides how much a member may borrow.
//
// A member's limit is the larger of their cash savings and the cash value of
// their shares, never the sum: shares are a view of the same savings.
package credit

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

// DefaultInterestRate is used when a caller asks for an eligibility quote
// without naming a rate.
var DefaultInterestRate = decimal.NewFromInt(10)

var (
	ErrNoCredit  = apperr.Rejected("member has no eligible credit")
	ErrOverLimit = apperr.Rejected("requested amount exceeds member credit limit")
)

// Input is a snapshot of the member and group figures the limit is based on.
type Input struct {
	SavingsTotal decimal.Decimal
	TotalShares  int64
	PerShareRate decimal.Decimal
	Requested    decimal.Decimal
	// InterestRate in percent. Nil means DefaultInterestRate.
	InterestRate *decimal.Decimal
}

// Eligibility is the evaluated borrowing position of a member.
// All monetary values are rounded to cents.
type Eligibility struct {
	SavingsTotal   decimal.Decimal
	TotalShares    int64
	PerShareRate   decimal.Decimal
	CreditByShares decimal.Decimal
	CreditLimit    decimal.Decimal
	Requested      decimal.Decimal
	InterestRate   decimal.Decimal
	InterestAmount decimal.Decimal
	Eligible       bool
}

// Evaluate computes the credit limit and the interest a requested loan would carry.
func Evaluate(in Input) Eligibility {
	rate := DefaultInterestRate
	if in.InterestRate != nil {
		rate = *in.InterestRate
	}

	byShares := decimal.Zero
	if in.TotalShares > 0 && in.PerShareRate.IsPositive() {
		byShares = in.PerShareRate.Mul(decimal.NewFromInt(in.TotalShares))
	}

	limit := decimal.Max(decimal.Zero, in.SavingsTotal, byShares)

	interest := decimal.Zero
	if in.Requested.IsPositive() && rate.IsPositive() {
		interest = ledger.OfRate(in.Requested, rate)
	}

	e := Eligibility{
		SavingsTotal:   ledger.Round2(in.SavingsTotal),
		TotalShares:    in.TotalShares,
		PerShareRate:   ledger.Round2(in.PerShareRate),
		CreditByShares: ledger.Round2(byShares),
		CreditLimit:    ledger.Round2(limit),
		Requested:      ledger.Round2(in.Requested),
		InterestRate:   ledger.Round2(rate),
		InterestAmount: ledger.Round2(interest),
	}
	e.Eligible = Check(e) == nil

	return e
}

// Check rejects a request that the evaluated limit cannot cover. The returned
// error echoes the limit so callers can adjust the request.
func Check(e Eligibility) error {
	if !e.CreditLimit.IsPositive() {
		return ErrNoCredit.With("creditLimit", e.CreditLimit)
	}

	if e.Requested.GreaterThan(e.CreditLimit) {
		return ErrOverLimit.With("creditLimit", e.CreditLimit)
	}

	return nil
}
