package savings

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

// Request is a savings movement as submitted. Shares may be fractional or
// negative here so that Process can reject them.
type Request struct {
	Shares decimal.Decimal
	Amount *decimal.Decimal
	Type   Type
}

// Balance is the member position a debit is checked against.
type Balance struct {
	SavingsTotal decimal.Decimal
	TotalShares  int64
}

// Result is a validated movement with amount and shares reconciled.
type Result struct {
	Amount decimal.Decimal
	Shares int64
	Type   Type
}

// Process validates a movement and derives the missing half of the
// amount/shares pair from the group's value per share.
//
// Credits are always priced from shares; any amount sent is ignored. Debits
// are priced from shares when both shares and a share value are present,
// otherwise from the amount, and a whole share count is inferred from the
// amount where it divides evenly.
func Process(req Request, perShare decimal.Decimal, bal Balance) (Result, error) {
	if req.Shares.IsNegative() {
		return Result{}, ErrNegativeShares
	}

	if !req.Shares.IsInteger() {
		return Result{}, ErrFractionalShares
	}

	shares := req.Shares.IntPart()
	configured := perShare.IsPositive()

	if req.Type != TypeDebit {
		if shares < 1 {
			return Result{}, ErrCreditShares
		}

		if !configured {
			return Result{}, ErrRateNotConfigured
		}

		return Result{
			Amount: ledger.Round2(perShare.Mul(decimal.NewFromInt(shares))),
			Shares: shares,
			Type:   TypeCredit,
		}, nil
	}

	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}

	if shares > 0 && configured {
		amount = perShare.Mul(decimal.NewFromInt(shares))
	}

	amount = ledger.Round2(amount)
	if !amount.IsPositive() {
		return Result{}, ErrAmountRequired
	}

	if shares == 0 && configured && amount.Mod(perShare).IsZero() {
		shares = amount.Div(perShare).IntPart()
	}

	if shares > 0 && bal.TotalShares < shares {
		return Result{}, ErrInsufficientShares
	}

	if bal.SavingsTotal.LessThan(amount) {
		return Result{}, ErrInsufficientSavings
	}

	return Result{Amount: amount, Shares: shares, Type: TypeDebit}, nil
}
