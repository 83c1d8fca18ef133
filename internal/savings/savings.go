// Package savings records share purchases and withdrawals against a member's
// savings and keeps the group and member balances in step with the ledger.
package savings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

type Type string

const (
	TypeCredit Type = "credit"
	TypeDebit  Type = "debit"
)

// ParseType maps anything other than "debit" to a credit.
func ParseType(s string) Type {
	if Type(s) == TypeDebit {
		return TypeDebit
	}

	return TypeCredit
}

var (
	ErrNotFound            = apperr.NotFound("savings record not found")
	ErrMissingFields       = apperr.Validation("group, member, and currency are required")
	ErrNegativeShares      = apperr.Validation("shares must be a non-negative number")
	ErrFractionalShares    = apperr.Validation("shares must be a whole number")
	ErrCreditShares        = apperr.Validation("shares must be at least 1 for savings credit")
	ErrRateNotConfigured   = apperr.Validation("group savings amount per share is not configured")
	ErrAmountRequired      = apperr.Validation("amount must be a positive number")
	ErrInsufficientSavings = apperr.Rejected("insufficient member savings balance")
	ErrInsufficientShares  = apperr.Rejected("insufficient member shares balance")
)

// Entry is an immutable savings ledger line.
type Entry struct {
	ID         uuid.UUID
	GroupID    uuid.UUID
	MemberID   uuid.UUID
	MemberName string
	Amount     decimal.Decimal
	Shares     int64
	Type       Type
	Currency   ledger.Currency
	Date       time.Time
	Notes      string
	CreatedAt  time.Time
}

// Delta returns the signed change the entry makes to savings and shares.
func (e *Entry) Delta() (decimal.Decimal, int64) {
	if e.Type == TypeDebit {
		return e.Amount.Neg(), -e.Shares
	}

	return e.Amount, e.Shares
}
