// Package distribution records payouts of loan interest to the group and its
// members.
package distribution

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

var (
	ErrNotFound         = apperr.NotFound("distribution not found")
	ErrMissingFields    = apperr.Validation("loan, group, amount, and currency are required")
	ErrLoanNotInGroup   = apperr.Relationship("loan does not belong to this group")
	ErrCurrencyMismatch = apperr.Validation("distribution currency must match loan currency")
)

type Distribution struct {
	ID         uuid.UUID
	LoanID     uuid.UUID
	GroupID    uuid.UUID
	MemberID   *uuid.UUID
	MemberName string
	Amount     decimal.Decimal
	Currency   ledger.Currency
	Date       time.Time
	Notes      string
	CreatedAt  time.Time
}
