// Package socialfund records member contributions to the group's welfare fund.
package socialfund

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

var (
	ErrNotFound       = apperr.NotFound("social fund record not found")
	ErrMissingFields  = apperr.Validation("group, member, amount, and currency are required")
	ErrNegativeAmount = apperr.Validation("amount must be a non-negative number")
)

type Contribution struct {
	ID         uuid.UUID
	GroupID    uuid.UUID
	MemberID   uuid.UUID
	MemberName string
	Amount     decimal.Decimal
	Currency   ledger.Currency
	Date       time.Time
	Notes      string
	CreatedAt  time.Time
}
