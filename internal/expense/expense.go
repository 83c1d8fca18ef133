// Package expense records group spending and meeting fines.
package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

type Type string

const (
	TypeExpense Type = "expense"
	TypeFine    Type = "fine"
)

// ParseType maps anything other than "fine" to an expense.
func ParseType(s string) Type {
	if Type(s) == TypeFine {
		return TypeFine
	}

	return TypeExpense
}

var (
	ErrNotFound       = apperr.NotFound("expense record not found")
	ErrMissingFields  = apperr.Validation("group and currency are required")
	ErrAmountRequired = apperr.Validation("amount must be a positive number")
	ErrFineAmount     = apperr.Validation("amount must be a positive number, or configure meeting fine amount on the group")
)

type Expense struct {
	ID         uuid.UUID
	GroupID    uuid.UUID
	MemberID   *uuid.UUID
	MemberName string
	Type       Type
	Category   string
	Amount     decimal.Decimal
	Currency   ledger.Currency
	Date       time.Time
	Notes      string
	CreatedAt  time.Time
}

// Delta is the change the entry makes to its group's running totals.
func (e *Expense) Delta() group.Totals {
	if e.Type == TypeFine {
		return group.Totals{TotalFines: e.Amount}
	}

	return group.Totals{TotalExpenses: e.Amount}
}
