package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/expense"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

type expenseResponse struct {
	ID         uuid.UUID       `json:"id"`
	Group      uuid.UUID       `json:"group"`
	Member     *uuid.UUID      `json:"member,omitempty"`
	MemberName string          `json:"memberName,omitempty"`
	Type       expense.Type    `json:"type"`
	Category   string          `json:"category,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   ledger.Currency `json:"currency"`
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:         e.ID,
		Group:      e.GroupID,
		Member:     e.MemberID,
		MemberName: e.MemberName,
		Type:       e.Type,
		Category:   e.Category,
		Amount:     e.Amount,
		Currency:   e.Currency,
		Date:       e.Date,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
}

func toResponseList(expenses []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toResponse(e)
	}

	return resp
}
