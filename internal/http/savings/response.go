package savings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/savings"
)

type savingsResponse struct {
	ID              uuid.UUID       `json:"id"`
	Group           uuid.UUID       `json:"group"`
	Member          uuid.UUID       `json:"member"`
	MemberName      string          `json:"memberName"`
	Amount          decimal.Decimal `json:"amount"`
	Shares          int64           `json:"shares"`
	TransactionType savings.Type    `json:"transactionType"`
	Currency        ledger.Currency `json:"currency"`
	Date            time.Time       `json:"date"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func toResponse(e *savings.Entry) savingsResponse {
	return savingsResponse{
		ID:              e.ID,
		Group:           e.GroupID,
		Member:          e.MemberID,
		MemberName:      e.MemberName,
		Amount:          e.Amount,
		Shares:          e.Shares,
		TransactionType: e.Type,
		Currency:        e.Currency,
		Date:            e.Date,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
	}
}

func toResponseList(entries []*savings.Entry) []savingsResponse {
	resp := make([]savingsResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	return resp
}
