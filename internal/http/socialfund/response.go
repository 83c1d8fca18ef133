package socialfund

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/socialfund"
)

type contributionResponse struct {
	ID         uuid.UUID       `json:"id"`
	Group      uuid.UUID       `json:"group"`
	Member     uuid.UUID       `json:"member"`
	MemberName string          `json:"memberName"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   ledger.Currency `json:"currency"`
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toResponse(c *socialfund.Contribution) contributionResponse {
	return contributionResponse{
		ID:         c.ID,
		Group:      c.GroupID,
		Member:     c.MemberID,
		MemberName: c.MemberName,
		Amount:     c.Amount,
		Currency:   c.Currency,
		Date:       c.Date,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
	}
}

func toResponseList(contributions []*socialfund.Contribution) []contributionResponse {
	resp := make([]contributionResponse, len(contributions))
	for i, c := range contributions {
		resp[i] = toResponse(c)
	}

	return resp
}
