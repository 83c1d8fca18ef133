package distribution

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/distribution"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

type distributionResponse struct {
	ID         uuid.UUID       `json:"id"`
	Loan       uuid.UUID       `json:"loan"`
	Group      uuid.UUID       `json:"group"`
	Member     *uuid.UUID      `json:"member,omitempty"`
	MemberName string          `json:"memberName,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   ledger.Currency `json:"currency"`
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toResponse(d *distribution.Distribution) distributionResponse {
	return distributionResponse{
		ID:         d.ID,
		Loan:       d.LoanID,
		Group:      d.GroupID,
		Member:     d.MemberID,
		MemberName: d.MemberName,
		Amount:     d.Amount,
		Currency:   d.Currency,
		Date:       d.Date,
		Notes:      d.Notes,
		CreatedAt:  d.CreatedAt,
	}
}

func toResponseList(distributions []*distribution.Distribution) []distributionResponse {
	resp := make([]distributionResponse, len(distributions))
	for i, d := range distributions {
		resp[i] = toResponse(d)
	}

	return resp
}
