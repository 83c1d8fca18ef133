package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/report"
)

type totalsResponse struct {
	TotalSavings         decimal.Decimal `json:"totalSavings"`
	TotalInterest        decimal.Decimal `json:"totalInterest"`
	TotalSocialFunds     decimal.Decimal `json:"totalSocialFunds"`
	TotalFines           decimal.Decimal `json:"totalFines"`
	TotalExpenses        decimal.Decimal `json:"totalExpenses"`
	TotalSharesAtYearEnd int64           `json:"totalSharesAtYearEnd"`
}

type memberShareResponse struct {
	MemberID       uuid.UUID       `json:"memberId"`
	MemberName     string          `json:"memberName"`
	MemberNumber   string          `json:"memberNumber"`
	Shares         int64           `json:"shares"`
	Percentage     decimal.Decimal `json:"percentage"`
	InterestAmount decimal.Decimal `json:"interestAmount"`
}

type summaryResponse struct {
	Group                       *uuid.UUID            `json:"group"`
	Year                        *int                  `json:"year"`
	Totals                      totalsResponse        `json:"totals"`
	YearEndInterestDistribution []memberShareResponse `json:"yearEndInterestDistribution"`
	GeneratedAt                 time.Time             `json:"generatedAt"`
}

type yearEndResponse struct {
	Group                *uuid.UUID            `json:"group"`
	Year                 *int                  `json:"year"`
	TotalInterest        decimal.Decimal       `json:"totalInterest"`
	TotalSharesAtYearEnd int64                 `json:"totalSharesAtYearEnd"`
	Distribution         []memberShareResponse `json:"distribution"`
	GeneratedAt          time.Time             `json:"generatedAt"`
}

// year is null for an unbounded report.
func year(w report.Window) *int {
	if !w.Bounded() {
		return nil
	}

	return new(w.Year)
}

func toDistribution(shares []report.MemberShare) []memberShareResponse {
	resp := make([]memberShareResponse, len(shares))
	for i, s := range shares {
		resp[i] = memberShareResponse{
			MemberID:       s.MemberID,
			MemberName:     s.MemberName,
			MemberNumber:   s.MemberNumber,
			Shares:         s.Shares,
			Percentage:     s.Percentage,
			InterestAmount: s.InterestAmount,
		}
	}

	return resp
}

func toSummaryResponse(s *report.Summary) summaryResponse {
	return summaryResponse{
		Group: s.GroupID,
		Year:  year(s.Window),
		Totals: totalsResponse{
			TotalSavings:         s.Totals.Savings,
			TotalInterest:        s.Totals.Interest,
			TotalSocialFunds:     s.Totals.SocialFunds,
			TotalFines:           s.Totals.Fines,
			TotalExpenses:        s.Totals.Expenses,
			TotalSharesAtYearEnd: s.Totals.SharesAtYearEnd,
		},
		YearEndInterestDistribution: toDistribution(s.Distribution),
		GeneratedAt:                 s.GeneratedAt,
	}
}

func toYearEndResponse(s *report.Summary) yearEndResponse {
	return yearEndResponse{
		Group:                s.GroupID,
		Year:                 year(s.Window),
		TotalInterest:        s.Totals.Interest,
		TotalSharesAtYearEnd: s.Totals.SharesAtYearEnd,
		Distribution:         toDistribution(s.Distribution),
		GeneratedAt:          s.GeneratedAt,
	}
}
