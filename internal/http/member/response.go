package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/credit"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

type memberResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Group               uuid.UUID           `json:"group"`
	MemberName          string              `json:"memberName"`
	MemberImage         string              `json:"memberImage,omitempty"`
	MemberAge           int                 `json:"memberAge"`
	GuardianName        string              `json:"guardianName"`
	PhoneNumber         string              `json:"phoneNumber,omitempty"`
	MemberNumber        string              `json:"memberNumber"`
	AdmissionDate       time.Time           `json:"admissionDate"`
	NationalID          string              `json:"nationalId"`
	MemberSignature     string              `json:"memberSignature,omitempty"`
	Attendance          []member.Attendance `json:"attendance"`
	SavingsTotal        decimal.Decimal     `json:"savingsTotal"`
	TotalShares         int64               `json:"totalShares"`
	InterestEarnedTotal decimal.Decimal     `json:"interestEarnedTotal"`
	SocialFundTotal     decimal.Decimal     `json:"socialFundTotal"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           *time.Time          `json:"updatedAt,omitempty"`
}

func toResponse(m *member.Member) memberResponse {
	attendance := m.Attendance
	if attendance == nil {
		attendance = []member.Attendance{}
	}

	return memberResponse{
		ID:                  m.ID,
		Group:               m.GroupID,
		MemberName:          m.Name,
		MemberImage:         m.Image,
		MemberAge:           m.Age,
		GuardianName:        m.GuardianName,
		PhoneNumber:         m.Phone,
		MemberNumber:        m.Number,
		AdmissionDate:       m.AdmissionDate,
		NationalID:          m.NationalID,
		MemberSignature:     m.Signature,
		Attendance:          attendance,
		SavingsTotal:        m.SavingsTotal,
		TotalShares:         m.TotalShares,
		InterestEarnedTotal: m.InterestEarnedTotal,
		SocialFundTotal:     m.SocialFundTotal,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toResponseList(members []*member.Member) []memberResponse {
	resp := make([]memberResponse, len(members))
	for i, m := range members {
		resp[i] = toResponse(m)
	}

	return resp
}

type eligibilityResponse struct {
	MemberID       uuid.UUID       `json:"memberId"`
	SavingsTotal   decimal.Decimal `json:"savingsTotal"`
	TotalShares    int64           `json:"totalShares"`
	PerShareRate   decimal.Decimal `json:"perShareRate"`
	CreditByShares decimal.Decimal `json:"creditByShares"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	Requested      decimal.Decimal `json:"requestedAmount"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	InterestAmount decimal.Decimal `json:"interestAmount"`
	Eligible       bool            `json:"eligible"`
}

func toEligibilityResponse(id uuid.UUID, e credit.Eligibility) eligibilityResponse {
	return eligibilityResponse{
		MemberID:       id,
		SavingsTotal:   e.SavingsTotal,
		TotalShares:    e.TotalShares,
		PerShareRate:   e.PerShareRate,
		CreditByShares: e.CreditByShares,
		CreditLimit:    e.CreditLimit,
		Requested:      e.Requested,
		InterestRate:   e.InterestRate,
		InterestAmount: e.InterestAmount,
		Eligible:       e.Eligible,
	}
}
