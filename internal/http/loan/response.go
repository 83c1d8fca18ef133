package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/loan"
)

type collectionResponse struct {
	ID                          uuid.UUID        `json:"id"`
	Seq                         int              `json:"seq"`
	MemberName                  string           `json:"memberName"`
	LoanAmount                  decimal.Decimal  `json:"loanAmount"`
	WeeklyAmount                decimal.Decimal  `json:"weeklyAmount"`
	FieldCollection             decimal.Decimal  `json:"fieldCollection"`
	AdvancePayment              decimal.Decimal  `json:"advancePayment"`
	FieldBalance                decimal.Decimal  `json:"fieldBalance"`
	Currency                    ledger.Currency  `json:"currency"`
	CollectionDate              *time.Time       `json:"collectionDate,omitempty"`
	PrincipalPortion            *decimal.Decimal `json:"principalPortion,omitempty"`
	InterestPortion             *decimal.Decimal `json:"interestPortion,omitempty"`
	FeesPortion                 *decimal.Decimal `json:"feesPortion,omitempty"`
	SecurityDepositContribution *decimal.Decimal `json:"securityDepositContribution,omitempty"`
	CreatedAt                   time.Time        `json:"createdAt"`
}

type loanResponse struct {
	ID                    uuid.UUID            `json:"id"`
	Group                 uuid.UUID            `json:"group"`
	Client                uuid.UUID            `json:"client"`
	BranchName            string               `json:"branchName"`
	BranchCode            string               `json:"branchCode"`
	MeetingTime           string               `json:"meetingTime,omitempty"`
	MeetingDay            string               `json:"meetingDay,omitempty"`
	MemberCode            string               `json:"memberCode,omitempty"`
	MemberAddress         string               `json:"memberAddress,omitempty"`
	MemberOccupation      string               `json:"memberOccupation,omitempty"`
	GuarantorName         string               `json:"guarantorName"`
	GuarantorRelationship string               `json:"guarantorRelationship"`
	LoanAmountInWords     string               `json:"loanAmountInWords"`
	LoanDurationNumber    int                  `json:"loanDurationNumber"`
	LoanDurationUnit      ledger.DurationUnit  `json:"loanDurationUnit"`
	PurposeOfLoan         string               `json:"purposeOfLoan,omitempty"`
	BusinessType          string               `json:"businessType,omitempty"`
	DisbursementDate      *time.Time           `json:"disbursementDate,omitempty"`
	EndingDate            *time.Time           `json:"endingDate,omitempty"`
	CollectionStartDate   *time.Time           `json:"collectionStartDate,omitempty"`
	WeeklyInstallment     *decimal.Decimal     `json:"weeklyInstallment,omitempty"`
	SecurityDeposit       *decimal.Decimal     `json:"securityDeposit,omitempty"`
	MemberAdmissionFee    *decimal.Decimal     `json:"memberAdmissionFee,omitempty"`
	LoanAmount            decimal.Decimal      `json:"loanAmount"`
	InterestRate          decimal.Decimal      `json:"interestRate"`
	Currency              ledger.Currency      `json:"currency"`
	Status                loan.Status          `json:"status"`
	LoanOfficerName       string               `json:"loanOfficerName"`
	TotalRealization      decimal.Decimal      `json:"totalRealization"`
	Collections           []collectionResponse `json:"collections"`
	CreatedAt             time.Time            `json:"createdAt"`
	UpdatedAt             *time.Time           `json:"updatedAt,omitempty"`
}

func toCollection(c loan.Collection) collectionResponse {
	return collectionResponse{
		ID:                          c.ID,
		Seq:                         c.Seq,
		MemberName:                  c.MemberName,
		LoanAmount:                  c.LoanAmount,
		WeeklyAmount:                c.WeeklyAmount,
		FieldCollection:             c.FieldCollection,
		AdvancePayment:              c.AdvancePayment,
		FieldBalance:                c.FieldBalance,
		Currency:                    c.Currency,
		CollectionDate:              c.CollectionDate,
		PrincipalPortion:            c.PrincipalPortion,
		InterestPortion:             c.InterestPortion,
		FeesPortion:                 c.FeesPortion,
		SecurityDepositContribution: c.SecurityDepositContribution,
		CreatedAt:                   c.CreatedAt,
	}
}

func toCollectionList(cs []loan.Collection) []collectionResponse {
	resp := make([]collectionResponse, len(cs))
	for i, c := range cs {
		resp[i] = toCollection(c)
	}

	return resp
}

func toResponse(l *loan.Loan) loanResponse {
	return loanResponse{
		ID:                    l.ID,
		Group:                 l.GroupID,
		Client:                l.ClientID,
		BranchName:            l.BranchName,
		BranchCode:            l.BranchCode,
		MeetingTime:           l.MeetingTime,
		MeetingDay:            l.MeetingDay,
		MemberCode:            l.MemberCode,
		MemberAddress:         l.MemberAddress,
		MemberOccupation:      l.MemberOccupation,
		GuarantorName:         l.GuarantorName,
		GuarantorRelationship: l.GuarantorRelationship,
		LoanAmountInWords:     l.AmountInWords,
		LoanDurationNumber:    l.DurationNumber,
		LoanDurationUnit:      l.DurationUnit,
		PurposeOfLoan:         l.Purpose,
		BusinessType:          l.BusinessType,
		DisbursementDate:      l.DisbursementDate,
		EndingDate:            l.EndingDate,
		CollectionStartDate:   l.CollectionStartDate,
		WeeklyInstallment:     l.WeeklyInstallment,
		SecurityDeposit:       l.SecurityDeposit,
		MemberAdmissionFee:    l.AdmissionFee,
		LoanAmount:            l.Amount,
		InterestRate:          l.InterestRate,
		Currency:              l.Currency,
		Status:                l.Status,
		LoanOfficerName:       l.LoanOfficerName,
		TotalRealization:      l.TotalRealization,
		Collections:           toCollectionList(l.Collections),
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}

func toResponseList(loans []*loan.Loan) []loanResponse {
	resp := make([]loanResponse, len(loans))
	for i, l := range loans {
		resp[i] = toResponse(l)
	}

	return resp
}
