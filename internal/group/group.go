package group

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Totals are the running aggregates of a group. They are maintained by
// incremental updates from the ledgers and can be rebuilt from them.
type Totals struct {
	GroupSavings       decimal.Decimal
	TotalShares        int64
	MemberSavingsShare int64
	TotalSocialFund    decimal.Decimal
	TotalExpenses      decimal.Decimal
	TotalFines         decimal.Decimal
	TotalLoanAmount    decimal.Decimal
	TotalLoans         int64
	TotalDistributed   decimal.Decimal
}

// Group is the savings group aggregate.
type Group struct {
	ID                    uuid.UUID
	Name                  string
	Code                  string
	BranchName            string
	OrganizationName      string
	MeetingDay            string
	MeetingTime           string
	LoanOfficer           string
	Community             string
	Status                string
	TotalGroupCount       *int
	SavingsDurationMonths *int
	Leadership            Leadership

	// SavingsAmountPerShare is the cash value of one share.
	SavingsAmountPerShare decimal.Decimal
	SocialFundAmount      decimal.Decimal
	MeetingFineAmount     decimal.Decimal

	Totals

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ShareRateConfigured reports whether shares can be converted to cash.
func (g *Group) ShareRateConfigured() bool {
	return g.SavingsAmountPerShare.IsPositive()
}
