package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

var (
	ErrNotFound             = apperr.NotFound("loan not found")
	ErrMissingFields        = apperr.Validation("missing required loan fields")
	ErrInvalidRate          = apperr.Validation("interestRate must be a positive number")
	ErrInvalidAmount        = apperr.Validation("loanAmount must be a positive number")
	ErrInvalidStatus        = apperr.Validation("invalid status value")
	ErrInvalidInitialStatus = apperr.Validation("a new loan must be pending or active")
	ErrInvalidTransition    = apperr.Validation("invalid loan status transition")
	ErrPrincipalLocked      = apperr.Rejected("loan amount can only change while the loan is pending")
	ErrMissingCollection    = apperr.Validation("missing required collection fields")
	ErrNotDisbursed         = apperr.Rejected("collections can only be recorded against a disbursed loan")
	ErrCollectionCurrency   = apperr.Validation("collection currency must match loan currency")
)

// Collection is one field repayment recorded against a loan. Collections are
// append-only and ordered by Seq.
type Collection struct {
	ID                          uuid.UUID
	LoanID                      uuid.UUID
	Seq                         int
	MemberName                  string
	LoanAmount                  decimal.Decimal
	WeeklyAmount                decimal.Decimal
	FieldCollection             decimal.Decimal
	AdvancePayment              decimal.Decimal
	FieldBalance                decimal.Decimal
	Currency                    ledger.Currency
	CollectionDate              *time.Time
	PrincipalPortion            *decimal.Decimal
	InterestPortion             *decimal.Decimal
	FeesPortion                 *decimal.Decimal
	SecurityDepositContribution *decimal.Decimal
	CreatedAt                   time.Time
}

type Loan struct {
	ID                    uuid.UUID
	GroupID               uuid.UUID
	ClientID              uuid.UUID
	BranchName            string
	BranchCode            string
	MeetingTime           string
	MeetingDay            string
	MemberCode            string
	MemberAddress         string
	MemberOccupation      string
	GuarantorName         string
	GuarantorRelationship string
	AmountInWords         string
	DurationNumber        int
	DurationUnit          ledger.DurationUnit
	Purpose               string
	BusinessType          string
	DisbursementDate      *time.Time
	EndingDate            *time.Time
	CollectionStartDate   *time.Time
	WeeklyInstallment     *decimal.Decimal
	SecurityDeposit       *decimal.Decimal
	AdmissionFee          *decimal.Decimal
	Amount                decimal.Decimal
	InterestRate          decimal.Decimal
	Currency              ledger.Currency
	Status                Status
	LoanOfficerName       string
	TotalRealization      decimal.Decimal
	Collections           []Collection
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

// Installment computes the weekly repayment for the current terms, or nil
// when the terms do not define one.
func (l *Loan) Installment() *decimal.Decimal {
	w, ok := ledger.WeeklyInstallment(l.Amount, l.InterestRate, l.DurationNumber, l.DurationUnit)
	if !ok {
		return nil
	}

	return &w
}

// SetStatus moves the loan to next. Entering active stamps the disbursement
// date and fills in the installment when they are missing. It reports whether
// the loan has just been disbursed, which is when the group's lent amount grows.
func (l *Loan) SetStatus(next Status, now time.Time) (bool, error) {
	if !l.Status.CanTransitionTo(next) {
		return false, ErrInvalidTransition.With("from", l.Status).With("to", next)
	}

	disbursed := next == StatusActive && l.Status != StatusActive
	l.Status = next

	if next == StatusActive {
		if l.DisbursementDate == nil {
			l.DisbursementDate = &now
		}

		if l.WeeklyInstallment == nil {
			l.WeeklyInstallment = l.Installment()
		}
	}

	return disbursed, nil
}

// AppendCollection adds c after the existing collections and recomputes the
// realization total from the whole sequence.
func (l *Loan) AppendCollection(c Collection) Collection {
	c.LoanID = l.ID
	c.Seq = len(l.Collections) + 1
	l.Collections = append(l.Collections, c)
	l.TotalRealization = Realization(l.Collections)

	return c
}

// Realization is the sum of the field collections.
func Realization(cs []Collection) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cs {
		total = total.Add(c.FieldCollection)
	}

	return ledger.Round2(total)
}
