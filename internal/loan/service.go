package loan

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/credit"
	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=loan
type Repository interface {
	// CreateLoan stores the loan and applies delta to its group atomically.
	CreateLoan(ctx context.Context, l *Loan, delta group.Totals) error
	GetLoan(ctx context.Context, id uuid.UUID) (*Loan, error)
	ListLoans(ctx context.Context, filter ListFilter) ([]*Loan, error)
	UpdateLoan(ctx context.Context, l *Loan) error
	// ModifyLoan locks the loan, lets fn change its status and append
	// collections, then persists the result and fn's group delta atomically.
	ModifyLoan(ctx context.Context, id uuid.UUID, fn func(l *Loan) (group.Totals, error)) (*Loan, error)
	ListCollections(ctx context.Context, loanID uuid.UUID) ([]Collection, error)
}

type GroupResolver interface {
	Resolve(ctx context.Context, requested *uuid.UUID) (*group.Group, error)
}

type MemberGetter interface {
	GetMember(ctx context.Context, id uuid.UUID) (*member.Member, error)
}

type Service struct {
	repo    Repository
	groups  GroupResolver
	members MemberGetter
	now     func() time.Time
}

func NewService(repo Repository, groups GroupResolver, members MemberGetter) *Service {
	return &Service{repo: repo, groups: groups, members: members, now: time.Now}
}

type CreateParams struct {
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
	DurationUnit          string
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
	Currency              string
	Status                string
	LoanOfficerName       string
}

func (p CreateParams) missingFields() bool {
	for _, s := range []string{
		p.BranchName, p.BranchCode, p.GuarantorName, p.GuarantorRelationship,
		p.AmountInWords, p.DurationUnit, p.LoanOfficerName, p.Currency,
	} {
		if strings.TrimSpace(s) == "" {
			return true
		}
	}

	return p.GroupID == uuid.Nil || p.ClientID == uuid.Nil || p.DurationNumber <= 0
}

// UpdateParams edits the terms and paperwork of a loan. Status changes go
// through SetStatus; group and client are fixed at creation.
type UpdateParams struct {
	BranchName            *string
	BranchCode            *string
	MeetingTime           *string
	MeetingDay            *string
	MemberCode            *string
	MemberAddress         *string
	MemberOccupation      *string
	GuarantorName         *string
	GuarantorRelationship *string
	AmountInWords         *string
	DurationNumber        *int
	DurationUnit          *string
	Purpose               *string
	BusinessType          *string
	EndingDate            *time.Time
	CollectionStartDate   *time.Time
	SecurityDeposit       *decimal.Decimal
	AdmissionFee          *decimal.Decimal
	Amount                *decimal.Decimal
	InterestRate          *decimal.Decimal
	LoanOfficerName       *string
}

type ListFilter struct {
	GroupID    *uuid.UUID
	ClientID   *uuid.UUID
	BranchName *string
	BranchCode *string
	Status     *Status
	Currency   *ledger.Currency
}

type CollectionParams struct {
	MemberName                  string
	LoanAmount                  decimal.Decimal
	WeeklyAmount                decimal.Decimal
	FieldCollection             *decimal.Decimal
	AdvancePayment              *decimal.Decimal
	FieldBalance                *decimal.Decimal
	Currency                    string
	CollectionDate              *time.Time
	PrincipalPortion            *decimal.Decimal
	InterestPortion             *decimal.Decimal
	FeesPortion                 *decimal.Decimal
	SecurityDepositContribution *decimal.Decimal
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Loan, error) {
	if params.missingFields() {
		return nil, ErrMissingFields
	}

	params.Amount = ledger.Round2(params.Amount)
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if !params.InterestRate.IsPositive() {
		return nil, ErrInvalidRate
	}

	currency, err := ledger.ParseCurrency(params.Currency)
	if err != nil {
		return nil, err
	}

	status := StatusPending
	if params.Status != "" {
		status, err = ParseStatus(params.Status)
		if err != nil {
			return nil, err
		}

		if status != StatusPending && status != StatusActive {
			return nil, ErrInvalidInitialStatus
		}
	}

	g, m, err := member.LoadInGroup(ctx, s.groups, s.members, params.GroupID, params.ClientID)
	if err != nil {
		return nil, err
	}

	rate := params.InterestRate

	eligibility := credit.Evaluate(credit.Input{
		SavingsTotal: m.SavingsTotal,
		TotalShares:  m.TotalShares,
		PerShareRate: g.SavingsAmountPerShare,
		Requested:    params.Amount,
		InterestRate: &rate,
	})
	if err := credit.Check(eligibility); err != nil {
		return nil, err
	}

	l := &Loan{
		GroupID:               g.ID,
		ClientID:              m.ID,
		BranchName:            params.BranchName,
		BranchCode:            params.BranchCode,
		MeetingTime:           params.MeetingTime,
		MeetingDay:            params.MeetingDay,
		MemberCode:            params.MemberCode,
		MemberAddress:         params.MemberAddress,
		MemberOccupation:      params.MemberOccupation,
		GuarantorName:         params.GuarantorName,
		GuarantorRelationship: params.GuarantorRelationship,
		AmountInWords:         params.AmountInWords,
		DurationNumber:        params.DurationNumber,
		DurationUnit:          ledger.DurationUnit(strings.ToLower(strings.TrimSpace(params.DurationUnit))),
		Purpose:               params.Purpose,
		BusinessType:          params.BusinessType,
		DisbursementDate:      params.DisbursementDate,
		EndingDate:            params.EndingDate,
		CollectionStartDate:   params.CollectionStartDate,
		WeeklyInstallment:     params.WeeklyInstallment,
		SecurityDeposit:       params.SecurityDeposit,
		AdmissionFee:          params.AdmissionFee,
		Amount:                params.Amount,
		InterestRate:          params.InterestRate,
		Currency:              currency,
		Status:                StatusPending,
		LoanOfficerName:       params.LoanOfficerName,
		TotalRealization:      decimal.Zero,
		Collections:           []Collection{},
	}

	if l.WeeklyInstallment == nil {
		l.WeeklyInstallment = l.Installment()
	}

	delta := group.Totals{TotalLoans: 1}

	disbursed, err := l.SetStatus(status, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if disbursed {
		delta.TotalLoanAmount = l.Amount
	}

	if err := s.repo.CreateLoan(ctx, l, delta); err != nil {
		return nil, err
	}

	return l, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Loan, error) {
	if filter.GroupID != nil {
		g, err := s.groups.Resolve(ctx, filter.GroupID)
		if err != nil {
			return nil, err
		}

		filter.GroupID = &g.ID
	}

	return s.repo.ListLoans(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Loan, error) {
	l, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.InterestRate != nil && !params.InterestRate.IsPositive() {
		return nil, ErrInvalidRate
	}

	if params.Amount != nil {
		amount := ledger.Round2(*params.Amount)
		params.Amount = &amount
	}

	if params.Amount != nil && !params.Amount.Equal(l.Amount) {
		if l.Status != StatusPending {
			return nil, ErrPrincipalLocked
		}

		if !params.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}

		g, m, err := member.LoadInGroup(ctx, s.groups, s.members, l.GroupID, l.ClientID)
		if err != nil {
			return nil, err
		}

		rate := l.InterestRate
		if params.InterestRate != nil {
			rate = *params.InterestRate
		}

		eligibility := credit.Evaluate(credit.Input{
			SavingsTotal: m.SavingsTotal,
			TotalShares:  m.TotalShares,
			PerShareRate: g.SavingsAmountPerShare,
			Requested:    *params.Amount,
			InterestRate: &rate,
		})
		if err := credit.Check(eligibility); err != nil {
			return nil, err
		}
	}

	termsChanged := params.Amount != nil || params.InterestRate != nil ||
		params.DurationNumber != nil || params.DurationUnit != nil

	setString(&l.BranchName, params.BranchName)
	setString(&l.BranchCode, params.BranchCode)
	setString(&l.MeetingTime, params.MeetingTime)
	setString(&l.MeetingDay, params.MeetingDay)
	setString(&l.MemberCode, params.MemberCode)
	setString(&l.MemberAddress, params.MemberAddress)
	setString(&l.MemberOccupation, params.MemberOccupation)
	setString(&l.GuarantorName, params.GuarantorName)
	setString(&l.GuarantorRelationship, params.GuarantorRelationship)
	setString(&l.AmountInWords, params.AmountInWords)
	setString(&l.Purpose, params.Purpose)
	setString(&l.BusinessType, params.BusinessType)
	setString(&l.LoanOfficerName, params.LoanOfficerName)

	if params.DurationNumber != nil {
		l.DurationNumber = *params.DurationNumber
	}

	if params.DurationUnit != nil {
		l.DurationUnit = ledger.DurationUnit(strings.ToLower(strings.TrimSpace(*params.DurationUnit)))
	}

	if params.EndingDate != nil {
		l.EndingDate = params.EndingDate
	}

	if params.CollectionStartDate != nil {
		l.CollectionStartDate = params.CollectionStartDate
	}

	if params.SecurityDeposit != nil {
		l.SecurityDeposit = params.SecurityDeposit
	}

	if params.AdmissionFee != nil {
		l.AdmissionFee = params.AdmissionFee
	}

	if params.Amount != nil {
		l.Amount = *params.Amount
	}

	if params.InterestRate != nil {
		l.InterestRate = *params.InterestRate
	}

	if termsChanged {
		l.WeeklyInstallment = l.Installment()
	}

	if err := s.repo.UpdateLoan(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// SetStatus moves a loan through its lifecycle. The first move into active
// adds the principal to the group's lent amount.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, raw string) (*Loan, error) {
	next, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	return s.repo.ModifyLoan(ctx, id, func(l *Loan) (group.Totals, error) {
		disbursed, err := l.SetStatus(next, now)
		if err != nil {
			return group.Totals{}, err
		}

		if disbursed {
			return group.Totals{TotalLoanAmount: l.Amount}, nil
		}

		return group.Totals{}, nil
	})
}

// AddCollection appends a field collection and returns the loan's full
// collection sequence.
func (s *Service) AddCollection(ctx context.Context, id uuid.UUID, params CollectionParams) ([]Collection, error) {
	if strings.TrimSpace(params.MemberName) == "" || !params.LoanAmount.IsPositive() || !params.WeeklyAmount.IsPositive() ||
		params.FieldCollection == nil || params.FieldBalance == nil || params.Currency == "" {
		return nil, ErrMissingCollection
	}

	currency, err := ledger.ParseCurrency(params.Currency)
	if err != nil {
		return nil, err
	}

	c := Collection{
		MemberName:                  params.MemberName,
		LoanAmount:                  ledger.Round2(params.LoanAmount),
		WeeklyAmount:                ledger.Round2(params.WeeklyAmount),
		FieldCollection:             ledger.Round2(*params.FieldCollection),
		AdvancePayment:              decimal.Zero,
		FieldBalance:                ledger.Round2(*params.FieldBalance),
		Currency:                    currency,
		CollectionDate:              params.CollectionDate,
		PrincipalPortion:            round2Ptr(params.PrincipalPortion),
		InterestPortion:             round2Ptr(params.InterestPortion),
		FeesPortion:                 round2Ptr(params.FeesPortion),
		SecurityDepositContribution: round2Ptr(params.SecurityDepositContribution),
	}

	if params.AdvancePayment != nil {
		c.AdvancePayment = ledger.Round2(*params.AdvancePayment)
	}

	if c.CollectionDate == nil {
		now := s.now().UTC()
		c.CollectionDate = &now
	}

	l, err := s.repo.ModifyLoan(ctx, id, func(l *Loan) (group.Totals, error) {
		if !l.Status.Disbursed() {
			return group.Totals{}, ErrNotDisbursed
		}

		if l.Currency != c.Currency {
			return group.Totals{}, ErrCollectionCurrency
		}

		l.AppendCollection(c)

		return group.Totals{}, nil
	})
	if err != nil {
		return nil, err
	}

	return l.Collections, nil
}

func (s *Service) ListCollections(ctx context.Context, id uuid.UUID) ([]Collection, error) {
	return s.repo.ListCollections(ctx, id)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func round2Ptr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}

	return new(ledger.Round2(*d))
}
