package distribution

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/loan"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=distribution
type Repository interface {
	// CreateDistribution stores the payout and adds it to the group's
	// distributed total and, when a member is named, the member's earned
	// interest, atomically.
	CreateDistribution(ctx context.Context, d *Distribution) error
	GetDistribution(ctx context.Context, id uuid.UUID) (*Distribution, error)
	ListDistributions(ctx context.Context, filter ListFilter) ([]*Distribution, error)
}

type GroupResolver interface {
	Resolve(ctx context.Context, requested *uuid.UUID) (*group.Group, error)
}

type MemberGetter interface {
	GetMember(ctx context.Context, id uuid.UUID) (*member.Member, error)
}

type LoanGetter interface {
	GetLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error)
}

type Service struct {
	repo    Repository
	groups  GroupResolver
	members MemberGetter
	loans   LoanGetter
	now     func() time.Time
}

func NewService(repo Repository, groups GroupResolver, members MemberGetter, loans LoanGetter) *Service {
	return &Service{repo: repo, groups: groups, members: members, loans: loans, now: time.Now}
}

type CreateParams struct {
	LoanID     uuid.UUID
	GroupID    uuid.UUID
	MemberID   *uuid.UUID
	MemberName string
	Amount     decimal.Decimal
	Currency   string
	Date       *time.Time
	Notes      string
}

type ListFilter struct {
	LoanID   *uuid.UUID
	GroupID  *uuid.UUID
	MemberID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Distribution, error) {
	params.Amount = ledger.Round2(params.Amount)

	if params.LoanID == uuid.Nil || params.GroupID == uuid.Nil || !params.Amount.IsPositive() || params.Currency == "" {
		return nil, ErrMissingFields
	}

	currency, err := ledger.ParseCurrency(params.Currency)
	if err != nil {
		return nil, err
	}

	l, err := s.loans.GetLoan(ctx, params.LoanID)
	if err != nil {
		return nil, err
	}

	g, err := s.groups.Resolve(ctx, &params.GroupID)
	if err != nil {
		return nil, err
	}

	if l.GroupID != g.ID {
		return nil, ErrLoanNotInGroup
	}

	if l.Currency != currency {
		return nil, ErrCurrencyMismatch.With("loanCurrency", l.Currency)
	}

	d := &Distribution{
		LoanID:     l.ID,
		GroupID:    g.ID,
		MemberName: params.MemberName,
		Amount:     params.Amount,
		Currency:   currency,
		Date:       s.now().UTC(),
		Notes:      params.Notes,
	}

	if params.MemberID != nil {
		m, err := s.members.GetMember(ctx, *params.MemberID)
		if err != nil {
			return nil, err
		}

		if !m.BelongsTo(g.ID) {
			return nil, member.ErrNotInGroup
		}

		d.MemberID = &m.ID

		if d.MemberName == "" {
			d.MemberName = m.Name
		}
	}

	if params.Date != nil {
		d.Date = *params.Date
	}

	if err := s.repo.CreateDistribution(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Distribution, error) {
	return s.repo.GetDistribution(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Distribution, error) {
	if filter.GroupID != nil {
		g, err := s.groups.Resolve(ctx, filter.GroupID)
		if err != nil {
			return nil, err
		}

		filter.GroupID = &g.ID
	}

	return s.repo.ListDistributions(ctx, filter)
}
