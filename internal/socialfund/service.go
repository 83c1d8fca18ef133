package socialfund

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=socialfund
type Repository interface {
	// CreateContribution stores the contribution and adds it to the group and
	// member social fund totals atomically.
	CreateContribution(ctx context.Context, c *Contribution) error
	GetContribution(ctx context.Context, id uuid.UUID) (*Contribution, error)
	ListContributions(ctx context.Context, filter ListFilter) ([]*Contribution, error)
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
	GroupID    uuid.UUID
	MemberID   uuid.UUID
	MemberName string
	Amount     *decimal.Decimal
	Currency   string
	Date       *time.Time
	Notes      string
}

type ListFilter struct {
	GroupID  *uuid.UUID
	MemberID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Contribution, error) {
	if params.GroupID == uuid.Nil || params.MemberID == uuid.Nil || params.Amount == nil || params.Currency == "" {
		return nil, ErrMissingFields
	}

	if params.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	currency, err := ledger.ParseCurrency(params.Currency)
	if err != nil {
		return nil, err
	}

	g, m, err := member.LoadInGroup(ctx, s.groups, s.members, params.GroupID, params.MemberID)
	if err != nil {
		return nil, err
	}

	c := &Contribution{
		GroupID:    g.ID,
		MemberID:   m.ID,
		MemberName: params.MemberName,
		Amount:     ledger.Round2(*params.Amount),
		Currency:   currency,
		Date:       s.now().UTC(),
		Notes:      params.Notes,
	}

	if c.MemberName == "" {
		c.MemberName = m.Name
	}

	if params.Date != nil {
		c.Date = *params.Date
	}

	if err := s.repo.CreateContribution(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Contribution, error) {
	return s.repo.GetContribution(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Contribution, error) {
	if filter.GroupID != nil {
		g, err := s.groups.Resolve(ctx, filter.GroupID)
		if err != nil {
			return nil, err
		}

		filter.GroupID = &g.ID
	}

	return s.repo.ListContributions(ctx, filter)
}
