package savings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=savings
type Repository interface {
	// CreateEntry stores the entry and applies its delta to the group and
	// member balances atomically.
	CreateEntry(ctx context.Context, e *Entry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)
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
	Shares     decimal.Decimal
	Amount     *decimal.Decimal
	Type       string
	Currency   string
	Date       *time.Time
	Notes      string
}

type ListFilter struct {
	GroupID  *uuid.UUID
	MemberID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Entry, error) {
	if params.GroupID == uuid.Nil || params.MemberID == uuid.Nil || params.Currency == "" {
		return nil, ErrMissingFields
	}

	currency, err := ledger.ParseCurrency(params.Currency)
	if err != nil {
		return nil, err
	}

	g, m, err := member.LoadInGroup(ctx, s.groups, s.members, params.GroupID, params.MemberID)
	if err != nil {
		return nil, err
	}

	res, err := Process(
		Request{Shares: params.Shares, Amount: params.Amount, Type: ParseType(params.Type)},
		g.SavingsAmountPerShare,
		Balance{SavingsTotal: m.SavingsTotal, TotalShares: m.TotalShares},
	)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		GroupID:    g.ID,
		MemberID:   m.ID,
		MemberName: params.MemberName,
		Amount:     res.Amount,
		Shares:     res.Shares,
		Type:       res.Type,
		Currency:   currency,
		Date:       s.now().UTC(),
		Notes:      params.Notes,
	}

	if entry.MemberName == "" {
		entry.MemberName = m.Name
	}

	if params.Date != nil {
		entry.Date = *params.Date
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

// List returns entries newest first. In single-group mode a group filter
// naming another group is rejected.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	if filter.GroupID != nil {
		g, err := s.groups.Resolve(ctx, filter.GroupID)
		if err != nil {
			return nil, err
		}

		filter.GroupID = &g.ID
	}

	return s.repo.ListEntries(ctx, filter)
}
