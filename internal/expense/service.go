package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	// CreateExpense stores the entry and applies its delta to the group atomically.
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
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
	MemberID   *uuid.UUID
	MemberName string
	Type       string
	Category   string
	// Amount may be omitted for a fine, which then costs the group's meeting fine.
	Amount   *decimal.Decimal
	Currency string
	Date     *time.Time
	Notes    string
}

type ListFilter struct {
	GroupID  *uuid.UUID
	MemberID *uuid.UUID
	Type     *Type
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	if params.GroupID == uuid.Nil || params.Currency == "" {
		return nil, ErrMissingFields
	}

	currency, err := ledger.ParseCurrency(params.Currency)
	if err != nil {
		return nil, err
	}

	var (
		g *group.Group
		m *member.Member
	)

	if params.MemberID != nil {
		g, m, err = member.LoadInGroup(ctx, s.groups, s.members, params.GroupID, *params.MemberID)
	} else {
		g, err = s.groups.Resolve(ctx, &params.GroupID)
	}

	if err != nil {
		return nil, err
	}

	typ := ParseType(params.Type)

	amount := decimal.Zero

	switch {
	case params.Amount != nil:
		amount = *params.Amount
	case typ == TypeFine:
		amount = g.MeetingFineAmount
	}

	amount = ledger.Round2(amount)
	if !amount.IsPositive() {
		if typ == TypeFine {
			return nil, ErrFineAmount
		}

		return nil, ErrAmountRequired
	}

	e := &Expense{
		GroupID:    g.ID,
		MemberName: params.MemberName,
		Type:       typ,
		Category:   params.Category,
		Amount:     amount,
		Currency:   currency,
		Date:       s.now().UTC(),
		Notes:      params.Notes,
	}

	if m != nil {
		e.MemberID = &m.ID

		if e.MemberName == "" {
			e.MemberName = m.Name
		}
	}

	if params.Date != nil {
		e.Date = *params.Date
	}

	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	if filter.GroupID != nil {
		g, err := s.groups.Resolve(ctx, filter.GroupID)
		if err != nil {
			return nil, err
		}

		filter.GroupID = &g.ID
	}

	return s.repo.ListExpenses(ctx, filter)
}
