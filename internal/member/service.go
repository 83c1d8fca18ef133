package member

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/credit"
	"github.com/MrJamesThe3rd/vsla/internal/group"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=member
type Repository interface {
	CreateMember(ctx context.Context, m *Member) error
	CreateMembers(ctx context.Context, members []*Member) error
	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*Member, error)
	UpdateMember(ctx context.Context, m *Member) error
	DeleteMember(ctx context.Context, id uuid.UUID) error
	CountLedgerEntries(ctx context.Context, id uuid.UUID) (int, error)
}

// GroupResolver finds the group an operation applies to.
type GroupResolver interface {
	Resolve(ctx context.Context, requested *uuid.UUID) (*group.Group, error)
}

type Service struct {
	repo   Repository
	groups GroupResolver
}

func NewService(repo Repository, groups GroupResolver) *Service {
	return &Service{repo: repo, groups: groups}
}

type CreateParams struct {
	Name          string
	Image         string
	Age           int
	GuardianName  string
	Phone         string
	Number        string
	AdmissionDate time.Time
	NationalID    string
	Signature     string
	Attendance    []Attendance
}

func (p CreateParams) validate() error {
	if strings.TrimSpace(p.Name) == "" || p.Age <= 0 || strings.TrimSpace(p.GuardianName) == "" ||
		strings.TrimSpace(p.Number) == "" || p.AdmissionDate.IsZero() || strings.TrimSpace(p.NationalID) == "" {
		return ErrMissingFields
	}

	return nil
}

func (p CreateParams) member(groupID uuid.UUID) *Member {
	attendance := p.Attendance
	if attendance == nil {
		attendance = []Attendance{}
	}

	return &Member{
		GroupID:       groupID,
		Name:          strings.TrimSpace(p.Name),
		Image:         p.Image,
		Age:           p.Age,
		GuardianName:  strings.TrimSpace(p.GuardianName),
		Phone:         p.Phone,
		Number:        strings.TrimSpace(p.Number),
		AdmissionDate: p.AdmissionDate,
		NationalID:    strings.TrimSpace(p.NationalID),
		Signature:     p.Signature,
		Attendance:    attendance,
	}
}

// UpdateParams changes the profile of a member. Nil fields are left alone.
// The owning group and the running totals are not editable.
type UpdateParams struct {
	Name          *string
	Image         *string
	Age           *int
	GuardianName  *string
	Phone         *string
	Number        *string
	AdmissionDate *time.Time
	NationalID    *string
	Signature     *string
	Attendance    []Attendance
}

func (s *Service) Create(ctx context.Context, groupID uuid.UUID, params CreateParams) (*Member, error) {
	g, err := s.groups.Resolve(ctx, &groupID)
	if err != nil {
		return nil, err
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	m := params.member(g.ID)
	if err := s.repo.CreateMember(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// RowError reports an invalid row of a bulk import.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Import registers several members at once. Either every row is valid and
// stored or nothing is.
func (s *Service) Import(ctx context.Context, groupID uuid.UUID, rows []CreateParams) ([]*Member, error) {
	g, err := s.groups.Resolve(ctx, &groupID)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}

	members := make([]*Member, 0, len(rows))

	for i, row := range rows {
		if err := row.validate(); err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}

		members = append(members, row.member(g.ID))
	}

	if err := s.repo.CreateMembers(ctx, members); err != nil {
		return nil, err
	}

	return members, nil
}

func (s *Service) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Member, error) {
	g, err := s.groups.Resolve(ctx, &groupID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListMembers(ctx, g.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetMember(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Member, error) {
	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&m.Name, params.Name)
	setString(&m.Image, params.Image)
	setString(&m.GuardianName, params.GuardianName)
	setString(&m.Phone, params.Phone)
	setString(&m.Number, params.Number)
	setString(&m.NationalID, params.NationalID)
	setString(&m.Signature, params.Signature)

	if params.Age != nil {
		m.Age = *params.Age
	}

	if params.AdmissionDate != nil {
		m.AdmissionDate = *params.AdmissionDate
	}

	if params.Attendance != nil {
		m.Attendance = params.Attendance
	}

	check := CreateParams{
		Name: m.Name, Age: m.Age, GuardianName: m.GuardianName, Number: m.Number,
		AdmissionDate: m.AdmissionDate, NationalID: m.NationalID,
	}
	if err := check.validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMember(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetMember(ctx, id); err != nil {
		return err
	}

	entries, err := s.repo.CountLedgerEntries(ctx, id)
	if err != nil {
		return fmt.Errorf("counting member ledger entries: %w", err)
	}

	if entries > 0 {
		return ErrHasLedger.With("ledgerEntries", entries)
	}

	return s.repo.DeleteMember(ctx, id)
}

// Eligibility quotes how much the member may borrow and the interest a
// requested amount would carry.
func (s *Service) Eligibility(ctx context.Context, id uuid.UUID, requested decimal.Decimal, rate *decimal.Decimal) (credit.Eligibility, error) {
	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return credit.Eligibility{}, err
	}

	g, err := s.groups.Resolve(ctx, &m.GroupID)
	if err != nil {
		return credit.Eligibility{}, err
	}

	return credit.Evaluate(credit.Input{
		SavingsTotal: m.SavingsTotal,
		TotalShares:  m.TotalShares,
		PerShareRate: g.SavingsAmountPerShare,
		Requested:    requested,
		InterestRate: rate,
	}), nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
