package group

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=group
type Repository interface {
	CreateGroup(ctx context.Context, g *Group) error
	GetGroup(ctx context.Context, id uuid.UUID) (*Group, error)
	FirstGroup(ctx context.Context) (*Group, error)
	ListGroups(ctx context.Context) ([]*Group, error)
	UpdateGroup(ctx context.Context, g *Group) error
	DeleteGroup(ctx context.Context, id uuid.UUID) error
	CodeExists(ctx context.Context, code string) (bool, error)
	CountMembers(ctx context.Context, id uuid.UUID) (int, error)
}

const codeAttempts = 5

type Service struct {
	repo   Repository
	single bool
	now    func() time.Time
}

func NewService(repo Repository, singleGroupMode bool) *Service {
	return &Service{repo: repo, single: singleGroupMode, now: time.Now}
}

// SingleGroupMode reports whether the deployment manages exactly one group.
func (s *Service) SingleGroupMode() bool { return s.single }

type CreateParams struct {
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
	SavingsAmountPerShare decimal.Decimal
	SocialFundAmount      decimal.Decimal
	MeetingFineAmount     decimal.Decimal
}

// UpdateParams changes the profile and configuration of a group. Nil fields
// are left alone. Aggregates cannot be changed here.
type UpdateParams struct {
	Name                  *string
	Code                  *string
	BranchName            *string
	OrganizationName      *string
	MeetingDay            *string
	MeetingTime           *string
	LoanOfficer           *string
	Community             *string
	Status                *string
	TotalGroupCount       *int
	SavingsDurationMonths *int
	Leadership            Leadership
	SavingsAmountPerShare *decimal.Decimal
	SocialFundAmount      *decimal.Decimal
	MeetingFineAmount     *decimal.Decimal
}

// Resolve finds the group an operation applies to, honouring single-group mode.
func (s *Service) Resolve(ctx context.Context, requested *uuid.UUID) (*Group, error) {
	return Resolve(ctx, s.single, requested, s.repo)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Group, error) {
	if strings.TrimSpace(params.Name) == "" || strings.TrimSpace(params.BranchName) == "" {
		return nil, ErrMissingFields
	}

	if params.SavingsAmountPerShare.IsNegative() || params.SocialFundAmount.IsNegative() || params.MeetingFineAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	if s.single {
		existing, err := s.repo.FirstGroup(ctx)
		if err == nil {
			return nil, ErrSingleGroup.With("groupId", existing.ID).With("groupName", existing.Name)
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("checking existing group: %w", err)
		}
	}

	code := strings.TrimSpace(params.Code)
	if code == "" {
		generated, err := s.generateCode(ctx, params.Name)
		if err != nil {
			return nil, err
		}

		code = generated
	} else {
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("checking group code: %w", err)
		}

		if exists {
			return nil, ErrDuplicateCode
		}
	}

	leadership := params.Leadership
	if leadership == nil {
		leadership = Leadership{}
	}

	g := &Group{
		Name:                  strings.TrimSpace(params.Name),
		Code:                  code,
		BranchName:            strings.TrimSpace(params.BranchName),
		OrganizationName:      params.OrganizationName,
		MeetingDay:            params.MeetingDay,
		MeetingTime:           params.MeetingTime,
		LoanOfficer:           params.LoanOfficer,
		Community:             params.Community,
		Status:                params.Status,
		TotalGroupCount:       params.TotalGroupCount,
		SavingsDurationMonths: params.SavingsDurationMonths,
		Leadership:            leadership,
		SavingsAmountPerShare: params.SavingsAmountPerShare,
		SocialFundAmount:      params.SocialFundAmount,
		MeetingFineAmount:     params.MeetingFineAmount,
	}
	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// List returns every group, or just the active one in single-group mode.
func (s *Service) List(ctx context.Context) ([]*Group, error) {
	if !s.single {
		return s.repo.ListGroups(ctx)
	}

	g, err := s.repo.FirstGroup(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []*Group{}, nil
		}

		return nil, err
	}

	return []*Group{g}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Group, error) {
	return s.Resolve(ctx, &id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Group, error) {
	g, err := s.Resolve(ctx, &id)
	if err != nil {
		return nil, err
	}

	for _, amount := range []*decimal.Decimal{params.SavingsAmountPerShare, params.SocialFundAmount, params.MeetingFineAmount} {
		if amount != nil && amount.IsNegative() {
			return nil, ErrNegativeAmount
		}
	}

	if params.Code != nil && *params.Code != g.Code {
		exists, err := s.repo.CodeExists(ctx, *params.Code)
		if err != nil {
			return nil, fmt.Errorf("checking group code: %w", err)
		}

		if exists {
			return nil, ErrDuplicateCode
		}
	}

	setString(&g.Name, params.Name)
	setString(&g.Code, params.Code)
	setString(&g.BranchName, params.BranchName)
	setString(&g.OrganizationName, params.OrganizationName)
	setString(&g.MeetingDay, params.MeetingDay)
	setString(&g.MeetingTime, params.MeetingTime)
	setString(&g.LoanOfficer, params.LoanOfficer)
	setString(&g.Community, params.Community)
	setString(&g.Status, params.Status)

	if params.TotalGroupCount != nil {
		g.TotalGroupCount = params.TotalGroupCount
	}

	if params.SavingsDurationMonths != nil {
		g.SavingsDurationMonths = params.SavingsDurationMonths
	}

	if params.SavingsAmountPerShare != nil {
		g.SavingsAmountPerShare = *params.SavingsAmountPerShare
	}

	if params.SocialFundAmount != nil {
		g.SocialFundAmount = *params.SocialFundAmount
	}

	if params.MeetingFineAmount != nil {
		g.MeetingFineAmount = *params.MeetingFineAmount
	}

	if len(params.Leadership) > 0 {
		g.Leadership = g.Leadership.Merge(params.Leadership)
	}

	if err := s.repo.UpdateGroup(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.single {
		return ErrDeleteDisabled
	}

	if _, err := s.repo.GetGroup(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountMembers(ctx, id)
	if err != nil {
		return fmt.Errorf("counting group members: %w", err)
	}

	if count > 0 {
		return ErrHasMembers.With("memberCount", count)
	}

	return s.repo.DeleteGroup(ctx, id)
}

// generateCode derives a code such as "SUN-4821" from the group name. After a
// few collisions it falls back to a time-based suffix.
func (s *Service) generateCode(ctx context.Context, name string) (string, error) {
	prefix := codePrefix(name)

	for range codeAttempts {
		code := fmt.Sprintf("%s-%d", prefix, 1000+rand.IntN(9000))

		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("checking group code: %w", err)
		}

		if !exists {
			return code, nil
		}
	}

	return fmt.Sprintf("%s-%06d", prefix, s.now().UnixMilli()%1_000_000), nil
}

func codePrefix(name string) string {
	prefix := make([]rune, 0, 3)

	for _, r := range name {
		if len(prefix) == 3 {
			break
		}

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			prefix = append(prefix, unicode.ToUpper(r))
		}
	}

	if len(prefix) == 0 {
		return "GRP"
	}

	return string(prefix)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
