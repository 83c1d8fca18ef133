package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/group"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	// LoadDataset reads the ledger lines for the window. A nil groupID spans
	// every group and leaves the member list empty.
	LoadDataset(ctx context.Context, groupID *uuid.UUID, w Window) (*Dataset, error)
}

type GroupResolver interface {
	Resolve(ctx context.Context, requested *uuid.UUID) (*group.Group, error)
	SingleGroupMode() bool
}

type Service struct {
	repo   Repository
	groups GroupResolver
	now    func() time.Time
}

func NewService(repo Repository, groups GroupResolver) *Service {
	return &Service{repo: repo, groups: groups, now: time.Now}
}

// Summary reports the ledger totals for an optional group and year. Without a
// group it covers every group, except in single-group mode where the active
// group is always used.
func (s *Service) Summary(ctx context.Context, groupID *uuid.UUID, year string) (*Summary, error) {
	if groupID != nil || s.groups.SingleGroupMode() {
		g, err := s.groups.Resolve(ctx, groupID)
		if err != nil {
			return nil, err
		}

		groupID = &g.ID
	}

	return s.build(ctx, groupID, ParseYear(year))
}

// YearEnd reports how the interest collected in the year is shared among the
// group's members.
func (s *Service) YearEnd(ctx context.Context, groupID *uuid.UUID, year string) (*Summary, error) {
	if groupID == nil {
		return nil, ErrGroupRequired
	}

	g, err := s.groups.Resolve(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return s.build(ctx, &g.ID, ParseYear(year))
}

func (s *Service) build(ctx context.Context, groupID *uuid.UUID, w Window) (*Summary, error) {
	ds, err := s.repo.LoadDataset(ctx, groupID, w)
	if err != nil {
		return nil, err
	}

	ds.GroupID = groupID

	summary := Build(w, *ds)
	summary.GeneratedAt = s.now().UTC()

	return &summary, nil
}
