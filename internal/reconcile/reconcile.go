// Package reconcile rebuilds the group and member running totals from the
// ledger tables. It is the recovery path for totals that drifted from the
// entries they summarize.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Result counts the rows whose totals were corrected.
type Result struct {
	Groups  int64
	Members int64
}

//go:generate mockgen -source=reconcile.go -destination=repository_mock.go -package=reconcile
type Repository interface {
	Rebuild(ctx context.Context) (Result, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	res, err := s.repo.Rebuild(ctx)
	if err != nil {
		return Result{}, err
	}

	slog.InfoContext(ctx, "aggregates reconciled",
		"groups_corrected", res.Groups,
		"members_corrected", res.Members,
		"took", time.Since(start),
	)

	return res, nil
}

// Job returns a cron-friendly wrapper around Run bounded by timeout.
func (s *Service) Job(timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, err := s.Run(ctx); err != nil {
			slog.Error("scheduled reconcile failed", "area", "reconcile", "error", err)
		}
	}
}

// NewScheduler registers the reconcile job on a cron schedule. The returned
// scheduler is not started.
func NewScheduler(spec string, svc *Service, timeout time.Duration) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(spec, svc.Job(timeout)); err != nil {
		return nil, fmt.Errorf("scheduling reconcile %q: %w", spec, err)
	}

	return c, nil
}
