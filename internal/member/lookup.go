package member

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/vsla/internal/group"
)

// Getter loads a single member.
type Getter interface {
	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
}

// LoadInGroup fetches the group and the member concurrently and checks that
// the member is registered under that group.
func LoadInGroup(ctx context.Context, groups GroupResolver, members Getter, groupID, memberID uuid.UUID) (*group.Group, *Member, error) {
	var (
		g *group.Group
		m *Member
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		g, err = groups.Resolve(egCtx, &groupID)

		return err
	})

	eg.Go(func() error {
		var err error
		m, err = members.GetMember(egCtx, memberID)

		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	if !m.BelongsTo(g.ID) {
		return nil, nil, ErrNotInGroup
	}

	return g, m, nil
}
