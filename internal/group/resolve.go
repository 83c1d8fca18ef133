package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Finder is the part of the repository group resolution needs.
type Finder interface {
	GetGroup(ctx context.Context, id uuid.UUID) (*Group, error)
	FirstGroup(ctx context.Context) (*Group, error)
}

// Resolve finds the group a group-scoped operation applies to.
//
// In single-group mode the oldest group is the only valid target: a missing
// id resolves to it and any other id is rejected. Otherwise the id is required
// and looked up directly.
func Resolve(ctx context.Context, singleGroupMode bool, requested *uuid.UUID, repo Finder) (*Group, error) {
	if !singleGroupMode {
		if requested == nil {
			return nil, ErrGroupRequired
		}

		return repo.GetGroup(ctx, *requested)
	}

	active, err := repo.FirstGroup(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoActiveGroup
		}

		return nil, fmt.Errorf("loading active group: %w", err)
	}

	if requested != nil && *requested != active.ID {
		return nil, ErrNotActiveGroup
	}

	return active, nil
}
