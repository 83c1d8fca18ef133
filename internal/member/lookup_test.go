package member_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

func TestLoadInGroup(t *testing.T) {
	g := &group.Group{ID: uuid.New()}
	inGroup := &member.Member{ID: uuid.New(), GroupID: g.ID}
	outside := &member.Member{ID: uuid.New(), GroupID: uuid.New()}

	tests := []struct {
		name       string
		member     *member.Member
		setupMocks func(repo *member.MockRepository, groups *member.MockGroupResolver)
		wantErr    error
	}{
		{
			name:   "Member in group",
			member: inGroup,
			setupMocks: func(repo *member.MockRepository, groups *member.MockGroupResolver) {
				groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
				repo.EXPECT().GetMember(gomock.Any(), inGroup.ID).Return(inGroup, nil)
			},
		},
		{
			name:   "Member of another group",
			member: outside,
			setupMocks: func(repo *member.MockRepository, groups *member.MockGroupResolver) {
				groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
				repo.EXPECT().GetMember(gomock.Any(), outside.ID).Return(outside, nil)
			},
			wantErr: member.ErrNotInGroup,
		},
		{
			name:   "Member missing",
			member: inGroup,
			setupMocks: func(repo *member.MockRepository, groups *member.MockGroupResolver) {
				groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil).AnyTimes()
				repo.EXPECT().GetMember(gomock.Any(), inGroup.ID).Return(nil, member.ErrNotFound)
			},
			wantErr: member.ErrNotFound,
		},
		{
			name:   "Group missing",
			member: inGroup,
			setupMocks: func(repo *member.MockRepository, groups *member.MockGroupResolver) {
				groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(nil, group.ErrNotFound)
				repo.EXPECT().GetMember(gomock.Any(), inGroup.ID).Return(inGroup, nil).AnyTimes()
			},
			wantErr: group.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := member.NewMockRepository(ctrl)
			groups := member.NewMockGroupResolver(ctrl)
			tt.setupMocks(repo, groups)

			gotGroup, gotMember, err := member.LoadInGroup(context.Background(), groups, repo, g.ID, tt.member.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, g, gotGroup)
			assert.Equal(t, tt.member, gotMember)
		})
	}
}
