package expense_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vsla/internal/expense"
	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

type mocks struct {
	repo    *expense.MockRepository
	groups  *expense.MockGroupResolver
	members *expense.MockMemberGetter
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestService_Create(t *testing.T) {
	g := &group.Group{ID: uuid.New(), MeetingFineAmount: *dec("25")}
	unset := &group.Group{ID: uuid.New()}
	m := &member.Member{ID: uuid.New(), GroupID: g.ID, Name: "Musu Flomo"}
	stranger := &member.Member{ID: uuid.New(), GroupID: uuid.New()}

	type args struct {
		params expense.CreateParams
	}

	type testCase struct {
		name       string
		args       args
		setupMocks func(mm mocks)
		check      func(t *testing.T, e *expense.Expense)
		wantErr    error
	}

	tests := []testCase{
		{
			name: "Expense without member",
			args: args{params: expense.CreateParams{GroupID: g.ID, Amount: dec("12.5"), Currency: "USD", Category: "stationery"}},
			setupMocks: func(mm mocks) {
				mm.groups.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(g, nil)
				mm.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				assert.Equal(t, expense.TypeExpense, e.Type)
				assert.Nil(t, e.MemberID)
				assert.True(t, dec("12.5").Equal(e.Delta().TotalExpenses))
				assert.True(t, e.Delta().TotalFines.IsZero())
			},
		},
		{
			name: "Fine defaults to meeting fine",
			args: args{params: expense.CreateParams{GroupID: g.ID, MemberID: &m.ID, Type: "fine", Currency: "LRD"}},
			setupMocks: func(mm mocks) {
				mm.groups.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(g, nil)
				mm.members.EXPECT().GetMember(gomock.Any(), m.ID).Return(m, nil)
				mm.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				assert.Equal(t, expense.TypeFine, e.Type)
				assert.True(t, dec("25").Equal(e.Amount))
				assert.Equal(t, "Musu Flomo", e.MemberName)
				assert.Equal(t, &m.ID, e.MemberID)
				assert.True(t, dec("25").Equal(e.Delta().TotalFines))
			},
		},
		{
			name: "Fine without configured default",
			args: args{params: expense.CreateParams{GroupID: unset.ID, Type: "fine", Currency: "USD"}},
			setupMocks: func(mm mocks) {
				mm.groups.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(unset, nil)
			},
			wantErr: expense.ErrFineAmount,
		},
		{
			name: "Expense amount required",
			args: args{params: expense.CreateParams{GroupID: g.ID, Amount: dec("0"), Currency: "USD"}},
			setupMocks: func(mm mocks) {
				mm.groups.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(g, nil)
			},
			wantErr: expense.ErrAmountRequired,
		},
		{
			name: "Expense below a cent",
			args: args{params: expense.CreateParams{GroupID: g.ID, Amount: dec("0.004"), Currency: "USD"}},
			setupMocks: func(mm mocks) {
				mm.groups.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(g, nil)
			},
			wantErr: expense.ErrAmountRequired,
		},
		{
			name: "Member of another group",
			args: args{params: expense.CreateParams{GroupID: g.ID, MemberID: &stranger.ID, Amount: dec("5"), Currency: "USD"}},
			setupMocks: func(mm mocks) {
				mm.groups.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(g, nil)
				mm.members.EXPECT().GetMember(gomock.Any(), stranger.ID).Return(stranger, nil)
			},
			wantErr: member.ErrNotInGroup,
		},
		{
			name:    "Missing currency",
			args:    args{params: expense.CreateParams{GroupID: g.ID, Amount: dec("5")}},
			wantErr: expense.ErrMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mm := mocks{
				repo:    expense.NewMockRepository(ctrl),
				groups:  expense.NewMockGroupResolver(ctrl),
				members: expense.NewMockMemberGetter(ctrl),
			}
			if tt.setupMocks != nil {
				tt.setupMocks(mm)
			}

			svc := expense.NewService(mm.repo, mm.groups, mm.members)

			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_List_ResolvesGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	active := &group.Group{ID: uuid.New()}
	requested := uuid.New()
	fine := expense.TypeFine

	repo := expense.NewMockRepository(ctrl)
	groups := expense.NewMockGroupResolver(ctrl)

	groups.EXPECT().Resolve(gomock.Any(), &requested).Return(active, nil)
	repo.EXPECT().
		ListExpenses(gomock.Any(), expense.ListFilter{GroupID: &active.ID, Type: &fine}).
		Return([]*expense.Expense{}, nil)

	svc := expense.NewService(repo, groups, expense.NewMockMemberGetter(ctrl))

	got, err := svc.List(context.Background(), expense.ListFilter{GroupID: &requested, Type: &fine})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseType(t *testing.T) {
	assert.Equal(t, expense.TypeFine, expense.ParseType("fine"))
	assert.Equal(t, expense.TypeExpense, expense.ParseType("expense"))
	assert.Equal(t, expense.TypeExpense, expense.ParseType(""))
}
