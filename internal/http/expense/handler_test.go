package expense_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vsla/internal/expense"
	"github.com/MrJamesThe3rd/vsla/internal/group"
	expenseHandler "github.com/MrJamesThe3rd/vsla/internal/http/expense"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

type mocks struct {
	repo    *expense.MockRepository
	groups  *expense.MockGroupResolver
	members *expense.MockMemberGetter
}

func newRouter(t *testing.T) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:    expense.NewMockRepository(ctrl),
		groups:  expense.NewMockGroupResolver(ctrl),
		members: expense.NewMockMemberGetter(ctrl),
	}

	r := chi.NewRouter()
	r.Route("/expenses", func(r chi.Router) {
		expenseHandler.NewHandler(expense.NewService(m.repo, m.groups, m.members)).
			Routes(r, func(next http.Handler) http.Handler { return next })
	})

	return r, m
}

func TestHandler_Create(t *testing.T) {
	g := &group.Group{ID: uuid.New(), MeetingFineAmount: decimal.NewFromInt(15)}
	late := &member.Member{ID: uuid.New(), GroupID: g.ID, Name: "Esther Flomo"}

	type testCase struct {
		name       string
		body       string
		setupMocks func(m mocks)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}

	tests := []testCase{
		{
			name: "Fine defaults to the meeting fine",
			body: `{"group":"` + g.ID.String() + `","member":"` + late.ID.String() + `","type":"fine","currency":"LRD"}`,
			setupMocks: func(m mocks) {
				m.groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
				m.members.EXPECT().GetMember(gomock.Any(), late.ID).Return(late, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "fine", body["type"])
				assert.InDelta(t, 15, body["amount"], 0.001)
				assert.Equal(t, late.ID.String(), body["member"])
				assert.Equal(t, "Esther Flomo", body["memberName"])
			},
		},
		{
			name: "Group expense without member",
			body: `{"group":"` + g.ID.String() + `","category":"stationery","amount":4.5,"currency":"USD"}`,
			setupMocks: func(m mocks) {
				m.groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "expense", body["type"])
				assert.NotContains(t, body, "member")
			},
		},
		{
			name: "Expense needs an amount",
			body: `{"group":"` + g.ID.String() + `","currency":"USD"}`,
			setupMocks: func(m mocks) {
				m.groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
			},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "amount must be a positive number", body["message"])
			},
		},
		{
			name: "Member of another group",
			body: `{"group":"` + g.ID.String() + `","member":"` + late.ID.String() + `","type":"fine","currency":"LRD"}`,
			setupMocks: func(m mocks) {
				m.groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
				m.members.EXPECT().GetMember(gomock.Any(), late.ID).Return(&member.Member{ID: late.ID, GroupID: uuid.New()}, nil)
			},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "member does not belong to this group", body["message"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter(t)
			tt.setupMocks(m)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/expenses/", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.check(t, body)
		})
	}
}

func TestHandler_List_ByType(t *testing.T) {
	router, m := newRouter(t)
	fine := expense.TypeFine

	m.repo.EXPECT().ListExpenses(gomock.Any(), expense.ListFilter{Type: &fine}).Return([]*expense.Expense{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/expenses/?type=fine", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
