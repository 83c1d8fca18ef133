package distribution_test

import (
	"context"
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

	"github.com/MrJamesThe3rd/vsla/internal/distribution"
	"github.com/MrJamesThe3rd/vsla/internal/group"
	distributionHandler "github.com/MrJamesThe3rd/vsla/internal/http/distribution"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/loan"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

type mocks struct {
	repo    *distribution.MockRepository
	groups  *distribution.MockGroupResolver
	members *distribution.MockMemberGetter
	loans   *distribution.MockLoanGetter
}

func newRouter(t *testing.T) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:    distribution.NewMockRepository(ctrl),
		groups:  distribution.NewMockGroupResolver(ctrl),
		members: distribution.NewMockMemberGetter(ctrl),
		loans:   distribution.NewMockLoanGetter(ctrl),
	}

	svc := distribution.NewService(m.repo, m.groups, m.members, m.loans)

	r := chi.NewRouter()
	r.Route("/distributions", func(r chi.Router) {
		distributionHandler.NewHandler(svc).Routes(r, func(next http.Handler) http.Handler { return next })
	})

	return r, m
}

func TestHandler_Create(t *testing.T) {
	g := &group.Group{ID: uuid.New()}
	l := &loan.Loan{ID: uuid.New(), GroupID: g.ID, Currency: ledger.CurrencyUSD}
	mem := &member.Member{ID: uuid.New(), GroupID: g.ID, Name: "Comfort Kollie"}

	body := func(currency, memberID string) string {
		return `{"loan":"` + l.ID.String() + `","group":"` + g.ID.String() + `","member":"` + memberID +
			`","amount":12.345,"currency":"` + currency + `"}`
	}

	type testCase struct {
		name       string
		body       string
		setupMocks func(m mocks)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "Currency must match the loan",
			body: body("LRD", ""),
			setupMocks: func(m mocks) {
				m.loans.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
				m.groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"distribution currency must match loan currency","loanCurrency":"USD"}`,
		},
		{
			name: "Loan of another group",
			body: body("USD", ""),
			setupMocks: func(m mocks) {
				m.loans.EXPECT().GetLoan(gomock.Any(), l.ID).Return(&loan.Loan{ID: l.ID, GroupID: uuid.New()}, nil)
				m.groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"loan does not belong to this group"}`,
		},
		{
			name:       "Malformed member id",
			body:       body("USD", "comfort"),
			setupMocks: func(_ mocks) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"invalid id","field":"member"}`,
		},
		{
			name: "Unknown loan",
			body: body("USD", ""),
			setupMocks: func(m mocks) {
				m.loans.EXPECT().GetLoan(gomock.Any(), l.ID).Return(nil, loan.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"loan not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter(t)
			tt.setupMocks(m)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/distributions/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}

	t.Run("Credited to the member", func(t *testing.T) {
		router, m := newRouter(t)

		m.loans.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
		m.groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
		m.members.EXPECT().GetMember(gomock.Any(), mem.ID).Return(mem, nil)
		m.repo.EXPECT().CreateDistribution(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d *distribution.Distribution) error {
				assert.Equal(t, &mem.ID, d.MemberID)
				assert.True(t, decimal.RequireFromString("12.35").Equal(d.Amount))

				return nil
			})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/distributions/", strings.NewReader(body("usd", mem.ID.String()))))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"memberName":"Comfort Kollie"`)
	})
}
