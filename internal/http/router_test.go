package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vsla/internal/auth"
	"github.com/MrJamesThe3rd/vsla/internal/group"
	vslaHttp "github.com/MrJamesThe3rd/vsla/internal/http"
	distributionHandler "github.com/MrJamesThe3rd/vsla/internal/http/distribution"
	expenseHandler "github.com/MrJamesThe3rd/vsla/internal/http/expense"
	groupHandler "github.com/MrJamesThe3rd/vsla/internal/http/group"
	loanHandler "github.com/MrJamesThe3rd/vsla/internal/http/loan"
	memberHandler "github.com/MrJamesThe3rd/vsla/internal/http/member"
	"github.com/MrJamesThe3rd/vsla/internal/http/metrics"
	reconcileHandler "github.com/MrJamesThe3rd/vsla/internal/http/reconcile"
	reportHandler "github.com/MrJamesThe3rd/vsla/internal/http/report"
	savingsHandler "github.com/MrJamesThe3rd/vsla/internal/http/savings"
	socialFundHandler "github.com/MrJamesThe3rd/vsla/internal/http/socialfund"
	userHandler "github.com/MrJamesThe3rd/vsla/internal/http/user"
	"github.com/MrJamesThe3rd/vsla/internal/user"
)

type usersFunc func(ctx context.Context, id uuid.UUID) (*user.User, error)

func (f usersFunc) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f(ctx, id)
}

type fixture struct {
	router http.Handler
	groups *group.MockRepository
	issue  func(u *user.User) string
	staff  *user.User
	admin  *user.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	tokens := auth.NewJWTManager("router-test-secret", time.Hour)
	staff := &user.User{ID: uuid.New(), Role: user.RoleStaff}
	admin := &user.User{ID: uuid.New(), Role: user.RoleAdmin}

	users := usersFunc(func(_ context.Context, id uuid.UUID) (*user.User, error) {
		switch id {
		case staff.ID:
			return staff, nil
		case admin.ID:
			return admin, nil
		default:
			return nil, user.ErrNotFound
		}
	})

	groupRepo := group.NewMockRepository(gomock.NewController(t))

	handlers := vslaHttp.Handlers{
		Users:         userHandler.NewHandler(nil),
		Groups:        groupHandler.NewHandler(group.NewService(groupRepo, false)),
		Members:       memberHandler.NewHandler(nil),
		Loans:         loanHandler.NewHandler(nil),
		Savings:       savingsHandler.NewHandler(nil),
		Expenses:      expenseHandler.NewHandler(nil),
		SocialFunds:   socialFundHandler.NewHandler(nil),
		Distributions: distributionHandler.NewHandler(nil),
		Reports:       reportHandler.NewHandler(nil),
		Reconcile:     reconcileHandler.NewHandler(nil),
	}

	router := vslaHttp.New(handlers, vslaHttp.Options{
		Tokens:         tokens,
		Users:          users,
		WriteRoles:     []user.Role{user.RoleAdmin, user.RoleManager, user.RoleLoanOfficer},
		AllowedOrigins: []string{"https://admin.example.org"},
		Metrics:        metrics.New("vsla"),
	})

	return fixture{
		router: router,
		groups: groupRepo,
		staff:  staff,
		admin:  admin,
		issue: func(u *user.User) string {
			s, err := tokens.Issue(u.ID, u.Role)
			require.NoError(t, err)

			return s
		},
	}
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Access(t *testing.T) {
	type testCase struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		as          func(f fixture) *user.User
		setupMocks  func(m *group.MockRepository)
		wantStatus  int
	}

	tests := []testCase{
		{
			name:       "Missing token",
			method:     http.MethodGet,
			path:       "/api/v1/groups/",
			setupMocks: func(_ *group.MockRepository) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Staff can read",
			method:     http.MethodGet,
			path:       "/api/v1/groups/",
			as:         func(f fixture) *user.User { return f.staff },
			setupMocks: func(m *group.MockRepository) { m.EXPECT().ListGroups(gomock.Any()).Return([]*group.Group{}, nil) },
			wantStatus: http.StatusOK,
		},
		{
			name:        "Staff cannot write",
			method:      http.MethodPost,
			path:        "/api/v1/groups/",
			body:        `{"groupName":"Sunrise"}`,
			contentType: "application/json",
			as:          func(f fixture) *user.User { return f.staff },
			setupMocks:  func(_ *group.MockRepository) {},
			wantStatus:  http.StatusForbidden,
		},
		{
			name:        "Admin area needs the admin role",
			method:      http.MethodPost,
			path:        "/api/v1/admin/reconcile",
			contentType: "application/json",
			as:          func(f fixture) *user.User { return f.staff },
			setupMocks:  func(_ *group.MockRepository) {},
			wantStatus:  http.StatusForbidden,
		},
		{
			name:        "Login only takes JSON",
			method:      http.MethodPost,
			path:        "/api/v1/auth/login",
			body:        "email=rita",
			contentType: "application/x-www-form-urlencoded",
			setupMocks:  func(_ *group.MockRepository) {},
			wantStatus:  http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMocks(f.groups)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			if tt.as != nil {
				req.Header.Set("Authorization", "Bearer "+f.issue(tt.as(f)))
			}

			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `vsla_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
