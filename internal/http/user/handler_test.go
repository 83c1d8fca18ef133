package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	userHandler "github.com/MrJamesThe3rd/vsla/internal/http/user"
	"github.com/MrJamesThe3rd/vsla/internal/user"
)

type mocks struct {
	repo   *user.MockRepository
	hasher *user.MockPasswordHasher
	tokens *user.MockTokenIssuer
}

func newRouter(t *testing.T) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:   user.NewMockRepository(ctrl),
		hasher: user.NewMockPasswordHasher(ctrl),
		tokens: user.NewMockTokenIssuer(ctrl),
	}
	h := userHandler.NewHandler(user.NewService(m.repo, m.hasher, m.tokens))

	r := chi.NewRouter()
	r.Route("/auth", h.AuthRoutes)
	r.Route("/users", func(r chi.Router) {
		h.Routes(r, func(next http.Handler) http.Handler { return next })
	})

	return r, m
}

func TestHandler_Register(t *testing.T) {
	body := `{"username":"rita","email":" Rita@Example.org ","password":"s3cret","role":"admin",` +
		`"organization":"LEAP","branch":"Gbarnga","branchCode":"GB-01"}`

	t.Run("Always creates staff", func(t *testing.T) {
		router, m := newRouter(t)

		m.repo.EXPECT().GetUserByEmail(gomock.Any(), "rita@example.org").Return(nil, user.ErrNotFound)
		m.hasher.EXPECT().Hash("s3cret").Return("hashed", nil)
		m.repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				u.ID = uuid.New()
				return nil
			})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "staff", resp["role"])
		assert.Equal(t, "rita@example.org", resp["email"])
		assert.NotContains(t, resp, "password")
		assert.NotContains(t, resp, "passwordHash")
	})

	t.Run("Email taken", func(t *testing.T) {
		router, m := newRouter(t)

		m.repo.EXPECT().GetUserByEmail(gomock.Any(), "rita@example.org").Return(&user.User{ID: uuid.New()}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"user with this email already exists"}`, rec.Body.String())
	})

	t.Run("Password too long", func(t *testing.T) {
		router, _ := newRouter(t)

		long := strings.Replace(body, `"s3cret"`, `"`+strings.Repeat("p", 80)+`"`, 1)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(long)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"password must be at most 72 bytes"}`, rec.Body.String())
	})
}

func TestHandler_Login(t *testing.T) {
	stored := &user.User{ID: uuid.New(), Email: "rita@example.org", PasswordHash: "hashed", Role: user.RoleManager}

	type testCase struct {
		name       string
		body       string
		setupMocks func(m mocks)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:       "Missing password",
			body:       `{"email":"rita@example.org"}`,
			setupMocks: func(_ mocks) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"email and password are required"}`,
		},
		{
			name: "Unknown email looks like a wrong password",
			body: `{"email":"nobody@example.org","password":"x"}`,
			setupMocks: func(m mocks) {
				m.repo.EXPECT().GetUserByEmail(gomock.Any(), "nobody@example.org").Return(nil, user.ErrNotFound)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"invalid credentials"}`,
		},
		{
			name: "Wrong password",
			body: `{"email":"rita@example.org","password":"guess"}`,
			setupMocks: func(m mocks) {
				m.repo.EXPECT().GetUserByEmail(gomock.Any(), "rita@example.org").Return(stored, nil)
				m.hasher.EXPECT().Compare("hashed", "guess").Return(errors.New("mismatch"))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"invalid credentials"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter(t)
			tt.setupMocks(m)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}

	t.Run("Issues a token", func(t *testing.T) {
		router, m := newRouter(t)

		m.repo.EXPECT().GetUserByEmail(gomock.Any(), "rita@example.org").Return(stored, nil)
		m.hasher.EXPECT().Compare("hashed", "s3cret").Return(nil)
		m.tokens.EXPECT().Issue(stored.ID, user.RoleManager).Return("signed.jwt.token", nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"rita@example.org","password":"s3cret"}`)))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Token string         `json:"token"`
			User  map[string]any `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed.jwt.token", resp.Token)
		assert.Equal(t, "manager", resp.User["role"])
		assert.NotContains(t, resp.User, "passwordHash")
	})
}

func TestHandler_ChangePassword_Required(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/users/"+uuid.NewString()+"/password", strings.NewReader(`{"newPassword":""}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"newPassword is required"}`, rec.Body.String())
}
