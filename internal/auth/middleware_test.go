package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vsla/internal/auth"
	"github.com/MrJamesThe3rd/vsla/internal/user"
)

type usersFunc func(ctx context.Context, id uuid.UUID) (*user.User, error)

func (f usersFunc) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f(ctx, id)
}

func TestMiddleware(t *testing.T) {
	tokens := auth.NewJWTManager("test-secret", time.Hour)

	staff := &user.User{ID: uuid.New(), Role: user.RoleStaff}
	admin := &user.User{ID: uuid.New(), Role: user.RoleAdmin}
	gone := uuid.New()

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

	router := chi.NewRouter()
	router.Use(auth.Authenticate(tokens, users))
	router.Get("/read", func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.UserFrom(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(u.Role))
	})
	router.With(auth.RequireRoles(user.RoleAdmin, user.RoleManager)).Post("/write", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	issue := func(id uuid.UUID, role user.Role) string {
		s, err := tokens.Issue(id, role)
		require.NoError(t, err)

		return s
	}

	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "No token",
			method:     http.MethodGet,
			path:       "/read",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Not authorized, token missing"}`,
		},
		{
			name:       "Bearer token",
			method:     http.MethodGet,
			path:       "/read",
			headers:    map[string]string{"Authorization": "Bearer " + issue(staff.ID, staff.Role)},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Legacy header",
			method:     http.MethodGet,
			path:       "/read",
			headers:    map[string]string{"x-auth-token": issue(staff.ID, staff.Role)},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Invalid token",
			method:     http.MethodGet,
			path:       "/read",
			headers:    map[string]string{"Authorization": "Bearer nope"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Not authorized, token invalid"}`,
		},
		{
			name:       "Deleted user",
			method:     http.MethodGet,
			path:       "/read",
			headers:    map[string]string{"Authorization": "Bearer " + issue(gone, user.RoleAdmin)},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Not authorized, user not found"}`,
		},
		{
			name:       "Role not allowed",
			method:     http.MethodPost,
			path:       "/write",
			headers:    map[string]string{"Authorization": "Bearer " + issue(staff.ID, staff.Role)},
			wantStatus: http.StatusForbidden,
			wantBody:   `{"message":"Access denied"}`,
		},
		{
			name:       "Role allowed",
			method:     http.MethodPost,
			path:       "/write",
			headers:    map[string]string{"Authorization": "Bearer " + issue(admin.ID, admin.Role)},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
