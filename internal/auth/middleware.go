package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/http/render"
	"github.com/MrJamesThe3rd/vsla/internal/user"
)

type UserGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type ctxKey struct{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the authenticated user, if any.
func UserFrom(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*user.User)
	return u, ok && u != nil
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}

	return strings.TrimSpace(r.Header.Get("x-auth-token"))
}

// Authenticate accepts a bearer token or an x-auth-token header and loads the
// token's user. The user must still exist.
func Authenticate(tokens *JWTManager, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				render.Message(w, http.StatusUnauthorized, "Not authorized, token missing")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				render.Message(w, http.StatusUnauthorized, "Not authorized, token invalid")
				return
			}

			u, err := users.Get(r.Context(), claims.UserID)
			if err != nil {
				if !errors.Is(err, user.ErrNotFound) {
					slog.ErrorContext(r.Context(), "loading token user", "area", "auth", "error", err)
				}

				render.Message(w, http.StatusUnauthorized, "Not authorized, user not found")

				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireRoles lets through only users holding one of roles. It must run
// after Authenticate.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFrom(r.Context())
			if !ok {
				render.Message(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			if !slices.Contains(roles, u.Role) {
				render.Message(w, http.StatusForbidden, "Access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
