package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/vsla/internal/auth"
	"github.com/MrJamesThe3rd/vsla/internal/http/distribution"
	"github.com/MrJamesThe3rd/vsla/internal/http/expense"
	"github.com/MrJamesThe3rd/vsla/internal/http/group"
	"github.com/MrJamesThe3rd/vsla/internal/http/loan"
	"github.com/MrJamesThe3rd/vsla/internal/http/member"
	"github.com/MrJamesThe3rd/vsla/internal/http/metrics"
	"github.com/MrJamesThe3rd/vsla/internal/http/reconcile"
	"github.com/MrJamesThe3rd/vsla/internal/http/render"
	"github.com/MrJamesThe3rd/vsla/internal/http/report"
	"github.com/MrJamesThe3rd/vsla/internal/http/savings"
	"github.com/MrJamesThe3rd/vsla/internal/http/socialfund"
	userHandler "github.com/MrJamesThe3rd/vsla/internal/http/user"
	"github.com/MrJamesThe3rd/vsla/internal/user"
)

type Handlers struct {
	Users         *userHandler.Handler
	Groups        *group.Handler
	Members       *member.Handler
	Loans         *loan.Handler
	Savings       *savings.Handler
	Expenses      *expense.Handler
	SocialFunds   *socialfund.Handler
	Distributions *distribution.Handler
	Reports       *report.Handler
	Reconcile     *reconcile.Handler
}

type Options struct {
	Tokens         *auth.JWTManager
	Users          auth.UserGetter
	WriteRoles     []user.Role
	AllowedOrigins []string
	Metrics        *metrics.Metrics
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(opts.Metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "x-auth-token"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	write := auth.RequireRoles(opts.WriteRoles...)
	jsonOnly := middleware.AllowContentType("application/json")

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Users.AuthRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(opts.Tokens, opts.Users))

			r.Route("/users", func(r chi.Router) {
				r.Use(jsonOnly)
				h.Users.Routes(r, write)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(jsonOnly)
					h.Groups.Routes(r, write)
				})

				r.Route("/{groupID}/members", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json", "multipart/form-data", "text/csv", "text/plain"))
					h.Members.GroupRoutes(r, write)
				})
			})

			r.Route("/members", func(r chi.Router) {
				r.Use(jsonOnly)
				h.Members.Routes(r, write)
			})

			r.Route("/loans", func(r chi.Router) {
				r.Use(jsonOnly)
				h.Loans.Routes(r, write)
			})

			r.Route("/savings", func(r chi.Router) {
				r.Use(jsonOnly)
				h.Savings.Routes(r, write)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Use(jsonOnly)
				h.Expenses.Routes(r, write)
			})

			r.Route("/social-funds", func(r chi.Router) {
				r.Use(jsonOnly)
				h.SocialFunds.Routes(r, write)
			})

			r.Route("/distributions", func(r chi.Router) {
				r.Use(jsonOnly)
				h.Distributions.Routes(r, write)
			})

			r.Route("/reports", h.Reports.Routes)

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRoles(user.RoleAdmin))
				h.Reconcile.Routes(r)
			})
		})
	})

	return router
}
