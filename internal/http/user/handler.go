package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/vsla/internal/http/render"
	"github.com/MrJamesThe3rd/vsla/internal/user"
)

const area = "USERS"

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

// AuthRoutes mounts the public /auth endpoints.
func (h *Handler) AuthRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// Routes mounts /users. write guards the mutating endpoints.
func (h *Handler) Routes(r chi.Router, write func(http.Handler) http.Handler) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.With(write).Post("/", h.create)
	r.With(write).Put("/{id}", h.update)
	r.With(write).Patch("/{id}/password", h.changePassword)
	r.With(write).Delete("/{id}", h.delete)
}

type userRequest struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Role         *string `json:"role"`
	Organization *string `json:"organization"`
	Branch       *string `json:"branch"`
	BranchCode   *string `json:"branchCode"`
}

func (req userRequest) createParams() user.CreateParams {
	return user.CreateParams{
		Username:     value(req.Username),
		Email:        value(req.Email),
		Password:     value(req.Password),
		Role:         value(req.Role),
		Organization: value(req.Organization),
		Branch:       value(req.Branch),
		BranchCode:   value(req.BranchCode),
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, "AUTH REGISTER", err)
		return
	}

	u, err := h.svc.Register(r.Context(), req.createParams())
	if err != nil {
		render.Error(w, r, "AUTH REGISTER", err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(u))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, "AUTH LOGIN", err)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		render.Error(w, r, "AUTH LOGIN", err)
		return
	}

	render.JSON(w, http.StatusOK, sessionResponse{
		Token: session.Token,
		User:  toResponse(session.User),
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	u, err := h.svc.Create(r.Context(), req.createParams())
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(u))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(users))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	var req userRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	u, err := h.svc.Update(r.Context(), id, user.UpdateParams{
		Username:     req.Username,
		Email:        req.Email,
		Role:         req.Role,
		Organization: req.Organization,
		Branch:       req.Branch,
		BranchCode:   req.BranchCode,
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(u))
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	var req changePasswordRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), id, req.NewPassword); err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.Message(w, http.StatusOK, "Password updated")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.Message(w, http.StatusOK, "User removed")
}
