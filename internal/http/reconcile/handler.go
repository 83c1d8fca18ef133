package reconcile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/vsla/internal/http/render"
	"github.com/MrJamesThe3rd/vsla/internal/reconcile"
)

type Handler struct {
	svc *reconcile.Service
}

func NewHandler(svc *reconcile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/reconcile", h.run)
}

type resultResponse struct {
	GroupsCorrected  int64 `json:"groupsCorrected"`
	MembersCorrected int64 `json:"membersCorrected"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Run(r.Context())
	if err != nil {
		render.Error(w, r, "RECONCILE", err)
		return
	}

	render.JSON(w, http.StatusOK, resultResponse{
		GroupsCorrected:  res.Groups,
		MembersCorrected: res.Members,
	})
}
