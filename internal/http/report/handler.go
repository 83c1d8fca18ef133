package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/vsla/internal/http/render"
	"github.com/MrJamesThe3rd/vsla/internal/report"
)

const area = "REPORTS"

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/year-end-interest", h.yearEnd)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	groupID, err := render.QueryID(r, "group")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	s, err := h.svc.Summary(r.Context(), groupID, r.URL.Query().Get("year"))
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toSummaryResponse(s))
}

func (h *Handler) yearEnd(w http.ResponseWriter, r *http.Request) {
	groupID, err := render.QueryID(r, "group")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	s, err := h.svc.YearEnd(r.Context(), groupID, r.URL.Query().Get("year"))
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toYearEndResponse(s))
}
