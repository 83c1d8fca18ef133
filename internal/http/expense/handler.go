package expense

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/expense"
	"github.com/MrJamesThe3rd/vsla/internal/http/render"
)

const area = "EXPENSES"

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router, write func(http.Handler) http.Handler) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.With(write).Post("/", h.create)
}

type createExpenseRequest struct {
	Group      string           `json:"group"`
	Member     string           `json:"member"`
	MemberName string           `json:"memberName"`
	Type       string           `json:"type"`
	Category   string           `json:"category"`
	Amount     *decimal.Decimal `json:"amount"`
	Currency   string           `json:"currency"`
	Date       *render.Date     `json:"date"`
	Notes      string           `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	groupID, err := render.BodyID(req.Group, "group")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	memberID, err := render.OptionalBodyID(req.Member, "member")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	e, err := h.svc.Create(r.Context(), expense.CreateParams{
		GroupID:    groupID,
		MemberID:   memberID,
		MemberName: req.MemberName,
		Type:       req.Type,
		Category:   req.Category,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Date:       req.Date.Ptr(),
		Notes:      req.Notes,
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		filter expense.ListFilter
		err    error
	)

	if filter.GroupID, err = render.QueryID(r, "group"); err != nil {
		render.Error(w, r, area, err)
		return
	}

	if filter.MemberID, err = render.QueryID(r, "member"); err != nil {
		render.Error(w, r, area, err)
		return
	}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.Type = new(expense.ParseType(s))
	}

	expenses, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(expenses))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e))
}
