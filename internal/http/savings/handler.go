package savings

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/http/render"
	"github.com/MrJamesThe3rd/vsla/internal/savings"
)

const area = "SAVINGS"

type Handler struct {
	svc *savings.Service
}

func NewHandler(svc *savings.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router, write func(http.Handler) http.Handler) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.With(write).Post("/", h.create)
}

type createSavingsRequest struct {
	Group           string           `json:"group"`
	Member          string           `json:"member"`
	MemberName      string           `json:"memberName"`
	Shares          decimal.Decimal  `json:"shares"`
	Amount          *decimal.Decimal `json:"amount"`
	TransactionType string           `json:"transactionType"`
	Currency        string           `json:"currency"`
	Date            *render.Date     `json:"date"`
	Notes           string           `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createSavingsRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	groupID, err := render.BodyID(req.Group, "group")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	memberID, err := render.BodyID(req.Member, "member")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	entry, err := h.svc.Create(r.Context(), savings.CreateParams{
		GroupID:    groupID,
		MemberID:   memberID,
		MemberName: req.MemberName,
		Shares:     req.Shares,
		Amount:     req.Amount,
		Type:       req.TransactionType,
		Currency:   req.Currency,
		Date:       req.Date.Ptr(),
		Notes:      req.Notes,
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(entry))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		filter savings.ListFilter
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

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(entries))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(entry))
}
