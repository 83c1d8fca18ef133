package distribution

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/distribution"
	"github.com/MrJamesThe3rd/vsla/internal/http/render"
)

const area = "DISTRIBUTIONS"

type Handler struct {
	svc *distribution.Service
}

func NewHandler(svc *distribution.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router, write func(http.Handler) http.Handler) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.With(write).Post("/", h.create)
}

type createDistributionRequest struct {
	Loan       string          `json:"loan"`
	Group      string          `json:"group"`
	Member     string          `json:"member"`
	MemberName string          `json:"memberName"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Date       *render.Date    `json:"date"`
	Notes      string          `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDistributionRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	loanID, err := render.BodyID(req.Loan, "loan")
	if err != nil {
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

	d, err := h.svc.Create(r.Context(), distribution.CreateParams{
		LoanID:     loanID,
		GroupID:    groupID,
		MemberID:   memberID,
		MemberName: req.MemberName,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Date:       req.Date.Ptr(),
		Notes:      req.Notes,
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		filter distribution.ListFilter
		err    error
	)

	if filter.LoanID, err = render.QueryID(r, "loan"); err != nil {
		render.Error(w, r, area, err)
		return
	}

	if filter.GroupID, err = render.QueryID(r, "group"); err != nil {
		render.Error(w, r, area, err)
		return
	}

	if filter.MemberID, err = render.QueryID(r, "member"); err != nil {
		render.Error(w, r, area, err)
		return
	}

	distributions, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(distributions))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(d))
}
