package group

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/http/render"
)

const area = "GROUPS"

type Handler struct {
	svc *group.Service
}

func NewHandler(svc *group.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the group endpoints. write guards the mutating ones.
func (h *Handler) Routes(r chi.Router, write func(http.Handler) http.Handler) {
	r.Get("/", h.list)
	r.Get("/{groupID}", h.get)

	r.With(write).Post("/", h.create)
	r.With(write).Put("/{groupID}", h.update)
	r.With(write).Delete("/{groupID}", h.delete)
}

type groupRequest struct {
	GroupName             *string          `json:"groupName"`
	GroupCode             *string          `json:"groupCode"`
	BranchName            *string          `json:"branchName"`
	OrganizationName      *string          `json:"organizationName"`
	MeetingDay            *string          `json:"meetingDay"`
	MeetingTime           *string          `json:"meetingTime"`
	LoanOfficer           *string          `json:"loanOfficer"`
	Community             *string          `json:"community"`
	Status                *string          `json:"status"`
	TotalGroupCount       *int             `json:"totalGroupCount"`
	SavingsDurationMonths *int             `json:"savingsDurationMonths"`
	SavingsAmount         *decimal.Decimal `json:"savingsamount"`
	SocialFundAmount      *decimal.Decimal `json:"socialfundamount"`
	MeetingFineAmount     *decimal.Decimal `json:"meetingFineAmount"`

	leadership group.Leadership
}

// decodeGroup reads the typed fields and the flat leadership keys
// ("chairpersonName", "presidentNumber", ...) from one body.
func decodeGroup(r *http.Request) (groupRequest, error) {
	var req groupRequest

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return req, render.ErrInvalidBody
	}

	if len(body) == 0 {
		req.leadership = group.Leadership{}
		return req, nil
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, render.ErrInvalidBody
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return req, render.ErrInvalidBody
	}

	fields := make(map[string]string)

	for k, v := range raw {
		if s, ok := v.(string); ok && group.IsLeadershipField(k) {
			fields[k] = s
		}
	}

	req.leadership = group.LeadershipFromFields(fields)

	return req, nil
}

func value(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func amount(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}

	return *d
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGroup(r)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	g, err := h.svc.Create(r.Context(), group.CreateParams{
		Name:                  value(req.GroupName),
		Code:                  value(req.GroupCode),
		BranchName:            value(req.BranchName),
		OrganizationName:      value(req.OrganizationName),
		MeetingDay:            value(req.MeetingDay),
		MeetingTime:           value(req.MeetingTime),
		LoanOfficer:           value(req.LoanOfficer),
		Community:             value(req.Community),
		Status:                value(req.Status),
		TotalGroupCount:       req.TotalGroupCount,
		SavingsDurationMonths: req.SavingsDurationMonths,
		Leadership:            req.leadership,
		SavingsAmountPerShare: amount(req.SavingsAmount),
		SocialFundAmount:      amount(req.SocialFundAmount),
		MeetingFineAmount:     amount(req.MeetingFineAmount),
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(g))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.List(r.Context())
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(groups))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "groupID")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	g, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(g))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "groupID")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	req, err := decodeGroup(r)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	g, err := h.svc.Update(r.Context(), id, group.UpdateParams{
		Name:                  req.GroupName,
		Code:                  req.GroupCode,
		BranchName:            req.BranchName,
		OrganizationName:      req.OrganizationName,
		MeetingDay:            req.MeetingDay,
		MeetingTime:           req.MeetingTime,
		LoanOfficer:           req.LoanOfficer,
		Community:             req.Community,
		Status:                req.Status,
		TotalGroupCount:       req.TotalGroupCount,
		SavingsDurationMonths: req.SavingsDurationMonths,
		Leadership:            req.leadership,
		SavingsAmountPerShare: req.SavingsAmount,
		SocialFundAmount:      req.SocialFundAmount,
		MeetingFineAmount:     req.MeetingFineAmount,
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(g))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "groupID")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.Message(w, http.StatusOK, "Group removed")
}
