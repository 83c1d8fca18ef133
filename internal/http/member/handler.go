package member

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/http/render"
	"github.com/MrJamesThe3rd/vsla/internal/member"
	"github.com/MrJamesThe3rd/vsla/internal/member/roster"
)

const (
	area          = "MEMBERS"
	maxRosterSize = 10 << 20
)

var (
	ErrInvalidRoster = apperr.Validation("roster could not be read")
	ErrInvalidAmount = apperr.Validation("amount and interestRate must be numbers")
)

type Handler struct {
	svc *member.Service
}

func NewHandler(svc *member.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts /members.
func (h *Handler) Routes(r chi.Router, write func(http.Handler) http.Handler) {
	r.Get("/{id}", h.get)
	r.Get("/{id}/eligibility", h.eligibility)

	r.With(write).Put("/{id}", h.update)
	r.With(write).Delete("/{id}", h.delete)
}

// GroupRoutes mounts /groups/{groupID}/members.
func (h *Handler) GroupRoutes(r chi.Router, write func(http.Handler) http.Handler) {
	r.Get("/", h.listByGroup)

	r.With(write).Post("/", h.create)
	r.With(write).Post("/import", h.importRoster)
}

type memberRequest struct {
	MemberName      *string             `json:"memberName"`
	MemberImage     *string             `json:"memberImage"`
	MemberAge       *int                `json:"memberAge"`
	GuardianName    *string             `json:"guardianName"`
	PhoneNumber     *string             `json:"phoneNumber"`
	MemberNumber    *string             `json:"memberNumber"`
	AdmissionDate   *render.Date        `json:"admissionDate"`
	NationalID      *string             `json:"nationalId"`
	MemberSignature *string             `json:"memberSignature"`
	Attendance      []member.Attendance `json:"attendance"`
}

func value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	groupID, err := render.URLID(r, "groupID")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	var req memberRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	params := member.CreateParams{
		Name:         value(req.MemberName),
		Image:        value(req.MemberImage),
		Age:          value(req.MemberAge),
		GuardianName: value(req.GuardianName),
		Phone:        value(req.PhoneNumber),
		Number:       value(req.MemberNumber),
		NationalID:   value(req.NationalID),
		Signature:    value(req.MemberSignature),
		Attendance:   req.Attendance,
	}

	if req.AdmissionDate != nil {
		params.AdmissionDate = req.AdmissionDate.Time
	}

	m, err := h.svc.Create(r.Context(), groupID, params)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(m))
}

// rosterBody returns the uploaded file of a multipart request, or the raw
// body for any other content type.
func rosterBody(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return http.MaxBytesReader(w, r.Body, maxRosterSize), func() {}, nil
	}

	if err := r.ParseMultipartForm(maxRosterSize); err != nil {
		return nil, nil, ErrInvalidRoster
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, ErrInvalidRoster.With("field", "file")
	}

	return file, func() { _ = file.Close() }, nil
}

func (h *Handler) importRoster(w http.ResponseWriter, r *http.Request) {
	groupID, err := render.URLID(r, "groupID")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	body, closeBody, err := rosterBody(w, r)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}
	defer closeBody()

	rows, err := roster.Parse(body)
	if err != nil {
		render.Error(w, r, area, ErrInvalidRoster.With("reason", err.Error()))
		return
	}

	params := make([]member.CreateParams, len(rows))
	for i, row := range rows {
		params[i] = member.CreateParams{
			Name:          row.Name,
			Age:           row.Age,
			GuardianName:  row.GuardianName,
			Phone:         row.Phone,
			Number:        row.Number,
			AdmissionDate: row.AdmissionDate,
			NationalID:    row.NationalID,
		}
	}

	members, err := h.svc.Import(r.Context(), groupID, params)
	if err != nil {
		var rowErr *member.RowError
		if errors.As(err, &rowErr) {
			if appErr, ok := apperr.As(rowErr.Err); ok {
				err = appErr.With("row", rows[rowErr.Row-1].Line)
			}
		}

		render.Error(w, r, area, err)

		return
	}

	render.JSON(w, http.StatusCreated, map[string]any{
		"imported": len(members),
		"members":  toResponseList(members),
	})
}

func (h *Handler) listByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := render.URLID(r, "groupID")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	members, err := h.svc.ListByGroup(r.Context(), groupID)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(members))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	var req memberRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	m, err := h.svc.Update(r.Context(), id, member.UpdateParams{
		Name:          req.MemberName,
		Image:         req.MemberImage,
		Age:           req.MemberAge,
		GuardianName:  req.GuardianName,
		Phone:         req.PhoneNumber,
		Number:        req.MemberNumber,
		AdmissionDate: req.AdmissionDate.Ptr(),
		NationalID:    req.NationalID,
		Signature:     req.MemberSignature,
		Attendance:    req.Attendance,
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(m))
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

	render.Message(w, http.StatusOK, "Member removed")
}

func (h *Handler) eligibility(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	requested := decimal.Zero

	if s := r.URL.Query().Get("amount"); s != "" {
		requested, err = decimal.NewFromString(s)
		if err != nil {
			render.Error(w, r, area, ErrInvalidAmount)
			return
		}
	}

	var rate *decimal.Decimal

	if s := r.URL.Query().Get("interestRate"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			render.Error(w, r, area, ErrInvalidAmount)
			return
		}

		rate = &d
	}

	e, err := h.svc.Eligibility(r.Context(), id, requested, rate)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toEligibilityResponse(id, e))
}
