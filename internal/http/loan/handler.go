package loan

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/http/render"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/loan"
)

const area = "LOANS"

type Handler struct {
	svc *loan.Service
}

func NewHandler(svc *loan.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router, write func(http.Handler) http.Handler) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/collections", h.listCollections)

	r.With(write).Post("/", h.create)
	r.With(write).Put("/{id}", h.update)
	r.With(write).Patch("/{id}/status", h.setStatus)
	r.With(write).Post("/{id}/collections", h.addCollection)
}

type loanRequest struct {
	Group                 string           `json:"group"`
	Client                string           `json:"client"`
	BranchName            *string          `json:"branchName"`
	BranchCode            *string          `json:"branchCode"`
	MeetingTime           *string          `json:"meetingTime"`
	MeetingDay            *string          `json:"meetingDay"`
	MemberCode            *string          `json:"memberCode"`
	MemberAddress         *string          `json:"memberAddress"`
	MemberOccupation      *string          `json:"memberOccupation"`
	GuarantorName         *string          `json:"guarantorName"`
	GuarantorRelationship *string          `json:"guarantorRelationship"`
	LoanAmountInWords     *string          `json:"loanAmountInWords"`
	LoanDurationNumber    *int             `json:"loanDurationNumber"`
	LoanDurationUnit      *string          `json:"loanDurationUnit"`
	PurposeOfLoan         *string          `json:"purposeOfLoan"`
	BusinessType          *string          `json:"businessType"`
	DisbursementDate      *render.Date     `json:"disbursementDate"`
	EndingDate            *render.Date     `json:"endingDate"`
	CollectionStartDate   *render.Date     `json:"collectionStartDate"`
	WeeklyInstallment     *decimal.Decimal `json:"weeklyInstallment"`
	SecurityDeposit       *decimal.Decimal `json:"securityDeposit"`
	MemberAdmissionFee    *decimal.Decimal `json:"memberAdmissionFee"`
	LoanAmount            *decimal.Decimal `json:"loanAmount"`
	InterestRate          *decimal.Decimal `json:"interestRate"`
	Currency              string           `json:"currency"`
	Status                string           `json:"status"`
	LoanOfficerName       *string          `json:"loanOfficerName"`
}

func value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	groupID, err := render.BodyID(req.Group, "group")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	clientID, err := render.BodyID(req.Client, "client")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	l, err := h.svc.Create(r.Context(), loan.CreateParams{
		GroupID:               groupID,
		ClientID:              clientID,
		BranchName:            value(req.BranchName),
		BranchCode:            value(req.BranchCode),
		MeetingTime:           value(req.MeetingTime),
		MeetingDay:            value(req.MeetingDay),
		MemberCode:            value(req.MemberCode),
		MemberAddress:         value(req.MemberAddress),
		MemberOccupation:      value(req.MemberOccupation),
		GuarantorName:         value(req.GuarantorName),
		GuarantorRelationship: value(req.GuarantorRelationship),
		AmountInWords:         value(req.LoanAmountInWords),
		DurationNumber:        value(req.LoanDurationNumber),
		DurationUnit:          value(req.LoanDurationUnit),
		Purpose:               value(req.PurposeOfLoan),
		BusinessType:          value(req.BusinessType),
		DisbursementDate:      req.DisbursementDate.Ptr(),
		EndingDate:            req.EndingDate.Ptr(),
		CollectionStartDate:   req.CollectionStartDate.Ptr(),
		WeeklyInstallment:     req.WeeklyInstallment,
		SecurityDeposit:       req.SecurityDeposit,
		AdmissionFee:          req.MemberAdmissionFee,
		Amount:                value(req.LoanAmount),
		InterestRate:          value(req.InterestRate),
		Currency:              req.Currency,
		Status:                req.Status,
		LoanOfficerName:       value(req.LoanOfficerName),
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(l))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		filter loan.ListFilter
		err    error
		q      = r.URL.Query()
	)

	if filter.GroupID, err = render.QueryID(r, "group"); err != nil {
		render.Error(w, r, area, err)
		return
	}

	if filter.ClientID, err = render.QueryID(r, "client"); err != nil {
		render.Error(w, r, area, err)
		return
	}

	if s := q.Get("branchName"); s != "" {
		filter.BranchName = &s
	}

	if s := q.Get("branchCode"); s != "" {
		filter.BranchCode = &s
	}

	if s := q.Get("status"); s != "" {
		status, err := loan.ParseStatus(s)
		if err != nil {
			render.Error(w, r, area, err)
			return
		}

		filter.Status = &status
	}

	if s := q.Get("currency"); s != "" {
		currency, err := ledger.ParseCurrency(s)
		if err != nil {
			render.Error(w, r, area, err)
			return
		}

		filter.Currency = &currency
	}

	loans, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(loans))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(l))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	var req loanRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	l, err := h.svc.Update(r.Context(), id, loan.UpdateParams{
		BranchName:            req.BranchName,
		BranchCode:            req.BranchCode,
		MeetingTime:           req.MeetingTime,
		MeetingDay:            req.MeetingDay,
		MemberCode:            req.MemberCode,
		MemberAddress:         req.MemberAddress,
		MemberOccupation:      req.MemberOccupation,
		GuarantorName:         req.GuarantorName,
		GuarantorRelationship: req.GuarantorRelationship,
		AmountInWords:         req.LoanAmountInWords,
		DurationNumber:        req.LoanDurationNumber,
		DurationUnit:          req.LoanDurationUnit,
		Purpose:               req.PurposeOfLoan,
		BusinessType:          req.BusinessType,
		EndingDate:            req.EndingDate.Ptr(),
		CollectionStartDate:   req.CollectionStartDate.Ptr(),
		SecurityDeposit:       req.SecurityDeposit,
		AdmissionFee:          req.MemberAdmissionFee,
		Amount:                req.LoanAmount,
		InterestRate:          req.InterestRate,
		LoanOfficerName:       req.LoanOfficerName,
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(l))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	var req setStatusRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	l, err := h.svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(l))
}

type collectionRequest struct {
	MemberName                  string           `json:"memberName"`
	LoanAmount                  decimal.Decimal  `json:"loanAmount"`
	WeeklyAmount                decimal.Decimal  `json:"weeklyAmount"`
	FieldCollection             *decimal.Decimal `json:"fieldCollection"`
	AdvancePayment              *decimal.Decimal `json:"advancePayment"`
	FieldBalance                *decimal.Decimal `json:"fieldBalance"`
	Currency                    string           `json:"currency"`
	CollectionDate              *render.Date     `json:"collectionDate"`
	PrincipalPortion            *decimal.Decimal `json:"principalPortion"`
	InterestPortion             *decimal.Decimal `json:"interestPortion"`
	FeesPortion                 *decimal.Decimal `json:"feesPortion"`
	SecurityDepositContribution *decimal.Decimal `json:"securityDepositContribution"`
}

func (h *Handler) addCollection(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	var req collectionRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, area, err)
		return
	}

	collections, err := h.svc.AddCollection(r.Context(), id, loan.CollectionParams{
		MemberName:                  req.MemberName,
		LoanAmount:                  req.LoanAmount,
		WeeklyAmount:                req.WeeklyAmount,
		FieldCollection:             req.FieldCollection,
		AdvancePayment:              req.AdvancePayment,
		FieldBalance:                req.FieldBalance,
		Currency:                    req.Currency,
		CollectionDate:              req.CollectionDate.Ptr(),
		PrincipalPortion:            req.PrincipalPortion,
		InterestPortion:             req.InterestPortion,
		FeesPortion:                 req.FeesPortion,
		SecurityDepositContribution: req.SecurityDepositContribution,
	})
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusCreated, toCollectionList(collections))
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	collections, err := h.svc.ListCollections(r.Context(), id)
	if err != nil {
		render.Error(w, r, area, err)
		return
	}

	render.JSON(w, http.StatusOK, toCollectionList(collections))
}
