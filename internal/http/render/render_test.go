package render_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/http/render"
)

func TestError(t *testing.T) {
	overLimit := apperr.Rejected("requested amount exceeds member credit limit")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Validation",
			err:        apperr.Validation("bad input"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"bad input"}`,
		},
		{
			name:       "Not found wrapped",
			err:        fmt.Errorf("loading: %w", apperr.NotFound("member not found")),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"member not found"}`,
		},
		{
			name:       "Relationship",
			err:        apperr.Relationship("member does not belong to this group"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"member does not belong to this group"}`,
		},
		{
			name:       "Rejected with fields",
			err:        overLimit.With("creditLimit", decimal.RequireFromString("300.5")),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"creditLimit":300.5,"message":"requested amount exceeds member credit limit"}`,
		},
		{
			name:       "Internal error is hidden",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)

			render.Error(rec, req, "test", tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestJSON_DecimalAsNumber(t *testing.T) {
	rec := httptest.NewRecorder()

	render.JSON(rec, http.StatusCreated, map[string]decimal.Decimal{"amount": decimal.RequireFromString("110.00")})

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 110.0, body["amount"], 0.0001)
}

func TestQueryID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/savings?member=not-a-uuid", nil)

	id, err := render.QueryID(req, "group")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = render.QueryID(req, "member")
	assert.ErrorIs(t, err, render.ErrInvalidID)
}
