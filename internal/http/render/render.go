// Package render writes JSON responses and maps domain errors to HTTP status
// codes.
package render

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
)

// Money goes over the wire as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

var ErrInvalidBody = apperr.Validation("invalid request body")

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{"message": msg})
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	if appErr, ok := apperr.As(err); ok {
		return appErr
	}

	return ErrInvalidBody
}

// Error writes err as a JSON error. Errors that are not *apperr.Error are
// logged under area and reported as a generic server error.
func Error(w http.ResponseWriter, r *http.Request, area string, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		slog.ErrorContext(r.Context(), "request failed", "area", area, "method", r.Method, "path", r.URL.Path, "error", err)
		Message(w, http.StatusInternalServerError, "Server error")

		return
	}

	body := make(map[string]any, len(appErr.Fields)+1)
	for k, v := range appErr.Fields {
		body[k] = v
	}

	body["message"] = appErr.Message

	JSON(w, Status(appErr.Kind), body)
}

func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindRelationship, apperr.KindRejected:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
