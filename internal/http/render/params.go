package render

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
)

var ErrInvalidID = apperr.Validation("invalid id")

// URLID parses the named chi URL parameter as a UUID.
func URLID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, ErrInvalidID.With("param", name)
	}

	return id, nil
}

// QueryID parses an optional UUID query parameter. A missing parameter yields nil.
func QueryID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrInvalidID.With("param", name)
	}

	return &id, nil
}

// BodyID parses an id sent in a request body. An empty value yields uuid.Nil
// so the domain can report it as a missing field.
func BodyID(raw, field string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID.With("field", field)
	}

	return id, nil
}

// OptionalBodyID is BodyID for references that may be left out.
func OptionalBodyID(raw, field string) (*uuid.UUID, error) {
	id, err := BodyID(raw, field)
	if err != nil || id == uuid.Nil {
		return nil, err
	}

	return &id, nil
}
