// Package apperr classifies errors that are safe to show to API callers.
//
// Domain packages declare their failures as *Error sentinels and return them
// (optionally wrapped or enriched with fields). Anything that is not an *Error
// is treated as an internal failure by the HTTP layer.
package apperr

import "errors"

// Kind is the category of a caller-facing error.
type Kind int

const (
	// KindValidation means the input was malformed or missing.
	KindValidation Kind = iota + 1
	// KindNotFound means a referenced entity does not exist.
	KindNotFound
	// KindRelationship means entities exist but do not belong together.
	KindRelationship
	// KindRejected means a business rule refused the operation.
	KindRejected
)

// Error is a caller-facing error with optional supporting data.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]any
}

func (e *Error) Error() string { return e.Message }

// Is matches errors of the same kind and message, so a sentinel still matches
// after With has attached fields to a copy of it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.Message == e.Message
}

// With returns a copy of e carrying an extra field in the response body.
func (e *Error) With(key string, value any) *Error {
	fields := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}

	fields[key] = value

	return &Error{Kind: e.Kind, Message: e.Message, Fields: fields}
}

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Relationship(msg string) *Error { return &Error{Kind: KindRelationship, Message: msg} }
func Rejected(msg string) *Error     { return &Error{Kind: KindRejected, Message: msg} }

// As reports whether err has an *Error in its chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}
