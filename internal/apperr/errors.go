// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// Error is an application error with a stable code and a client-safe message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details any
	// Status overrides the default HTTP status of Kind when non-zero.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s (%v)", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error to a response status.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WithDetails attaches client-visible details.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// WithStatus overrides the HTTP status.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// Error codes.
const (
	CodeValidation    = "ERR_VALIDATION"
	CodeMissingField  = "ERR_MISSING_FIELD"
	CodeNotFound      = "ERR_NOT_FOUND"
	CodeTagNotFound   = "ERR_TAG_NOT_FOUND"
	CodeMediaNotFound = "ERR_MEDIA_NOT_FOUND"
	CodeConflict      = "ERR_CONFLICT"
	CodeDuplicate     = "ERR_DUPLICATE"
	CodeTagInUse      = "ERR_TAG_IN_USE"
	CodeMediaInUse    = "ERR_MEDIA_IN_USE"
	CodeUnauthorized  = "ERR_UNAUTHORIZED"
	CodeForbidden     = "ERR_FORBIDDEN"
	CodeInternal      = "ERR_INTERNAL_ERROR"
)

// Validation reports missing or malformed input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message}
}

// MissingField reports a required field that was not provided.
func MissingField(field, message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeMissingField, Message: message, Details: map[string]string{"field": field}}
}

// NotFound reports an absent entity.
func NotFound(code, message string) *Error {
	if code == "" {
		code = CodeNotFound
	}
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// Conflict reports a unique-constraint violation or a refused state change.
func Conflict(code, message string) *Error {
	if code == "" {
		code = CodeConflict
	}
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// Unauthorized reports a missing or invalid identity.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: CodeUnauthorized, Message: message}
}

// Forbidden reports insufficient privilege.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

// Internal wraps an unexpected failure.
func Internal(err error, message string) *Error {
	if message == "" {
		message = "internal server error"
	}
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// From returns err as *Error, wrapping anything unclassified as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err, "")
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
