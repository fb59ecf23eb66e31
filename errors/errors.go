package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind groups errors by how the HTTP layer reports them.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindTransient    Kind = "transient"
	KindInternal     Kind = "internal"
)

// Error is the error type returned by services. Status is the HTTP status
// the server responds with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Kind    Kind   `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
	cause   error
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrInvalidCredentials  = &Error{Message: "invalid credentials", Status: http.StatusUnauthorized, Kind: KindUnauthorized}
	ErrDuplicateIdentity   = &Error{Message: "phone or email already registered", Status: http.StatusConflict, Kind: KindConflict}
)

// New creates an Error whose kind is derived from status.
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
		Kind:    kindForStatus(status),
	}
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on kind so callers can test errors.Is(err, errs.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrTransient  = &Error{Kind: KindTransient}
)

func NewValidationError(field, message string) *Error {
	return &Error{
		Message: message,
		Status:  http.StatusBadRequest,
		Kind:    KindValidation,
		Field:   field,
	}
}

func NewNotFoundError(resource string, id interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf("%s %v not found", resource, id),
		Status:  http.StatusNotFound,
		Kind:    KindNotFound,
		Field:   resource,
	}
}

// NewTransientError reports an unavailable collaborator. The caller may retry.
func NewTransientError(op string, err error) *Error {
	return &Error{
		Message: fmt.Sprintf("%s temporarily unavailable", op),
		Status:  http.StatusServiceUnavailable,
		Kind:    KindTransient,
		cause:   err,
	}
}

// Internal wraps an unexpected failure, hiding its text from clients.
func Internal(err error) *Error {
	return &Error{
		Message: ErrInternalServerError.Message,
		Status:  http.StatusInternalServerError,
		Kind:    KindInternal,
		cause:   err,
	}
}

// ValidationErrors joins several field messages into a single validation error.
func ValidationErrors(errs []error) *Error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, strings.TrimSpace(strings.TrimSuffix(err.Error(), "; ")))
	}
	return &Error{
		Message: strings.Join(msgs, "; "),
		Status:  http.StatusBadRequest,
		Kind:    KindValidation,
	}
}

// From converts any error into an *Error. Unknown errors become internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// HTTPStatus is Status, or the status implied by Kind when Status is unset.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTransient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindTransient
	default:
		return KindInternal
	}
}
