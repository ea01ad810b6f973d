// Package apperr defines the error kinds surfaced to API callers
package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/validation"
)

type Kind string

const (
	KindNotFound     Kind = "NotFound"
	KindValidation   Kind = "ValidationError"
	KindBadRequest   Kind = "BadRequest"
	KindUnauthorized Kind = "Unauthorized"
	KindForbidden    Kind = "Forbidden"
	KindConflict     Kind = "Conflict"
	KindTransient    Kind = "TransientBackendError"
	KindInternal     Kind = "Internal"
)

// Error is an application error with a kind that decides the response status
type Error struct {
	Kind   Kind
	Fields []validation.FieldError
	msg    string
	cause  error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error
func (e *Error) WithCause(c error) *Error {
	e.cause = c
	return e
}

// Trace returns the message followed by its chain of causes
func (e *Error) Trace() string {
	b := &strings.Builder{}
	b.WriteString(e.msg)
	err := errors.Unwrap(e)
	for err != nil {
		b.WriteString("\nCaused by: ")
		b.WriteString(err.Error())
		err = errors.Unwrap(err)
	}
	return b.String()
}

// StatusCode returns the HTTP status associated with the error kind
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindTransient:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(m string) *Error {
	return &Error{Kind: KindNotFound, msg: m}
}

// Validation carries the complete list of field errors
func Validation(fields []validation.FieldError) *Error {
	return &Error{Kind: KindValidation, msg: "validation error", Fields: fields}
}

func BadRequest(m string) *Error {
	return &Error{Kind: KindBadRequest, msg: m}
}

func Unauthorized(m string) *Error {
	return &Error{Kind: KindUnauthorized, msg: m}
}

func Forbidden(m string) *Error {
	return &Error{Kind: KindForbidden, msg: m}
}

func Conflict(m string) *Error {
	return &Error{Kind: KindConflict, msg: m}
}

func Transient(m string) *Error {
	return &Error{Kind: KindTransient, msg: m}
}

func Internal(m string) *Error {
	return &Error{Kind: KindInternal, msg: m}
}

// KindOf returns the kind of err, or KindInternal for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FromStore classifies an error returned by the storage layer. Absent files
// become NotFound; everything else, exhausted version conflicts included, is
// a backend failure.
func FromStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if gitstore.IsNotFound(err) {
		return NotFound(msg).WithCause(err)
	}
	return Transient(msg).WithCause(err)
}
