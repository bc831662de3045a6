// Package apperr provides a single typed error used across HTTP handlers so
// every failure a handler can hit funnels through one response-writing code
// path. A solve that completes but leaves tasks unplaced is not one of
// these failures — it is a normal 200 response with status "partial" or
// "failed" in the body (see internal/engine.Result), not an HTTP error.
package apperr

import (
	"errors"
	"net/http"
)

// Code classifies an Error for logging and client-facing handling.
type Code string

const (
	CodeValidation Code = "validation"
	CodeInternal   Code = "internal"
	CodeNotFound   Code = "not_found"
)

// Error is the single error type every handler funnels a failure through.
type Error struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error with no wrapped cause.
func New(code Code, status int, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// Wrap builds an Error around an existing error.
func Wrap(code Code, status int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Status: status, Err: err}
}

// Predeclared sentinels for the handler-facing error taxonomy.
var (
	ErrValidation = New(CodeValidation, http.StatusBadRequest, "request validation failed")
	ErrInternal   = New(CodeInternal, http.StatusInternalServerError, "internal engine error")
	ErrNotFound   = New(CodeNotFound, http.StatusNotFound, "resource not found")
)

// FromError normalizes any error into an *Error, defaulting to
// ErrInternal's code/status when err isn't already one.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(CodeInternal, http.StatusInternalServerError, "internal engine error", err)
}

// Clone copies e with its message overridden, keeping Code/Status/Err.
func (e *Error) Clone(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}
