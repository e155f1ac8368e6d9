package services

import (
	"errors"
	"net/http"
)

// Error is a service-layer error carrying the HTTP status the route layer
// should respond with. Controllers pass the message through unchanged.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError reports malformed or missing input (400)
func NewValidationError(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// NewAuthError reports a missing or invalid credential (401)
func NewAuthError(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// NewForbiddenError reports an authenticated user with insufficient role (403)
func NewForbiddenError(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

// NewNotFoundError reports an absent resource (404)
func NewNotFoundError(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// NewConflictError reports a uniqueness or state-conflict violation. It maps
// to 400 so clients see the same status the validation path produces.
func NewConflictError(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// NewUnsupportedMediaError reports an upload with a disallowed MIME type (415)
func NewUnsupportedMediaError(msg string) *Error {
	return &Error{Status: http.StatusUnsupportedMediaType, Message: msg}
}

// NewInternalError wraps an unexpected failure (500)
func NewInternalError(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

// StatusOf extracts the HTTP status from a service error, defaulting to 500
func StatusOf(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Status
	}
	return http.StatusInternalServerError
}
