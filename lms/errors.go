package lms

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds returned by the backend client. Use errors.Is to classify.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrTransient    = errors.New("backend unavailable")

	// ErrInvalidResponse is a 2xx whose body does not decode. Retrying will
	// not help.
	ErrInvalidResponse = errors.New("invalid response body")
)

// APIError describes a failed backend call.
type APIError struct {
	Status  int // 0 when the request never got a response
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap classifies the error by status; a missing response is transient.
func (e *APIError) Unwrap() error {
	if e.Status == 0 {
		return ErrTransient
	}
	return kindForStatus(e.Status)
}

// kindForStatus maps an HTTP status to an error kind. Unknown 4xx are treated
// as validation errors, everything else as transient.
func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 400 && status < 500:
		return ErrValidation
	}
	return ErrTransient
}
