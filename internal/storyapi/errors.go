package storyapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuth       = errors.New("authentication failed")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("invalid request")
	ErrNotFound   = errors.New("not found")
	ErrNotOwner   = errors.New("not owner")
	ErrNetwork    = errors.New("network error")
)

// APIError is a non-2xx response from the service. It unwraps to the sentinel
// matching its status so callers can use errors.Is.
type APIError struct {
	Status  int
	Title   string
	Message string
	Path    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, msg)
}

func (e *APIError) Unwrap() error {
	return kindForStatus(e.Status)
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrAuth
	case http.StatusForbidden:
		return ErrNotOwner
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}
