package errors

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrFileTooLarge    = errors.New("file too large")
	ErrTooManyRequests = errors.New("too many requests")
	ErrServer          = errors.New("server error")
	ErrUnknown         = errors.New("unknown error")
)

// ParseError maps an HTTP response status to a sentinel error, nil for
// any 2xx.
func ParseError(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	switch status {
	case http.StatusBadRequest:
		return ErrInvalidRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusRequestEntityTooLarge:
		return ErrFileTooLarge
	case http.StatusTooManyRequests:
		return ErrTooManyRequests
	}
	if status >= 500 {
		return ErrServer
	}
	return ErrUnknown
}
