package errors

import (
	"net/http"
	"testing"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusOK, nil},
		{http.StatusCreated, nil},
		{http.StatusNoContent, nil},
		{http.StatusBadRequest, ErrInvalidRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusRequestEntityTooLarge, ErrFileTooLarge},
		{http.StatusTooManyRequests, ErrTooManyRequests},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
		{http.StatusTeapot, ErrUnknown},
	}

	for _, tt := range tests {
		if got := ParseError(tt.status); got != tt.want {
			t.Errorf("ParseError(%d) = %v; want %v", tt.status, got, tt.want)
		}
	}
}
