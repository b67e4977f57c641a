package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("update rejected by server")
)

// RemoteError carries the error payload returned by the host.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
	// Body is the raw response, kept for logging.
	Body string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote error %d", e.StatusCode)
}

// ValidationError lists the fields a validate-update call refused.
type ValidationError struct {
	Results []UpdateResult
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Results))
	for _, r := range e.Results {
		if r.HasException {
			parts = append(parts, r.FieldName+": "+r.ErrorMessage)
		}
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
