package apisdk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheusfi/prometheus/pkg/errx"
)

// Error is one GraphQL error as reported by the API.
type Error struct {
	Message    string     `json:"message"`
	Path       []any      `json:"path,omitempty"`
	Extensions Extensions `json:"extensions"`
}

type Extensions struct {
	Code      errx.Code  `json:"code"`
	Exception *Exception `json:"exception,omitempty"`

	// Message carries internal detail when the server exposes it.
	Message string `json:"message,omitempty"`
}

// Exception holds per-field messages for BAD_USER_INPUT errors.
type Exception struct {
	Errors map[string]string `json:"errors"`
}

func (e *Error) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s (%v)", e.Extensions.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Extensions.Code, e.Message)
}

// Errors is every error of one response.
type Errors []*Error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.As reach each *Error.
func (e Errors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// HTTPError is a non-200 response without a GraphQL error body.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// CodeOf returns the code of the first API error in err, or "" when err did
// not come from the API.
func CodeOf(err error) errx.Code {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Extensions.Code
	}
	return ""
}

// FieldErrors returns the per-field messages of a BAD_USER_INPUT error.
func FieldErrors(err error) map[string]string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Extensions.Exception != nil {
		return apiErr.Extensions.Exception.Errors
	}
	return nil
}
