// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Filesystem errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Classification errors.
	ErrNoFiles        = errors.New("no files to classify")
	ErrServiceFailure = errors.New("classification service failed")

	// Storage errors.
	ErrStorage = errors.New("storage failure")
)

// ResponseFormatError indicates the remote classifier returned text
// that does not contain a parseable JSON object. Raw carries the
// unmodified response for diagnostics; no repair is attempted.
type ResponseFormatError struct {
	Err error
	Raw string
}

func (e *ResponseFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed classifier response: %v", e.Err)
	}
	return "malformed classifier response"
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
