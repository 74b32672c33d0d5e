package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")

	// Extraction taxonomy. Only ErrUnsupportedFormat and
	// ErrNoTextExtracted surface to callers; the rest are recorded as
	// per-backend attempt metadata.
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrExtractionFailed   = errors.New("extraction failed")
	ErrParseFailed        = errors.New("response parse failed")
	ErrNoTextExtracted    = errors.New("no text extracted")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
