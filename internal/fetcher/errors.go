package fetcher

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error that occurred while resolving a UF value
type ErrorType string

const (
	// ErrorTypeInvalidDate indicates the requested date is malformed or out of range
	ErrorTypeInvalidDate ErrorType = "invalid_date"
	// ErrorTypeNotFound indicates the source page loaded but holds no value for the date
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeSource indicates the source could not be reached or answered with a non-OK status
	ErrorTypeSource ErrorType = "source"
	// ErrorTypeUnknown is reported by TypeOf for errors that are not a *FetchError
	ErrorTypeUnknown ErrorType = "unknown"
)

// FetchError represents a structured error from a UF lookup.
// Type is the discriminant callers switch on.
type FetchError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s error: %s", e.Type, e.Message)
	}
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewInvalidDateError creates an invalid date error
func NewInvalidDateError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeInvalidDate,
		Message: message,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewNetworkError creates a source error for a transport-level failure
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeSource,
		Message: "error fetching SII UF page",
		Cause:   cause,
	}
}

// NewTimeoutError creates a source error for a request that timed out
func NewTimeoutError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeSource,
		Message: "request to SII timed out",
		Cause:   cause,
	}
}

// NewStatusError creates a source error for a non-OK HTTP status
func NewStatusError(statusCode int) *FetchError {
	return &FetchError{
		Type:       ErrorTypeSource,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("SII responded with status %d", statusCode),
	}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Type
	}
	return ErrorTypeUnknown
}
