package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors. The codes form the error taxonomy: transport errors are
// retryable and scoped to one category fetch, validation errors are per-entry
// and never abort a batch, storage errors roll back one category's
// transaction, config errors are fatal at startup only.
var (
	// Transport errors
	ErrTransport      = &Error{Code: "TRANSPORT_FAILED", Message: "provider request failed"}
	ErrProviderNoData = &Error{Code: "PROVIDER_NO_DATA", Message: "provider returned no entries"}

	// Validation errors
	ErrValidation = &Error{Code: "VALIDATION_FAILED", Message: "entry failed validation"}

	// Storage errors
	ErrStorage        = &Error{Code: "STORAGE_FAILED", Message: "storage operation failed"}
	ErrLeagueNotFound = &Error{Code: "LEAGUE_NOT_FOUND", Message: "league not found"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
