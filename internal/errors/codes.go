package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for scheduling operations.
type ErrorCode string

const (
	// ErrCodeParseFailure indicates a natural-language phrase could not be resolved.
	ErrCodeParseFailure ErrorCode = "PARSE_FAILURE"
	// ErrCodeNoSlotFound indicates no free slot exists within the search horizon.
	ErrCodeNoSlotFound ErrorCode = "NO_SLOT_FOUND"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeCalendarAuth indicates the calendar backend rejected our credentials.
	ErrCodeCalendarAuth ErrorCode = "CALENDAR_AUTH_FAILED"
	// ErrCodeCalendarNetwork indicates the calendar backend could not be reached.
	ErrCodeCalendarNetwork ErrorCode = "CALENDAR_NETWORK_ERROR"
	// ErrCodeCalendarUnavailable indicates the calendar backend returned a server-side failure.
	ErrCodeCalendarUnavailable ErrorCode = "CALENDAR_UNAVAILABLE"
	// ErrCodeLLMUnavailable indicates the LLM service is not available.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// SchedulingError represents a structured error for scheduling operations.
// Every failure surfaced by the core carries one of the codes above so
// callers can branch on the taxonomy instead of matching message text.
type SchedulingError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchedulingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SchedulingError) Unwrap() error {
	return e.Cause
}

// GetCode returns the error code.
func (e *SchedulingError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// ParseFailure creates a parse failure error.
func ParseFailure(msg string) *SchedulingError {
	return &SchedulingError{Code: ErrCodeParseFailure, Message: msg}
}

// NoSlotFound creates a no-slot-found error.
func NoSlotFound(msg string) *SchedulingError {
	return &SchedulingError{Code: ErrCodeNoSlotFound, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *SchedulingError {
	return &SchedulingError{Code: ErrCodeInvalidArgument, Message: msg}
}

// CalendarAuth creates a calendar authentication error.
func CalendarAuth(msg string, cause error) *SchedulingError {
	return &SchedulingError{Code: ErrCodeCalendarAuth, Message: msg, Cause: cause}
}

// CalendarNetwork creates a calendar network error.
func CalendarNetwork(msg string, cause error) *SchedulingError {
	return &SchedulingError{Code: ErrCodeCalendarNetwork, Message: msg, Cause: cause}
}

// CalendarUnavailable creates a calendar unavailable error.
func CalendarUnavailable(msg string, cause error) *SchedulingError {
	return &SchedulingError{Code: ErrCodeCalendarUnavailable, Message: msg, Cause: cause}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string, cause error) *SchedulingError {
	return &SchedulingError{Code: ErrCodeLLMUnavailable, Message: msg, Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *SchedulingError {
	return &SchedulingError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *SchedulingError {
	return &SchedulingError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if schedErr, ok := err.(*SchedulingError); ok {
		return schedErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a SchedulingError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if schedErr, ok := err.(*SchedulingError); ok {
		return schedErr.Code
	}
	return defaultCode
}

// IsCalendarFailure reports whether the error is any of the calendar
// backend failure kinds. The orchestrator treats them uniformly.
func IsCalendarFailure(err error) bool {
	schedErr, ok := err.(*SchedulingError)
	if !ok {
		return false
	}
	switch schedErr.Code {
	case ErrCodeCalendarAuth, ErrCodeCalendarNetwork, ErrCodeCalendarUnavailable:
		return true
	default:
		return false
	}
}
