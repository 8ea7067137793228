// Package errors provides typed errors for cidriver
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error
	ErrConfig ErrorType = iota
	// ErrValidation indicates an input validation error
	ErrValidation
	// ErrProcess indicates an external command exited non-zero or could not start
	ErrProcess
	// ErrHosting indicates a hosting-service API error (lookup, status post)
	ErrHosting
	// ErrTransition indicates an event fired in a state that does not accept it
	ErrTransition
)

// DriverError is the base error type for all cidriver errors
type DriverError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *DriverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *DriverError) Unwrap() error {
	return e.Cause
}

// New creates a new DriverError
func New(errType ErrorType, message string, cause error) *DriverError {
	return &DriverError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *DriverError) WithContext(key string, value interface{}) *DriverError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var driverErr *DriverError
	if err == nil {
		return false
	}
	if errors.As(err, &driverErr) {
		return driverErr.Type == errType
	}
	return false
}

// IsFatal returns true if the error must abort a run instead of driving
// it to the Fail state.
func IsFatal(err error) bool {
	var driverErr *DriverError
	if !errors.As(err, &driverErr) {
		return false
	}

	switch driverErr.Type {
	case ErrTransition, ErrConfig:
		return true
	default:
		// Process and hosting failures are environmental and become _fail events
		return false
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrValidation:
		return "VALIDATION"
	case ErrProcess:
		return "PROCESS"
	case ErrHosting:
		return "HOSTING"
	case ErrTransition:
		return "TRANSITION"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *DriverError {
	return New(ErrConfig, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *DriverError {
	return New(ErrValidation, message, cause)
}

// ProcessError creates an external process error
func ProcessError(message string, cause error) *DriverError {
	return New(ErrProcess, message, cause)
}

// HostingError creates a hosting-service error
func HostingError(message string, cause error) *DriverError {
	return New(ErrHosting, message, cause)
}

// TransitionError creates an invalid transition error
func TransitionError(message string, cause error) *DriverError {
	return New(ErrTransition, message, cause)
}
