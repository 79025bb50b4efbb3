package vybiumposeidon

import "fmt"

// ErrorCode represents a vybium-poseidon error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration: r >= t, odd
	// full rounds, or tables that do not match the declared shape
	ErrInvalidConfig

	// ErrArithmeticPrecondition represents a modulus that cannot define a prime field
	ErrArithmeticPrecondition

	// ErrParameterGeneration represents a failing parameter source
	ErrParameterGeneration

	// ErrCanceled represents a batch interrupted by its context
	ErrCanceled
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidConfig:
		return "invalid config"
	case ErrArithmeticPrecondition:
		return "arithmetic precondition"
	case ErrParameterGeneration:
		return "parameter generation"
	case ErrCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error represents a vybium-poseidon error
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-poseidon error [%s]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-poseidon error [%s]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrConfiguration = &Error{Code: ErrInvalidConfig}
	ErrPrecondition  = &Error{Code: ErrArithmeticPrecondition}
	ErrGeneration    = &Error{Code: ErrParameterGeneration}
	ErrInterrupted   = &Error{Code: ErrCanceled}
)
