// Package errors provides domain-specific error types for nlmgr.
//
// This package defines structured errors with error codes, making it easier to handle
// and test different error conditions consistently across the application.
package errors

import "fmt"

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeSocket indicates a netlink socket failure at the OS boundary
	// (creation, bind, send or receive).
	ErrCodeSocket ErrorCode = "SOCKET_ERROR"

	// ErrCodeProtocol indicates a nonzero error code returned by the kernel
	// in an NLMSG_ERROR frame.
	ErrCodeProtocol ErrorCode = "PROTOCOL_ERROR"

	// ErrCodeNoAddress indicates the kernel reported "no matching entry" for
	// a lookup. Callers should treat this as a routine, expected outcome.
	ErrCodeNoAddress ErrorCode = "NO_ADDRESS"

	// ErrCodeValidation indicates a local precondition failure detected
	// before any packet was built or sent.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeUnknownMessage indicates a received frame whose type is outside
	// the recognized rtnetlink enumeration.
	ErrCodeUnknownMessage ErrorCode = "UNKNOWN_MESSAGE"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
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

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err (or any error it wraps) carries the given code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewSocketError creates a new socket error.
func NewSocketError(message string, cause error) *Error {
	return Wrap(ErrCodeSocket, message, cause)
}

// NewProtocolError creates a new kernel protocol error.
func NewProtocolError(message string, cause error) *Error {
	return Wrap(ErrCodeProtocol, message, cause)
}

// NewNoAddressError creates a new "no matching entry" error.
func NewNoAddressError(message string) *Error {
	return New(ErrCodeNoAddress, message)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewUnknownMessageError creates a new unknown message type error.
func NewUnknownMessageError(message string) *Error {
	return New(ErrCodeUnknownMessage, message)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
