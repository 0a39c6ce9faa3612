package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeValidation, Message: "vlan id mismatch"},
			expected: "[VALIDATION_ERROR] vlan id mismatch",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeSocket, "failed to bind netlink socket", errors.New("permission denied")),
			expected: "[SOCKET_ERROR] failed to bind netlink socket: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeProtocol, Message: "test error"}
	err2 := &Error{Code: ErrCodeProtocol, Message: "another error"}
	err3 := &Error{Code: ErrCodeNoAddress, Message: "interface not found"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestHasCode(t *testing.T) {
	inner := NewNoAddressError("no such interface")
	outer := fmt.Errorf("lookup failed: %w", inner)

	if !HasCode(outer, ErrCodeNoAddress) {
		t.Errorf("Expected wrapped NO_ADDRESS to be detected")
	}

	if HasCode(outer, ErrCodeProtocol) {
		t.Errorf("Did not expect PROTOCOL_ERROR in chain")
	}

	if HasCode(nil, ErrCodeNoAddress) {
		t.Errorf("nil error should not match any code")
	}
}

func TestNewSocketError(t *testing.T) {
	cause := errors.New("operation not permitted")
	err := NewSocketError("failed to create socket", cause)

	if err.Code != ErrCodeSocket {
		t.Errorf("Expected code %v, got %v", ErrCodeSocket, err.Code)
	}

	if err.Message != "failed to create socket" {
		t.Errorf("Expected message 'failed to create socket', got %v", err.Message)
	}

	if err.Cause != cause {
		t.Errorf("Expected cause to be preserved")
	}
}
