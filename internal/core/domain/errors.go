// Package domain defines the core domain models for sigcap.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "SC-FILE-4000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Capture file errors (FILE)
// ============================================================================

var (
	// ErrCorruptFile indicates a structurally unreadable header or stream.
	ErrCorruptFile = NewDomainError("SC-FILE-4000", "capture file appears to be corrupt")

	// ErrInvalidSize indicates the legacy layout size bound was violated.
	ErrInvalidSize = NewDomainError("SC-FILE-4001", "invalid capture size")

	// ErrInvalidData indicates an unparsable hex or decimal token at a data line.
	ErrInvalidData = NewDomainError("SC-FILE-4002", "invalid capture data")
)

// ============================================================================
// Capture errors (CAPT)
// ============================================================================

var (
	// ErrInvalidCapture indicates a capture violating its structural invariants.
	ErrInvalidCapture = NewDomainError("SC-CAPT-4000", "invalid capture")

	// ErrNoCapture indicates no capture data is available.
	ErrNoCapture = NewDomainError("SC-CAPT-4040", "no capture data available")
)

// ============================================================================
// Argument errors (ARG)
// ============================================================================

var (
	// ErrInvalidIndex indicates a channel or cursor index out of range.
	// This is a contract violation by the caller, not a data error.
	ErrInvalidIndex = NewDomainError("SC-ARG-1001", "index out of range")
)

// ============================================================================
// Archive errors (ARCH)
// ============================================================================

var (
	// ErrInvalidCaptureID indicates a malformed capture ID.
	ErrInvalidCaptureID = NewDomainError("SC-ARCH-4000", "invalid capture ID format")

	// ErrArchiveNotFound indicates the requested archive entry does not exist.
	ErrArchiveNotFound = NewDomainError("SC-ARCH-4040", "archive entry not found")

	// ErrArchiveCorrupt indicates a stored capture failed its integrity check.
	ErrArchiveCorrupt = NewDomainError("SC-ARCH-5000", "archive entry corrupt")
)

// ============================================================================
// System errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("SC-SYS-5000", "internal server error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("SC-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("SC-SYS-4290", "too many requests")
)
