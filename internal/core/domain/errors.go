package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
//
// Codes have the form RG-<FAMILY>-<NNNN>; the last four digits start with
// the HTTP status the error maps to.
type DomainError struct {
	Code    string // Error code (e.g., "RG-AUTH-4010")
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

// Is matches any DomainError with the same code.
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
		return code == "" || de.Code == code
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

// AsDomainError returns the first DomainError in err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

// Path errors.
var (
	// ErrMalformedPath indicates the API version marker is missing or is
	// the last path segment.
	ErrMalformedPath = NewDomainError("RG-PATH-4090", "invalid path received")
)

// Routing errors.
var (
	// ErrResourceNotFound indicates no route mapping exists for the resource.
	ErrResourceNotFound = NewDomainError("RG-ROUTE-4040", "resource not found")

	// ErrEndpointNotFound indicates the resource exists but has no such endpoint.
	ErrEndpointNotFound = NewDomainError("RG-ROUTE-4041", "endpoint not found")

	// ErrMethodNotAllowed indicates the endpoint exists for another method.
	ErrMethodNotAllowed = NewDomainError("RG-ROUTE-4050", "method not allowed")

	// ErrFactoryMissing indicates a mapped resource has no registered constructor.
	ErrFactoryMissing = NewDomainError("RG-ROUTE-5000", "resource is not registered")
)

// Authentication and authorization errors.
//
// ErrUnauthorized covers both a missing and an invalid token. Callers must
// not be able to tell the two apart.
var (
	// ErrUnauthorized indicates a missing, invalid or expired token.
	ErrUnauthorized = NewDomainError("RG-AUTH-4010", "authorization required to access this resource")

	// ErrPermissionDenied indicates the user's role does not allow the method.
	ErrPermissionDenied = NewDomainError("RG-AUTH-4030", "permission denied")

	// ErrAuthFailure is the single outcome of every failed login.
	ErrAuthFailure = NewDomainError("RG-AUTH-4031", "ERROR: Authentication error")

	// ErrTokenNotFound indicates no live token matched. It never leaves
	// the login resource; the gate turns it into ErrUnauthorized.
	ErrTokenNotFound = NewDomainError("RG-AUTH-4040", "token not found")

	// ErrTokenConflict indicates the token value is already stored.
	ErrTokenConflict = NewDomainError("RG-AUTH-4090", "token already issued")
)

// Resource errors.
var (
	// ErrRecordNotFound indicates the requested record does not exist.
	ErrRecordNotFound = NewDomainError("RG-RES-4040", "record not found")

	// ErrCustomerExists indicates a customer with the same name or TIN exists.
	ErrCustomerExists = NewDomainError("RG-RES-4090", "customer already exists")

	// ErrNotModified indicates an update matched no record.
	ErrNotModified = NewDomainError("RG-RES-4091", "record not modified")
)

// System errors.
var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("RG-SYS-5000", "internal server error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("RG-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("RG-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("RG-SYS-4290", "too many requests")
)

// Argument errors.
var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("RG-ARG-4001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("RG-ARG-4002", "missing required argument")
)
