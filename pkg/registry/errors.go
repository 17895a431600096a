package registry

import (
	"errors"
	"fmt"
	"net/http"
)

// Registry error codes.
const (
	ErrCodeDuplicateID    = "registry.duplicate_id"    // Provider ID already registered
	ErrCodeInvalidAddress = "registry.invalid_address" // No executable code at address
	ErrCodeNotFound       = "registry.not_found"       // Provider ID not registered
	ErrCodeCodeChanged    = "registry.code_changed"    // Live fingerprint differs from captured
)

// httpStatusMap maps error codes to HTTP status codes.
var httpStatusMap = map[string]int{
	ErrCodeDuplicateID:    http.StatusConflict,           // 409
	ErrCodeInvalidAddress: http.StatusBadRequest,         // 400
	ErrCodeNotFound:       http.StatusNotFound,           // 404
	ErrCodeCodeChanged:    http.StatusPreconditionFailed, // 412
}

// Error represents a registry mutation failure with a structured code.
// Lookup never produces these; it degrades to a NONE sentinel instead.
type Error struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Status
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: httpStatusMap[code]}
}

// ErrDuplicateID creates an error for re-registering an existing ID.
func ErrDuplicateID(id string) *Error {
	return newError(ErrCodeDuplicateID, fmt.Sprintf("provider %s is already registered", id))
}

// ErrInvalidAddress creates an error for an address with no executable code.
func ErrInvalidAddress(address string) *Error {
	return newError(ErrCodeInvalidAddress, fmt.Sprintf("no executable code at %s", address))
}

// ErrNotFound creates an error for an unregistered provider ID.
func ErrNotFound(id string) *Error {
	return newError(ErrCodeNotFound, fmt.Sprintf("provider %s not found", id))
}

// ErrCodeChangedSince creates an error for reactivating a provider whose code
// no longer matches the captured fingerprint.
func ErrCodeChangedSince(id string) *Error {
	return newError(ErrCodeCodeChanged, fmt.Sprintf("code at provider %s's address changed since registration", id))
}

// ErrorCode extracts the registry error code from an error.
// Returns empty string if the error is not a registry Error.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
