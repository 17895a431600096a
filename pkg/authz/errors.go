package authz

import (
	"errors"
	"fmt"
	"net/http"
)

// Authorization error codes.
const (
	ErrCodeForbidden     = "authz.forbidden"      // Policy denied access
	ErrCodeRevokedState  = "authz.revoked_state"  // Issuer state revoked; action blocked
	ErrCodeUnknownAction = "authz.unknown_action" // Action not in registry
	ErrCodeUnknownRoute  = "authz.unknown_route"  // Route not in action registry
	ErrCodeMalformedPath = "authz.malformed_path" // Request path failed validation
	ErrCodePolicyError   = "authz.policy_error"   // Policy evaluation error
)

// httpStatusMap maps error codes to HTTP status codes.
var httpStatusMap = map[string]int{
	ErrCodeForbidden:     http.StatusForbidden,           // 403
	ErrCodeRevokedState:  http.StatusConflict,            // 409
	ErrCodeUnknownAction: http.StatusBadRequest,          // 400
	ErrCodeUnknownRoute:  http.StatusNotFound,            // 404
	ErrCodeMalformedPath: http.StatusBadRequest,          // 400
	ErrCodePolicyError:   http.StatusInternalServerError, // 500
}

// Error represents an authorization error with a structured code.
type Error struct {
	Code    string // One of the ErrCode* constants
	Message string // Human-readable error description
	Status  int    // HTTP status code
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Status
}

// newError creates an Error with appropriate HTTP status.
func newError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  httpStatusMap[code],
	}
}

// ErrForbidden creates an error for policy-denied access.
func ErrForbidden(reason string) *Error {
	return newError(ErrCodeForbidden, reason)
}

// ErrRevokedState creates an error for actions blocked by a revoked issuer state.
func ErrRevokedState(documentID string) *Error {
	return newError(ErrCodeRevokedState, fmt.Sprintf("document %s issuer state is revoked; owner restore required", documentID))
}

// ErrUnknownAction creates an error for unknown action (fail-closed).
func ErrUnknownAction(action string) *Error {
	return newError(ErrCodeUnknownAction, fmt.Sprintf("unknown action %q", action))
}

// ErrPolicyError creates an error for policy evaluation failures.
func ErrPolicyError(detail string) *Error {
	return newError(ErrCodePolicyError, fmt.Sprintf("policy evaluation error: %s", detail))
}

// ErrUnknownRoute creates an error for routes not in the action registry.
// SECURITY: Unknown routes return error (fail-secure), not silent pass.
func ErrUnknownRoute(method, path string) *Error {
	return newError(ErrCodeUnknownRoute, fmt.Sprintf("unknown route %s %s", method, path))
}

// ErrMalformedPath creates an error for request paths that fail validation.
func ErrMalformedPath(path, reason string) *Error {
	return newError(ErrCodeMalformedPath, fmt.Sprintf("malformed path %q: %s", path, reason))
}

// ErrorCode extracts the authz error code from an error.
// Returns empty string if the error is not an authz Error.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var authzErr *Error
	if errors.As(err, &authzErr) {
		return authzErr.Code
	}
	return ""
}

// IsAuthzError returns true if the error is or wraps an authz Error.
func IsAuthzError(err error) bool {
	var authzErr *Error
	return errors.As(err, &authzErr)
}
