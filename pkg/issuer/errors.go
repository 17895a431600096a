package issuer

import (
	"errors"
	"fmt"
	"net/http"
)

// Issuer authority error codes.
const (
	ErrCodeAlreadyRevoked  = "issuer.already_revoked"  // Revocation currently active
	ErrCodeNotRevoked      = "issuer.not_revoked"      // Restore requires an active revocation
	ErrCodeNotOwner        = "issuer.not_owner"        // Caller is neither owner nor executor
	ErrCodeUnknownDocument = "issuer.unknown_document" // Document has no ownership record
	ErrCodeNoActiveIssuer  = "issuer.no_active_issuer" // Nothing to revoke
)

// httpStatusMap maps error codes to HTTP status codes.
var httpStatusMap = map[string]int{
	ErrCodeAlreadyRevoked:  http.StatusConflict,  // 409
	ErrCodeNotRevoked:      http.StatusConflict,  // 409
	ErrCodeNotOwner:        http.StatusForbidden, // 403
	ErrCodeUnknownDocument: http.StatusNotFound,  // 404
	ErrCodeNoActiveIssuer:  http.StatusConflict,  // 409
}

// Error represents an issuer-authority mutation failure with a structured
// code. Mutation failures abort the whole transition; nothing partially
// applies.
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

// ErrAlreadyRevoked creates an error for operations blocked by an active revocation.
func ErrAlreadyRevoked(documentID string) *Error {
	return newError(ErrCodeAlreadyRevoked, fmt.Sprintf("issuer for document %s is revoked", documentID))
}

// ErrNotRevoked creates an error for restoring a document that is not revoked.
func ErrNotRevoked(documentID string) *Error {
	return newError(ErrCodeNotRevoked, fmt.Sprintf("issuer for document %s is not revoked", documentID))
}

// ErrNotOwner creates an error for a caller without owner or executor rights.
func ErrNotOwner(actor, documentID string) *Error {
	return newError(ErrCodeNotOwner, fmt.Sprintf("%s is not owner or executor of document %s", actor, documentID))
}

// ErrUnknownDocument creates an error for a document with no ownership record.
func ErrUnknownDocument(documentID string) *Error {
	return newError(ErrCodeUnknownDocument, fmt.Sprintf("document %s not found", documentID))
}

// ErrNoActiveIssuer creates an error for revoking a document with no issuer.
func ErrNoActiveIssuer(documentID string) *Error {
	return newError(ErrCodeNoActiveIssuer, fmt.Sprintf("document %s has no active issuer", documentID))
}

// ErrorCode extracts the issuer error code from an error.
// Returns empty string if the error is not an issuer Error.
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
