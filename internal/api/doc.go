// Package api implements the HTTP API server for the trust platform
// verification plane (trustd).
//
// The API serves three client types:
//
//   - Relying parties: Capability verification via POST /api/v1/verify
//   - Governors (trustctl): Provider registry and default-issuer management
//   - Document owners: Owner-tier issuer control and emergency revocation
//
// # Authorization
//
// Management endpoints pass through Cedar policy middleware (pkg/authz).
// The actor address travels in the X-Actor header; roles and document
// ownership are resolved from the store.
//
// # Error Handling
//
// Mutation failures return coded errors with appropriate HTTP status codes.
// Verification queries never fail with an error status for untrusted input;
// they return verified=false with empty capabilities.
package api
