// Package authz provides Cedar-based authorization for the trust platform.
//
// This package is the single source of truth for management-plane
// authorization decisions. No authorization decision should be made outside
// the Authorizer.Authorize method. Capability verification itself is not
// handled here; providers answer capability questions, this package answers
// who may operate the registry and issuer controls.
//
// # Role Model
//
// Two-key model with a read tier:
//   - member: Read access and capability verification only
//   - owner: Controls the owner issuer tier for documents they own
//   - governor: Platform operator; manages providers, defaults, and settings
//
// # Revocation Gate
//
// Owner-tier emergency revocation outranks the governor. While a document's
// issuer state is revoked, issuer:set_default is denied for all principals,
// governor included. Only an owner restore clears the state.
//
// # Usage
//
//	authorizer, err := authz.NewAuthorizer(authz.Config{Logger: myLogger})
//
//	decision := authorizer.Authorize(ctx, authz.Request{
//		Principal: authz.Principal{
//			UID:  "acct_alice",
//			Type: authz.PrincipalAccount,
//			Role: authz.RoleOwner,
//		},
//		Action: authz.ActionIssuerSetOwner,
//		Resource: authz.Resource{
//			UID:  "doc_deed42",
//			Type: "Document",
//		},
//		Context: map[string]any{
//			"principal_is_owner": true,
//			"issuer_state":       "owner_active",
//		},
//	})
//
//	if !decision.Allowed {
//		return authz.ErrForbidden(decision.Reason)
//	}
//
// # Thread Safety
//
// Authorizer is safe for concurrent use. The underlying Cedar PolicySet
// is immutable after construction.
//
// # Decision Logging
//
// Every authorization decision is logged with structured fields including
// principal, action, resource, decision, duration, and policy ID.
// Configure logging via Config.Logger.
package authz
