package authz

import "time"

// IssuerState mirrors the issuer authority states for policy evaluation.
type IssuerState string

const (
	IssuerStateNone          IssuerState = "no_issuer"
	IssuerStateDefaultActive IssuerState = "default_active"
	IssuerStateOwnerActive   IssuerState = "owner_active"
	IssuerStateRevoked       IssuerState = "revoked"
)

// ReasonType classifies authorization decision reasons for HTTP status mapping.
// Middleware uses this type (not free-form strings) to determine response codes.
type ReasonType string

const (
	ReasonAllowed      ReasonType = "allowed"
	ReasonRevokedState ReasonType = "revoked_state"
	ReasonPolicyDenied ReasonType = "policy_denied"
)

// Role represents a principal's role in the system.
type Role string

const (
	RoleMember   Role = "member"
	RoleOwner    Role = "owner"
	RoleGovernor Role = "governor"
)

// PrincipalType distinguishes between account and service principals.
type PrincipalType string

const (
	PrincipalAccount PrincipalType = "Account"
	PrincipalService PrincipalType = "Service"
)

// Principal represents the entity making the request.
type Principal struct {
	UID       string        // Unique identifier (e.g., "acct_abc12345")
	Type      PrincipalType // Account or Service
	Role      Role          // member, owner, governor
	Documents []string      // Document IDs this principal owns or executes
}

// Resource represents the entity being accessed.
type Resource struct {
	UID        string // Unique identifier (e.g., "doc_deed42", "prov_abc")
	Type       string // Document, Provider, Registry, Settings, Audit
	DocumentID string // Owning document for issuer-scoped resources (empty for global)
}

// Request contains all information needed for an authorization decision.
type Request struct {
	Principal Principal
	Action    string         // Fine-grained action (e.g., "provider:register")
	Resource  Resource       // Target resource
	Context   map[string]any // Additional context: issuer_state, principal_is_owner, etc.
}

// Decision contains the result of an authorization check.
type Decision struct {
	Allowed    bool          // True if access is permitted
	Reason     string        // Human-readable explanation (for logging/audit)
	ReasonType ReasonType    // Classification for HTTP status mapping
	PolicyID   string        // ID of the policy that determined the outcome (for audit)
	Duration   time.Duration // How long the authorization check took
}
