package authz

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/cedar-policy/cedar-go"
)

//go:embed policies.cedar
var policiesContent []byte

// Config contains options for the Authorizer.
type Config struct {
	// Logger for structured decision logging. If nil, uses slog.Default().
	Logger *slog.Logger

	// PolicyBytes allows loading policies from a custom source (for testing).
	// If nil, embedded policies.cedar is used.
	PolicyBytes []byte
}

// Authorizer wraps the Cedar policy engine.
// All management-plane authorization decisions flow through this component.
type Authorizer struct {
	policies *cedar.PolicySet
	logger   *slog.Logger
}

// NewAuthorizer creates an authorizer with the given configuration.
func NewAuthorizer(cfg Config) (*Authorizer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	policyData := cfg.PolicyBytes
	if policyData == nil {
		policyData = policiesContent
	}

	ps, err := cedar.NewPolicySetFromBytes("policies.cedar", policyData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policies: %w", err)
	}

	return &Authorizer{
		policies: ps,
		logger:   logger,
	}, nil
}

// Authorize evaluates an authorization request against Cedar policies.
// The context parameter is available for future use (cancellation, tracing).
//
// This is the single entry point for all authorization decisions.
func (a *Authorizer) Authorize(ctx context.Context, req Request) Decision {
	start := time.Now()

	entities := buildEntities(req.Principal, req.Resource)
	cedarReq := buildCedarRequest(req)

	decision, diagnostic := cedar.Authorize(a.policies, entities, cedarReq)

	policyID := ""
	if len(diagnostic.Reasons) > 0 {
		policyID = string(diagnostic.Reasons[0].PolicyID)
	}

	allowed := decision == cedar.Allow

	// Revocation gate override: even if Cedar allows, revocation-gated
	// actions must not proceed against a revoked issuer state. This enforces
	// the owner's emergency response independently of policy evaluation.
	if allowed && RequiresRevocationGate(req.Action) {
		if getIssuerState(req.Context) == IssuerStateRevoked {
			allowed = false
		}
	}

	reason, reasonType := a.buildReason(req, allowed, diagnostic)

	result := Decision{
		Allowed:    allowed,
		Reason:     reason,
		ReasonType: reasonType,
		PolicyID:   policyID,
		Duration:   time.Since(start),
	}

	a.logDecision(req, result, diagnostic)

	return result
}

// buildReason determines the human-readable reason and its classification.
func (a *Authorizer) buildReason(req Request, allowed bool, diag cedar.Diagnostic) (string, ReasonType) {
	if allowed {
		return "access permitted", ReasonAllowed
	}

	// Check if denial came from the revocation gate.
	if RequiresRevocationGate(req.Action) && getIssuerState(req.Context) == IssuerStateRevoked {
		return "issuer state revoked - owner restore required", ReasonRevokedState
	}

	if len(diag.Reasons) > 0 {
		return fmt.Sprintf("denied by policy %s", diag.Reasons[0].PolicyID), ReasonPolicyDenied
	}

	// Default deny (no permit matched)
	return "access denied - no matching permit policy", ReasonPolicyDenied
}

// getIssuerState extracts the issuer state from context.
func getIssuerState(ctx map[string]any) IssuerState {
	if state, ok := ctx["issuer_state"].(IssuerState); ok {
		return state
	}
	if stateStr, ok := ctx["issuer_state"].(string); ok {
		return IssuerState(stateStr)
	}
	return IssuerStateNone
}

// logDecision logs the authorization decision with structured fields.
func (a *Authorizer) logDecision(req Request, result Decision, diag cedar.Diagnostic) {
	a.logger.Info("authorization decision",
		"principal", req.Principal.UID,
		"principal_type", req.Principal.Type,
		"role", req.Principal.Role,
		"action", req.Action,
		"resource", req.Resource.UID,
		"resource_type", req.Resource.Type,
		"resource_document", req.Resource.DocumentID,
		"decision", result.Allowed,
		"reason", result.Reason,
		"policy_id", result.PolicyID,
		"duration_us", result.Duration.Microseconds(),
	)

	for _, err := range diag.Errors {
		a.logger.Error("policy evaluation error",
			"policy", err.PolicyID,
			"error", err.Message,
		)
	}

	if result.ReasonType == ReasonRevokedState {
		a.logger.Warn("SECURITY: default-issuer write blocked by revoked state",
			"principal", req.Principal.UID,
			"action", req.Action,
			"resource", req.Resource.UID,
		)
	}
}

// PolicyCount returns the number of loaded policies.
func (a *Authorizer) PolicyCount() int {
	count := 0
	for range a.policies.All() {
		count++
	}
	return count
}
