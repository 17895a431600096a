package authz

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

// newTestAuthorizer creates an authorizer with embedded policies and a
// discard logger.
func newTestAuthorizer(t *testing.T) *Authorizer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	a, err := NewAuthorizer(Config{Logger: logger})
	if err != nil {
		t.Fatalf("NewAuthorizer failed: %v", err)
	}
	return a
}

func governorRequest(action string, resource Resource) Request {
	return Request{
		Principal: Principal{UID: "acct_gov", Type: PrincipalAccount, Role: RoleGovernor},
		Action:    action,
		Resource:  resource,
		Context:   map[string]any{},
	}
}

func TestAuthorizer_GovernorRegistersProvider(t *testing.T) {
	t.Parallel()
	t.Log("Testing: governor registering a provider")

	authz := newTestAuthorizer(t)
	decision := authz.Authorize(context.Background(), governorRequest(ActionProviderRegister, Resource{
		UID:  "prov_abc",
		Type: "Provider",
	}))

	t.Logf("Decision: allowed=%v, reason=%q, policy=%s", decision.Allowed, decision.Reason, decision.PolicyID)
	if !decision.Allowed {
		t.Errorf("Expected permit for governor provider registration, got deny: %s", decision.Reason)
	}
}

func TestAuthorizer_MemberCannotRegisterProvider(t *testing.T) {
	t.Parallel()
	t.Log("Testing: member denied provider registration")

	authz := newTestAuthorizer(t)
	decision := authz.Authorize(context.Background(), Request{
		Principal: Principal{UID: "acct_mallory", Type: PrincipalAccount, Role: RoleMember},
		Action:    ActionProviderRegister,
		Resource:  Resource{UID: "prov_abc", Type: "Provider"},
		Context:   map[string]any{},
	})

	t.Logf("Decision: allowed=%v, reason=%q", decision.Allowed, decision.Reason)
	if decision.Allowed {
		t.Error("Expected deny for member provider registration")
	}
	if decision.ReasonType != ReasonPolicyDenied {
		t.Errorf("Expected policy_denied reason type, got %s", decision.ReasonType)
	}
}

func TestAuthorizer_MemberReadsOpenSurfaces(t *testing.T) {
	t.Parallel()
	t.Log("Testing: member may use read and verification surfaces")

	authz := newTestAuthorizer(t)
	member := Principal{UID: "acct_reader", Type: PrincipalAccount, Role: RoleMember}

	for _, action := range []string{
		ActionProviderLookup, ActionProviderRead, ActionProviderList,
		ActionDocumentRead, ActionIssuerRead, ActionVerifyCapabilities,
	} {
		decision := authz.Authorize(context.Background(), Request{
			Principal: member,
			Action:    action,
			Resource:  Resource{UID: "doc_x", Type: "Document", DocumentID: "doc_x"},
			Context:   map[string]any{},
		})
		if !decision.Allowed {
			t.Errorf("Expected permit for member %s, got deny: %s", action, decision.Reason)
		}
	}
}

func TestAuthorizer_OwnerControlsOwnerTier(t *testing.T) {
	t.Parallel()
	t.Log("Testing: document owner may set owner issuer, revoke, and restore")

	authz := newTestAuthorizer(t)
	for _, action := range []string{ActionIssuerSetOwner, ActionIssuerRevoke, ActionIssuerRestore} {
		decision := authz.Authorize(context.Background(), Request{
			Principal: Principal{UID: "acct_owner", Type: PrincipalAccount, Role: RoleOwner, Documents: []string{"doc_deed42"}},
			Action:    action,
			Resource:  Resource{UID: "doc_deed42", Type: "Document", DocumentID: "doc_deed42"},
			Context:   map[string]any{"principal_is_owner": true},
		})
		if !decision.Allowed {
			t.Errorf("Expected permit for owner %s, got deny: %s", action, decision.Reason)
		}
	}
}

func TestAuthorizer_NonOwnerCannotControlOwnerTier(t *testing.T) {
	t.Parallel()
	t.Log("Testing: non-owner denied owner-tier issuer actions")

	authz := newTestAuthorizer(t)
	decision := authz.Authorize(context.Background(), Request{
		Principal: Principal{UID: "acct_stranger", Type: PrincipalAccount, Role: RoleOwner, Documents: []string{"doc_other"}},
		Action:    ActionIssuerRevoke,
		Resource:  Resource{UID: "doc_deed42", Type: "Document", DocumentID: "doc_deed42"},
		Context:   map[string]any{"principal_is_owner": false},
	})

	t.Logf("Decision: allowed=%v, reason=%q", decision.Allowed, decision.Reason)
	if decision.Allowed {
		t.Error("Expected deny for non-owner issuer revoke")
	}
}

func TestAuthorizer_RevokedStateBlocksGovernorDefaultWrite(t *testing.T) {
	t.Parallel()
	t.Log("Testing: governor cannot set a default issuer while state is revoked")

	authz := newTestAuthorizer(t)
	req := governorRequest(ActionIssuerSetDefault, Resource{
		UID:        "doc_deed42",
		Type:       "Document",
		DocumentID: "doc_deed42",
	})
	req.Context["issuer_state"] = string(IssuerStateRevoked)

	decision := authz.Authorize(context.Background(), req)

	t.Logf("Decision: allowed=%v, reason=%q, type=%s", decision.Allowed, decision.Reason, decision.ReasonType)
	if decision.Allowed {
		t.Error("Expected deny for default-issuer write against revoked state")
	}
	if decision.ReasonType != ReasonRevokedState {
		t.Errorf("Expected revoked_state reason type, got %s", decision.ReasonType)
	}
}

func TestAuthorizer_GovernorDefaultWriteSucceedsWhenNotRevoked(t *testing.T) {
	t.Parallel()

	authz := newTestAuthorizer(t)
	for _, state := range []IssuerState{IssuerStateNone, IssuerStateDefaultActive, IssuerStateOwnerActive} {
		req := governorRequest(ActionIssuerSetDefault, Resource{
			UID:        "doc_deed42",
			Type:       "Document",
			DocumentID: "doc_deed42",
		})
		req.Context["issuer_state"] = string(state)

		decision := authz.Authorize(context.Background(), req)
		if !decision.Allowed {
			t.Errorf("Expected permit for governor default write in state %s, got deny: %s", state, decision.Reason)
		}
	}
}

func TestAuthorizer_DefaultDeny(t *testing.T) {
	t.Parallel()
	t.Log("Testing: unmatched requests are denied by default")

	authz := newTestAuthorizer(t)
	decision := authz.Authorize(context.Background(), Request{
		Principal: Principal{UID: "acct_nobody", Type: PrincipalAccount, Role: RoleMember},
		Action:    ActionSettingsWrite,
		Resource:  Resource{UID: "settings", Type: "Settings"},
		Context:   map[string]any{},
	})

	if decision.Allowed {
		t.Error("Expected default deny for member settings write")
	}
}

func TestAuthorizer_InvalidPolicyBytes(t *testing.T) {
	t.Parallel()

	_, err := NewAuthorizer(Config{PolicyBytes: []byte("permit (")})
	if err == nil {
		t.Error("Expected error for malformed policy source")
	}
}

func TestAuthorizer_PolicyCount(t *testing.T) {
	t.Parallel()

	authz := newTestAuthorizer(t)
	if n := authz.PolicyCount(); n < 4 {
		t.Errorf("Expected at least 4 embedded policies, got %d", n)
	}
}
