package authz

import "testing"

func TestValidateAction(t *testing.T) {
	t.Parallel()

	for _, action := range AllActions() {
		if !ValidateAction(action) {
			t.Errorf("Expected %s to validate", action)
		}
	}
	if ValidateAction("provider:destroy") {
		t.Error("Unknown actions must be rejected")
	}
	if ValidateAction("") {
		t.Error("Empty action must be rejected")
	}
}

func TestRequiresRevocationGate(t *testing.T) {
	t.Parallel()

	if !RequiresRevocationGate(ActionIssuerSetDefault) {
		t.Error("issuer:set_default must be revocation gated")
	}
	for _, action := range []string{ActionIssuerSetOwner, ActionIssuerRestore, ActionProviderRegister} {
		if RequiresRevocationGate(action) {
			t.Errorf("%s must not be revocation gated", action)
		}
	}
}

func TestActionRegistry_Lookup(t *testing.T) {
	t.Parallel()
	r := NewActionRegistry()

	tests := []struct {
		method string
		path   string
		want   Action
	}{
		{"GET", "/health", NoAuthRequired},
		{"GET", "/version", NoAuthRequired},
		{"POST", "/api/v1/providers", Action(ActionProviderRegister)},
		{"GET", "/api/v1/providers", Action(ActionProviderList)},
		{"GET", "/api/v1/providers/prov_abc", Action(ActionProviderRead)},
		{"POST", "/api/v1/providers/prov_abc/deactivate", Action(ActionProviderDeactivate)},
		{"POST", "/api/v1/providers/prov_abc/reactivate", Action(ActionProviderReactivate)},
		{"GET", "/api/v1/lookup/prov_fingerprint", Action(ActionProviderLookup)},
		{"POST", "/api/v1/documents", Action(ActionDocumentRegister)},
		{"GET", "/api/v1/documents/doc_x", Action(ActionDocumentRead)},
		{"GET", "/api/v1/documents/doc_x/issuer", Action(ActionIssuerRead)},
		{"PUT", "/api/v1/documents/doc_x/issuer/default", Action(ActionIssuerSetDefault)},
		{"PUT", "/api/v1/documents/doc_x/issuer/owner", Action(ActionIssuerSetOwner)},
		{"POST", "/api/v1/documents/doc_x/issuer/revoke", Action(ActionIssuerRevoke)},
		{"POST", "/api/v1/documents/doc_x/issuer/restore", Action(ActionIssuerRestore)},
		{"POST", "/api/v1/verify", Action(ActionVerifyCapabilities)},
		{"GET", "/api/v1/audit", Action(ActionAuditExport)},
		{"PUT", "/api/v1/settings", Action(ActionSettingsWrite)},
	}

	for _, tc := range tests {
		got, err := r.Lookup(tc.method, tc.path)
		if err != nil {
			t.Errorf("Lookup(%s %s) failed: %v", tc.method, tc.path, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Lookup(%s %s) = %s, want %s", tc.method, tc.path, got, tc.want)
		}
	}
}

func TestActionRegistry_UnknownRouteFailsSecure(t *testing.T) {
	t.Parallel()
	r := NewActionRegistry()

	_, err := r.Lookup("GET", "/api/v1/unknown")
	if err == nil {
		t.Fatal("Expected error for unknown route")
	}
	if ErrorCode(err) != ErrCodeUnknownRoute {
		t.Errorf("Expected unknown_route code, got %s", ErrorCode(err))
	}
	if r.IsPreAuthEndpoint("GET", "/api/v1/unknown") {
		t.Error("Unknown routes must never be treated as pre-auth")
	}
}

func TestActionRegistry_MalformedPath(t *testing.T) {
	t.Parallel()
	r := NewActionRegistry()

	for _, path := range []string{"", "/api/v1//providers"} {
		if _, err := r.Lookup("GET", path); ErrorCode(err) != ErrCodeMalformedPath {
			t.Errorf("Expected malformed_path for %q, got %v", path, err)
		}
	}
}

func TestActionRegistry_MethodMismatch(t *testing.T) {
	t.Parallel()
	r := NewActionRegistry()

	if _, err := r.Lookup("DELETE", "/api/v1/providers"); err == nil {
		t.Error("Expected error for unmapped method on known path")
	}
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/api/v1/documents/{id}", "/api/v1/documents/doc_x", true},
		{"/api/v1/documents/{id}", "/api/v1/documents", false},
		{"/api/v1/documents/{id}/issuer", "/api/v1/documents/doc_x/issuer", true},
		{"/api/v1/documents/{id}/issuer", "/api/v1/documents/doc_x/other", false},
	}
	for _, tc := range tests {
		if got := matchPattern(tc.pattern, tc.path); got != tc.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}
