package authz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubPrincipals struct {
	principals map[string]*Principal
}

func (s *stubPrincipals) LookupPrincipal(_ context.Context, actor string) (*Principal, error) {
	return s.principals[actor], nil
}

type stubResources struct{}

func (stubResources) ExtractResource(r *http.Request, _ Action, _ *Principal) (*Resource, error) {
	// Issuer routes carry the document in the path.
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i, p := range parts {
		if p == "documents" && i+1 < len(parts) {
			return &Resource{UID: parts[i+1], Type: "Document", DocumentID: parts[i+1]}, nil
		}
	}
	return &Resource{UID: "registry", Type: "Registry"}, nil
}

type stubIssuerStates struct {
	states map[string]IssuerState
}

func (s *stubIssuerStates) GetIssuerState(_ context.Context, documentID string) (IssuerState, error) {
	if st, ok := s.states[documentID]; ok {
		return st, nil
	}
	return IssuerStateNone, nil
}

func newTestMiddleware(t *testing.T, states map[string]IssuerState) *Middleware {
	t.Helper()
	return NewMiddleware(
		newTestAuthorizer(t),
		NewActionRegistry(),
		&stubPrincipals{principals: map[string]*Principal{
			"acct_gov":   {UID: "acct_gov", Type: PrincipalAccount, Role: RoleGovernor},
			"acct_owner": {UID: "acct_owner", Type: PrincipalAccount, Role: RoleOwner, Documents: []string{"doc_deed42"}},
		}},
		stubResources{},
		WithIssuerStateLookup(&stubIssuerStates{states: states}),
	)
}

func serve(m *Middleware, method, path, actor string) *httptest.ResponseRecorder {
	handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, path, nil)
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_PreAuthBypass(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, nil)

	if rec := serve(m, "GET", "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health must bypass auth, got %d", rec.Code)
	}
}

func TestMiddleware_MissingActor(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, nil)

	if rec := serve(m, "GET", "/api/v1/providers", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing actor must get 401, got %d", rec.Code)
	}
}

func TestMiddleware_UnknownRoute(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, nil)

	rec := serve(m, "GET", "/api/v1/secrets", "acct_gov")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route must get 404, got %d", rec.Code)
	}
}

func TestMiddleware_GovernorAllowed(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, nil)

	if rec := serve(m, "POST", "/api/v1/providers", "acct_gov"); rec.Code != http.StatusOK {
		t.Errorf("governor provider registration must pass, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMiddleware_UnknownActorIsMember(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, nil)

	// Reads pass for unknown actors, mutations do not.
	if rec := serve(m, "GET", "/api/v1/providers", "acct_anon"); rec.Code != http.StatusOK {
		t.Errorf("unknown actor read must pass, got %d", rec.Code)
	}
	if rec := serve(m, "POST", "/api/v1/providers", "acct_anon"); rec.Code != http.StatusForbidden {
		t.Errorf("unknown actor mutation must get 403, got %d", rec.Code)
	}
}

func TestMiddleware_OwnerRevoke(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, map[string]IssuerState{"doc_deed42": IssuerStateDefaultActive})

	if rec := serve(m, "POST", "/api/v1/documents/doc_deed42/issuer/revoke", "acct_owner"); rec.Code != http.StatusOK {
		t.Errorf("owner revoke must pass, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := serve(m, "POST", "/api/v1/documents/doc_other/issuer/revoke", "acct_owner"); rec.Code != http.StatusForbidden {
		t.Errorf("revoke on a document the actor does not own must get 403, got %d", rec.Code)
	}
}

func TestMiddleware_RevokedStateGate(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, map[string]IssuerState{"doc_deed42": IssuerStateRevoked})

	rec := serve(m, "PUT", "/api/v1/documents/doc_deed42/issuer/default", "acct_gov")
	if rec.Code != http.StatusConflict {
		t.Fatalf("default write against revoked state must get 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response must be JSON: %v", err)
	}
	if body["error"] != ErrCodeRevokedState {
		t.Errorf("error code = %q, want %s", body["error"], ErrCodeRevokedState)
	}
}

func TestMiddleware_DecisionInContext(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, nil)

	var captured *Decision
	handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = DecisionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/api/v1/providers", nil)
	req.Header.Set(ActorHeader, "acct_gov")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured == nil || !captured.Allowed {
		t.Error("allowed decision must be available in handler context")
	}
}
