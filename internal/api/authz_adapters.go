package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/authz"
)

// StorePrincipals resolves actor addresses to authorization principals.
// Governors come from static server configuration; ownership comes from the
// document registry.
type StorePrincipals struct {
	server *Server
}

// Principals returns the server's principal lookup for the authz middleware.
func (s *Server) Principals() *StorePrincipals {
	return &StorePrincipals{server: s}
}

// LookupPrincipal implements authz.PrincipalLookup.
func (p *StorePrincipals) LookupPrincipal(ctx context.Context, actor string) (*authz.Principal, error) {
	if p.server.governors[actor] {
		return &authz.Principal{
			UID:  actor,
			Type: authz.PrincipalAccount,
			Role: authz.RoleGovernor,
		}, nil
	}

	docs, err := p.server.store.ListDocumentsByActor(actor)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		// Unknown actors fall back to member in the middleware.
		return nil, nil
	}
	return &authz.Principal{
		UID:       actor,
		Type:      authz.PrincipalAccount,
		Role:      authz.RoleOwner,
		Documents: docs,
	}, nil
}

// RouteResources extracts authorization resources from request paths.
type RouteResources struct{}

// Resources returns the server's resource extractor for the authz middleware.
func (s *Server) Resources() RouteResources {
	return RouteResources{}
}

// ExtractResource implements authz.ResourceExtractor.
func (RouteResources) ExtractResource(r *http.Request, action authz.Action, _ *authz.Principal) (*authz.Resource, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i, p := range parts {
		switch p {
		case "documents":
			if i+1 < len(parts) {
				id := parts[i+1]
				return &authz.Resource{UID: id, Type: "Document", DocumentID: id}, nil
			}
			return &authz.Resource{UID: "documents", Type: "Registry"}, nil
		case "providers", "lookup":
			if i+1 < len(parts) {
				return &authz.Resource{UID: parts[i+1], Type: "Provider"}, nil
			}
			return &authz.Resource{UID: "providers", Type: "Registry"}, nil
		case "audit":
			return &authz.Resource{UID: "audit", Type: "Audit"}, nil
		case "settings":
			return &authz.Resource{UID: "settings", Type: "Settings"}, nil
		}
	}
	return &authz.Resource{UID: "registry", Type: "Registry"}, nil
}

// IssuerStates exposes issuer authority states to the authz middleware.
type IssuerStates struct {
	server *Server
}

// IssuerStateLookup returns the server's issuer state lookup for the
// revocation gate.
func (s *Server) IssuerStateLookup() *IssuerStates {
	return &IssuerStates{server: s}
}

// GetIssuerState implements authz.IssuerStateLookup.
func (l *IssuerStates) GetIssuerState(ctx context.Context, documentID string) (authz.IssuerState, error) {
	state, _ := l.server.authority.StateOf(documentID)
	return authz.IssuerState(state), nil
}

// AuthorizedHandler builds the full middleware-wrapped HTTP handler.
func (s *Server) AuthorizedHandler(authorizer *authz.Authorizer) http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	mw := authz.NewMiddleware(
		authorizer,
		authz.NewActionRegistry(),
		s.Principals(),
		s.Resources(),
		authz.WithLogger(s.logger),
		authz.WithIssuerStateLookup(s.IssuerStateLookup()),
	)
	return mw.Wrap(mux)
}
