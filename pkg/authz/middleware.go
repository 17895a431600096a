package authz

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// PrincipalLookup resolves an authenticated actor address to an
// authorization principal. Implementations query storage to get roles and
// document ownership.
type PrincipalLookup interface {
	// LookupPrincipal resolves an actor address to a principal.
	// Returns an error if the lookup fails (e.g., database error).
	// Returns (nil, nil) if the actor is not known.
	LookupPrincipal(ctx context.Context, actor string) (*Principal, error)
}

// ResourceExtractor extracts resource information from HTTP requests.
// Implementations parse path parameters and request bodies.
type ResourceExtractor interface {
	// ExtractResource determines the target resource for authorization.
	ExtractResource(r *http.Request, action Action, principal *Principal) (*Resource, error)
}

// IssuerStateLookup retrieves the issuer state for a document.
// Used for revocation-gated actions (issuer:set_default).
type IssuerStateLookup interface {
	// GetIssuerState returns the current issuer state for a document.
	// Returns IssuerStateNone if no state exists.
	GetIssuerState(ctx context.Context, documentID string) (IssuerState, error)
}

// Middleware enforces Cedar policy authorization on HTTP requests.
// It sits between actor authentication and handlers in the middleware stack.
type Middleware struct {
	authorizer *Authorizer
	registry   *ActionRegistry
	principal  PrincipalLookup
	resource   ResourceExtractor
	issuers    IssuerStateLookup
	logger     *slog.Logger
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// WithLogger sets a custom logger for the middleware.
func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(m *Middleware) {
		m.logger = l
	}
}

// WithIssuerStateLookup sets the issuer state lookup for revocation-gated actions.
func WithIssuerStateLookup(l IssuerStateLookup) MiddlewareOption {
	return func(m *Middleware) {
		m.issuers = l
	}
}

// NewMiddleware creates authorization middleware.
func NewMiddleware(
	authorizer *Authorizer,
	registry *ActionRegistry,
	principalLookup PrincipalLookup,
	resourceExtractor ResourceExtractor,
	opts ...MiddlewareOption,
) *Middleware {
	m := &Middleware{
		authorizer: authorizer,
		registry:   registry,
		principal:  principalLookup,
		resource:   resourceExtractor,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ActorHeader carries the authenticated actor address on API requests.
const ActorHeader = "X-Actor"

// Wrap wraps an HTTP handler with authorization enforcement.
// The middleware flow:
//  1. Check if endpoint is pre-auth (health, version) and bypass if so
//  2. Extract the actor address from the request
//  3. Look up Cedar action from route
//  4. Resolve principal from the actor address
//  5. Extract resource from request
//  6. Call Authorizer.Authorize()
//  7. Handle decision
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		method := r.Method
		path := r.URL.Path

		if m.registry.IsPreAuthEndpoint(method, path) {
			m.logger.Debug("pre-auth endpoint bypassed",
				"method", method,
				"path", path,
			)
			next.ServeHTTP(w, r)
			return
		}

		actor := r.Header.Get(ActorHeader)
		if actor == "" {
			m.logger.Warn("missing actor on authenticated endpoint",
				"method", method,
				"path", path,
			)
			m.writeError(w, http.StatusUnauthorized, "auth.missing_actor", "authentication required")
			return
		}

		action, err := m.registry.Lookup(method, path)
		if err != nil {
			// Unknown route: fail-secure with 404.
			authzErr := ErrUnknownRoute(method, path)
			m.logger.Warn("unknown route rejected",
				"method", method,
				"path", path,
				"actor", actor,
			)
			m.writeError(w, authzErr.HTTPStatus(), authzErr.Code, authzErr.Message)
			return
		}

		principal, err := m.principal.LookupPrincipal(ctx, actor)
		if err != nil {
			m.logger.Error("principal lookup failed",
				"error", err,
				"actor", actor,
			)
			m.writeError(w, http.StatusInternalServerError, ErrCodePolicyError, "internal error")
			return
		}
		if principal == nil {
			// Unknown actors get the member role: read surfaces stay open,
			// every mutation requires an explicit grant.
			principal = &Principal{UID: actor, Type: PrincipalAccount, Role: RoleMember}
		}

		resource, err := m.resource.ExtractResource(r, action, principal)
		if err != nil {
			m.logger.Error("resource extraction failed",
				"error", err,
				"method", method,
				"path", path,
				"actor", actor,
			)
			m.writeError(w, http.StatusBadRequest, ErrCodePolicyError, "invalid resource")
			return
		}

		authzReq := Request{
			Principal: *principal,
			Action:    string(action),
			Resource:  *resource,
			Context:   make(map[string]any),
		}

		// Ownership is resolved here so policies can rely on a single flag.
		if resource.DocumentID != "" {
			authzReq.Context["principal_is_owner"] = principalOwnsDocument(principal, resource.DocumentID)
		}

		// Revocation-gated actions need the document's issuer state.
		if RequiresRevocationGate(string(action)) && m.issuers != nil && resource.DocumentID != "" {
			state, err := m.issuers.GetIssuerState(ctx, resource.DocumentID)
			if err != nil {
				m.logger.Error("issuer state lookup failed",
					"error", err,
					"document", resource.DocumentID,
				)
				// Treat lookup failure as revoked (fail-secure).
				state = IssuerStateRevoked
			}
			authzReq.Context["issuer_state"] = string(state)
		}

		decision := m.authorizer.Authorize(ctx, authzReq)

		if decision.Allowed {
			ctx = ContextWithDecision(ctx, &decision)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		m.writeDeniedResponse(w, &decision, principal, resource, string(action))
	})
}

// principalOwnsDocument reports whether the principal owns or executes the document.
func principalOwnsDocument(p *Principal, documentID string) bool {
	for _, d := range p.Documents {
		if d == documentID {
			return true
		}
	}
	return false
}

// writeDeniedResponse writes the appropriate error response for a denied authorization.
func (m *Middleware) writeDeniedResponse(
	w http.ResponseWriter,
	decision *Decision,
	principal *Principal,
	resource *Resource,
	action string,
) {
	var authzErr *Error
	switch decision.ReasonType {
	case ReasonRevokedState:
		authzErr = ErrRevokedState(resource.DocumentID)
	default:
		authzErr = ErrForbidden(decision.Reason)
	}

	m.logger.Info("authorization denied",
		"principal", principal.UID,
		"role", principal.Role,
		"action", action,
		"resource", resource.UID,
		"resource_type", resource.Type,
		"reason", decision.Reason,
		"policy_id", decision.PolicyID,
		"error_code", authzErr.Code,
	)

	m.writeError(w, authzErr.HTTPStatus(), authzErr.Code, authzErr.Message)
}

// writeError writes a JSON error response.
func (m *Middleware) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
