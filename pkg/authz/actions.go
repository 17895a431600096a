package authz

import "strings"

// Action constants for all API endpoints.
const (
	// Provider registry
	ActionProviderRegister   = "provider:register"
	ActionProviderList       = "provider:list"
	ActionProviderRead       = "provider:read"
	ActionProviderDeactivate = "provider:deactivate"
	ActionProviderReactivate = "provider:reactivate"
	ActionProviderLookup     = "provider:lookup"

	// Document management
	ActionDocumentRegister = "document:register"
	ActionDocumentRead     = "document:read"
	ActionDocumentList     = "document:list"

	// Issuer authority
	ActionIssuerRead       = "issuer:read"
	ActionIssuerSetDefault = "issuer:set_default"
	ActionIssuerSetOwner   = "issuer:set_owner"
	ActionIssuerRevoke     = "issuer:revoke"
	ActionIssuerRestore    = "issuer:restore"

	// Capability verification
	ActionVerifyCapabilities = "verify:capabilities"

	// Audit
	ActionAuditExport = "audit:export"

	// Verifier settings
	ActionSettingsRead  = "settings:read"
	ActionSettingsWrite = "settings:write"
)

// validActions is the set of all valid action strings.
// Unknown actions are rejected (fail-closed).
var validActions = map[string]bool{
	ActionProviderRegister:   true,
	ActionProviderList:       true,
	ActionProviderRead:       true,
	ActionProviderDeactivate: true,
	ActionProviderReactivate: true,
	ActionProviderLookup:     true,
	ActionDocumentRegister:   true,
	ActionDocumentRead:       true,
	ActionDocumentList:       true,
	ActionIssuerRead:         true,
	ActionIssuerSetDefault:   true,
	ActionIssuerSetOwner:     true,
	ActionIssuerRevoke:       true,
	ActionIssuerRestore:      true,
	ActionVerifyCapabilities: true,
	ActionAuditExport:        true,
	ActionSettingsRead:       true,
	ActionSettingsWrite:      true,
}

// revocationGatedActions are blocked while the target document's issuer
// state is revoked. An owner's emergency revocation outranks the governor,
// so reinstating a default issuer requires an owner restore first.
var revocationGatedActions = map[string]bool{
	ActionIssuerSetDefault: true,
}

// ValidateAction returns true if the action is a known valid action.
// Unknown actions should be rejected (fail-closed).
func ValidateAction(action string) bool {
	return validActions[action]
}

// RequiresRevocationGate returns true if the action is blocked by a revoked
// issuer state regardless of the principal's role.
func RequiresRevocationGate(action string) bool {
	return revocationGatedActions[action]
}

// AllActions returns all valid action strings.
// Useful for documentation and testing.
func AllActions() []string {
	actions := make([]string, 0, len(validActions))
	for a := range validActions {
		actions = append(actions, a)
	}
	return actions
}

// Action represents a Cedar action string.
type Action string

// NoAuthRequired is a special marker indicating the endpoint does not require authentication.
// The middleware ONLY bypasses auth for endpoints explicitly marked with this value.
// SECURITY NOTE: Unknown endpoints return an error, NOT this marker. Fail-secure design.
const NoAuthRequired Action = "no-auth-required"

// ActionRegistry maps HTTP routes to Cedar actions.
// IMPORTANT: Any new endpoint must be added to this registry.
// Unknown routes return an error (fail-secure), not silent pass or auth bypass.
type ActionRegistry struct {
	routes map[routeKey]Action
}

// routeKey combines HTTP method and path pattern for lookup.
type routeKey struct {
	method  string
	pattern string
}

// NewActionRegistry creates a registry with all endpoint-to-action mappings.
func NewActionRegistry() *ActionRegistry {
	r := &ActionRegistry{
		routes: make(map[routeKey]Action),
	}

	// ----- Pre-Authentication Endpoints (no auth required) -----
	// These are the ONLY endpoints that bypass authentication.
	r.register("GET", "/health", NoAuthRequired)
	r.register("GET", "/version", NoAuthRequired)

	// ----- Provider Registry Endpoints -----
	r.register("POST", "/api/v1/providers", Action(ActionProviderRegister))
	r.register("GET", "/api/v1/providers", Action(ActionProviderList))
	r.register("GET", "/api/v1/providers/{id}", Action(ActionProviderRead))
	r.register("POST", "/api/v1/providers/{id}/deactivate", Action(ActionProviderDeactivate))
	r.register("POST", "/api/v1/providers/{id}/reactivate", Action(ActionProviderReactivate))
	r.register("GET", "/api/v1/lookup/{id}", Action(ActionProviderLookup))

	// ----- Document Endpoints -----
	r.register("POST", "/api/v1/documents", Action(ActionDocumentRegister))
	r.register("GET", "/api/v1/documents", Action(ActionDocumentList))
	r.register("GET", "/api/v1/documents/{id}", Action(ActionDocumentRead))

	// ----- Issuer Authority Endpoints -----
	r.register("GET", "/api/v1/documents/{id}/issuer", Action(ActionIssuerRead))
	r.register("PUT", "/api/v1/documents/{id}/issuer/default", Action(ActionIssuerSetDefault))
	r.register("PUT", "/api/v1/documents/{id}/issuer/owner", Action(ActionIssuerSetOwner))
	r.register("POST", "/api/v1/documents/{id}/issuer/revoke", Action(ActionIssuerRevoke))
	r.register("POST", "/api/v1/documents/{id}/issuer/restore", Action(ActionIssuerRestore))

	// ----- Verification Endpoint -----
	r.register("POST", "/api/v1/verify", Action(ActionVerifyCapabilities))

	// ----- Audit Endpoints -----
	r.register("GET", "/api/v1/audit", Action(ActionAuditExport))

	// ----- Settings Endpoints -----
	r.register("GET", "/api/v1/settings", Action(ActionSettingsRead))
	r.register("PUT", "/api/v1/settings", Action(ActionSettingsWrite))

	return r
}

// register adds a route-to-action mapping.
func (r *ActionRegistry) register(method, pattern string, action Action) {
	r.routes[routeKey{method: method, pattern: pattern}] = action
}

// Lookup returns the Cedar action for a given HTTP method and path.
// Returns an error for unknown routes (fail-secure design).
// SECURITY: Middleware ONLY bypasses auth for NoAuthRequired, never for errors.
func (r *ActionRegistry) Lookup(method, path string) (Action, error) {
	// SECURITY: Reject malformed paths (e.g., double slashes) to prevent
	// path confusion attacks
	if err := validatePath(path); err != nil {
		return "", err
	}

	// Try exact match first
	if action, ok := r.routes[routeKey{method: method, pattern: path}]; ok {
		return action, nil
	}

	// Try pattern matching for parameterized routes
	for key, action := range r.routes {
		if key.method != method {
			continue
		}
		if matchPattern(key.pattern, path) {
			return action, nil
		}
	}

	// Unknown route: return error (fail-secure)
	return "", ErrUnknownRoute(method, path)
}

// IsPreAuthEndpoint returns true if the route does not require authentication.
// SECURITY: Only explicitly registered NoAuthRequired endpoints return true.
// Unknown endpoints return false (fail-secure).
func (r *ActionRegistry) IsPreAuthEndpoint(method, path string) bool {
	action, err := r.Lookup(method, path)
	if err != nil {
		return false
	}
	return action == NoAuthRequired
}

// AllRoutes returns all registered route patterns.
// Useful for documentation and testing.
func (r *ActionRegistry) AllRoutes() []string {
	routes := make([]string, 0, len(r.routes))
	for k := range r.routes {
		routes = append(routes, k.method+" "+k.pattern)
	}
	return routes
}

// validatePath checks if a path is well-formed.
// Returns an error for malformed paths, nil if valid.
func validatePath(path string) error {
	if path == "" {
		return ErrMalformedPath(path, "empty path")
	}
	// Double slashes could confuse path matching or bypass checks.
	if strings.Contains(path, "//") {
		return ErrMalformedPath(path, "contains double slashes")
	}
	return nil
}

// matchPattern checks if a path matches a pattern with {param} placeholders.
// Example: matchPattern("/api/v1/documents/{id}", "/api/v1/documents/doc_x") returns true.
func matchPattern(pattern, path string) bool {
	patternParts := splitPath(pattern)
	pathParts := splitPath(path)

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, pp := range patternParts {
		// {param} matches any non-empty segment
		if len(pp) > 2 && pp[0] == '{' && pp[len(pp)-1] == '}' {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if pp != pathParts[i] {
			return false
		}
	}

	return true
}

// splitPath splits a path into segments, handling leading/trailing slashes.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	if path[0] == '/' {
		path = path[1:]
	}
	if len(path) > 0 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if path == "" {
		return nil
	}

	var parts []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			parts = append(parts, path[start:i])
			start = i + 1
		}
	}
	return parts
}
