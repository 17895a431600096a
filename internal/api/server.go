package api

import (
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/IntegraLedger/trust-documentation-sub003/internal/version"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/audit"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/docregistry"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/issuer"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/ledger"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/provider"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/registry"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// ServerConfig holds configuration options for the API server.
type ServerConfig struct {
	// ChainID identifies the ledger network this verifier serves.
	ChainID string
	// VerifierAddress is this system's ledger-verification-service address.
	VerifierAddress string
	// ContractAddress is the document contract this verifier serves.
	ContractAddress string
	// Schema is the attestation schema accepted by the default provider.
	Schema string
	// SchemaVersion is the payload layout version.
	SchemaVersion string
	// Governors are actor addresses holding the governor role.
	Governors []string
	// Logger for structured logging. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	store       *store.Store
	ledger      *ledger.Local
	registry    *registry.Registry
	authority   *issuer.Authority
	providerCfg provider.Config
	issuerKeys  provider.KeyResolver
	governors   map[string]bool
	logger      *slog.Logger
}

// NewServer creates an API server wired to the given store.
func NewServer(s *store.Store, cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := ledger.NewLocal(s, cfg.ChainID, cfg.VerifierAddress)
	recorder := audit.NewRecorder(logger, audit.NewSlogEmitter(logger), audit.NewStoreEmitter(s))
	auth := issuer.NewAuthority(s, docregistry.NewStoreRegistry(s), l, recorder)
	reg := registry.New(s, l, recorder, logger)

	governors := make(map[string]bool, len(cfg.Governors))
	for _, g := range cfg.Governors {
		governors[g] = true
	}

	return &Server{
		store:     s,
		ledger:    l,
		registry:  reg,
		authority: auth,
		providerCfg: provider.Config{
			Schema:          cfg.Schema,
			SchemaVersion:   cfg.SchemaVersion,
			ContractAddress: cfg.ContractAddress,
		},
		issuerKeys: provider.NewStoreKeys(s),
		governors:  governors,
		logger:     logger,
	}
}

// providerFor builds the verification provider for a proof kind. Providers
// are constructed per call so governor setting changes take effect without a
// restart.
func (s *Server) providerFor(kind provider.Kind) (provider.Provider, bool) {
	pcfg := s.providerCfg
	if maxAge, err := s.store.MaxRecordAge(); err == nil {
		pcfg.MaxRecordAge = int64(maxAge / time.Second)
	}

	switch kind {
	case provider.KindLedgerRecord:
		return provider.NewRecordProvider(s.ledger, s.authority, pcfg, s.logger), true
	case provider.KindCredential:
		return provider.NewCredentialProvider(s.ledger, s.authority, s.issuerKeys, pcfg, s.logger), true
	default:
		return nil, false
	}
}

// Ledger returns the server's ledger for test configuration.
func (s *Server) Ledger() *ledger.Local {
	return s.ledger
}

// Registry returns the provider registry.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Authority returns the issuer authority.
func (s *Server) Authority() *issuer.Authority {
	return s.authority
}

// RegisterRoutes registers all API routes.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Provider registry routes
	mux.HandleFunc("GET /api/v1/providers", s.handleListProviders)
	mux.HandleFunc("POST /api/v1/providers", s.handleRegisterProvider)
	mux.HandleFunc("GET /api/v1/providers/{id}", s.handleGetProvider)
	mux.HandleFunc("POST /api/v1/providers/{id}/deactivate", s.handleDeactivateProvider)
	mux.HandleFunc("POST /api/v1/providers/{id}/reactivate", s.handleReactivateProvider)
	mux.HandleFunc("GET /api/v1/lookup/{id}", s.handleLookupProvider)

	// Document routes
	mux.HandleFunc("POST /api/v1/documents", s.handleRegisterDocument)
	mux.HandleFunc("GET /api/v1/documents", s.handleListDocuments)
	mux.HandleFunc("GET /api/v1/documents/{id}", s.handleGetDocument)

	// Issuer authority routes
	mux.HandleFunc("GET /api/v1/documents/{id}/issuer", s.handleGetIssuerState)
	mux.HandleFunc("PUT /api/v1/documents/{id}/issuer/default", s.handleSetDefaultIssuer)
	mux.HandleFunc("PUT /api/v1/documents/{id}/issuer/owner", s.handleSetOwnerIssuer)
	mux.HandleFunc("POST /api/v1/documents/{id}/issuer/revoke", s.handleRevokeIssuer)
	mux.HandleFunc("POST /api/v1/documents/{id}/issuer/restore", s.handleRestoreIssuer)

	// Verification route
	mux.HandleFunc("POST /api/v1/verify", s.handleVerify)

	// Audit routes
	mux.HandleFunc("GET /api/v1/audit", s.handleListAudit)

	// Settings routes
	mux.HandleFunc("GET /api/v1/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/v1/settings", s.handleUpdateSettings)

	// Health routes (no auth required - bypassed in middleware)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.String()})
}

// actor returns the authenticated actor address from the request.
func actor(r *http.Request) string {
	return r.Header.Get("X-Actor")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	log.Printf("ERROR: %s %s: %s", r.Method, r.URL.Path, message)
	writeJSON(w, status, map[string]string{"error": message})
}

// writeCodedError maps domain errors carrying an HTTP status to a response.
func writeCodedError(w http.ResponseWriter, r *http.Request, err error) {
	type coded interface {
		HTTPStatus() int
		Error() string
	}
	if ce, ok := err.(coded); ok {
		writeError(w, r, ce.HTTPStatus(), ce.Error())
		return
	}
	writeError(w, r, http.StatusInternalServerError, err.Error())
}
