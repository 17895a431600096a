// Trust platform verification server.
// HTTP API for capability verification, the provider registry, and issuer
// authority management.
package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/IntegraLedger/trust-documentation-sub003/internal/api"
	"github.com/IntegraLedger/trust-documentation-sub003/internal/version"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/authz"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

var (
	listenAddr    = flag.String("listen", ":18080", "HTTP listen address")
	dbPath        = flag.String("db", "", "Database path (default: ~/.local/share/trustctl/trustctl.db)")
	chainID       = flag.String("chain-id", "local-1", "Ledger network identifier")
	verifierAddr  = flag.String("verifier-addr", "", "Ledger-verification-service address")
	contractAddr  = flag.String("contract-addr", "", "Document contract address this verifier serves")
	schema        = flag.String("schema", "document-capabilities", "Attestation schema accepted by providers")
	schemaVersion = flag.String("schema-version", "2", "Attestation payload layout version")
	governors     = flag.String("governors", "", "Comma-separated governor actor addresses")
)

func main() {
	flag.CommandLine.SetOutput(os.Stdout)
	flag.Parse()

	log.Printf("Trust verification server v%s starting...", version.Version)

	path := *dbPath
	if path == "" {
		path = store.DefaultPath()
	}

	db, err := store.Open(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// The chain identity is persisted so providers and CLI sessions agree
	// on the verifier context.
	if err := db.SetChainID(*chainID); err != nil {
		log.Fatalf("Failed to store chain id: %v", err)
	}
	if *verifierAddr != "" {
		if err := db.SetVerifierAddress(*verifierAddr); err != nil {
			log.Fatalf("Failed to store verifier address: %v", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	server := api.NewServer(db, api.ServerConfig{
		ChainID:         *chainID,
		VerifierAddress: *verifierAddr,
		ContractAddress: *contractAddr,
		Schema:          *schema,
		SchemaVersion:   *schemaVersion,
		Governors:       splitList(*governors),
		Logger:          logger,
	})

	authorizer, err := authz.NewAuthorizer(authz.Config{Logger: logger})
	if err != nil {
		log.Fatalf("Failed to load authorization policies: %v", err)
	}

	// Middleware: logging -> authz -> routes
	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: loggingMiddleware(server.AuthorizedHandler(authorizer)),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("Shutting down...")
		httpServer.Close()
	}()

	log.Printf("HTTP server listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Println("Verification server stopped")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusResponseWriter{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %dms", r.Method, r.URL.Path, sw.statusCode, time.Since(start).Milliseconds())
	})
}
