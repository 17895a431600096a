package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// cliName is the name of the CLI using the store, used for state directory
// paths. Default is "trustctl".
var cliName = "trustctl"

// SetCLIName sets the CLI name used for state directory paths.
// Call this at CLI startup to isolate state between different tools.
func SetCLIName(name string) {
	cliName = name
}

// Store provides trust-core persistence operations.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database path following XDG spec.
// Uses the CLI name set via SetCLIName (defaults to "trustctl").
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, cliName, cliName+".db")
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent access across processes.
	// WAL mode allows readers to see committed changes immediately without
	// blocking writers, which matters when the CLI mutates issuer state
	// while a long-running server handles verification queries.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set busy timeout to handle concurrent access gracefully.
	// Without this, concurrent writes immediately return SQLITE_BUSY.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS providers (
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		provider_type TEXT DEFAULT '',
		description TEXT DEFAULT '',
		deactivate_reason TEXT,
		registered_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_providers_registered_at ON providers(registered_at);

	CREATE TABLE IF NOT EXISTS issuer_states (
		document_id TEXT PRIMARY KEY,
		default_issuer TEXT NOT NULL DEFAULT '',
		owner_issuer TEXT NOT NULL DEFAULT '',
		revoked_at INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		executor TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attestations (
		uid TEXT PRIMARY KEY,
		schema TEXT NOT NULL,
		issuer TEXT NOT NULL,
		recipient TEXT NOT NULL,
		issued_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0,
		revoked_at INTEGER NOT NULL DEFAULT 0,
		payload BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_attestations_issuer ON attestations(issuer);

	CREATE TABLE IF NOT EXISTS issuer_keys (
		issuer TEXT PRIMARY KEY,
		key_json TEXT NOT NULL,
		added_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS code_objects (
		address TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		size INTEGER NOT NULL,
		deployed_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		severity INTEGER NOT NULL,
		ts INTEGER NOT NULL,
		actor TEXT DEFAULT '',
		subject TEXT DEFAULT '',
		details TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_audit_events_ts ON audit_events(ts);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
