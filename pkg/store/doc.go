// Package store provides SQLite-based persistence for the trust core.
//
// The store manages several domain entities:
//
//   - Providers: registered attestation verifier records with captured
//     code fingerprints
//   - Issuer states: per-document default/owner issuer pointers and
//     revocation stamps
//   - Documents: ownership and executor records consumed by issuer checks
//   - Attestations: the local ledger's signed, revocable claim records
//   - Issuer keys: verification keys for credential-based providers
//   - Settings: governor-configurable limits (max record age, call budget)
//   - Audit: append-only log of governance events
//
// # Usage
//
// Open a store with [Open] and close it when done:
//
//	db, err := store.Open("trust.db")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
// # Thread Safety
//
// The store is safe for concurrent use. SQLite WAL mode enables readers and
// writers to operate simultaneously.
package store
