// Package provider implements the pluggable attestation verification
// back-ends behind a uniform contract: given an opaque proof blob, a claimed
// recipient, and a document identifier, decide whether the proof
// authentically grants capabilities for that document.
//
// Two implementations ship here:
//
//   - [RecordProvider]: resolves the proof to a signed record on the ledger's
//     attestation store and validates it through an ordered pipeline of
//     replay, spoofing, and staleness checks.
//   - [CredentialProvider]: verifies an offline JWS credential against the
//     document's active issuer key, then applies the same context checks to
//     the signed claims.
//
// Verification is authenticity-only: a provider reports which capabilities a
// proof grants but never enforces sufficiency. The caller tests the required
// capability against the returned mask, which lets one verification serve
// multiple capability checks without re-querying the ledger.
//
// Every check failure short-circuits to (false, 0). Verification never aborts
// the caller's operation; the calling contract chooses its own fallback.
package provider
