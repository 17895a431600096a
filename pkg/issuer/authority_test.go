package issuer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/audit"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/docregistry"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/ledger"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

const (
	docID    = "doc-1"
	owner    = "0xowner"
	executor = "0xexec"
	governor = "0xgovernor"
	stranger = "0xmallory"
)

func setupAuthority(t *testing.T) (*Authority, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "issuer_test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.UpsertDocument(&store.Document{ID: docID, Owner: owner, Executor: executor}); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}

	l := ledger.NewLocal(s, "intg-test-1", "0xledger-verify")
	a := NewAuthority(s, docregistry.NewStoreRegistry(s), l, audit.NewRecorder(nil, audit.NewStoreEmitter(s)))
	return a, s
}

func TestDefaultIssuerLifecycle(t *testing.T) {
	a, _ := setupAuthority(t)

	if _, ok := a.ActiveIssuer(docID); ok {
		t.Fatal("fresh document must have no active issuer")
	}

	if err := a.SetDefaultIssuer(docID, "0xi1", governor); err != nil {
		t.Fatalf("SetDefaultIssuer failed: %v", err)
	}

	res, ok := a.ActiveIssuer(docID)
	if !ok || res.Issuer != "0xi1" || res.IsOwnerSet {
		t.Errorf("ActiveIssuer = %+v ok=%v", res, ok)
	}

	st, _ := a.StateOf(docID)
	if st != DefaultActive {
		t.Errorf("state = %s, want %s", st, DefaultActive)
	}
}

func TestOwnerIssuerOverridesDefault(t *testing.T) {
	a, _ := setupAuthority(t)

	if err := a.SetDefaultIssuer(docID, "0xi1", governor); err != nil {
		t.Fatal(err)
	}
	if err := a.SetOwnerIssuer(docID, "0xi2", owner); err != nil {
		t.Fatalf("SetOwnerIssuer failed: %v", err)
	}

	// Owner priority is authoritative even with both pointers set.
	res, ok := a.ActiveIssuer(docID)
	if !ok || res.Issuer != "0xi2" {
		t.Errorf("ActiveIssuer = %+v ok=%v, want owner issuer", res, ok)
	}
	if !res.IsOwnerSet {
		t.Error("expected IsOwnerSet=true after SetOwnerIssuer")
	}
}

func TestSetOwnerIssuerByExecutor(t *testing.T) {
	a, _ := setupAuthority(t)

	if err := a.SetOwnerIssuer(docID, "0xi2", executor); err != nil {
		t.Errorf("executor must have owner rights: %v", err)
	}
}

func TestSetOwnerIssuerRejectsStranger(t *testing.T) {
	a, _ := setupAuthority(t)

	err := a.SetOwnerIssuer(docID, "0xi9", stranger)
	if ErrorCode(err) != ErrCodeNotOwner {
		t.Errorf("expected %s, got %v", ErrCodeNotOwner, err)
	}
}

func TestSetOwnerIssuerUnknownDocument(t *testing.T) {
	a, _ := setupAuthority(t)

	err := a.SetOwnerIssuer("doc-unknown", "0xi1", owner)
	if ErrorCode(err) != ErrCodeUnknownDocument {
		t.Errorf("expected %s, got %v", ErrCodeUnknownDocument, err)
	}
}

func TestRevokeDeletesBothPointers(t *testing.T) {
	a, s := setupAuthority(t)

	if err := a.SetDefaultIssuer(docID, "0xi1", governor); err != nil {
		t.Fatal(err)
	}
	if err := a.SetOwnerIssuer(docID, "0xi2", owner); err != nil {
		t.Fatal(err)
	}
	if err := a.RevokeIssuer(docID, owner); err != nil {
		t.Fatalf("RevokeIssuer failed: %v", err)
	}

	if _, ok := a.ActiveIssuer(docID); ok {
		t.Error("revoked document must resolve to no issuer")
	}

	raw, err := s.GetIssuerState(docID)
	if err != nil {
		t.Fatalf("GetIssuerState failed: %v", err)
	}
	if raw.DefaultIssuer != "" || raw.OwnerIssuer != "" {
		t.Errorf("both pointers must be deleted on revoke: %+v", raw)
	}
	if raw.RevokedAt == 0 {
		t.Error("expected revocation timestamp")
	}

	st, _ := a.StateOf(docID)
	if st != Revoked {
		t.Errorf("state = %s, want %s", st, Revoked)
	}
}

func TestRevokeRequiresActiveIssuer(t *testing.T) {
	a, _ := setupAuthority(t)

	err := a.RevokeIssuer(docID, owner)
	if ErrorCode(err) != ErrCodeNoActiveIssuer {
		t.Errorf("expected %s, got %v", ErrCodeNoActiveIssuer, err)
	}
}

func TestRevokeTwiceFails(t *testing.T) {
	a, _ := setupAuthority(t)

	if err := a.SetDefaultIssuer(docID, "0xi1", governor); err != nil {
		t.Fatal(err)
	}
	if err := a.RevokeIssuer(docID, owner); err != nil {
		t.Fatal(err)
	}
	err := a.RevokeIssuer(docID, owner)
	if ErrorCode(err) != ErrCodeAlreadyRevoked {
		t.Errorf("expected %s, got %v", ErrCodeAlreadyRevoked, err)
	}
}

func TestSetDefaultIssuerBlockedWhileRevoked(t *testing.T) {
	a, _ := setupAuthority(t)

	if err := a.SetDefaultIssuer(docID, "0xi1", governor); err != nil {
		t.Fatal(err)
	}
	if err := a.RevokeIssuer(docID, owner); err != nil {
		t.Fatal(err)
	}

	// The governor cannot undo the owner's emergency response.
	err := a.SetDefaultIssuer(docID, "0xi3", governor)
	if ErrorCode(err) != ErrCodeAlreadyRevoked {
		t.Errorf("expected %s, got %v", ErrCodeAlreadyRevoked, err)
	}
}

func TestRestoreRequiresRevocation(t *testing.T) {
	a, _ := setupAuthority(t)

	err := a.RestoreIssuer(docID, "0xi3", owner)
	if ErrorCode(err) != ErrCodeNotRevoked {
		t.Errorf("expected %s, got %v", ErrCodeNotRevoked, err)
	}
}

func TestRestoreInstallsNewOwnerIssuer(t *testing.T) {
	a, _ := setupAuthority(t)

	if err := a.SetDefaultIssuer(docID, "0xi1", governor); err != nil {
		t.Fatal(err)
	}
	if err := a.RevokeIssuer(docID, owner); err != nil {
		t.Fatal(err)
	}
	if err := a.RestoreIssuer(docID, "0xi3", owner); err != nil {
		t.Fatalf("RestoreIssuer failed: %v", err)
	}

	res, ok := a.ActiveIssuer(docID)
	if !ok || res.Issuer != "0xi3" || !res.IsOwnerSet {
		t.Errorf("ActiveIssuer = %+v ok=%v, want restored owner issuer", res, ok)
	}

	st, _ := a.StateOf(docID)
	if st != OwnerActive {
		t.Errorf("state = %s, want %s", st, OwnerActive)
	}
}

func TestSetOwnerIssuerClearsRevocation(t *testing.T) {
	a, _ := setupAuthority(t)

	if err := a.SetDefaultIssuer(docID, "0xi1", governor); err != nil {
		t.Fatal(err)
	}
	if err := a.RevokeIssuer(docID, owner); err != nil {
		t.Fatal(err)
	}
	if err := a.SetOwnerIssuer(docID, "0xi4", owner); err != nil {
		t.Fatalf("SetOwnerIssuer after revoke failed: %v", err)
	}

	res, ok := a.ActiveIssuer(docID)
	if !ok || res.Issuer != "0xi4" {
		t.Errorf("ActiveIssuer = %+v ok=%v", res, ok)
	}
}

func TestRoundTripOwnerIssuer(t *testing.T) {
	a, _ := setupAuthority(t)

	if err := a.SetOwnerIssuer(docID, "0xi5", owner); err != nil {
		t.Fatal(err)
	}
	res, ok := a.ActiveIssuer(docID)
	if !ok {
		t.Fatal("expected active issuer")
	}
	if res.Issuer != "0xi5" || !res.IsOwnerSet {
		t.Errorf("round trip: got %+v", res)
	}
}

func TestMutationsEmitAuditEvents(t *testing.T) {
	a, s := setupAuthority(t)

	if err := a.SetDefaultIssuer(docID, "0xi1", governor); err != nil {
		t.Fatal(err)
	}
	if err := a.RevokeIssuer(docID, owner); err != nil {
		t.Fatal(err)
	}
	if err := a.RestoreIssuer(docID, "0xi2", owner); err != nil {
		t.Fatal(err)
	}

	events, err := s.ListAuditEvents(10)
	if err != nil {
		t.Fatalf("ListAuditEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 audit events, got %d", len(events))
	}
	seen := map[string]bool{}
	for _, ev := range events {
		seen[ev.Type] = true
		if ev.Subject != docID {
			t.Errorf("event %s subject = %q", ev.Type, ev.Subject)
		}
	}
	for _, want := range []string{"issuer.default_set", "issuer.revoke", "issuer.restore"} {
		if !seen[want] {
			t.Errorf("missing audit event %s", want)
		}
	}
}

func TestRevocationTimestampUsesLedgerClock(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "issuer_clock_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.UpsertDocument(&store.Document{ID: docID, Owner: owner}); err != nil {
		t.Fatal(err)
	}

	l := ledger.NewLocal(s, "intg-test-1", "0xledger-verify")
	fixed := time.Unix(1700000000, 0)
	l.SetClock(func() time.Time { return fixed })

	a := NewAuthority(s, docregistry.NewStoreRegistry(s), l, nil)
	if err := a.SetDefaultIssuer(docID, "0xi1", governor); err != nil {
		t.Fatal(err)
	}
	if err := a.RevokeIssuer(docID, owner); err != nil {
		t.Fatal(err)
	}

	raw, _ := s.GetIssuerState(docID)
	if raw.RevokedAt != fixed.Unix() {
		t.Errorf("RevokedAt = %d, want %d", raw.RevokedAt, fixed.Unix())
	}
}
