package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

func setupLocal(t *testing.T) (*Local, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "ledger_test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewLocal(s, "intg-test-1", "0xledger-verify"), s
}

func TestLocalIdentity(t *testing.T) {
	l, _ := setupLocal(t)
	if l.ChainID() != "intg-test-1" {
		t.Errorf("ChainID = %q", l.ChainID())
	}
	if l.VerifierAddress() != "0xledger-verify" {
		t.Errorf("VerifierAddress = %q", l.VerifierAddress())
	}
}

func TestLocalCodeFingerprint(t *testing.T) {
	l, _ := setupLocal(t)

	if _, ok := l.CodeFingerprint("0xnothing"); ok {
		t.Error("expected no fingerprint for empty address")
	}

	fp, err := l.DeployCode("0xv1", []byte("verifier code"))
	if err != nil {
		t.Fatalf("DeployCode failed: %v", err)
	}
	got, ok := l.CodeFingerprint("0xv1")
	if !ok || got != fp {
		t.Errorf("CodeFingerprint = %q ok=%v, want %q", got, ok, fp)
	}
}

func TestLocalGetRecord(t *testing.T) {
	l, s := setupLocal(t)

	att := &store.Attestation{UID: "att_1", Schema: "sch", Issuer: "i", Recipient: "r", IssuedAt: time.Now().Unix()}
	if err := s.PutAttestation(att); err != nil {
		t.Fatalf("PutAttestation failed: %v", err)
	}

	got, err := l.GetRecord(context.Background(), "att_1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.UID != "att_1" {
		t.Errorf("unexpected record: %+v", got)
	}

	if _, err := l.GetRecord(context.Background(), "att_missing"); err == nil {
		t.Error("expected error for missing record")
	}
}

func TestLocalSetClock(t *testing.T) {
	l, _ := setupLocal(t)

	fixed := time.Unix(1700000000, 0)
	l.SetClock(func() time.Time { return fixed })
	if !l.Now().Equal(fixed) {
		t.Errorf("Now = %v, want %v", l.Now(), fixed)
	}
}
