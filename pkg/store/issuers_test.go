package store

import "testing"

func TestIssuerStateUpsert(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.GetIssuerState("doc-1"); err == nil {
		t.Fatal("expected not found for fresh document")
	}

	st := &IssuerState{DocumentID: "doc-1", DefaultIssuer: "0xgov-issuer"}
	if err := s.SaveIssuerState(st); err != nil {
		t.Fatalf("SaveIssuerState failed: %v", err)
	}

	got, err := s.GetIssuerState("doc-1")
	if err != nil {
		t.Fatalf("GetIssuerState failed: %v", err)
	}
	if got.DefaultIssuer != "0xgov-issuer" || got.OwnerIssuer != "" || got.RevokedAt != 0 {
		t.Errorf("unexpected state: %+v", got)
	}

	// Upsert overwrites the full row.
	st.OwnerIssuer = "0xowner-issuer"
	st.RevokedAt = 1700000000
	if err := s.SaveIssuerState(st); err != nil {
		t.Fatalf("SaveIssuerState update failed: %v", err)
	}
	got, _ = s.GetIssuerState("doc-1")
	if got.OwnerIssuer != "0xowner-issuer" || got.RevokedAt != 1700000000 {
		t.Errorf("unexpected state after update: %+v", got)
	}
}

func TestDocumentRecord(t *testing.T) {
	s := setupTestStore(t)

	d := &Document{ID: "doc-9", Owner: "0xowner", Executor: "0xexec"}
	if err := s.UpsertDocument(d); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}

	got, err := s.GetDocument("doc-9")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got.Owner != "0xowner" || got.Executor != "0xexec" {
		t.Errorf("unexpected document: %+v", got)
	}

	if _, err := s.GetDocument("doc-missing"); err == nil {
		t.Error("expected not found error")
	}
}

func TestIssuerKeyRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	keyJSON := `{"kty":"OKP","crv":"Ed25519","x":"abc"}`
	if err := s.SetIssuerKey("0xissuer", keyJSON); err != nil {
		t.Fatalf("SetIssuerKey failed: %v", err)
	}

	got, err := s.GetIssuerKey("0xissuer")
	if err != nil {
		t.Fatalf("GetIssuerKey failed: %v", err)
	}
	if got != keyJSON {
		t.Errorf("key mismatch: %s", got)
	}

	if _, err := s.GetIssuerKey("0xunknown"); err == nil {
		t.Error("expected not found error")
	}
}
