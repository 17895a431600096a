package audit

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

type captureEmitter struct {
	events []Event
	err    error
}

func (c *captureEmitter) Emit(ev Event) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, ev)
	return nil
}

func TestRecorderFansOut(t *testing.T) {
	a := &captureEmitter{}
	b := &captureEmitter{}
	r := NewRecorder(nil, a, b)

	r.Record(NewIssuerRevoke("0xowner", "doc-1"))

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("expected both backends to receive the event, got %d/%d", len(a.events), len(b.events))
	}
	if a.events[0].Type != EventIssuerRevoke {
		t.Errorf("unexpected event: %+v", a.events[0])
	}
}

func TestRecorderSwallowsBackendErrors(t *testing.T) {
	failing := &captureEmitter{err: errors.New("disk full")}
	ok := &captureEmitter{}
	r := NewRecorder(nil, failing, ok)

	// Must not panic, and remaining backends still receive the event.
	r.Record(NewProviderReactivate("0xgov", "prv_1", "fp"))

	if len(ok.events) != 1 {
		t.Error("healthy backend should still receive the event")
	}
}

func TestStoreEmitterPersists(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "audit_test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	e := NewStoreEmitter(s)
	if err := e.Emit(NewIssuerDefaultSet("0xgov", "doc-7", "0xissuer")); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	events, err := s.ListAuditEvents(10)
	if err != nil {
		t.Fatalf("ListAuditEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 persisted event, got %d", len(events))
	}
	if events[0].Type != string(EventIssuerDefaultSet) {
		t.Errorf("type = %s", events[0].Type)
	}
	if events[0].Details["issuer"] != "0xissuer" {
		t.Errorf("details = %+v", events[0].Details)
	}
}

func TestNopEmitter(t *testing.T) {
	if err := (NopEmitter{}).Emit(NewIssuerRevoke("a", "d")); err != nil {
		t.Errorf("NopEmitter must never fail: %v", err)
	}
}
