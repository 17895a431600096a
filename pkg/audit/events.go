// Package audit defines the governance event side-channel: typed events for
// provider and issuer mutations, emitted for off-chain indexing. On-ledger
// storage intentionally keeps only current state; the audit log is where
// history lives.
package audit

import "time"

// Severity represents syslog severity levels per RFC 5424.
type Severity int

const (
	SeverityWarning Severity = 4
	SeverityNotice  Severity = 5
	SeverityInfo    Severity = 6
)

// String returns the human-readable name for a severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityNotice:
		return "NOTICE"
	case SeverityWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// EventType identifies a governance audit event.
type EventType string

const (
	EventProviderRegister   EventType = "provider.register"
	EventProviderDeactivate EventType = "provider.deactivate"
	EventProviderReactivate EventType = "provider.reactivate"
	EventIssuerDefaultSet   EventType = "issuer.default_set"
	EventIssuerOwnerSet     EventType = "issuer.owner_set"
	EventIssuerRevoke       EventType = "issuer.revoke"
	EventIssuerRestore      EventType = "issuer.restore"
)

// AllEventTypes returns every defined event type for iteration and validation.
func AllEventTypes() []EventType {
	return []EventType{
		EventProviderRegister,
		EventProviderDeactivate,
		EventProviderReactivate,
		EventIssuerDefaultSet,
		EventIssuerOwnerSet,
		EventIssuerRevoke,
		EventIssuerRestore,
	}
}

// severityMap maps each event type to its syslog severity. Trust-removing
// events are warnings; trust-granting events are notices.
var severityMap = map[EventType]Severity{
	EventProviderRegister:   SeverityNotice,
	EventProviderDeactivate: SeverityWarning,
	EventProviderReactivate: SeverityNotice,
	EventIssuerDefaultSet:   SeverityNotice,
	EventIssuerOwnerSet:     SeverityNotice,
	EventIssuerRevoke:       SeverityWarning,
	EventIssuerRestore:      SeverityNotice,
}

// SeverityFor returns the syslog severity for a given event type.
// Unknown event types return SeverityWarning (treat unknowns as concerning).
func SeverityFor(et EventType) Severity {
	if s, ok := severityMap[et]; ok {
		return s
	}
	return SeverityWarning
}

// Event represents a governance audit event with structured fields.
type Event struct {
	Type      EventType
	Severity  Severity
	Timestamp time.Time
	Actor     string            // Address that performed the mutation
	Subject   string            // Provider ID or document ID
	Details   map[string]string // Event-specific fields
}

// NewProviderRegister creates a provider.register event carrying the captured
// code fingerprint for auditability.
func NewProviderRegister(actor, providerID, address, fingerprint string) Event {
	return Event{
		Type:      EventProviderRegister,
		Severity:  SeverityNotice,
		Timestamp: time.Now(),
		Actor:     actor,
		Subject:   providerID,
		Details: map[string]string{
			"address":     address,
			"fingerprint": fingerprint,
		},
	}
}

// NewProviderDeactivate creates a provider.deactivate event with the reason.
func NewProviderDeactivate(actor, providerID, reason string) Event {
	return Event{
		Type:      EventProviderDeactivate,
		Severity:  SeverityWarning,
		Timestamp: time.Now(),
		Actor:     actor,
		Subject:   providerID,
		Details: map[string]string{
			"reason": reason,
		},
	}
}

// NewProviderReactivate creates a provider.reactivate event.
func NewProviderReactivate(actor, providerID, fingerprint string) Event {
	return Event{
		Type:      EventProviderReactivate,
		Severity:  SeverityNotice,
		Timestamp: time.Now(),
		Actor:     actor,
		Subject:   providerID,
		Details: map[string]string{
			"fingerprint": fingerprint,
		},
	}
}

// NewIssuerDefaultSet creates an issuer.default_set event.
func NewIssuerDefaultSet(actor, documentID, issuer string) Event {
	return Event{
		Type:      EventIssuerDefaultSet,
		Severity:  SeverityNotice,
		Timestamp: time.Now(),
		Actor:     actor,
		Subject:   documentID,
		Details: map[string]string{
			"issuer": issuer,
		},
	}
}

// NewIssuerOwnerSet creates an issuer.owner_set event.
func NewIssuerOwnerSet(actor, documentID, issuer string) Event {
	return Event{
		Type:      EventIssuerOwnerSet,
		Severity:  SeverityNotice,
		Timestamp: time.Now(),
		Actor:     actor,
		Subject:   documentID,
		Details: map[string]string{
			"issuer": issuer,
		},
	}
}

// NewIssuerRevoke creates an issuer.revoke event.
func NewIssuerRevoke(actor, documentID string) Event {
	return Event{
		Type:      EventIssuerRevoke,
		Severity:  SeverityWarning,
		Timestamp: time.Now(),
		Actor:     actor,
		Subject:   documentID,
		Details:   map[string]string{},
	}
}

// NewIssuerRestore creates an issuer.restore event.
func NewIssuerRestore(actor, documentID, issuer string) Event {
	return Event{
		Type:      EventIssuerRestore,
		Severity:  SeverityNotice,
		Timestamp: time.Now(),
		Actor:     actor,
		Subject:   documentID,
		Details: map[string]string{
			"issuer": issuer,
		},
	}
}
