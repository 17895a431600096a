package audit

import (
	"log/slog"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// EventEmitter accepts structured audit events for recording.
type EventEmitter interface {
	Emit(Event) error
}

// NopEmitter discards all events. Use when no audit backend is configured.
type NopEmitter struct{}

// Emit discards the event.
func (NopEmitter) Emit(Event) error { return nil }

// SlogEmitter writes events to a structured logger.
type SlogEmitter struct {
	logger *slog.Logger
}

// NewSlogEmitter creates an emitter that logs events via slog.
// If logger is nil, slog.Default() is used.
func NewSlogEmitter(logger *slog.Logger) *SlogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogEmitter{logger: logger}
}

// Emit logs the event with structured fields.
func (e *SlogEmitter) Emit(ev Event) error {
	attrs := []any{
		"severity", ev.Severity.String(),
		"actor", ev.Actor,
		"subject", ev.Subject,
		"ts", ev.Timestamp.Unix(),
	}
	for k, v := range ev.Details {
		attrs = append(attrs, k, v)
	}
	switch ev.Severity {
	case SeverityWarning:
		e.logger.Warn(string(ev.Type), attrs...)
	default:
		e.logger.Info(string(ev.Type), attrs...)
	}
	return nil
}

// StoreEmitter appends events to the store's audit log.
type StoreEmitter struct {
	store *store.Store
}

// NewStoreEmitter creates an emitter backed by the persistent audit log.
func NewStoreEmitter(s *store.Store) *StoreEmitter {
	return &StoreEmitter{store: s}
}

// Emit appends the event to the audit_events table.
func (e *StoreEmitter) Emit(ev Event) error {
	return e.store.AppendAuditEvent(&store.AuditEvent{
		Type:      string(ev.Type),
		Severity:  int(ev.Severity),
		Timestamp: ev.Timestamp,
		Actor:     ev.Actor,
		Subject:   ev.Subject,
		Details:   ev.Details,
	})
}

// Recorder fans one event out to multiple backends. Emit errors are logged
// and swallowed: audit failures must not abort the mutation they describe.
type Recorder struct {
	backends []EventEmitter
	logger   *slog.Logger
}

// NewRecorder creates a recorder over the given backends.
// If logger is nil, slog.Default() is used for error reporting.
func NewRecorder(logger *slog.Logger, backends ...EventEmitter) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{backends: backends, logger: logger}
}

// Record writes the event to all backends.
func (r *Recorder) Record(ev Event) {
	for _, b := range r.backends {
		if err := b.Emit(ev); err != nil {
			r.logger.Error("audit emit failed", "event", string(ev.Type), "error", err)
		}
	}
}
