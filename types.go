package goIdentity

import (
	"context"
	"io"

	internalaudit "github.com/MrEthical07/goIdentity/internal/audit"
	internalmetrics "github.com/MrEthical07/goIdentity/internal/metrics"
)

// ErrorReason classifies why a required authentication-key field failed
// validation during subject resolution.
type ErrorReason string

const (
	// ReasonInvalid marks a field whose value was supplied but did not
	// resolve to a stored subject.
	ReasonInvalid ErrorReason = "invalid"
	// ReasonBlank marks a field whose value was missing or whitespace-only.
	ReasonBlank ErrorReason = "blank"
)

// FieldErrors maps an authentication-key field name to the reason it failed.
// It is attached to synthesized subjects and cleared only by constructing a
// new subject.
type FieldErrors map[string]ErrorReason

// Reason returns the recorded reason for field, or "" when the field has no
// error.
func (fe FieldErrors) Reason(field string) ErrorReason {
	return fe[field]
}

// Clone returns an independent copy of the error set.
func (fe FieldErrors) Clone() FieldErrors {
	if fe == nil {
		return nil
	}
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}

// Subject is the authenticable entity this core reasons about. It is either
// loaded from storage (Persisted true) or synthesized in memory when
// resolution fails (Persisted false, Errors populated). Persisting a
// synthesized subject is the caller's responsibility.
//
// Field values are always scalar strings by the time they reach a Subject;
// see [SanitizeConditions].
type Subject struct {
	ID        string
	Fields    map[string]string
	Errors    FieldErrors
	Persisted bool
}

// Field returns the value of the named authentication-key field, or "" when
// unset.
func (s *Subject) Field(name string) string {
	if s == nil {
		return ""
	}
	return s.Fields[name]
}

// HasErrors reports whether any field-level validation error is attached.
func (s *Subject) HasErrors() bool {
	return s != nil && len(s.Errors) > 0
}

// SubjectStore is the narrow storage contract this core consumes. Callers
// integrate their database by implementing these two lookups; everything
// else about the schema stays on their side of the boundary.
//
// FindFirst must return [ErrSubjectNotFound] on a clean miss. Any other
// error is treated as a technical failure and propagated, never converted
// into a synthesized subject.
//
// ExistsBy is used during token generation and must be strongly consistent
// with the caller's subsequent persistence of the returned token. Stores
// that only offer eventual consistency need a unique constraint as a
// backstop; the retry loop alone cannot close that race.
type SubjectStore interface {
	FindFirst(ctx context.Context, conditions map[string]string) (*Subject, error)
	ExistsBy(ctx context.Context, field, value string) (bool, error)
}

// EligibilityStage is one link in the eligibility chain. Feature modules
// (confirmation, lockout, expiry, ...) contribute a stage instead of
// overriding the base check: the chain is evaluated left to right and
// short-circuits on the first stage whose Check fails, returning that
// stage's Reason. The base active-subject stage always runs first, so every
// feature condition is ANDed with it structurally.
type EligibilityStage interface {
	Check(subject *Subject) bool
	Reason(subject *Subject) string
}

// AuthOutcome is the transient result of [Engine.ValidForAuthentication].
// Eligible and Reason are mutually exclusive: Reason is set only when the
// subject was rejected. Result carries the success callback's return value
// when one was supplied.
type AuthOutcome struct {
	Eligible bool
	Reason   string
	Result   any
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricResolveFound counts resolutions that returned a stored subject.
	MetricResolveFound = internalmetrics.MetricResolveFound
	// MetricResolveSynthesized counts resolutions that returned a transient
	// subject with field errors.
	MetricResolveSynthesized = internalmetrics.MetricResolveSynthesized
	// MetricLookupMiss counts fully populated lookups that found nothing.
	MetricLookupMiss = internalmetrics.MetricLookupMiss
	// MetricTokenIssued counts tokens returned to callers.
	MetricTokenIssued = internalmetrics.MetricTokenIssued
	// MetricTokenRetry counts collision retries during token generation.
	MetricTokenRetry = internalmetrics.MetricTokenRetry
	// MetricTokenExhausted counts token generations that hit the retry cap.
	MetricTokenExhausted = internalmetrics.MetricTokenExhausted
	// MetricEligibilityPass counts subjects that evaluated as active.
	MetricEligibilityPass = internalmetrics.MetricEligibilityPass
	// MetricEligibilityFail counts subjects rejected by an eligibility stage.
	MetricEligibilityFail = internalmetrics.MetricEligibilityFail
	// MetricGateDenied counts strategy-gate denials.
	MetricGateDenied = internalmetrics.MetricGateDenied
)

// Metrics holds lock-free atomic counters for engine observability.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{Enabled: cfg.Enabled})
}
