// Package otel bridges goIdentity's in-process counters onto the
// OpenTelemetry metric API via observable instruments. The exporter reads
// engine snapshots inside a registered callback; it never touches live
// counters.
package otel

import (
	"context"
	"errors"
	"fmt"

	goIdentity "github.com/MrEthical07/goIdentity"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goIdentity.MetricsSnapshot
	AuditDropped() uint64
}

type counterDef struct {
	id   goIdentity.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{goIdentity.MetricResolveFound, "goidentity_resolve_found_total", "Resolutions that returned a stored subject."},
	{goIdentity.MetricResolveSynthesized, "goidentity_resolve_synthesized_total", "Resolutions that synthesized a subject with field errors."},
	{goIdentity.MetricLookupMiss, "goidentity_lookup_miss_total", "Fully populated lookups that found no subject."},
	{goIdentity.MetricTokenIssued, "goidentity_token_issued_total", "Opaque tokens issued."},
	{goIdentity.MetricTokenRetry, "goidentity_token_retry_total", "Token candidates discarded due to collision."},
	{goIdentity.MetricTokenExhausted, "goidentity_token_exhausted_total", "Token generations that hit the retry cap."},
	{goIdentity.MetricEligibilityPass, "goidentity_eligibility_pass_total", "Subjects that evaluated as active."},
	{goIdentity.MetricEligibilityFail, "goidentity_eligibility_fail_total", "Subjects rejected by an eligibility stage."},
	{goIdentity.MetricGateDenied, "goidentity_gate_denied_total", "Strategy-gate denials."},
}

type observedCounter struct {
	id         goIdentity.MetricID
	instrument metric.Int64ObservableCounter
}

// OTelExporter registers observable counters for every engine metric and
// feeds them from snapshots on each collection cycle.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	auditDropped metric.Int64ObservableCounter
}

// NewOTelExporter creates an exporter reading from the given engine.
func NewOTelExporter(meter metric.Meter, engine *goIdentity.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource creates an exporter from a custom snapshot
// source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:   source,
		counters: make([]observedCounter, 0, len(counterDefs)),
	}

	observables := make([]metric.Observable, 0, len(counterDefs)+1)

	for _, def := range counterDefs {
		ins, err := meter.Int64ObservableCounter(def.name, metric.WithDescription(def.help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.id, instrument: ins})
		observables = append(observables, ins)
	}

	auditDropped, err := meter.Int64ObservableCounter(
		"goidentity_audit_dropped_total",
		metric.WithDescription("Dropped audit events due to dispatcher backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	exporter.auditDropped = auditDropped
	observables = append(observables, auditDropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		observer.ObserveInt64(exporter.auditDropped, int64(exporter.source.AuditDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
