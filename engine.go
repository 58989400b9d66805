package goIdentity

import (
	internalaudit "github.com/MrEthical07/goIdentity/internal/audit"
	internalmetrics "github.com/MrEthical07/goIdentity/internal/metrics"
)

// Engine is the decision core for one identity kind. It is immutable after
// [Builder.Build] and safe for concurrent use; the only blocking points are
// calls into the [SubjectStore] collaborator.
type Engine struct {
	cfg    Config
	store  SubjectStore
	stages []EligibilityStage

	metrics    *internalmetrics.Metrics
	dispatcher *internalaudit.Dispatcher
}

// AuthenticationKeys returns the ordered required-field set this engine was
// built with. The returned slice is a copy; mutating it does not affect the
// engine.
func (e *Engine) AuthenticationKeys() []string {
	if e == nil {
		return nil
	}
	return cloneStrings(e.cfg.Keys.AuthenticationKeys)
}

// MetricsSnapshot returns a point-in-time copy of all engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.dispatcher.Dropped()
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.dispatcher.Close()
}
