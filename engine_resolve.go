package goIdentity

import (
	"context"
	"errors"
)

// FindForAuthentication sanitizes the given conditions and returns the first
// stored subject matching all of them. It is the lookup half of resolution,
// exposed for callers (custom strategies, remote-auth bridges) that manage
// their own miss handling.
//
// A clean miss returns [ErrSubjectNotFound]; any other error is a technical
// storage failure.
func (e *Engine) FindForAuthentication(ctx context.Context, conditions map[string]any) (*Subject, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	return e.store.FindFirst(ctx, e.sanitizeConditions(conditions))
}

// ResolveOrInitialize resolves a subject from partially-trusted input, or
// synthesizes a transient subject annotated with field errors when it
// cannot.
//
// The required set is filtered against attrs first, dropping blank values
// (whitespace-only counts as blank). Storage is consulted only when every
// required field carried a non-blank value; otherwise the store is never
// touched. On a fully populated lookup that misses, EVERY required field is
// marked with reason, not just the wrong one; the uniform error does not
// reveal which fields matched (credential-enumeration resistance).
//
// reason defaults to [ReasonInvalid] when empty. The returned subject is
// never nil when the error is nil: it is either the stored record
// (Persisted true, no errors) or the synthesized one (Persisted false,
// every required field errored).
func (e *Engine) ResolveOrInitialize(ctx context.Context, required []string, attrs map[string]any, reason ErrorReason) (*Subject, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if reason == "" {
		reason = ReasonInvalid
	}

	present := make(map[string]any, len(required))
	for _, field := range required {
		if value, ok := attrs[field]; ok && !isBlankValue(value) {
			present[field] = value
		}
	}

	if len(present) == len(required) {
		subject, err := e.FindForAuthentication(ctx, present)
		switch {
		case err == nil:
			e.metrics.Inc(MetricResolveFound)
			e.emitResolve(ctx, subject.ID, true, "")
			return subject, nil
		case errors.Is(err, ErrSubjectNotFound):
			e.metrics.Inc(MetricLookupMiss)
		default:
			return nil, err
		}
	}

	subject := &Subject{
		Fields: make(map[string]string, len(required)),
		Errors: make(FieldErrors, len(required)),
	}
	for _, field := range required {
		raw, supplied := attrs[field]
		if supplied {
			subject.Fields[field] = coerceScalar(raw)
		}
		if supplied && !isBlankValue(raw) {
			subject.Errors[field] = reason
		} else {
			subject.Errors[field] = ReasonBlank
		}
	}

	e.metrics.Inc(MetricResolveSynthesized)
	e.emitResolve(ctx, "", false, string(reason))
	return subject, nil
}
