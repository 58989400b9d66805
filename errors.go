package goIdentity

import "errors"

var (
	// ErrSubjectNotFound is the sentinel a [SubjectStore] must return from
	// FindFirst on a clean miss. The resolver consumes it and synthesizes a
	// subject; any other store error propagates unchanged.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrTokenRetriesExhausted is returned when token generation hits its
	// retry cap. It indicates a misbehaving or adversarial store and must be
	// surfaced to the caller, never silently retried further.
	ErrTokenRetriesExhausted = errors.New("token generation retries exhausted")
	// ErrEngineNotReady is returned when an engine method is invoked on a nil
	// or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrStoreUnavailable wraps technical failures from the storage
	// collaborator during resolution or token generation.
	ErrStoreUnavailable = errors.New("subject store unavailable")
)
