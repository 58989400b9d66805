package goIdentity

import (
	"context"
	"errors"
	"strconv"
	"time"
)

const (
	auditEventSubjectResolved    = "subject_resolved"
	auditEventSubjectSynthesized = "subject_synthesized"
	auditEventEligibilityPass    = "eligibility_pass"
	auditEventEligibilityReject  = "eligibility_reject"
	auditEventTokenIssued        = "token_issued"
	auditEventTokenExhausted     = "token_retries_exhausted"
	auditEventGateDenied         = "strategy_gate_denied"
)

// AuditErrorCode is the normalized error label carried on audit events.
type AuditErrorCode string

const (
	auditErrTokenExhausted   AuditErrorCode = "token_retries_exhausted"
	auditErrStoreUnavailable AuditErrorCode = "store_unavailable"
	auditErrInternal         AuditErrorCode = "internal_error"
)

func (e *Engine) emitResolve(ctx context.Context, subjectID string, found bool, reason string) {
	if e == nil || e.dispatcher == nil {
		return
	}

	eventType := auditEventSubjectResolved
	if !found {
		eventType = auditEventSubjectSynthesized
	}

	e.dispatcher.Emit(ctx, AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		SubjectID: subjectID,
		Success:   found,
		Reason:    reason,
	})
}

func (e *Engine) emitEligibility(ctx context.Context, subject *Subject, pass bool, reason string) {
	if e == nil || e.dispatcher == nil {
		return
	}

	eventType := auditEventEligibilityPass
	if !pass {
		eventType = auditEventEligibilityReject
	}

	var subjectID string
	if subject != nil {
		subjectID = subject.ID
	}

	e.dispatcher.Emit(ctx, AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		SubjectID: subjectID,
		Success:   pass,
		Reason:    reason,
	})
}

func (e *Engine) emitToken(ctx context.Context, field string, success bool, attempts int, err error) {
	if e == nil || e.dispatcher == nil {
		return
	}

	eventType := auditEventTokenIssued
	if !success {
		eventType = auditEventTokenExhausted
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Field:     field,
		Success:   success,
		Metadata:  map[string]string{"attempts": strconv.Itoa(attempts)},
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.dispatcher.Emit(ctx, event)
}

func (e *Engine) emitGateDenied(ctx context.Context, channel, strategy string) {
	if e == nil || e.dispatcher == nil {
		return
	}

	e.dispatcher.Emit(ctx, AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: auditEventGateDenied,
		Strategy:  strategy,
		Success:   false,
		Metadata:  map[string]string{"channel": channel},
	})
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrTokenRetriesExhausted):
		return auditErrTokenExhausted
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrStoreUnavailable
	default:
		return auditErrInternal
	}
}
