package goIdentity

import "context"

// EligibilityDecision is the transient result of [Engine.Evaluate]: either
// active, or inactive with the rejecting stage's reason.
type EligibilityDecision struct {
	Active bool
	Reason string
}

// ReasonInactive is the base stage's rejection reason, reported when a
// subject is transient or carries field errors.
const ReasonInactive = "inactive"

// baseEligibilityStage is always the first link in the chain: a subject must
// be a persisted, error-free record before any feature stage gets a say.
type baseEligibilityStage struct{}

func (baseEligibilityStage) Check(subject *Subject) bool {
	return subject != nil && subject.Persisted && !subject.HasErrors()
}

func (baseEligibilityStage) Reason(*Subject) string {
	return ReasonInactive
}

// Evaluate walks the eligibility chain left to right and short-circuits on
// the first stage whose Check fails, returning that stage's reason. The base
// stage runs first, so every feature precondition is combined with the base
// check by construction.
func (e *Engine) Evaluate(subject *Subject) EligibilityDecision {
	if e == nil {
		return EligibilityDecision{Reason: ReasonInactive}
	}

	for _, stage := range e.stages {
		if !stage.Check(subject) {
			return EligibilityDecision{Reason: stage.Reason(subject)}
		}
	}

	return EligibilityDecision{Active: true}
}

// ValidForAuthentication gates an authentication attempt on the subject's
// eligibility. When the subject is active, the outcome is eligible and, if
// onSuccess was supplied, carries its return value; when inactive, the
// outcome carries the rejecting stage's reason. Rejection is a result
// shape, never an error: the caller distinguishes "authenticated" from
// "rejected with reason" purely by inspecting the outcome.
func (e *Engine) ValidForAuthentication(ctx context.Context, subject *Subject, onSuccess func(*Subject) any) AuthOutcome {
	decision := e.Evaluate(subject)
	if !decision.Active {
		if e != nil {
			e.metrics.Inc(MetricEligibilityFail)
			e.emitEligibility(ctx, subject, false, decision.Reason)
		}
		return AuthOutcome{Reason: decision.Reason}
	}

	e.metrics.Inc(MetricEligibilityPass)
	e.emitEligibility(ctx, subject, true, "")

	outcome := AuthOutcome{Eligible: true}
	if onSuccess != nil {
		outcome.Result = onSuccess(subject)
	}
	return outcome
}
