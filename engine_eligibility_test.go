package goIdentity

import (
	"context"
	"testing"
)

// confirmableStage mimics a feature module: subjects must be confirmed
// before they may authenticate.
type confirmableStage struct{}

func (confirmableStage) Check(subject *Subject) bool {
	return subject.Field("confirmed") == "true"
}

func (confirmableStage) Reason(*Subject) string {
	return "unconfirmed"
}

func activeSubject() *Subject {
	return &Subject{
		ID:        "s1",
		Fields:    map[string]string{"email": "alice@example.com", "confirmed": "true"},
		Persisted: true,
	}
}

func TestEvaluateActiveSubject(t *testing.T) {
	engine := newTestEngine(t, testConfig(), seededStore())

	decision := engine.Evaluate(activeSubject())
	if !decision.Active {
		t.Fatalf("expected active, got reason %q", decision.Reason)
	}
}

func TestEvaluateTransientSubjectInactive(t *testing.T) {
	engine := newTestEngine(t, testConfig(), seededStore())

	subject := activeSubject()
	subject.Persisted = false

	decision := engine.Evaluate(subject)
	if decision.Active {
		t.Fatal("expected inactive")
	}
	if decision.Reason != ReasonInactive {
		t.Fatalf("expected base reason %q, got %q", ReasonInactive, decision.Reason)
	}
}

func TestEvaluateErroredSubjectInactive(t *testing.T) {
	engine := newTestEngine(t, testConfig(), seededStore())

	subject := activeSubject()
	subject.Errors = FieldErrors{"email": ReasonInvalid}

	decision := engine.Evaluate(subject)
	if decision.Active {
		t.Fatal("expected inactive")
	}
}

func TestEvaluateNilSubjectInactive(t *testing.T) {
	engine := newTestEngine(t, testConfig(), seededStore())

	if decision := engine.Evaluate(nil); decision.Active {
		t.Fatal("expected inactive for nil subject")
	}
}

func TestFeatureStageANDsWithBase(t *testing.T) {
	engine, err := New().
		WithConfig(testConfig()).
		WithStore(seededStore()).
		WithEligibilityStage(confirmableStage{}).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	defer engine.Close()

	// Base and feature both pass.
	if decision := engine.Evaluate(activeSubject()); !decision.Active {
		t.Fatalf("expected active, got reason %q", decision.Reason)
	}

	// Feature precondition fails: its reason wins.
	unconfirmed := activeSubject()
	unconfirmed.Fields["confirmed"] = "false"
	decision := engine.Evaluate(unconfirmed)
	if decision.Active {
		t.Fatal("expected inactive")
	}
	if decision.Reason != "unconfirmed" {
		t.Fatalf("expected feature reason, got %q", decision.Reason)
	}

	// Base fails first even when the feature would also fail: the base
	// reason wins because the chain short-circuits left to right.
	transient := activeSubject()
	transient.Persisted = false
	transient.Fields["confirmed"] = "false"
	decision = engine.Evaluate(transient)
	if decision.Reason != ReasonInactive {
		t.Fatalf("expected base reason, got %q", decision.Reason)
	}
}

func TestValidForAuthenticationReturnsCallbackResult(t *testing.T) {
	engine := newTestEngine(t, testConfig(), seededStore())

	outcome := engine.ValidForAuthentication(context.Background(), activeSubject(), func(s *Subject) any {
		return "session-for-" + s.ID
	})
	if !outcome.Eligible {
		t.Fatalf("expected eligible, got reason %q", outcome.Reason)
	}
	if outcome.Result != "session-for-s1" {
		t.Fatalf("expected callback result, got %v", outcome.Result)
	}
}

func TestValidForAuthenticationWithoutCallback(t *testing.T) {
	engine := newTestEngine(t, testConfig(), seededStore())

	outcome := engine.ValidForAuthentication(context.Background(), activeSubject(), nil)
	if !outcome.Eligible {
		t.Fatalf("expected eligible, got reason %q", outcome.Reason)
	}
	if outcome.Result != nil {
		t.Fatalf("expected nil result, got %v", outcome.Result)
	}
}

func TestValidForAuthenticationRejectsWithReason(t *testing.T) {
	engine := newTestEngine(t, testConfig(), seededStore())

	subject := activeSubject()
	subject.Persisted = false

	called := false
	outcome := engine.ValidForAuthentication(context.Background(), subject, func(*Subject) any {
		called = true
		return nil
	})
	if outcome.Eligible {
		t.Fatal("expected rejection")
	}
	if outcome.Reason != ReasonInactive {
		t.Fatalf("expected reason %q, got %q", ReasonInactive, outcome.Reason)
	}
	if called {
		t.Fatal("success callback must not run on rejection")
	}
}
