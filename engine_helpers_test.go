package goIdentity

import (
	"context"
	"sync"
	"testing"
)

// mockSubjectStore is a scriptable SubjectStore that records every call so
// tests can assert storage was (or was not) consulted.
type mockSubjectStore struct {
	mu sync.Mutex

	subjects []*Subject

	findCalls   int
	existsCalls int

	findErr      error
	existsErr    error
	existsAlways bool
	existsFirstN int

	lastConditions map[string]string
}

func (m *mockSubjectStore) FindFirst(_ context.Context, conditions map[string]string) (*Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++
	m.lastConditions = conditions

	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, subject := range m.subjects {
		if matchesConditions(subject, conditions) {
			return copySubject(subject), nil
		}
	}
	return nil, ErrSubjectNotFound
}

func (m *mockSubjectStore) ExistsBy(_ context.Context, field, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.existsCalls++

	if m.existsErr != nil {
		return false, m.existsErr
	}
	if m.existsAlways {
		return true, nil
	}
	if m.existsFirstN > 0 {
		m.existsFirstN--
		return true, nil
	}
	for _, subject := range m.subjects {
		if subject.Fields[field] == value && value != "" {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSubjectStore) put(subject *Subject) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Gates.HTTPAuthenticatable = StrategyGate{AllowAll: true}
	cfg.Gates.ParamsAuthenticatable = StrategyGate{AllowAll: true}
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, store SubjectStore) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithStore(store).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func seededStore() *mockSubjectStore {
	store := &mockSubjectStore{}
	store.put(&Subject{
		ID: "s1",
		Fields: map[string]string{
			"email":    "alice@example.com",
			"username": "alice",
		},
		Persisted: true,
	})
	return store
}
