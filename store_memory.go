package goIdentity

import (
	"context"
	"errors"
	"sync"
)

// MemorySubjectStore is an in-memory [SubjectStore] for tests and small
// embedded deployments. It favors clarity over performance: lookups scan
// records in insertion order, which also makes FindFirst deterministic.
type MemorySubjectStore struct {
	mu       sync.RWMutex
	order    []string
	subjects map[string]*Subject
}

func NewMemorySubjectStore() *MemorySubjectStore {
	return &MemorySubjectStore{
		subjects: make(map[string]*Subject),
	}
}

// Save stores a copy of the subject keyed by ID.
func (s *MemorySubjectStore) Save(_ context.Context, subject *Subject) error {
	if subject == nil || subject.ID == "" {
		return errors.New("subject with ID required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subjects[subject.ID]; !exists {
		s.order = append(s.order, subject.ID)
	}
	s.subjects[subject.ID] = copySubject(subject)
	return nil
}

// FindFirst returns the first stored subject matching every condition, in
// insertion order, or [ErrSubjectNotFound].
func (s *MemorySubjectStore) FindFirst(_ context.Context, conditions map[string]string) (*Subject, error) {
	if len(conditions) == 0 {
		return nil, ErrSubjectNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		subject := s.subjects[id]
		if matchesConditions(subject, conditions) {
			return copySubject(subject), nil
		}
	}
	return nil, ErrSubjectNotFound
}

// ExistsBy reports whether any stored subject holds value in field.
func (s *MemorySubjectStore) ExistsBy(_ context.Context, field, value string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if s.subjects[id].Fields[field] == value && value != "" {
			return true, nil
		}
	}
	return false, nil
}

func matchesConditions(subject *Subject, conditions map[string]string) bool {
	for field, want := range conditions {
		if subject.Fields[field] != want {
			return false
		}
	}
	return true
}

func copySubject(in *Subject) *Subject {
	out := &Subject{
		ID:        in.ID,
		Fields:    make(map[string]string, len(in.Fields)),
		Errors:    in.Errors.Clone(),
		Persisted: true,
	}
	for k, v := range in.Fields {
		out.Fields[k] = v
	}
	return out
}
