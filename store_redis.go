package goIdentity

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "gid"

// RedisSubjectStore is a [SubjectStore] backed by Redis. Subjects live in a
// hash per record; every indexed field gets a secondary index key mapping
// its value to the subject ID, which is what makes FindFirst and ExistsBy
// single-key operations.
//
// Key layout:
//
//	<prefix>:subject:<id>          hash of field -> value
//	<prefix>:idx:<field>:<value>   subject id
//
// Redis single-key reads are strongly consistent, satisfying the ExistsBy
// contract for token generation. Two concurrent Save calls writing the same
// indexed value still race at the application level; keep a unique
// constraint (or use SETNX-style reservation) in the surrounding system if
// that matters for a field.
type RedisSubjectStore struct {
	redis         *redis.Client
	prefix        string
	indexedFields []string
}

// NewRedisSubjectStore creates a store on top of client. indexedFields are
// the fields that get secondary index keys; lookups and existence checks are
// only possible on indexed fields. An empty prefix falls back to the package
// default.
func NewRedisSubjectStore(client *redis.Client, prefix string, indexedFields []string) *RedisSubjectStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisSubjectStore{
		redis:         client,
		prefix:        prefix,
		indexedFields: cloneStrings(indexedFields),
	}
}

func (s *RedisSubjectStore) subjectKey(id string) string {
	return s.prefix + ":subject:" + id
}

func (s *RedisSubjectStore) indexKey(field, value string) string {
	return s.prefix + ":idx:" + field + ":" + value
}

// FindFirst resolves the first indexed condition to a subject ID, loads the
// record, and verifies every remaining condition against it. A missing
// index entry, a missing record, or any mismatched condition is a clean
// miss.
func (s *RedisSubjectStore) FindFirst(ctx context.Context, conditions map[string]string) (*Subject, error) {
	if len(conditions) == 0 {
		return nil, ErrSubjectNotFound
	}

	// Walk indexedFields rather than the conditions map so the index probe
	// order is deterministic.
	var probeField string
	for _, field := range s.indexedFields {
		if _, ok := conditions[field]; ok {
			probeField = field
			break
		}
	}
	if probeField == "" {
		return nil, fmt.Errorf("%w: no indexed field in conditions", ErrSubjectNotFound)
	}

	id, err := s.redis.Get(ctx, s.indexKey(probeField, conditions[probeField])).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSubjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	fields, err := s.redis.HGetAll(ctx, s.subjectKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		// Dangling index entry; treat as a miss.
		return nil, ErrSubjectNotFound
	}

	for field, want := range conditions {
		if fields[field] != want {
			return nil, ErrSubjectNotFound
		}
	}

	return &Subject{
		ID:        id,
		Fields:    fields,
		Persisted: true,
	}, nil
}

// ExistsBy reports whether any subject holds value in the indexed field.
func (s *RedisSubjectStore) ExistsBy(ctx context.Context, field, value string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.indexKey(field, value)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// Save persists the subject hash and refreshes index entries for every
// indexed field the subject carries. It exists so integrators embedding
// this store have a write path symmetric with FindFirst; systems with their
// own persistence keep ownership of writes and never call it.
func (s *RedisSubjectStore) Save(ctx context.Context, subject *Subject) error {
	if subject == nil || subject.ID == "" {
		return errors.New("subject with ID required")
	}

	values := make(map[string]string, len(subject.Fields))
	for k, v := range subject.Fields {
		values[k] = v
	}

	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, s.subjectKey(subject.ID), values)
	for _, field := range s.indexedFields {
		if value, ok := subject.Fields[field]; ok && value != "" {
			pipe.Set(ctx, s.indexKey(field, value), subject.ID, 0)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}
