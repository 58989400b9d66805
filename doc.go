// Package goIdentity implements the decision core a credential-subject store
// needs before any credential is ever compared: whether a subject is currently
// eligible to authenticate, how to resolve or safely initialize a subject from
// partially-trusted input, and how to mint collision-free opaque tokens bound
// to a subject field.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goIdentity is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Subject, AuthOutcome, MetricsSnapshot, etc.). Internal
// coordination — token material generation, audit dispatch, metric storage —
// lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Compare credentials, hash passwords, or manage sessions. Those belong
//     to the enclosing middleware and its collaborators.
//   - Impose a storage schema. Storage is reached only through the narrow
//     [SubjectStore] contract.
//   - Signal rejection through Go errors. Field validation failures and
//     ineligibility travel as data; errors are reserved for technical
//     failures ([ErrStoreUnavailable], [ErrTokenRetriesExhausted]).
package goIdentity
