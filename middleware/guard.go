// Package middleware contains the outer HTTP glue between transport
// channels and the goIdentity engine. It decides which channel a request is
// using, consults the engine's strategy gates before any resolution runs,
// and stashes the resolved subject in the request context for downstream
// handlers.
package middleware

import (
	"context"
	"net/http"

	goIdentity "github.com/MrEthical07/goIdentity"
)

type subjectContextKey struct{}

// SubjectFromContext returns the subject resolved by [ChannelGuard], when
// the request passed the guard.
func SubjectFromContext(ctx context.Context) (*goIdentity.Subject, bool) {
	subject, ok := ctx.Value(subjectContextKey{}).(*goIdentity.Subject)
	return subject, ok
}

// ChannelGuard gates a strategy's authentication attempts. Requests carrying
// HTTP basic credentials use the header channel; everything else uses the
// params channel. The matching gate is checked first: a denied channel is
// rejected before any candidate field reaches the resolver. Allowed
// attempts are resolved and evaluated; only subjects that are eligible to
// authenticate reach the next handler.
//
// Credential verification stays with the caller: the handler behind the
// guard receives the resolved subject and performs its own comparison.
func ChannelGuard(engine *goIdentity.Engine, strategy string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			attrs, fromHeader, ok := candidateFields(r, engine.AuthenticationKeys())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			allowed := engine.AllowsParams(strategy)
			if fromHeader {
				allowed = engine.AllowsHTTP(strategy)
			}
			if !allowed {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			subject, err := engine.ResolveOrInitialize(r.Context(), engine.AuthenticationKeys(), attrs, goIdentity.ReasonInvalid)
			if err != nil {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			outcome := engine.ValidForAuthentication(r.Context(), subject, nil)
			if !outcome.Eligible {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), subjectContextKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// candidateFields extracts raw authentication-key values from the request.
// Basic auth maps the username onto the first authentication key; the
// params channel reads each key from the form.
func candidateFields(r *http.Request, keys []string) (map[string]any, bool, bool) {
	if len(keys) == 0 {
		return nil, false, false
	}

	if username, _, ok := r.BasicAuth(); ok {
		return map[string]any{keys[0]: username}, true, true
	}

	if err := r.ParseForm(); err != nil {
		return nil, false, false
	}

	attrs := make(map[string]any, len(keys))
	for _, key := range keys {
		if value := r.Form.Get(key); value != "" {
			attrs[key] = value
		}
	}
	if len(attrs) == 0 {
		return nil, false, false
	}
	return attrs, false, true
}
