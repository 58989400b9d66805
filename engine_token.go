package goIdentity

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goIdentity/internal"
	"github.com/google/uuid"
)

// GenerateToken mints an opaque token for field that no stored subject
// currently holds. Candidates come from the configured strategy; each one is
// checked against the store and the first free candidate is returned.
// Storing the token on a subject is the caller's responsibility.
//
// The collision loop is bounded by Token.MaxAttempts. Hitting the cap means
// the store is misconfigured or adversarial (honest collisions at this
// entropy are vanishingly rare) and returns [ErrTokenRetriesExhausted].
func (e *Engine) GenerateToken(ctx context.Context, field string) (string, error) {
	if e == nil || e.store == nil {
		return "", ErrEngineNotReady
	}

	for attempt := 0; attempt < e.cfg.Token.MaxAttempts; attempt++ {
		candidate, err := e.newTokenCandidate()
		if err != nil {
			return "", err
		}

		exists, err := e.store.ExistsBy(ctx, field, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			e.metrics.Inc(MetricTokenIssued)
			e.emitToken(ctx, field, true, attempt+1, nil)
			return candidate, nil
		}

		e.metrics.Inc(MetricTokenRetry)
	}

	err := fmt.Errorf("%w: field %q after %d attempts",
		ErrTokenRetriesExhausted, field, e.cfg.Token.MaxAttempts)
	e.metrics.Inc(MetricTokenExhausted)
	e.emitToken(ctx, field, false, e.cfg.Token.MaxAttempts, err)
	return "", err
}

func (e *Engine) newTokenCandidate() (string, error) {
	switch e.cfg.Token.Strategy {
	case TokenUUID:
		return uuid.NewString(), nil
	default:
		return internal.NewOpaqueToken(e.cfg.Token.RawLength)
	}
}
