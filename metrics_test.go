package goIdentity

import (
	"context"
	"testing"
)

func newMeteredEngine(t *testing.T, store SubjectStore) *Engine {
	t.Helper()

	cfg := testConfig()
	cfg.Metrics.Enabled = true
	return newTestEngine(t, cfg, store)
}

func TestMetricsResolveCounters(t *testing.T) {
	engine := newMeteredEngine(t, seededStore())
	ctx := context.Background()

	_, _ = engine.ResolveOrInitialize(ctx,
		[]string{"email"}, map[string]any{"email": "alice@example.com"}, "")
	_, _ = engine.ResolveOrInitialize(ctx,
		[]string{"email"}, map[string]any{"email": "bob@example.com"}, "")

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[MetricResolveFound]; got != 1 {
		t.Fatalf("expected 1 found resolve, got %d", got)
	}
	if got := snap.Counters[MetricResolveSynthesized]; got != 1 {
		t.Fatalf("expected 1 synthesized resolve, got %d", got)
	}
	if got := snap.Counters[MetricLookupMiss]; got != 1 {
		t.Fatalf("expected 1 lookup miss, got %d", got)
	}
}

func TestMetricsTokenCounters(t *testing.T) {
	store := seededStore()
	store.existsFirstN = 2
	engine := newMeteredEngine(t, store)

	if _, err := engine.GenerateToken(context.Background(), "reset_token"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[MetricTokenIssued]; got != 1 {
		t.Fatalf("expected 1 issued token, got %d", got)
	}
	if got := snap.Counters[MetricTokenRetry]; got != 2 {
		t.Fatalf("expected 2 retries, got %d", got)
	}
}

func TestMetricsTokenExhaustedCounter(t *testing.T) {
	store := seededStore()
	store.existsAlways = true

	cfg := testConfig()
	cfg.Metrics.Enabled = true
	cfg.Token.MaxAttempts = 3
	engine := newTestEngine(t, cfg, store)

	if _, err := engine.GenerateToken(context.Background(), "reset_token"); err == nil {
		t.Fatal("expected exhaustion error")
	}

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[MetricTokenExhausted]; got != 1 {
		t.Fatalf("expected 1 exhaustion, got %d", got)
	}
	if got := snap.Counters[MetricTokenRetry]; got != 3 {
		t.Fatalf("expected 3 retries, got %d", got)
	}
}

func TestMetricsEligibilityCounters(t *testing.T) {
	engine := newMeteredEngine(t, seededStore())
	ctx := context.Background()

	engine.ValidForAuthentication(ctx, activeSubject(), nil)
	engine.ValidForAuthentication(ctx, &Subject{ID: "t1"}, nil)

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[MetricEligibilityPass]; got != 1 {
		t.Fatalf("expected 1 pass, got %d", got)
	}
	if got := snap.Counters[MetricEligibilityFail]; got != 1 {
		t.Fatalf("expected 1 rejection, got %d", got)
	}
}

func TestMetricsGateDeniedCounter(t *testing.T) {
	cfg := DefaultConfig() // both gates closed
	cfg.Metrics.Enabled = true
	engine := newTestEngine(t, cfg, seededStore())

	engine.AllowsHTTP("database")
	engine.AllowsParams("database")

	if got := engine.MetricsSnapshot().Counters[MetricGateDenied]; got != 2 {
		t.Fatalf("expected 2 denials, got %d", got)
	}
}

func TestMetricsSnapshotIsDetached(t *testing.T) {
	engine := newMeteredEngine(t, seededStore())
	ctx := context.Background()

	_, _ = engine.ResolveOrInitialize(ctx,
		[]string{"email"}, map[string]any{"email": "alice@example.com"}, "")

	before := engine.MetricsSnapshot()

	_, _ = engine.ResolveOrInitialize(ctx,
		[]string{"email"}, map[string]any{"email": "alice@example.com"}, "")

	if got := before.Counters[MetricResolveFound]; got != 1 {
		t.Fatalf("snapshot must not track live counters, got %d", got)
	}
	if got := engine.MetricsSnapshot().Counters[MetricResolveFound]; got != 2 {
		t.Fatalf("expected live counter at 2, got %d", got)
	}
}

func TestMetricsDisabledByDefault(t *testing.T) {
	engine := newTestEngine(t, testConfig(), seededStore())

	_, _ = engine.ResolveOrInitialize(context.Background(),
		[]string{"email"}, map[string]any{"email": "alice@example.com"}, "")

	if got := engine.MetricsSnapshot().Counters[MetricResolveFound]; got != 0 {
		t.Fatalf("expected disabled metrics to stay zero, got %d", got)
	}
}
