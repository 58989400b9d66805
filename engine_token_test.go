package goIdentity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestGenerateTokenReturnsUnseenValue(t *testing.T) {
	store := seededStore()
	engine := newTestEngine(t, testConfig(), store)

	token, err := engine.GenerateToken(context.Background(), "reset_token")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if store.existsCalls != 1 {
		t.Fatalf("expected one existence check, got %d", store.existsCalls)
	}
}

func TestGenerateTokenRetriesOnCollision(t *testing.T) {
	store := seededStore()
	store.existsFirstN = 3
	engine := newTestEngine(t, testConfig(), store)

	token, err := engine.GenerateToken(context.Background(), "reset_token")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected token after retries")
	}
	if store.existsCalls != 4 {
		t.Fatalf("expected 4 existence checks, got %d", store.existsCalls)
	}
}

func TestGenerateTokenExhaustsRetryCap(t *testing.T) {
	store := seededStore()
	store.existsAlways = true

	cfg := testConfig()
	cfg.Token.MaxAttempts = 5
	engine := newTestEngine(t, cfg, store)

	_, err := engine.GenerateToken(context.Background(), "reset_token")
	if !errors.Is(err, ErrTokenRetriesExhausted) {
		t.Fatalf("expected ErrTokenRetriesExhausted, got %v", err)
	}
	if store.existsCalls != 5 {
		t.Fatalf("expected exactly 5 existence checks, got %d", store.existsCalls)
	}
}

func TestGenerateTokenPropagatesStoreFailure(t *testing.T) {
	store := seededStore()
	store.existsErr = ErrStoreUnavailable
	engine := newTestEngine(t, testConfig(), store)

	_, err := engine.GenerateToken(context.Background(), "reset_token")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestGenerateTokenUUIDStrategy(t *testing.T) {
	store := seededStore()

	cfg := testConfig()
	cfg.Token.Strategy = TokenUUID
	engine := newTestEngine(t, cfg, store)

	token, err := engine.GenerateToken(context.Background(), "confirmation_token")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if strings.Count(token, "-") != 4 {
		t.Fatalf("expected UUID-shaped token, got %q", token)
	}
}

func TestGenerateTokenOpaqueFormat(t *testing.T) {
	store := seededStore()
	engine := newTestEngine(t, testConfig(), store)

	token, err := engine.GenerateToken(context.Background(), "reset_token")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	// 32 raw bytes -> 43 base64url chars, no padding.
	if len(token) != 43 {
		t.Fatalf("expected 43-char token, got %d chars", len(token))
	}
	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("expected base64url alphabet, got %q", token)
	}
}

func TestGenerateTokenConcurrentCallsDistinct(t *testing.T) {
	store := seededStore()
	engine := newTestEngine(t, testConfig(), store)

	const workers = 64

	var wg sync.WaitGroup
	tokens := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = engine.GenerateToken(context.Background(), "reset_token")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, workers)
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d failed: %v", i, errs[i])
		}
		if _, dup := seen[tokens[i]]; dup {
			t.Fatalf("duplicate token %q", tokens[i])
		}
		seen[tokens[i]] = struct{}{}
	}
}
