package goIdentity

import (
	"errors"
	"fmt"
	"strings"
)

// Config defines the per-identity-kind configuration consumed by
// [Builder.Build].
//
// Config instances are intended to be configured during initialization and
// then treated as immutable: after Build they are read concurrently without
// synchronization. One identity kind (admin, member, service account)
// gets one Config and one Engine.
type Config struct {
	Keys    KeysConfig
	Gates   GatesConfig
	Token   TokenConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
AUTHENTICATION KEYS
====================================
*/

// KeysConfig lists the authentication-key fields for this identity kind.
//
// KeysConfig instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type KeysConfig struct {
	// AuthenticationKeys is the ordered required-field set used by default
	// resolution. Order is preserved; membership is fixed per engine.
	AuthenticationKeys []string
	// CaseInsensitiveKeys are lowercased by the sanitizer before lookup.
	CaseInsensitiveKeys []string
	// StripWhitespaceKeys have surrounding whitespace removed by the
	// sanitizer before lookup.
	StripWhitespaceKeys []string
}

/*
====================================
STRATEGY GATES
====================================
*/

// StrategyGate is one channel gate setting: either a blanket boolean or an
// explicit allow-list of strategy names. The zero value denies every
// strategy; misconfiguration fails restrictive, never open.
type StrategyGate struct {
	// AllowAll permits every strategy on this channel when true. It is
	// consulted only when Strategies is empty.
	AllowAll bool
	// Strategies, when non-empty, is the exhaustive allow-list for this
	// channel. AllowAll is ignored while it is set.
	Strategies []string
}

// GatesConfig holds the per-channel strategy gates consulted by the outer
// middleware before an authentication attempt is allowed to run.
//
// GatesConfig instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type GatesConfig struct {
	HTTPAuthenticatable   StrategyGate
	ParamsAuthenticatable StrategyGate
}

/*
====================================
TOKEN GENERATION
====================================
*/

// TokenStrategyType selects how opaque token candidates are produced.
//
// TokenStrategyType instances are intended to be configured during
// initialization and then treated as immutable unless documented otherwise.
type TokenStrategyType int

const (
	// TokenOpaque produces base64url-encoded crypto/rand bytes.
	TokenOpaque TokenStrategyType = iota
	// TokenUUID produces random (version 4) UUID strings.
	TokenUUID
)

// TokenConfig controls opaque token generation.
//
// TokenConfig instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	Strategy TokenStrategyType
	// RawLength is the number of random bytes per TokenOpaque candidate
	// before encoding. Ignored by TokenUUID.
	RawLength int
	// MaxAttempts caps the collision-retry loop. Hitting the cap returns
	// ErrTokenRetriesExhausted instead of looping unbounded against a
	// misbehaving store.
	MaxAttempts int
}

/*
====================================
AUDIT / METRICS
====================================
*/

// AuditConfig controls the async audit dispatcher.
//
// AuditConfig instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counter set.
//
// MetricsConfig instances are intended to be configured during
// initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

/*
====================================
DEFAULTS
====================================
*/

// DefaultConfig returns the configuration a fresh [Builder] starts from:
// email as the single authentication key, both channel gates closed, opaque
// 32-byte tokens with a 1000-attempt cap, audit and metrics off.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Keys: KeysConfig{
			AuthenticationKeys:  []string{"email"},
			CaseInsensitiveKeys: []string{"email"},
			StripWhitespaceKeys: []string{"email"},
		},
		Gates: GatesConfig{
			// Deny-by-default: integrators opt channels in explicitly.
			HTTPAuthenticatable:   StrategyGate{},
			ParamsAuthenticatable: StrategyGate{},
		},
		Token: TokenConfig{
			Strategy:    TokenOpaque,
			RawLength:   32,
			MaxAttempts: 1000,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Keys.AuthenticationKeys = cloneStrings(cfg.Keys.AuthenticationKeys)
	out.Keys.CaseInsensitiveKeys = cloneStrings(cfg.Keys.CaseInsensitiveKeys)
	out.Keys.StripWhitespaceKeys = cloneStrings(cfg.Keys.StripWhitespaceKeys)
	out.Gates.HTTPAuthenticatable.Strategies = cloneStrings(cfg.Gates.HTTPAuthenticatable.Strategies)
	out.Gates.ParamsAuthenticatable.Strategies = cloneStrings(cfg.Gates.ParamsAuthenticatable.Strategies)
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for values that would make the engine
// unsafe or ambiguous at runtime. Build calls it; it can also be called
// directly when configs are assembled from external sources.
func (c *Config) Validate() error {
	// Authentication keys
	if len(c.Keys.AuthenticationKeys) == 0 {
		return errors.New("Keys.AuthenticationKeys must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Keys.AuthenticationKeys))
	for _, key := range c.Keys.AuthenticationKeys {
		if strings.TrimSpace(key) == "" {
			return errors.New("Keys.AuthenticationKeys must not contain blank names")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("Keys.AuthenticationKeys contains duplicate %q", key)
		}
		seen[key] = struct{}{}
	}

	// Token generation
	switch c.Token.Strategy {
	case TokenOpaque:
		if c.Token.RawLength < 16 {
			return errors.New("Token.RawLength must be >= 16 bytes for opaque tokens")
		}
	case TokenUUID:
		// RawLength unused
	default:
		return errors.New("Token.Strategy is not a known strategy")
	}
	if c.Token.MaxAttempts < 1 {
		return errors.New("Token.MaxAttempts must be >= 1")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
