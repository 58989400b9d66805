package goIdentity

import (
	"errors"

	internalaudit "github.com/MrEthical07/goIdentity/internal/audit"
	internalmetrics "github.com/MrEthical07/goIdentity/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine] for one identity kind.
//
// Builder instances are intended to be configured during initialization and
// then consumed exactly once by Build.
type Builder struct {
	config Config
	store  SubjectStore
	redis  *redis.Client
	stages []EligibilityStage

	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the storage collaborator. Exactly one of WithStore or
// WithRedis must be provided.
func (b *Builder) WithStore(store SubjectStore) *Builder {
	b.store = store
	return b
}

// WithRedis wires the bundled [RedisSubjectStore] on top of the given
// client. Exactly one of WithStore or WithRedis must be provided.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithEligibilityStage appends a feature stage to the eligibility chain.
// Stages run after the base active-subject stage, in registration order.
func (b *Builder) WithEligibilityStage(stage EligibilityStage) *Builder {
	if stage != nil {
		b.stages = append(b.stages, stage)
	}
	return b
}

// WithAuditSink sets the sink that receives audit events when auditing is
// enabled in the configuration.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counter set.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and produces an immutable Engine. A
// builder can be consumed only once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		if b.redis == nil {
			return nil, errors.New("subject store required (WithStore or WithRedis)")
		}
		store = NewRedisSubjectStore(b.redis, defaultRedisPrefix, cfg.Keys.AuthenticationKeys)
	} else if b.redis != nil {
		return nil, errors.New("WithStore and WithRedis are mutually exclusive")
	}

	stages := make([]EligibilityStage, 0, len(b.stages)+1)
	stages = append(stages, baseEligibilityStage{})
	stages = append(stages, b.stages...)

	engine := &Engine{
		cfg:     cfg,
		store:   store,
		stages:  stages,
		metrics: internalmetrics.New(internalmetrics.Config{Enabled: cfg.Metrics.Enabled}),
		dispatcher: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	b.built = true
	return engine, nil
}
