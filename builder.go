package authcore

import (
	"errors"

	"github.com/redis/go-redis/v9"

	internalaudit "github.com/gpms-labs/authcore/internal/audit"
	"github.com/gpms-labs/authcore/internal/rate"
	"github.com/gpms-labs/authcore/jwt"
	"github.com/gpms-labs/authcore/password"
	"github.com/gpms-labs/authcore/session"
)

// Builder assembles an [Engine]. Configure it during initialization, call
// Build once, and treat the result as immutable.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	store      CredentialStore
	dispatcher NotificationDispatcher
	auditSink  AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig]. Signing secrets
// have no defaults and must be supplied through [Builder.WithConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the full configuration. Zero-valued fields are filled
// from [DefaultConfig] at build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing the session store and the
// attempt throttles. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCredentialStore sets the persistence collaborator. Required.
func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithDispatcher sets the notification collaborator. Optional: without one,
// reset and welcome mail is simply not sent.
func (b *Builder) WithDispatcher(d NotificationDispatcher) *Builder {
	b.dispatcher = d
	return b
}

// WithAuditSink sets the destination for audit events. Optional; events are
// discarded without one.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires every component, and returns
// the ready engine. A Builder is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.store == nil {
		return nil, errors.New("credential store required")
	}

	cfg := fillConfigDefaults(b.config)

	jm, err := jwt.NewManager(jwt.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		StepUpTTL:     cfg.JWT.StepUpTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	ph, err := password.NewHasher(password.Config{
		Cost:          cfg.Password.Cost,
		MaxConcurrent: cfg.Password.MaxConcurrent,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       cfg,
		store:        b.store,
		dispatcher:   b.dispatcher,
		sessionStore: session.NewStore(b.redis, cfg.Session.RedisPrefix),
		jwtManager:   jm,
		passwordHash: ph,
		totp:         newTOTPManager(cfg.TOTP),
		metrics:      NewMetrics(cfg.Metrics),
	}

	if cfg.Throttle.MaxLoginAttempts > 0 || cfg.Throttle.MaxRegisterAttempts > 0 {
		engine.rateLimiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle:    cfg.Throttle.EnableIPThrottle,
			MaxLoginAttempts:    cfg.Throttle.MaxLoginAttempts,
			LoginCooldown:       cfg.Throttle.LoginCooldown,
			MaxRegisterAttempts: cfg.Throttle.MaxRegisterAttempts,
			RegisterCooldown:    cfg.Throttle.RegisterCooldown,
		})
	}

	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true

	return engine, nil
}
