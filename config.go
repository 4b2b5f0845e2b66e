package authcore

import "time"

// Config is the engine configuration. Zero values are filled from
// [DefaultConfig] at build time; secrets have no defaults and must be set.
type Config struct {
	JWT           JWTConfig
	TOTP          TOTPConfig
	Password      PasswordConfig
	PasswordReset PasswordResetConfig
	Throttle      ThrottleConfig
	Session       SessionConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

// JWTConfig carries the signing secrets and lifetimes for the three token
// kinds. Access and refresh secrets must differ; the step-up token reuses
// the access secret with its own TTL.
type JWTConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	StepUpTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// TOTPConfig tunes second-factor verification. Skew is measured in time
// steps, not seconds: Skew=1 accepts the adjacent ±1 Period windows.
type TOTPConfig struct {
	Issuer    string
	Digits    int
	Period    int
	Algorithm string
	Skew      int
}

// PasswordConfig tunes the bcrypt hasher.
type PasswordConfig struct {
	Cost          int
	MaxConcurrent int
}

// PasswordResetConfig tunes the forgot/reset-password flow.
type PasswordResetConfig struct {
	TokenTTL time.Duration
}

// ThrottleConfig tunes the Redis-backed attempt budgets.
type ThrottleConfig struct {
	EnableIPThrottle    bool
	MaxLoginAttempts    int
	LoginCooldown       time.Duration
	MaxRegisterAttempts int
	RegisterCooldown    time.Duration
}

// SessionConfig tunes the Redis session store.
type SessionConfig struct {
	RedisPrefix string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns production defaults: 15m access, 5m step-up, 7d
// refresh, 1h reset tokens, 6-digit 30s TOTP with ±1 step skew, bcrypt
// cost 12.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			StepUpTTL:  5 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "authcore",
		},
		TOTP: TOTPConfig{
			Issuer:    "GPMS Todo",
			Digits:    6,
			Period:    30,
			Algorithm: "SHA1",
			Skew:      1,
		},
		Password: PasswordConfig{
			Cost:          12,
			MaxConcurrent: 8,
		},
		PasswordReset: PasswordResetConfig{
			TokenTTL: time.Hour,
		},
		Throttle: ThrottleConfig{
			EnableIPThrottle:    true,
			MaxLoginAttempts:    10,
			LoginCooldown:       15 * time.Minute,
			MaxRegisterAttempts: 5,
			RegisterCooldown:    time.Hour,
		},
		Session: SessionConfig{
			RedisPrefix: "ac",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func fillConfigDefaults(cfg Config) Config {
	def := DefaultConfig()

	if cfg.JWT.AccessTTL <= 0 {
		cfg.JWT.AccessTTL = def.JWT.AccessTTL
	}
	if cfg.JWT.StepUpTTL <= 0 {
		cfg.JWT.StepUpTTL = def.JWT.StepUpTTL
	}
	if cfg.JWT.RefreshTTL <= 0 {
		cfg.JWT.RefreshTTL = def.JWT.RefreshTTL
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = def.JWT.Issuer
	}
	if cfg.TOTP.Issuer == "" {
		cfg.TOTP.Issuer = def.TOTP.Issuer
	}
	if cfg.TOTP.Digits <= 0 {
		cfg.TOTP.Digits = def.TOTP.Digits
	}
	if cfg.TOTP.Period <= 0 {
		cfg.TOTP.Period = def.TOTP.Period
	}
	if cfg.TOTP.Algorithm == "" {
		cfg.TOTP.Algorithm = def.TOTP.Algorithm
	}
	if cfg.TOTP.Skew < 0 {
		cfg.TOTP.Skew = def.TOTP.Skew
	}
	if cfg.Password.Cost <= 0 {
		cfg.Password.Cost = def.Password.Cost
	}
	if cfg.Password.MaxConcurrent <= 0 {
		cfg.Password.MaxConcurrent = def.Password.MaxConcurrent
	}
	if cfg.PasswordReset.TokenTTL <= 0 {
		cfg.PasswordReset.TokenTTL = def.PasswordReset.TokenTTL
	}
	if cfg.Session.RedisPrefix == "" {
		cfg.Session.RedisPrefix = def.Session.RedisPrefix
	}
	if cfg.Audit.BufferSize <= 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}

	return cfg
}
