package jwt

import (
	"bytes"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid is the single verification failure signal. Expiry, bad
// signature, and malformed payloads are deliberately indistinguishable to
// callers so the API cannot be used as a validation oracle.
var ErrTokenInvalid = errors.New("invalid token")

// Config holds the signing secrets and lifetimes for every token kind.
// Access and step-up tokens share the access secret; refresh tokens use
// their own, so neither kind can ever verify as the other.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	StepUpTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// Manager signs and verifies tokens. Managers are immutable after creation
// and safe for concurrent use.
type Manager struct {
	config Config
}

// AccessClaims is the payload of access and step-up tokens. A step-up token
// is an access-secret token with TwoFactorVerified=false and a short TTL;
// guards must check the flag before treating it as a full session.
type AccessClaims struct {
	Email             string `json:"email"`
	TwoFactorVerified bool   `json:"tfv"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of refresh tokens. ID (jti) is the
// per-issuance token identifier keyed in the session store; Version is the
// revocation version active when the token was minted.
type RefreshClaims struct {
	Version int64 `json:"ver"`
	jwt.RegisteredClaims
}

// NewManager validates the configuration and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("access and refresh secrets are required")
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.StepUpTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg}, nil
}

// CreateAccess mints a fully-authenticated access token.
func (m *Manager) CreateAccess(userID, email string) (string, error) {
	return m.signAccess(userID, email, true, m.config.AccessTTL)
}

// CreateStepUp mints the short-lived mid-login token handed out when a
// second factor is still outstanding.
func (m *Manager) CreateStepUp(userID, email string) (string, error) {
	return m.signAccess(userID, email, false, m.config.StepUpTTL)
}

func (m *Manager) signAccess(userID, email string, verified bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email:             email,
		TwoFactorVerified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.AccessSecret)
}

// CreateRefresh mints a refresh token bound to a fresh tokenID and the
// user's current revocation version.
func (m *Manager) CreateRefresh(userID, tokenID string, version int64) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        tokenID,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.RefreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.RefreshSecret)
}

// ParseAccess verifies an access-secret token (full or step-up) and returns
// its claims. Every failure mode collapses to [ErrTokenInvalid].
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenStr, claims, m.config.AccessSecret); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token and returns its claims. Every
// failure mode collapses to [ErrTokenInvalid].
func (m *Manager) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenStr, claims, m.config.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *Manager) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
