package authcore

import (
	"context"
	"strings"

	"github.com/google/uuid"

	internalaudit "github.com/gpms-labs/authcore/internal/audit"
	"github.com/gpms-labs/authcore/internal/rate"
	"github.com/gpms-labs/authcore/jwt"
	"github.com/gpms-labs/authcore/password"
	"github.com/gpms-labs/authcore/session"
)

// Engine is the authentication orchestrator. It owns no business state of
// its own: identity data lives in the [CredentialStore], session state in
// Redis via [session.Store]. Engines are built through [Builder.Build] and
// safe for concurrent use afterwards.
type Engine struct {
	config       Config
	store        CredentialStore
	dispatcher   NotificationDispatcher
	sessionStore *session.Store
	rateLimiter  *rate.Limiter
	jwtManager   *jwt.Manager
	passwordHash *password.Hasher
	totp         *totpManager
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// normalizeEmail lowercases and trims an address; emails are unique
// case-insensitively and every store call uses the normalized form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issueTokenPair mints an access+refresh pair bound to the user's current
// revocation version and records the refresh session marker. The tokenID is
// fresh per issuance, so concurrent logins never collide in the store.
func (e *Engine) issueTokenPair(ctx context.Context, userID, email string) (*TokenPair, error) {
	version, err := e.sessionStore.Version(ctx, userID)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.NewString()

	accessToken, err := e.jwtManager.CreateAccess(userID, email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := e.jwtManager.CreateRefresh(userID, tokenID, version)
	if err != nil {
		return nil, err
	}

	if err := e.sessionStore.SaveRefreshSession(ctx, userID, tokenID, e.config.JWT.RefreshTTL); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// findUser loads a credential record by ID, mapping both "not found" and
// backend failure to the caller-visible contract.
func (e *Engine) findUser(ctx context.Context, userID string) (*UserRecord, error) {
	if userID == "" {
		return nil, ErrUserNotFound
	}
	user, err := e.store.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
