package authcore

import (
	"context"
	"errors"

	"github.com/gpms-labs/authcore/internal/rate"
)

// Login verifies the password and either completes the session (2FA
// disabled) or hands out a step-up token (2FA enabled). Unknown email and
// wrong password are indistinguishable: both fail with
// [ErrInvalidCredentials].
func (e *Engine) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	email = normalizeEmail(email)
	ip := clientIPFromContext(ctx)

	if e.rateLimiter != nil {
		if err := e.rateLimiter.CheckLogin(ctx, email, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, auditEventLoginRateLimited, false, "", email, ErrLoginRateLimited, nil)
				return nil, ErrLoginRateLimited
			}
			return nil, ErrStoreUnavailable
		}
	}

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrStoreUnavailable
	}

	var ok bool
	if user != nil {
		ok, err = e.passwordHash.Verify(ctx, plaintext, user.PasswordHash)
		if err != nil {
			return nil, err
		}
	}
	// Unknown email and bad password share one error value so callers
	// cannot probe which addresses are registered.
	if user == nil || !ok {
		if e.rateLimiter != nil {
			_ = e.rateLimiter.IncrementLogin(ctx, email, ip)
		}
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", email, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	if e.rateLimiter != nil {
		_ = e.rateLimiter.ResetLogin(ctx, email, ip)
	}

	if user.TwoFactorEnabled {
		tempToken, err := e.jwtManager.CreateStepUp(user.ID, user.Email)
		if err != nil {
			return nil, err
		}
		e.metricInc(MetricStepUpIssued)
		e.emitAudit(ctx, auditEventStepUpRequired, true, user.ID, user.Email, nil, nil)
		return &LoginResult{RequiresTwoFactor: true, TempToken: tempToken}, nil
	}

	tokens, err := e.issueTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, user.Email, nil, nil)
	return &LoginResult{Tokens: tokens}, nil
}

// Refresh rotates a refresh token: verify, check the revocation version,
// atomically consume the session marker, and mint a fresh pair. Replaying
// an already-rotated token fails with [ErrRefreshRevoked] — the consume
// step is a single atomic check-and-delete, so of two concurrent replays at
// most one can win.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwtManager.ParseRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, "", "", ErrRefreshInvalid, nil)
		return nil, ErrRefreshInvalid
	}

	currentVersion, err := e.sessionStore.Version(ctx, claims.Subject)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if claims.Version != currentVersion {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, claims.Subject, "", ErrRefreshRevoked, nil)
		return nil, ErrRefreshRevoked
	}

	consumed, err := e.sessionStore.ConsumeRefreshSession(ctx, claims.Subject, claims.ID)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if !consumed {
		e.metricInc(MetricRefreshReplayDetected)
		e.emitAudit(ctx, auditEventRefreshReplay, false, claims.Subject, "", ErrRefreshRevoked, map[string]string{
			"token_id": claims.ID,
		})
		return nil, ErrRefreshRevoked
	}

	user, err := e.findUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	tokens, err := e.issueTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, user.ID, user.Email, nil, nil)
	return tokens, nil
}

// Logout deletes the session marker for the presented refresh token. It is
// deliberately best-effort: an unverifiable token or a subject mismatch is
// a silent no-op, keeping logout idempotent and free of verification
// oracles. Only backend unavailability surfaces as an error.
func (e *Engine) Logout(ctx context.Context, userID, refreshToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	claims, err := e.jwtManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil
	}
	if claims.Subject != userID {
		return nil
	}

	if err := e.sessionStore.DeleteRefreshSession(ctx, claims.Subject, claims.ID); err != nil {
		return ErrStoreUnavailable
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, userID, "", nil, nil)
	return nil
}

// LogoutAll bumps the revocation version, invalidating every outstanding
// refresh token on its next use. Access tokens already in the wild stay
// valid until their own expiry — a deliberate bounded-exposure tradeoff,
// capped by the access TTL.
func (e *Engine) LogoutAll(ctx context.Context, userID string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if userID == "" {
		return ErrUserNotFound
	}

	if _, err := e.sessionStore.BumpVersion(ctx, userID, e.config.JWT.RefreshTTL); err != nil {
		return ErrStoreUnavailable
	}

	e.metricInc(MetricLogoutAll)
	e.emitAudit(ctx, auditEventLogoutAll, true, userID, "", nil, nil)
	return nil
}
