package authcore

import (
	"context"
	"time"

	"github.com/gpms-labs/authcore/internal"
)

// ForgotPassword starts the reset flow. The response is identical whether
// or not the email is registered, so the endpoint cannot be used to probe
// for accounts. When the account exists, a fresh reset token is generated,
// only its hash is persisted (with a bounded expiry), and the raw token
// goes out through the notification collaborator.
func (e *Engine) ForgotPassword(ctx context.Context, email string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	email = normalizeEmail(email)

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return ErrStoreUnavailable
	}
	if user == nil {
		// Same outcome as the found case. Nothing persisted, nothing sent.
		e.emitAudit(ctx, auditEventResetRequest, true, "", email, nil, map[string]string{"known": "false"})
		return nil
	}

	rawToken, err := internal.NewResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(e.config.PasswordReset.TokenTTL)
	_, err = e.store.Update(ctx, user.ID, UserUpdate{
		ResetTokenHash: Set(internal.HashResetToken(rawToken)),
		ResetExpiresAt: Set(expiresAt),
	})
	if err != nil {
		return ErrStoreUnavailable
	}

	if e.dispatcher != nil {
		e.dispatcher.SendPasswordReset(user.Email, rawToken)
		e.metricInc(MetricMailEnqueued)
	}

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, auditEventResetRequest, true, user.ID, user.Email, nil, map[string]string{"known": "true"})
	return nil
}

// ResetPassword redeems a reset token. The raw token is hashed and matched
// against the stored hash; an unknown hash or a past expiry both fail with
// the same [ErrResetTokenInvalid]. On success the password is replaced,
// both reset fields are cleared, and every session is revoked.
func (e *Engine) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	if err := checkPasswordPolicy(newPassword); err != nil {
		return err
	}

	var user *UserRecord
	if rawToken != "" {
		var err error
		user, err = e.store.FindByResetTokenHash(ctx, internal.HashResetToken(rawToken))
		if err != nil {
			return ErrStoreUnavailable
		}
	}
	if user == nil || user.ResetTokenHash == "" || !user.ResetExpiresAt.After(time.Now()) {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventResetConfirm, false, "", "", ErrResetTokenInvalid, nil)
		return ErrResetTokenInvalid
	}

	newHash, err := e.passwordHash.Hash(ctx, newPassword)
	if err != nil {
		return err
	}

	_, err = e.store.Update(ctx, user.ID, UserUpdate{
		PasswordHash:   Set(newHash),
		ResetTokenHash: Clear[string](),
		ResetExpiresAt: Clear[time.Time](),
	})
	if err != nil {
		return ErrStoreUnavailable
	}

	if err := e.LogoutAll(ctx, user.ID); err != nil {
		return err
	}

	e.metricInc(MetricPasswordResetSuccess)
	e.emitAudit(ctx, auditEventResetConfirm, true, user.ID, user.Email, nil, nil)
	return nil
}
