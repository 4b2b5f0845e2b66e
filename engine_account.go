package authcore

import (
	"context"
	"errors"

	"github.com/gpms-labs/authcore/internal"
	"github.com/gpms-labs/authcore/internal/rate"
)

const (
	minPasswordBytes = 8
	maxPasswordBytes = 72
)

func checkPasswordPolicy(plaintext string) error {
	if len(plaintext) < minPasswordBytes || len(plaintext) > maxPasswordBytes {
		return ErrPasswordPolicy
	}
	return nil
}

// Register creates a credential record for a self-service signup. The email
// is normalized to lower case; a duplicate (case-insensitive) fails with
// [ErrEmailTaken].
func (e *Engine) Register(ctx context.Context, email, plaintext string) (*RegisterResult, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	ip := clientIPFromContext(ctx)
	if e.rateLimiter != nil {
		if err := e.rateLimiter.CheckRegister(ctx, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricRegisterRateLimited)
				return nil, ErrRegisterRateLimited
			}
			return nil, ErrStoreUnavailable
		}
	}

	if err := checkPasswordPolicy(plaintext); err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	existing, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if existing != nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegister, false, "", email, ErrEmailTaken, nil)
		return nil, ErrEmailTaken
	}

	digest, err := e.passwordHash.Hash(ctx, plaintext)
	if err != nil {
		return nil, err
	}

	created, err := e.store.Create(ctx, UserRecord{
		Email:        email,
		PasswordHash: digest,
	})
	if err != nil || created == nil {
		return nil, ErrStoreUnavailable
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegister, true, created.ID, created.Email, nil, nil)

	return &RegisterResult{ID: created.ID, Email: created.Email}, nil
}

// ProvisionUser creates an account on someone's behalf with a generated
// temp password, flags the record for mandatory password change and 2FA
// setup, and dispatches the temp password by email. The temp password is
// never returned to the caller.
func (e *Engine) ProvisionUser(ctx context.Context, email string) (*RegisterResult, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	email = normalizeEmail(email)
	existing, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if existing != nil {
		e.emitAudit(ctx, auditEventProvision, false, "", email, ErrEmailTaken, nil)
		return nil, ErrEmailTaken
	}

	tempPassword, err := internal.NewTempPassword()
	if err != nil {
		return nil, err
	}
	digest, err := e.passwordHash.Hash(ctx, tempPassword)
	if err != nil {
		return nil, err
	}

	created, err := e.store.Create(ctx, UserRecord{
		Email:              email,
		PasswordHash:       digest,
		MustChangePassword: true,
		MustSetupTwoFactor: true,
	})
	if err != nil || created == nil {
		return nil, ErrStoreUnavailable
	}

	if e.dispatcher != nil {
		e.dispatcher.SendWelcomeEmail(created.Email, tempPassword)
		e.metricInc(MetricMailEnqueued)
	}

	e.metricInc(MetricProvisionSuccess)
	e.emitAudit(ctx, auditEventProvision, true, created.ID, created.Email, nil, nil)

	return &RegisterResult{ID: created.ID, Email: created.Email}, nil
}

// Profile returns the redacted credential view for an authenticated user.
func (e *Engine) Profile(ctx context.Context, userID string) (*Profile, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:                 user.ID,
		Email:              user.Email,
		TwoFactorEnabled:   user.TwoFactorEnabled,
		MustSetupTwoFactor: user.MustSetupTwoFactor,
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          user.CreatedAt,
	}, nil
}

// ChangePassword re-verifies the current password before storing the new
// hash. Every session is revoked afterwards unless this was the mandatory
// first-time change of a provisioned account, which has no prior sessions
// worth revoking.
func (e *Engine) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := e.passwordHash.Verify(ctx, currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChange, false, user.ID, user.Email, ErrPasswordInvalid, nil)
		return ErrPasswordInvalid
	}

	if err := checkPasswordPolicy(newPassword); err != nil {
		return err
	}
	digest, err := e.passwordHash.Hash(ctx, newPassword)
	if err != nil {
		return err
	}

	wasOnboarding := user.MustChangePassword
	if _, err := e.store.Update(ctx, user.ID, UserUpdate{
		PasswordHash:       Set(digest),
		MustChangePassword: Set(false),
	}); err != nil {
		return ErrStoreUnavailable
	}

	if !wasOnboarding {
		if err := e.LogoutAll(ctx, user.ID); err != nil {
			return err
		}
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChange, true, user.ID, user.Email, nil, map[string]string{
		"onboarding": boolString(wasOnboarding),
	})
	return nil
}

// ChangeEmail re-verifies the password, enforces email uniqueness, updates
// the record, and revokes every session.
func (e *Engine) ChangeEmail(ctx context.Context, userID, newEmail, plaintext string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := e.passwordHash.Verify(ctx, plaintext, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChange, false, user.ID, user.Email, ErrPasswordInvalid, nil)
		return ErrPasswordInvalid
	}

	newEmail = normalizeEmail(newEmail)
	existing, err := e.store.FindByEmail(ctx, newEmail)
	if err != nil {
		return ErrStoreUnavailable
	}
	if existing != nil && existing.ID != user.ID {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChange, false, user.ID, user.Email, ErrEmailTaken, nil)
		return ErrEmailTaken
	}

	if _, err := e.store.Update(ctx, user.ID, UserUpdate{Email: Set(newEmail)}); err != nil {
		return ErrStoreUnavailable
	}

	if err := e.LogoutAll(ctx, user.ID); err != nil {
		return err
	}

	e.metricInc(MetricEmailChangeSuccess)
	e.emitAudit(ctx, auditEventEmailChange, true, user.ID, newEmail, nil, nil)
	return nil
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
