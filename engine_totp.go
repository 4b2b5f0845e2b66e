package authcore

import (
	"context"
	"time"
)

// SetupTwoFactor begins TOTP enrollment: it generates a fresh secret,
// stores it as the pending secret, and returns the secret together with an
// otpauth provisioning URI for QR rendering. Calling it again before
// confirmation simply regenerates the pending secret. Fails with
// [ErrTwoFactorEnabled] once enrollment is complete.
func (e *Engine) SetupTwoFactor(ctx context.Context, userID string) (*TwoFactorSetup, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, ErrTwoFactorEnabled
	}

	secret, err := e.totp.GenerateSecret()
	if err != nil {
		return nil, err
	}

	if _, err := e.store.Update(ctx, user.ID, UserUpdate{TwoFactorTempSecret: Set(secret)}); err != nil {
		return nil, ErrStoreUnavailable
	}

	e.metricInc(MetricTOTPSetup)
	e.emitAudit(ctx, auditEventTOTPSetup, true, user.ID, user.Email, nil, nil)
	return &TwoFactorSetup{
		Secret:          secret,
		ProvisioningURI: e.totp.ProvisionURI(secret, user.Email),
	}, nil
}

// ConfirmTwoFactor completes enrollment by checking a code against the
// pending secret. On success the pending secret is promoted to the
// permanent one and 2FA turns on. Requires a prior SetupTwoFactor:
// [ErrTwoFactorSetupRequired] when no pending secret exists,
// [ErrTwoFactorEnabled] when enrollment already finished.
func (e *Engine) ConfirmTwoFactor(ctx context.Context, userID, code string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorEnabled {
		return ErrTwoFactorEnabled
	}
	if user.TwoFactorTempSecret == "" {
		return ErrTwoFactorSetupRequired
	}

	ok, err := e.totp.VerifyCode(user.TwoFactorTempSecret, code, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		e.metricInc(MetricTOTPConfirmFailure)
		e.emitAudit(ctx, auditEventTOTPConfirm, false, user.ID, user.Email, ErrTwoFactorCodeInvalid, nil)
		return ErrTwoFactorCodeInvalid
	}

	_, err = e.store.Update(ctx, user.ID, UserUpdate{
		TwoFactorSecret:     Set(user.TwoFactorTempSecret),
		TwoFactorTempSecret: Clear[string](),
		TwoFactorEnabled:    Set(true),
		MustSetupTwoFactor:  Set(false),
	})
	if err != nil {
		return ErrStoreUnavailable
	}

	e.metricInc(MetricTOTPConfirmSuccess)
	e.emitAudit(ctx, auditEventTOTPConfirm, true, user.ID, user.Email, nil, nil)
	return nil
}

// AuthenticateTwoFactor finishes a step-up login. The caller must have
// already resolved userID from a step-up token (see ValidateStepUp); this
// method checks the code against the permanent secret and, on success,
// mints the full token pair. Fails with [ErrTwoFactorNotEnabled] when 2FA
// is off and [ErrTwoFactorCodeInvalid] on a wrong code.
func (e *Engine) AuthenticateTwoFactor(ctx context.Context, userID, code string) (*TokenPair, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.TwoFactorEnabled || user.TwoFactorSecret == "" {
		return nil, ErrTwoFactorNotEnabled
	}

	ok, err := e.totp.VerifyCode(user.TwoFactorSecret, code, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		e.metricInc(MetricStepUpFailure)
		e.emitAudit(ctx, auditEventStepUpFailure, false, user.ID, user.Email, ErrTwoFactorCodeInvalid, nil)
		return nil, ErrTwoFactorCodeInvalid
	}

	tokens, err := e.issueTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricStepUpSuccess)
	e.emitAudit(ctx, auditEventStepUpSuccess, true, user.ID, user.Email, nil, nil)
	return tokens, nil
}

// DisableTwoFactor turns 2FA off. It demands both the account password and
// a currently valid code, so neither a stolen password nor a stolen device
// alone can downgrade the account. Both secret fields are cleared on
// success.
func (e *Engine) DisableTwoFactor(ctx context.Context, userID, plaintext, code string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled || user.TwoFactorSecret == "" {
		return ErrTwoFactorNotEnabled
	}

	ok, err := e.passwordHash.Verify(ctx, plaintext, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		e.emitAudit(ctx, auditEventTOTPDisable, false, user.ID, user.Email, ErrPasswordInvalid, nil)
		return ErrPasswordInvalid
	}

	ok, err = e.totp.VerifyCode(user.TwoFactorSecret, code, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		e.emitAudit(ctx, auditEventTOTPDisable, false, user.ID, user.Email, ErrTwoFactorCodeInvalid, nil)
		return ErrTwoFactorCodeInvalid
	}

	_, err = e.store.Update(ctx, user.ID, UserUpdate{
		TwoFactorSecret:     Clear[string](),
		TwoFactorTempSecret: Clear[string](),
		TwoFactorEnabled:    Set(false),
	})
	if err != nil {
		return ErrStoreUnavailable
	}

	e.metricInc(MetricTOTPDisabled)
	e.emitAudit(ctx, auditEventTOTPDisable, true, user.ID, user.Email, nil, nil)
	return nil
}
