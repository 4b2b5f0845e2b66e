package authcore

import "errors"

// Sentinel errors returned by Engine operations. They map onto three
// user-visible classes: conflict (duplicate email), unauthorized (bad
// credentials, invalid/expired/revoked tokens, wrong codes, missing users),
// and bad request (invalid state transitions). Verification failures never
// reveal which underlying check failed.
var (
	// ErrEmailTaken is returned when registering or changing to an email
	// that already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when an authenticated subject no longer
	// resolves to a credential record.
	ErrUserNotFound = errors.New("user not found")
	// ErrLoginRateLimited is returned when the login attempt budget is spent.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrRegisterRateLimited is returned when the registration budget is spent.
	ErrRegisterRateLimited = errors.New("registration rate limited")
	// ErrAccessInvalid covers every cryptographic access-token failure,
	// including a step-up token presented where a full token is required.
	ErrAccessInvalid = errors.New("invalid access token")
	// ErrRefreshInvalid covers every cryptographic refresh-token failure.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrRefreshRevoked is returned for stale-version and already-consumed
	// (replayed) refresh tokens.
	ErrRefreshRevoked = errors.New("refresh token revoked")
	// ErrStepUpInvalid covers every step-up token failure.
	ErrStepUpInvalid = errors.New("invalid step-up token")
	// ErrTwoFactorEnabled rejects setup/confirm when 2FA is already on.
	ErrTwoFactorEnabled = errors.New("two-factor authentication already enabled")
	// ErrTwoFactorNotEnabled rejects authenticate/disable when 2FA is off.
	ErrTwoFactorNotEnabled = errors.New("two-factor authentication not enabled")
	// ErrTwoFactorSetupRequired rejects confirm before any setup call.
	ErrTwoFactorSetupRequired = errors.New("two-factor setup required first")
	// ErrTwoFactorCodeInvalid is returned for wrong or out-of-window codes.
	ErrTwoFactorCodeInvalid = errors.New("invalid authentication code")
	// ErrResetTokenInvalid covers unknown, consumed, and expired reset tokens.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
	// ErrPasswordInvalid is returned by re-verification gates (change
	// password/email, disable 2FA) on mismatch.
	ErrPasswordInvalid = errors.New("invalid password")
	// ErrPasswordPolicy rejects new passwords below the minimum length or
	// beyond the bcrypt input limit.
	ErrPasswordPolicy = errors.New("password does not meet policy")
	// ErrStoreUnavailable wraps collaborator/backend failures surfaced to
	// callers as a generic internal condition.
	ErrStoreUnavailable = errors.New("credential backend unavailable")
	// ErrEngineNotReady is returned when a dependency was not wired.
	ErrEngineNotReady = errors.New("engine not initialized")
)
