package middleware

import (
	"errors"
	"net/http"

	"github.com/gpms-labs/authcore"
)

// StatusFor maps an engine error onto an HTTP status code: 409 for
// duplicate email, 401 for every credential/token/code failure, 400 for
// invalid state transitions and policy violations, 429 for spent attempt
// budgets, 500 otherwise.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, authcore.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, authcore.ErrInvalidCredentials),
		errors.Is(err, authcore.ErrUserNotFound),
		errors.Is(err, authcore.ErrAccessInvalid),
		errors.Is(err, authcore.ErrRefreshInvalid),
		errors.Is(err, authcore.ErrRefreshRevoked),
		errors.Is(err, authcore.ErrStepUpInvalid),
		errors.Is(err, authcore.ErrTwoFactorCodeInvalid),
		errors.Is(err, authcore.ErrResetTokenInvalid),
		errors.Is(err, authcore.ErrPasswordInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, authcore.ErrTwoFactorEnabled),
		errors.Is(err, authcore.ErrTwoFactorNotEnabled),
		errors.Is(err, authcore.ErrTwoFactorSetupRequired),
		errors.Is(err, authcore.ErrPasswordPolicy):
		return http.StatusBadRequest
	case errors.Is(err, authcore.ErrLoginRateLimited),
		errors.Is(err, authcore.ErrRegisterRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
