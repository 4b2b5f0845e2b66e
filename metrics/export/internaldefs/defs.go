package internaldefs

import (
	"github.com/gpms-labs/authcore"
)

// CounterDef binds a counter slot to its published name and help text.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in publication order.
var CounterDefs = []CounterDef{
	{ID: authcore.MetricRegisterSuccess, Name: "authcore_register_success_total", Help: "Successful registrations."},
	{ID: authcore.MetricRegisterDuplicate, Name: "authcore_register_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: authcore.MetricRegisterRateLimited, Name: "authcore_register_rate_limited_total", Help: "Rate-limited registration attempts."},
	{ID: authcore.MetricProvisionSuccess, Name: "authcore_provision_success_total", Help: "Admin-provisioned accounts."},
	{ID: authcore.MetricLoginSuccess, Name: "authcore_login_success_total", Help: "Successful login attempts."},
	{ID: authcore.MetricLoginFailure, Name: "authcore_login_failure_total", Help: "Failed login attempts."},
	{ID: authcore.MetricLoginRateLimited, Name: "authcore_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: authcore.MetricStepUpIssued, Name: "authcore_step_up_issued_total", Help: "Logins deferred to a second factor."},
	{ID: authcore.MetricStepUpSuccess, Name: "authcore_step_up_success_total", Help: "Completed second-factor logins."},
	{ID: authcore.MetricStepUpFailure, Name: "authcore_step_up_failure_total", Help: "Failed second-factor logins."},
	{ID: authcore.MetricRefreshSuccess, Name: "authcore_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: authcore.MetricRefreshFailure, Name: "authcore_refresh_failure_total", Help: "Failed refresh attempts."},
	{ID: authcore.MetricRefreshReplayDetected, Name: "authcore_refresh_replay_detected_total", Help: "Detected refresh token replays."},
	{ID: authcore.MetricLogout, Name: "authcore_logout_total", Help: "Single-session logout operations."},
	{ID: authcore.MetricLogoutAll, Name: "authcore_logout_all_total", Help: "Logout-all operations."},
	{ID: authcore.MetricTOTPSetup, Name: "authcore_totp_setup_total", Help: "TOTP enrollment setups."},
	{ID: authcore.MetricTOTPConfirmSuccess, Name: "authcore_totp_confirm_success_total", Help: "Successful TOTP confirmations."},
	{ID: authcore.MetricTOTPConfirmFailure, Name: "authcore_totp_confirm_failure_total", Help: "Failed TOTP confirmations."},
	{ID: authcore.MetricTOTPDisabled, Name: "authcore_totp_disabled_total", Help: "TOTP disable operations."},
	{ID: authcore.MetricPasswordResetRequest, Name: "authcore_password_reset_request_total", Help: "Password reset requests."},
	{ID: authcore.MetricPasswordResetSuccess, Name: "authcore_password_reset_success_total", Help: "Successful password resets."},
	{ID: authcore.MetricPasswordResetFailure, Name: "authcore_password_reset_failure_total", Help: "Failed password reset confirmations."},
	{ID: authcore.MetricPasswordChangeSuccess, Name: "authcore_password_change_success_total", Help: "Successful password changes."},
	{ID: authcore.MetricPasswordChangeFailure, Name: "authcore_password_change_failure_total", Help: "Failed password changes."},
	{ID: authcore.MetricEmailChangeSuccess, Name: "authcore_email_change_success_total", Help: "Successful email changes."},
	{ID: authcore.MetricEmailChangeFailure, Name: "authcore_email_change_failure_total", Help: "Failed email changes."},
	{ID: authcore.MetricMailEnqueued, Name: "authcore_mail_enqueued_total", Help: "Notification messages handed to the dispatcher."},
	{ID: authcore.MetricMailDropped, Name: "authcore_mail_dropped_total", Help: "Notification messages dropped by the dispatcher."},
}
