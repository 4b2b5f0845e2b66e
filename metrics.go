package authcore

import internalmetrics "github.com/gpms-labs/authcore/internal/metrics"

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

// Counter identifiers exported for metric consumers and exporters.
const (
	MetricRegisterSuccess       = internalmetrics.MetricRegisterSuccess
	MetricRegisterDuplicate     = internalmetrics.MetricRegisterDuplicate
	MetricRegisterRateLimited   = internalmetrics.MetricRegisterRateLimited
	MetricProvisionSuccess      = internalmetrics.MetricProvisionSuccess
	MetricLoginSuccess          = internalmetrics.MetricLoginSuccess
	MetricLoginFailure          = internalmetrics.MetricLoginFailure
	MetricLoginRateLimited      = internalmetrics.MetricLoginRateLimited
	MetricStepUpIssued          = internalmetrics.MetricStepUpIssued
	MetricStepUpSuccess         = internalmetrics.MetricStepUpSuccess
	MetricStepUpFailure         = internalmetrics.MetricStepUpFailure
	MetricRefreshSuccess        = internalmetrics.MetricRefreshSuccess
	MetricRefreshFailure        = internalmetrics.MetricRefreshFailure
	MetricRefreshReplayDetected = internalmetrics.MetricRefreshReplayDetected
	MetricLogout                = internalmetrics.MetricLogout
	MetricLogoutAll             = internalmetrics.MetricLogoutAll
	MetricTOTPSetup             = internalmetrics.MetricTOTPSetup
	MetricTOTPConfirmSuccess    = internalmetrics.MetricTOTPConfirmSuccess
	MetricTOTPConfirmFailure    = internalmetrics.MetricTOTPConfirmFailure
	MetricTOTPDisabled          = internalmetrics.MetricTOTPDisabled
	MetricPasswordResetRequest  = internalmetrics.MetricPasswordResetRequest
	MetricPasswordResetSuccess  = internalmetrics.MetricPasswordResetSuccess
	MetricPasswordResetFailure  = internalmetrics.MetricPasswordResetFailure
	MetricPasswordChangeSuccess = internalmetrics.MetricPasswordChangeSuccess
	MetricPasswordChangeFailure = internalmetrics.MetricPasswordChangeFailure
	MetricEmailChangeSuccess    = internalmetrics.MetricEmailChangeSuccess
	MetricEmailChangeFailure    = internalmetrics.MetricEmailChangeFailure
	MetricMailEnqueued          = internalmetrics.MetricMailEnqueued
	MetricMailDropped           = internalmetrics.MetricMailDropped

	// MetricIDCount is the number of defined counters.
	MetricIDCount = internalmetrics.MetricIDCount
)

// Metrics holds atomic counters.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{Enabled: cfg.Enabled})
}

// MetricsSnapshot returns a point-in-time copy of all engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}
