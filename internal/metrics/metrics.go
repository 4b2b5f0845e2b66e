package metrics

import "sync/atomic"

// MetricID indexes a single counter slot.
type MetricID int

// Counter identifiers. Order is part of the export contract; append only.
const (
	MetricRegisterSuccess MetricID = iota
	MetricRegisterDuplicate
	MetricRegisterRateLimited
	MetricProvisionSuccess
	MetricLoginSuccess
	MetricLoginFailure
	MetricLoginRateLimited
	MetricStepUpIssued
	MetricStepUpSuccess
	MetricStepUpFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricRefreshReplayDetected
	MetricLogout
	MetricLogoutAll
	MetricTOTPSetup
	MetricTOTPConfirmSuccess
	MetricTOTPConfirmFailure
	MetricTOTPDisabled
	MetricPasswordResetRequest
	MetricPasswordResetSuccess
	MetricPasswordResetFailure
	MetricPasswordChangeSuccess
	MetricPasswordChangeFailure
	MetricEmailChangeSuccess
	MetricEmailChangeFailure
	MetricMailEnqueued
	MetricMailDropped

	MetricIDCount
)

// Config controls metric collection.
type Config struct {
	Enabled bool
}

// paddedCounter occupies a full cache line to avoid false sharing between
// adjacent counters under concurrent increments.
type paddedCounter struct {
	value uint64
	_     [56]byte
}

// Metrics holds atomic counters. A nil or disabled Metrics is a no-op.
type Metrics struct {
	enabled  bool
	counters [MetricIDCount]paddedCounter
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Counters [MetricIDCount]uint64
}

// New creates a Metrics instance. When cfg.Enabled is false all operations
// are no-ops and Snapshot returns zeroes.
func New(cfg Config) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc atomically increments the counter for id. Out-of-range IDs are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id < 0 || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Get returns the current value of a single counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || !m.enabled || id < 0 || id >= MetricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot deep-copies all counters.
func (m *Metrics) Snapshot() Snapshot {
	var snap Snapshot
	if m == nil || !m.enabled {
		return snap
	}
	for i := MetricID(0); i < MetricIDCount; i++ {
		snap.Counters[i] = atomic.LoadUint64(&m.counters[i].value)
	}
	return snap
}
