package authcore

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/gpms-labs/authcore/internal/audit"
)

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

const (
	auditEventRegister         = "account.register"
	auditEventProvision        = "account.provision"
	auditEventLoginSuccess     = "login.success"
	auditEventLoginFailure     = "login.failure"
	auditEventLoginRateLimited = "login.rate_limited"
	auditEventStepUpRequired   = "login.step_up_required"
	auditEventStepUpSuccess    = "login.step_up_success"
	auditEventStepUpFailure    = "login.step_up_failure"
	auditEventRefreshSuccess   = "refresh.success"
	auditEventRefreshFailure   = "refresh.failure"
	auditEventRefreshReplay    = "refresh.replay_detected"
	auditEventLogout           = "logout"
	auditEventLogoutAll        = "logout.all"
	auditEventTOTPSetup        = "totp.setup"
	auditEventTOTPConfirm      = "totp.confirm"
	auditEventTOTPDisable      = "totp.disable"
	auditEventResetRequest     = "password.reset_request"
	auditEventResetConfirm     = "password.reset_confirm"
	auditEventPasswordChange   = "password.change"
	auditEventEmailChange      = "email.change"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID, email string,
	opErr error,
	metadata map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		Success:   success,
		Metadata:  metadata,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	e.audit.Emit(ctx, event)
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}
