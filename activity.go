package identity

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventSignup               ActivityEventType = "identity.signup"
	ActivityEventLoginSuccess         ActivityEventType = "identity.login.success"
	ActivityEventLoginFailure         ActivityEventType = "identity.login.failure"
	ActivityEventTokenRefresh         ActivityEventType = "identity.token.refresh"
	ActivityEventExternalLogin        ActivityEventType = "identity.login.external"
	ActivityEventPasswordChanged      ActivityEventType = "identity.password.changed"
	ActivityEventPasswordResetRequest ActivityEventType = "identity.password.reset.requested"
	ActivityEventPasswordResetSuccess ActivityEventType = "identity.password.reset"
	ActivityEventUserArchived         ActivityEventType = "identity.user.archived"
)

// ActivityEvent captures audit-friendly information about an action. The
// metadata here is operator-facing and may carry more detail than whatever
// error reached the caller.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
