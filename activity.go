package registration

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventUserRegistered   ActivityEventType = "registration.user.registered"
	ActivityEventAccountActivated ActivityEventType = "registration.account.activated"
	ActivityEventAccountApproved  ActivityEventType = "registration.account.approved"
	ActivityEventActivationResent ActivityEventType = "registration.activation.resent"
	ActivityEventAccountPurged    ActivityEventType = "registration.account.purged"
)

// ActivityEvent captures audit-friendly information about a lifecycle step.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	ProfileID  string
	Email      string
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
