package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a domain notification published to external consumers. Delivery is
// fire-and-forget: a publish failure is logged and never rolls back the
// operation that raised the event.
type Event interface {
	Channel() string
}

// ApplicationReceivedEvent is raised when a candidate applies to a posting.
type ApplicationReceivedEvent struct {
	ApplicationID uuid.UUID `json:"application_id"`
	CandidateID   uuid.UUID `json:"candidate_id"`
	JobID         uuid.UUID `json:"job_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (ApplicationReceivedEvent) Channel() string { return "applications.received" }

// ApplicationStatusChangedEvent is raised on every successful transition.
type ApplicationStatusChangedEvent struct {
	ApplicationID uuid.UUID         `json:"application_id"`
	CandidateID   uuid.UUID         `json:"candidate_id"`
	JobID         uuid.UUID         `json:"job_id"`
	From          ApplicationStatus `json:"from"`
	To            ApplicationStatus `json:"to"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

func (ApplicationStatusChangedEvent) Channel() string { return "applications.status_changed" }

// FeedbackSentEvent is raised when a recruiter sends feedback to a candidate.
type FeedbackSentEvent struct {
	FeedbackID    uuid.UUID    `json:"feedback_id"`
	ApplicationID uuid.UUID    `json:"application_id"`
	CandidateID   uuid.UUID    `json:"candidate_id"`
	Type          FeedbackType `json:"type"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

func (FeedbackSentEvent) Channel() string { return "feedback.sent" }

// AccountSuspendedEvent is raised when repeated failed logins suspend an
// account.
type AccountSuspendedEvent struct {
	AccountID  uuid.UUID `json:"account_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (AccountSuspendedEvent) Channel() string { return "accounts.suspended" }

// EventPublisher delivers events to whoever listens. Implementations must be
// safe for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}
