package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FeedbackType enumerates the kinds of recruiter feedback.
type FeedbackType string

const (
	FeedbackApproval  FeedbackType = "approval"
	FeedbackRejection FeedbackType = "rejection"
	FeedbackComment   FeedbackType = "comment"
	FeedbackOther     FeedbackType = "other"
)

// ParseFeedbackType validates a wire value.
func ParseFeedbackType(s string) (FeedbackType, bool) {
	switch FeedbackType(s) {
	case FeedbackApproval, FeedbackRejection, FeedbackComment, FeedbackOther:
		return FeedbackType(s), true
	}
	return "", false
}

// Feedback is one message from a company to the candidate behind an
// application. Rejection feedback must carry a reason.
type Feedback struct {
	ID            uuid.UUID    `json:"id"`
	ApplicationID uuid.UUID    `json:"application_id"`
	CompanyID     uuid.UUID    `json:"company_id"`
	CandidateID   uuid.UUID    `json:"candidate_id"`
	Type          FeedbackType `json:"type"`
	Message       string       `json:"message"`
	RejectReason  *string      `json:"reject_reason,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// HasValidReason reports whether the feedback satisfies the reason rule:
// rejections need a non-empty reason, every other type needs none.
func (f *Feedback) HasValidReason() bool {
	if f.Type != FeedbackRejection {
		return true
	}
	return f.RejectReason != nil && *f.RejectReason != ""
}

// FormattedMessage renders the candidate-facing text for this feedback.
func (f *Feedback) FormattedMessage() string {
	switch f.Type {
	case FeedbackApproval:
		return fmt.Sprintf("Congratulations! %s", f.Message)
	case FeedbackRejection:
		reason := ""
		if f.RejectReason != nil {
			reason = *f.RejectReason
		}
		return fmt.Sprintf("We are sorry. %s. Reason: %s", f.Message, reason)
	default:
		return f.Message
	}
}

// FeedbackRepository defines data access methods for feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *Feedback) error
	GetByID(ctx context.Context, id uuid.UUID) (*Feedback, error)
	FetchByApplication(ctx context.Context, applicationID uuid.UUID) ([]Feedback, error)
}

// FeedbackUsecase defines business logic for recruiter feedback. Approval
// feedback drives the application to offer and rejection feedback drives it
// to rejected, both through the regular transition rules; a transition the
// table disallows fails the whole feedback operation.
type FeedbackUsecase interface {
	SendFeedback(ctx context.Context, companyID uuid.UUID, fb *Feedback) (*Feedback, error)
	GetFeedback(ctx context.Context, requesterID, id uuid.UUID) (*Feedback, error)
	ListByApplication(ctx context.Context, requesterID, applicationID uuid.UUID) ([]Feedback, error)
}
