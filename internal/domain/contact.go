package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContactType enumerates how a company reached out to a candidate.
type ContactType string

const (
	ContactEmail     ContactType = "email"
	ContactCall      ContactType = "call"
	ContactInterview ContactType = "interview"
	ContactOther     ContactType = "other"
)

// ParseContactType validates a wire value.
func ParseContactType(s string) (ContactType, bool) {
	switch ContactType(s) {
	case ContactEmail, ContactCall, ContactInterview, ContactOther:
		return ContactType(s), true
	}
	return "", false
}

// ContactMessage is one logged interaction from a company to the candidate
// behind an application: an email sent, a call made, an interview held. It is
// a standalone log entry, unlike Feedback it never drives the application
// lifecycle. The candidate flips the read flag; everything else belongs to
// the company.
type ContactMessage struct {
	ID            uuid.UUID   `json:"id"`
	ApplicationID uuid.UUID   `json:"application_id"`
	CompanyID     uuid.UUID   `json:"company_id"`
	CandidateID   uuid.UUID   `json:"candidate_id"`
	Type          ContactType `json:"type"`
	Content       string      `json:"content"`
	ContactedAt   time.Time   `json:"contacted_at"`
	Read          bool        `json:"read"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewContactMessage logs a contact against an application. contactedAt is
// when the interaction happened; zero means "now".
func NewContactMessage(applicationID, companyID, candidateID uuid.UUID, ctype ContactType, content string, contactedAt time.Time) *ContactMessage {
	now := time.Now()
	if contactedAt.IsZero() {
		contactedAt = now
	}
	return &ContactMessage{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		CompanyID:     companyID,
		CandidateID:   candidateID,
		Type:          ctype,
		Content:       content,
		ContactedAt:   contactedAt,
		Read:          false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MarkRead flips the read flag. It reports whether anything changed so
// callers can skip the write for an already-read message.
func (m *ContactMessage) MarkRead() bool {
	if m.Read {
		return false
	}
	m.Read = true
	m.UpdatedAt = time.Now()
	return true
}

// Amend updates the mutable parts of the entry. Read messages stay amendable:
// correcting a typo in a logged call note must not require un-reading it.
func (m *ContactMessage) Amend(ctype ContactType, content string) {
	m.Type = ctype
	m.Content = content
	m.UpdatedAt = time.Now()
}

// ContactFilter narrows a per-application contact listing.
type ContactFilter struct {
	Type *ContactType
	Read *bool
}

// ContactRepository defines data access for contact messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *ContactMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*ContactMessage, error)
	FetchByApplication(ctx context.Context, applicationID uuid.UUID, filter ContactFilter) ([]ContactMessage, error)
	Update(ctx context.Context, msg *ContactMessage) error
}

// ContactUsecase defines business logic for the company-to-candidate contact
// log. Companies create and amend entries on applications to their own
// postings; candidates mark the entries addressed to them as read.
type ContactUsecase interface {
	LogContact(ctx context.Context, companyID uuid.UUID, msg *ContactMessage) (*ContactMessage, error)
	GetContact(ctx context.Context, requesterID, id uuid.UUID) (*ContactMessage, error)
	ListByApplication(ctx context.Context, requesterID, applicationID uuid.UUID, filter ContactFilter) ([]ContactMessage, error)
	AmendContact(ctx context.Context, companyID, id uuid.UUID, ctype, content string) (*ContactMessage, error)
	MarkRead(ctx context.Context, candidateID, id uuid.UUID) (*ContactMessage, error)
}
