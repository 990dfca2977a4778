package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrVersionConflict = errors.New("stale version: resource was modified concurrently")
)

// ApplicationStatus enumerates the lifecycle states of a job application.
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusInReview  ApplicationStatus = "in_review"
	StatusAccepted  ApplicationStatus = "accepted"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
)

// legacyStatusRejection is the second rejection spelling used by the v1 API.
// It is accepted on input and canonicalized to StatusRejected; it is never
// written back out.
const legacyStatusRejection = "rejection"

// statusTransitions is the allowed-transition table. offer and rejected are
// terminal: their rows are present but empty.
var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:   {StatusInReview, StatusRejected},
	StatusInReview:  {StatusAccepted, StatusRejected, StatusInterview},
	StatusAccepted:  {StatusInterview, StatusOffer},
	StatusInterview: {StatusOffer, StatusRejected},
	StatusOffer:     {},
	StatusRejected:  {},
}

// ParseApplicationStatus validates a wire value and canonicalizes the legacy
// rejection alias. ok is false for anything outside the enumeration.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case StatusPending, StatusInReview, StatusAccepted, StatusInterview, StatusOffer, StatusRejected:
		return ApplicationStatus(s), true
	}
	if s == legacyStatusRejection {
		return StatusRejected, true
	}
	return "", false
}

// IsTerminal reports whether the status admits no outgoing transitions.
func (s ApplicationStatus) IsTerminal() bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the transition table allows moving from s
// to next. Unknown statuses on either side are never allowed.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Milestone is a single append-only timeline entry owned by one application.
// Entries are never edited or removed once recorded.
type Milestone struct {
	ID          uuid.UUID `json:"id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Description string    `json:"description"`
}

// DocumentRef points at a file attached to an application (CV, certificate).
// The file itself lives in object storage; only the reference is kept here.
type DocumentRef struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type,omitempty"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Application is the aggregate for one candidate's application to one job
// posting. Status changes go through Transition only; nothing outside this
// file assigns Status directly except the persistence layer scanning rows.
type Application struct {
	ID          uuid.UUID         `json:"id"`
	CandidateID uuid.UUID         `json:"candidate_id"`
	JobID       uuid.UUID         `json:"job_id"`
	Status      ApplicationStatus `json:"status"`
	Documents   []DocumentRef     `json:"documents"`
	Version     int64             `json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Timeline    []Milestone       `json:"timeline,omitempty"`

	// Joined data for list/detail responses
	CandidateName *string `json:"candidate_name,omitempty"`
	JobTitle      *string `json:"job_title,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`

	// events raised since load; each instance owns its own slice
	events []Event
}

// NewApplication creates an application in status pending with exactly one
// timeline entry stamped with the creation time.
func NewApplication(candidateID, jobID uuid.UUID, docs []DocumentRef) *Application {
	now := time.Now()
	app := &Application{
		ID:          uuid.New(),
		CandidateID: candidateID,
		JobID:       jobID,
		Status:      StatusPending,
		Documents:   docs,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	app.appendMilestone(now, fmt.Sprintf("Application created with status %s", StatusPending))
	app.raise(ApplicationReceivedEvent{
		ApplicationID: app.ID,
		CandidateID:   candidateID,
		JobID:         jobID,
		OccurredAt:    now,
	})
	return app
}

// Transition moves the application to next if the transition table allows it.
// On success it updates the status, appends exactly one timeline entry naming
// both the prior and the new status, and raises a status-changed event. On
// failure it returns false and leaves the aggregate completely untouched.
func (a *Application) Transition(next ApplicationStatus) bool {
	return a.transition(next, "")
}

// TransitionWithReview behaves like Transition but folds the recruiter's
// comment into the single timeline entry recorded for the change.
func (a *Application) TransitionWithReview(next ApplicationStatus, comment string) bool {
	return a.transition(next, comment)
}

func (a *Application) transition(next ApplicationStatus, comment string) bool {
	if !a.Status.CanTransitionTo(next) {
		return false
	}
	prev := a.Status
	now := time.Now()
	a.Status = next
	a.UpdatedAt = now

	desc := fmt.Sprintf("Status changed from %s to %s", prev, next)
	if comment != "" {
		desc = fmt.Sprintf("%s. Recruiter review: %s", desc, comment)
	}
	a.appendMilestone(now, desc)
	a.raise(ApplicationStatusChangedEvent{
		ApplicationID: a.ID,
		CandidateID:   a.CandidateID,
		JobID:         a.JobID,
		From:          prev,
		To:            next,
		OccurredAt:    now,
	})
	return true
}

// AttachDocument appends a document reference and notes it on the timeline.
func (a *Application) AttachDocument(doc DocumentRef) {
	a.Documents = append(a.Documents, doc)
	a.UpdatedAt = time.Now()
	a.appendMilestone(a.UpdatedAt, fmt.Sprintf("Document attached: %s", doc.Name))
}

// RecordNote appends a free-form timeline entry without touching the status.
func (a *Application) RecordNote(description string) {
	a.appendMilestone(time.Now(), description)
}

func (a *Application) appendMilestone(at time.Time, description string) {
	a.Timeline = append(a.Timeline, Milestone{
		ID:          uuid.New(),
		OccurredAt:  at,
		Description: description,
	})
}

func (a *Application) raise(evt Event) {
	a.events = append(a.events, evt)
}

// PullEvents drains and returns the events raised since the last call.
func (a *Application) PullEvents() []Event {
	evts := a.events
	a.events = nil
	return evts
}

// FileUpload carries an uploaded file body to the storage layer.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// ObjectStore persists uploaded files and returns their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ApplicationRepository defines data access for applications and their
// timelines. Save persists the current state together with any timeline
// entries appended since load in one transaction and fails with
// ErrVersionConflict when the stored version no longer matches the loaded
// one. Storage failures surface as errors, never as empty results.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	FetchByCandidate(ctx context.Context, candidateID uuid.UUID) ([]Application, error)
	FetchByJob(ctx context.Context, jobID uuid.UUID) ([]Application, error)
	Exists(ctx context.Context, jobID, candidateID uuid.UUID) (bool, error)
	Save(ctx context.Context, app *Application) error
}

// ApplicationUsecase defines business logic for applications.
type ApplicationUsecase interface {
	// Candidate operations
	Apply(ctx context.Context, candidateID, jobID uuid.UUID, docs []DocumentRef) (*Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*Application, error)
	ListMine(ctx context.Context, candidateID uuid.UUID) ([]Application, error)
	AttachDocument(ctx context.Context, candidateID, applicationID uuid.UUID, upload FileUpload) (*Application, error)

	// Company operations
	ListByJob(ctx context.Context, companyID, jobID uuid.UUID) ([]Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, requested string) (*Application, error)
	ReviewApplication(ctx context.Context, companyID, id uuid.UUID, requested, comment string) (*Application, error)
	ExportByJob(ctx context.Context, companyID, jobID uuid.UUID) ([]byte, string, error)
}
