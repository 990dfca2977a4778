package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"
	"go-talentflow-backend/pkg/email"
	"go-talentflow-backend/pkg/logger"

	"github.com/google/uuid"
)

type feedbackUsecase struct {
	feedbackRepo    domain.FeedbackRepository
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	accountRepo     domain.AccountRepository
	applications    domain.ApplicationUsecase
	publisher       domain.EventPublisher
	mailer          *email.EmailService
}

// NewFeedbackUsecase creates a new feedback usecase
func NewFeedbackUsecase(
	feedbackRepo domain.FeedbackRepository,
	applicationRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	accountRepo domain.AccountRepository,
	applications domain.ApplicationUsecase,
	publisher domain.EventPublisher,
	mailer *email.EmailService,
) domain.FeedbackUsecase {
	return &feedbackUsecase{
		feedbackRepo:    feedbackRepo,
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		accountRepo:     accountRepo,
		applications:    applications,
		publisher:       publisher,
		mailer:          mailer,
	}
}

// SendFeedback stores recruiter feedback for an application. Approval moves
// the application to offer and rejection moves it to rejected; when that
// transition is not allowed from the current status, nothing is stored.
func (uc *feedbackUsecase) SendFeedback(ctx context.Context, companyID uuid.UUID, fb *domain.Feedback) (*domain.Feedback, error) {
	// 1. Validate the feedback itself
	if _, ok := domain.ParseFeedbackType(string(fb.Type)); !ok {
		return nil, apperror.BadRequest("Unknown feedback type: " + string(fb.Type))
	}
	if strings.TrimSpace(fb.Message) == "" {
		return nil, apperror.BadRequest("Message is required")
	}
	if !fb.HasValidReason() {
		return nil, apperror.BadRequest("Rejection feedback requires a reason")
	}

	// 2. Load the application and check the company owns its posting
	app, err := uc.applicationRepo.GetByID(ctx, fb.ApplicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	job, err := uc.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if job.CompanyID != companyID {
		return nil, apperror.Forbidden("You do not own this job posting")
	}

	// 3. Approval and rejection drive the application through the regular
	// transition rules before anything is persisted
	switch fb.Type {
	case domain.FeedbackApproval:
		if _, err := uc.applications.ReviewApplication(ctx, companyID, app.ID, string(domain.StatusOffer), fb.Message); err != nil {
			return nil, err
		}
	case domain.FeedbackRejection:
		if _, err := uc.applications.ReviewApplication(ctx, companyID, app.ID, string(domain.StatusRejected), *fb.RejectReason); err != nil {
			return nil, err
		}
	}

	// 4. Persist the feedback
	fb.ID = uuid.New()
	fb.CompanyID = companyID
	fb.CandidateID = app.CandidateID
	if err := uc.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, apperror.Internal(err)
	}

	// 5. Notify the candidate, best effort
	uc.notifyCandidate(ctx, fb, app)

	return fb, nil
}

// GetFeedback returns one feedback entry to its company or its candidate
func (uc *feedbackUsecase) GetFeedback(ctx context.Context, requesterID, id uuid.UUID) (*domain.Feedback, error) {
	fb, err := uc.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Feedback not found")
		}
		return nil, apperror.Internal(err)
	}
	if requesterID != fb.CompanyID && requesterID != fb.CandidateID {
		return nil, apperror.Forbidden("You do not have access to this feedback")
	}
	return fb, nil
}

// ListByApplication returns all feedback on an application, newest first
func (uc *feedbackUsecase) ListByApplication(ctx context.Context, requesterID, applicationID uuid.UUID) ([]domain.Feedback, error) {
	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	if requesterID != app.CandidateID {
		job, err := uc.jobRepo.GetByID(ctx, app.JobID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if job.CompanyID != requesterID {
			return nil, apperror.Forbidden("You do not have access to this application")
		}
	}

	feedbacks, err := uc.feedbackRepo.FetchByApplication(ctx, applicationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return feedbacks, nil
}

// notifyCandidate publishes the event and emails the formatted message.
// Failures are logged and never surfaced: the feedback is already stored.
func (uc *feedbackUsecase) notifyCandidate(ctx context.Context, fb *domain.Feedback, app *domain.Application) {
	evt := domain.FeedbackSentEvent{
		FeedbackID:    fb.ID,
		ApplicationID: fb.ApplicationID,
		CandidateID:   fb.CandidateID,
		Type:          fb.Type,
		OccurredAt:    time.Now(),
	}
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		logger.Log.Warn("failed to publish event", "channel", evt.Channel(), "error", err.Error())
	}

	if !uc.mailer.IsConfigured() {
		return
	}
	account, err := uc.accountRepo.GetByProfileID(ctx, fb.CandidateID)
	if err != nil {
		logger.Log.Warn("failed to resolve candidate email for feedback", "candidate_id", fb.CandidateID.String(), "error", err.Error())
		return
	}

	data := email.FeedbackEmailData{Message: fb.FormattedMessage()}
	if app.JobTitle != nil {
		data.JobTitle = *app.JobTitle
	}
	if app.CompanyName != nil {
		data.CompanyName = *app.CompanyName
	}

	go func(to string, data email.FeedbackEmailData) {
		if err := uc.mailer.SendFeedbackEmail(to, data); err != nil {
			logger.Log.Error("failed to send feedback email", "error", err.Error())
		}
	}(account.Email, data)
}
