package usecase

import (
	"context"
	"errors"
	"strings"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/google/uuid"
)

type contactUsecase struct {
	contactRepo     domain.ContactRepository
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(
	contactRepo domain.ContactRepository,
	applicationRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
) domain.ContactUsecase {
	return &contactUsecase{
		contactRepo:     contactRepo,
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
	}
}

// LogContact records a company-to-candidate interaction on an application.
// The company must own the posting behind the application; the candidate id
// is taken from the application, never from the caller.
func (uc *contactUsecase) LogContact(ctx context.Context, companyID uuid.UUID, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	if _, ok := domain.ParseContactType(string(msg.Type)); !ok {
		return nil, apperror.BadRequest("Unknown contact type: " + string(msg.Type))
	}
	if strings.TrimSpace(msg.Content) == "" {
		return nil, apperror.BadRequest("Content is required")
	}

	app, err := uc.loadOwnedApplication(ctx, companyID, msg.ApplicationID)
	if err != nil {
		return nil, err
	}

	entry := domain.NewContactMessage(app.ID, companyID, app.CandidateID, msg.Type, msg.Content, msg.ContactedAt)
	if err := uc.contactRepo.Create(ctx, entry); err != nil {
		return nil, apperror.Internal(err)
	}
	return entry, nil
}

// GetContact returns one entry to its company or its candidate
func (uc *contactUsecase) GetContact(ctx context.Context, requesterID, id uuid.UUID) (*domain.ContactMessage, error) {
	msg, err := uc.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Contact message not found")
		}
		return nil, apperror.Internal(err)
	}
	if requesterID != msg.CompanyID && requesterID != msg.CandidateID {
		return nil, apperror.Forbidden("You do not have access to this contact message")
	}
	return msg, nil
}

// ListByApplication returns an application's contact log to its candidate or
// the posting owner, optionally filtered by type and read state
func (uc *contactUsecase) ListByApplication(ctx context.Context, requesterID, applicationID uuid.UUID, filter domain.ContactFilter) ([]domain.ContactMessage, error) {
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

	messages, err := uc.contactRepo.FetchByApplication(ctx, applicationID, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return messages, nil
}

// AmendContact updates the type and content of an entry the company logged
func (uc *contactUsecase) AmendContact(ctx context.Context, companyID, id uuid.UUID, ctype, content string) (*domain.ContactMessage, error) {
	parsed, ok := domain.ParseContactType(ctype)
	if !ok {
		return nil, apperror.BadRequest("Unknown contact type: " + ctype)
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperror.BadRequest("Content is required")
	}

	msg, err := uc.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Contact message not found")
		}
		return nil, apperror.Internal(err)
	}
	if msg.CompanyID != companyID {
		return nil, apperror.Forbidden("You do not own this contact message")
	}

	msg.Amend(parsed, content)
	if err := uc.contactRepo.Update(ctx, msg); err != nil {
		return nil, apperror.Internal(err)
	}
	return msg, nil
}

// MarkRead flips the read flag for the candidate the entry is addressed to.
// Marking an already-read entry is a no-op, not an error.
func (uc *contactUsecase) MarkRead(ctx context.Context, candidateID, id uuid.UUID) (*domain.ContactMessage, error) {
	msg, err := uc.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Contact message not found")
		}
		return nil, apperror.Internal(err)
	}
	if msg.CandidateID != candidateID {
		return nil, apperror.Forbidden("You are not the recipient of this contact message")
	}

	if !msg.MarkRead() {
		return msg, nil
	}
	if err := uc.contactRepo.Update(ctx, msg); err != nil {
		return nil, apperror.Internal(err)
	}
	return msg, nil
}

// loadOwnedApplication loads an application and checks that the company owns
// the posting it belongs to
func (uc *contactUsecase) loadOwnedApplication(ctx context.Context, companyID, applicationID uuid.UUID) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
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
	return app, nil
}
