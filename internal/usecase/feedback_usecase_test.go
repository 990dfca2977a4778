package usecase_test

import (
	"context"
	"testing"

	"go-talentflow-backend/config"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/internal/usecase"
	"go-talentflow-backend/pkg/apperror"
	"go-talentflow-backend/pkg/email"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockApplicationUC struct {
	mock.Mock
}

func (m *MockApplicationUC) Apply(ctx context.Context, candidateID, jobID uuid.UUID, docs []domain.DocumentRef) (*domain.Application, error) {
	args := m.Called(ctx, candidateID, jobID, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUC) GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUC) ListMine(ctx context.Context, candidateID uuid.UUID) ([]domain.Application, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationUC) AttachDocument(ctx context.Context, candidateID, applicationID uuid.UUID, upload domain.FileUpload) (*domain.Application, error) {
	args := m.Called(ctx, candidateID, applicationID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUC) ListByJob(ctx context.Context, companyID, jobID uuid.UUID) ([]domain.Application, error) {
	args := m.Called(ctx, companyID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationUC) UpdateStatus(ctx context.Context, id uuid.UUID, requested string) (*domain.Application, error) {
	args := m.Called(ctx, id, requested)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUC) ReviewApplication(ctx context.Context, companyID, id uuid.UUID, requested, comment string) (*domain.Application, error) {
	args := m.Called(ctx, companyID, id, requested, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUC) ExportByJob(ctx context.Context, companyID, jobID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, companyID, jobID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type feedbackEnv struct {
	feedbackRepo    *MockFeedbackRepo
	applicationRepo *MockApplicationRepo
	jobRepo         *MockJobRepo
	accountRepo     *MockAccountRepo
	applications    *MockApplicationUC
	uc              domain.FeedbackUsecase
}

func newFeedbackEnv() *feedbackEnv {
	env := &feedbackEnv{
		feedbackRepo:    new(MockFeedbackRepo),
		applicationRepo: new(MockApplicationRepo),
		jobRepo:         new(MockJobRepo),
		accountRepo:     new(MockAccountRepo),
		applications:    new(MockApplicationUC),
	}
	env.uc = usecase.NewFeedbackUsecase(
		env.feedbackRepo,
		env.applicationRepo,
		env.jobRepo,
		env.accountRepo,
		env.applications,
		quietPublisher(),
		email.NewEmailService(&config.Config{}), // SMTP unset, emails are skipped
	)
	return env
}

func TestSendFeedback(t *testing.T) {
	companyID := uuid.New()
	candidateID := uuid.New()

	setupApplication := func(env *feedbackEnv, status domain.ApplicationStatus) *domain.Application {
		job := openJob(companyID)
		app := domain.NewApplication(candidateID, job.ID, nil)
		app.Status = status
		app.PullEvents()
		env.applicationRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		env.jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		return app
	}

	t.Run("Should store approval feedback and drive the application to offer", func(t *testing.T) {
		env := newFeedbackEnv()
		app := setupApplication(env, domain.StatusAccepted)

		env.applications.On("ReviewApplication", mock.Anything, companyID, app.ID, "offer", "Great fit for the team").Return(app, nil)
		env.feedbackRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Feedback")).Return(nil)

		fb := &domain.Feedback{
			ApplicationID: app.ID,
			Type:          domain.FeedbackApproval,
			Message:       "Great fit for the team",
		}
		stored, err := env.uc.SendFeedback(context.Background(), companyID, fb)
		assert.NoError(t, err)
		assert.Equal(t, companyID, stored.CompanyID)
		assert.Equal(t, candidateID, stored.CandidateID)
		assert.NotEqual(t, uuid.Nil, stored.ID)
		env.applications.AssertExpectations(t)
		env.feedbackRepo.AssertExpectations(t)
	})

	t.Run("Should drive rejection feedback to rejected with the reason", func(t *testing.T) {
		env := newFeedbackEnv()
		app := setupApplication(env, domain.StatusInterview)

		reason := "Position filled internally"
		env.applications.On("ReviewApplication", mock.Anything, companyID, app.ID, "rejected", reason).Return(app, nil)
		env.feedbackRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Feedback")).Return(nil)

		fb := &domain.Feedback{
			ApplicationID: app.ID,
			Type:          domain.FeedbackRejection,
			Message:       "Thank you for your time",
			RejectReason:  &reason,
		}
		_, err := env.uc.SendFeedback(context.Background(), companyID, fb)
		assert.NoError(t, err)
		env.applications.AssertExpectations(t)
	})

	t.Run("Should refuse rejection feedback without a reason", func(t *testing.T) {
		env := newFeedbackEnv()

		fb := &domain.Feedback{
			ApplicationID: uuid.New(),
			Type:          domain.FeedbackRejection,
			Message:       "Thank you for your time",
		}
		_, err := env.uc.SendFeedback(context.Background(), companyID, fb)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Rejection feedback requires a reason")
		env.feedbackRepo.AssertNotCalled(t, "Create")
		env.applications.AssertNotCalled(t, "ReviewApplication")
	})

	t.Run("Should not store feedback when the transition is refused", func(t *testing.T) {
		env := newFeedbackEnv()
		app := setupApplication(env, domain.StatusPending)

		// pending cannot jump straight to offer
		env.applications.On("ReviewApplication", mock.Anything, companyID, app.ID, "offer", "Welcome aboard").
			Return(nil, apperror.BadRequest("Transition from pending to offer is not allowed"))

		fb := &domain.Feedback{
			ApplicationID: app.ID,
			Type:          domain.FeedbackApproval,
			Message:       "Welcome aboard",
		}
		_, err := env.uc.SendFeedback(context.Background(), companyID, fb)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
		env.feedbackRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Should keep comment feedback away from the lifecycle", func(t *testing.T) {
		env := newFeedbackEnv()
		app := setupApplication(env, domain.StatusInReview)

		env.feedbackRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Feedback")).Return(nil)

		fb := &domain.Feedback{
			ApplicationID: app.ID,
			Type:          domain.FeedbackComment,
			Message:       "We will get back to you next week",
		}
		_, err := env.uc.SendFeedback(context.Background(), companyID, fb)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusInReview, app.Status)
		env.applications.AssertNotCalled(t, "ReviewApplication")
	})

	t.Run("Should refuse feedback on another company's posting", func(t *testing.T) {
		env := newFeedbackEnv()
		job := openJob(uuid.New()) // different owner
		app := domain.NewApplication(candidateID, job.ID, nil)
		app.PullEvents()
		env.applicationRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		env.jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

		fb := &domain.Feedback{
			ApplicationID: app.ID,
			Type:          domain.FeedbackComment,
			Message:       "Hello",
		}
		_, err := env.uc.SendFeedback(context.Background(), companyID, fb)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "You do not own this job posting")
	})

	t.Run("Should reject an unknown feedback type", func(t *testing.T) {
		env := newFeedbackEnv()

		fb := &domain.Feedback{
			ApplicationID: uuid.New(),
			Type:          "praise",
			Message:       "Nice",
		}
		_, err := env.uc.SendFeedback(context.Background(), companyID, fb)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown feedback type")
	})
}

func TestFeedbackAccess(t *testing.T) {
	companyID := uuid.New()
	candidateID := uuid.New()

	t.Run("Should let both sides read one feedback entry", func(t *testing.T) {
		env := newFeedbackEnv()
		fb := &domain.Feedback{
			ID:            uuid.New(),
			ApplicationID: uuid.New(),
			CompanyID:     companyID,
			CandidateID:   candidateID,
			Type:          domain.FeedbackComment,
			Message:       "Hello",
		}
		env.feedbackRepo.On("GetByID", mock.Anything, fb.ID).Return(fb, nil)

		_, err := env.uc.GetFeedback(context.Background(), companyID, fb.ID)
		assert.NoError(t, err)
		_, err = env.uc.GetFeedback(context.Background(), candidateID, fb.ID)
		assert.NoError(t, err)

		_, err = env.uc.GetFeedback(context.Background(), uuid.New(), fb.ID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "do not have access")
	})

	t.Run("Should let the candidate list feedback on their application", func(t *testing.T) {
		env := newFeedbackEnv()
		job := openJob(companyID)
		app := domain.NewApplication(candidateID, job.ID, nil)
		app.PullEvents()
		env.applicationRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		env.feedbackRepo.On("FetchByApplication", mock.Anything, app.ID).Return([]domain.Feedback{}, nil)

		_, err := env.uc.ListByApplication(context.Background(), candidateID, app.ID)
		assert.NoError(t, err)
		env.jobRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Should hide the list from unrelated profiles", func(t *testing.T) {
		env := newFeedbackEnv()
		job := openJob(companyID)
		app := domain.NewApplication(candidateID, job.ID, nil)
		app.PullEvents()
		env.applicationRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		env.jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

		_, err := env.uc.ListByApplication(context.Background(), uuid.New(), app.ID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "do not have access")
		env.feedbackRepo.AssertNotCalled(t, "FetchByApplication")
	})
}
