package usecase_test

import (
	"context"
	"strings"
	"testing"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/internal/usecase"
	"go-talentflow-backend/pkg/apperror"
	"go-talentflow-backend/pkg/security"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newApplicationUsecase(appRepo *MockApplicationRepo, jobRepo *MockJobRepo) domain.ApplicationUsecase {
	return usecase.NewApplicationUsecase(appRepo, jobRepo, quietPublisher(), quietCache(), new(MockObjectStore))
}

func openJob(companyID uuid.UUID) *domain.Job {
	return &domain.Job{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Title:        "Backend Engineer",
		Status:       domain.JobOpen,
		ContractType: domain.ContractFullTime,
	}
}

func TestApply(t *testing.T) {
	candidateID := uuid.New()

	t.Run("Should create a pending application with one timeline entry", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockJobRepo := new(MockJobRepo)
		uc := newApplicationUsecase(mockAppRepo, mockJobRepo)

		job := openJob(uuid.New())
		mockJobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		mockAppRepo.On("Exists", mock.Anything, job.ID, candidateID).Return(false, nil)
		mockAppRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(nil)

		app, err := uc.Apply(context.Background(), candidateID, job.ID, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPending, app.Status)
		assert.Len(t, app.Timeline, 1)
		assert.Equal(t, "Application created with status pending", app.Timeline[0].Description)
		mockAppRepo.AssertExpectations(t)
	})

	t.Run("Should refuse a closed posting", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockJobRepo := new(MockJobRepo)
		uc := newApplicationUsecase(mockAppRepo, mockJobRepo)

		job := openJob(uuid.New())
		job.Status = domain.JobClosed
		mockJobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

		_, err := uc.Apply(context.Background(), candidateID, job.ID, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot apply to a closed job posting")
		mockAppRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Should refuse a second application to the same posting", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockJobRepo := new(MockJobRepo)
		uc := newApplicationUsecase(mockAppRepo, mockJobRepo)

		job := openJob(uuid.New())
		mockJobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		mockAppRepo.On("Exists", mock.Anything, job.ID, candidateID).Return(true, nil)

		_, err := uc.Apply(context.Background(), candidateID, job.ID, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already applied")
		mockAppRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Should surface a missing posting as not found", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockJobRepo := new(MockJobRepo)
		uc := newApplicationUsecase(mockAppRepo, mockJobRepo)

		jobID := uuid.New()
		mockJobRepo.On("GetByID", mock.Anything, jobID).Return(nil, domain.ErrNotFound)

		_, err := uc.Apply(context.Background(), candidateID, jobID, nil)
		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestUpdateStatus(t *testing.T) {
	candidateID := uuid.New()
	jobID := uuid.New()

	newPendingApp := func() *domain.Application {
		app := domain.NewApplication(candidateID, jobID, nil)
		app.PullEvents()
		return app
	}

	t.Run("Should move pending to in_review and add one timeline entry", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		app := newPendingApp()
		mockAppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		mockAppRepo.On("Save", mock.Anything, app).Return(nil)

		updated, err := uc.UpdateStatus(context.Background(), app.ID, "in_review")
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusInReview, updated.Status)
		assert.Len(t, updated.Timeline, 2)
		assert.Equal(t, "Status changed from pending to in_review", updated.Timeline[1].Description)
	})

	t.Run("Should refuse in_review to offer and leave the timeline alone", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		app := newPendingApp()
		app.Transition(domain.StatusInReview)
		mockAppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

		_, err := uc.UpdateStatus(context.Background(), app.ID, "offer")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Transition from in_review to offer is not allowed")
		assert.Equal(t, domain.StatusInReview, app.Status)
		assert.Len(t, app.Timeline, 2)
		mockAppRepo.AssertNotCalled(t, "Save")
	})

	t.Run("Should walk the whole path to an offer and then stop", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		app := newPendingApp()
		mockAppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		mockAppRepo.On("Save", mock.Anything, app).Return(nil)

		for _, next := range []string{"in_review", "interview", "offer"} {
			_, err := uc.UpdateStatus(context.Background(), app.ID, next)
			assert.NoError(t, err)
		}
		assert.Equal(t, domain.StatusOffer, app.Status)
		assert.Len(t, app.Timeline, 4)

		// offer is terminal
		_, err := uc.UpdateStatus(context.Background(), app.ID, "rejected")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
		assert.Len(t, app.Timeline, 4)
	})

	t.Run("Should accept the legacy rejection spelling", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		app := newPendingApp()
		mockAppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		mockAppRepo.On("Save", mock.Anything, app).Return(nil)

		updated, err := uc.UpdateStatus(context.Background(), app.ID, "rejection")
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, updated.Status)
		assert.Equal(t, "Status changed from pending to rejected", updated.Timeline[1].Description)
	})

	t.Run("Should reject an unknown status value", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		_, err := uc.UpdateStatus(context.Background(), uuid.New(), "archived")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown application status: archived")
		mockAppRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Should map a concurrent modification to a conflict", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		app := newPendingApp()
		mockAppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		mockAppRepo.On("Save", mock.Anything, app).Return(domain.ErrVersionConflict)

		_, err := uc.UpdateStatus(context.Background(), app.ID, "in_review")
		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 409, appErr.Code)
	})
}

func TestReviewApplication(t *testing.T) {
	companyID := uuid.New()
	candidateID := uuid.New()

	t.Run("Should fold the recruiter comment into the timeline entry", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockJobRepo := new(MockJobRepo)
		uc := newApplicationUsecase(mockAppRepo, mockJobRepo)

		job := openJob(companyID)
		app := domain.NewApplication(candidateID, job.ID, nil)
		app.PullEvents()

		mockJobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		mockAppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		mockAppRepo.On("Save", mock.Anything, app).Return(nil)

		updated, err := uc.ReviewApplication(context.Background(), companyID, app.ID, "in_review", "Strong CV")
		assert.NoError(t, err)
		assert.Len(t, updated.Timeline, 2)
		assert.Equal(t, "Status changed from pending to in_review. Recruiter review: Strong CV", updated.Timeline[1].Description)
	})

	t.Run("Should refuse a company that does not own the posting", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockJobRepo := new(MockJobRepo)
		uc := newApplicationUsecase(mockAppRepo, mockJobRepo)

		job := openJob(uuid.New()) // owned by someone else
		app := domain.NewApplication(candidateID, job.ID, nil)
		app.PullEvents()

		mockJobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		mockAppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

		_, err := uc.ReviewApplication(context.Background(), companyID, app.ID, "in_review", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "You do not own this job posting")
		assert.Equal(t, domain.StatusPending, app.Status)
		mockAppRepo.AssertNotCalled(t, "Save")
	})
}

func TestAttachDocument(t *testing.T) {
	candidateID := uuid.New()

	t.Run("Should upload the file and append the reference", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockStore := new(MockObjectStore)
		uc := usecase.NewApplicationUsecase(mockAppRepo, new(MockJobRepo), quietPublisher(), quietCache(), mockStore)

		app := domain.NewApplication(candidateID, uuid.New(), nil)
		app.PullEvents()

		mockAppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		mockStore.On("Upload", mock.Anything, mock.AnythingOfType("string"), "application/pdf", mock.Anything).
			Return("https://bucket.example.com/cv.pdf", nil).
			Run(func(args mock.Arguments) {
				key := args.String(1)
				assert.True(t, strings.HasPrefix(key, "applications/"+app.ID.String()+"/documents/"))
				assert.True(t, strings.HasSuffix(key, ".pdf"))
			})
		mockAppRepo.On("Save", mock.Anything, app).Return(nil)

		updated, err := uc.AttachDocument(context.Background(), candidateID, app.ID, domain.FileUpload{
			Name:        "cv.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.4"),
		})
		assert.NoError(t, err)
		assert.Len(t, updated.Documents, 1)
		assert.Equal(t, "https://bucket.example.com/cv.pdf", updated.Documents[0].URL)
		mockStore.AssertExpectations(t)
	})

	t.Run("Should refuse an upload by someone else", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		app := domain.NewApplication(candidateID, uuid.New(), nil)
		app.PullEvents()
		mockAppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

		_, err := uc.AttachDocument(context.Background(), uuid.New(), app.ID, domain.FileUpload{
			Name: "cv.pdf",
			Data: []byte("%PDF-1.4"),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "do not own this application")
	})

	t.Run("Should refuse an empty file", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		_, err := uc.AttachDocument(context.Background(), candidateID, uuid.New(), domain.FileUpload{Name: "cv.pdf"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "file is empty")
	})

	t.Run("Should refuse a file whose content does not match its extension", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockStore := new(MockObjectStore)
		uc := usecase.NewApplicationUsecase(mockAppRepo, new(MockJobRepo), quietPublisher(), quietCache(), mockStore)

		// An executable renamed to .pdf must never reach storage
		_, err := uc.AttachDocument(context.Background(), candidateID, uuid.New(), domain.FileUpload{
			Name:        "cv.pdf",
			ContentType: "application/pdf",
			Data:        []byte{0x4D, 0x5A, 0x90, 0x00, 0x03, 0x00, 0x00, 0x00},
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not match extension")
		mockStore.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should refuse a disallowed extension", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		_, err := uc.AttachDocument(context.Background(), candidateID, uuid.New(), domain.FileUpload{
			Name: "cv.exe",
			Data: []byte{0x4D, 0x5A, 0x90, 0x00},
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "extension not allowed")
	})

	t.Run("Should refuse an oversized document", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		uc := newApplicationUsecase(mockAppRepo, new(MockJobRepo))

		big := make([]byte, security.MaxDocumentBytes+1)
		copy(big, "%PDF-1.4")
		_, err := uc.AttachDocument(context.Background(), candidateID, uuid.New(), domain.FileUpload{
			Name: "cv.pdf",
			Data: big,
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "limit")
	})
}

func TestListByJob(t *testing.T) {
	companyID := uuid.New()

	t.Run("Should list applications for the posting owner", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockJobRepo := new(MockJobRepo)
		uc := newApplicationUsecase(mockAppRepo, mockJobRepo)

		job := openJob(companyID)
		apps := []domain.Application{
			{ID: uuid.New(), JobID: job.ID, Status: domain.StatusPending},
			{ID: uuid.New(), JobID: job.ID, Status: domain.StatusInReview},
		}
		mockJobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		mockAppRepo.On("FetchByJob", mock.Anything, job.ID).Return(apps, nil)

		got, err := uc.ListByJob(context.Background(), companyID, job.ID)
		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Should hide the list from other companies", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockJobRepo := new(MockJobRepo)
		uc := newApplicationUsecase(mockAppRepo, mockJobRepo)

		job := openJob(uuid.New())
		mockJobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

		_, err := uc.ListByJob(context.Background(), companyID, job.ID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "You do not own this job posting")
		mockAppRepo.AssertNotCalled(t, "FetchByJob")
	})
}

func TestExportByJob(t *testing.T) {
	companyID := uuid.New()

	t.Run("Should produce a spreadsheet named after the posting", func(t *testing.T) {
		mockAppRepo := new(MockApplicationRepo)
		mockJobRepo := new(MockJobRepo)
		uc := newApplicationUsecase(mockAppRepo, mockJobRepo)

		job := openJob(companyID)
		job.Title = "Senior Backend Engineer"
		candidateName := "Dana"
		apps := []domain.Application{
			{ID: uuid.New(), JobID: job.ID, Status: domain.StatusInReview, CandidateName: &candidateName},
		}
		mockJobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		mockAppRepo.On("FetchByJob", mock.Anything, job.ID).Return(apps, nil)

		data, filename, err := uc.ExportByJob(context.Background(), companyID, job.ID)
		assert.NoError(t, err)
		assert.NotEmpty(t, data)
		assert.True(t, strings.HasPrefix(filename, "applications_senior_backend_engineer_"))
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	})
}
