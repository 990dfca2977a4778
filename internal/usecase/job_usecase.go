package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/google/uuid"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
}

// NewJobUsecase creates a new job usecase
func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

// CreateJob validates and publishes a new posting for the company
func (uc *jobUsecase) CreateJob(ctx context.Context, companyID uuid.UUID, job *domain.Job) error {
	// 1. Validate the posting
	if err := validateJobFields(job); err != nil {
		return err
	}

	// 2. Fill server-side fields and publish immediately
	job.ID = uuid.New()
	job.CompanyID = companyID
	job.Status = domain.JobOpen
	job.PublishedAt = time.Now()
	job.ClosedAt = nil

	if err := uc.jobRepo.Create(ctx, job); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// GetJob returns one posting with its requirements
func (uc *jobUsecase) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job posting not found")
		}
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// ListOpenJobs returns one page of open postings, newest first
func (uc *jobUsecase) ListOpenJobs(ctx context.Context, page, pageSize int) ([]domain.Job, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	jobs, total, err := uc.jobRepo.FetchOpen(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return jobs, total, nil
}

// ListAllJobs returns one page of postings regardless of status
func (uc *jobUsecase) ListAllJobs(ctx context.Context, page, pageSize int) ([]domain.Job, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	jobs, total, err := uc.jobRepo.Fetch(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return jobs, total, nil
}

// ListCompanyJobs returns one page of the company's own postings
func (uc *jobUsecase) ListCompanyJobs(ctx context.Context, companyID uuid.UUID, page, pageSize int) ([]domain.Job, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	jobs, total, err := uc.jobRepo.FetchByCompanyID(ctx, companyID, limit, offset)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return jobs, total, nil
}

// UpdateJob saves changes to an open posting the company owns
func (uc *jobUsecase) UpdateJob(ctx context.Context, companyID uuid.UUID, job *domain.Job) error {
	// 1. Load and check ownership
	existing, err := uc.jobRepo.GetByID(ctx, job.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job posting not found")
		}
		return apperror.Internal(err)
	}
	if existing.CompanyID != companyID {
		return apperror.Forbidden("You do not own this job posting")
	}
	// 2. Closed postings are frozen
	if existing.Status == domain.JobClosed {
		return apperror.BadRequest("Cannot edit a closed job posting")
	}

	// 3. Validate and persist, keeping server-side fields intact
	if err := validateJobFields(job); err != nil {
		return err
	}
	job.CompanyID = existing.CompanyID
	job.Status = existing.Status
	job.PublishedAt = existing.PublishedAt
	job.ClosedAt = existing.ClosedAt

	if err := uc.jobRepo.Update(ctx, job); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job posting not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// CloseJob stops an open posting from accepting applications
func (uc *jobUsecase) CloseJob(ctx context.Context, companyID, id uuid.UUID) (*domain.Job, error) {
	job, err := uc.loadOwnedJob(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if !job.Close() {
		return nil, apperror.BadRequest("Job posting is already closed")
	}
	if err := uc.jobRepo.UpdateStatus(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// ReopenJob puts a closed posting back on the board
func (uc *jobUsecase) ReopenJob(ctx context.Context, companyID, id uuid.UUID) (*domain.Job, error) {
	job, err := uc.loadOwnedJob(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if !job.Reopen() {
		return nil, apperror.BadRequest("Job posting is already open")
	}
	if err := uc.jobRepo.UpdateStatus(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func (uc *jobUsecase) loadOwnedJob(ctx context.Context, companyID, id uuid.UUID) (*domain.Job, error) {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job posting not found")
		}
		return nil, apperror.Internal(err)
	}
	if job.CompanyID != companyID {
		return nil, apperror.Forbidden("You do not own this job posting")
	}
	return job, nil
}

func validateJobFields(job *domain.Job) error {
	if strings.TrimSpace(job.Title) == "" {
		return apperror.BadRequest("Title is required")
	}
	if strings.TrimSpace(job.Description) == "" {
		return apperror.BadRequest("Description is required")
	}
	if !domain.ValidContractType(job.ContractType) {
		return apperror.BadRequest("Unknown contract type")
	}
	if job.SalaryMin < 0 || job.SalaryMax < 0 {
		return apperror.BadRequest("Salary cannot be negative")
	}
	if job.SalaryMax > 0 && job.SalaryMin > job.SalaryMax {
		return apperror.BadRequest("Minimum salary cannot exceed maximum salary")
	}
	for _, req := range job.Requirements {
		if strings.TrimSpace(req.Description) == "" {
			return apperror.BadRequest("Requirement description cannot be empty")
		}
	}
	return nil
}
