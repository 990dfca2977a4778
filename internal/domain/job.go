package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobStatus enumerates the publication states of a posting.
type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

// ContractType enumerates contract kinds offered with a posting.
type ContractType string

const (
	ContractFullTime   ContractType = "full_time"
	ContractPartTime   ContractType = "part_time"
	ContractTemporary  ContractType = "temporary"
	ContractFreelance  ContractType = "freelance"
	ContractInternship ContractType = "internship"
)

// ValidContractType reports whether t is a known contract type.
func ValidContractType(t ContractType) bool {
	switch t {
	case ContractFullTime, ContractPartTime, ContractTemporary, ContractFreelance, ContractInternship:
		return true
	}
	return false
}

// Requirement is one requirement attached to a posting.
type Requirement struct {
	Type        string `json:"type"` // experience, education, skill, ...
	Description string `json:"description"`
	Mandatory   bool   `json:"mandatory"`
}

// Job is a posting owned by a company profile. Core fields and requirements
// are mutable only while the posting is open.
type Job struct {
	ID           uuid.UUID     `json:"id"`
	CompanyID    uuid.UUID     `json:"company_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Location     string        `json:"location"`
	SalaryMin    float64       `json:"salary_min"`
	SalaryMax    float64       `json:"salary_max"`
	Currency     string        `json:"currency"`
	ContractType ContractType  `json:"contract_type"`
	Status       JobStatus     `json:"status"`
	Requirements []Requirement `json:"requirements"`
	PublishedAt  time.Time     `json:"published_at"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Joined data for list responses
	CompanyName *string `json:"company_name,omitempty"`
}

// AcceptsApplications reports whether candidates may currently apply.
func (j *Job) AcceptsApplications() bool {
	return j.Status == JobOpen
}

// Close moves an open posting to closed and stamps the closing time.
// Closing an already closed posting fails.
func (j *Job) Close() bool {
	if j.Status != JobOpen {
		return false
	}
	now := time.Now()
	j.Status = JobClosed
	j.ClosedAt = &now
	j.UpdatedAt = now
	return true
}

// Reopen moves a closed posting back to open. Reopening an open posting
// fails.
func (j *Job) Reopen() bool {
	if j.Status != JobClosed {
		return false
	}
	j.Status = JobOpen
	j.ClosedAt = nil
	j.UpdatedAt = time.Now()
	return true
}

// JobRepository defines data access methods for postings.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	FetchOpen(ctx context.Context, limit, offset int) ([]Job, int64, error)
	Fetch(ctx context.Context, limit, offset int) ([]Job, int64, error)
	FetchByCompanyID(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]Job, int64, error)
	Update(ctx context.Context, job *Job) error
	UpdateStatus(ctx context.Context, job *Job) error
}

// JobUsecase defines business logic for postings.
type JobUsecase interface {
	CreateJob(ctx context.Context, companyID uuid.UUID, job *Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
	ListOpenJobs(ctx context.Context, page, pageSize int) ([]Job, int64, error)
	ListAllJobs(ctx context.Context, page, pageSize int) ([]Job, int64, error)
	ListCompanyJobs(ctx context.Context, companyID uuid.UUID, page, pageSize int) ([]Job, int64, error)
	UpdateJob(ctx context.Context, companyID uuid.UUID, job *Job) error
	CloseJob(ctx context.Context, companyID, id uuid.UUID) (*Job, error)
	ReopenJob(ctx context.Context, companyID, id uuid.UUID) (*Job, error)
}
