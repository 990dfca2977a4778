package postgres

import (
	"context"
	"fmt"
	"go-talentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	query := `INSERT INTO jobs (id, company_id, title, description, location, salary_min, salary_max, currency, contract_type, status, published_at, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = tx.Exec(ctx, query,
		job.ID, job.CompanyID, job.Title, job.Description, job.Location,
		job.SalaryMin, job.SalaryMax, job.Currency, job.ContractType, job.Status,
		job.PublishedAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	if err := replaceRequirements(ctx, tx, job.ID, job.Requirements); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a job with company name and its requirements
func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query := `
		SELECT
			j.id, j.company_id, j.title, j.description, j.location,
			j.salary_min, j.salary_max, j.currency, j.contract_type, j.status,
			j.published_at, j.closed_at, j.created_at, j.updated_at,
			cp.name as company_name
		FROM jobs j
		LEFT JOIN profiles cp ON j.company_id = cp.id
		WHERE j.id = $1`

	var job domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.CompanyID, &job.Title, &job.Description, &job.Location,
		&job.SalaryMin, &job.SalaryMax, &job.Currency, &job.ContractType, &job.Status,
		&job.PublishedAt, &job.ClosedAt, &job.CreatedAt, &job.UpdatedAt,
		&job.CompanyName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job.Requirements, err = r.fetchRequirements(ctx, id)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// FetchOpen retrieves open postings for public/candidate pages
// The 'open' filter is hardcoded - no client-side bypass possible
func (r *jobRepo) FetchOpen(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	query := `
		SELECT
			j.id, j.company_id, j.title, j.description, j.location,
			j.salary_min, j.salary_max, j.currency, j.contract_type, j.status,
			j.published_at, j.closed_at, j.created_at, j.updated_at,
			cp.name as company_name
		FROM jobs j
		LEFT JOIN profiles cp ON j.company_id = cp.id
		WHERE j.status = 'open'
		ORDER BY j.published_at DESC
		LIMIT $1 OFFSET $2`

	jobs, err := r.queryJobs(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE status = 'open'`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// Fetch retrieves all postings regardless of status (admin view)
func (r *jobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	query := `
		SELECT
			j.id, j.company_id, j.title, j.description, j.location,
			j.salary_min, j.salary_max, j.currency, j.contract_type, j.status,
			j.published_at, j.closed_at, j.created_at, j.updated_at,
			cp.name as company_name
		FROM jobs j
		LEFT JOIN profiles cp ON j.company_id = cp.id
		ORDER BY j.created_at DESC
		LIMIT $1 OFFSET $2`

	jobs, err := r.queryJobs(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// FetchByCompanyID retrieves postings for a specific company (employer's postings only)
func (r *jobRepo) FetchByCompanyID(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]domain.Job, int64, error) {
	query := `
		SELECT
			j.id, j.company_id, j.title, j.description, j.location,
			j.salary_min, j.salary_max, j.currency, j.contract_type, j.status,
			j.published_at, j.closed_at, j.created_at, j.updated_at,
			cp.name as company_name
		FROM jobs j
		LEFT JOIN profiles cp ON j.company_id = cp.id
		WHERE j.company_id = $1
		ORDER BY j.created_at DESC
		LIMIT $2 OFFSET $3`

	jobs, err := r.queryJobs(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// Update persists core fields and replaces the requirement list
func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	query := `UPDATE jobs SET
		title = $2,
		description = $3,
		location = $4,
		salary_min = $5,
		salary_max = $6,
		currency = $7,
		contract_type = $8,
		updated_at = $9
	WHERE id = $1`
	result, err := tx.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Location,
		job.SalaryMin, job.SalaryMax, job.Currency, job.ContractType,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := replaceRequirements(ctx, tx, job.ID, job.Requirements); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateStatus persists open/closed state changes
func (r *jobRepo) UpdateStatus(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET status = $2, closed_at = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, job.ID, job.Status, job.ClosedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) queryJobs(ctx context.Context, query string, args ...interface{}) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID, &job.CompanyID, &job.Title, &job.Description, &job.Location,
			&job.SalaryMin, &job.SalaryMax, &job.Currency, &job.ContractType, &job.Status,
			&job.PublishedAt, &job.ClosedAt, &job.CreatedAt, &job.UpdatedAt,
			&job.CompanyName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}
	return jobs, nil
}

func (r *jobRepo) fetchRequirements(ctx context.Context, jobID uuid.UUID) ([]domain.Requirement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT req_type, description, mandatory
		FROM job_requirements
		WHERE job_id = $1
		ORDER BY position ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requirements: %w", err)
	}
	defer rows.Close()

	var reqs []domain.Requirement
	for rows.Next() {
		var req domain.Requirement
		if err := rows.Scan(&req.Type, &req.Description, &req.Mandatory); err != nil {
			return nil, fmt.Errorf("failed to scan requirement row: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requirement rows: %w", err)
	}
	return reqs, nil
}

// replaceRequirements clears and re-inserts the requirement list (idempotent)
func replaceRequirements(ctx context.Context, tx pgx.Tx, jobID uuid.UUID, reqs []domain.Requirement) error {
	_, err := tx.Exec(ctx, `DELETE FROM job_requirements WHERE job_id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to clear existing requirements: %w", err)
	}

	for i, req := range reqs {
		_, err = tx.Exec(ctx, `
			INSERT INTO job_requirements (job_id, req_type, description, mandatory, position)
			VALUES ($1, $2, $3, $4, $5)
		`, jobID, req.Type, req.Description, req.Mandatory, i)
		if err != nil {
			return fmt.Errorf("failed to insert requirement: %w", err)
		}
	}
	return nil
}
