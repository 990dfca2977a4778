package postgres

import (
	"context"
	"fmt"
	"go-talentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application together with its initial timeline entry
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	_, err = tx.Exec(ctx, `
		INSERT INTO applications (id, candidate_id, job_id, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, app.ID, app.CandidateID, app.JobID, app.Status, app.Version, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}

	if err := insertMilestones(ctx, tx, app.ID, app.Timeline); err != nil {
		return err
	}
	if err := insertDocuments(ctx, tx, app.ID, app.Documents); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves an application with joined names and its full timeline
func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	query := `
		SELECT
			a.id, a.candidate_id, a.job_id, a.status, a.version, a.created_at, a.updated_at,
			cp.name as candidate_name,
			j.title as job_title,
			comp.name as company_name
		FROM applications a
		LEFT JOIN profiles cp ON a.candidate_id = cp.id
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN profiles comp ON j.company_id = comp.id
		WHERE a.id = $1`

	var app domain.Application
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.CandidateID, &app.JobID, &app.Status, &app.Version,
		&app.CreatedAt, &app.UpdatedAt,
		&app.CandidateName, &app.JobTitle, &app.CompanyName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	app.Timeline, err = r.fetchTimeline(ctx, id)
	if err != nil {
		return nil, err
	}
	app.Documents, err = r.fetchDocuments(ctx, id)
	if err != nil {
		return nil, err
	}

	return &app, nil
}

// FetchByCandidate retrieves all applications for a candidate with job titles
func (r *applicationRepo) FetchByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Application, error) {
	query := `
		SELECT
			a.id, a.candidate_id, a.job_id, a.status, a.version, a.created_at, a.updated_at,
			j.title as job_title,
			comp.name as company_name
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN profiles comp ON j.company_id = comp.id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID, &app.CandidateID, &app.JobID, &app.Status, &app.Version,
			&app.CreatedAt, &app.UpdatedAt,
			&app.JobTitle, &app.CompanyName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		applications = append(applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return applications, nil
}

// FetchByJob retrieves all applications for a job with candidate names
func (r *applicationRepo) FetchByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Application, error) {
	query := `
		SELECT
			a.id, a.candidate_id, a.job_id, a.status, a.version, a.created_at, a.updated_at,
			cp.name as candidate_name,
			j.title as job_title
		FROM applications a
		LEFT JOIN profiles cp ON a.candidate_id = cp.id
		LEFT JOIN jobs j ON a.job_id = j.id
		WHERE a.job_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID, &app.CandidateID, &app.JobID, &app.Status, &app.Version,
			&app.CreatedAt, &app.UpdatedAt,
			&app.CandidateName, &app.JobTitle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		applications = append(applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return applications, nil
}

// Exists checks if an application already exists for the job/candidate combination
func (r *applicationRepo) Exists(ctx context.Context, jobID, candidateID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, candidateID).Scan(&exists)
	return exists, err
}

// Save persists the aggregate's current status together with any timeline
// entries and documents appended since load. The update is guarded by the
// loaded version; a concurrent writer makes it fail with ErrVersionConflict
// and nothing is written.
func (r *applicationRepo) Save(ctx context.Context, app *domain.Application) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	result, err := tx.Exec(ctx, `
		UPDATE applications
		SET status = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4
	`, app.ID, app.Status, app.UpdatedAt, app.Version)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Either the row is gone or someone else bumped the version.
		var current int64
		err := tx.QueryRow(ctx, `SELECT version FROM applications WHERE id = $1`, app.ID).Scan(&current)
		if err == pgx.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check application version: %w", err)
		}
		return domain.ErrVersionConflict
	}

	if err := insertMilestones(ctx, tx, app.ID, app.Timeline); err != nil {
		return err
	}
	if err := insertDocuments(ctx, tx, app.ID, app.Documents); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	app.Version++
	return nil
}

// fetchTimeline loads milestones in insertion order
func (r *applicationRepo) fetchTimeline(ctx context.Context, applicationID uuid.UUID) ([]domain.Milestone, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, occurred_at, description
		FROM application_milestones
		WHERE application_id = $1
		ORDER BY seq ASC
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}
	defer rows.Close()

	var timeline []domain.Milestone
	for rows.Next() {
		var m domain.Milestone
		if err := rows.Scan(&m.ID, &m.OccurredAt, &m.Description); err != nil {
			return nil, fmt.Errorf("failed to scan milestone row: %w", err)
		}
		timeline = append(timeline, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestone rows: %w", err)
	}
	return timeline, nil
}

// fetchDocuments loads attached document references
func (r *applicationRepo) fetchDocuments(ctx context.Context, applicationID uuid.UUID) ([]domain.DocumentRef, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, content_type, url, uploaded_at
		FROM application_documents
		WHERE application_id = $1
		ORDER BY uploaded_at ASC
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentRef
	for rows.Next() {
		var d domain.DocumentRef
		if err := rows.Scan(&d.Name, &d.ContentType, &d.URL, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return docs, nil
}

// insertMilestones writes timeline entries. Milestone ids make the insert
// idempotent: entries already stored are skipped, so passing the whole
// timeline is safe.
func insertMilestones(ctx context.Context, tx pgx.Tx, applicationID uuid.UUID, timeline []domain.Milestone) error {
	for _, m := range timeline {
		_, err := tx.Exec(ctx, `
			INSERT INTO application_milestones (id, application_id, occurred_at, description)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, m.ID, applicationID, m.OccurredAt, m.Description)
		if err != nil {
			return fmt.Errorf("failed to insert milestone: %w", err)
		}
	}
	return nil
}

// insertDocuments writes document references, skipping ones already stored
func insertDocuments(ctx context.Context, tx pgx.Tx, applicationID uuid.UUID, docs []domain.DocumentRef) error {
	for _, d := range docs {
		_, err := tx.Exec(ctx, `
			INSERT INTO application_documents (application_id, name, content_type, url, uploaded_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (application_id, url) DO NOTHING
		`, applicationID, d.Name, d.ContentType, d.URL, d.UploadedAt)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}
	return nil
}
