package postgres

import (
	"context"
	"fmt"
	"go-talentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type feedbackRepo struct {
	db *pgxpool.Pool
}

func NewFeedbackRepository(db *pgxpool.Pool) domain.FeedbackRepository {
	return &feedbackRepo{db: db}
}

// Create inserts a feedback record
func (r *feedbackRepo) Create(ctx context.Context, fb *domain.Feedback) error {
	query := `
		INSERT INTO feedback (id, application_id, company_id, candidate_id, feedback_type, message, reject_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		fb.ID, fb.ApplicationID, fb.CompanyID, fb.CandidateID,
		fb.Type, fb.Message, fb.RejectReason, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// GetByID retrieves one feedback record
func (r *feedbackRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Feedback, error) {
	query := `
		SELECT id, application_id, company_id, candidate_id, feedback_type, message, reject_reason, created_at
		FROM feedback WHERE id = $1`

	var fb domain.Feedback
	err := r.db.QueryRow(ctx, query, id).Scan(
		&fb.ID, &fb.ApplicationID, &fb.CompanyID, &fb.CandidateID,
		&fb.Type, &fb.Message, &fb.RejectReason, &fb.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return &fb, nil
}

// FetchByApplication retrieves all feedback for one application, newest first
func (r *feedbackRepo) FetchByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.Feedback, error) {
	query := `
		SELECT id, application_id, company_id, candidate_id, feedback_type, message, reject_reason, created_at
		FROM feedback
		WHERE application_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feedback: %w", err)
	}
	defer rows.Close()

	var list []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(
			&fb.ID, &fb.ApplicationID, &fb.CompanyID, &fb.CandidateID,
			&fb.Type, &fb.Message, &fb.RejectReason, &fb.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		list = append(list, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return list, nil
}
