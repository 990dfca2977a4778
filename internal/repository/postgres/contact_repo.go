package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-talentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contactRepo struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) domain.ContactRepository {
	return &contactRepo{db: db}
}

const contactColumns = `
	id, application_id, company_id, candidate_id, contact_type, content,
	contacted_at, read, created_at, updated_at`

// Create inserts a contact log entry
func (r *contactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, application_id, company_id, candidate_id, contact_type, content, contacted_at, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.ApplicationID, msg.CompanyID, msg.CandidateID,
		msg.Type, msg.Content, msg.ContactedAt, msg.Read,
		msg.CreatedAt, msg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact message: %w", err)
	}
	return nil
}

// GetByID retrieves one contact log entry
func (r *contactRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	query := `SELECT` + contactColumns + ` FROM contact_messages WHERE id = $1`

	var msg domain.ContactMessage
	err := r.db.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.ApplicationID, &msg.CompanyID, &msg.CandidateID,
		&msg.Type, &msg.Content, &msg.ContactedAt, &msg.Read,
		&msg.CreatedAt, &msg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch contact message: %w", err)
	}
	return &msg, nil
}

// FetchByApplication lists an application's contact log, newest contact
// first, optionally narrowed by type and read state
func (r *contactRepo) FetchByApplication(ctx context.Context, applicationID uuid.UUID, filter domain.ContactFilter) ([]domain.ContactMessage, error) {
	query := `SELECT` + contactColumns + ` FROM contact_messages WHERE application_id = $1`
	args := []interface{}{applicationID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND contact_type = $%d", len(args))
	}
	if filter.Read != nil {
		args = append(args, *filter.Read)
		query += fmt.Sprintf(" AND read = $%d", len(args))
	}
	query += " ORDER BY contacted_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ContactMessage
	for rows.Next() {
		var msg domain.ContactMessage
		if err := rows.Scan(
			&msg.ID, &msg.ApplicationID, &msg.CompanyID, &msg.CandidateID,
			&msg.Type, &msg.Content, &msg.ContactedAt, &msg.Read,
			&msg.CreatedAt, &msg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact message row: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact message rows: %w", err)
	}
	return messages, nil
}

// Update persists the mutable fields of a contact log entry
func (r *contactRepo) Update(ctx context.Context, msg *domain.ContactMessage) error {
	query := `
		UPDATE contact_messages
		SET contact_type = $2, content = $3, read = $4, updated_at = $5
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		msg.ID, msg.Type, msg.Content, msg.Read, msg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
