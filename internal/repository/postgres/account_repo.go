package postgres

import (
	"context"
	"fmt"
	"go-talentflow-backend/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type accountRepo struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &accountRepo{db: db}
}

const accountColumns = `
	id, profile_id, email, password_hash, role, status, verification_secret,
	failed_logins, verified_at, last_login_at, created_at, updated_at`

// Create inserts a new account
func (r *accountRepo) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, profile_id, email, password_hash, role, status, verification_secret, failed_logins, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		account.ID,
		account.ProfileID,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.VerificationSecret,
		account.FailedLogins,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves an account by email
func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

// GetByProfileID retrieves the account behind a profile
func (r *accountRepo) GetByProfileID(ctx context.Context, profileID uuid.UUID) (*domain.Account, error) {
	query := `SELECT` + accountColumns + ` FROM accounts WHERE profile_id = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, profileID))
}

// Update persists login state, verification state and status changes
func (r *accountRepo) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET status = $2, failed_logins = $3, verified_at = $4, last_login_at = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		account.ID,
		account.Status,
		account.FailedLogins,
		account.VerifiedAt,
		account.LastLoginAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *accountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepo) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID, &account.ProfileID, &account.Email, &account.PasswordHash,
		&account.Role, &account.Status, &account.VerificationSecret,
		&account.FailedLogins, &account.VerifiedAt, &account.LastLoginAt,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
