package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account roles
const (
	RoleCandidate = "candidate"
	RoleCompany   = "company"
	RoleAdmin     = "admin"
	RoleReviewer  = "reviewer"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCandidate, RoleCompany, RoleAdmin, RoleReviewer:
		return true
	}
	return false
}

// AccountStatus enumerates account lifecycle states.
type AccountStatus string

const (
	AccountUnverified AccountStatus = "unverified"
	AccountVerified   AccountStatus = "verified"
	AccountActive     AccountStatus = "active"
	AccountInactive   AccountStatus = "inactive"
	AccountSuspended  AccountStatus = "suspended"
)

// MaxFailedLogins is the number of consecutive failed login attempts after
// which an account is suspended.
const MaxFailedLogins = 5

// Account is a platform login identity linked to one profile.
type Account struct {
	ID                 uuid.UUID     `json:"id"`
	ProfileID          uuid.UUID     `json:"profile_id"`
	Email              string        `json:"email"`
	PasswordHash       string        `json:"-"`
	Role               string        `json:"role"`
	Status             AccountStatus `json:"status"`
	VerificationSecret string        `json:"-"`
	FailedLogins       int           `json:"-"`
	VerifiedAt         *time.Time    `json:"verified_at,omitempty"`
	LastLoginAt        *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// RecordFailedLogin bumps the failed-attempt counter and suspends the account
// once MaxFailedLogins is reached. It reports whether this call suspended the
// account.
func (a *Account) RecordFailedLogin() bool {
	a.FailedLogins++
	a.UpdatedAt = time.Now()
	if a.FailedLogins >= MaxFailedLogins && a.Status != AccountSuspended {
		a.Status = AccountSuspended
		return true
	}
	return false
}

// RecordLogin resets the failed-attempt counter and stamps the login time.
func (a *Account) RecordLogin() {
	now := time.Now()
	a.FailedLogins = 0
	a.LastLoginAt = &now
	a.UpdatedAt = now
}

// MarkVerified flips the account to verified. Verifying twice fails.
func (a *Account) MarkVerified() bool {
	if a.Status == AccountVerified {
		return false
	}
	now := time.Now()
	a.Status = AccountVerified
	a.VerifiedAt = &now
	a.UpdatedAt = now
	return true
}

// TokenPair is the result of a successful login or token refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AccountRepository defines data access methods for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByProfileID(ctx context.Context, profileID uuid.UUID) (*Account, error)
	Update(ctx context.Context, account *Account) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// RefreshTokenStore tracks the refresh token currently valid for an account.
// Storing a new token replaces the previous one; revoking removes it.
type RefreshTokenStore interface {
	Store(ctx context.Context, accountID uuid.UUID, token string, ttl time.Duration) error
	Validate(ctx context.Context, accountID uuid.UUID, token string) (bool, error)
	Revoke(ctx context.Context, accountID uuid.UUID) error
}

// AuthUsecase defines business logic for account management and sessions.
type AuthUsecase interface {
	Register(ctx context.Context, email, password, role string) (*Account, error)
	Login(ctx context.Context, email, password, ip, userAgent string) (*TokenPair, error)
	VerifyAccount(ctx context.Context, email, code string) error
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
	VerifyToken(ctx context.Context, accessToken string) (*Account, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, current, next string) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
}
