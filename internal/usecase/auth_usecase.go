package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"
	"go-talentflow-backend/pkg/email"
	"go-talentflow-backend/pkg/logger"
	"go-talentflow-backend/pkg/security"
	"go-talentflow-backend/pkg/token"
	"go-talentflow-backend/pkg/verification"

	"github.com/google/uuid"
)

type authUsecase struct {
	accountRepo domain.AccountRepository
	profileRepo domain.ProfileRepository
	tokenStore  domain.RefreshTokenStore
	tokens      *token.Manager
	tracker     *security.LoginTracker
	secLogger   *security.SecurityLogger
	mailer      *email.EmailService
	publisher   domain.EventPublisher
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	accountRepo domain.AccountRepository,
	profileRepo domain.ProfileRepository,
	tokenStore domain.RefreshTokenStore,
	tokens *token.Manager,
	tracker *security.LoginTracker,
	secLogger *security.SecurityLogger,
	mailer *email.EmailService,
	publisher domain.EventPublisher,
) domain.AuthUsecase {
	return &authUsecase{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		tokenStore:  tokenStore,
		tokens:      tokens,
		tracker:     tracker,
		secLogger:   secLogger,
		mailer:      mailer,
		publisher:   publisher,
	}
}

// Register creates an unverified account with a fresh profile and emails the
// verification code. Only candidate and company roles can self-register.
func (uc *authUsecase) Register(ctx context.Context, emailAddr, password, role string) (*domain.Account, error) {
	// 1. Validate role
	if role != domain.RoleCandidate && role != domain.RoleCompany {
		return nil, apperror.BadRequest("Role must be candidate or company")
	}
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	// 2. Reject duplicate email
	if _, err := uc.accountRepo.GetByEmail(ctx, emailAddr); err == nil {
		return nil, apperror.BadRequest("Email is already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	// 3. Hash credentials and generate the verification secret
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	secret, err := verification.NewSecret(emailAddr)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// 4. Create the backing profile
	profileType := domain.ProfileCandidate
	if role == domain.RoleCompany {
		profileType = domain.ProfileCompany
	}
	profile := &domain.Profile{
		ID:          uuid.New(),
		Type:        profileType,
		Status:      domain.ProfileActive,
		DisplayName: displayNameFromEmail(emailAddr),
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}

	// 5. Create the account
	account := &domain.Account{
		ID:                 uuid.New(),
		ProfileID:          profile.ID,
		Email:              emailAddr,
		PasswordHash:       hash,
		Role:               role,
		Status:             domain.AccountUnverified,
		VerificationSecret: secret,
	}
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.Internal(err)
	}

	// 6. Email the verification code (best effort, never blocks registration)
	uc.sendVerificationCode(account)

	return account, nil
}

// Login validates credentials, enforces throttling and suspension, and issues
// a token pair on success.
func (uc *authUsecase) Login(ctx context.Context, emailAddr, password, ip, userAgent string) (*domain.TokenPair, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	requestID := requestIDFrom(ctx)

	// 1. Short-circuit if the email or IP is temporarily blocked
	blocked, err := uc.tracker.IsBlocked(ctx, emailAddr, ip)
	if err != nil {
		logger.Log.Warn("login block check failed", "error", err.Error())
	}
	if blocked {
		uc.secLogger.LogLoginBlocked(ctx, emailAddr, ip, userAgent, requestID)
		return nil, apperror.Unauthorized("Too many failed attempts. Try again later.")
	}

	// 2. Load the account
	account, err := uc.accountRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Track the miss so enumeration attempts get throttled too
			if _, _, terr := uc.tracker.RecordFailedAttempt(ctx, emailAddr, ip, userAgent, requestID); terr != nil {
				logger.Log.Warn("failed to record login attempt", "error", terr.Error())
			}
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, apperror.Internal(err)
	}

	// 3. Suspended accounts cannot log in at all
	if account.Status == domain.AccountSuspended {
		return nil, apperror.Forbidden("Account is suspended")
	}

	// 4. Validate the password
	if !security.CheckPassword(account.PasswordHash, password) {
		uc.handleFailedLogin(ctx, account, ip, userAgent, requestID)
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	// 5. Success: reset counters and stamp the login
	account.RecordLogin()
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uc.tracker.ClearAttempts(ctx, emailAddr, ip); err != nil {
		logger.Log.Warn("failed to clear login attempts", "error", err.Error())
	}
	uc.secLogger.LogLoginSuccess(ctx, emailAddr, ip, userAgent, requestID)

	// 6. Issue tokens
	return uc.issueTokens(ctx, account)
}

// VerifyAccount redeems the emailed code and marks the account verified
func (uc *authUsecase) VerifyAccount(ctx context.Context, emailAddr, code string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	account, err := uc.accountRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Account not found")
		}
		return apperror.Internal(err)
	}

	if !verification.ValidateCode(code, account.VerificationSecret) {
		uc.secLogger.LogVerificationFailed(ctx, emailAddr, "", requestIDFrom(ctx))
		return apperror.BadRequest("Invalid or expired verification code")
	}

	if !account.MarkVerified() {
		return apperror.BadRequest("Account is already verified")
	}
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// RefreshTokens rotates a valid refresh token into a fresh pair
func (uc *authUsecase) RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := uc.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}
	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}

	// The token must still be whitelisted; rotation revokes older ones
	valid, err := uc.tokenStore.Validate(ctx, accountID, refreshToken)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !valid {
		return nil, apperror.Unauthorized("Refresh token is no longer valid")
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("Account not found")
		}
		return nil, apperror.Internal(err)
	}
	if account.Status == domain.AccountSuspended {
		return nil, apperror.Forbidden("Account is suspended")
	}

	return uc.issueTokens(ctx, account)
}

// VerifyToken validates an access token and returns the fresh account behind
// it. The account is always reloaded so role and status are never stale.
func (uc *authUsecase) VerifyToken(ctx context.Context, accessToken string) (*domain.Account, error) {
	claims, err := uc.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}
	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.Unauthorized("Account not found")
	}
	if account.Status == domain.AccountSuspended {
		return nil, apperror.Forbidden("Account is suspended")
	}
	return account, nil
}

// ChangePassword swaps the password after checking the current one and
// revokes the active refresh token so other sessions must log in again.
func (uc *authUsecase) ChangePassword(ctx context.Context, accountID uuid.UUID, current, next string) error {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Account not found")
		}
		return apperror.Internal(err)
	}

	if !security.CheckPassword(account.PasswordHash, current) {
		return apperror.BadRequest("Current password is incorrect")
	}
	if len(next) < 8 {
		return apperror.BadRequest("Password must be at least 8 characters")
	}

	hash, err := security.HashPassword(next)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := uc.accountRepo.UpdatePassword(ctx, accountID, hash); err != nil {
		return apperror.Internal(err)
	}

	if err := uc.tokenStore.Revoke(ctx, accountID); err != nil {
		logger.Log.Warn("failed to revoke refresh token", "account_id", accountID.String(), "error", err.Error())
	}

	uc.secLogger.Log(ctx, security.SecurityEvent{
		Event:        security.EventPasswordChanged,
		SubjectType:  "email",
		SubjectValue: security.MaskEmail(account.Email),
	})
	return nil
}

// GetAccount returns one account by id
func (uc *authUsecase) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Account not found")
		}
		return nil, apperror.Internal(err)
	}
	return account, nil
}

// GetAccountByEmail returns one account by email (admin lookups)
func (uc *authUsecase) GetAccountByEmail(ctx context.Context, emailAddr string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Account not found")
		}
		return nil, apperror.Internal(err)
	}
	return account, nil
}

// handleFailedLogin tracks the failure and suspends the account once the
// threshold is reached. Suspension is permanent until an admin intervenes,
// unlike the tracker's short-lived blocks.
func (uc *authUsecase) handleFailedLogin(ctx context.Context, account *domain.Account, ip, userAgent, requestID string) {
	if _, _, err := uc.tracker.RecordFailedAttempt(ctx, account.Email, ip, userAgent, requestID); err != nil {
		logger.Log.Warn("failed to record login attempt", "error", err.Error())
	}

	suspended := account.RecordFailedLogin()
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		logger.Log.Error("failed to persist failed login", "account_id", account.ID.String(), "error", err.Error())
		return
	}

	if suspended {
		uc.secLogger.LogAccountSuspended(ctx, account.Email, ip, requestID, account.FailedLogins)
		evt := domain.AccountSuspendedEvent{
			AccountID:  account.ID,
			Reason:     "too_many_failed_logins",
			OccurredAt: time.Now(),
		}
		if err := uc.publisher.Publish(ctx, evt); err != nil {
			logger.Log.Warn("failed to publish event", "channel", evt.Channel(), "error", err.Error())
		}
	}
}

func (uc *authUsecase) issueTokens(ctx context.Context, account *domain.Account) (*domain.TokenPair, error) {
	access, expiresAt, err := uc.tokens.GenerateAccessToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	refresh, _, err := uc.tokens.GenerateRefreshToken(account.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uc.tokenStore.Store(ctx, account.ID, refresh, uc.tokens.RefreshTTL()); err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// sendVerificationCode emails the current code in the background
func (uc *authUsecase) sendVerificationCode(account *domain.Account) {
	if !uc.mailer.IsConfigured() {
		logger.Log.Warn("smtp not configured, skipping verification email", "email", security.MaskEmail(account.Email))
		return
	}
	code, err := verification.CurrentCode(account.VerificationSecret)
	if err != nil {
		logger.Log.Error("failed to derive verification code", "error", err.Error())
		return
	}

	go func(to, code string) {
		// Request context may be gone by the time SMTP finishes
		if err := uc.mailer.SendVerificationEmail(to, email.VerificationEmailData{
			Code:         code,
			ValidMinutes: 10,
		}); err != nil {
			logger.Log.Error("failed to send verification email", "error", err.Error())
		}
	}(account.Email, code)
}

func displayNameFromEmail(emailAddr string) string {
	if at := strings.Index(emailAddr, "@"); at > 0 {
		return emailAddr[:at]
	}
	return emailAddr
}

// requestIDFrom pulls the request id out of the context when the HTTP layer
// put one there
func requestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(domain.KeyRequestID).(string); ok {
		return v
	}
	return ""
}
