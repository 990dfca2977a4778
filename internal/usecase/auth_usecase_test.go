package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-talentflow-backend/config"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/internal/usecase"
	"go-talentflow-backend/pkg/email"
	"go-talentflow-backend/pkg/security"
	"go-talentflow-backend/pkg/token"
	"go-talentflow-backend/pkg/verification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type authEnv struct {
	accountRepo *MockAccountRepo
	profileRepo *MockProfileRepo
	tokenStore  *MockTokenStore
	publisher   *MockPublisher
	tokens      *token.Manager
	uc          domain.AuthUsecase
}

func newAuthEnv() *authEnv {
	env := &authEnv{
		accountRepo: new(MockAccountRepo),
		profileRepo: new(MockProfileRepo),
		tokenStore:  new(MockTokenStore),
		publisher:   quietPublisher(),
		tokens:      token.NewManager("test-secret", 15*time.Minute, 24*time.Hour),
	}
	env.uc = usecase.NewAuthUsecase(
		env.accountRepo,
		env.profileRepo,
		env.tokenStore,
		env.tokens,
		security.NewLoginTracker(security.DefaultLoginTrackerConfig()),
		security.DefaultLogger(),
		email.NewEmailService(&config.Config{}), // SMTP unset, emails are skipped
		env.publisher,
	)
	return env
}

func verifiedAccount(emailAddr, password string) *domain.Account {
	hash, _ := security.HashPassword(password)
	return &domain.Account{
		ID:           uuid.New(),
		ProfileID:    uuid.New(),
		Email:        emailAddr,
		PasswordHash: hash,
		Role:         domain.RoleCandidate,
		Status:       domain.AccountVerified,
	}
}

func TestRegister(t *testing.T) {
	t.Run("Should create an unverified account with a matching profile", func(t *testing.T) {
		env := newAuthEnv()
		env.accountRepo.On("GetByEmail", mock.Anything, "dana@example.com").Return(nil, domain.ErrNotFound)
		env.profileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil).Run(func(args mock.Arguments) {
			p := args.Get(1).(*domain.Profile)
			assert.Equal(t, domain.ProfileCandidate, p.Type)
			assert.Equal(t, "dana", p.DisplayName)
		})
		env.accountRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)

		account, err := env.uc.Register(context.Background(), "Dana@Example.com", "password123", "candidate")
		assert.NoError(t, err)
		assert.Equal(t, "dana@example.com", account.Email)
		assert.Equal(t, domain.AccountUnverified, account.Status)
		assert.NotEmpty(t, account.VerificationSecret)
		assert.NotEqual(t, "password123", account.PasswordHash)
		assert.True(t, security.CheckPassword(account.PasswordHash, "password123"))
		env.profileRepo.AssertExpectations(t)
	})

	t.Run("Should refuse a duplicate email", func(t *testing.T) {
		env := newAuthEnv()
		env.accountRepo.On("GetByEmail", mock.Anything, "dana@example.com").Return(verifiedAccount("dana@example.com", "x"), nil)

		_, err := env.uc.Register(context.Background(), "dana@example.com", "password123", "candidate")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
		env.accountRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Should refuse self-registration as admin", func(t *testing.T) {
		env := newAuthEnv()

		_, err := env.uc.Register(context.Background(), "dana@example.com", "password123", "admin")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "candidate or company")
		env.accountRepo.AssertNotCalled(t, "GetByEmail")
	})
}

func TestLogin(t *testing.T) {
	t.Run("Should issue a token pair on valid credentials", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "password123")
		env.accountRepo.On("GetByEmail", mock.Anything, "dana@example.com").Return(account, nil)
		env.accountRepo.On("Update", mock.Anything, account).Return(nil)
		env.tokenStore.On("Store", mock.Anything, account.ID, mock.AnythingOfType("string"), 24*time.Hour).Return(nil)

		pair, err := env.uc.Login(context.Background(), "dana@example.com", "password123", "203.0.113.7", "go-test")
		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.True(t, pair.ExpiresAt.After(time.Now()))
		assert.NotNil(t, account.LastLoginAt)
		assert.Equal(t, 0, account.FailedLogins)
		env.tokenStore.AssertExpectations(t)
	})

	t.Run("Should count a wrong password against the account", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "password123")
		env.accountRepo.On("GetByEmail", mock.Anything, "dana@example.com").Return(account, nil)
		env.accountRepo.On("Update", mock.Anything, account).Return(nil)

		_, err := env.uc.Login(context.Background(), "dana@example.com", "wrong", "203.0.113.7", "go-test")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email or password")
		assert.Equal(t, 1, account.FailedLogins)
		assert.Equal(t, domain.AccountVerified, account.Status)
		env.publisher.AssertNotCalled(t, "Publish")
	})

	t.Run("Should suspend the account on the fifth failure", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "password123")
		account.FailedLogins = domain.MaxFailedLogins - 1
		env.accountRepo.On("GetByEmail", mock.Anything, "dana@example.com").Return(account, nil)
		env.accountRepo.On("Update", mock.Anything, account).Return(nil)

		_, err := env.uc.Login(context.Background(), "dana@example.com", "wrong", "203.0.113.7", "go-test")
		assert.Error(t, err)
		assert.Equal(t, domain.AccountSuspended, account.Status)
		env.publisher.AssertCalled(t, "Publish", mock.Anything, mock.AnythingOfType("domain.AccountSuspendedEvent"))
	})

	t.Run("Should refuse a suspended account outright", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "password123")
		account.Status = domain.AccountSuspended
		env.accountRepo.On("GetByEmail", mock.Anything, "dana@example.com").Return(account, nil)

		_, err := env.uc.Login(context.Background(), "dana@example.com", "password123", "203.0.113.7", "go-test")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "suspended")
		env.accountRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Should not reveal whether the email exists", func(t *testing.T) {
		env := newAuthEnv()
		env.accountRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

		_, err := env.uc.Login(context.Background(), "ghost@example.com", "password123", "203.0.113.7", "go-test")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email or password")
	})
}

func TestVerifyAccount(t *testing.T) {
	t.Run("Should verify with the emailed code exactly once", func(t *testing.T) {
		env := newAuthEnv()
		secret, err := verification.NewSecret("dana@example.com")
		assert.NoError(t, err)

		account := verifiedAccount("dana@example.com", "password123")
		account.Status = domain.AccountUnverified
		account.VerificationSecret = secret
		env.accountRepo.On("GetByEmail", mock.Anything, "dana@example.com").Return(account, nil)
		env.accountRepo.On("Update", mock.Anything, account).Return(nil)

		code, err := verification.CurrentCode(secret)
		assert.NoError(t, err)

		assert.NoError(t, env.uc.VerifyAccount(context.Background(), "dana@example.com", code))
		assert.Equal(t, domain.AccountVerified, account.Status)
		assert.NotNil(t, account.VerifiedAt)

		// Second time fails: already verified
		err = env.uc.VerifyAccount(context.Background(), "dana@example.com", code)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already verified")
	})

	t.Run("Should reject a wrong code", func(t *testing.T) {
		env := newAuthEnv()
		secret, _ := verification.NewSecret("dana@example.com")
		account := verifiedAccount("dana@example.com", "password123")
		account.Status = domain.AccountUnverified
		account.VerificationSecret = secret
		env.accountRepo.On("GetByEmail", mock.Anything, "dana@example.com").Return(account, nil)

		err := env.uc.VerifyAccount(context.Background(), "dana@example.com", "12345")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid or expired verification code")
		assert.Equal(t, domain.AccountUnverified, account.Status)
	})
}

func TestRefreshTokens(t *testing.T) {
	t.Run("Should rotate a whitelisted refresh token", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "password123")
		refresh, _, err := env.tokens.GenerateRefreshToken(account.ID)
		assert.NoError(t, err)

		env.tokenStore.On("Validate", mock.Anything, account.ID, refresh).Return(true, nil)
		env.accountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)
		env.tokenStore.On("Store", mock.Anything, account.ID, mock.AnythingOfType("string"), 24*time.Hour).Return(nil)

		pair, err := env.uc.RefreshTokens(context.Background(), refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEqual(t, refresh, pair.RefreshToken)
	})

	t.Run("Should refuse a token that was revoked", func(t *testing.T) {
		env := newAuthEnv()
		accountID := uuid.New()
		refresh, _, _ := env.tokens.GenerateRefreshToken(accountID)
		env.tokenStore.On("Validate", mock.Anything, accountID, refresh).Return(false, nil)

		_, err := env.uc.RefreshTokens(context.Background(), refresh)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer valid")
	})

	t.Run("Should refuse an access token in the refresh slot", func(t *testing.T) {
		env := newAuthEnv()
		access, _, _ := env.tokens.GenerateAccessToken(uuid.New(), "dana@example.com", "candidate")

		_, err := env.uc.RefreshTokens(context.Background(), access)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid refresh token")
	})
}

func TestVerifyToken(t *testing.T) {
	t.Run("Should resolve a valid access token to the fresh account", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "password123")
		access, _, _ := env.tokens.GenerateAccessToken(account.ID, account.Email, account.Role)
		env.accountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)

		got, err := env.uc.VerifyToken(context.Background(), access)
		assert.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("Should refuse garbage", func(t *testing.T) {
		env := newAuthEnv()

		_, err := env.uc.VerifyToken(context.Background(), "not-a-jwt")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid token")
	})

	t.Run("Should refuse a token for a suspended account", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "password123")
		access, _, _ := env.tokens.GenerateAccessToken(account.ID, account.Email, account.Role)
		account.Status = domain.AccountSuspended
		env.accountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)

		_, err := env.uc.VerifyToken(context.Background(), access)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "suspended")
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("Should swap the password and revoke the session", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "oldpassword")
		env.accountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)
		env.accountRepo.On("UpdatePassword", mock.Anything, account.ID, mock.AnythingOfType("string")).Return(nil).Run(func(args mock.Arguments) {
			newHash := args.String(2)
			assert.True(t, security.CheckPassword(newHash, "newpassword1"))
		})
		env.tokenStore.On("Revoke", mock.Anything, account.ID).Return(nil)

		err := env.uc.ChangePassword(context.Background(), account.ID, "oldpassword", "newpassword1")
		assert.NoError(t, err)
		env.tokenStore.AssertExpectations(t)
	})

	t.Run("Should refuse a wrong current password", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "oldpassword")
		env.accountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)

		err := env.uc.ChangePassword(context.Background(), account.ID, "nope", "newpassword1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Current password is incorrect")
		env.accountRepo.AssertNotCalled(t, "UpdatePassword")
	})

	t.Run("Should refuse a short replacement", func(t *testing.T) {
		env := newAuthEnv()
		account := verifiedAccount("dana@example.com", "oldpassword")
		env.accountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)

		err := env.uc.ChangePassword(context.Background(), account.ID, "oldpassword", "short")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})
}
