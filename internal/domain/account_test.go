package domain_test

import (
	"testing"

	"go-talentflow-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRecordFailedLogin(t *testing.T) {
	t.Run("Should suspend exactly at the threshold", func(t *testing.T) {
		account := &domain.Account{Status: domain.AccountVerified}

		for i := 1; i < domain.MaxFailedLogins; i++ {
			assert.False(t, account.RecordFailedLogin(), "attempt %d", i)
			assert.NotEqual(t, domain.AccountSuspended, account.Status)
		}
		assert.True(t, account.RecordFailedLogin())
		assert.Equal(t, domain.AccountSuspended, account.Status)
		assert.Equal(t, domain.MaxFailedLogins, account.FailedLogins)
	})

	t.Run("Should not report a second suspension", func(t *testing.T) {
		account := &domain.Account{Status: domain.AccountSuspended, FailedLogins: domain.MaxFailedLogins}
		assert.False(t, account.RecordFailedLogin())
	})
}

func TestRecordLogin(t *testing.T) {
	t.Run("Should reset the failure counter and stamp the login", func(t *testing.T) {
		account := &domain.Account{Status: domain.AccountVerified, FailedLogins: 3}
		account.RecordLogin()
		assert.Equal(t, 0, account.FailedLogins)
		assert.NotNil(t, account.LastLoginAt)
	})
}

func TestMarkVerified(t *testing.T) {
	t.Run("Should verify once and refuse the second time", func(t *testing.T) {
		account := &domain.Account{Status: domain.AccountUnverified}

		assert.True(t, account.MarkVerified())
		assert.Equal(t, domain.AccountVerified, account.Status)
		assert.NotNil(t, account.VerifiedAt)

		assert.False(t, account.MarkVerified())
	})
}

func TestValidRole(t *testing.T) {
	t.Run("Should know the four platform roles", func(t *testing.T) {
		for _, role := range []string{"candidate", "company", "admin", "reviewer"} {
			assert.True(t, domain.ValidRole(role), "role %s", role)
		}
		assert.False(t, domain.ValidRole("superuser"))
		assert.False(t, domain.ValidRole(""))
	})
}
