package token_test

import (
	"testing"
	"time"

	"go-talentflow-backend/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	m := token.NewManager("test-secret", 15*time.Minute, 24*time.Hour)
	accountID := uuid.New()

	t.Run("Should carry identity through an access token", func(t *testing.T) {
		signed, expiresAt, err := m.GenerateAccessToken(accountID, "dana@example.com", "candidate")
		assert.NoError(t, err)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := m.ParseAccessToken(signed)
		assert.NoError(t, err)
		assert.Equal(t, accountID.String(), claims.Subject)
		assert.Equal(t, "dana@example.com", claims.Email)
		assert.Equal(t, "candidate", claims.Role)
	})

	t.Run("Should keep refresh tokens out of the access slot", func(t *testing.T) {
		refresh, _, err := m.GenerateRefreshToken(accountID)
		assert.NoError(t, err)

		_, err = m.ParseAccessToken(refresh)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected token type")
	})

	t.Run("Should refuse a token signed with another secret", func(t *testing.T) {
		other := token.NewManager("other-secret", 15*time.Minute, 24*time.Hour)
		signed, _, err := other.GenerateAccessToken(accountID, "dana@example.com", "candidate")
		assert.NoError(t, err)

		_, err = m.ParseAccessToken(signed)
		assert.Error(t, err)
	})

	t.Run("Should refuse an expired token", func(t *testing.T) {
		short := token.NewManager("test-secret", -time.Minute, 24*time.Hour)
		signed, _, err := short.GenerateAccessToken(accountID, "dana@example.com", "candidate")
		assert.NoError(t, err)

		_, err = short.ParseAccessToken(signed)
		assert.Error(t, err)
	})

	t.Run("Should give every token a unique id", func(t *testing.T) {
		first, _, _ := m.GenerateRefreshToken(accountID)
		second, _, _ := m.GenerateRefreshToken(accountID)
		assert.NotEqual(t, first, second)
	})
}
