package domain_test

import (
	"testing"
	"time"

	"go-talentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseContactType(t *testing.T) {
	t.Run("Should accept every enumerated type", func(t *testing.T) {
		for _, s := range []string{"email", "call", "interview", "other"} {
			parsed, ok := domain.ParseContactType(s)
			assert.True(t, ok, s)
			assert.Equal(t, domain.ContactType(s), parsed)
		}
	})

	t.Run("Should reject anything else", func(t *testing.T) {
		for _, s := range []string{"", "sms", "EMAIL", "feedback"} {
			_, ok := domain.ParseContactType(s)
			assert.False(t, ok, s)
		}
	})
}

func TestNewContactMessage(t *testing.T) {
	appID, companyID, candidateID := uuid.New(), uuid.New(), uuid.New()

	t.Run("Should start unread with the given contact time", func(t *testing.T) {
		at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		msg := domain.NewContactMessage(appID, companyID, candidateID, domain.ContactCall, "Phone screen held", at)

		assert.False(t, msg.Read)
		assert.Equal(t, at, msg.ContactedAt)
		assert.Equal(t, domain.ContactCall, msg.Type)
		assert.NotEqual(t, uuid.Nil, msg.ID)
	})

	t.Run("Should default a zero contact time to now", func(t *testing.T) {
		msg := domain.NewContactMessage(appID, companyID, candidateID, domain.ContactEmail, "Sent availability email", time.Time{})
		assert.WithinDuration(t, time.Now(), msg.ContactedAt, time.Second)
	})
}

func TestMarkContactRead(t *testing.T) {
	msg := domain.NewContactMessage(uuid.New(), uuid.New(), uuid.New(), domain.ContactEmail, "Intro email", time.Time{})

	t.Run("Should flip the flag once", func(t *testing.T) {
		assert.True(t, msg.MarkRead())
		assert.True(t, msg.Read)
	})

	t.Run("Should report no change when already read", func(t *testing.T) {
		assert.False(t, msg.MarkRead())
		assert.True(t, msg.Read)
	})
}

func TestAmendContact(t *testing.T) {
	msg := domain.NewContactMessage(uuid.New(), uuid.New(), uuid.New(), domain.ContactEmail, "Draft note", time.Time{})
	msg.MarkRead()

	msg.Amend(domain.ContactInterview, "On-site interview held")

	assert.Equal(t, domain.ContactInterview, msg.Type)
	assert.Equal(t, "On-site interview held", msg.Content)
	assert.True(t, msg.Read, "amending must not reset the read flag")
}
