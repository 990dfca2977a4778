package domain_test

import (
	"testing"

	"go-talentflow-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackReasonRule(t *testing.T) {
	reason := "Position filled internally"
	empty := ""

	t.Run("Should require a reason for rejections only", func(t *testing.T) {
		fb := &domain.Feedback{Type: domain.FeedbackRejection}
		assert.False(t, fb.HasValidReason())

		fb.RejectReason = &empty
		assert.False(t, fb.HasValidReason())

		fb.RejectReason = &reason
		assert.True(t, fb.HasValidReason())
	})

	t.Run("Should not require a reason for the other types", func(t *testing.T) {
		for _, ft := range []domain.FeedbackType{domain.FeedbackApproval, domain.FeedbackComment, domain.FeedbackOther} {
			fb := &domain.Feedback{Type: ft}
			assert.True(t, fb.HasValidReason(), "type %s", ft)
		}
	})
}

func TestFormattedMessage(t *testing.T) {
	t.Run("Should congratulate on approval", func(t *testing.T) {
		fb := &domain.Feedback{Type: domain.FeedbackApproval, Message: "You got the job"}
		assert.Equal(t, "Congratulations! You got the job", fb.FormattedMessage())
	})

	t.Run("Should apologize and name the reason on rejection", func(t *testing.T) {
		reason := "Position filled internally"
		fb := &domain.Feedback{Type: domain.FeedbackRejection, Message: "Thank you for applying", RejectReason: &reason}
		assert.Equal(t, "We are sorry. Thank you for applying. Reason: Position filled internally", fb.FormattedMessage())
	})

	t.Run("Should pass comments through unchanged", func(t *testing.T) {
		fb := &domain.Feedback{Type: domain.FeedbackComment, Message: "We will be in touch"}
		assert.Equal(t, "We will be in touch", fb.FormattedMessage())
	})
}

func TestParseFeedbackType(t *testing.T) {
	t.Run("Should accept the four known types", func(t *testing.T) {
		for _, raw := range []string{"approval", "rejection", "comment", "other"} {
			parsed, ok := domain.ParseFeedbackType(raw)
			assert.True(t, ok)
			assert.Equal(t, domain.FeedbackType(raw), parsed)
		}
	})

	t.Run("Should refuse anything else", func(t *testing.T) {
		for _, raw := range []string{"", "praise", "Approval"} {
			_, ok := domain.ParseFeedbackType(raw)
			assert.False(t, ok, "parsed %q", raw)
		}
	})
}
