package v1_test

import (
	"testing"

	v1 "go-talentflow-backend/internal/delivery/http/v1"
	"go-talentflow-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func newValidate() *validator.Validate {
	// gin's binding engine reads the "binding" tag, so mirror that here
	v := validator.New()
	v.SetTagName("binding")
	validation.RegisterValidators(v)
	return v
}

func TestStatusRequestValidation(t *testing.T) {
	v := newValidate()

	t.Run("Should accept known statuses including the legacy spelling", func(t *testing.T) {
		for _, status := range []string{"pending", "in_review", "accepted", "interview", "offer", "rejected", "rejection"} {
			assert.NoError(t, v.Struct(v1.UpdateStatusRequest{Status: status}), status)
		}
	})

	t.Run("Should reject an unknown status before it reaches the usecase", func(t *testing.T) {
		assert.Error(t, v.Struct(v1.UpdateStatusRequest{Status: "bogus"}))
		assert.Error(t, v.Struct(v1.ReviewRequest{Status: "archived"}))
	})
}

func TestDisplayNameValidation(t *testing.T) {
	v := newValidate()

	t.Run("Should accept professional names", func(t *testing.T) {
		assert.NoError(t, v.Struct(v1.CreateProfileRequest{Type: "company", DisplayName: "O'Neil & Sons (Consulting)"}))
	})

	t.Run("Should reject names with stray symbols", func(t *testing.T) {
		assert.Error(t, v.Struct(v1.CreateProfileRequest{Type: "company", DisplayName: "ACME <script>"}))
	})
}
